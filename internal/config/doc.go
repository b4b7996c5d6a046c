// Package config provides configuration management for divstreak.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later ones
// overriding earlier ones:
//
//	1. Default values (Default)
//	2. A YAML file: $DIVSTREAK_CONFIG, divstreak.yaml or configs/divstreak.yaml
//	3. Environment variables
//
// # Environment Variables
//
// Variables follow the struct layout under the DIVSTREAK prefix:
//
//	DIVSTREAK_SERVER_PORT=8080
//	DIVSTREAK_SOURCE_DRIVER=sqlite
//	DIVSTREAK_SOURCE_DSN=file:dividends.db
//	DIVSTREAK_SOURCE_PATHS=data/prime.csv,data/standard.csv
//	DIVSTREAK_RANKING_CACHE_TTL=5m
//	DIVSTREAK_LOGGING_LEVEL=debug
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config

package config

import "time"

// Application constants
const (
	AppName    = "divstreak"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces environment variables, e.g. DIVSTREAK_SERVER_PORT.
	EnvPrefix = "DIVSTREAK"

	// Source drivers
	DriverCSV      = "csv"
	DriverXLSX     = "xlsx"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DefaultSourcePath  = "data/dividend_history.csv"
	DefaultSourceQuery = "SELECT * FROM dividend_history"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	DefaultRequestTimeout = 30 * time.Second

	// Cache Settings
	DataCacheDuration = 15 * time.Minute

	// Ranking presentation
	DefaultMinStreak = 3
	DefaultMaxLimit  = 10000

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogFile   = "logs/divstreak.log"
)

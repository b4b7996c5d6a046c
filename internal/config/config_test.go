package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "divstreak.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoadFile tests loading with various env and file combinations
func TestLoadFile(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(t *testing.T)
		fileContent string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env vars or file",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, 1048576, cfg.Server.MaxHeaderBytes)
				assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)

				assert.True(t, cfg.Security.RateLimit.Enabled)
				assert.Equal(t, 100.0, cfg.Security.RateLimit.RPS)
				assert.Equal(t, 50, cfg.Security.RateLimit.Burst)

				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "console", cfg.Logging.Output)

				assert.Equal(t, "", cfg.Source.Driver)
				assert.Equal(t, []string{DefaultSourcePath}, cfg.Source.Paths)
				assert.Equal(t, DefaultSourceQuery, cfg.Source.Query)

				assert.Equal(t, 3, cfg.Ranking.DefaultMinStreak)
				assert.Equal(t, 15*time.Minute, cfg.Ranking.CacheTTL)
				assert.Equal(t, 10000, cfg.Ranking.MaxLimit)

				assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
				assert.Equal(t, "prometheus", cfg.Telemetry.MetricExporter)
			},
		},
		{
			name: "environment variables",
			setupEnv: func(t *testing.T) {
				t.Setenv("DIVSTREAK_SERVER_PORT", "9090")
				t.Setenv("DIVSTREAK_SERVER_READ_TIMEOUT", "30s")
				t.Setenv("DIVSTREAK_LOGGING_LEVEL", "debug")
				t.Setenv("DIVSTREAK_LOGGING_FORMAT", "text")
				t.Setenv("DIVSTREAK_SOURCE_PATHS", "a.csv,b.xlsx")
				t.Setenv("DIVSTREAK_RANKING_CACHE_TTL", "5m")
				t.Setenv("DIVSTREAK_RANKING_DEFAULT_MIN_STREAK", "10")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format) // forced by validate
				assert.Equal(t, []string{"a.csv", "b.xlsx"}, cfg.Source.Paths)
				assert.Equal(t, 5*time.Minute, cfg.Ranking.CacheTTL)
				assert.Equal(t, 10, cfg.Ranking.DefaultMinStreak)
			},
		},
		{
			name: "file overrides defaults",
			fileContent: `
server:
  port: 7070
source:
  driver: SQLite
  dsn: file:dividends.db
ranking:
  cache_ttl: 1m
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, DriverSQLite, cfg.Source.Driver)
				assert.Equal(t, "file:dividends.db", cfg.Source.DSN)
				assert.Equal(t, time.Minute, cfg.Ranking.CacheTTL)
				// Untouched sections keep their defaults
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, DefaultSourceQuery, cfg.Source.Query)
			},
		},
		{
			name: "env overrides file",
			setupEnv: func(t *testing.T) {
				t.Setenv("DIVSTREAK_SERVER_PORT", "6060")
			},
			fileContent: "server:\n  port: 7070\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 6060, cfg.Server.Port)
			},
		},
		{
			name: "invalid port number",
			setupEnv: func(t *testing.T) {
				t.Setenv("DIVSTREAK_SERVER_PORT", "99999")
			},
			wantErr: true,
		},
		{
			name: "unparseable env value",
			setupEnv: func(t *testing.T) {
				t.Setenv("DIVSTREAK_SERVER_PORT", "not-a-port")
			},
			wantErr: true,
		},
		{
			name:        "database driver without dsn",
			fileContent: "source:\n  driver: postgres\n",
			wantErr:     true,
		},
		{
			name:        "unknown driver",
			fileContent: "source:\n  driver: parquet\n",
			wantErr:     true,
		},
		{
			name:        "malformed yaml",
			fileContent: "server: [",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setupEnv != nil {
				tt.setupEnv(t)
			}

			path := ""
			if tt.fileContent != "" {
				path = writeConfigFile(t, tt.fileContent)
			}

			cfg, err := LoadFile(path)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config from file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
		check   func(*testing.T, *Config)
	}{
		{
			name:   "default is valid",
			modify: func(*Config) {},
		},
		{
			name:    "zero read timeout",
			modify:  func(c *Config) { c.Server.ReadTimeout = 0 },
			wantErr: "read timeout",
		},
		{
			name:    "zero write timeout",
			modify:  func(c *Config) { c.Server.WriteTimeout = 0 },
			wantErr: "write timeout",
		},
		{
			name:    "rate limit without rps",
			modify:  func(c *Config) { c.Security.RateLimit.RPS = 0 },
			wantErr: "rps",
		},
		{
			name: "disabled rate limit ignores rps",
			modify: func(c *Config) {
				c.Security.RateLimit.Enabled = false
				c.Security.RateLimit.RPS = 0
			},
		},
		{
			name:    "file driver without paths",
			modify:  func(c *Config) { c.Source.Paths = nil },
			wantErr: "paths",
		},
		{
			name:    "negative default streak",
			modify:  func(c *Config) { c.Ranking.DefaultMinStreak = -1 },
			wantErr: "min streak",
		},
		{
			name: "normalizes driver and output",
			modify: func(c *Config) {
				c.Source.Driver = "  XLSX "
				c.Logging.Output = "syslog"
				c.Logging.FilePath = ""
				c.Ranking.MaxLimit = 0
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DriverXLSX, c.Source.Driver)
				assert.Equal(t, "both", c.Logging.Output)
				assert.Equal(t, DefaultLogFile, c.Logging.FilePath)
				assert.Equal(t, DefaultMaxLimit, c.Ranking.MaxLimit)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestGetConfigFilePath(t *testing.T) {
	t.Run("env var wins", func(t *testing.T) {
		t.Setenv("DIVSTREAK_CONFIG", "/etc/divstreak/custom.yaml")
		assert.Equal(t, "/etc/divstreak/custom.yaml", getConfigFilePath())
	})

	t.Run("working directory file", func(t *testing.T) {
		t.Setenv("DIVSTREAK_CONFIG", "")
		dir := t.TempDir()
		wd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(dir))
		t.Cleanup(func() { _ = os.Chdir(wd) })

		assert.Equal(t, "", getConfigFilePath())

		require.NoError(t, os.WriteFile("divstreak.yaml", []byte("{}"), 0644))
		assert.Equal(t, "divstreak.yaml", getConfigFilePath())
	})
}

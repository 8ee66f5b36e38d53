package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dx-metrics/internal/github"
	"dx-metrics/internal/sinks"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	GitHub  github.Config
	Sheets  sinks.SheetsConfig
	Datadog sinks.DatadogConfig

	// Admins are excluded as issue authors and recognized as responders.
	Admins []string

	ReposFile string
	DataPath  string
	LogDir    string
	Workers   int
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve Data Paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}

	delaySecs, _ := strconv.Atoi(getEnv("GITHUB_REQUEST_DELAY_SECONDS", "1"))
	workers, _ := strconv.Atoi(getEnv("COLLECT_WORKERS", "4"))

	cfg := &AppConfig{
		GitHub: github.Config{
			Token:        getEnv("GITHUB_TOKEN", ""),
			RequestDelay: time.Duration(delaySecs) * time.Second,
		},
		Sheets: sinks.SheetsConfig{
			SpreadsheetID: getEnv("GOOGLE_SHEET_ID", ""),
			Token:         getEnv("GOOGLE_SHEETS_TOKEN", ""),
		},
		Datadog: sinks.DatadogConfig{
			APIKey: getEnv("DATADOG_API_KEY", ""),
		},
		Admins:    splitList(getEnv("ADMIN_LOGINS", "")),
		ReposFile: getEnv("REPOS_FILE", filepath.Join(dataPath, "repos.yaml")),
		DataPath:  dataPath,
		LogDir:    logDir,
		Workers:   workers,
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

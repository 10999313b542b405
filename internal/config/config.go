package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"paycalc/internal/core"
)

type Config struct {
	// QuickBooks Online
	QBOBaseURL      string
	QBOTokenURL     string
	QBORealmID      string
	QBOClientID     string
	QBOClientSecret string
	QBOAccessToken  string
	QBORefreshToken string

	// Document sharing
	DocsBackend         string
	DriveConfigFileID   string
	DriveOutputFolderID string
	LocalConfigFile     string

	// Output
	LocalOutputFile  string
	RemoteOutputFile string

	// Token persistence
	EnvFile string

	// Allocation policy
	CutoffDate string
	UrgentDays int

	// Logging
	LogLevel string
}

func Load() *Config {
	cfg := &Config{
		QBOBaseURL:      getEnv("QBO_BASE_URL", "https://quickbooks.api.intuit.com"),
		QBOTokenURL:     getEnv("QBO_TOKEN_URL", "https://oauth.platform.intuit.com/oauth2/v1/tokens/bearer"),
		QBORealmID:      getEnv("QBO_REALM_ID", ""),
		QBOClientID:     getEnv("QBO_CLIENT_ID", ""),
		QBOClientSecret: getEnv("QBO_CLIENT_SECRET", ""),
		QBOAccessToken:  getEnv("QBO_ACCESS_TOKEN", ""),
		QBORefreshToken: getEnv("QBO_REFRESH_TOKEN", ""),

		DocsBackend:         getEnv("DOCS_BACKEND", "drive"),
		DriveConfigFileID:   getEnv("DRIVE_CONFIG_FILE_ID", ""),
		DriveOutputFolderID: getEnv("DRIVE_OUTPUT_FOLDER_ID", ""),
		LocalConfigFile:     getEnv("LOCAL_CONFIG_FILE", "./config.xlsx"),

		LocalOutputFile:  getEnv("LOCAL_OUTPUT_FILE", ""),
		RemoteOutputFile: getEnv("REMOTE_OUTPUT_FILE", "payment_recommendations.xlsx"),

		EnvFile: getEnv("ENV_FILE", ".env"),

		CutoffDate: getEnv("CUTOFF_DATE", "2024-01-01"),
		UrgentDays: getEnvInt("URGENT_DAYS", 45),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if _, err := url.Parse(c.QBOBaseURL); err != nil || !strings.HasPrefix(c.QBOBaseURL, "http") {
		errors = append(errors, fmt.Sprintf("invalid QBO base URL '%s'", c.QBOBaseURL))
	}
	if c.QBORealmID == "" {
		errors = append(errors, "QBO realm ID is required")
	}
	if c.QBOAccessToken == "" {
		errors = append(errors, "QBO access token is required")
	}
	if c.QBORefreshToken != "" {
		if c.QBOClientID == "" || c.QBOClientSecret == "" {
			errors = append(errors, "QBO client ID and secret are required when a refresh token is configured")
		}
	}

	validBackends := []string{"drive", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DocsBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid docs backend '%s': must be one of %v", c.DocsBackend, validBackends))
	}

	if c.DocsBackend == "drive" && c.DriveConfigFileID == "" {
		errors = append(errors, "Drive config file ID is required when using drive backend")
	}
	if c.DocsBackend == "memory" && c.LocalConfigFile == "" {
		errors = append(errors, "local config file is required when using memory backend")
	}

	if c.RemoteOutputFile == "" {
		errors = append(errors, "remote output file name cannot be empty")
	}

	if _, err := time.ParseInLocation(core.DateLayout, c.CutoffDate, time.UTC); err != nil {
		errors = append(errors, fmt.Sprintf("invalid cutoff date '%s': must be YYYY-MM-DD", c.CutoffDate))
	}
	if c.UrgentDays < 0 {
		errors = append(errors, fmt.Sprintf("invalid urgent days %d: must not be negative", c.UrgentDays))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Cutoff returns the parsed cutoff date. Validate must have passed.
func (c *Config) Cutoff() core.Date {
	t, _ := time.ParseInLocation(core.DateLayout, c.CutoffDate, time.UTC)
	return core.Date{Time: t}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

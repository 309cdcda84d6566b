package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Data backends.
const (
	BackendMemory = "memory"
	BackendLocal  = "local"
	BackendGraph  = "graph"
	BackendDrive  = "drive"
	BackendSheets = "sheets"
)

var validBackends = []string{BackendMemory, BackendLocal, BackendGraph, BackendDrive, BackendSheets}

// MinSessionSecret is the shortest accepted session signing key, in bytes.
const MinSessionSecret = 32

type Config struct {
	// HTTP Server
	Port     string
	LogLevel string

	// Backend selection
	DataBackend string
	DataDir     string

	// Source files: drive item ids (graph, drive), file names (local) or
	// spreadsheet ids (sheets).
	HoursFileID       string
	PaymentsFileID    string
	HoursSheetName    string
	PaymentsSheetName string

	// Microsoft Graph (SharePoint)
	GraphTenantID     string
	GraphClientID     string
	GraphClientSecret string
	GraphSiteID       string
	GraphDriveID      string

	// Google service account
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// Login gate
	AuthUsername     string
	AuthPassword     string
	AuthPasswordHash string
	SessionSecret    string
	SessionTTL       time.Duration
	SecureCookies    bool
	LoginRateLimit   int

	// Pipeline
	DatasetCacheTTL       time.Duration
	KeepPaymentOnlyMonths bool
	HourTypes             []string
}

func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8081"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DataBackend: getEnv("DATA_BACKEND", BackendMemory),
		DataDir:     getEnv("DATA_DIR", "./data"),

		HoursFileID:       getEnv("HOURS_FILE_ID", ""),
		PaymentsFileID:    getEnv("PAYMENTS_FILE_ID", ""),
		HoursSheetName:    getEnv("HOURS_SHEET_NAME", "horas_resolv"),
		PaymentsSheetName: getEnv("PAYMENTS_SHEET_NAME", ""),

		GraphTenantID:     getEnv("GRAPH_TENANT_ID", ""),
		GraphClientID:     getEnv("GRAPH_CLIENT_ID", ""),
		GraphClientSecret: getEnv("GRAPH_CLIENT_SECRET", ""),
		GraphSiteID:       getEnv("GRAPH_SITE_ID", ""),
		GraphDriveID:      getEnv("GRAPH_DRIVE_ID", ""),

		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),

		AuthUsername:     getEnv("AUTH_USERNAME", ""),
		AuthPassword:     getEnv("AUTH_PASSWORD", ""),
		AuthPasswordHash: getEnv("AUTH_PASSWORD_HASH", ""),
		SessionSecret:    getEnv("SESSION_SECRET", ""),
		SessionTTL:       getEnvDuration("SESSION_TTL", 12*time.Hour),
		SecureCookies:    getEnvBool("SECURE_COOKIES", false),
		LoginRateLimit:   getEnvInt("LOGIN_RATE_LIMIT", 10),

		DatasetCacheTTL:       getEnvDuration("DATASET_CACHE_TTL", 0),
		KeepPaymentOnlyMonths: getEnvBool("KEEP_PAYMENT_ONLY_MONTHS", false),
		HourTypes:             getEnvList("HOUR_TYPES", []string{"Serviço", "Interno", "Processo"}),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend != BackendMemory && c.DataBackend != "" {
		if c.HoursFileID == "" {
			errors = append(errors, fmt.Sprintf("HOURS_FILE_ID is required when using %s backend", c.DataBackend))
		}
		if c.PaymentsFileID == "" {
			errors = append(errors, fmt.Sprintf("PAYMENTS_FILE_ID is required when using %s backend", c.DataBackend))
		}
	}

	switch c.DataBackend {
	case BackendLocal:
		if c.DataDir == "" {
			errors = append(errors, "DATA_DIR cannot be empty when using local backend")
		} else if info, err := os.Stat(c.DataDir); err != nil || !info.IsDir() {
			errors = append(errors, fmt.Sprintf("data directory does not exist: %s", c.DataDir))
		}
	case BackendGraph:
		required := [][2]string{
			{"GRAPH_TENANT_ID", c.GraphTenantID},
			{"GRAPH_CLIENT_ID", c.GraphClientID},
			{"GRAPH_CLIENT_SECRET", c.GraphClientSecret},
			{"GRAPH_SITE_ID", c.GraphSiteID},
			{"GRAPH_DRIVE_ID", c.GraphDriveID},
		}
		for _, kv := range required {
			if kv[1] == "" {
				errors = append(errors, fmt.Sprintf("%s is required when using graph backend", kv[0]))
			}
		}
	case BackendDrive, BackendSheets:
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if c.AuthUsername == "" {
		errors = append(errors, "AUTH_USERNAME is required")
	}
	if c.AuthPassword == "" && c.AuthPasswordHash == "" {
		errors = append(errors, "either AUTH_PASSWORD or AUTH_PASSWORD_HASH must be provided")
	}
	if len(c.SessionSecret) < MinSessionSecret {
		errors = append(errors, fmt.Sprintf("SESSION_SECRET must be at least %d bytes", MinSessionSecret))
	}
	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session ttl %v: must be at least 1 minute", c.SessionTTL))
	}
	if c.LoginRateLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid login rate limit %d: must be at least 1", c.LoginRateLimit))
	}
	if c.DatasetCacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid dataset cache ttl %v: must not be negative", c.DatasetCacheTTL))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping empty items.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PabloGalante/applyai-api/internal/domain"
)

type LLMBackend string

const (
	LLMBackendGemini LLMBackend = "gemini"
	LLMBackendVertex LLMBackend = "vertex"
	LLMBackendMock   LLMBackend = "mock"
)

type StorageBackend string

const (
	StorageFirestore StorageBackend = "firestore"
	StorageSQLite    StorageBackend = "sqlite"
	StorageMemory    StorageBackend = "memory"
)

const DefaultModelName = "gemini-2.5-flash"

type Config struct {
	Port string

	LLMBackend   LLMBackend
	GeminiAPIKey string
	ModelName    string
	LLMTimeout   time.Duration

	GCPProjectID string // empty = detect from credentials
	GCPLocation  string

	StorageBackend      StorageBackend
	CredentialsFile     string // absolute after Load
	FirestoreDatabaseID string
	SQLitePath          string

	CORSOrigins []string
	LogLevel    string
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDurationEnv(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads all env vars, builds the config and validates it.
// Any failure is a domain configuration error.
func Load() (*Config, error) {
	timeout, err := getDurationEnv("APPLYAI_LLM_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, domain.ConfigurationError("config.Load", "APPLYAI_LLM_TIMEOUT", err)
	}

	cfg := &Config{
		Port: getEnv("APPLYAI_PORT", getEnv("PORT", "8080")),

		LLMBackend:   LLMBackend(strings.ToLower(getEnv("APPLYAI_LLM_BACKEND", string(LLMBackendGemini)))),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		ModelName:    getEnv("APPLYAI_MODEL_NAME", DefaultModelName),
		LLMTimeout:   timeout,

		GCPProjectID: getEnv("APPLYAI_GCP_PROJECT", ""),
		GCPLocation:  getEnv("APPLYAI_GCP_LOCATION", "us-central1"),

		StorageBackend:      StorageBackend(strings.ToLower(getEnv("APPLYAI_STORAGE_BACKEND", string(StorageFirestore)))),
		CredentialsFile:     getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		FirestoreDatabaseID: getEnv("FIRESTORE_DATABASE_ID", "applyai"),
		SQLitePath:          getEnv("APPLYAI_SQLITE_PATH", "./data/applyai.db"),

		CORSOrigins: splitList(getEnv("APPLYAI_CORS_ORIGINS", "http://localhost:3000")),
		LogLevel:    getEnv("APPLYAI_LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the backend selections and their required credentials.
// A relative CredentialsFile is made absolute against the working directory.
func (c *Config) Validate() error {
	const op = "config.Validate"

	if c.Port == "" {
		return domain.ConfigurationError(op, "port cannot be empty", nil)
	}
	if c.LLMTimeout < 0 {
		return domain.ConfigurationError(op, "APPLYAI_LLM_TIMEOUT must not be negative", nil)
	}

	switch c.LLMBackend {
	case LLMBackendGemini:
		if c.GeminiAPIKey == "" {
			return domain.ConfigurationError(op, "GEMINI_API_KEY not found in environment variables", nil)
		}
	case LLMBackendVertex:
		if c.GCPProjectID == "" {
			return domain.ConfigurationError(op, "APPLYAI_GCP_PROJECT must be set for the vertex backend", nil)
		}
	case LLMBackendMock:
	default:
		return domain.ConfigurationError(op, fmt.Sprintf("unknown APPLYAI_LLM_BACKEND %q", c.LLMBackend), nil)
	}

	switch c.StorageBackend {
	case StorageFirestore:
		if c.CredentialsFile == "" {
			return domain.ConfigurationError(op, "GOOGLE_APPLICATION_CREDENTIALS not found in environment", nil)
		}
		abs, err := filepath.Abs(c.CredentialsFile)
		if err != nil {
			return domain.ConfigurationError(op, "resolve credential path", err)
		}
		if _, err := os.Stat(abs); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return domain.ConfigurationError(op, "credential file not found, looked at: "+abs, err)
			}
			return domain.ConfigurationError(op, "stat credential file", err)
		}
		c.CredentialsFile = abs
		if c.FirestoreDatabaseID == "" {
			return domain.ConfigurationError(op, "FIRESTORE_DATABASE_ID cannot be empty", nil)
		}
	case StorageSQLite:
		if c.SQLitePath == "" {
			return domain.ConfigurationError(op, "APPLYAI_SQLITE_PATH cannot be empty", nil)
		}
	case StorageMemory:
	default:
		return domain.ConfigurationError(op, fmt.Sprintf("unknown APPLYAI_STORAGE_BACKEND %q", c.StorageBackend), nil)
	}

	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

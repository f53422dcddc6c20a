package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DefaultModel           = "gpt-4o-mini"
	DefaultMaxLogSizeBytes = 200_000
	DefaultBackendURL      = "http://localhost:8000"
)

// ErrMissingAPIKey is the only configuration problem that stops the service from starting.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is required")

// Config is built once in main and handed to the components by value.
type Config struct {
	HTTPAddr        string `validate:"required"`
	CORSOrigin      string `validate:"required,url"`
	OpenAIAPIKey    string `validate:"required"`
	OpenAIModel     string `validate:"required"`
	OpenAIBaseURL   string `validate:"omitempty,url"`
	MaxLogSizeBytes int64  `validate:"gt=0"`
	LogLevel        slog.Level
}

// ClientConfig configures the upload client front-ends.
type ClientConfig struct {
	BackendURL string        `validate:"required,url"`
	UIAddr     string        `validate:"required"`
	Timeout    time.Duration `validate:"gt=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// lookup reads an environment variable ignoring the case of its name.
// An exact-case match wins over other spellings; empty values are skipped.
func lookup(key string) (string, bool) {
	if v := os.Getenv(key); v != "" {
		return v, true
	}
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if ok && value != "" && strings.EqualFold(name, key) {
			return value, true
		}
	}
	return "", false
}

func getenv(key, def string) string {
	if v, ok := lookup(key); ok {
		return v
	}
	return def
}

func mustInt64(key string, def int64) int64 {
	if v, ok := lookup(key); ok {
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err == nil {
			return i
		}
		slog.Warn("bad int env, using default", "key", key, "value", v)
	}
	return def
}

func mustPositiveInt64(key string, def int64) int64 {
	v := mustInt64(key, def)
	if v <= 0 {
		slog.Warn("non-positive int env, using default", "key", key, "value", v)
		return def
	}
	return v
}

func mustURL(key, def string) string {
	v := getenv(key, def)
	if v == "" {
		return def
	}
	if err := validate.Var(v, "url"); err != nil {
		slog.Warn("bad url env, using default", "key", key, "value", v)
		return def
	}
	return v
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
		slog.Warn("bad duration env, using default", "key", key, "value", v)
	}
	return def
}

func logLevel(key string) slog.Level {
	var lvl slog.Level
	v := getenv(key, "info")
	if err := lvl.UnmarshalText([]byte(v)); err != nil {
		slog.Warn("bad log level env, using info", "key", key, "value", v)
		return slog.LevelInfo
	}
	return lvl
}

func loadEnvFiles() {
	envFiles := []string{
		".env.local",
		".env",
	}

	currentDir, err := os.Getwd()
	if err != nil {
		slog.Debug("failed to get current directory", "error", err)
		return
	}

	// look in current directory and up to 3 parent directories
	searchDirs := []string{currentDir}
	for i := 0; i < 3; i++ {
		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			break
		}
		searchDirs = append(searchDirs, parent)
		currentDir = parent
	}

	loadedAny := false
	for _, dir := range searchDirs {
		for _, envFile := range envFiles {
			envPath := filepath.Join(dir, envFile)
			if _, err := os.Stat(envPath); err == nil {
				if err := godotenv.Load(envPath); err == nil {
					slog.Debug("loaded environment file", "path", envPath)
					loadedAny = true
				} else {
					slog.Debug("failed to load environment file", "path", envPath, "error", err)
				}
			}
		}
		if loadedAny {
			break
		}
	}

	if !loadedAny {
		slog.Debug("no .env files found, using system environment variables only")
	}
}

// Load reads the relay service settings from .env files and the environment.
func Load() (Config, error) {
	loadEnvFiles()
	return fromEnv()
}

func fromEnv() (Config, error) {
	cfg := Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8000"),
		CORSOrigin:      mustURL("CORS_ORIGIN", "http://localhost:8501"),
		OpenAIAPIKey:    getenv("OPENAI_API_KEY", ""),
		OpenAIModel:     getenv("OPENAI_MODEL", DefaultModel),
		OpenAIBaseURL:   mustURL("OPENAI_BASE_URL", ""),
		MaxLogSizeBytes: mustPositiveInt64("MAX_LOG_SIZE_BYTES", DefaultMaxLogSizeBytes),
		LogLevel:        logLevel("LOG_LEVEL"),
	}
	if cfg.OpenAIAPIKey == "" {
		return Config{}, ErrMissingAPIKey
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadClient reads the upload client settings.
func LoadClient() (ClientConfig, error) {
	loadEnvFiles()
	return clientFromEnv()
}

func clientFromEnv() (ClientConfig, error) {
	cfg := ClientConfig{
		BackendURL: strings.TrimRight(getenv("BACKEND_URL", DefaultBackendURL), "/"),
		UIAddr:     getenv("UI_ADDR", ":8501"),
		Timeout:    mustDuration("CLIENT_TIMEOUT", 90*time.Second),
	}
	if err := validate.Struct(cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("invalid client config: %w", err)
	}
	return cfg, nil
}

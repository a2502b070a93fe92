package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath    = "CONFIG_PATH"
	EnvDBConnection  = "DB_CONNECTION"
	EnvListenAddr    = "LISTEN_ADDR"
	EnvLogLevel      = "LOG_LEVEL"
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	EnvOpenAIModel   = "OPENAI_MODEL"
)

const (
	defaultListenAddr    = "localhost:3000"
	defaultOpenAIBaseURL = "https://api.openai.com"
)

// AppConfig holds resolved application configuration values.
type AppConfig struct {
	ConfigPath    string
	DatabaseDSN   string
	ListenAddr    string
	LogLevel      log.Level
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	Nutrition     Nutrition
}

// Load reads .env (if present), environment variables and the YAML config file.
// A missing .env or YAML file is not an error; defaults apply.
func Load() (AppConfig, error) {
	if errEnv := godotenv.Load(); errEnv != nil && !errors.Is(errEnv, os.ErrNotExist) {
		log.WithError(errEnv).Warn("config: .env not loaded")
	}

	cfg := AppConfig{
		ConfigPath:    ResolveConfigPath(os.Getenv(EnvConfigPath)),
		ListenAddr:    getEnv(EnvListenAddr, defaultListenAddr),
		LogLevel:      log.InfoLevel,
		OpenAIKey:     strings.TrimSpace(os.Getenv(EnvOpenAIKey)),
		OpenAIBaseURL: strings.TrimRight(getEnv(EnvOpenAIBaseURL, defaultOpenAIBaseURL), "/"),
		OpenAIModel:   strings.TrimSpace(os.Getenv(EnvOpenAIModel)),
	}

	if raw := strings.TrimSpace(os.Getenv(EnvLogLevel)); raw != "" {
		level, errParse := log.ParseLevel(raw)
		if errParse != nil {
			return AppConfig{}, fmt.Errorf("config: %s: %w", EnvLogLevel, errParse)
		}
		cfg.LogLevel = level
	}

	dsn, err := ResolveDatabaseDSN()
	if err != nil {
		return AppConfig{}, err
	}
	cfg.DatabaseDSN = dsn

	nutrition, err := LoadNutrition(cfg.ConfigPath)
	if err != nil {
		return AppConfig{}, err
	}
	cfg.Nutrition = nutrition
	return cfg, nil
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// ResolveDatabaseDSN returns DB_CONNECTION, or a SQLite file under the user's home directory.
// The directory for the default file is created when missing.
func ResolveDatabaseDSN() (string, error) {
	if dsn := strings.TrimSpace(os.Getenv(EnvDBConnection)); dsn != "" {
		return dsn, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home dir: %w", err)
	}
	dir := filepath.Join(home, ".calorie_tracker")
	if errMkdir := os.MkdirAll(dir, 0o755); errMkdir != nil {
		return "", fmt.Errorf("config: create data dir: %w", errMkdir)
	}
	return "file:" + filepath.Join(dir, "calorie_tracker.db"), nil
}

// LoadNutrition reads the `nutrition:` section of the YAML config on top of DefaultNutrition.
func LoadNutrition(configPath string) (Nutrition, error) {
	type fileConfig struct {
		Nutrition *Nutrition `yaml:"nutrition"`
	}

	result := DefaultNutrition()
	data, errRead := os.ReadFile(configPath)
	if errRead != nil {
		if errors.Is(errRead, os.ErrNotExist) {
			return result, nil
		}
		return Nutrition{}, fmt.Errorf("config: read config file: %w", errRead)
	}

	cfg := fileConfig{Nutrition: &result}
	if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
		return Nutrition{}, fmt.Errorf("config: parse config file: %w", errUnmarshal)
	}
	if errValidate := result.Validate(); errValidate != nil {
		return Nutrition{}, errValidate
	}
	return result, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

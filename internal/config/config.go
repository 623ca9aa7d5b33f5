package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Analyzer AnalyzerConfig `mapstructure:"analyzer"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Host           string        `mapstructure:"host"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	// Theme used when the visitor has no theme cookie
	DefaultTheme string `mapstructure:"default_theme"`
}

type OpenAIConfig struct {
	Provider       string   `mapstructure:"provider"`
	APIKey         string   `mapstructure:"api_key"`
	APIEndpoint    string   `mapstructure:"endpoint"`
	Model          string   `mapstructure:"model"`
	Models         []string `mapstructure:"models"`
	DeploymentName string   `mapstructure:"deployment"`
	APIVersion     string   `mapstructure:"api_version"`
}

// Enabled reports whether an LLM provider can be constructed.
func (c OpenAIConfig) Enabled() bool {
	return c.APIKey != ""
}

type AnalyzerConfig struct {
	MaxCodeBytes   int64         `mapstructure:"max_code_bytes"`
	ReviewTimeout  time.Duration `mapstructure:"review_timeout"`
	MaxSuggestions int           `mapstructure:"max_suggestions"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"server.port":              "SERVER_PORT",
	"server.host":              "SERVER_HOST",
	"server.read_timeout":      "SERVER_READ_TIMEOUT",
	"server.write_timeout":     "SERVER_WRITE_TIMEOUT",
	"server.request_timeout":   "SERVER_REQUEST_TIMEOUT",
	"server.allowed_origins":   "SERVER_ALLOWED_ORIGINS",
	"server.default_theme":     "SERVER_DEFAULT_THEME",
	"openai.provider":          "OPENAI_PROVIDER",
	"openai.api_key":           "OPENAI_API_KEY",
	"openai.endpoint":          "OPENAI_ENDPOINT",
	"openai.model":             "OPENAI_MODEL",
	"openai.models":            "OPENAI_MODELS",
	"openai.deployment":        "OPENAI_DEPLOYMENT",
	"openai.api_version":       "OPENAI_API_VERSION",
	"analyzer.max_code_bytes":  "ANALYZER_MAX_CODE_BYTES",
	"analyzer.review_timeout":  "ANALYZER_REVIEW_TIMEOUT",
	"analyzer.max_suggestions": "ANALYZER_MAX_SUGGESTIONS",
	"log.level":                "LOG_LEVEL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.request_timeout", "30s")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*", "http://127.0.0.1:*"})
	v.SetDefault("server.default_theme", "system")

	v.SetDefault("openai.provider", "openai")
	v.SetDefault("openai.endpoint", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.models", []string{"gpt-4o-mini", "gpt-4o"})
	v.SetDefault("openai.deployment", "gpt-4o")
	v.SetDefault("openai.api_version", "2023-05-15")

	v.SetDefault("analyzer.max_code_bytes", 1<<20)
	v.SetDefault("analyzer.review_timeout", "20s")
	v.SetDefault("analyzer.max_suggestions", 5)

	v.SetDefault("log.level", "info")
}

// LoadConfig reads defaults, an optional config file named by CODELENS_CONFIG,
// a .env file in the working directory, and environment overrides, in that order
// of increasing precedence.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	v := viper.New()
	setDefaults(v)

	if path := os.Getenv("CODELENS_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	cfg, err := unmarshal(v)
	if err != nil {
		return nil, err
	}
	slog.Info("configuration loaded successfully")
	return cfg, nil
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late at request time.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	switch c.Server.DefaultTheme {
	case "light", "dark", "system":
	default:
		return fmt.Errorf("invalid default_theme %q: must be one of light, dark, system", c.Server.DefaultTheme)
	}
	switch c.OpenAI.Provider {
	case "openai", "azure":
	default:
		return fmt.Errorf("invalid openai provider %q: must be openai or azure", c.OpenAI.Provider)
	}
	if c.Analyzer.MaxCodeBytes <= 0 {
		return fmt.Errorf("analyzer max_code_bytes must be positive")
	}
	if c.Analyzer.MaxSuggestions < 0 {
		return fmt.Errorf("analyzer max_suggestions must be non-negative")
	}
	return nil
}

// SlogLevel maps the configured level name onto a slog.Level, defaulting to info.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

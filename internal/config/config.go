package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	// configDir is the configuration directory path
	// Can be set via SetConfigDir before loading config
	configDir     string
	configDirInit bool
)

// SetConfigDir sets a custom configuration directory
// Must be called before any config loading functions
func SetConfigDir(dir string) {
	configDir = dir
	configDirInit = true
}

// GetConfigDir returns the configuration directory
// Priority: 1. Manually set via SetConfigDir, 2. ./config in current directory
func GetConfigDir() string {
	if !configDirInit {
		cwd, err := os.Getwd()
		if err == nil {
			configDir = filepath.Join(cwd, "config")
		}
		configDirInit = true
	}
	return configDir
}

// Config application configuration structure
type Config struct {
	Model     ModelConfig     `yaml:"model"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Index     IndexConfig     `yaml:"index"`
	Sessions  SessionsConfig  `yaml:"sessions"`
	Booking   BookingConfig   `yaml:"booking"`
	WhatsApp  WhatsAppConfig  `yaml:"whatsapp"`
	Server    ServerConfig    `yaml:"server"`
}

// ModelConfig LLM completion configuration
type ModelConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// EmbeddingConfig embedding API configuration
type EmbeddingConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	Dimension      int    `yaml:"dimension"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"`
}

// IndexConfig semantic index configuration
type IndexConfig struct {
	Path string `yaml:"path"`
}

// SessionsConfig session store configuration
type SessionsConfig struct {
	DBPath string `yaml:"db_path"`
}

// BookingConfig booking link configuration
type BookingConfig struct {
	BaseURL string `yaml:"base_url"`
}

// WhatsAppConfig messaging channel configuration
type WhatsAppConfig struct {
	AccessToken   string `yaml:"access_token"`
	PhoneNumberID string `yaml:"phone_number_id"`
	VerifyToken   string `yaml:"verify_token"`
	BaseURL       string `yaml:"base_url"`
}

// ServerConfig HTTP server configuration
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	UploadDir string `yaml:"upload_dir"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			APIKey:      "",
			BaseURL:     "https://api.openai.com",
			Model:       "gpt-4",
			Temperature: 0.7,
			MaxTokens:   1024,
		},
		Embedding: EmbeddingConfig{
			APIKey:         "",
			BaseURL:        "https://api.openai.com",
			Model:          "text-embedding-3-small",
			Dimension:      1536,
			TimeoutSeconds: 30,
			MaxRetries:     2,
		},
		Index: IndexConfig{
			Path: filepath.Join("data", "vector_store", "index.json"),
		},
		Sessions: SessionsConfig{
			DBPath: filepath.Join("data", "sessions.db"),
		},
		Booking: BookingConfig{
			BaseURL: "https://example.com/book",
		},
		WhatsApp: WhatsAppConfig{
			BaseURL: "https://graph.facebook.com/v17.0",
		},
		Server: ServerConfig{
			Addr:      ":8000",
			UploadDir: filepath.Join("data", "uploads"),
		},
	}
}

// ConfigDir returns the configuration directory path
func ConfigDir() (string, error) {
	dir := GetConfigDir()
	if dir == "" {
		return "", fmt.Errorf("failed to determine config directory")
	}
	return dir, nil
}

// LogDir returns the log directory path
func LogDir() string {
	dir := GetConfigDir()
	if dir == "" {
		return "logs"
	}
	return filepath.Join(dir, "logs")
}

// ConfigPath returns the configuration file path
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load loads configuration from file and merges with secrets
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	// Config file doesn't exist yet: create it with defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		mergeSecrets(cfg)
		if err := Save(cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Use default values as base
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	mergeSecrets(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeSecrets fills API keys from the .secrets file when the config leaves
// them empty.
func mergeSecrets(cfg *Config) {
	secrets, _ := LoadSecrets()
	if secrets == nil {
		return
	}
	if cfg.Model.APIKey == "" {
		cfg.Model.APIKey = secrets.GetOpenAIAPIKey()
	}
	if cfg.Embedding.APIKey == "" {
		if key := secrets.GetOpenAIAPIKey(); key != "" {
			cfg.Embedding.APIKey = key
		}
	}
	if cfg.WhatsApp.AccessToken == "" {
		cfg.WhatsApp.AccessToken = secrets.GetWhatsAppAccessToken()
	}
}

// Save saves configuration to file
func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	content := "# TripMate Configuration File\n\n" + string(data)

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Model.BaseURL == "" {
		return fmt.Errorf("config error: model.base_url cannot be empty")
	}
	if c.Model.Model == "" {
		return fmt.Errorf("config error: model.model cannot be empty")
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		return fmt.Errorf("config error: model.temperature must be between 0 and 2")
	}
	if c.Model.MaxTokens <= 0 {
		return fmt.Errorf("config error: model.max_tokens must be greater than 0")
	}

	if c.Embedding.BaseURL == "" {
		return fmt.Errorf("config error: embedding.base_url cannot be empty")
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("config error: embedding.model cannot be empty")
	}
	if c.Embedding.Dimension <= 0 {
		return fmt.Errorf("config error: embedding.dimension must be greater than 0")
	}
	if c.Embedding.TimeoutSeconds <= 0 {
		return fmt.Errorf("config error: embedding.timeout_seconds must be greater than 0")
	}

	if c.Index.Path == "" {
		return fmt.Errorf("config error: index.path cannot be empty")
	}
	if c.Sessions.DBPath == "" {
		return fmt.Errorf("config error: sessions.db_path cannot be empty")
	}
	if c.Booking.BaseURL == "" {
		return fmt.Errorf("config error: booking.base_url cannot be empty")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("config error: server.addr cannot be empty")
	}

	return nil
}

// IsAPIKeyConfigured checks if the completion API key is configured
func (c *Config) IsAPIKeyConfigured() bool {
	return c.Model.APIKey != ""
}

// String returns string representation of config (hides sensitive info)
func (c *Config) String() string {
	return fmt.Sprintf(`TripMate Configuration:
  Model:
    API Key: %s
    Base URL: %s
    Model: %s
    Temperature: %.1f
    Max Tokens: %d
  Embedding:
    API Key: %s
    Base URL: %s
    Model: %s
    Dimension: %d
  Index:
    Path: %s
  Sessions:
    DB Path: %s
  Booking:
    Base URL: %s
  WhatsApp:
    Access Token: %s
    Phone Number ID: %s
  Server:
    Addr: %s
    Upload Dir: %s`,
		redactKey(c.Model.APIKey),
		c.Model.BaseURL,
		c.Model.Model,
		c.Model.Temperature,
		c.Model.MaxTokens,
		redactKey(c.Embedding.APIKey),
		c.Embedding.BaseURL,
		c.Embedding.Model,
		c.Embedding.Dimension,
		c.Index.Path,
		c.Sessions.DBPath,
		c.Booking.BaseURL,
		redactKey(c.WhatsApp.AccessToken),
		c.WhatsApp.PhoneNumberID,
		c.Server.Addr,
		c.Server.UploadDir,
	)
}

func redactKey(value string) string {
	if value == "" {
		return "(not configured)"
	}
	if len(value) > 8 {
		return value[:8] + "..."
	}
	return "***"
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ClientConfig is the root configuration for a conversation client.
type ClientConfig struct {
	API          APIConfig          `yaml:"api"`
	Conversation ConversationConfig `yaml:"conversation"`
	Connection   ConnectionConfig   `yaml:"connection"`
	Metrics      MetricsConfig      `yaml:"metrics"`
}

// APIConfig holds the REST API collaborator settings. The WebSocket
// endpoint is derived from BaseURL by scheme substitution.
type APIConfig struct {
	BaseURL    string   `yaml:"base_url"`
	Token      string   `yaml:"token"`
	Timeout    Duration `yaml:"timeout"`
	MaxRetries int      `yaml:"max_retries"`
}

// ConversationConfig identifies the conversation this client binds to.
type ConversationConfig struct {
	ID string `yaml:"id"`
}

// ConnectionConfig holds transport and reconnect tuning.
type ConnectionConfig struct {
	ReconnectBaseDelay   Duration `yaml:"reconnect_base_delay"`
	ReconnectMaxDelay    Duration `yaml:"reconnect_max_delay"`
	MaxReconnectAttempts int      `yaml:"max_reconnect_attempts"`
	TypingDebounce       Duration `yaml:"typing_debounce"`
	HandshakeTimeout     Duration `yaml:"handshake_timeout"`
	WriteTimeout         Duration `yaml:"write_timeout"`
	PingInterval         Duration `yaml:"ping_interval"`
	BufferSize           int      `yaml:"buffer_size"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*ClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand ${VAR} environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg ClientConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	return &cfg, nil
}

// LoadWithDefaults loads config and applies default values.
func LoadWithDefaults(path string) (*ClientConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadAndValidate loads config, applies defaults, and validates.
func LoadAndValidate(path string) (*ClientConfig, error) {
	cfg, err := LoadWithDefaults(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

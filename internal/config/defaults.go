package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultAPITimeout           = Duration(30 * time.Second)
	DefaultMaxRetries           = 3
	DefaultReconnectBaseDelay   = Duration(1 * time.Second)
	DefaultReconnectMaxDelay    = Duration(30 * time.Second)
	DefaultMaxReconnectAttempts = 5
	DefaultTypingDebounce       = Duration(300 * time.Millisecond)
	DefaultHandshakeTimeout     = Duration(10 * time.Second)
	DefaultWriteTimeout         = Duration(5 * time.Second)
	DefaultPingInterval         = Duration(30 * time.Second)
	DefaultBufferSize           = 256
	DefaultMetricsPort          = 9090
	DefaultMetricsPath          = "/metrics"
)

func (c *ClientConfig) applyDefaults() {
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}

	if c.Connection.ReconnectBaseDelay == 0 {
		c.Connection.ReconnectBaseDelay = DefaultReconnectBaseDelay
	}
	if c.Connection.ReconnectMaxDelay == 0 {
		c.Connection.ReconnectMaxDelay = DefaultReconnectMaxDelay
	}
	if c.Connection.MaxReconnectAttempts == 0 {
		c.Connection.MaxReconnectAttempts = DefaultMaxReconnectAttempts
	}
	if c.Connection.TypingDebounce == 0 {
		c.Connection.TypingDebounce = DefaultTypingDebounce
	}
	if c.Connection.HandshakeTimeout == 0 {
		c.Connection.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Connection.WriteTimeout == 0 {
		c.Connection.WriteTimeout = DefaultWriteTimeout
	}
	if c.Connection.PingInterval == 0 {
		c.Connection.PingInterval = DefaultPingInterval
	}
	if c.Connection.BufferSize == 0 {
		c.Connection.BufferSize = DefaultBufferSize
	}

	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}

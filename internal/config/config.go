// internal/config/config.go
// Typed configuration for the relay, loaded from YAML.
package config

import (
	"time"

	"github.com/erilali/chat-relay/internal/logger"
)

// Config is the root configuration for a relay instance.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Auth   AuthConfig   `yaml:"auth"`
	Relay  RelayConfig  `yaml:"relay"`
	NATS   NATSConfig   `yaml:"nats"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig holds the HTTP/WebSocket listener settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	AllowedOrigins  []string      `yaml:"allowed_origins"` // empty = allow any origin
	ReadLimit       int64         `yaml:"read_limit"`      // max inbound frame size in bytes
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// AuthConfig maps static credentials to identities.
type AuthConfig struct {
	Tokens map[string]string `yaml:"tokens"` // token -> username
}

// RelayConfig tunes routing behavior.
type RelayConfig struct {
	NotifyRoutingMiss bool `yaml:"notify_routing_miss"` // tell the sender when a direct target is offline
	NotifyDecodeError bool `yaml:"notify_decode_error"` // tell the sender when a frame fails to decode
	OutboxCapacity    int  `yaml:"outbox_capacity"`     // initial per-client queue capacity
}

// NATSConfig holds the optional relay event tap settings.
type NATSConfig struct {
	URL           string `yaml:"url"` // empty disables event publishing
	SubjectPrefix string `yaml:"subject_prefix"`
}

// LogConfig mirrors logger.LogConfig with YAML tags.
type LogConfig struct {
	Level      string `yaml:"level"`
	ToFile     bool   `yaml:"to_file"`
	ToJSON     bool   `yaml:"to_json"`
	FilePath   string `yaml:"file_path"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// Logger converts the YAML log section for logger.InitLogger.
func (lc LogConfig) Logger() logger.LogConfig {
	return logger.LogConfig{
		Level:      lc.Level,
		LogToFile:  lc.ToFile,
		LogToJSON:  lc.ToJSON,
		FilePath:   lc.FilePath,
		MaxSize:    lc.MaxSize,
		MaxBackups: lc.MaxBackups,
		MaxAge:     lc.MaxAge,
		Compress:   lc.Compress,
	}
}

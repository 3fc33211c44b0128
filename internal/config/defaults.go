// internal/config/defaults.go
package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultAddr            = ":8080"
	DefaultReadLimit       = 4096
	DefaultShutdownTimeout = 10 * time.Second
	DefaultOutboxCapacity  = 16
	DefaultSubjectPrefix   = "chat"
	DefaultLogLevel        = "info"
	DefaultLogFilePath     = "relay.log"
	DefaultLogMaxSize      = 10
	DefaultLogMaxBackups   = 5
	DefaultLogMaxAge       = 30
)

// DefaultTokens returns the development credential set used when no
// auth.tokens section is configured.
func DefaultTokens() map[string]string {
	return map[string]string{
		"token-alice":   "alice",
		"token-bob":     "bob",
		"token-charlie": "charlie",
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ReadLimit == 0 {
		c.Server.ReadLimit = DefaultReadLimit
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if len(c.Auth.Tokens) == 0 {
		c.Auth.Tokens = DefaultTokens()
	}

	if c.Relay.OutboxCapacity == 0 {
		c.Relay.OutboxCapacity = DefaultOutboxCapacity
	}

	if c.NATS.SubjectPrefix == "" {
		c.NATS.SubjectPrefix = DefaultSubjectPrefix
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.FilePath == "" {
		c.Log.FilePath = DefaultLogFilePath
	}
	if c.Log.MaxSize == 0 {
		c.Log.MaxSize = DefaultLogMaxSize
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = DefaultLogMaxBackups
	}
	if c.Log.MaxAge == 0 {
		c.Log.MaxAge = DefaultLogMaxAge
	}
}

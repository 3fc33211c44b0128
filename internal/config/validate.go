// internal/config/validate.go
package config

import (
	"errors"
	"fmt"

	"github.com/erilali/chat-relay/internal/auth"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Server.ReadLimit < 1 {
		return errors.New("server.read_limit must be >= 1")
	}
	if c.Server.ShutdownTimeout < 0 {
		return errors.New("server.shutdown_timeout must not be negative")
	}

	if len(c.Auth.Tokens) == 0 {
		return errors.New("auth.tokens must not be empty")
	}
	for token, identity := range c.Auth.Tokens {
		if token == "" {
			return errors.New("auth.tokens contains an empty token")
		}
		if identity == "" {
			return fmt.Errorf("auth.tokens[%q] maps to an empty identity", token)
		}
		if identity == auth.ReservedIdentity {
			return fmt.Errorf("auth.tokens[%q] maps to the reserved identity %q", token, auth.ReservedIdentity)
		}
	}

	if c.Relay.OutboxCapacity < 1 {
		return errors.New("relay.outbox_capacity must be >= 1")
	}

	return nil
}

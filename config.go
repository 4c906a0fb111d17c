package recagent

import (
	"errors"
	"net/url"
	"time"
)

// Config defines client behavior. Instances are configured during
// initialization through [Builder] and treated as immutable afterwards.
type Config struct {
	API     APIConfig
	Session SessionConfig
	Profile ProfileConfig
	Audit   AuditConfig
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig addresses the RecAgent server.
type APIConfig struct {
	// BaseURL is the server origin, e.g. "https://api.recagent.example".
	// Endpoint paths (/api/login, /api/userinfo, ...) are joined onto it.
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig names the durable keys for the credential/identity pair and
// the Redis namespace when the Redis backend is used.
type SessionConfig struct {
	CredentialKey string
	IdentityKey   string
	RedisPrefix   string
}

/*
====================================
PROFILE CONFIG
====================================
*/

// ProfileConfig controls the mutate-then-verify reconciliation performed by
// [ProfileSync].
type ProfileConfig struct {
	// RefetchDelay is the fixed delay before the authoritative profile
	// re-fetch that follows a successful mutation.
	RefetchDelay time.Duration
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls session-lifecycle event dispatch.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			Timeout:   15 * time.Second,
			UserAgent: "recagent-client/1",
		},
		Profile: ProfileConfig{
			RefetchDelay: time.Second,
		},
		Audit: AuditConfig{
			BufferSize: 64,
			DropIfFull: true,
		},
	}
}

// Validate checks the configuration for contradictions before Build wires
// anything together.
func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("API.BaseURL is required")
	}
	parsed, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return errors.New("API.BaseURL is not a valid URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("API.BaseURL must use http or https")
	}
	if c.API.Timeout <= 0 {
		return errors.New("API.Timeout must be positive")
	}
	if c.Profile.RefetchDelay <= 0 {
		return errors.New("Profile.RefetchDelay must be positive")
	}
	return nil
}

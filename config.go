package credpair

import (
	"crypto/subtle"
	"fmt"
	"runtime"
	"time"
)

// Config defines the engine configuration. Instances are set before
// [Builder.Build] and treated as immutable afterwards.
type Config struct {
	Token    TokenConfig
	Password PasswordConfig
	Throttle ThrottleConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig carries the signing material and lifetimes for both token
// classes. Secrets are externally supplied; a missing secret fails Build.
type TokenConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Leeway        time.Duration
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig carries scrypt cost parameters and the KDF concurrency cap.
type PasswordConfig struct {
	N          int
	R          int
	P          int
	SaltLength int
	KeyLength  int

	// MaxConcurrent bounds simultaneous scrypt derivations so login bursts
	// cannot exhaust CPU. Zero disables the gate.
	MaxConcurrent int
}

// ThrottleConfig enables the optional Redis-backed attempt throttle. It is
// only honored when a Redis client is supplied to the builder.
type ThrottleConfig struct {
	Enabled            bool
	MaxLoginAttempts   int
	LoginCooldown      time.Duration
	MaxRefreshAttempts int
	RefreshCooldown    time.Duration
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process metrics counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the baseline configuration. Token secrets have no
// default and must be supplied by the host.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
			Issuer:     "credpair",
		},
		Password: PasswordConfig{
			N:             1 << 15,
			R:             8,
			P:             1,
			SaltLength:    16,
			KeyLength:     64,
			MaxConcurrent: 2 * runtime.GOMAXPROCS(0),
		},
		Throttle: ThrottleConfig{
			Enabled:            false,
			MaxLoginAttempts:   5,
			LoginCooldown:      15 * time.Minute,
			MaxRefreshAttempts: 10,
			RefreshCooldown:    5 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks the configuration invariants that must hold before any
// token is signed. All failures wrap [ErrConfigInvalid].
func (c Config) Validate() error {
	if len(c.Token.AccessSecret) == 0 {
		return fmt.Errorf("%w: access token secret is required", ErrConfigInvalid)
	}
	if len(c.Token.RefreshSecret) == 0 {
		return fmt.Errorf("%w: refresh token secret is required", ErrConfigInvalid)
	}
	if subtle.ConstantTimeCompare(c.Token.AccessSecret, c.Token.RefreshSecret) == 1 {
		return fmt.Errorf("%w: access and refresh secrets must differ", ErrConfigInvalid)
	}
	if c.Token.AccessTTL <= 0 || c.Token.RefreshTTL <= 0 {
		return fmt.Errorf("%w: token TTLs must be positive", ErrConfigInvalid)
	}
	if c.Token.RefreshTTL <= c.Token.AccessTTL {
		return fmt.Errorf("%w: refresh TTL must exceed access TTL", ErrConfigInvalid)
	}
	if c.Throttle.Enabled {
		if c.Throttle.MaxLoginAttempts <= 0 || c.Throttle.MaxRefreshAttempts <= 0 {
			return fmt.Errorf("%w: throttle attempt budgets must be positive", ErrConfigInvalid)
		}
		if c.Throttle.LoginCooldown <= 0 || c.Throttle.RefreshCooldown <= 0 {
			return fmt.Errorf("%w: throttle cooldowns must be positive", ErrConfigInvalid)
		}
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.AccessSecret = append([]byte(nil), cfg.Token.AccessSecret...)
	out.Token.RefreshSecret = append([]byte(nil), cfg.Token.RefreshSecret...)
	return out
}

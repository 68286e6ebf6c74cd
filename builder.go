package credpair

import (
	"errors"
	"fmt"

	internalaudit "github.com/credpair/credpair/internal/audit"
	"github.com/credpair/credpair/internal/flows"
	"github.com/credpair/credpair/internal/rate"
	"github.com/credpair/credpair/password"
	"github.com/credpair/credpair/token"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. Construction is allocation-only until
// [Builder.Build], which validates configuration and wires every component.
type Builder struct {
	config    Config
	store     IdentityStore
	redis     redis.UniversalClient
	auditSink AuditSink

	built bool
}

// New returns a Builder preloaded with [DefaultConfig]. Hosts must supply
// token secrets and an [IdentityStore] before Build.
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithStore supplies the host's identity store implementation.
func (b *Builder) WithStore(store IdentityStore) *Builder {
	b.store = store
	return b
}

// WithRedis supplies the Redis client used by the attempt throttle. The
// throttle stays inactive without one.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAuditSink supplies the sink that receives audit events.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process metrics counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the validate-latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration, constructs the hasher, issuer, limiter
// and audit pipeline, and returns a ready Engine. Configuration problems —
// a missing signing secret above all — fail here and never at request time.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.store == nil {
		return nil, errors.New("identity store required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Throttle.Enabled && b.redis == nil {
		return nil, errors.New("throttle requires redis client")
	}

	hasher, err := password.NewScrypt(password.Config{
		N:             cfg.Password.N,
		R:             cfg.Password.R,
		P:             cfg.Password.P,
		SaltLength:    cfg.Password.SaltLength,
		KeyLength:     cfg.Password.KeyLength,
		MaxConcurrent: cfg.Password.MaxConcurrent,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}

	issuer, err := token.NewIssuer(token.Config{
		AccessSecret:  cfg.Token.AccessSecret,
		RefreshSecret: cfg.Token.RefreshSecret,
		AccessTTL:     cfg.Token.AccessTTL,
		RefreshTTL:    cfg.Token.RefreshTTL,
		Issuer:        cfg.Token.Issuer,
		Leeway:        cfg.Token.Leeway,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}

	var limiter *rate.Limiter
	if cfg.Throttle.Enabled {
		limiter = rate.New(b.redis, rate.Config{
			MaxLoginAttempts:   cfg.Throttle.MaxLoginAttempts,
			LoginCooldown:      cfg.Throttle.LoginCooldown,
			MaxRefreshAttempts: cfg.Throttle.MaxRefreshAttempts,
			RefreshCooldown:    cfg.Throttle.RefreshCooldown,
		})
	}

	engine := &Engine{
		config:  cfg,
		store:   b.store,
		hasher:  hasher,
		issuer:  issuer,
		limiter: limiter,
		metrics: NewMetrics(cfg.Metrics),
		audit: internalaudit.NewDispatcher(internalaudit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, b.auditSink),
	}
	engine.flows = flows.New(engine.flowDeps())

	b.built = true
	return engine, nil
}

package credpair

import (
	"context"
	"errors"
	"time"

	internalaudit "github.com/credpair/credpair/internal/audit"
	"github.com/credpair/credpair/internal/flows"
	"github.com/credpair/credpair/internal/rate"
	"github.com/credpair/credpair/password"
	"github.com/credpair/credpair/token"
)

// Engine is the authentication core. It owns the password hasher, the token
// issuer, the optional attempt throttle and the audit pipeline; identity
// persistence stays behind the host's [IdentityStore].
//
// All methods are safe for concurrent use.
type Engine struct {
	config  Config
	store   IdentityStore
	hasher  *password.Scrypt
	issuer  *token.Issuer
	limiter *rate.Limiter
	audit   *internalaudit.Dispatcher
	metrics *Metrics
	flows   flows.Service
}

/* ==== FLOW WIRING ==== */

func (e *Engine) rotateDeps() flows.RotateDeps {
	return flows.RotateDeps{
		IssuePair: func(identity flows.IdentityRecord) (string, string, error) {
			pair, err := e.issuer.Issue(identity.ID, identity.Email, identity.Roles)
			if err != nil {
				return "", "", err
			}
			return pair.AccessToken, pair.RefreshToken, nil
		},
		Fingerprint: password.Fingerprint,
		SaveFingerprint: func(ctx context.Context, identityID, fingerprint string) error {
			return e.store.UpdateRefreshFingerprint(ctx, identityID, fingerprint)
		},
	}
}

func (e *Engine) flowDeps() flows.Deps {
	rotate := e.rotateDeps()

	findByID := func(ctx context.Context, identityID string) (flows.IdentityRecord, bool, error) {
		identity, err := e.store.FindByID(ctx, identityID)
		if errors.Is(err, ErrIdentityMissing) {
			return flows.IdentityRecord{}, false, nil
		}
		if err != nil {
			return flows.IdentityRecord{}, false, err
		}
		return recordFromIdentity(identity), true, nil
	}

	return flows.Deps{
		Login: flows.LoginDeps{
			NormalizeEmail: NormalizeEmail,
			CheckLoginRate: func(ctx context.Context, email string) error {
				if e.limiter == nil {
					return nil
				}
				return e.limiter.CheckLogin(ctx, email)
			},
			RecordLoginFailure: func(ctx context.Context, email string) error {
				if e.limiter == nil {
					return nil
				}
				return e.limiter.RecordLoginFailure(ctx, email)
			},
			ResetLoginRate: func(ctx context.Context, email string) error {
				if e.limiter == nil {
					return nil
				}
				return e.limiter.ResetLogin(ctx, email)
			},
			FindByEmail: func(ctx context.Context, email string) (flows.IdentityRecord, bool, error) {
				identity, err := e.store.FindByEmail(ctx, email)
				if errors.Is(err, ErrIdentityMissing) {
					return flows.IdentityRecord{}, false, nil
				}
				if err != nil {
					return flows.IdentityRecord{}, false, err
				}
				return recordFromIdentity(identity), true, nil
			},
			VerifyPassword: e.hasher.Verify,
			Rotate:         rotate,
		},
		Refresh: flows.RefreshDeps{
			CheckRefreshRate: func(ctx context.Context, identityID string) error {
				if e.limiter == nil {
					return nil
				}
				return e.limiter.CheckRefresh(ctx, identityID)
			},
			RecordRefreshFailure: func(ctx context.Context, identityID string) error {
				if e.limiter == nil {
					return nil
				}
				return e.limiter.RecordRefreshFailure(ctx, identityID)
			},
			FindByID:    findByID,
			Fingerprint: password.Fingerprint,
			Rotate:      rotate,
		},
		Logout: flows.LogoutDeps{
			ClearFingerprint: func(ctx context.Context, identityID string) error {
				return e.store.UpdateRefreshFingerprint(ctx, identityID, "")
			},
			IsIdentityMissing: func(err error) bool {
				return errors.Is(err, ErrIdentityMissing)
			},
		},
	}
}

func recordFromIdentity(identity Identity) flows.IdentityRecord {
	return flows.IdentityRecord{
		ID:                 identity.ID,
		Email:              identity.Email,
		Roles:              roleStrings(identity.Roles),
		PasswordHash:       identity.PasswordHash,
		RefreshFingerprint: identity.RefreshFingerprint,
	}
}

/* ==== PUBLIC OPERATIONS ==== */

// Login verifies the credential pair and, on success, issues a fresh token
// pair and binds the refresh fingerprint to the identity. An unknown email
// and a wrong password both surface as [ErrInvalidCredentials].
func (e *Engine) Login(ctx context.Context, email, plainPassword string) (TokenPair, error) {
	if err := e.ready(); err != nil {
		return TokenPair{}, err
	}

	res := e.flows.Login(ctx, email, plainPassword)
	if res.Failure == flows.LoginFailureNone {
		e.metricInc(MetricLoginSuccess)
		e.metricInc(MetricPairIssued)
		e.emitAudit(eventLoginSuccess, res.IdentityID, email, true, nil)
		return TokenPair{AccessToken: res.AccessToken, RefreshToken: res.RefreshToken}, nil
	}

	switch res.Failure {
	case flows.LoginFailureRateLimited:
		e.metricInc(MetricLoginRateLimited)
		e.emitAudit(eventLoginRateLimited, res.IdentityID, email, false, ErrLoginRateLimited)
		return TokenPair{}, ErrLoginRateLimited
	case flows.LoginFailureUnknownEmail, flows.LoginFailurePasswordMismatch, flows.LoginFailureVerify:
		e.metricInc(MetricLoginFailure)
		e.emitAudit(eventLoginFailure, res.IdentityID, email, false, ErrInvalidCredentials)
		return TokenPair{}, ErrInvalidCredentials
	default:
		e.metricInc(MetricLoginFailure)
		e.emitAudit(eventLoginFailure, res.IdentityID, email, false, res.Err)
		return TokenPair{}, res.Err
	}
}

// Refresh rotates the token pair bound to identityID. The presented refresh
// token must fingerprint-match the stored slot; any mismatch, missing slot
// or missing identity surfaces as [ErrRefreshRejected].
func (e *Engine) Refresh(ctx context.Context, identityID, refreshToken string) (TokenPair, error) {
	if err := e.ready(); err != nil {
		return TokenPair{}, err
	}

	res := e.flows.Refresh(ctx, identityID, refreshToken)
	if res.Failure == flows.RefreshFailureNone {
		e.metricInc(MetricRefreshSuccess)
		e.metricInc(MetricPairIssued)
		e.emitAudit(eventRefreshSuccess, identityID, "", true, nil)
		return TokenPair{AccessToken: res.AccessToken, RefreshToken: res.RefreshToken}, nil
	}

	switch res.Failure {
	case flows.RefreshFailureRateLimited:
		e.metricInc(MetricRefreshRateLimited)
		e.emitAudit(eventRefreshRateLimited, identityID, "", false, ErrRefreshRateLimited)
		return TokenPair{}, ErrRefreshRateLimited
	case flows.RefreshFailureIdentityMissing, flows.RefreshFailureNoActiveToken, flows.RefreshFailureFingerprintMismatch:
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(eventRefreshFailure, identityID, "", false, ErrRefreshRejected)
		return TokenPair{}, ErrRefreshRejected
	default:
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(eventRefreshFailure, identityID, "", false, res.Err)
		return TokenPair{}, res.Err
	}
}

// RefreshWithToken authenticates the refresh request from the token alone:
// it parses and validates the refresh JWT, extracts the subject, then runs
// the same rotation as [Engine.Refresh]. Parse failures surface as
// [ErrRefreshRejected] so callers cannot probe token structure.
func (e *Engine) RefreshWithToken(ctx context.Context, refreshToken string) (TokenPair, error) {
	if err := e.ready(); err != nil {
		return TokenPair{}, err
	}

	claims, err := e.issuer.ParseRefresh(refreshToken)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(eventRefreshFailure, "", "", false, ErrRefreshRejected)
		return TokenPair{}, ErrRefreshRejected
	}
	return e.Refresh(ctx, claims.Subject, refreshToken)
}

// Logout clears the identity's refresh slot, invalidating any outstanding
// refresh token. Logging out an unknown identity is a no-op.
func (e *Engine) Logout(ctx context.Context, identityID string) error {
	if err := e.ready(); err != nil {
		return err
	}

	if err := e.flows.Logout(ctx, identityID); err != nil {
		return err
	}
	e.metricInc(MetricLogout)
	e.emitAudit(eventLogout, identityID, "", true, nil)
	return nil
}

// LogoutWithToken resolves the identity from an access token and clears its
// refresh slot. An invalid access token surfaces as [ErrTokenInvalid].
func (e *Engine) LogoutWithToken(ctx context.Context, accessToken string) error {
	if err := e.ready(); err != nil {
		return err
	}

	claims, err := e.issuer.ParseAccess(accessToken)
	if err != nil {
		return ErrTokenInvalid
	}
	return e.Logout(ctx, claims.Subject)
}

// ValidateAccess parses and validates an access token and returns its
// claims. Every failure mode collapses into [ErrTokenInvalid].
func (e *Engine) ValidateAccess(ctx context.Context, accessToken string) (*token.Claims, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	start := time.Now()
	claims, err := e.issuer.ParseAccess(accessToken)
	if e.metrics.LatencyEnabled() {
		e.metrics.Observe(MetricValidateLatency, time.Since(start))
	}
	if err != nil {
		e.metricInc(MetricValidateFailure)
		return nil, ErrTokenInvalid
	}
	e.metricInc(MetricValidateSuccess)
	return claims, nil
}

/* ==== LIFECYCLE & INTROSPECTION ==== */

// Close flushes and stops the audit pipeline. The engine must not be used
// after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

// MetricsSnapshot returns a point-in-time copy of all counters and
// histograms. Exporters in metrics/export consume this.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	return e.metrics.Snapshot()
}

// AuditDropped reports how many audit events were discarded because the
// dispatch buffer was full.
func (e *Engine) AuditDropped() uint64 {
	return e.audit.Dropped()
}

// AccessTTL reports the configured access-token lifetime.
func (e *Engine) AccessTTL() time.Duration { return e.issuer.AccessTTL() }

// RefreshTTL reports the configured refresh-token lifetime.
func (e *Engine) RefreshTTL() time.Duration { return e.issuer.RefreshTTL() }

func (e *Engine) ready() error {
	if e == nil || !e.flows.Initialized() {
		return ErrEngineNotReady
	}
	return nil
}

func (e *Engine) metricInc(id MetricID) {
	e.metrics.Inc(id)
}

func (e *Engine) emitAudit(eventType, identityID, email string, success bool, failure error) {
	if e.audit == nil {
		return
	}
	ev := internalaudit.Event{
		Timestamp:  time.Now().UTC(),
		EventType:  eventType,
		IdentityID: identityID,
		Email:      email,
		Success:    success,
	}
	if failure != nil {
		ev.Error = failure.Error()
	}
	e.audit.Emit(context.Background(), ev)
}

// RateLimitedError reports whether err is one of the throttle sentinels.
func RateLimitedError(err error) bool {
	return errors.Is(err, ErrLoginRateLimited) ||
		errors.Is(err, ErrRefreshRateLimited) ||
		errors.Is(err, rate.ErrRateLimited)
}

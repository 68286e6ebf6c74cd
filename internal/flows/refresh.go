package flows

import (
	"context"
	"crypto/subtle"
)

// RefreshFailureKind classifies refresh flow failures for root-level mapping.
// IdentityMissing, NoActiveToken and FingerprintMismatch are distinct here
// for metrics and audit; the root package collapses all three into the same
// public error.
type RefreshFailureKind int

const (
	RefreshFailureNone RefreshFailureKind = iota
	RefreshFailureRateLimited
	RefreshFailureIdentityMissing
	RefreshFailureNoActiveToken
	RefreshFailureFingerprintMismatch
	RefreshFailureStore
	RefreshFailureIssue
	RefreshFailurePersist
)

// RefreshResult carries either the rotated token pair or failure metadata.
type RefreshResult struct {
	Failure      RefreshFailureKind
	Err          error
	IdentityID   string
	AccessToken  string
	RefreshToken string
}

// RefreshDeps captures refresh flow dependencies.
type RefreshDeps struct {
	CheckRefreshRate     func(ctx context.Context, identityID string) error
	RecordRefreshFailure func(ctx context.Context, identityID string) error

	FindByID    func(ctx context.Context, identityID string) (IdentityRecord, bool, error)
	Fingerprint func(string) string

	Rotate RotateDeps
}

// RunRefresh validates the presented refresh token against the stored
// fingerprint and rotates on success. Rotation overwrites the stored
// fingerprint, so a successfully consumed refresh token cannot be replayed.
func RunRefresh(ctx context.Context, identityID, refreshToken string, deps RefreshDeps) RefreshResult {
	if deps.CheckRefreshRate != nil {
		if err := deps.CheckRefreshRate(ctx, identityID); err != nil {
			return RefreshResult{Failure: RefreshFailureRateLimited, Err: err, IdentityID: identityID}
		}
	}

	identity, found, err := deps.FindByID(ctx, identityID)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureStore, Err: err, IdentityID: identityID}
	}
	if !found {
		return refreshFailure(ctx, deps, RefreshFailureIdentityMissing, identityID)
	}

	if identity.RefreshFingerprint == "" {
		return refreshFailure(ctx, deps, RefreshFailureNoActiveToken, identityID)
	}

	presented := deps.Fingerprint(refreshToken)
	if subtle.ConstantTimeCompare([]byte(presented), []byte(identity.RefreshFingerprint)) != 1 {
		return refreshFailure(ctx, deps, RefreshFailureFingerprintMismatch, identityID)
	}

	rotated := RunRotate(ctx, identity, deps.Rotate)
	switch rotated.Failure {
	case RotateFailureIssue:
		return RefreshResult{Failure: RefreshFailureIssue, Err: rotated.Err, IdentityID: identityID}
	case RotateFailurePersist:
		return RefreshResult{Failure: RefreshFailurePersist, Err: rotated.Err, IdentityID: identityID}
	}

	return RefreshResult{
		Failure:      RefreshFailureNone,
		IdentityID:   identityID,
		AccessToken:  rotated.AccessToken,
		RefreshToken: rotated.RefreshToken,
	}
}

func refreshFailure(ctx context.Context, deps RefreshDeps, kind RefreshFailureKind, identityID string) RefreshResult {
	if deps.RecordRefreshFailure != nil {
		if rateErr := deps.RecordRefreshFailure(ctx, identityID); rateErr != nil {
			return RefreshResult{Failure: RefreshFailureRateLimited, Err: rateErr, IdentityID: identityID}
		}
	}
	return RefreshResult{Failure: kind, IdentityID: identityID}
}

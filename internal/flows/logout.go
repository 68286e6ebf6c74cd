package flows

import "context"

// LogoutDeps captures logout flow dependencies.
type LogoutDeps struct {
	ClearFingerprint  func(ctx context.Context, identityID string) error
	IsIdentityMissing func(error) bool
}

// RunLogout clears the stored refresh fingerprint unconditionally. It is
// idempotent: clearing an already-empty slot succeeds, and a missing identity
// is not reported to the caller. Other store errors propagate unchanged.
func RunLogout(ctx context.Context, identityID string, deps LogoutDeps) error {
	err := deps.ClearFingerprint(ctx, identityID)
	if err != nil && deps.IsIdentityMissing != nil && deps.IsIdentityMissing(err) {
		return nil
	}
	return err
}

package flows

import "context"

// RotateFailureKind classifies rotation failures for root-level mapping.
type RotateFailureKind int

const (
	RotateFailureNone RotateFailureKind = iota
	RotateFailureIssue
	RotateFailurePersist
)

// RotateResult carries the freshly issued pair or failure metadata.
type RotateResult struct {
	Failure      RotateFailureKind
	Err          error
	AccessToken  string
	RefreshToken string
}

// RotateDeps captures the shared issue-and-persist primitive used by both
// login and refresh.
type RotateDeps struct {
	IssuePair       func(identity IdentityRecord) (access, refresh string, err error)
	Fingerprint     func(string) string
	SaveFingerprint func(ctx context.Context, identityID, fingerprint string) error
}

// RunRotate issues a new token pair for identity and persists the fingerprint
// of the new refresh token, overwriting whatever fingerprint was stored
// before. Any previously issued refresh token stops verifying at that point.
func RunRotate(ctx context.Context, identity IdentityRecord, deps RotateDeps) RotateResult {
	access, refresh, err := deps.IssuePair(identity)
	if err != nil {
		return RotateResult{Failure: RotateFailureIssue, Err: err}
	}

	if err := deps.SaveFingerprint(ctx, identity.ID, deps.Fingerprint(refresh)); err != nil {
		return RotateResult{Failure: RotateFailurePersist, Err: err}
	}

	return RotateResult{
		Failure:      RotateFailureNone,
		AccessToken:  access,
		RefreshToken: refresh,
	}
}

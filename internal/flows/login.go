package flows

import "context"

// LoginFailureKind classifies login flow failures for root-level mapping.
// UnknownEmail and PasswordMismatch are distinct here for metrics and audit;
// the root package collapses both into the same public error.
type LoginFailureKind int

const (
	LoginFailureNone LoginFailureKind = iota
	LoginFailureRateLimited
	LoginFailureUnknownEmail
	LoginFailurePasswordMismatch
	LoginFailureVerify
	LoginFailureStore
	LoginFailureIssue
	LoginFailurePersist
)

// LoginResult carries either the issued token pair or failure metadata.
type LoginResult struct {
	Failure      LoginFailureKind
	Err          error
	IdentityID   string
	Email        string
	AccessToken  string
	RefreshToken string
}

// LoginDeps captures login flow dependencies.
type LoginDeps struct {
	NormalizeEmail func(string) string

	CheckLoginRate     func(ctx context.Context, email string) error
	RecordLoginFailure func(ctx context.Context, email string) error
	ResetLoginRate     func(ctx context.Context, email string) error

	FindByEmail    func(ctx context.Context, email string) (IdentityRecord, bool, error)
	VerifyPassword func(ctx context.Context, plaintext, stored string) (bool, error)

	Rotate RotateDeps
}

// RunLogin verifies the credential pair and rotates tokens on success.
func RunLogin(ctx context.Context, email, password string, deps LoginDeps) LoginResult {
	if deps.NormalizeEmail != nil {
		email = deps.NormalizeEmail(email)
	}

	if deps.CheckLoginRate != nil {
		if err := deps.CheckLoginRate(ctx, email); err != nil {
			return LoginResult{Failure: LoginFailureRateLimited, Err: err, Email: email}
		}
	}

	// Empty passwords never reach the KDF.
	if password == "" {
		return loginFailure(ctx, deps, LoginFailurePasswordMismatch, nil, email)
	}

	identity, found, err := deps.FindByEmail(ctx, email)
	if err != nil {
		return LoginResult{Failure: LoginFailureStore, Err: err, Email: email}
	}
	if !found {
		return loginFailure(ctx, deps, LoginFailureUnknownEmail, nil, email)
	}

	ok, err := deps.VerifyPassword(ctx, password, identity.PasswordHash)
	if err != nil {
		// Fail closed: malformed stored hashes never authenticate.
		return loginFailure(ctx, deps, LoginFailureVerify, err, email)
	}
	if !ok {
		return loginFailure(ctx, deps, LoginFailurePasswordMismatch, nil, email)
	}

	rotated := RunRotate(ctx, identity, deps.Rotate)
	switch rotated.Failure {
	case RotateFailureIssue:
		return LoginResult{Failure: LoginFailureIssue, Err: rotated.Err, IdentityID: identity.ID, Email: email}
	case RotateFailurePersist:
		return LoginResult{Failure: LoginFailurePersist, Err: rotated.Err, IdentityID: identity.ID, Email: email}
	}

	if deps.ResetLoginRate != nil {
		_ = deps.ResetLoginRate(ctx, email)
	}

	return LoginResult{
		Failure:      LoginFailureNone,
		IdentityID:   identity.ID,
		Email:        email,
		AccessToken:  rotated.AccessToken,
		RefreshToken: rotated.RefreshToken,
	}
}

func loginFailure(ctx context.Context, deps LoginDeps, kind LoginFailureKind, err error, email string) LoginResult {
	if deps.RecordLoginFailure != nil {
		if rateErr := deps.RecordLoginFailure(ctx, email); rateErr != nil {
			return LoginResult{Failure: LoginFailureRateLimited, Err: rateErr, Email: email}
		}
	}
	return LoginResult{Failure: kind, Err: err, Email: email}
}

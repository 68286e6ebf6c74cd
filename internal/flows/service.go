package flows

import "context"

// Service is the centralized flow runner built once by the root engine.
type Service struct {
	deps Deps
}

// New returns a flow service with immutable dependency wiring.
func New(deps Deps) Service {
	return Service{deps: deps}
}

// Initialized reports whether the service has been wired with flow deps.
func (s Service) Initialized() bool {
	return s.deps.Login.FindByEmail != nil
}

func (s Service) Login(ctx context.Context, email, password string) LoginResult {
	return RunLogin(ctx, email, password, s.deps.Login)
}

func (s Service) Refresh(ctx context.Context, identityID, refreshToken string) RefreshResult {
	return RunRefresh(ctx, identityID, refreshToken, s.deps.Refresh)
}

func (s Service) Logout(ctx context.Context, identityID string) error {
	return RunLogout(ctx, identityID, s.deps.Logout)
}

package flows

// IdentityRecord is the flow-local identity model. The root package maps its
// public Identity type into this shape so flows stay dependency-free.
type IdentityRecord struct {
	ID                 string
	Email              string
	Roles              []string
	PasswordHash       string
	RefreshFingerprint string
}

// Deps groups flow dependency sets. The root engine builds this once at
// Build time and delegates request methods to the matching flow.
type Deps struct {
	Login   LoginDeps
	Refresh RefreshDeps
	Logout  LogoutDeps
}

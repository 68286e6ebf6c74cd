package credpair

import "strings"

// MinPasswordLength is the floor enforced on login requests. Stored hashes
// are verified regardless of length; this guard applies to new input only.
const MinPasswordLength = 8

// FieldError describes a single request-validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateLoginRequest checks the shape of a login request before it reaches
// the engine. It reports every problem at once so callers can surface a
// complete error list.
func ValidateLoginRequest(email, password string) []FieldError {
	var errs []FieldError

	email = strings.TrimSpace(email)
	switch {
	case email == "":
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	case !strings.Contains(email, "@"):
		errs = append(errs, FieldError{Field: "email", Message: "email must be a valid address"})
	}

	switch {
	case password == "":
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	case len(password) < MinPasswordLength:
		errs = append(errs, FieldError{Field: "password", Message: "password must be at least 8 characters"})
	}

	return errs
}

// ValidateRefreshRequest checks the shape of a refresh request.
func ValidateRefreshRequest(refreshToken string) []FieldError {
	if strings.TrimSpace(refreshToken) == "" {
		return []FieldError{{Field: "refresh_token", Message: "refresh token is required"}}
	}
	return nil
}

// ValidateLogoutRequest checks the shape of a logout request.
func ValidateLogoutRequest(identityID string) []FieldError {
	if strings.TrimSpace(identityID) == "" {
		return []FieldError{{Field: "identity_id", Message: "identity id is required"}}
	}
	return nil
}

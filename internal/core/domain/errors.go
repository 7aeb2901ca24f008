package domain

import "errors"

// Error taxonomy shared by every service. Callers wrap these with context
// using fmt.Errorf("...: %w", ...) and the HTTP layer maps them with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrAccessDenied       = errors.New("access denied")
	ErrInvalidState       = errors.New("invalid state")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidUserState   = errors.New("user account is not active")
	ErrInvalidInput       = errors.New("invalid input")
	ErrMalformedToken     = errors.New("malformed token")
)

// CascadeError reports that a remote propagation step failed after the local
// change had already been committed. It unwraps to the translated taxonomy
// error (normally ErrNotFound) so errors.Is keeps working for callers.
type CascadeError struct {
	Step           string
	Target         string
	LocalCommitted bool
	Err            error
}

func (e *CascadeError) Error() string {
	return "cascade " + e.Step + " [" + e.Target + "]: " + e.Err.Error()
}

func (e *CascadeError) Unwrap() error { return e.Err }

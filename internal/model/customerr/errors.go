package customerr

import "errors"

// ValidationError marks input the caller can fix. It maps to a 400 at
// the API layer while storage and remote failures stay 5xx.
type ValidationError struct {
	Err string
}

func (e *ValidationError) Error() string {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Err: msg}
}

var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrUnknownUser       = errors.New("unknown user")
	ErrBadCredentials    = errors.New("invalid username or password")
	ErrBadActivationCode = errors.New("activation code does not match")
	ErrCodeExpired       = errors.New("activation code expired")
	ErrMailNotConfigured = errors.New("outbound mail is not configured")
)

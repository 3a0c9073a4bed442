package application

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password; callers must not be able to tell which half failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserTypeNotFound   = errors.New("user type not found")
	// ErrTokenInvalid covers expired and tampered reset tokens alike.
	ErrTokenInvalid = errors.New("invalid or expired token")
)

// Messages rendered next to the offending form field.
const (
	MsgUsernameTaken = "That username is taken. Please choose a different one."
	MsgEmailTaken    = "That email is taken. Please choose a different one."
	MsgNoSuchEmail   = "There is no account with that email."
)

// FieldErrors is a recoverable validation failure keyed by form field.
// The workflow performs no persistence when returning one.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsFieldErrors unwraps a FieldErrors from err, if present.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

package session

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned without contacting the backend when an
// operation needs a logged-in user and there is none.
var ErrNotAuthenticated = errors.New("not authenticated")

// AuthError is a credential or registration rejection by the backend.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s rejected: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

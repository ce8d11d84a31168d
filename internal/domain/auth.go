package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrAuthentication is returned for every credential or token failure.
// Callers must not be able to tell an unknown email from a wrong password.
var ErrAuthentication = errors.New("unable to authenticate with provided credentials")

var ErrTokenNotFound = fmt.Errorf("token %w", ErrNotFound)

type Token struct {
	Value     string
	AccountID string
	CreatedAt time.Time
}

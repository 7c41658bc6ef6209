// Package auth verifies credentials and issues the bearer tokens that scope
// every ledger call to its owner.
package auth

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// Authenticator registers and verifies account holders.
// The credential format belongs to the implementation.
type Authenticator interface {
	// Register creates an account and returns the new user.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the user whose credential matches.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential rejects credentials that could never be accepted.
	ValidateCredential(credential string) error
}

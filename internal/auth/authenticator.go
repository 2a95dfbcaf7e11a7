// Package auth issues and verifies user credentials and session tokens.
package auth

import (
	"context"

	"github.com/mmynk/duoledger/internal/models"
)

// Authenticator verifies a user's identity. Password login is the only
// implementation today.
type Authenticator interface {
	// Register creates an account. The credential is implementation specific.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the user owning the credential.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)
}

package service

import (
	"time"

	"github.com/google/uuid"
)

// TokenService defines the interface for issuing and verifying signed,
// expiring identity tokens. The signing secret and algorithm are fixed at
// process start. Tokens are stateless: expiry is the only bound on their
// lifetime, there is no revocation.
type TokenService interface {
	// Issue creates a signed token asserting the given subject for ttl.
	Issue(subject uuid.UUID, ttl time.Duration) (string, error)

	// Verify checks signature and expiry and returns the token's subject.
	// Malformed, tampered or expired tokens all fail the same way; a token
	// issued at t0 with ttl T verifies exactly while t0 <= now < t0+T.
	Verify(token string) (uuid.UUID, error)

	// AccessTokenTTL returns the configured lifetime for session tokens.
	AccessTokenTTL() time.Duration

	// ResetTokenTTL returns the configured lifetime for password-reset tokens.
	ResetTokenTTL() time.Duration
}

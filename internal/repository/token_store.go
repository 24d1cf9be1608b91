package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenStore tracks live refresh tokens by JTI so they can be revoked.
// Implementations: Redis (production) or in-memory (local dev / single instance).
type TokenStore interface {
	Save(ctx context.Context, jti string, playerID uuid.UUID, ttl time.Duration) error
	// Lookup returns uuid.Nil when the JTI is unknown, expired or revoked.
	Lookup(ctx context.Context, jti string) (uuid.UUID, error)
	Revoke(ctx context.Context, jti string) error
}

const refreshKeyPrefix = "refresh:"

package repository

import (
	"context"
	"time"
)

// SessionStore registro de sesiones de refresh (una por jti).
type SessionStore interface {
	Save(ctx context.Context, accountID, jti string, expiresAt time.Time) error
	// Exists indica si la sesión sigue vigente para la cuenta.
	Exists(ctx context.Context, accountID, jti string) (bool, error)
	Revoke(ctx context.Context, accountID, jti string) error
	RevokeAll(ctx context.Context, accountID string) error
}

package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var _ repository.SessionStore = (*SessionStore)(nil)

// SessionStore una clave por refresh token (TTL = vida del token) más un set por cuenta
// para poder cerrar todas las sesiones de golpe.
type SessionStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewSessionStore construye el store.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

func sessionKey(accountID, jti string) string { return "session:" + accountID + ":" + jti }
func accountSetKey(accountID string) string   { return "sessions:" + accountID }

// Save registra la sesión. Un TTL ya vencido no guarda nada.
func (s *SessionStore) Save(ctx context.Context, accountID, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(accountID, jti), 1, ttl)
	pipe.SAdd(ctx, accountSetKey(accountID), jti)
	// todas las sesiones duran lo mismo: la última es la que más vive
	pipe.Expire(ctx, accountSetKey(accountID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Exists(ctx context.Context, accountID, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKey(accountID, jti)).Result()
	if err != nil {
		return false, fmt.Errorf("session exists: %w", err)
	}
	return n > 0, nil
}

func (s *SessionStore) Revoke(ctx context.Context, accountID, jti string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKey(accountID, jti))
	pipe.SRem(ctx, accountSetKey(accountID), jti)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// RevokeAll cierra todas las sesiones de la cuenta (reset de contraseña, baneo, borrado).
func (s *SessionStore) RevokeAll(ctx context.Context, accountID string) error {
	jtis, err := s.client.SMembers(ctx, accountSetKey(accountID)).Result()
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	keys := make([]string, 0, len(jtis)+1)
	for _, jti := range jtis {
		keys = append(keys, sessionKey(accountID, jti))
	}
	keys = append(keys, accountSetKey(accountID))
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("revoke all sessions: %w", err)
	}
	return nil
}

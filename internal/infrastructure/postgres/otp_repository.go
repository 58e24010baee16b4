package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var _ repository.OTPRepository = (*OTPRepo)(nil)

// OTPRepo códigos de un solo uso. Hay a lo sumo uno por (target, purpose).
type OTPRepo struct {
	q Querier
}

// NewOTPRepository construye el adaptador.
func NewOTPRepository(q Querier) *OTPRepo {
	return &OTPRepo{q: q}
}

// Replace inserta el código pisando el anterior del mismo (target, purpose).
func (r *OTPRepo) Replace(ctx context.Context, otp *entity.OTP) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO otps (id, target, purpose, code_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (target, purpose) DO UPDATE
		SET id = EXCLUDED.id, code_hash = EXCLUDED.code_hash,
		    expires_at = EXCLUDED.expires_at, created_at = EXCLUDED.created_at`,
		otp.ID, otp.Target, otp.Purpose, otp.CodeHash, otp.ExpiresAt, otp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("replace otp: %w", err)
	}
	return nil
}

// FindActive devuelve el código vigente o nil.
func (r *OTPRepo) FindActive(ctx context.Context, target, purpose string, now time.Time) (*entity.OTP, error) {
	var o entity.OTP
	err := r.q.QueryRow(ctx, `
		SELECT id, target, purpose, code_hash, expires_at, created_at
		FROM otps WHERE target = $1 AND purpose = $2 AND expires_at > $3`,
		target, purpose, now,
	).Scan(&o.ID, &o.Target, &o.Purpose, &o.CodeHash, &o.ExpiresAt, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find otp: %w", err)
	}
	return &o, nil
}

// Delete consume un código.
func (r *OTPRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM otps WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}

// DeleteExpired purga los vencidos (tarea programada).
func (r *OTPRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM otps WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired otps: %w", err)
	}
	return cmd.RowsAffected(), nil
}

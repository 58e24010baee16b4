package repository

import (
	"context"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// OTPRepository persistencia de códigos OTP.
type OTPRepository interface {
	// Replace borra cualquier OTP previo de (target, purpose) e inserta el nuevo.
	Replace(ctx context.Context, otp *entity.OTP) error
	// FindActive devuelve el OTP no expirado de (target, purpose) o nil.
	FindActive(ctx context.Context, target, purpose string, now time.Time) (*entity.OTP, error)
	Delete(ctx context.Context, id string) error
	// DeleteExpired elimina los vencidos y devuelve cuántos borró.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

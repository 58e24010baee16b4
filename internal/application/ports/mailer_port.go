package ports

import "context"

// Mailer envía correos transaccionales (OTP de registro y de recuperación).
type Mailer interface {
	SendOTP(ctx context.Context, to, purpose, code string, ttlMinutes int) error
}

package entity

import "time"

// Propósitos de OTP.
const (
	OTPPurposeRegister      = "REGISTER"
	OTPPurposeResetPassword = "RESET_PASSWORD"
)

// OTP código de un solo uso, hasheado en reposo y ligado a (target, purpose).
type OTP struct {
	ID        string
	Target    string // email
	Purpose   string
	CodeHash  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired indica si el código ya no es válido en el instante dado.
func (o *OTP) IsExpired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}

// IsValidOTPPurpose valida el propósito recibido por la API.
func IsValidOTPPurpose(p string) bool {
	return p == OTPPurposeRegister || p == OTPPurposeResetPassword
}

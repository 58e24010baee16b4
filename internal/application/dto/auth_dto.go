package dto

import "time"

// RegisterRequest entrada para registro de cliente.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FullName string `json:"fullName" validate:"required,min=1,max=100"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
}

// RegisterResponse salida del registro (la cuenta queda pendiente de verificación).
type RegisterResponse struct {
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
	Message   string `json:"message"`
}

// VerifyOTPRequest verificación de registro con OTP.
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// ResendOTPRequest re-emisión de OTP para un propósito.
type ResendOTPRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Purpose string `json:"purpose" validate:"required,oneof=REGISTER RESET_PASSWORD"`
}

// LoginRequest credenciales.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest alternativa a la cookie para clientes sin cookies.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ForgotPasswordRequest inicio de recuperación.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest cierre de recuperación con OTP.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=72"`
}

// UpdateProfileRequest campos editables por el propio usuario. Nil = sin cambio.
type UpdateProfileRequest struct {
	FullName *string `json:"fullName" validate:"omitempty,min=1,max=100"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Avatar   *string `json:"avatar" validate:"omitempty,url"`
}

// ChangePasswordRequest cambio de contraseña autenticado.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

// AccountResponse salida de una cuenta (sin hash).
type AccountResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Phone      string    `json:"phone"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"isActive"`
	IsVerified bool      `json:"isVerified"`
	Avatar     string    `json:"avatar"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// AuthResponse par de tokens emitido. El refresh viaja en cookie, no en el cuerpo.
type AuthResponse struct {
	AccessToken      string          `json:"accessToken"`
	ExpiresIn        int             `json:"expiresIn"` // segundos
	Account          AccountResponse `json:"account"`
	RefreshToken     string          `json:"-"`
	RefreshExpiresAt time.Time       `json:"-"`
}

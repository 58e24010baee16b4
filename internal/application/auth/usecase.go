package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/ports"
	"github.com/jhoicas/storefront-api/internal/application/tasks"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/pkg/jwt"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// Config parámetros de tokens y OTP.
type Config struct {
	Secret           string
	Issuer           string
	AccessExpMinutes int
	RefreshTTL       time.Duration
	OTPTTL           time.Duration
	// Production desactiva el log de OTP en claro.
	Production bool
}

// Deps dependencias del caso de uso.
type Deps struct {
	Accounts repository.AccountRepository
	OTPs     repository.OTPRepository
	Sessions repository.SessionStore
	Mailer   ports.Mailer
	Storage  ports.AvatarStorage
	Tasks    *tasks.Runner
	Log      *logger.Logger
}

// AuthUseCase casos de uso de autenticación: registro con OTP, login, rotación de refresh,
// recuperación de contraseña y perfil propio.
type AuthUseCase struct {
	accounts repository.AccountRepository
	otps     repository.OTPRepository
	sessions repository.SessionStore
	mailer   ports.Mailer
	storage  ports.AvatarStorage
	tasks    *tasks.Runner
	log      *logger.Logger
	cfg      Config

	now     func() time.Time
	newCode func() (string, error)
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(d Deps, cfg Config) *AuthUseCase {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Tasks == nil {
		d.Tasks = tasks.NewRunner(d.Log, 0)
	}
	return &AuthUseCase{
		accounts: d.Accounts,
		otps:     d.OTPs,
		sessions: d.Sessions,
		mailer:   d.Mailer,
		storage:  d.Storage,
		tasks:    d.Tasks,
		log:      d.Log.Named("auth"),
		cfg:      cfg,
		now:      time.Now,
		newCode:  generateOTPCode,
	}
}

// SetCodeGenerator reemplaza el generador de OTP (tests).
func (uc *AuthUseCase) SetCodeGenerator(fn func() (string, error)) { uc.newCode = fn }

// SetClock reemplaza el reloj (tests).
func (uc *AuthUseCase) SetClock(fn func() time.Time) { uc.now = fn }

// Register crea una cuenta CUSTOMER inactiva y sin verificar y envía el OTP de registro.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := entity.NormalizeEmail(in.Email)
	existing, err := uc.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	acc := &entity.Account{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Phone:        in.Phone,
		Role:         entity.RoleCustomer,
		IsActive:     false,
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.accounts.Create(ctx, acc); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, err
	}
	if err := uc.issueOTP(ctx, email, entity.OTPPurposeRegister); err != nil {
		return nil, err
	}
	return &dto.RegisterResponse{
		AccountID: acc.ID,
		Email:     acc.Email,
		Message:   "Registration successful. Please check your email for the verification code.",
	}, nil
}

// VerifyRegister valida el OTP de registro, activa la cuenta y emite el par de tokens.
// Un código inválido o vencido no modifica nada.
func (uc *AuthUseCase) VerifyRegister(ctx context.Context, in dto.VerifyOTPRequest) (*dto.AuthResponse, error) {
	email := entity.NormalizeEmail(in.Email)
	acc, err := uc.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrAccountNotFound
	}
	if acc.IsVerified {
		return nil, domain.ErrAlreadyVerified
	}
	otp, err := uc.checkOTP(ctx, email, entity.OTPPurposeRegister, in.OTP)
	if err != nil {
		return nil, err
	}
	if err := uc.accounts.MarkVerified(ctx, acc.ID); err != nil {
		return nil, err
	}
	if err := uc.otps.Delete(ctx, otp.ID); err != nil {
		return nil, err
	}
	acc.IsActive, acc.IsVerified = true, true
	return uc.issueTokens(ctx, acc)
}

// ResendOTP re-emite un OTP. REGISTER exige cuenta sin verificar; RESET_PASSWORD exige que exista.
func (uc *AuthUseCase) ResendOTP(ctx context.Context, in dto.ResendOTPRequest) error {
	if !entity.IsValidOTPPurpose(in.Purpose) {
		return domain.ErrInvalidInput
	}
	email := entity.NormalizeEmail(in.Email)
	acc, err := uc.accounts.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if acc == nil {
		return domain.ErrAccountNotFound
	}
	if in.Purpose == entity.OTPPurposeRegister && acc.IsVerified {
		return domain.ErrAlreadyVerified
	}
	return uc.issueOTP(ctx, email, in.Purpose)
}

// Login verifica credenciales. Una cuenta inactiva se rechaza antes de mirar la contraseña.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	acc, err := uc.accounts.GetByEmail(ctx, entity.NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !acc.IsActive {
		if !acc.IsVerified {
			return nil, domain.ErrAccountNotVerified
		}
		return nil, domain.ErrAccountDeactivated
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return uc.issueTokens(ctx, acc)
}

// Refresh rota el refresh token: el jti usado se revoca y se emite un par nuevo.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	if refreshToken == "" {
		return nil, domain.ErrInvalidToken
	}
	claims, err := jwt.ParseRefresh(uc.cfg.Secret, refreshToken)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	ok, err := uc.sessions.Exists(ctx, claims.UserID, claims.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	if err := uc.sessions.Revoke(ctx, claims.UserID, claims.ID); err != nil {
		return nil, err
	}
	acc, err := uc.accounts.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if acc == nil || !acc.IsActive {
		return nil, domain.ErrInvalidToken
	}
	return uc.issueTokens(ctx, acc)
}

// Logout revoca la sesión del refresh token. Tokens inválidos se ignoran.
func (uc *AuthUseCase) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}
	claims, err := jwt.ParseRefresh(uc.cfg.Secret, refreshToken)
	if err != nil {
		return
	}
	if err := uc.sessions.Revoke(ctx, claims.UserID, claims.ID); err != nil {
		uc.log.Warn().Err(err).Str("account_id", claims.UserID).Msg("no se pudo revocar la sesión en logout")
	}
}

// ForgotPassword emite un OTP RESET_PASSWORD para una cuenta existente.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, in dto.ForgotPasswordRequest) error {
	email := entity.NormalizeEmail(in.Email)
	acc, err := uc.accounts.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if acc == nil {
		return domain.ErrAccountNotFound
	}
	return uc.issueOTP(ctx, email, entity.OTPPurposeResetPassword)
}

// ResetPassword valida el OTP, reemplaza la contraseña y cierra todas las sesiones de refresh.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error {
	email := entity.NormalizeEmail(in.Email)
	acc, err := uc.accounts.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if acc == nil {
		return domain.ErrAccountNotFound
	}
	otp, err := uc.checkOTP(ctx, email, entity.OTPPurposeResetPassword, in.OTP)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := uc.accounts.UpdatePassword(ctx, acc.ID, string(hash)); err != nil {
		return err
	}
	if err := uc.otps.Delete(ctx, otp.ID); err != nil {
		return err
	}
	if err := uc.sessions.RevokeAll(ctx, acc.ID); err != nil {
		uc.log.Error().Err(err).Str("account_id", acc.ID).Msg("no se pudieron revocar las sesiones tras reset")
	}
	return nil
}

// Me devuelve la cuenta autenticada.
func (uc *AuthUseCase) Me(ctx context.Context, accountID string) (*dto.AccountResponse, error) {
	acc, err := uc.getAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	out := dto.NewAccountResponse(acc)
	return &out, nil
}

// UpdateProfile aplica solo los campos del perfil (nombre, teléfono, avatar).
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, accountID string, in dto.UpdateProfileRequest) (*dto.AccountResponse, error) {
	acc, err := uc.getAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if in.FullName != nil {
		acc.FullName = *in.FullName
	}
	if in.Phone != nil {
		acc.Phone = *in.Phone
	}
	if in.Avatar != nil {
		acc.Avatar = *in.Avatar
	}
	acc.UpdatedAt = uc.now()
	if err := uc.accounts.Update(ctx, acc); err != nil {
		return nil, err
	}
	out := dto.NewAccountResponse(acc)
	return &out, nil
}

// ChangePassword exige la contraseña actual.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, accountID string, in dto.ChangePasswordRequest) error {
	acc, err := uc.getAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return domain.ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return uc.accounts.UpdatePassword(ctx, acc.ID, string(hash))
}

// UploadAvatar sube la imagen al storage y guarda la URL en la cuenta.
func (uc *AuthUseCase) UploadAvatar(ctx context.Context, accountID, filename, contentType string, r io.Reader, size int64) (*dto.AccountResponse, error) {
	if uc.storage == nil {
		return nil, domain.ErrAvatarUploadDisabled
	}
	acc, err := uc.getAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	url, err := uc.storage.UploadAvatar(ctx, acc.ID, filename, contentType, r, size)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}
	acc.Avatar = url
	acc.UpdatedAt = uc.now()
	if err := uc.accounts.Update(ctx, acc); err != nil {
		return nil, err
	}
	out := dto.NewAccountResponse(acc)
	return &out, nil
}

// CheckAccountStatus re-valida en cada petición que la cuenta del token siga habilitada y
// devuelve la cuenta guardada: su rol manda sobre el del token.
func (uc *AuthUseCase) CheckAccountStatus(ctx context.Context, accountID string) (*entity.Account, error) {
	acc, err := uc.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrUnauthorized
	}
	if !acc.IsVerified {
		return nil, domain.ErrAccountNotVerified
	}
	if !acc.IsActive {
		return nil, domain.ErrAccountDeactivated
	}
	return acc, nil
}

func (uc *AuthUseCase) getAccount(ctx context.Context, id string) (*entity.Account, error) {
	acc, err := uc.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrAccountNotFound
	}
	return acc, nil
}

// issueOTP reemplaza el OTP vigente de (email, purpose) y lo envía por correo en segundo plano.
func (uc *AuthUseCase) issueOTP(ctx context.Context, email, purpose string) error {
	code, err := uc.newCode()
	if err != nil {
		return fmt.Errorf("generar OTP: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := uc.now()
	otp := &entity.OTP{
		ID:        uuid.New().String(),
		Target:    email,
		Purpose:   purpose,
		CodeHash:  string(hash),
		ExpiresAt: now.Add(uc.cfg.OTPTTL),
		CreatedAt: now,
	}
	if err := uc.otps.Replace(ctx, otp); err != nil {
		return err
	}
	if !uc.cfg.Production {
		uc.log.Debug().Str("email", email).Str("purpose", purpose).Str("otp", code).Msg("OTP emitido")
	}
	if uc.mailer != nil {
		ttl := int(uc.cfg.OTPTTL.Minutes())
		uc.tasks.Fire(ctx, "send-otp", func(ctx context.Context) error {
			return uc.mailer.SendOTP(ctx, email, purpose, code, ttl)
		})
	}
	return nil
}

// checkOTP devuelve el OTP si existe, no venció y el código coincide. No borra nada.
func (uc *AuthUseCase) checkOTP(ctx context.Context, email, purpose, code string) (*entity.OTP, error) {
	now := uc.now()
	otp, err := uc.otps.FindActive(ctx, email, purpose, now)
	if err != nil {
		return nil, err
	}
	if otp == nil || otp.IsExpired(now) {
		return nil, domain.ErrInvalidOTP
	}
	if err := bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(code)); err != nil {
		return nil, domain.ErrInvalidOTP
	}
	return otp, nil
}

func (uc *AuthUseCase) issueTokens(ctx context.Context, acc *entity.Account) (*dto.AuthResponse, error) {
	access, err := jwt.GenerateAccess(uc.cfg.Secret, uc.cfg.Issuer, acc.ID, acc.Email, acc.Role, uc.cfg.AccessExpMinutes)
	if err != nil {
		return nil, err
	}
	jti := uuid.New().String()
	refresh, exp, err := jwt.GenerateRefresh(uc.cfg.Secret, uc.cfg.Issuer, acc.ID, jti, uc.cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Save(ctx, acc.ID, jti, exp); err != nil {
		return nil, fmt.Errorf("guardar sesión: %w", err)
	}
	return &dto.AuthResponse{
		AccessToken:      access,
		ExpiresIn:        uc.cfg.AccessExpMinutes * 60,
		Account:          dto.NewAccountResponse(acc),
		RefreshToken:     refresh,
		RefreshExpiresAt: exp,
	}, nil
}

// generateOTPCode código numérico de 6 dígitos con crypto/rand.
func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/storefront-api/internal/application/auth"
	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/tasks"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// ── Mocks ──────────────────────────────────────────────────────────────────

type mockAccounts struct{ mock.Mock }

func (m *mockAccounts) Create(ctx context.Context, a *entity.Account) error {
	return m.Called(ctx, a).Error(0)
}
func (m *mockAccounts) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	args := m.Called(ctx, id)
	acc, _ := args.Get(0).(*entity.Account)
	return acc, args.Error(1)
}
func (m *mockAccounts) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	args := m.Called(ctx, email)
	acc, _ := args.Get(0).(*entity.Account)
	return acc, args.Error(1)
}
func (m *mockAccounts) Update(ctx context.Context, a *entity.Account) error {
	return m.Called(ctx, a).Error(0)
}
func (m *mockAccounts) UpdatePassword(ctx context.Context, id, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}
func (m *mockAccounts) SetActive(ctx context.Context, id string, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}
func (m *mockAccounts) MarkVerified(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockAccounts) List(ctx context.Context, f repository.AccountFilter) ([]*entity.Account, int, error) {
	args := m.Called(ctx, f)
	list, _ := args.Get(0).([]*entity.Account)
	return list, args.Int(1), args.Error(2)
}
func (m *mockAccounts) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockOTPs struct{ mock.Mock }

func (m *mockOTPs) Replace(ctx context.Context, o *entity.OTP) error {
	return m.Called(ctx, o).Error(0)
}
func (m *mockOTPs) FindActive(ctx context.Context, target, purpose string, now time.Time) (*entity.OTP, error) {
	args := m.Called(ctx, target, purpose, now)
	o, _ := args.Get(0).(*entity.OTP)
	return o, args.Error(1)
}
func (m *mockOTPs) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockOTPs) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// memSessions implementación en memoria de SessionStore.
type memSessions struct {
	mu   sync.Mutex
	byID map[string]map[string]time.Time
}

func newMemSessions() *memSessions { return &memSessions{byID: map[string]map[string]time.Time{}} }

func (s *memSessions) Save(_ context.Context, accountID, jti string, exp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byID[accountID] == nil {
		s.byID[accountID] = map[string]time.Time{}
	}
	s.byID[accountID][jti] = exp
	return nil
}
func (s *memSessions) Exists(_ context.Context, accountID, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byID[accountID][jti]
	return ok, nil
}
func (s *memSessions) Revoke(_ context.Context, accountID, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID[accountID], jti)
	return nil
}
func (s *memSessions) RevokeAll(_ context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, accountID)
	return nil
}
func (s *memSessions) count(accountID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID[accountID])
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendOTP(ctx context.Context, to, purpose, code string, ttl int) error {
	return m.Called(ctx, to, purpose, code, ttl).Error(0)
}

// ── Helpers ────────────────────────────────────────────────────────────────

type fixture struct {
	uc       *auth.AuthUseCase
	accounts *mockAccounts
	otps     *mockOTPs
	sessions *memSessions
	mailer   *mockMailer
	runner   *tasks.Runner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		accounts: new(mockAccounts),
		otps:     new(mockOTPs),
		sessions: newMemSessions(),
		mailer:   new(mockMailer),
		runner:   tasks.NewRunner(nil, time.Second),
	}
	f.uc = auth.NewAuthUseCase(auth.Deps{
		Accounts: f.accounts,
		OTPs:     f.otps,
		Sessions: f.sessions,
		Mailer:   f.mailer,
		Tasks:    f.runner,
	}, auth.Config{
		Secret:           "test-secret",
		Issuer:           "test",
		AccessExpMinutes: 15,
		RefreshTTL:       7 * 24 * time.Hour,
		OTPTTL:           10 * time.Minute,
	})
	f.uc.SetCodeGenerator(func() (string, error) { return "123456", nil })
	return f
}

func hashOf(t *testing.T, s string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(s), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func activeAccount(t *testing.T, password string) *entity.Account {
	return &entity.Account{
		ID:           "acc-1",
		Email:        "user@test.com",
		PasswordHash: hashOf(t, password),
		FullName:     "Jane Doe",
		Role:         entity.RoleCustomer,
		IsActive:     true,
		IsVerified:   true,
	}
}

// ── Register ───────────────────────────────────────────────────────────────

func TestRegister_CreaCuentaInactivaYEnviaOTP(t *testing.T) {
	f := newFixture(t)
	f.accounts.On("GetByEmail", mock.Anything, "user@test.com").Return(nil, nil)
	f.accounts.On("Create", mock.Anything, mock.MatchedBy(func(a *entity.Account) bool {
		return a.Email == "user@test.com" && a.Role == entity.RoleCustomer && !a.IsActive && !a.IsVerified &&
			bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("secret1")) == nil
	})).Return(nil)
	f.otps.On("Replace", mock.Anything, mock.MatchedBy(func(o *entity.OTP) bool {
		return o.Target == "user@test.com" && o.Purpose == entity.OTPPurposeRegister &&
			bcrypt.CompareHashAndPassword([]byte(o.CodeHash), []byte("123456")) == nil
	})).Return(nil)
	f.mailer.On("SendOTP", mock.Anything, "user@test.com", entity.OTPPurposeRegister, "123456", 10).Return(nil)

	out, err := f.uc.Register(context.Background(), dto.RegisterRequest{
		Email: "  User@Test.com ", Password: "secret1", FullName: "Jane Doe",
	})
	require.NoError(t, err)
	f.runner.Wait()

	assert.NotEmpty(t, out.AccountID)
	assert.Equal(t, "user@test.com", out.Email)
	f.accounts.AssertExpectations(t)
	f.otps.AssertExpectations(t)
	f.mailer.AssertExpectations(t)
}

func TestRegister_EmailDuplicadoSinImportarMayusculas(t *testing.T) {
	f := newFixture(t)
	f.accounts.On("GetByEmail", mock.Anything, "user@test.com").Return(activeAccount(t, "x"), nil)

	_, err := f.uc.Register(context.Background(), dto.RegisterRequest{
		Email: "USER@test.com", Password: "secret1", FullName: "Jane Doe",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	f.accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_FalloDeCorreoNoPropaga(t *testing.T) {
	f := newFixture(t)
	f.accounts.On("GetByEmail", mock.Anything, "user@test.com").Return(nil, nil)
	f.accounts.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.otps.On("Replace", mock.Anything, mock.Anything).Return(nil)
	f.mailer.On("SendOTP", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(assert.AnError)

	_, err := f.uc.Register(context.Background(), dto.RegisterRequest{Email: "user@test.com", Password: "secret1", FullName: "J"})
	f.runner.Wait()
	assert.NoError(t, err)
}

// ── Verify register ────────────────────────────────────────────────────────

func pendingAccount() *entity.Account {
	return &entity.Account{ID: "acc-1", Email: "user@test.com", Role: entity.RoleCustomer}
}

func TestVerifyRegister_CodigoIncorrecto_NoMuta(t *testing.T) {
	f := newFixture(t)
	f.accounts.On("GetByEmail", mock.Anything, "user@test.com").Return(pendingAccount(), nil)
	f.otps.On("FindActive", mock.Anything, "user@test.com", entity.OTPPurposeRegister, mock.Anything).
		Return(&entity.OTP{ID: "otp-1", CodeHash: hashOf(t, "654321"), ExpiresAt: time.Now().Add(time.Minute)}, nil)

	_, err := f.uc.VerifyRegister(context.Background(), dto.VerifyOTPRequest{Email: "user@test.com", OTP: "123456"})
	assert.ErrorIs(t, err, domain.ErrInvalidOTP)
	f.accounts.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything)
	f.otps.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestVerifyRegister_OTPVencido_NoMuta(t *testing.T) {
	f := newFixture(t)
	f.accounts.On("GetByEmail", mock.Anything, "user@test.com").Return(pendingAccount(), nil)
	f.otps.On("FindActive", mock.Anything, "user@test.com", entity.OTPPurposeRegister, mock.Anything).
		Return(&entity.OTP{ID: "otp-1", CodeHash: hashOf(t, "123456"), ExpiresAt: time.Now().Add(-time.Second)}, nil)

	_, err := f.uc.VerifyRegister(context.Background(), dto.VerifyOTPRequest{Email: "user@test.com", OTP: "123456"})
	assert.ErrorIs(t, err, domain.ErrInvalidOTP)
	f.accounts.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything)
	f.otps.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestVerifyRegister_YaVerificada(t *testing.T) {
	f := newFixture(t)
	f.accounts.On("GetByEmail", mock.Anything, "user@test.com").Return(activeAccount(t, "x"), nil)

	_, err := f.uc.VerifyRegister(context.Background(), dto.VerifyOTPRequest{Email: "user@test.com", OTP: "123456"})
	assert.ErrorIs(t, err, domain.ErrAlreadyVerified)
}

func TestVerifyRegister_CuentaInexistente(t *testing.T) {
	f := newFixture(t)
	f.accounts.On("GetByEmail", mock.Anything, "ghost@test.com").Return(nil, nil)

	_, err := f.uc.VerifyRegister(context.Background(), dto.VerifyOTPRequest{Email: "ghost@test.com", OTP: "123456"})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestVerifyRegister_Exito_ActivaYEmiteTokens(t *testing.T) {
	f := newFixture(t)
	f.accounts.On("GetByEmail", mock.Anything, "user@test.com").Return(pendingAccount(), nil)
	f.otps.On("FindActive", mock.Anything, "user@test.com", entity.OTPPurposeRegister, mock.Anything).
		Return(&entity.OTP{ID: "otp-1", CodeHash: hashOf(t, "123456"), ExpiresAt: time.Now().Add(time.Minute)}, nil)
	f.accounts.On("MarkVerified", mock.Anything, "acc-1").Return(nil)
	f.otps.On("Delete", mock.Anything, "otp-1").Return(nil)

	out, err := f.uc.VerifyRegister(context.Background(), dto.VerifyOTPRequest{Email: "user@test.com", OTP: "123456"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)
	assert.True(t, out.Account.IsActive)
	assert.True(t, out.Account.IsVerified)
	assert.Equal(t, 1, f.sessions.count("acc-1"))
	f.accounts.AssertExpectations(t)
	f.otps.AssertExpectations(t)
}

// ── Login ──────────────────────────────────────────────────────────────────

func TestLogin_CuentaDesactivada_AunConPasswordCorrecto(t *testing.T) {
	f := newFixture(t)
	acc := activeAccount(t, "secret1")
	acc.IsActive = false
	f.accounts.On("GetByEmail", mock.Anything, "user@test.com").Return(acc, nil)

	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "user@test.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrAccountDeactivated)
}

func TestLogin_CuentaSinVerificar(t *testing.T) {
	f := newFixture(t)
	f.accounts.On("GetByEmail", mock.Anything, "user@test.com").Return(pendingAccount(), nil)

	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "user@test.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrAccountNotVerified)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	f := newFixture(t)
	f.accounts.On("GetByEmail", mock.Anything, "user@test.com").Return(activeAccount(t, "secret1"), nil)
	f.accounts.On("GetByEmail", mock.Anything, "ghost@test.com").Return(nil, nil)

	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "user@test.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Email: "ghost@test.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

// ── Refresh / logout ───────────────────────────────────────────────────────

func TestRefresh_RotaYNoPermiteReuso(t *testing.T) {
	f := newFixture(t)
	acc := activeAccount(t, "secret1")
	f.accounts.On("GetByEmail", mock.Anything, "user@test.com").Return(acc, nil)
	f.accounts.On("GetByID", mock.Anything, "acc-1").Return(acc, nil)

	login, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "User@test.com", Password: "secret1"})
	require.NoError(t, err)

	rotated, err := f.uc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, rotated.RefreshToken)
	assert.Equal(t, 1, f.sessions.count("acc-1"))

	_, err = f.uc.Refresh(context.Background(), login.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken, "un refresh ya rotado no debe servir")
}

func TestRefresh_CuentaDesactivada(t *testing.T) {
	f := newFixture(t)
	acc := activeAccount(t, "secret1")
	f.accounts.On("GetByEmail", mock.Anything, "user@test.com").Return(acc, nil)
	login, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "user@test.com", Password: "secret1"})
	require.NoError(t, err)

	banned := *acc
	banned.IsActive = false
	f.accounts.On("GetByID", mock.Anything, "acc-1").Return(&banned, nil)

	_, err = f.uc.Refresh(context.Background(), login.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestRefresh_AccessTokenNoSirve(t *testing.T) {
	f := newFixture(t)
	acc := activeAccount(t, "secret1")
	f.accounts.On("GetByEmail", mock.Anything, "user@test.com").Return(acc, nil)
	login, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "user@test.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.uc.Refresh(context.Background(), login.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestLogout_RevocaSesion(t *testing.T) {
	f := newFixture(t)
	acc := activeAccount(t, "secret1")
	f.accounts.On("GetByEmail", mock.Anything, "user@test.com").Return(acc, nil)
	login, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "user@test.com", Password: "secret1"})
	require.NoError(t, err)

	f.uc.Logout(context.Background(), login.RefreshToken)
	assert.Equal(t, 0, f.sessions.count("acc-1"))

	f.uc.Logout(context.Background(), "basura")
}

// ── Password reset ─────────────────────────────────────────────────────────

func TestResetPassword_RevocaTodasLasSesiones(t *testing.T) {
	f := newFixture(t)
	acc := activeAccount(t, "secret1")
	require.NoError(t, f.sessions.Save(context.Background(), "acc-1", "a", time.Now().Add(time.Hour)))
	require.NoError(t, f.sessions.Save(context.Background(), "acc-1", "b", time.Now().Add(time.Hour)))

	f.accounts.On("GetByEmail", mock.Anything, "user@test.com").Return(acc, nil)
	f.otps.On("FindActive", mock.Anything, "user@test.com", entity.OTPPurposeResetPassword, mock.Anything).
		Return(&entity.OTP{ID: "otp-9", CodeHash: hashOf(t, "123456"), ExpiresAt: time.Now().Add(time.Minute)}, nil)
	f.accounts.On("UpdatePassword", mock.Anything, "acc-1", mock.MatchedBy(func(h string) bool {
		return bcrypt.CompareHashAndPassword([]byte(h), []byte("newpass1")) == nil
	})).Return(nil)
	f.otps.On("Delete", mock.Anything, "otp-9").Return(nil)

	err := f.uc.ResetPassword(context.Background(), dto.ResetPasswordRequest{
		Email: "user@test.com", OTP: "123456", NewPassword: "newpass1",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, f.sessions.count("acc-1"))
	f.accounts.AssertExpectations(t)
	f.otps.AssertExpectations(t)
}

func TestForgotPassword_CuentaInexistente(t *testing.T) {
	f := newFixture(t)
	f.accounts.On("GetByEmail", mock.Anything, "ghost@test.com").Return(nil, nil)

	err := f.uc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: "ghost@test.com"})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestResendOTP_RegistroDeCuentaVerificada(t *testing.T) {
	f := newFixture(t)
	f.accounts.On("GetByEmail", mock.Anything, "user@test.com").Return(activeAccount(t, "x"), nil)

	err := f.uc.ResendOTP(context.Background(), dto.ResendOTPRequest{Email: "user@test.com", Purpose: entity.OTPPurposeRegister})
	assert.ErrorIs(t, err, domain.ErrAlreadyVerified)
}

// ── Perfil ─────────────────────────────────────────────────────────────────

func TestChangePassword_ActualIncorrecta(t *testing.T) {
	f := newFixture(t)
	f.accounts.On("GetByID", mock.Anything, "acc-1").Return(activeAccount(t, "secret1"), nil)

	err := f.uc.ChangePassword(context.Background(), "acc-1", dto.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "another1"})
	assert.ErrorIs(t, err, domain.ErrWrongPassword)
	f.accounts.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateProfile_SoloCamposPermitidos(t *testing.T) {
	f := newFixture(t)
	acc := activeAccount(t, "secret1")
	f.accounts.On("GetByID", mock.Anything, "acc-1").Return(acc, nil)
	f.accounts.On("Update", mock.Anything, mock.MatchedBy(func(a *entity.Account) bool {
		return a.FullName == "Jane Q" && a.Email == "user@test.com" && a.Role == entity.RoleCustomer
	})).Return(nil)

	name := "Jane Q"
	out, err := f.uc.UpdateProfile(context.Background(), "acc-1", dto.UpdateProfileRequest{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Jane Q", out.FullName)
	f.accounts.AssertExpectations(t)
}

func TestCheckAccountStatus(t *testing.T) {
	f := newFixture(t)
	banned := activeAccount(t, "x")
	banned.IsActive = false
	f.accounts.On("GetByID", mock.Anything, "ok").Return(activeAccount(t, "x"), nil)
	f.accounts.On("GetByID", mock.Anything, "banned").Return(banned, nil)
	f.accounts.On("GetByID", mock.Anything, "ghost").Return(nil, nil)

	acc, err := f.uc.CheckAccountStatus(context.Background(), "ok")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCustomer, acc.Role)

	_, err = f.uc.CheckAccountStatus(context.Background(), "banned")
	assert.ErrorIs(t, err, domain.ErrAccountDeactivated)
	_, err = f.uc.CheckAccountStatus(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

package admin_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/application/admin"
	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/internal/testutil"
)

type mockAnalytics struct{ mock.Mock }

func (m *mockAnalytics) RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *mockAnalytics) CountOrders(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *mockAnalytics) CountOrdersByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]repository.StatusCount)
	return list, args.Error(1)
}
func (m *mockAnalytics) CountAccountsByRole(ctx context.Context, role string) (int, error) {
	args := m.Called(ctx, role)
	return args.Int(0), args.Error(1)
}
func (m *mockAnalytics) CountActiveProducts(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *mockAnalytics) RecentOrders(ctx context.Context, limit int) ([]*entity.Order, error) {
	args := m.Called(ctx, limit)
	list, _ := args.Get(0).([]*entity.Order)
	return list, args.Error(1)
}
func (m *mockAnalytics) ListCustomers(ctx context.Context, search string, limit, offset int) ([]*entity.CustomerSummary, int, error) {
	args := m.Called(ctx, search, limit, offset)
	list, _ := args.Get(0).([]*entity.CustomerSummary)
	return list, args.Int(1), args.Error(2)
}
func (m *mockAnalytics) GetCustomer(ctx context.Context, id string) (*entity.CustomerSummary, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*entity.CustomerSummary)
	return c, args.Error(1)
}

type revokeRecorder struct{ revoked []string }

func (r *revokeRecorder) Save(context.Context, string, string, time.Time) error { return nil }
func (r *revokeRecorder) Exists(context.Context, string, string) (bool, error)  { return true, nil }
func (r *revokeRecorder) Revoke(context.Context, string, string) error          { return nil }
func (r *revokeRecorder) RevokeAll(_ context.Context, accountID string) error {
	r.revoked = append(r.revoked, accountID)
	return nil
}

var (
	adminAcc = &entity.Account{ID: "admin-1", Email: "admin@test.com", FullName: "Root", Role: entity.RoleAdmin, IsActive: true, IsVerified: true}
	custAcc  = &entity.Account{ID: "cust-1", Email: "jane@test.com", FullName: "Jane", Role: entity.RoleCustomer, IsActive: true, IsVerified: true, PasswordHash: "hash"}
)

func setup() (*admin.AdminUseCase, *testutil.Accounts, *mockAnalytics, *revokeRecorder) {
	accounts := testutil.NewAccounts(adminAcc, custAcc)
	an := new(mockAnalytics)
	rec := &revokeRecorder{}
	return admin.NewAdminUseCase(accounts, an, rec, nil), accounts, an, rec
}

func TestCreateAccount_ActivaYVerificada(t *testing.T) {
	uc, _, _, _ := setup()
	out, err := uc.CreateAccount(context.Background(), dto.AdminCreateAccountRequest{
		Email: "Staff@Test.com", Password: "secret1", FullName: "Sam", Role: entity.RoleStaff,
	})
	require.NoError(t, err)
	assert.Equal(t, "staff@test.com", out.Email)
	assert.True(t, out.IsActive)
	assert.True(t, out.IsVerified)
	assert.Equal(t, entity.RoleStaff, out.Role)

	_, err = uc.CreateAccount(context.Background(), dto.AdminCreateAccountRequest{
		Email: "JANE@test.com", Password: "secret1", FullName: "Dup", Role: entity.RoleCustomer,
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestUpdateAccount_NoTocaCamposFueraDeLista(t *testing.T) {
	uc, accounts, _, _ := setup()
	name := "Jane Updated"
	role := entity.RoleShipper

	out, err := uc.UpdateAccount(context.Background(), "admin-1", "cust-1", dto.AdminUpdateAccountRequest{FullName: &name, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "Jane Updated", out.FullName)
	assert.Equal(t, entity.RoleShipper, out.Role)

	stored, _ := accounts.GetByID(context.Background(), "cust-1")
	assert.Equal(t, "jane@test.com", stored.Email)
	assert.Equal(t, "hash", stored.PasswordHash)
}

func TestUpdateAccount_DesactivarRevocaSesiones(t *testing.T) {
	uc, _, _, rec := setup()
	off := false
	_, err := uc.UpdateAccount(context.Background(), "admin-1", "cust-1", dto.AdminUpdateAccountRequest{IsActive: &off})
	require.NoError(t, err)
	assert.Equal(t, []string{"cust-1"}, rec.revoked)
}

func TestAccionesSobreSiMismo(t *testing.T) {
	uc, _, _, _ := setup()
	ctx := context.Background()
	off := false
	staff := entity.RoleStaff

	_, err := uc.SetActive(ctx, "admin-1", "admin-1", false)
	assert.ErrorIs(t, err, domain.ErrSelfAction)
	assert.ErrorIs(t, uc.DeleteAccount(ctx, "admin-1", "admin-1"), domain.ErrSelfAction)
	_, err = uc.ChangeRole(ctx, "admin-1", "admin-1", entity.RoleCustomer)
	assert.ErrorIs(t, err, domain.ErrSelfAction)
	_, err = uc.UpdateAccount(ctx, "admin-1", "admin-1", dto.AdminUpdateAccountRequest{IsActive: &off})
	assert.ErrorIs(t, err, domain.ErrSelfAction)
	_, err = uc.UpdateAccount(ctx, "admin-1", "admin-1", dto.AdminUpdateAccountRequest{Role: &staff})
	assert.ErrorIs(t, err, domain.ErrSelfAction)

	name := "Root 2"
	_, err = uc.UpdateAccount(ctx, "admin-1", "admin-1", dto.AdminUpdateAccountRequest{FullName: &name})
	assert.NoError(t, err, "editar el propio nombre está permitido")
}

func TestBanUnban(t *testing.T) {
	uc, _, _, rec := setup()
	ctx := context.Background()

	out, err := uc.SetActive(ctx, "admin-1", "cust-1", false)
	require.NoError(t, err)
	assert.False(t, out.IsActive)
	assert.Equal(t, []string{"cust-1"}, rec.revoked)

	out, err = uc.SetActive(ctx, "admin-1", "cust-1", true)
	require.NoError(t, err)
	assert.True(t, out.IsActive)

	_, err = uc.SetActive(ctx, "admin-1", "ghost", false)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestChangeRoleYDelete(t *testing.T) {
	uc, accounts, _, _ := setup()
	ctx := context.Background()

	_, err := uc.ChangeRole(ctx, "admin-1", "cust-1", "OWNER")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	out, err := uc.ChangeRole(ctx, "admin-1", "cust-1", entity.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleStaff, out.Role)

	require.NoError(t, uc.DeleteAccount(ctx, "admin-1", "cust-1"))
	got, _ := accounts.GetByID(ctx, "cust-1")
	assert.Nil(t, got)
	assert.ErrorIs(t, uc.DeleteAccount(ctx, "admin-1", "cust-1"), domain.ErrAccountNotFound)
}

func TestCambioDeRolRevocaSesiones(t *testing.T) {
	uc, _, _, rec := setup()
	ctx := context.Background()
	var cut []string
	uc.OnAccessRevoked(func(id string) { cut = append(cut, id) })

	_, err := uc.ChangeRole(ctx, "admin-1", "cust-1", entity.RoleCustomer)
	require.NoError(t, err)
	assert.Empty(t, rec.revoked, "mismo rol no cierra sesiones")

	_, err = uc.ChangeRole(ctx, "admin-1", "cust-1", entity.RoleStaff)
	require.NoError(t, err)
	shipper := entity.RoleShipper
	_, err = uc.UpdateAccount(ctx, "admin-1", "cust-1", dto.AdminUpdateAccountRequest{Role: &shipper})
	require.NoError(t, err)

	assert.Equal(t, []string{"cust-1", "cust-1"}, rec.revoked)
	assert.Equal(t, []string{"cust-1", "cust-1"}, cut)
}

func TestListAccounts_FiltroPorRol(t *testing.T) {
	uc, _, _, _ := setup()
	out, err := uc.ListAccounts(context.Background(), dto.AccountListQuery{Role: entity.RoleCustomer})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "cust-1", out.Items[0].ID)

	_, err = uc.ListAccounts(context.Background(), dto.AccountListQuery{Role: "GOD"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListCustomers_Agregados(t *testing.T) {
	uc, _, an, _ := setup()
	last := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	an.On("ListCustomers", mock.Anything, "jane", 20, 0).Return([]*entity.CustomerSummary{
		{Account: *custAcc, TotalOrders: 3, TotalSpent: decimal.NewFromInt(150), LastOrderDate: &last},
	}, 1, nil)

	out, err := uc.ListCustomers(context.Background(), dto.CustomerListQuery{Search: " jane "})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, 3, out.Items[0].TotalOrders)
	assert.True(t, decimal.NewFromInt(150).Equal(out.Items[0].TotalSpent))
	assert.Equal(t, "jane@test.com", out.Items[0].Email)
	an.AssertExpectations(t)
}

func TestGetCustomer_NoExiste(t *testing.T) {
	uc, _, an, _ := setup()
	an.On("GetCustomer", mock.Anything, "ghost").Return(nil, nil)
	_, err := uc.GetCustomer(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

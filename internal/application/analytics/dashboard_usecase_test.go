package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/application/analytics"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

type mockAnalyticsRepo struct{ mock.Mock }

func (m *mockAnalyticsRepo) RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *mockAnalyticsRepo) CountOrders(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *mockAnalyticsRepo) CountOrdersByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]repository.StatusCount)
	return list, args.Error(1)
}
func (m *mockAnalyticsRepo) CountAccountsByRole(ctx context.Context, role string) (int, error) {
	args := m.Called(ctx, role)
	return args.Int(0), args.Error(1)
}
func (m *mockAnalyticsRepo) CountActiveProducts(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *mockAnalyticsRepo) RecentOrders(ctx context.Context, limit int) ([]*entity.Order, error) {
	args := m.Called(ctx, limit)
	list, _ := args.Get(0).([]*entity.Order)
	return list, args.Error(1)
}
func (m *mockAnalyticsRepo) ListCustomers(ctx context.Context, search string, limit, offset int) ([]*entity.CustomerSummary, int, error) {
	args := m.Called(ctx, search, limit, offset)
	list, _ := args.Get(0).([]*entity.CustomerSummary)
	return list, args.Int(1), args.Error(2)
}
func (m *mockAnalyticsRepo) GetCustomer(ctx context.Context, id string) (*entity.CustomerSummary, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*entity.CustomerSummary)
	return c, args.Error(1)
}

var fixedNow = time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC)

func stubAll(repo *mockAnalyticsRepo) {
	monthStart := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	repo.On("RevenueSince", mock.Anything, time.Time{}).Return(decimal.RequireFromString("1234.567"), nil)
	repo.On("RevenueSince", mock.Anything, monthStart).Return(decimal.NewFromInt(200), nil)
	repo.On("CountOrders", mock.Anything).Return(12, nil)
	repo.On("CountAccountsByRole", mock.Anything, entity.RoleCustomer).Return(7, nil)
	repo.On("CountActiveProducts", mock.Anything).Return(30, nil)
	repo.On("CountOrdersByStatus", mock.Anything).Return([]repository.StatusCount{
		{Status: entity.OrderStatusPending, Count: 4},
		{Status: entity.OrderStatusShipped, Count: 8},
	}, nil)
	repo.On("RecentOrders", mock.Anything, 5).Return([]*entity.Order{{ID: "o1", Code: "ORD1"}}, nil)
}

func TestGetStats(t *testing.T) {
	repo := new(mockAnalyticsRepo)
	stubAll(repo)
	uc := analytics.NewDashboardUseCase(repo)
	uc.SetClock(func() time.Time { return fixedNow })

	out, err := uc.GetStats(context.Background())
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("1234.57").Equal(out.TotalRevenue))
	assert.True(t, decimal.NewFromInt(200).Equal(out.MonthlyRevenue))
	assert.Equal(t, 12, out.TotalOrders)
	assert.Equal(t, 4, out.PendingOrders)
	assert.Equal(t, 7, out.TotalCustomers)
	assert.Equal(t, 30, out.ActiveProducts)
	assert.Equal(t, 0, out.OrdersByStatus[entity.OrderStatusCancelled])
	assert.Len(t, out.OrdersByStatus, 6)
	require.Len(t, out.RecentOrders, 1)
	assert.Equal(t, "October 2026", out.MonthLabel)
	repo.AssertExpectations(t)
}

func TestGetStats_ErrorEnUnaConsulta(t *testing.T) {
	repo := new(mockAnalyticsRepo)
	monthStart := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	repo.On("RevenueSince", mock.Anything, time.Time{}).Return(decimal.Zero, nil)
	repo.On("RevenueSince", mock.Anything, monthStart).Return(decimal.Zero, nil)
	repo.On("CountOrders", mock.Anything).Return(0, assert.AnError)
	repo.On("CountAccountsByRole", mock.Anything, entity.RoleCustomer).Return(0, nil)
	repo.On("CountActiveProducts", mock.Anything).Return(0, nil)
	repo.On("CountOrdersByStatus", mock.Anything).Return(nil, nil)
	repo.On("RecentOrders", mock.Anything, 5).Return(nil, nil)

	uc := analytics.NewDashboardUseCase(repo)
	uc.SetClock(func() time.Time { return fixedNow })
	_, err := uc.GetStats(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

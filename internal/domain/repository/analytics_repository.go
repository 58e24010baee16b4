package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// StatusCount cantidad de pedidos en un estado.
type StatusCount struct {
	Status string
	Count  int
}

// AnalyticsRepository consultas de lectura para el dashboard y la vista de clientes.
// Las implementaciones son read-only.
type AnalyticsRepository interface {
	// RevenueSince suma total_amount de pedidos no cancelados creados desde `since`
	// (time.Time{} = todo el histórico).
	RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error)
	CountOrders(ctx context.Context) (int, error)
	CountOrdersByStatus(ctx context.Context) ([]StatusCount, error)
	CountAccountsByRole(ctx context.Context, role string) (int, error)
	CountActiveProducts(ctx context.Context) (int, error)
	RecentOrders(ctx context.Context, limit int) ([]*entity.Order, error)

	// ListCustomers devuelve cuentas CUSTOMER con agregados de pedidos
	// (total, gastado sin CANCELLED, fecha del último).
	ListCustomers(ctx context.Context, search string, limit, offset int) ([]*entity.CustomerSummary, int, error)
	GetCustomer(ctx context.Context, id string) (*entity.CustomerSummary, error)
}

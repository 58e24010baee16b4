// Package analytics contiene los casos de uso de estadísticas del back office.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

const dashboardRecentOrders = 5 // pedidos en el widget "recientes"

// DashboardUseCase genera las estadísticas del dashboard de administración.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// SetClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) SetClock(fn func() time.Time) { uc.now = fn }

// GetStats ejecuta las consultas en paralelo y arma el DTO. Si alguna falla, devuelve la
// primera en el orden del DTO.
func (uc *DashboardUseCase) GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	now := uc.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type decResult struct {
		v   decimal.Decimal
		err error
	}
	type intResult struct {
		v   int
		err error
	}
	type statusResult struct {
		v   []repository.StatusCount
		err error
	}
	type ordersResult struct {
		v   []*entity.Order
		err error
	}

	revenueCh := make(chan decResult, 1)
	monthCh := make(chan decResult, 1)
	ordersCh := make(chan intResult, 1)
	customersCh := make(chan intResult, 1)
	productsCh := make(chan intResult, 1)
	statusCh := make(chan statusResult, 1)
	recentCh := make(chan ordersResult, 1)

	go func() {
		v, err := uc.analyticsRepo.RevenueSince(ctx, time.Time{})
		revenueCh <- decResult{v, err}
	}()
	go func() {
		v, err := uc.analyticsRepo.RevenueSince(ctx, monthStart)
		monthCh <- decResult{v, err}
	}()
	go func() {
		v, err := uc.analyticsRepo.CountOrders(ctx)
		ordersCh <- intResult{v, err}
	}()
	go func() {
		v, err := uc.analyticsRepo.CountAccountsByRole(ctx, entity.RoleCustomer)
		customersCh <- intResult{v, err}
	}()
	go func() {
		v, err := uc.analyticsRepo.CountActiveProducts(ctx)
		productsCh <- intResult{v, err}
	}()
	go func() {
		v, err := uc.analyticsRepo.CountOrdersByStatus(ctx)
		statusCh <- statusResult{v, err}
	}()
	go func() {
		v, err := uc.analyticsRepo.RecentOrders(ctx, dashboardRecentOrders)
		recentCh <- ordersResult{v, err}
	}()

	revenue, month := <-revenueCh, <-monthCh
	orders, customers, products := <-ordersCh, <-customersCh, <-productsCh
	statuses, recent := <-statusCh, <-recentCh

	switch {
	case revenue.err != nil:
		return nil, fmt.Errorf("dashboard: ingresos totales: %w", revenue.err)
	case month.err != nil:
		return nil, fmt.Errorf("dashboard: ingresos del mes: %w", month.err)
	case orders.err != nil:
		return nil, fmt.Errorf("dashboard: total de pedidos: %w", orders.err)
	case customers.err != nil:
		return nil, fmt.Errorf("dashboard: clientes: %w", customers.err)
	case products.err != nil:
		return nil, fmt.Errorf("dashboard: productos activos: %w", products.err)
	case statuses.err != nil:
		return nil, fmt.Errorf("dashboard: pedidos por estado: %w", statuses.err)
	case recent.err != nil:
		return nil, fmt.Errorf("dashboard: pedidos recientes: %w", recent.err)
	}

	byStatus := map[string]int{
		entity.OrderStatusPending:    0,
		entity.OrderStatusConfirmed:  0,
		entity.OrderStatusProcessing: 0,
		entity.OrderStatusShipped:    0,
		entity.OrderStatusDelivered:  0,
		entity.OrderStatusCancelled:  0,
	}
	for _, s := range statuses.v {
		byStatus[s.Status] = s.Count
	}
	recentDTO := make([]dto.OrderResponse, 0, len(recent.v))
	for _, o := range recent.v {
		recentDTO = append(recentDTO, dto.NewOrderResponse(o))
	}

	return &dto.DashboardStatsDTO{
		TotalRevenue:   revenue.v.Round(2),
		MonthlyRevenue: month.v.Round(2),
		TotalOrders:    orders.v,
		PendingOrders:  byStatus[entity.OrderStatusPending],
		TotalCustomers: customers.v,
		ActiveProducts: products.v,
		OrdersByStatus: byStatus,
		RecentOrders:   recentDTO,
		MonthLabel:     fmt.Sprintf("%s %d", now.Month(), now.Year()),
	}, nil
}

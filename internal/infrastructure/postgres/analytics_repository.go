package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard y la vista de clientes.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// RevenueSince suma los pedidos no cancelados. since cero = todo el histórico.
func (r *AnalyticsRepo) RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(total_amount), 0)
	FROM orders
	WHERE status <> 'CANCELLED'
	  AND ($1::timestamptz IS NULL OR created_at >= $1)`

	var sinceArg *time.Time
	if !since.IsZero() {
		sinceArg = &since
	}
	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, sinceArg).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("analytics.RevenueSince: %w", err)
	}
	return total, nil
}

func (r *AnalyticsRepo) CountOrders(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("analytics.CountOrders: %w", err)
	}
	return n, nil
}

func (r *AnalyticsRepo) CountOrdersByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, count(*) FROM orders GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, fmt.Errorf("analytics.CountOrdersByStatus: %w", err)
	}
	defer rows.Close()

	var results []repository.StatusCount
	for rows.Next() {
		var row repository.StatusCount
		if err := rows.Scan(&row.Status, &row.Count); err != nil {
			return nil, fmt.Errorf("analytics.CountOrdersByStatus scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

func (r *AnalyticsRepo) CountAccountsByRole(ctx context.Context, role string) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM accounts WHERE role = $1`, role).Scan(&n); err != nil {
		return 0, fmt.Errorf("analytics.CountAccountsByRole: %w", err)
	}
	return n, nil
}

func (r *AnalyticsRepo) CountActiveProducts(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM products WHERE is_active`).Scan(&n); err != nil {
		return 0, fmt.Errorf("analytics.CountActiveProducts: %w", err)
	}
	return n, nil
}

func (r *AnalyticsRepo) RecentOrders(ctx context.Context, limit int) ([]*entity.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.RecentOrders: %w", err)
	}
	return collectOrders(rows)
}

// customerSelect une cada cliente con los agregados de sus pedidos.
// El gasto excluye pedidos cancelados; el conteo y la última fecha los incluyen.
const customerSelect = `
	SELECT a.id, a.email, a.password_hash, a.full_name, a.phone, a.role, a.is_active, a.is_verified,
	       a.avatar, a.created_at, a.updated_at,
	       COUNT(o.id)                                                           AS total_orders,
	       COALESCE(SUM(o.total_amount) FILTER (WHERE o.status <> 'CANCELLED'), 0) AS total_spent,
	       MAX(o.created_at)                                                     AS last_order_date
	FROM accounts a
	LEFT JOIN orders o ON o.account_id = a.id
	WHERE a.role = 'CUSTOMER'`

// ListCustomers lista clientes con sus agregados, búsqueda por email o nombre.
func (r *AnalyticsRepo) ListCustomers(ctx context.Context, search string, limit, offset int) ([]*entity.CustomerSummary, int, error) {
	const filter = ` AND ($1::text = '' OR a.email ILIKE $2 OR a.full_name ILIKE $2)`

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM accounts a WHERE a.role = 'CUSTOMER'`+filter,
		search, likePattern(search)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("analytics.ListCustomers count: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		customerSelect+filter+` GROUP BY a.id ORDER BY a.created_at DESC LIMIT $3 OFFSET $4`,
		search, likePattern(search), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("analytics.ListCustomers: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.CustomerSummary, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("analytics.ListCustomers scan: %w", err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

// GetCustomer devuelve nil si la cuenta no existe o no es CUSTOMER.
func (r *AnalyticsRepo) GetCustomer(ctx context.Context, id string) (*entity.CustomerSummary, error) {
	c, err := scanCustomer(r.pool.QueryRow(ctx, customerSelect+` AND a.id = $1 GROUP BY a.id`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("analytics.GetCustomer: %w", err)
	}
	return c, nil
}

func scanCustomer(row pgx.Row) (*entity.CustomerSummary, error) {
	var c entity.CustomerSummary
	var phone, avatar *string
	a := &c.Account
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.FullName, &phone, &a.Role,
		&a.IsActive, &a.IsVerified, &avatar, &a.CreatedAt, &a.UpdatedAt,
		&c.TotalOrders, &c.TotalSpent, &c.LastOrderDate); err != nil {
		return nil, err
	}
	a.Phone = derefString(phone)
	a.Avatar = derefString(avatar)
	return &c, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, code, account_id, items, shipping_address, payment_method, status, total_amount, note, created_at, updated_at`

// OrderRepo pedidos; líneas y dirección se guardan como JSONB (snapshot inmutable).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste el pedido. Código repetido -> ErrDuplicate.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		o.ID, o.Code, o.AccountID, o.Items, o.ShippingAddress, o.PaymentMethod, o.Status,
		o.TotalAmount, nullIfEmpty(o.Note), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido por ID.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// List pedidos más recientes primero. AccountID vacío = todos.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, int, error) {
	where := ` WHERE ($1::text = '' OR account_id::text = $1) AND ($2::text = '' OR status = $2)`
	args := []any{f.AccountID, f.Status}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+orderColumns+` FROM orders`+where+` ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	list, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// UpdateStatus cambia el estado sin validar la transición.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string, at time.Time) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `
		UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1
		RETURNING `+orderColumns, id, status, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return o, nil
}

// CancelIfStatus cancela en una sola sentencia condicional, sin ventana entre lectura y escritura.
func (r *OrderRepo) CancelIfStatus(ctx context.Context, id, accountID string, allowed []string, at time.Time) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `
		UPDATE orders SET status = $4, updated_at = $5
		WHERE id = $1 AND account_id = $2 AND status = ANY($3)
		RETURNING `+orderColumns, id, accountID, allowed, entity.OrderStatusCancelled, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("cancel order: %w", err)
	}
	return o, nil
}

func collectOrders(rows pgx.Rows) ([]*entity.Order, error) {
	defer rows.Close()
	list := make([]*entity.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var note *string
	if err := row.Scan(&o.ID, &o.Code, &o.AccountID, &o.Items, &o.ShippingAddress, &o.PaymentMethod,
		&o.Status, &o.TotalAmount, &note, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Note = derefString(note)
	return &o, nil
}

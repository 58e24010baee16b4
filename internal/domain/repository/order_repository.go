package repository

import (
	"context"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// OrderFilter filtros de listado de pedidos.
type OrderFilter struct {
	AccountID string // vacío = todos (admin)
	Status    string
	Limit     int
	Offset    int
}

// OrderRepository define el puerto de persistencia para Order.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	List(ctx context.Context, f OrderFilter) ([]*entity.Order, int, error)
	// UpdateStatus sobrescribe el estado sin condición. Devuelve el pedido actualizado o nil si no existe.
	UpdateStatus(ctx context.Context, id, status string, at time.Time) (*entity.Order, error)
	// CancelIfStatus cancela solo si el pedido es de accountID y su estado está en allowed.
	// Devuelve nil cuando no se cumplió la condición.
	CancelIfStatus(ctx context.Context, id, accountID string, allowed []string, at time.Time) (*entity.Order, error)
}

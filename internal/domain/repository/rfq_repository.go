package repository

import (
	"context"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// RFQFilter filtros de listado de RFQ.
type RFQFilter struct {
	AccountID string
	Status    string
	Limit     int
	Offset    int
}

// RFQStatusUpdate cambios aplicables por el personal.
type RFQStatusUpdate struct {
	Status         string
	QuotationID    *string
	RelatedOrderID *string
	UpdatedAt      time.Time
}

// RFQRepository define el puerto de persistencia para RFQ.
type RFQRepository interface {
	// Create devuelve domain.ErrDuplicate si el código ya existe.
	Create(ctx context.Context, rfq *entity.RFQ) error
	GetByID(ctx context.Context, id string) (*entity.RFQ, error)
	List(ctx context.Context, f RFQFilter) ([]*entity.RFQ, int, error)
	UpdateStatus(ctx context.Context, id string, upd RFQStatusUpdate) (*entity.RFQ, error)
	// LatestCodeWithPrefix devuelve el mayor código con el prefijo dado o "" si no hay.
	LatestCodeWithPrefix(ctx context.Context, prefix string) (string, error)
}

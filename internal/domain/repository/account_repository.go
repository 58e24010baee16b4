package repository

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// AccountFilter filtros del listado de cuentas (admin).
type AccountFilter struct {
	Role   string // vacío = todos
	Search string // coincide en email o nombre
	Limit  int
	Offset int
}

// AccountRepository define el puerto de persistencia para Account (DIP).
// Las lecturas devuelven (nil, nil) cuando no existe el registro.
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	// Update sobrescribe los campos editables (last-write-wins).
	Update(ctx context.Context, account *entity.Account) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetActive(ctx context.Context, id string, active bool) error
	MarkVerified(ctx context.Context, id string) error
	List(ctx context.Context, f AccountFilter) ([]*entity.Account, int, error)
	Delete(ctx context.Context, id string) error
}

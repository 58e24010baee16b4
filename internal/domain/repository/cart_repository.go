package repository

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// CartRepository guarda el carrito como documento (lista de ítems) por cuenta.
type CartRepository interface {
	// Get devuelve el carrito de la cuenta o nil si nunca se creó.
	Get(ctx context.Context, accountID string) (*entity.Cart, error)
	// Save hace upsert del documento completo (last-write-wins).
	Save(ctx context.Context, cart *entity.Cart) error
	Clear(ctx context.Context, accountID string) error
}

// WishlistRepository guarda la lista de deseos como documento por cuenta.
type WishlistRepository interface {
	Get(ctx context.Context, accountID string) (*entity.Wishlist, error)
	Save(ctx context.Context, wishlist *entity.Wishlist) error
	Clear(ctx context.Context, accountID string) error
}

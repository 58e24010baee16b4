package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var (
	_ repository.CartRepository     = (*CartRepo)(nil)
	_ repository.WishlistRepository = (*WishlistRepo)(nil)
)

// CartRepo guarda el carrito como documento JSONB (una fila por cuenta).
type CartRepo struct {
	q Querier
}

// NewCartRepository construye el adaptador.
func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

// Get devuelve el carrito o nil si la cuenta nunca agregó nada.
func (r *CartRepo) Get(ctx context.Context, accountID string) (*entity.Cart, error) {
	c := entity.Cart{AccountID: accountID}
	err := r.q.QueryRow(ctx, `SELECT items, updated_at FROM carts WHERE account_id = $1`, accountID).
		Scan(&c.Items, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if c.Items == nil {
		c.Items = []entity.CartItem{}
	}
	return &c, nil
}

// Save upsert del documento completo.
func (r *CartRepo) Save(ctx context.Context, c *entity.Cart) error {
	items := c.Items
	if items == nil {
		items = []entity.CartItem{}
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO carts (account_id, items, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (account_id) DO UPDATE SET items = EXCLUDED.items, updated_at = EXCLUDED.updated_at`,
		c.AccountID, items, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Clear vacía el carrito (la fila se borra).
func (r *CartRepo) Clear(ctx context.Context, accountID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM carts WHERE account_id = $1`, accountID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// WishlistRepo mismo esquema documental que el carrito.
type WishlistRepo struct {
	q Querier
}

// NewWishlistRepository construye el adaptador.
func NewWishlistRepository(q Querier) *WishlistRepo {
	return &WishlistRepo{q: q}
}

func (r *WishlistRepo) Get(ctx context.Context, accountID string) (*entity.Wishlist, error) {
	w := entity.Wishlist{AccountID: accountID}
	err := r.q.QueryRow(ctx, `SELECT items, updated_at FROM wishlists WHERE account_id = $1`, accountID).
		Scan(&w.Items, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wishlist: %w", err)
	}
	if w.Items == nil {
		w.Items = []entity.WishlistItem{}
	}
	return &w, nil
}

func (r *WishlistRepo) Save(ctx context.Context, w *entity.Wishlist) error {
	items := w.Items
	if items == nil {
		items = []entity.WishlistItem{}
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO wishlists (account_id, items, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (account_id) DO UPDATE SET items = EXCLUDED.items, updated_at = EXCLUDED.updated_at`,
		w.AccountID, items, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save wishlist: %w", err)
	}
	return nil
}

func (r *WishlistRepo) Clear(ctx context.Context, accountID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM wishlists WHERE account_id = $1`, accountID); err != nil {
		return fmt.Errorf("clear wishlist: %w", err)
	}
	return nil
}

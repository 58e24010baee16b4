package wishlist

import (
	"context"
	"time"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// CartAdder parte del carrito que usa move-to-cart.
type CartAdder interface {
	AddItem(ctx context.Context, accountID string, in dto.AddCartItemRequest) (*dto.CartResponse, error)
}

// WishlistUseCase lista de deseos. Igual que el carrito, se filtra contra el catálogo al leer.
type WishlistUseCase struct {
	wishlists repository.WishlistRepository
	products  repository.ProductRepository
	cart      CartAdder
	now       func() time.Time
}

// NewWishlistUseCase construye el caso de uso.
func NewWishlistUseCase(wishlists repository.WishlistRepository, products repository.ProductRepository, cart CartAdder) *WishlistUseCase {
	return &WishlistUseCase{wishlists: wishlists, products: products, cart: cart, now: time.Now}
}

// Get devuelve solo los productos activos y con stock.
func (uc *WishlistUseCase) Get(ctx context.Context, accountID string) (*dto.WishlistResponse, error) {
	w, err := uc.load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return uc.view(ctx, w)
}

// Add agrega un producto activo. Agregar uno ya presente no cambia nada.
func (uc *WishlistUseCase) Add(ctx context.Context, accountID, productID string) (*dto.WishlistResponse, error) {
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	if !p.IsActive {
		return nil, domain.ErrProductUnavailable
	}
	w, err := uc.load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !w.Contains(productID) {
		w.Items = append(w.Items, entity.WishlistItem{ProductID: productID, AddedAt: uc.now()})
		w.UpdatedAt = uc.now()
		if err := uc.wishlists.Save(ctx, w); err != nil {
			return nil, err
		}
	}
	return uc.view(ctx, w)
}

// Remove quita un producto de la lista.
func (uc *WishlistUseCase) Remove(ctx context.Context, accountID, productID string) (*dto.WishlistResponse, error) {
	w, err := uc.load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !w.Remove(productID) {
		return nil, domain.ErrWishlistItemNotFound
	}
	w.UpdatedAt = uc.now()
	if err := uc.wishlists.Save(ctx, w); err != nil {
		return nil, err
	}
	return uc.view(ctx, w)
}

// Clear vacía la lista.
func (uc *WishlistUseCase) Clear(ctx context.Context, accountID string) error {
	return uc.wishlists.Clear(ctx, accountID)
}

// MoveToCart agrega el producto al carrito con las reglas de stock del carrito y, si tuvo
// éxito, lo quita de la lista.
func (uc *WishlistUseCase) MoveToCart(ctx context.Context, accountID, productID string, quantity int) (*dto.CartResponse, error) {
	if quantity <= 0 {
		quantity = 1
	}
	w, err := uc.load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !w.Contains(productID) {
		return nil, domain.ErrWishlistItemNotFound
	}
	cart, err := uc.cart.AddItem(ctx, accountID, dto.AddCartItemRequest{ProductID: productID, Quantity: quantity})
	if err != nil {
		return nil, err
	}
	w.Remove(productID)
	w.UpdatedAt = uc.now()
	if err := uc.wishlists.Save(ctx, w); err != nil {
		return nil, err
	}
	return cart, nil
}

func (uc *WishlistUseCase) load(ctx context.Context, accountID string) (*entity.Wishlist, error) {
	w, err := uc.wishlists.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = entity.NewWishlist(accountID)
	}
	return w, nil
}

func (uc *WishlistUseCase) view(ctx context.Context, w *entity.Wishlist) (*dto.WishlistResponse, error) {
	out := &dto.WishlistResponse{Items: []dto.WishlistItemResponse{}}
	if len(w.Items) == 0 {
		return out, nil
	}
	ids := make([]string, 0, len(w.Items))
	for _, it := range w.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := uc.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, it := range w.Items {
		p := products[it.ProductID]
		if !p.IsPurchasable() {
			continue
		}
		out.Items = append(out.Items, dto.WishlistItemResponse{
			ProductID: p.ID,
			Name:      p.Name,
			SKU:       p.SKU,
			ImageURL:  p.ImageURL,
			Price:     p.Price,
			Stock:     p.Stock,
			AddedAt:   it.AddedAt,
		})
	}
	out.Count = len(out.Items)
	return out, nil
}

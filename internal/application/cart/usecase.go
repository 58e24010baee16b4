package cart

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// CartUseCase carrito de compras. La lectura siempre se recalcula contra el estado vigente
// del catálogo; solo se persisten productId, cantidad y fecha.
type CartUseCase struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	now      func() time.Time
}

// NewCartUseCase construye el caso de uso.
func NewCartUseCase(carts repository.CartRepository, products repository.ProductRepository) *CartUseCase {
	return &CartUseCase{carts: carts, products: products, now: time.Now}
}

// Get devuelve el carrito filtrado: sin productos inexistentes, inactivos o agotados y con la
// cantidad recortada al stock disponible (el recorte no se persiste).
func (uc *CartUseCase) Get(ctx context.Context, accountID string) (*dto.CartResponse, error) {
	c, err := uc.load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return uc.view(ctx, c)
}

// AddItem suma la cantidad a la línea existente o crea una nueva. La suma no puede superar el stock.
func (uc *CartUseCase) AddItem(ctx context.Context, accountID string, in dto.AddCartItemRequest) (*dto.CartResponse, error) {
	if in.Quantity < 1 {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.purchasable(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	c, err := uc.load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	i := c.Find(in.ProductID)
	current := 0
	if i >= 0 {
		current = c.Items[i].Quantity
	}
	if current+in.Quantity > p.Stock {
		return nil, domain.ErrExceedsStock
	}
	if i >= 0 {
		c.Items[i].Quantity = current + in.Quantity
	} else {
		c.Items = append(c.Items, entity.CartItem{ProductID: p.ID, Quantity: in.Quantity, AddedAt: uc.now()})
	}
	if err := uc.save(ctx, c); err != nil {
		return nil, err
	}
	return uc.view(ctx, c)
}

// UpdateItem fija la cantidad de una línea. Cantidad 0 elimina la línea.
func (uc *CartUseCase) UpdateItem(ctx context.Context, accountID, productID string, quantity int) (*dto.CartResponse, error) {
	if quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	c, err := uc.load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	i := c.Find(productID)
	if i < 0 {
		return nil, domain.ErrCartItemNotFound
	}
	if quantity == 0 {
		c.Remove(productID)
	} else {
		p, err := uc.purchasable(ctx, productID)
		if err != nil {
			return nil, err
		}
		if quantity > p.Stock {
			return nil, domain.ErrExceedsStock
		}
		c.Items[i].Quantity = quantity
	}
	if err := uc.save(ctx, c); err != nil {
		return nil, err
	}
	return uc.view(ctx, c)
}

// RemoveItem elimina una línea.
func (uc *CartUseCase) RemoveItem(ctx context.Context, accountID, productID string) (*dto.CartResponse, error) {
	c, err := uc.load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !c.Remove(productID) {
		return nil, domain.ErrCartItemNotFound
	}
	if err := uc.save(ctx, c); err != nil {
		return nil, err
	}
	return uc.view(ctx, c)
}

// Clear vacía el carrito.
func (uc *CartUseCase) Clear(ctx context.Context, accountID string) error {
	return uc.carts.Clear(ctx, accountID)
}

func (uc *CartUseCase) purchasable(ctx context.Context, productID string) (*entity.Product, error) {
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	if !p.IsPurchasable() {
		return nil, domain.ErrProductUnavailable
	}
	return p, nil
}

func (uc *CartUseCase) load(ctx context.Context, accountID string) (*entity.Cart, error) {
	c, err := uc.carts.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = entity.NewCart(accountID)
	}
	return c, nil
}

func (uc *CartUseCase) save(ctx context.Context, c *entity.Cart) error {
	c.UpdatedAt = uc.now()
	return uc.carts.Save(ctx, c)
}

func (uc *CartUseCase) view(ctx context.Context, c *entity.Cart) (*dto.CartResponse, error) {
	out := &dto.CartResponse{Items: []dto.CartItemResponse{}, TotalAmount: decimal.Zero}
	if len(c.Items) == 0 {
		return out, nil
	}
	ids := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := uc.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, it := range c.Items {
		p := products[it.ProductID]
		if !p.IsPurchasable() {
			continue
		}
		qty := min(it.Quantity, p.Stock)
		subtotal := p.Price.Mul(decimal.NewFromInt(int64(qty)))
		out.Items = append(out.Items, dto.CartItemResponse{
			ProductID: p.ID,
			Name:      p.Name,
			SKU:       p.SKU,
			ImageURL:  p.ImageURL,
			Price:     p.Price,
			Quantity:  qty,
			Stock:     p.Stock,
			Subtotal:  subtotal,
			AddedAt:   it.AddedAt,
		})
		out.TotalItems += qty
		out.TotalAmount = out.TotalAmount.Add(subtotal)
	}
	return out, nil
}

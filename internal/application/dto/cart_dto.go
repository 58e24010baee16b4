package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddCartItemRequest agregar un producto al carrito.
type AddCartItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=999"`
}

// UpdateCartItemRequest fijar cantidad; 0 elimina la línea.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=0,max=999"`
}

// CartItemResponse línea del carrito con precio vigente.
type CartItemResponse struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	ImageURL  string          `json:"imageUrl"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Stock     int             `json:"stock"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	AddedAt   time.Time       `json:"addedAt"`
}

// CartResponse carrito recalculado contra el catálogo.
type CartResponse struct {
	Items       []CartItemResponse `json:"items"`
	TotalItems  int                `json:"totalItems"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
}

// AddWishlistItemRequest agregar a la lista de deseos.
type AddWishlistItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
}

// MoveToCartRequest cantidad a mover al carrito (por defecto 1).
type MoveToCartRequest struct {
	Quantity int `json:"quantity" validate:"omitempty,min=1,max=999"`
}

// WishlistItemResponse producto guardado con estado vigente.
type WishlistItemResponse struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	ImageURL  string          `json:"imageUrl"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	AddedAt   time.Time       `json:"addedAt"`
}

// WishlistResponse lista de deseos filtrada.
type WishlistResponse struct {
	Items []WishlistItemResponse `json:"items"`
	Count int                    `json:"count"`
}

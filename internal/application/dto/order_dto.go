package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea pedida; nombre, SKU y precio se toman del catálogo.
type OrderItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=999"`
}

// ShippingAddressDTO dirección de envío.
type ShippingAddressDTO struct {
	FullName string `json:"fullName" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"required,max=20"`
	Street   string `json:"street" validate:"required,max=200"`
	Ward     string `json:"ward" validate:"omitempty,max=100"`
	District string `json:"district" validate:"omitempty,max=100"`
	City     string `json:"city" validate:"required,max=100"`
	Note     string `json:"note" validate:"omitempty,max=500"`
}

// CreateOrderRequest checkout.
type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddressDTO `json:"shippingAddress" validate:"required"`
	PaymentMethod   string             `json:"paymentMethod" validate:"required,oneof=COD BANK_TRANSFER CARD E_WALLET"`
	Note            string             `json:"note" validate:"omitempty,max=500"`
	ClearCart       bool               `json:"clearCart"`
}

// UpdateOrderStatusRequest cambio de estado por el personal.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING CONFIRMED PROCESSING SHIPPED DELIVERED CANCELLED"`
}

// OrderListQuery filtros de listados de pedidos.
type OrderListQuery struct {
	Status string
	Page   PageRequest
}

// OrderItemResponse línea del pedido (snapshot).
type OrderItemResponse struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID              string              `json:"id"`
	Code            string              `json:"code"`
	AccountID       string              `json:"accountId"`
	Items           []OrderItemResponse `json:"items"`
	ShippingAddress ShippingAddressDTO  `json:"shippingAddress"`
	PaymentMethod   string              `json:"paymentMethod"`
	Status          string              `json:"status"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	Note            string              `json:"note"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// OrderListResponse lista paginada de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

package entity

import "time"

// Estados de un pedido. Progresión lineal; CANCELLED solo desde PENDING o CONFIRMED.
const (
	OrderStatusPending    = "PENDING"
	OrderStatusConfirmed  = "CONFIRMED"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
)

// Métodos de pago aceptados.
const (
	PaymentCOD          = "COD"
	PaymentBankTransfer = "BANK_TRANSFER"
	PaymentCard         = "CARD"
	PaymentEWallet      = "E_WALLET"
)

// CancellableStatuses estados desde los que el cliente puede cancelar.
var CancellableStatuses = []string{OrderStatusPending, OrderStatusConfirmed}

// OrderItem snapshot de una línea al momento de la compra.
type OrderItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	Price     Money  `json:"price"`
	Quantity  int    `json:"quantity"`
	Subtotal  Money  `json:"subtotal"`
}

// ShippingAddress dirección de envío copiada en el pedido.
type ShippingAddress struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Street   string `json:"street"`
	Ward     string `json:"ward,omitempty"`
	District string `json:"district,omitempty"`
	City     string `json:"city"`
	Note     string `json:"note,omitempty"`
}

// Order pedido de un cliente.
type Order struct {
	ID              string
	Code            string
	AccountID       string
	Items           []OrderItem
	ShippingAddress ShippingAddress
	PaymentMethod   string
	Status          string
	TotalAmount     Money
	Note            string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsValidOrderStatus valida un estado recibido por la API.
func IsValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsValidPaymentMethod valida el método de pago.
func IsValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCOD, PaymentBankTransfer, PaymentCard, PaymentEWallet:
		return true
	}
	return false
}

// OrderStatusPhrase frase usada en la notificación de cambio de estado.
func OrderStatusPhrase(status string) string {
	switch status {
	case OrderStatusPending:
		return "is pending confirmation"
	case OrderStatusConfirmed:
		return "has been confirmed"
	case OrderStatusProcessing:
		return "is being processed"
	case OrderStatusShipped:
		return "has been shipped"
	case OrderStatusDelivered:
		return "has been delivered"
	case OrderStatusCancelled:
		return "has been cancelled"
	}
	return "status changed to " + status
}

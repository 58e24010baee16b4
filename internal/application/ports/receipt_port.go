package ports

import "github.com/jhoicas/storefront-api/internal/domain/entity"

// ReceiptGenerator renderiza el comprobante de un pedido.
type ReceiptGenerator interface {
	GenerateOrderReceipt(order *entity.Order, customer *entity.Account) ([]byte, error)
}

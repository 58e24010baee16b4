package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RFQItemDTO artículo solicitado en un RFQ.
type RFQItemDTO struct {
	ProductID     string           `json:"productId,omitempty" validate:"omitempty,max=64"`
	ProductName   string           `json:"productName" validate:"required,max=200"`
	Specification string           `json:"specification,omitempty" validate:"omitempty,max=2000"`
	Quantity      int              `json:"quantity" validate:"required,min=1"`
	Unit          string           `json:"unit,omitempty" validate:"omitempty,max=30"`
	TargetPrice   *decimal.Decimal `json:"targetPrice,omitempty"`
}

// RFQContactDTO datos de contacto; los vacíos se completan desde la cuenta.
type RFQContactDTO struct {
	FullName string `json:"fullName" validate:"omitempty,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Company  string `json:"company" validate:"omitempty,max=200"`
}

// CreateRFQRequest solicitud de cotización.
type CreateRFQRequest struct {
	Items   []RFQItemDTO   `json:"items" validate:"required,min=1,dive"`
	Contact *RFQContactDTO `json:"contact"`
	Note    string         `json:"note" validate:"omitempty,max=2000"`
}

// UpdateRFQStatusRequest cambio de estado por el personal.
type UpdateRFQStatusRequest struct {
	Status         string  `json:"status" validate:"required,oneof=PENDING PROCESSING QUOTED ACCEPTED REJECTED CANCELLED"`
	QuotationID    *string `json:"quotationId" validate:"omitempty,max=64"`
	RelatedOrderID *string `json:"relatedOrderId" validate:"omitempty,max=64"`
}

// RFQListQuery filtros de listados de RFQ.
type RFQListQuery struct {
	Status string
	Page   PageRequest
}

// RFQResponse salida de un RFQ.
type RFQResponse struct {
	ID             string        `json:"id"`
	Code           string        `json:"code"`
	AccountID      string        `json:"accountId"`
	Items          []RFQItemDTO  `json:"items"`
	Contact        RFQContactDTO `json:"contact"`
	Note           string        `json:"note"`
	Status         string        `json:"status"`
	QuotationID    *string       `json:"quotationId"`
	RelatedOrderID *string       `json:"relatedOrderId"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// RFQListResponse lista paginada de RFQ.
type RFQListResponse struct {
	Items []RFQResponse `json:"items"`
	Page  PageResponse  `json:"page"`
}

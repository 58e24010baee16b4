package entity

import "time"

// Estados de un RFQ.
const (
	RFQStatusPending    = "PENDING"
	RFQStatusProcessing = "PROCESSING"
	RFQStatusQuoted     = "QUOTED"
	RFQStatusAccepted   = "ACCEPTED"
	RFQStatusRejected   = "REJECTED"
	RFQStatusCancelled  = "CANCELLED"
)

// RFQItem especificación de un artículo solicitado. ProductID es opcional (artículo fuera de catálogo).
type RFQItem struct {
	ProductID     string `json:"productId,omitempty"`
	ProductName   string `json:"productName"`
	Specification string `json:"specification,omitempty"`
	Quantity      int    `json:"quantity"`
	Unit          string `json:"unit,omitempty"`
	TargetPrice   *Money `json:"targetPrice,omitempty"`
}

// RFQContact datos de contacto copiados al crear la solicitud.
type RFQContact struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Company  string `json:"company,omitempty"`
}

// RFQ solicitud de cotización.
type RFQ struct {
	ID             string
	Code           string
	AccountID      string
	Items          []RFQItem
	Contact        RFQContact
	Note           string
	Status         string
	QuotationID    *string
	RelatedOrderID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsValidRFQStatus valida un estado de RFQ.
func IsValidRFQStatus(s string) bool {
	switch s {
	case RFQStatusPending, RFQStatusProcessing, RFQStatusQuoted,
		RFQStatusAccepted, RFQStatusRejected, RFQStatusCancelled:
		return true
	}
	return false
}

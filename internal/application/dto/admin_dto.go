package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountListQuery filtros de GET /admin/accounts.
type AccountListQuery struct {
	Role   string
	Search string
	Page   PageRequest
}

// AdminCreateAccountRequest alta directa por un administrador (activa y verificada).
type AdminCreateAccountRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FullName string `json:"fullName" validate:"required,min=1,max=100"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Role     string `json:"role" validate:"required,oneof=ADMIN STAFF CUSTOMER SHIPPER"`
}

// AdminUpdateAccountRequest lista cerrada de campos editables por un administrador.
type AdminUpdateAccountRequest struct {
	FullName *string `json:"fullName" validate:"omitempty,min=1,max=100"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Role     *string `json:"role" validate:"omitempty,oneof=ADMIN STAFF CUSTOMER SHIPPER"`
	IsActive *bool   `json:"isActive"`
	Avatar   *string `json:"avatar" validate:"omitempty,url"`
}

// ChangeRoleRequest cambio de rol.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=ADMIN STAFF CUSTOMER SHIPPER"`
}

// AccountListResponse lista paginada de cuentas.
type AccountListResponse struct {
	Items []AccountResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CustomerListQuery filtros de GET /admin/customers.
type CustomerListQuery struct {
	Search string
	Page   PageRequest
}

// CustomerResponse cliente con agregados de pedidos.
type CustomerResponse struct {
	AccountResponse
	TotalOrders   int             `json:"totalOrders"`
	TotalSpent    decimal.Decimal `json:"totalSpent"`
	LastOrderDate *time.Time      `json:"lastOrderDate"`
}

// CustomerListResponse lista paginada de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

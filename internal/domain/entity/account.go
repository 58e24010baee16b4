package entity

import (
	"strings"
	"time"
)

// Account representa una cuenta de la tienda (cliente o personal del back office).
type Account struct {
	ID           string
	Email        string // único, siempre en minúsculas
	PasswordHash string // bcrypt
	FullName     string
	Phone        string
	Role         string // ADMIN, STAFF, CUSTOMER, SHIPPER
	IsActive     bool
	IsVerified   bool
	Avatar       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeEmail aplica la forma canónica usada para unicidad y búsquedas.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CustomerSummary cliente con agregados de sus pedidos (vista de admin).
type CustomerSummary struct {
	Account       Account
	TotalOrders   int
	TotalSpent    Money
	LastOrderDate *time.Time
}

package entity

import "time"

// Product producto del catálogo. Stock e IsActive se consultan en vivo al leer carrito y wishlist.
type Product struct {
	ID          string
	SKU         string
	Name        string
	Description string
	Price       Money
	Stock       int
	IsActive    bool
	ImageURL    string
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsPurchasable producto activo y con existencias.
func (p *Product) IsPurchasable() bool {
	return p != nil && p.IsActive && p.Stock > 0
}

package entity

import "time"

// CartItem línea persistida del carrito (sin precios: se re-calculan al leer).
type CartItem struct {
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

// Cart carrito 1:1 con la cuenta.
type Cart struct {
	AccountID string
	Items     []CartItem
	UpdatedAt time.Time
}

// NewCart crea un carrito vacío.
func NewCart(accountID string) *Cart {
	return &Cart{AccountID: accountID, Items: []CartItem{}}
}

// Find devuelve el índice de la línea del producto o -1.
func (c *Cart) Find(productID string) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

// Remove elimina la línea del producto. Devuelve false si no estaba.
func (c *Cart) Remove(productID string) bool {
	i := c.Find(productID)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return true
}

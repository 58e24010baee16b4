package entity

import "time"

// WishlistItem producto guardado en la lista de deseos.
type WishlistItem struct {
	ProductID string    `json:"productId"`
	AddedAt   time.Time `json:"addedAt"`
}

// Wishlist lista de deseos 1:1 con la cuenta.
type Wishlist struct {
	AccountID string
	Items     []WishlistItem
	UpdatedAt time.Time
}

// NewWishlist crea una lista vacía.
func NewWishlist(accountID string) *Wishlist {
	return &Wishlist{AccountID: accountID, Items: []WishlistItem{}}
}

// Contains indica si el producto ya está en la lista.
func (w *Wishlist) Contains(productID string) bool {
	for _, it := range w.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

// Remove elimina el producto. Devuelve false si no estaba.
func (w *Wishlist) Remove(productID string) bool {
	for i, it := range w.Items {
		if it.ProductID == productID {
			w.Items = append(w.Items[:i], w.Items[i+1:]...)
			return true
		}
	}
	return false
}

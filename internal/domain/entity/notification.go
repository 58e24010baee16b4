package entity

import "time"

// Tipos de notificación.
const (
	NotificationOrderStatus = "ORDER_STATUS"
)

// Notification mensaje dirigido a una cuenta.
type Notification struct {
	ID          string
	RecipientID string
	Type        string
	Title       string
	Message     string
	Data        map[string]any
	IsRead      bool
	CreatedAt   time.Time
}

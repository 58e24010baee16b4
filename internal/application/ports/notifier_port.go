package ports

import "context"

// Eventos en vivo emitidos por la aplicación.
const (
	EventOrderStatusUpdated = "order:status-updated"
	EventOrderCancelled     = "order:cancelled"
	EventOrderCreated       = "order:created"
	EventNotificationNew    = "notification:new"
	EventRFQCreated         = "rfq:created"
	EventRFQStatusUpdated   = "rfq:status-updated"
)

// Notifier puerto de salida para eventos en vivo dirigidos a un usuario o a todos los de un rol.
// Las implementaciones no deben bloquear al llamador más allá del envío local; los errores
// se devuelven para que el llamador los registre.
type Notifier interface {
	NotifyUser(ctx context.Context, userID, event string, payload any) error
	NotifyRole(ctx context.Context, role, event string, payload any) error
}

// NopNotifier descarta todos los eventos.
type NopNotifier struct{}

func (NopNotifier) NotifyUser(context.Context, string, string, any) error { return nil }
func (NopNotifier) NotifyRole(context.Context, string, string, any) error { return nil }

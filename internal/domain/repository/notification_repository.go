package repository

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// NotificationRepository persistencia de notificaciones por destinatario.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]*entity.Notification, int, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)
	// MarkRead devuelve false si la notificación no existe o no es del destinatario.
	MarkRead(ctx context.Context, id, recipientID string) (bool, error)
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
}

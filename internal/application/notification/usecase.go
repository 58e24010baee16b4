package notification

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// NotificationUseCase bandeja de notificaciones del usuario autenticado.
type NotificationUseCase struct {
	repo repository.NotificationRepository
}

// NewNotificationUseCase construye el caso de uso.
func NewNotificationUseCase(repo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{repo: repo}
}

// List notificaciones propias (más recientes primero) y total de no leídas.
func (uc *NotificationUseCase) List(ctx context.Context, recipientID string, page dto.PageRequest) (*dto.NotificationListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.ListByRecipient(ctx, recipientID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	unread, err := uc.repo.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		items = append(items, toResponse(n))
	}
	return &dto.NotificationListResponse{
		Items:       items,
		UnreadCount: unread,
		Page:        dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// MarkRead marca una notificación propia como leída.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, recipientID, id string) error {
	ok, err := uc.repo.MarkRead(ctx, id, recipientID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// MarkAllRead marca todas como leídas y devuelve cuántas cambiaron.
func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	return uc.repo.MarkAllRead(ctx, recipientID)
}

func toResponse(n *entity.Notification) dto.NotificationResponse {
	data := n.Data
	if data == nil {
		data = map[string]any{}
	}
	return dto.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Data:      data,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

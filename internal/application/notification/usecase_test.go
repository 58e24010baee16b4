package notification_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/notification"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/testutil"
)

func seed(t *testing.T) *testutil.Notifications {
	repo := testutil.NewNotifications()
	for _, n := range []*entity.Notification{
		{ID: "n1", RecipientID: "acc-1", Message: "uno"},
		{ID: "n2", RecipientID: "acc-1", Message: "dos"},
		{ID: "n3", RecipientID: "otro", Message: "ajena"},
	} {
		require.NoError(t, repo.Create(context.Background(), n))
	}
	return repo
}

func TestList_SoloPropiasConNoLeidas(t *testing.T) {
	uc := notification.NewNotificationUseCase(seed(t))
	out, err := uc.List(context.Background(), "acc-1", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "n2", out.Items[0].ID, "más reciente primero")
	assert.Equal(t, 2, out.UnreadCount)
	assert.NotNil(t, out.Items[0].Data)
}

func TestMarkRead(t *testing.T) {
	uc := notification.NewNotificationUseCase(seed(t))
	ctx := context.Background()

	require.NoError(t, uc.MarkRead(ctx, "acc-1", "n1"))
	assert.ErrorIs(t, uc.MarkRead(ctx, "acc-1", "n3"), domain.ErrNotFound, "no se puede marcar una ajena")

	out, err := uc.List(ctx, "acc-1", dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.UnreadCount)
}

func TestMarkAllRead(t *testing.T) {
	uc := notification.NewNotificationUseCase(seed(t))
	n, err := uc.MarkAllRead(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	out, err := uc.List(context.Background(), "acc-1", dto.PageRequest{})
	require.NoError(t, err)
	assert.Zero(t, out.UnreadCount)
}

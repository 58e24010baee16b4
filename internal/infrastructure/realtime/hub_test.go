package realtime_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/infrastructure/realtime"
	"github.com/jhoicas/storefront-api/internal/testutil"
	"github.com/jhoicas/storefront-api/pkg/jwt"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

const secret = "hub-test-secret"

func dial(t *testing.T, srv *httptest.Server, token string) (*websocket.Conn, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	return conn, err
}

func TestHub_EntregaPorUsuarioYRol(t *testing.T) {
	hub := realtime.NewHub(secret, logger.Nop())
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	tok, err := jwt.GenerateAccess(secret, "test", "acc-1", "a@b.c", "ADMIN", 5)
	require.NoError(t, err)
	conn, err := dial(t, srv, tok)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Connections("acc-1") == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.NotifyUser(context.Background(), "acc-1", "order:status-updated", map[string]string{"code": "ORD1"}))
	require.NoError(t, hub.NotifyRole(context.Background(), "ADMIN", "rfq:created", nil))
	require.NoError(t, hub.NotifyUser(context.Background(), "otro", "ignored", nil))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f1, f2 realtime.Frame
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &f1))
	_, raw, err = conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &f2))

	assert.Equal(t, "order:status-updated", f1.Event)
	assert.Equal(t, "rfq:created", f2.Event)
}

func TestHub_TokenInvalido(t *testing.T) {
	hub := realtime.NewHub(secret, logger.Nop())
	srv := httptest.NewServer(hub)
	defer srv.Close()

	_, err := dial(t, srv, "basura")
	assert.Error(t, err)
}

func TestFanout_UneErrores(t *testing.T) {
	ok := &testutil.Notifier{}
	failing := &testutil.Notifier{}
	failing.Err = errors.New("bus caído")

	f := realtime.Fanout{failing, ok}
	err := f.NotifyUser(context.Background(), "acc-1", "x", nil)
	assert.Error(t, err)
	assert.Len(t, ok.Events(), 1, "el destino sano recibe igual")
}

type accountsStub map[string]*entity.Account

func (a accountsStub) CheckAccountStatus(_ context.Context, id string) (*entity.Account, error) {
	acc, ok := a[id]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if !acc.IsActive {
		return nil, domain.ErrAccountDeactivated
	}
	return acc, nil
}

func TestHub_RolGuardadoYDesconexion(t *testing.T) {
	hub := realtime.NewHub(secret, logger.Nop())
	hub.UseAccounts(accountsStub{
		"acc-1": {ID: "acc-1", Role: entity.RoleCustomer, IsActive: true, IsVerified: true},
		"acc-2": {ID: "acc-2", Role: entity.RoleStaff, IsActive: false, IsVerified: true},
	})
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	// El token dice ADMIN, la cuenta guardada es CUSTOMER.
	tok, err := jwt.GenerateAccess(secret, "test", "acc-1", "a@b.c", entity.RoleAdmin, 5)
	require.NoError(t, err)
	conn, err := dial(t, srv, tok)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Connections("acc-1") == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.NotifyRole(context.Background(), entity.RoleAdmin, "rfq:created", nil))
	require.NoError(t, hub.NotifyUser(context.Background(), "acc-1", "order:created", nil))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f realtime.Frame
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &f))
	assert.Equal(t, "order:created", f.Event, "el canal ADMIN no llega a un cliente")

	hub.Disconnect("acc-1")
	assert.Equal(t, 0, hub.Connections("acc-1"))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err, "la conexión se cierra")

	banned, err := jwt.GenerateAccess(secret, "test", "acc-2", "s@b.c", entity.RoleStaff, 5)
	require.NoError(t, err)
	_, err = dial(t, srv, banned)
	assert.Error(t, err)
	ghost, err := jwt.GenerateAccess(secret, "test", "acc-9", "g@b.c", entity.RoleAdmin, 5)
	require.NoError(t, err)
	_, err = dial(t, srv, ghost)
	assert.Error(t, err)
}

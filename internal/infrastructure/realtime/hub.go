// Package realtime entrega eventos en vivo a los clientes conectados por WebSocket.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jhoicas/storefront-api/internal/application/ports"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/pkg/jwt"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

var _ ports.Notifier = (*Hub)(nil)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 32
)

// Frame mensaje enviado al cliente.
type Frame struct {
	Event   string    `json:"event"`
	Payload any       `json:"payload"`
	SentAt  time.Time `json:"sentAt"`
}

// AccountChecker lo implementa *auth.AuthUseCase.
type AccountChecker interface {
	CheckAccountStatus(ctx context.Context, accountID string) (*entity.Account, error)
}

// Hub índice de conexiones por cuenta y por rol.
type Hub struct {
	secret   string
	log      *logger.Logger
	upgrader websocket.Upgrader
	accounts AccountChecker

	mu     sync.RWMutex
	byUser map[string]map[*client]struct{}
	byRole map[string]map[*client]struct{}
}

type client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	role   string
	send   chan []byte

	mu     sync.Mutex
	closed bool
}

// NewHub construye el hub. secret valida el access token del handshake.
func NewHub(secret string, log *logger.Logger) *Hub {
	return &Hub{
		secret: secret,
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		byUser: make(map[string]map[*client]struct{}),
		byRole: make(map[string]map[*client]struct{}),
	}
}

// UseAccounts hace que el handshake valide la cuenta y tome el rol guardado en lugar del claim.
func (h *Hub) UseAccounts(accounts AccountChecker) {
	h.accounts = accounts
}

// ServeHTTP handshake en GET /ws?token=<access> (o Authorization: Bearer).
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	claims, err := jwt.Parse(h.secret, token)
	if err != nil {
		http.Error(w, "invalid or expired token", http.StatusUnauthorized)
		return
	}
	role := claims.Role
	if h.accounts != nil {
		acc, err := h.accounts.CheckAccountStatus(r.Context(), claims.UserID)
		switch {
		case err == nil:
			role = acc.Role
		case errors.Is(err, domain.ErrUnauthorized):
			http.Error(w, "account no longer exists", http.StatusUnauthorized)
			return
		case errors.Is(err, domain.ErrAccountDeactivated), errors.Is(err, domain.ErrAccountNotVerified):
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		default:
			h.log.Warn().Err(err).Str("account_id", claims.UserID).Msg("ws: verificación de cuenta")
			http.Error(w, "could not verify account", http.StatusServiceUnavailable)
			return
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("ws upgrade")
		return
	}
	c := &client{hub: h, conn: conn, userID: claims.UserID, role: role, send: make(chan []byte, sendBufferSize)}
	h.register(c)

	go c.writePump()
	go c.readPump()
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	addTo(h.byUser, c.userID, c)
	addTo(h.byRole, c.role, c)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	removeFrom(h.byUser, c.userID, c)
	removeFrom(h.byRole, c.role, c)
	h.mu.Unlock()
	c.close()
}

// NotifyUser envía a todas las conexiones de la cuenta. Sin conexiones no es error.
func (h *Hub) NotifyUser(_ context.Context, userID, event string, payload any) error {
	return h.broadcast(h.byUser, userID, event, payload)
}

// NotifyRole envía a todas las conexiones abiertas con ese rol.
func (h *Hub) NotifyRole(_ context.Context, role, event string, payload any) error {
	return h.broadcast(h.byRole, role, event, payload)
}

func (h *Hub) broadcast(index map[string]map[*client]struct{}, key, event string, payload any) error {
	data, err := json.Marshal(Frame{Event: event, Payload: payload, SentAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	h.mu.RLock()
	targets := make([]*client, 0, len(index[key]))
	for c := range index[key] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if !c.trySend(data) {
			// cliente lento: se descarta la conexión
			h.log.Warn().Str("user_id", c.userID).Msg("ws buffer lleno, cerrando conexión")
			go h.unregister(c)
		}
	}
	return nil
}

// Disconnect cierra todas las conexiones de la cuenta (ban, borrado o cambio de rol).
func (h *Hub) Disconnect(userID string) {
	h.mu.Lock()
	set := h.byUser[userID]
	delete(h.byUser, userID)
	clients := make([]*client, 0, len(set))
	for c := range set {
		removeFrom(h.byRole, c.role, c)
		clients = append(clients, c)
	}
	h.mu.Unlock()
	for _, c := range clients {
		c.close()
	}
}

// Connections cantidad de conexiones abiertas de una cuenta.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser[userID])
}

// Close cierra todas las conexiones (apagado).
func (h *Hub) Close() {
	h.mu.Lock()
	var all []*client
	for _, set := range h.byUser {
		for c := range set {
			all = append(all, c)
		}
	}
	h.byUser = make(map[string]map[*client]struct{})
	h.byRole = make(map[string]map[*client]struct{})
	h.mu.Unlock()
	for _, c := range all {
		c.close()
	}
}

// trySend encola sin bloquear. Devuelve false si el buffer está lleno.
func (c *client) trySend(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// readPump solo consume control frames; los mensajes del cliente se ignoran.
func (c *client) readPump() {
	defer c.hub.unregister(c)
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func addTo(index map[string]map[*client]struct{}, key string, c *client) {
	set, ok := index[key]
	if !ok {
		set = make(map[*client]struct{})
		index[key] = set
	}
	set[c] = struct{}{}
}

func removeFrom(index map[string]map[*client]struct{}, key string, c *client) {
	if set, ok := index[key]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(index, key)
		}
	}
}

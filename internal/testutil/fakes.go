// Package testutil repositorios en memoria y dobles de puertos para tests de casos de uso.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// Products repositorio de productos en memoria.
type Products struct {
	mu   sync.Mutex
	byID map[string]*entity.Product
}

var _ repository.ProductRepository = (*Products)(nil)

// NewProducts crea el repo con los productos dados.
func NewProducts(ps ...*entity.Product) *Products {
	r := &Products{byID: map[string]*entity.Product{}}
	for _, p := range ps {
		r.byID[p.ID] = p
	}
	return r
}

func (r *Products) Create(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.byID {
		if x.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *Products) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *Products) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			cp := *p
			out[id] = &cp
		}
	}
	return out, nil
}

func (r *Products) Update(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *Products) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*entity.Product
	for _, p := range r.byID {
		if f.ActiveOnly && !p.IsActive {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			continue
		}
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SKU < all[j].SKU })
	return page(all, f.Limit, f.Offset), len(all), nil
}

func (r *Products) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// SetStock ajusta el stock de un producto existente.
func (r *Products) SetStock(id string, stock int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[id].Stock = stock
}

// SetActive activa o desactiva un producto existente.
func (r *Products) SetActive(id string, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[id].IsActive = active
}

// Carts repositorio de carritos en memoria.
type Carts struct {
	mu   sync.Mutex
	byID map[string]entity.Cart
}

var _ repository.CartRepository = (*Carts)(nil)

func NewCarts() *Carts { return &Carts{byID: map[string]entity.Cart{}} }

func (r *Carts) Get(_ context.Context, accountID string) (*entity.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[accountID]
	if !ok {
		return nil, nil
	}
	c.Items = append([]entity.CartItem(nil), c.Items...)
	return &c, nil
}

func (r *Carts) Save(_ context.Context, c *entity.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	cp.Items = append([]entity.CartItem(nil), c.Items...)
	r.byID[c.AccountID] = cp
	return nil
}

func (r *Carts) Clear(_ context.Context, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, accountID)
	return nil
}

// Items devuelve las líneas persistidas (sin filtrar).
func (r *Carts) Items(accountID string) []entity.CartItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.CartItem(nil), r.byID[accountID].Items...)
}

// Wishlists repositorio de listas de deseos en memoria.
type Wishlists struct {
	mu   sync.Mutex
	byID map[string]entity.Wishlist
}

var _ repository.WishlistRepository = (*Wishlists)(nil)

func NewWishlists() *Wishlists { return &Wishlists{byID: map[string]entity.Wishlist{}} }

func (r *Wishlists) Get(_ context.Context, accountID string) (*entity.Wishlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.byID[accountID]
	if !ok {
		return nil, nil
	}
	w.Items = append([]entity.WishlistItem(nil), w.Items...)
	return &w, nil
}

func (r *Wishlists) Save(_ context.Context, w *entity.Wishlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *w
	cp.Items = append([]entity.WishlistItem(nil), w.Items...)
	r.byID[w.AccountID] = cp
	return nil
}

func (r *Wishlists) Clear(_ context.Context, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, accountID)
	return nil
}

// Orders repositorio de pedidos en memoria.
type Orders struct {
	mu   sync.Mutex
	byID map[string]*entity.Order
}

var _ repository.OrderRepository = (*Orders)(nil)

func NewOrders(os ...*entity.Order) *Orders {
	r := &Orders{byID: map[string]*entity.Order{}}
	for _, o := range os {
		r.byID[o.ID] = o
	}
	return r
}

func (r *Orders) Create(_ context.Context, o *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	r.byID[o.ID] = &cp
	return nil
}

func (r *Orders) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *Orders) List(_ context.Context, f repository.OrderFilter) ([]*entity.Order, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*entity.Order
	for _, o := range r.byID {
		if f.AccountID != "" && o.AccountID != f.AccountID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		cp := *o
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, f.Limit, f.Offset), len(all), nil
}

func (r *Orders) UpdateStatus(_ context.Context, id, status string, at time.Time) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	o.Status = status
	o.UpdatedAt = at
	cp := *o
	return &cp, nil
}

func (r *Orders) CancelIfStatus(_ context.Context, id, accountID string, allowed []string, at time.Time) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.byID[id]
	if !ok || o.AccountID != accountID {
		return nil, nil
	}
	for _, s := range allowed {
		if o.Status == s {
			o.Status = entity.OrderStatusCancelled
			o.UpdatedAt = at
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

// Notifications repositorio de notificaciones en memoria.
type Notifications struct {
	mu   sync.Mutex
	list []*entity.Notification
}

var _ repository.NotificationRepository = (*Notifications)(nil)

func NewNotifications() *Notifications { return &Notifications{} }

func (r *Notifications) Create(_ context.Context, n *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *n
	r.list = append(r.list, &cp)
	return nil
}

func (r *Notifications) ListByRecipient(_ context.Context, recipientID string, limit, offset int) ([]*entity.Notification, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var mine []*entity.Notification
	for i := len(r.list) - 1; i >= 0; i-- {
		if r.list[i].RecipientID == recipientID {
			cp := *r.list[i]
			mine = append(mine, &cp)
		}
	}
	return page(mine, limit, offset), len(mine), nil
}

func (r *Notifications) CountUnread(_ context.Context, recipientID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, x := range r.list {
		if x.RecipientID == recipientID && !x.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *Notifications) MarkRead(_ context.Context, id, recipientID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.list {
		if x.ID == id && x.RecipientID == recipientID {
			x.IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (r *Notifications) MarkAllRead(_ context.Context, recipientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, x := range r.list {
		if x.RecipientID == recipientID && !x.IsRead {
			x.IsRead = true
			n++
		}
	}
	return n, nil
}

// All devuelve todas las notificaciones creadas.
func (r *Notifications) All() []entity.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Notification, 0, len(r.list))
	for _, x := range r.list {
		out = append(out, *x)
	}
	return out
}

// Event evento registrado por Notifier.
type Event struct {
	Target  string // userID o rol
	ToRole  bool
	Name    string
	Payload any
}

// Notifier registra los eventos emitidos.
type Notifier struct {
	mu     sync.Mutex
	events []Event
	Err    error
}

func (n *Notifier) NotifyUser(_ context.Context, userID, event string, payload any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, Event{Target: userID, Name: event, Payload: payload})
	return n.Err
}

func (n *Notifier) NotifyRole(_ context.Context, role, event string, payload any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, Event{Target: role, ToRole: true, Name: event, Payload: payload})
	return n.Err
}

// Events copia de los eventos registrados.
func (n *Notifier) Events() []Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Event(nil), n.events...)
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}

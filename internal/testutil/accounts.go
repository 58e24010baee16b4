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

// Accounts repositorio de cuentas en memoria.
type Accounts struct {
	mu   sync.Mutex
	byID map[string]*entity.Account
}

var _ repository.AccountRepository = (*Accounts)(nil)

func NewAccounts(as ...*entity.Account) *Accounts {
	r := &Accounts{byID: map[string]*entity.Account{}}
	for _, a := range as {
		cp := *a
		r.byID[a.ID] = &cp
	}
	return r
}

func (r *Accounts) Create(_ context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.byID {
		if x.Email == a.Email {
			return domain.ErrDuplicate
		}
	}
	cp := *a
	r.byID[a.ID] = &cp
	return nil
}

func (r *Accounts) GetByID(_ context.Context, id string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *Accounts) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *Accounts) Update(_ context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[a.ID]
	if !ok {
		return domain.ErrNotFound
	}
	// igual que el UPDATE de Postgres: email y hash no se tocan aquí
	cp := *a
	cp.Email, cp.PasswordHash = cur.Email, cur.PasswordHash
	r.byID[a.ID] = &cp
	return nil
}

func (r *Accounts) UpdatePassword(_ context.Context, id, hash string) error {
	return r.mutate(id, func(a *entity.Account) { a.PasswordHash = hash })
}

func (r *Accounts) SetActive(_ context.Context, id string, active bool) error {
	return r.mutate(id, func(a *entity.Account) { a.IsActive = active })
}

func (r *Accounts) MarkVerified(_ context.Context, id string) error {
	return r.mutate(id, func(a *entity.Account) { a.IsActive, a.IsVerified = true, true })
}

func (r *Accounts) mutate(id string, fn func(*entity.Account)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(a)
	a.UpdatedAt = time.Now()
	return nil
}

func (r *Accounts) List(_ context.Context, f repository.AccountFilter) ([]*entity.Account, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*entity.Account
	for _, a := range r.byID {
		if f.Role != "" && a.Role != f.Role {
			continue
		}
		if s := strings.ToLower(f.Search); s != "" &&
			!strings.Contains(a.Email, s) && !strings.Contains(strings.ToLower(a.FullName), s) {
			continue
		}
		cp := *a
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })
	return page(all, f.Limit, f.Offset), len(all), nil
}

func (r *Accounts) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// RFQs repositorio de RFQ en memoria con índice único de código.
type RFQs struct {
	mu   sync.Mutex
	byID map[string]*entity.RFQ
}

var _ repository.RFQRepository = (*RFQs)(nil)

func NewRFQs(rs ...*entity.RFQ) *RFQs {
	r := &RFQs{byID: map[string]*entity.RFQ{}}
	for _, x := range rs {
		r.byID[x.ID] = x
	}
	return r
}

func (r *RFQs) Create(_ context.Context, x *entity.RFQ) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.byID {
		if e.Code == x.Code {
			return domain.ErrDuplicate
		}
	}
	cp := *x
	r.byID[x.ID] = &cp
	return nil
}

func (r *RFQs) GetByID(_ context.Context, id string) (*entity.RFQ, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	x, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *x
	return &cp, nil
}

func (r *RFQs) List(_ context.Context, f repository.RFQFilter) ([]*entity.RFQ, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*entity.RFQ
	for _, x := range r.byID {
		if f.AccountID != "" && x.AccountID != f.AccountID {
			continue
		}
		if f.Status != "" && x.Status != f.Status {
			continue
		}
		cp := *x
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code > all[j].Code })
	return page(all, f.Limit, f.Offset), len(all), nil
}

func (r *RFQs) UpdateStatus(_ context.Context, id string, upd repository.RFQStatusUpdate) (*entity.RFQ, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	x, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	x.Status = upd.Status
	if upd.QuotationID != nil {
		x.QuotationID = upd.QuotationID
	}
	if upd.RelatedOrderID != nil {
		x.RelatedOrderID = upd.RelatedOrderID
	}
	x.UpdatedAt = upd.UpdatedAt
	cp := *x
	return &cp, nil
}

func (r *RFQs) LatestCodeWithPrefix(_ context.Context, prefix string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	best := ""
	for _, x := range r.byID {
		if !strings.HasPrefix(x.Code, prefix) {
			continue
		}
		if len(x.Code) > len(best) || (len(x.Code) == len(best) && x.Code > best) {
			best = x.Code
		}
	}
	return best, nil
}

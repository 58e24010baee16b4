package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/storefront-api/internal/application/ports"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// OTPs repositorio de OTP en memoria, una entrada por (target, purpose).
type OTPs struct {
	mu    sync.Mutex
	byKey map[string]*entity.OTP
}

var _ repository.OTPRepository = (*OTPs)(nil)

func NewOTPs() *OTPs { return &OTPs{byKey: map[string]*entity.OTP{}} }

func (r *OTPs) Replace(_ context.Context, o *entity.OTP) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	r.byKey[o.Target+"|"+o.Purpose] = &cp
	return nil
}

func (r *OTPs) FindActive(_ context.Context, target, purpose string, now time.Time) (*entity.OTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.byKey[target+"|"+purpose]
	if !ok || !o.ExpiresAt.After(now) {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *OTPs) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, o := range r.byKey {
		if o.ID == id {
			delete(r.byKey, k)
		}
	}
	return nil
}

func (r *OTPs) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, o := range r.byKey {
		if !o.ExpiresAt.After(now) {
			delete(r.byKey, k)
			n++
		}
	}
	return n, nil
}

// Sessions almacén de sesiones de refresh en memoria.
type Sessions struct {
	mu    sync.Mutex
	byAcc map[string]map[string]time.Time
}

var _ repository.SessionStore = (*Sessions)(nil)

func NewSessions() *Sessions { return &Sessions{byAcc: map[string]map[string]time.Time{}} }

func (s *Sessions) Save(_ context.Context, accountID, jti string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byAcc[accountID] == nil {
		s.byAcc[accountID] = map[string]time.Time{}
	}
	s.byAcc[accountID][jti] = expiresAt
	return nil
}

func (s *Sessions) Exists(_ context.Context, accountID, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.byAcc[accountID][jti]
	return ok && exp.After(time.Now()), nil
}

func (s *Sessions) Revoke(_ context.Context, accountID, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byAcc[accountID], jti)
	return nil
}

func (s *Sessions) RevokeAll(_ context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byAcc, accountID)
	return nil
}

// Count sesiones vigentes de la cuenta.
func (s *Sessions) Count(accountID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byAcc[accountID])
}

// SentOTP correo registrado por Mailer.
type SentOTP struct {
	To, Purpose, Code string
}

// Mailer registra los OTP enviados.
type Mailer struct {
	mu   sync.Mutex
	sent []SentOTP
}

var _ ports.Mailer = (*Mailer)(nil)

func (m *Mailer) SendOTP(_ context.Context, to, purpose, code string, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentOTP{To: to, Purpose: purpose, Code: code})
	return nil
}

// Sent copia de los correos enviados.
func (m *Mailer) Sent() []SentOTP {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentOTP(nil), m.sent...)
}

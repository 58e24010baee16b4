package admin

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// AdminUseCase gestión de cuentas y vista de clientes del back office.
type AdminUseCase struct {
	accounts  repository.AccountRepository
	analytics repository.AnalyticsRepository
	sessions  repository.SessionStore
	log       *logger.Logger
	now       func() time.Time
	onRevoked []func(accountID string)
}

// NewAdminUseCase construye el caso de uso. sessions puede ser nil.
func NewAdminUseCase(accounts repository.AccountRepository, analytics repository.AnalyticsRepository, sessions repository.SessionStore, log *logger.Logger) *AdminUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AdminUseCase{accounts: accounts, analytics: analytics, sessions: sessions, log: log.Named("admin"), now: time.Now}
}

// OnAccessRevoked registra un callback que corre cada vez que se revocan las sesiones de una
// cuenta (ban, borrado, cambio de rol). El hub de eventos lo usa para cortar sus conexiones.
func (uc *AdminUseCase) OnAccessRevoked(fn func(accountID string)) {
	uc.onRevoked = append(uc.onRevoked, fn)
}

// ListAccounts lista cuentas filtradas por rol y texto.
func (uc *AdminUseCase) ListAccounts(ctx context.Context, q dto.AccountListQuery) (*dto.AccountListResponse, error) {
	if q.Role != "" && !entity.IsValidRole(q.Role) {
		return nil, domain.ErrInvalidInput
	}
	q.Page.DefaultPage()
	list, total, err := uc.accounts.List(ctx, repository.AccountFilter{
		Role: q.Role, Search: strings.TrimSpace(q.Search), Limit: q.Page.Limit, Offset: q.Page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.AccountResponse, 0, len(list))
	for _, a := range list {
		items = append(items, dto.NewAccountResponse(a))
	}
	return &dto.AccountListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Page.Limit, Offset: q.Page.Offset, Total: total},
	}, nil
}

// GetAccount devuelve una cuenta.
func (uc *AdminUseCase) GetAccount(ctx context.Context, id string) (*dto.AccountResponse, error) {
	a, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewAccountResponse(a)
	return &out, nil
}

// CreateAccount crea una cuenta ya activa y verificada con cualquier rol.
func (uc *AdminUseCase) CreateAccount(ctx context.Context, in dto.AdminCreateAccountRequest) (*dto.AccountResponse, error) {
	if !entity.IsValidRole(in.Role) {
		return nil, domain.ErrInvalidInput
	}
	email := entity.NormalizeEmail(in.Email)
	existing, err := uc.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	a := &entity.Account{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Phone:        in.Phone,
		Role:         in.Role,
		IsActive:     true,
		IsVerified:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.accounts.Create(ctx, a); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, err
	}
	out := dto.NewAccountResponse(a)
	return &out, nil
}

// UpdateAccount aplica la lista cerrada de campos del request. Email y contraseña quedan fuera.
// Un administrador no puede desactivarse ni cambiarse el rol a sí mismo.
func (uc *AdminUseCase) UpdateAccount(ctx context.Context, actorID, id string, in dto.AdminUpdateAccountRequest) (*dto.AccountResponse, error) {
	a, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorID == id {
		if (in.IsActive != nil && !*in.IsActive) || (in.Role != nil && *in.Role != a.Role) {
			return nil, domain.ErrSelfAction
		}
	}
	if in.Role != nil && !entity.IsValidRole(*in.Role) {
		return nil, domain.ErrInvalidInput
	}
	wasActive, prevRole := a.IsActive, a.Role
	if in.FullName != nil {
		a.FullName = *in.FullName
	}
	if in.Phone != nil {
		a.Phone = *in.Phone
	}
	if in.Role != nil {
		a.Role = *in.Role
	}
	if in.IsActive != nil {
		a.IsActive = *in.IsActive
	}
	if in.Avatar != nil {
		a.Avatar = *in.Avatar
	}
	a.UpdatedAt = uc.now()
	if err := uc.accounts.Update(ctx, a); err != nil {
		return nil, err
	}
	if (wasActive && !a.IsActive) || prevRole != a.Role {
		uc.revokeSessions(ctx, a.ID)
	}
	out := dto.NewAccountResponse(a)
	return &out, nil
}

// DeleteAccount borra definitivamente la cuenta.
func (uc *AdminUseCase) DeleteAccount(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return domain.ErrSelfAction
	}
	if err := uc.accounts.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrAccountNotFound
		}
		return err
	}
	uc.revokeSessions(ctx, id)
	return nil
}

// SetActive banea (false) o desbanea (true) una cuenta ajena. Banear cierra sus sesiones.
func (uc *AdminUseCase) SetActive(ctx context.Context, actorID, id string, active bool) (*dto.AccountResponse, error) {
	if actorID == id {
		return nil, domain.ErrSelfAction
	}
	if _, err := uc.get(ctx, id); err != nil {
		return nil, err
	}
	if err := uc.accounts.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	if !active {
		uc.revokeSessions(ctx, id)
	}
	return uc.GetAccount(ctx, id)
}

// ChangeRole cambia el rol de una cuenta ajena. Si el rol cambia, sus sesiones se cierran.
func (uc *AdminUseCase) ChangeRole(ctx context.Context, actorID, id, role string) (*dto.AccountResponse, error) {
	if actorID == id {
		return nil, domain.ErrSelfAction
	}
	if !entity.IsValidRole(role) {
		return nil, domain.ErrInvalidInput
	}
	a, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	prevRole := a.Role
	a.Role = role
	a.UpdatedAt = uc.now()
	if err := uc.accounts.Update(ctx, a); err != nil {
		return nil, err
	}
	if prevRole != role {
		uc.revokeSessions(ctx, id)
	}
	out := dto.NewAccountResponse(a)
	return &out, nil
}

// ListCustomers clientes con total de pedidos, gasto (sin cancelados) y último pedido.
func (uc *AdminUseCase) ListCustomers(ctx context.Context, q dto.CustomerListQuery) (*dto.CustomerListResponse, error) {
	q.Page.DefaultPage()
	list, total, err := uc.analytics.ListCustomers(ctx, strings.TrimSpace(q.Search), q.Page.Limit, q.Page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, toCustomerResponse(c))
	}
	return &dto.CustomerListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Page.Limit, Offset: q.Page.Offset, Total: total},
	}, nil
}

// GetCustomer un cliente con sus agregados.
func (uc *AdminUseCase) GetCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := uc.analytics.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrAccountNotFound
	}
	out := toCustomerResponse(c)
	return &out, nil
}

func (uc *AdminUseCase) get(ctx context.Context, id string) (*entity.Account, error) {
	a, err := uc.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrAccountNotFound
	}
	return a, nil
}

func (uc *AdminUseCase) revokeSessions(ctx context.Context, accountID string) {
	for _, fn := range uc.onRevoked {
		fn(accountID)
	}
	if uc.sessions == nil {
		return
	}
	if err := uc.sessions.RevokeAll(ctx, accountID); err != nil {
		uc.log.Warn().Err(err).Str("account_id", accountID).Msg("no se pudieron revocar las sesiones")
	}
}

func toCustomerResponse(c *entity.CustomerSummary) dto.CustomerResponse {
	return dto.CustomerResponse{
		AccountResponse: dto.NewAccountResponse(&c.Account),
		TotalOrders:     c.TotalOrders,
		TotalSpent:      c.TotalSpent,
		LastOrderDate:   c.LastOrderDate,
	}
}

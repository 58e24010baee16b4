package rfq

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/ports"
	"github.com/jhoicas/storefront-api/internal/application/tasks"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

const seqDigits = 4

// CodePrefix prefijo de código del mes: RFQ + yyyy + mm.
func CodePrefix(t time.Time) string {
	return fmt.Sprintf("RFQ%04d%02d", t.Year(), int(t.Month()))
}

// NextCode siguiente código para el prefijo dado a partir del mayor existente.
// Sin código previo (o con uno de otro prefijo) la secuencia arranca en 0001.
func NextCode(prefix, last string) string {
	seq := 0
	if strings.HasPrefix(last, prefix) {
		if n, err := strconv.Atoi(last[len(prefix):]); err == nil {
			seq = n
		}
	}
	return fmt.Sprintf("%s%0*d", prefix, seqDigits, seq+1)
}

// RFQUseCase solicitudes de cotización.
type RFQUseCase struct {
	rfqs     repository.RFQRepository
	accounts repository.AccountRepository
	notifier ports.Notifier
	tasks    *tasks.Runner
	now      func() time.Time
}

// NewRFQUseCase construye el caso de uso. notifier y runner pueden ser nil.
func NewRFQUseCase(rfqs repository.RFQRepository, accounts repository.AccountRepository, notifier ports.Notifier, runner *tasks.Runner) *RFQUseCase {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	if runner == nil {
		runner = tasks.NewRunner(logger.Nop(), 0)
	}
	return &RFQUseCase{rfqs: rfqs, accounts: accounts, notifier: notifier, tasks: runner, now: time.Now}
}

// SetClock reemplaza el reloj (tests).
func (uc *RFQUseCase) SetClock(fn func() time.Time) { uc.now = fn }

// Create registra la solicitud. El código se calcula leyendo el mayor del mes e incrementando
// (no atómico); si dos altas concurrentes colisionan, el índice único hace fallar la segunda
// con ErrConflict.
func (uc *RFQUseCase) Create(ctx context.Context, accountID string, in dto.CreateRFQRequest) (*dto.RFQResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	acc, err := uc.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrAccountNotFound
	}
	contact := entity.RFQContact{FullName: acc.FullName, Email: acc.Email, Phone: acc.Phone}
	if c := in.Contact; c != nil {
		if c.FullName != "" {
			contact.FullName = c.FullName
		}
		if c.Email != "" {
			contact.Email = entity.NormalizeEmail(c.Email)
		}
		if c.Phone != "" {
			contact.Phone = c.Phone
		}
		contact.Company = c.Company
	}
	items := make([]entity.RFQItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity < 1 || strings.TrimSpace(it.ProductName) == "" {
			return nil, domain.ErrInvalidInput
		}
		items = append(items, entity.RFQItem{
			ProductID:     it.ProductID,
			ProductName:   strings.TrimSpace(it.ProductName),
			Specification: it.Specification,
			Quantity:      it.Quantity,
			Unit:          it.Unit,
			TargetPrice:   it.TargetPrice,
		})
	}

	now := uc.now()
	prefix := CodePrefix(now)
	last, err := uc.rfqs.LatestCodeWithPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	r := &entity.RFQ{
		ID:        uuid.New().String(),
		Code:      NextCode(prefix, last),
		AccountID: accountID,
		Items:     items,
		Contact:   contact,
		Note:      in.Note,
		Status:    entity.RFQStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.rfqs.Create(ctx, r); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	uc.tasks.Fire(ctx, "rfq:notify-admins", func(ctx context.Context) error {
		return uc.notifier.NotifyRole(ctx, entity.RoleAdmin, ports.EventRFQCreated, map[string]any{
			"rfqId": r.ID, "code": r.Code, "accountId": r.AccountID,
		})
	})
	out := toResponse(r)
	return &out, nil
}

// ListMine solicitudes propias.
func (uc *RFQUseCase) ListMine(ctx context.Context, accountID string, q dto.RFQListQuery) (*dto.RFQListResponse, error) {
	return uc.list(ctx, accountID, q)
}

// ListAll todas las solicitudes (administración).
func (uc *RFQUseCase) ListAll(ctx context.Context, q dto.RFQListQuery) (*dto.RFQListResponse, error) {
	return uc.list(ctx, "", q)
}

func (uc *RFQUseCase) list(ctx context.Context, accountID string, q dto.RFQListQuery) (*dto.RFQListResponse, error) {
	if q.Status != "" && !entity.IsValidRFQStatus(q.Status) {
		return nil, domain.ErrInvalidStatus
	}
	q.Page.DefaultPage()
	list, total, err := uc.rfqs.List(ctx, repository.RFQFilter{
		AccountID: accountID, Status: q.Status, Limit: q.Page.Limit, Offset: q.Page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.RFQResponse, 0, len(list))
	for _, r := range list {
		items = append(items, toResponse(r))
	}
	return &dto.RFQListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Page.Limit, Offset: q.Page.Offset, Total: total},
	}, nil
}

// Get devuelve la solicitud solo al dueño o a un rol con lectura global de RFQ.
func (uc *RFQUseCase) Get(ctx context.Context, id, requesterID, role string) (*dto.RFQResponse, error) {
	r, err := uc.rfqs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrRFQNotFound
	}
	if r.AccountID != requesterID && !entity.HasCapability(role, entity.CapReadAnyRFQ) {
		return nil, domain.ErrForbidden
	}
	out := toResponse(r)
	return &out, nil
}

// UpdateStatus cambia estado y vínculos de cotización/pedido y avisa al dueño.
func (uc *RFQUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateRFQStatusRequest) (*dto.RFQResponse, error) {
	if !entity.IsValidRFQStatus(in.Status) {
		return nil, domain.ErrInvalidStatus
	}
	r, err := uc.rfqs.UpdateStatus(ctx, id, repository.RFQStatusUpdate{
		Status:         in.Status,
		QuotationID:    in.QuotationID,
		RelatedOrderID: in.RelatedOrderID,
		UpdatedAt:      uc.now(),
	})
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrRFQNotFound
	}
	uc.tasks.Fire(ctx, "rfq:notify-owner", func(ctx context.Context) error {
		return uc.notifier.NotifyUser(ctx, r.AccountID, ports.EventRFQStatusUpdated, map[string]any{
			"rfqId": r.ID, "code": r.Code, "status": r.Status,
		})
	})
	out := toResponse(r)
	return &out, nil
}

func toResponse(r *entity.RFQ) dto.RFQResponse {
	items := make([]dto.RFQItemDTO, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, dto.RFQItemDTO{
			ProductID:     it.ProductID,
			ProductName:   it.ProductName,
			Specification: it.Specification,
			Quantity:      it.Quantity,
			Unit:          it.Unit,
			TargetPrice:   it.TargetPrice,
		})
	}
	return dto.RFQResponse{
		ID:        r.ID,
		Code:      r.Code,
		AccountID: r.AccountID,
		Items:     items,
		Contact: dto.RFQContactDTO{
			FullName: r.Contact.FullName, Email: r.Contact.Email, Phone: r.Contact.Phone, Company: r.Contact.Company,
		},
		Note:           r.Note,
		Status:         r.Status,
		QuotationID:    r.QuotationID,
		RelatedOrderID: r.RelatedOrderID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

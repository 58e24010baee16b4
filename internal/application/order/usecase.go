package order

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/ports"
	"github.com/jhoicas/storefront-api/internal/application/tasks"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// CartClearer vacía el carrito tras el checkout.
type CartClearer interface {
	Clear(ctx context.Context, accountID string) error
}

// Deps dependencias del caso de uso de pedidos.
type Deps struct {
	Orders        repository.OrderRepository
	Products      repository.ProductRepository
	Accounts      repository.AccountRepository
	Notifications repository.NotificationRepository
	Cart          CartClearer
	Notifier      ports.Notifier
	Receipts      ports.ReceiptGenerator
	Tasks         *tasks.Runner
	Log           *logger.Logger
}

// staffRoles roles que reciben los eventos de pedidos.
var staffRoles = []string{entity.RoleAdmin, entity.RoleStaff}

// OrderUseCase checkout, consulta, cancelación y cambios de estado de pedidos.
type OrderUseCase struct {
	orders        repository.OrderRepository
	products      repository.ProductRepository
	accounts      repository.AccountRepository
	notifications repository.NotificationRepository
	cart          CartClearer
	notifier      ports.Notifier
	receipts      ports.ReceiptGenerator
	tasks         *tasks.Runner
	log           *logger.Logger
	now           func() time.Time
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(d Deps) *OrderUseCase {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Tasks == nil {
		d.Tasks = tasks.NewRunner(d.Log, 0)
	}
	if d.Notifier == nil {
		d.Notifier = ports.NopNotifier{}
	}
	return &OrderUseCase{
		orders:        d.Orders,
		products:      d.Products,
		accounts:      d.Accounts,
		notifications: d.Notifications,
		cart:          d.Cart,
		notifier:      d.Notifier,
		receipts:      d.Receipts,
		tasks:         d.Tasks,
		log:           d.Log.Named("orders"),
		now:           time.Now,
	}
}

// SetClock reemplaza el reloj (tests).
func (uc *OrderUseCase) SetClock(fn func() time.Time) { uc.now = fn }

// Create arma el pedido con un snapshot de nombre, SKU y precio tomado del catálogo.
// No descuenta stock.
func (uc *OrderUseCase) Create(ctx context.Context, accountID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(in.Items) == 0 || !entity.IsValidPaymentMethod(in.PaymentMethod) {
		return nil, domain.ErrInvalidInput
	}
	// misma línea repetida = cantidades sumadas, en el orden de primera aparición
	qty := make(map[string]int, len(in.Items))
	var ids []string
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return nil, domain.ErrInvalidInput
		}
		if _, seen := qty[it.ProductID]; !seen {
			ids = append(ids, it.ProductID)
		}
		qty[it.ProductID] += it.Quantity
	}
	products, err := uc.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	items := make([]entity.OrderItem, 0, len(ids))
	total := decimal.Zero
	for _, id := range ids {
		p := products[id]
		if p == nil || !p.IsActive {
			return nil, domain.ErrProductUnavailable
		}
		if qty[id] > p.Stock {
			return nil, domain.ErrExceedsStock
		}
		subtotal := p.Price.Mul(decimal.NewFromInt(int64(qty[id])))
		items = append(items, entity.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			SKU:       p.SKU,
			Price:     p.Price,
			Quantity:  qty[id],
			Subtotal:  subtotal,
		})
		total = total.Add(subtotal)
	}
	now := uc.now()
	code, err := GenerateCode(now)
	if err != nil {
		return nil, err
	}
	a := in.ShippingAddress
	o := &entity.Order{
		ID:        uuid.New().String(),
		Code:      code,
		AccountID: accountID,
		Items:     items,
		ShippingAddress: entity.ShippingAddress{
			FullName: a.FullName, Phone: a.Phone, Street: a.Street,
			Ward: a.Ward, District: a.District, City: a.City, Note: a.Note,
		},
		PaymentMethod: in.PaymentMethod,
		Status:        entity.OrderStatusPending,
		TotalAmount:   total,
		Note:          in.Note,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.orders.Create(ctx, o); err != nil {
		return nil, err
	}
	if in.ClearCart && uc.cart != nil {
		if err := uc.cart.Clear(ctx, accountID); err != nil {
			uc.log.Warn().Err(err).Str("order_id", o.ID).Msg("no se pudo vaciar el carrito tras el checkout")
		}
	}
	uc.notifyRoles(ctx, ports.EventOrderCreated, orderPayload(o))
	out := dto.NewOrderResponse(o)
	return &out, nil
}

// ListMine pedidos propios.
func (uc *OrderUseCase) ListMine(ctx context.Context, accountID string, q dto.OrderListQuery) (*dto.OrderListResponse, error) {
	return uc.list(ctx, accountID, q)
}

// ListAll todos los pedidos (personal).
func (uc *OrderUseCase) ListAll(ctx context.Context, q dto.OrderListQuery) (*dto.OrderListResponse, error) {
	return uc.list(ctx, "", q)
}

func (uc *OrderUseCase) list(ctx context.Context, accountID string, q dto.OrderListQuery) (*dto.OrderListResponse, error) {
	if q.Status != "" && !entity.IsValidOrderStatus(q.Status) {
		return nil, domain.ErrInvalidStatus
	}
	q.Page.DefaultPage()
	list, total, err := uc.orders.List(ctx, repository.OrderFilter{
		AccountID: accountID, Status: q.Status, Limit: q.Page.Limit, Offset: q.Page.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewOrderListResponse(list, total, q.Page.Limit, q.Page.Offset)
	return &out, nil
}

// Get devuelve el pedido si el solicitante es el dueño o su rol puede leer pedidos ajenos.
func (uc *OrderUseCase) Get(ctx context.Context, id, requesterID, role string) (*dto.OrderResponse, error) {
	o, err := uc.getVisible(ctx, id, requesterID, role)
	if err != nil {
		return nil, err
	}
	out := dto.NewOrderResponse(o)
	return &out, nil
}

// Receipt genera el PDF del pedido. Devuelve el código para el nombre del archivo.
func (uc *OrderUseCase) Receipt(ctx context.Context, id, requesterID, role string) ([]byte, string, error) {
	if uc.receipts == nil {
		return nil, "", fmt.Errorf("generador de comprobantes no configurado")
	}
	o, err := uc.getVisible(ctx, id, requesterID, role)
	if err != nil {
		return nil, "", err
	}
	var customer *entity.Account
	if uc.accounts != nil {
		customer, err = uc.accounts.GetByID(ctx, o.AccountID)
		if err != nil {
			return nil, "", err
		}
	}
	pdf, err := uc.receipts.GenerateOrderReceipt(o, customer)
	if err != nil {
		return nil, "", fmt.Errorf("generar comprobante %s: %w", o.Code, err)
	}
	return pdf, o.Code, nil
}

func (uc *OrderUseCase) getVisible(ctx context.Context, id, requesterID, role string) (*entity.Order, error) {
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	if o.AccountID != requesterID && !entity.HasCapability(role, entity.CapReadAnyOrder) {
		return nil, domain.ErrForbidden
	}
	return o, nil
}

// UpdateStatus sobrescribe el estado sin validar la transición y dispara, best-effort,
// el evento al cliente, el evento a ADMIN/STAFF y la notificación persistida.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, id, status string) (*dto.OrderResponse, error) {
	if !entity.IsValidOrderStatus(status) {
		return nil, domain.ErrInvalidStatus
	}
	o, err := uc.orders.UpdateStatus(ctx, id, status, uc.now())
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	payload := orderPayload(o)

	uc.tasks.Fire(ctx, "order-status:notify-customer", func(ctx context.Context) error {
		return uc.notifier.NotifyUser(ctx, o.AccountID, ports.EventOrderStatusUpdated, payload)
	})
	uc.notifyRoles(ctx, ports.EventOrderStatusUpdated, payload)
	if uc.notifications != nil {
		n := &entity.Notification{
			ID:          uuid.New().String(),
			RecipientID: o.AccountID,
			Type:        entity.NotificationOrderStatus,
			Title:       "Order update",
			Message:     fmt.Sprintf("Your order %s %s.", o.Code, entity.OrderStatusPhrase(o.Status)),
			Data:        map[string]any{"orderId": o.ID, "code": o.Code, "status": o.Status},
			CreatedAt:   uc.now(),
		}
		uc.tasks.Fire(ctx, "order-status:create-notification", func(ctx context.Context) error {
			if err := uc.notifications.Create(ctx, n); err != nil {
				return err
			}
			return uc.notifier.NotifyUser(ctx, n.RecipientID, ports.EventNotificationNew, dto.NotificationResponse{
				ID: n.ID, Type: n.Type, Title: n.Title, Message: n.Message, Data: n.Data, CreatedAt: n.CreatedAt,
			})
		})
	}
	out := dto.NewOrderResponse(o)
	return &out, nil
}

// Cancel cancela un pedido propio que siga en PENDING o CONFIRMED. En cualquier otro caso
// no cambia nada y devuelve ErrOrderNotCancellable.
func (uc *OrderUseCase) Cancel(ctx context.Context, id, accountID string) (*dto.OrderResponse, error) {
	o, err := uc.orders.CancelIfStatus(ctx, id, accountID, entity.CancellableStatuses, uc.now())
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotCancellable
	}
	uc.notifyRoles(ctx, ports.EventOrderCancelled, orderPayload(o))
	out := dto.NewOrderResponse(o)
	return &out, nil
}

func (uc *OrderUseCase) notifyRoles(ctx context.Context, event string, payload map[string]any) {
	uc.tasks.Fire(ctx, event+":notify-roles", func(ctx context.Context) error {
		var errs []error
		for _, role := range staffRoles {
			if err := uc.notifier.NotifyRole(ctx, role, event, payload); err != nil {
				errs = append(errs, fmt.Errorf("rol %s: %w", role, err))
			}
		}
		return errors.Join(errs...)
	})
}

func orderPayload(o *entity.Order) map[string]any {
	return map[string]any{
		"orderId":     o.ID,
		"code":        o.Code,
		"status":      o.Status,
		"accountId":   o.AccountID,
		"totalAmount": o.TotalAmount.String(),
	}
}

// GenerateCode código legible: ORD + yyyymmdd + "-" + 6 hex en mayúsculas.
func GenerateCode(now time.Time) (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generar código de pedido: %w", err)
	}
	return "ORD" + now.Format("20060102") + "-" + strings.ToUpper(hex.EncodeToString(b)), nil
}

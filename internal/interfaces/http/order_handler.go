package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/order"
	"github.com/jhoicas/storefront-api/internal/domain"
)

// OrderHandler pedidos: checkout y consulta propia, gestión para el personal.
type OrderHandler struct {
	uc *order.OrderUseCase
	errorResponder
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *order.OrderUseCase, errs errorResponder) *OrderHandler {
	return &OrderHandler{uc: uc, errorResponder: errs}
}

// Create godoc
// @Summary      Crear pedido
// @Description  Toma nombre, SKU y precio del catálogo en el momento del pedido. clearCart vacía el carrito.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Líneas, dirección y pago"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMine godoc
// @Summary      Mis pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Estado"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.OrderListResponse
// @Router       /api/orders/my-orders [get]
func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	out, err := h.uc.ListMine(c.UserContext(), GetUserID(c), orderListQuery(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// ListAll godoc
// @Summary      Listar todos los pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Estado"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.OrderListResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) ListAll(c *fiber.Ctx) error {
	out, err := h.uc.ListAll(c.UserContext(), orderListQuery(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener pedido
// @Description  Visible para el dueño y para roles con lectura de pedidos ajenos.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return h.fail(c, domain.ErrOrderNotFound)
	}
	out, err := h.uc.Get(c.UserContext(), id, GetUserID(c), GetRole(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Recibo PDF del pedido
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return h.fail(c, domain.ErrOrderNotFound)
	}
	pdf, code, err := h.uc.Receipt(c.UserContext(), id, GetUserID(c), GetRole(c))
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", "receipt-"+code+".pdf"))
	return c.Send(pdf)
}

// UpdateStatus godoc
// @Summary      Cambiar estado del pedido
// @Description  Sobrescribe el estado y notifica al cliente y al personal.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del pedido"
// @Param        body  body  dto.UpdateOrderStatusRequest true  "Nuevo estado"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return h.fail(c, domain.ErrOrderNotFound)
	}
	var in dto.UpdateOrderStatusRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), id, in.Status)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar pedido propio
// @Description  Solo en estado PENDING o CONFIRMED.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [put]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return h.fail(c, domain.ErrOrderNotCancellable)
	}
	out, err := h.uc.Cancel(c.UserContext(), id, GetUserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

func orderListQuery(c *fiber.Ctx) dto.OrderListQuery {
	limit, offset := pageQuery(c)
	return dto.OrderListQuery{
		Status: c.Query("status"),
		Page:   dto.PageRequest{Limit: limit, Offset: offset},
	}
}

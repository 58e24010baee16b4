package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/rfq"
	"github.com/jhoicas/storefront-api/internal/domain"
)

// RFQHandler solicitudes de cotización.
type RFQHandler struct {
	uc *rfq.RFQUseCase
	errorResponder
}

// NewRFQHandler construye el handler.
func NewRFQHandler(uc *rfq.RFQUseCase, errs errorResponder) *RFQHandler {
	return &RFQHandler{uc: uc, errorResponder: errs}
}

// Create godoc
// @Summary      Crear solicitud de cotización
// @Description  El contacto se completa con los datos de la cuenta si no se envía.
// @Tags         rfq
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRFQRequest  true  "Ítems, contacto y nota"
// @Success      201   {object}  dto.RFQResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/rfq [post]
func (h *RFQHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRFQRequest
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
// @Summary      Mis solicitudes
// @Tags         rfq
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Estado"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.RFQListResponse
// @Router       /api/rfq/my [get]
func (h *RFQHandler) ListMine(c *fiber.Ctx) error {
	out, err := h.uc.ListMine(c.UserContext(), GetUserID(c), rfqListQuery(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// ListAll godoc
// @Summary      Listar todas las solicitudes
// @Tags         rfq
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Estado"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.RFQListResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/rfq [get]
func (h *RFQHandler) ListAll(c *fiber.Ctx) error {
	out, err := h.uc.ListAll(c.UserContext(), rfqListQuery(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener solicitud
// @Tags         rfq
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RFQResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rfq/{id} [get]
func (h *RFQHandler) Get(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return h.fail(c, domain.ErrRFQNotFound)
	}
	out, err := h.uc.Get(c.UserContext(), id, GetUserID(c), GetRole(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de la solicitud
// @Tags         rfq
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la solicitud"
// @Param        body  body  dto.UpdateRFQStatusRequest  true  "Estado, cotización y pedido relacionado"
// @Success      200   {object}  dto.RFQResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/rfq/{id}/status [put]
func (h *RFQHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return h.fail(c, domain.ErrRFQNotFound)
	}
	var in dto.UpdateRFQStatusRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), id, in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

func rfqListQuery(c *fiber.Ctx) dto.RFQListQuery {
	limit, offset := pageQuery(c)
	return dto.RFQListQuery{
		Status: c.Query("status"),
		Page:   dto.PageRequest{Limit: limit, Offset: offset},
	}
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/storefront-api/internal/application/admin"
	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
)

// AdminHandler gestión de cuentas y consulta de clientes.
type AdminHandler struct {
	uc *admin.AdminUseCase
	errorResponder
}

// NewAdminHandler construye el handler.
func NewAdminHandler(uc *admin.AdminUseCase, errs errorResponder) *AdminHandler {
	return &AdminHandler{uc: uc, errorResponder: errs}
}

// ListAccounts godoc
// @Summary      Listar cuentas
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        role    query  string  false  "Rol"
// @Param        search  query  string  false  "Email o nombre"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.AccountListResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/admin/accounts [get]
func (h *AdminHandler) ListAccounts(c *fiber.Ctx) error {
	limit, offset := pageQuery(c)
	out, err := h.uc.ListAccounts(c.UserContext(), dto.AccountListQuery{
		Role:   c.Query("role"),
		Search: c.Query("search"),
		Page:   dto.PageRequest{Limit: limit, Offset: offset},
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// GetAccount godoc
// @Summary      Obtener cuenta
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.AccountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/accounts/{id} [get]
func (h *AdminHandler) GetAccount(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return h.fail(c, domain.ErrAccountNotFound)
	}
	out, err := h.uc.GetAccount(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// CreateAccount godoc
// @Summary      Crear cuenta
// @Description  La cuenta nace activa y verificada con el rol indicado.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdminCreateAccountRequest  true  "Datos de la cuenta"
// @Success      201   {object}  dto.AccountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/accounts [post]
func (h *AdminHandler) CreateAccount(c *fiber.Ctx) error {
	var in dto.AdminCreateAccountRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateAccount(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateAccount godoc
// @Summary      Actualizar cuenta
// @Description  Solo fullName, phone, role, isActive y avatar. Email y contraseña no se tocan.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID de la cuenta"
// @Param        body  body  dto.AdminUpdateAccountRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.AccountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/accounts/{id} [put]
func (h *AdminHandler) UpdateAccount(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return h.fail(c, domain.ErrAccountNotFound)
	}
	var in dto.AdminUpdateAccountRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateAccount(c.UserContext(), GetUserID(c), id, in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// DeleteAccount godoc
// @Summary      Eliminar cuenta
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/accounts/{id} [delete]
func (h *AdminHandler) DeleteAccount(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return h.fail(c, domain.ErrAccountNotFound)
	}
	if err := h.uc.DeleteAccount(c.UserContext(), GetUserID(c), id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Account deleted"})
}

// Ban godoc
// @Summary      Desactivar cuenta
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.AccountResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/accounts/{id}/ban [put]
func (h *AdminHandler) Ban(c *fiber.Ctx) error {
	return h.setActive(c, false)
}

// Unban godoc
// @Summary      Reactivar cuenta
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.AccountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/accounts/{id}/unban [put]
func (h *AdminHandler) Unban(c *fiber.Ctx) error {
	return h.setActive(c, true)
}

func (h *AdminHandler) setActive(c *fiber.Ctx, active bool) error {
	id, ok := pathID(c, "id")
	if !ok {
		return h.fail(c, domain.ErrAccountNotFound)
	}
	out, err := h.uc.SetActive(c.UserContext(), GetUserID(c), id, active)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// ChangeRole godoc
// @Summary      Cambiar rol
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la cuenta"
// @Param        body  body  dto.ChangeRoleRequest  true  "Nuevo rol"
// @Success      200   {object}  dto.AccountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/accounts/{id}/role [put]
func (h *AdminHandler) ChangeRole(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return h.fail(c, domain.ErrAccountNotFound)
	}
	var in dto.ChangeRoleRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.ChangeRole(c.UserContext(), GetUserID(c), id, in.Role)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// ListCustomers godoc
// @Summary      Listar clientes con agregados de pedidos
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Email o nombre"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.CustomerListResponse
// @Router       /api/admin/customers [get]
func (h *AdminHandler) ListCustomers(c *fiber.Ctx) error {
	limit, offset := pageQuery(c)
	out, err := h.uc.ListCustomers(c.UserContext(), dto.CustomerListQuery{
		Search: c.Query("search"),
		Page:   dto.PageRequest{Limit: limit, Offset: offset},
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// GetCustomer godoc
// @Summary      Obtener cliente
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.CustomerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/customers/{id} [get]
func (h *AdminHandler) GetCustomer(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return h.fail(c, domain.ErrAccountNotFound)
	}
	out, err := h.uc.GetCustomer(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

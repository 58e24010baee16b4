package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/wishlist"
	"github.com/jhoicas/storefront-api/internal/domain"
)

// WishlistHandler lista de deseos del usuario autenticado.
type WishlistHandler struct {
	uc *wishlist.WishlistUseCase
	errorResponder
}

// NewWishlistHandler construye el handler.
func NewWishlistHandler(uc *wishlist.WishlistUseCase, errs errorResponder) *WishlistHandler {
	return &WishlistHandler{uc: uc, errorResponder: errs}
}

// Get godoc
// @Summary      Ver lista de deseos
// @Tags         wishlist
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.WishlistResponse
// @Router       /api/wishlist [get]
func (h *WishlistHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetUserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Add godoc
// @Summary      Agregar a la lista de deseos
// @Description  Idempotente: agregar un producto ya presente no lo duplica.
// @Tags         wishlist
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddWishlistItemRequest  true  "Producto"
// @Success      200   {object}  dto.WishlistResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/wishlist [post]
func (h *WishlistHandler) Add(c *fiber.Ctx) error {
	var in dto.AddWishlistItemRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Add(c.UserContext(), GetUserID(c), in.ProductID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Remove godoc
// @Summary      Quitar de la lista de deseos
// @Tags         wishlist
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200        {object}  dto.WishlistResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/wishlist/{productId} [delete]
func (h *WishlistHandler) Remove(c *fiber.Ctx) error {
	productID, ok := pathID(c, "productId")
	if !ok {
		return h.fail(c, domain.ErrWishlistItemNotFound)
	}
	out, err := h.uc.Remove(c.UserContext(), GetUserID(c), productID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Clear godoc
// @Summary      Vaciar lista de deseos
// @Tags         wishlist
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/wishlist [delete]
func (h *WishlistHandler) Clear(c *fiber.Ctx) error {
	if err := h.uc.Clear(c.UserContext(), GetUserID(c)); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Wishlist cleared"})
}

// MoveToCart godoc
// @Summary      Mover al carrito
// @Description  Agrega el producto al carrito con las reglas de stock y lo quita de la lista.
// @Tags         wishlist
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string                true   "ID del producto"
// @Param        body       body  dto.MoveToCartRequest false  "Cantidad (por defecto 1)"
// @Success      200        {object}  dto.CartResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/wishlist/{productId}/move-to-cart [post]
func (h *WishlistHandler) MoveToCart(c *fiber.Ctx) error {
	productID, ok := pathID(c, "productId")
	if !ok {
		return h.fail(c, domain.ErrWishlistItemNotFound)
	}
	var in dto.MoveToCartRequest
	if len(c.Body()) > 0 {
		if ok, err := bindJSON(c, &in); !ok {
			return err
		}
	}
	out, err := h.uc.MoveToCart(c.UserContext(), GetUserID(c), productID, in.Quantity)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// errorMapping código y status HTTP fijos para un error de dominio.
type errorMapping struct {
	target error
	status int
	code   string
}

// Orden importa: los errores específicos antes que los genéricos.
var errorMappings = []errorMapping{
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{domain.ErrInvalidToken, fiber.StatusUnauthorized, "INVALID_TOKEN"},
	{domain.ErrAccountDeactivated, fiber.StatusForbidden, "ACCOUNT_DEACTIVATED"},
	{domain.ErrAccountNotVerified, fiber.StatusForbidden, "ACCOUNT_NOT_VERIFIED"},
	{domain.ErrAccountNotFound, fiber.StatusNotFound, "ACCOUNT_NOT_FOUND"},
	{domain.ErrAlreadyVerified, fiber.StatusConflict, "ALREADY_VERIFIED"},
	{domain.ErrInvalidOTP, fiber.StatusBadRequest, "INVALID_OTP"},
	{domain.ErrWrongPassword, fiber.StatusBadRequest, "WRONG_PASSWORD"},
	{domain.ErrProductNotFound, fiber.StatusNotFound, "PRODUCT_NOT_FOUND"},
	{domain.ErrProductUnavailable, fiber.StatusBadRequest, "PRODUCT_UNAVAILABLE"},
	{domain.ErrExceedsStock, fiber.StatusBadRequest, "EXCEEDS_STOCK"},
	{domain.ErrCartItemNotFound, fiber.StatusNotFound, "CART_ITEM_NOT_FOUND"},
	{domain.ErrWishlistItemNotFound, fiber.StatusNotFound, "WISHLIST_ITEM_NOT_FOUND"},
	{domain.ErrOrderNotFound, fiber.StatusNotFound, "ORDER_NOT_FOUND"},
	{domain.ErrOrderNotCancellable, fiber.StatusNotFound, "ORDER_NOT_CANCELLABLE"},
	{domain.ErrInvalidStatus, fiber.StatusBadRequest, "INVALID_STATUS"},
	{domain.ErrRFQNotFound, fiber.StatusNotFound, "RFQ_NOT_FOUND"},
	{domain.ErrSelfAction, fiber.StatusBadRequest, "SELF_ACTION"},
	{domain.ErrAvatarUploadDisabled, fiber.StatusServiceUnavailable, "AVATAR_UPLOAD_DISABLED"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
}

// mapError traduce un error de caso de uso a status + cuerpo. Lo no previsto es 500 INTERNAL.
func mapError(err error) (int, dto.ErrorResponse) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, dto.ErrorResponse{Code: m.code, Message: m.target.Error()}
		}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "Internal server error"}
}

// errorResponder responde errores de casos de uso y registra los 500.
type errorResponder struct {
	log *logger.Logger
}

func (r errorResponder) fail(c *fiber.Ctx, err error) error {
	status, body := mapError(err)
	if status == fiber.StatusInternalServerError && r.log != nil {
		r.log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
	}
	return c.Status(status).JSON(body)
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: msg})
}

// ErrorHandler para fiber.Config: errores de Fiber (ruta inexistente, body demasiado grande)
// conservan su status; el resto es 500 INTERNAL.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: fiberErrorCode(fe.Code), Message: fe.Message})
		}
		return errorResponder{log: log}.fail(c, err)
	}
}

func fiberErrorCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	}
	if status >= fiber.StatusInternalServerError {
		return "INTERNAL"
	}
	return "BAD_REQUEST"
}

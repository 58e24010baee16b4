package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/storefront-api/internal/application/auth"
	"github.com/jhoicas/storefront-api/internal/application/dto"
)

const (
	refreshCookieName = "refreshToken"
	refreshCookieTTL  = 7 * 24 * time.Hour
	maxAvatarBytes    = 5 << 20
)

// AuthHandler maneja registro, login, sesiones y perfil propio.
type AuthHandler struct {
	uc           *auth.AuthUseCase
	secureCookie bool
	errorResponder
}

// NewAuthHandler construye el handler. secureCookie marca la cookie de refresh como Secure (producción).
func NewAuthHandler(uc *auth.AuthUseCase, secureCookie bool, errs errorResponder) *AuthHandler {
	return &AuthHandler{uc: uc, secureCookie: secureCookie, errorResponder: errs}
}

// Register godoc
// @Summary      Registrar cliente
// @Description  Crea una cuenta CUSTOMER pendiente de verificación y envía un OTP por correo.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "Datos de registro"
// @Success      201   {object}  dto.RegisterResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// VerifyRegister godoc
// @Summary      Verificar registro con OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VerifyOTPRequest  true  "Email y OTP"
// @Success      200   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/verify-register [post]
func (h *AuthHandler) VerifyRegister(c *fiber.Ctx) error {
	var in dto.VerifyOTPRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.VerifyRegister(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	h.setRefreshCookie(c, out)
	return c.JSON(out)
}

// ResendOTP godoc
// @Summary      Reenviar OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResendOTPRequest  true  "Email y propósito"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/auth/resend-otp [post]
func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var in dto.ResendOTPRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	if err := h.uc.ResendOTP(c.UserContext(), in); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "OTP sent"})
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Devuelve el access token en el cuerpo y el refresh token en la cookie httpOnly refreshToken.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credenciales"
// @Success      200   {object}  dto.AuthResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	h.setRefreshCookie(c, out)
	return c.JSON(out)
}

// Refresh godoc
// @Summary      Rotar tokens
// @Description  Lee el refresh de la cookie (o del cuerpo), lo revoca y emite un par nuevo.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RefreshRequest  false  "Refresh token si no hay cookie"
// @Success      200   {object}  dto.AuthResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token := h.refreshToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Refresh token required"})
	}
	out, err := h.uc.Refresh(c.UserContext(), token)
	if err != nil {
		h.clearRefreshCookie(c)
		return h.fail(c, err)
	}
	h.setRefreshCookie(c, out)
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if token := h.refreshToken(c); token != "" {
		h.uc.Logout(c.UserContext(), token)
	}
	h.clearRefreshCookie(c)
	return c.JSON(dto.MessageResponse{Message: "Logged out"})
}

// ForgotPassword godoc
// @Summary      Solicitar recuperación de contraseña
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ForgotPasswordRequest  true  "Email"
// @Success      200   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in dto.ForgotPasswordRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	if err := h.uc.ForgotPassword(c.UserContext(), in); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "OTP sent to your email"})
}

// ResetPassword godoc
// @Summary      Restablecer contraseña con OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResetPasswordRequest  true  "Email, OTP y nueva contraseña"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	if err := h.uc.ResetPassword(c.UserContext(), in); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Password has been reset"})
}

// Me godoc
// @Summary      Cuenta autenticada
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AccountResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext(), GetUserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// UpdateProfile godoc
// @Summary      Actualizar perfil propio
// @Description  Solo fullName, phone y avatar. Sirve PUT /api/auth/me y PUT /api/auth/profile.
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateProfileRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.AccountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateProfile(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// ChangePassword godoc
// @Summary      Cambiar contraseña
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChangePasswordRequest  true  "Contraseña actual y nueva"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/change-password [put]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	if err := h.uc.ChangePassword(c.UserContext(), GetUserID(c), in); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Password changed"})
}

// UploadAvatar godoc
// @Summary      Subir avatar
// @Tags         auth
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        avatar  formData  file  true  "Imagen (máx. 5 MB)"
// @Success      200     {object}  dto.AccountResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/auth/avatar [post]
func (h *AuthHandler) UploadAvatar(c *fiber.Ctx) error {
	fh, err := c.FormFile("avatar")
	if err != nil {
		return badRequest(c, "VALIDATION", "avatar file is required")
	}
	if fh.Size > maxAvatarBytes {
		return badRequest(c, "VALIDATION", "avatar must be at most 5MB")
	}
	contentType := fh.Header.Get(fiber.HeaderContentType)
	if !strings.HasPrefix(contentType, "image/") {
		return badRequest(c, "VALIDATION", "avatar must be an image")
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "INVALID_BODY", "could not read avatar")
	}
	defer f.Close()
	out, err := h.uc.UploadAvatar(c.UserContext(), GetUserID(c), fh.Filename, contentType, f, fh.Size)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// refreshToken prioriza la cookie; el cuerpo es la alternativa para clientes sin cookies.
func (h *AuthHandler) refreshToken(c *fiber.Ctx) string {
	if v := c.Cookies(refreshCookieName); v != "" {
		return v
	}
	var in dto.RefreshRequest
	if err := c.BodyParser(&in); err == nil {
		return strings.TrimSpace(in.RefreshToken)
	}
	return ""
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, out *dto.AuthResponse) {
	expires := out.RefreshExpiresAt
	if expires.IsZero() {
		expires = time.Now().Add(refreshCookieTTL)
	}
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    out.RefreshToken,
		Path:     "/",
		MaxAge:   int(refreshCookieTTL.Seconds()),
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

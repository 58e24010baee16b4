package domain

import "errors"

// Errores de dominio (sin dependencias externas). El mensaje es el que ve el cliente.
var (
	ErrNotFound           = errors.New("Resource not found")
	ErrInvalidInput       = errors.New("Invalid input")
	ErrDuplicate          = errors.New("Resource already exists")
	ErrUnauthorized       = errors.New("Unauthorized")
	ErrForbidden          = errors.New("Access denied")
	ErrConflict           = errors.New("Conflict with current state")
	ErrEmailAlreadyExists = errors.New("Email already registered")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrAccountDeactivated = errors.New("Account has been deactivated")
	ErrAccountNotVerified = errors.New("Account not verified")
	ErrAccountNotFound    = errors.New("Account not found")
	ErrAlreadyVerified    = errors.New("Account already verified")
	ErrInvalidOTP         = errors.New("Invalid or expired OTP")
	ErrWrongPassword      = errors.New("Current password is incorrect")
	ErrInvalidToken       = errors.New("Invalid or expired refresh token")

	ErrProductNotFound      = errors.New("Product not found")
	ErrProductUnavailable   = errors.New("Product is not available")
	ErrExceedsStock         = errors.New("Quantity would exceed available stock")
	ErrCartItemNotFound     = errors.New("Item not found in cart")
	ErrWishlistItemNotFound = errors.New("Item not found in wishlist")

	ErrOrderNotFound       = errors.New("Order not found")
	ErrOrderNotCancellable = errors.New("Order not found or cannot be cancelled")
	ErrInvalidStatus       = errors.New("Invalid status")

	ErrRFQNotFound = errors.New("RFQ not found")

	ErrSelfAction = errors.New("Cannot perform this action on your own account")

	ErrAvatarUploadDisabled = errors.New("Avatar upload is not available")
)

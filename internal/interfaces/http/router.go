package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jhoicas/storefront-api/internal/application/admin"
	appanalytics "github.com/jhoicas/storefront-api/internal/application/analytics"
	"github.com/jhoicas/storefront-api/internal/application/auth"
	"github.com/jhoicas/storefront-api/internal/application/cart"
	"github.com/jhoicas/storefront-api/internal/application/catalog"
	"github.com/jhoicas/storefront-api/internal/application/notification"
	"github.com/jhoicas/storefront-api/internal/application/order"
	"github.com/jhoicas/storefront-api/internal/application/rfq"
	"github.com/jhoicas/storefront-api/internal/application/wishlist"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// MetricsExporter lo implementa *metrics.Metrics.
type MetricsExporter interface {
	httpRecorder
	Handler() nethttp.Handler
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	ProductUC      *catalog.ProductUseCase
	CartUC         *cart.CartUseCase
	WishlistUC     *wishlist.WishlistUseCase
	OrderUC        *order.OrderUseCase
	RFQUC          *rfq.RFQUseCase
	AdminUC        *admin.AdminUseCase
	DashboardUC    *appanalytics.DashboardUseCase
	NotificationUC *notification.NotificationUseCase

	JWTSecret     string
	SecureCookies bool
	AuthLimiter   *RateLimiter    // nil = sin límite en /auth
	Metrics       MetricsExporter // nil = sin /metrics
	Log           *logger.Logger
	ServiceName   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	errs := errorResponder{log: deps.Log}

	app.Use(RequestObserver(deps.Metrics, deps.Log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	api := app.Group("/api")

	authn := AuthMiddleware(deps.JWTSecret)
	active := RequireActiveAccount(deps.AuthUC)
	shop := RequireCapability(entity.CapShop)

	// Auth
	authGroup := api.Group("/auth")
	if deps.AuthLimiter != nil {
		authGroup.Use(deps.AuthLimiter.Handler())
	}
	authHandler := NewAuthHandler(deps.AuthUC, deps.SecureCookies, errs)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/verify-register", authHandler.VerifyRegister)
	authGroup.Post("/resend-otp", authHandler.ResendOTP)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)
	authGroup.Get("/me", authn, active, authHandler.Me)
	authGroup.Put("/me", authn, active, authHandler.UpdateProfile)
	authGroup.Put("/profile", authn, active, authHandler.UpdateProfile)
	authGroup.Put("/change-password", authn, active, authHandler.ChangePassword)
	authGroup.Post("/avatar", authn, active, authHandler.UploadAvatar)

	// Products: lectura pública, escritura para quien gestiona catálogo
	productHandler := NewProductHandler(deps.ProductUC, errs)
	manageProducts := RequireCapability(entity.CapManageProducts)
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", authn, active, manageProducts, productHandler.Create)
	products.Put("/:id", authn, active, manageProducts, productHandler.Update)
	products.Delete("/:id", authn, active, manageProducts, productHandler.Delete)

	// Cart
	cartHandler := NewCartHandler(deps.CartUC, errs)
	cartGroup := api.Group("/cart", authn, active, shop)
	cartGroup.Get("/", cartHandler.Get)
	cartGroup.Delete("/", cartHandler.Clear)
	cartGroup.Post("/items", cartHandler.AddItem)
	cartGroup.Put("/items/:productId", cartHandler.UpdateItem)
	cartGroup.Delete("/items/:productId", cartHandler.RemoveItem)

	// Wishlist
	wishlistHandler := NewWishlistHandler(deps.WishlistUC, errs)
	wishlistGroup := api.Group("/wishlist", authn, active, shop)
	wishlistGroup.Get("/", wishlistHandler.Get)
	wishlistGroup.Post("/", wishlistHandler.Add)
	wishlistGroup.Delete("/", wishlistHandler.Clear)
	wishlistGroup.Delete("/:productId", wishlistHandler.Remove)
	wishlistGroup.Post("/:productId/move-to-cart", wishlistHandler.MoveToCart)

	// Orders
	orderHandler := NewOrderHandler(deps.OrderUC, errs)
	manageOrders := RequireCapability(entity.CapManageOrders)
	orders := api.Group("/orders", authn, active)
	orders.Post("/", shop, orderHandler.Create)
	orders.Get("/", manageOrders, orderHandler.ListAll)
	orders.Get("/my-orders", shop, orderHandler.ListMine)
	orders.Get("/:id", orderHandler.Get)
	orders.Get("/:id/receipt", orderHandler.Receipt)
	orders.Put("/:id/cancel", shop, orderHandler.Cancel)
	orders.Put("/:id/status", manageOrders, orderHandler.UpdateStatus)

	// RFQ
	rfqHandler := NewRFQHandler(deps.RFQUC, errs)
	manageRFQ := RequireCapability(entity.CapManageRFQ)
	rfqGroup := api.Group("/rfq", authn, active)
	rfqGroup.Post("/", shop, rfqHandler.Create)
	rfqGroup.Get("/", manageRFQ, rfqHandler.ListAll)
	rfqGroup.Get("/my", shop, rfqHandler.ListMine)
	rfqGroup.Get("/:id", rfqHandler.Get)
	rfqGroup.Put("/:id/status", manageRFQ, rfqHandler.UpdateStatus)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, errs)
	api.Get("/dashboard/stats", authn, active, RequireCapability(entity.CapViewDashboard), dashboardHandler.GetStats)

	// Notifications
	notificationHandler := NewNotificationHandler(deps.NotificationUC, errs)
	notifications := api.Group("/notifications", authn, active)
	notifications.Get("/", notificationHandler.List)
	notifications.Put("/read-all", notificationHandler.MarkAllRead)
	notifications.Put("/:id/read", notificationHandler.MarkRead)

	// Admin
	adminHandler := NewAdminHandler(deps.AdminUC, errs)
	adminGroup := api.Group("/admin", authn, active)

	accounts := adminGroup.Group("/accounts", RequireCapability(entity.CapManageAccounts))
	accounts.Get("/", adminHandler.ListAccounts)
	accounts.Post("/", adminHandler.CreateAccount)
	accounts.Get("/:id", adminHandler.GetAccount)
	accounts.Put("/:id", adminHandler.UpdateAccount)
	accounts.Delete("/:id", adminHandler.DeleteAccount)
	accounts.Put("/:id/ban", adminHandler.Ban)
	accounts.Put("/:id/unban", adminHandler.Unban)
	accounts.Put("/:id/role", adminHandler.ChangeRole)

	customers := adminGroup.Group("/customers", RequireCapability(entity.CapViewCustomers))
	customers.Get("/", adminHandler.ListCustomers)
	customers.Get("/:id", adminHandler.GetCustomer)

	adminProducts := adminGroup.Group("/products", manageProducts)
	adminProducts.Get("/", productHandler.ListAll)
	adminProducts.Get("/:id", productHandler.GetAny)
}

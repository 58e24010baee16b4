package main

import (
	"context"
	"errors"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/jhoicas/storefront-api/docs"
	"github.com/jhoicas/storefront-api/internal/application/admin"
	appanalytics "github.com/jhoicas/storefront-api/internal/application/analytics"
	"github.com/jhoicas/storefront-api/internal/application/auth"
	"github.com/jhoicas/storefront-api/internal/application/cart"
	"github.com/jhoicas/storefront-api/internal/application/catalog"
	"github.com/jhoicas/storefront-api/internal/application/notification"
	"github.com/jhoicas/storefront-api/internal/application/order"
	"github.com/jhoicas/storefront-api/internal/application/ports"
	"github.com/jhoicas/storefront-api/internal/application/rfq"
	"github.com/jhoicas/storefront-api/internal/application/tasks"
	"github.com/jhoicas/storefront-api/internal/application/wishlist"
	"github.com/jhoicas/storefront-api/internal/infrastructure/mail"
	natspub "github.com/jhoicas/storefront-api/internal/infrastructure/messaging/nats"
	"github.com/jhoicas/storefront-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/storefront-api/internal/infrastructure/pdf"
	"github.com/jhoicas/storefront-api/internal/infrastructure/postgres"
	"github.com/jhoicas/storefront-api/internal/infrastructure/realtime"
	infraredis "github.com/jhoicas/storefront-api/internal/infrastructure/redis"
	"github.com/jhoicas/storefront-api/internal/infrastructure/scheduler"
	"github.com/jhoicas/storefront-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/storefront-api/internal/interfaces/http"
	"github.com/jhoicas/storefront-api/pkg/config"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// sideEffectTimeout tope de cada efecto secundario best-effort (correo, eventos, notificaciones).
const sideEffectTimeout = 10 * time.Second

// @title                      Storefront API
// @version                    1.0
// @description                Tienda en línea y panel de administración.
// @BasePath                   /
// @securityDefinitions.apikey Bearer
// @in                         header
// @name                       Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	redisClient, err := infraredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer redisClient.Close()

	accountRepo := postgres.NewAccountRepository(pool)
	otpRepo := postgres.NewOTPRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)
	wishlistRepo := postgres.NewWishlistRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	rfqRepo := postgres.NewRFQRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	sessionStore := infraredis.NewSessionStore(redisClient)

	appMetrics := metrics.New()
	runner := tasks.NewRunner(log, sideEffectTimeout)
	runner.OnFailure(appMetrics.TaskFailed)

	// Correo: SMTP si hay host configurado; si no, solo log.
	var mailer ports.Mailer = mail.NewLogMailer(log)
	if cfg.SMTP.Host != "" {
		smtpMailer, err := mail.NewSMTPMailer(cfg.SMTP, log)
		if err != nil {
			log.Fatal().Err(err).Msg("configuración SMTP")
		}
		mailer = smtpMailer
	}

	// Avatares: MinIO/S3 opcional.
	var avatars ports.AvatarStorage
	if cfg.Storage.Endpoint != "" {
		minioStorage, err := storage.NewMinioStorage(ctx, cfg.Storage, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a MinIO")
		}
		avatars = minioStorage
	} else {
		log.Warn().Msg("MINIO_ENDPOINT vacío: subida de avatares deshabilitada")
	}

	// Eventos en vivo: hub WebSocket siempre, NATS si hay URL.
	hub := realtime.NewHub(cfg.JWT.Secret, log)
	notifier := realtime.Fanout{hub}
	if cfg.NATS.URL != "" {
		nc, err := natspub.NewConnection(cfg.NATS, cfg.App.Name)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a NATS")
		}
		defer nc.Drain()
		publisher, err := natspub.NewPublisher(nc, cfg.NATS.SubjectPrefix)
		if err != nil {
			log.Fatal().Err(err).Msg("publisher NATS")
		}
		notifier = append(notifier, publisher)
	}

	authUC := auth.NewAuthUseCase(auth.Deps{
		Accounts: accountRepo,
		OTPs:     otpRepo,
		Sessions: sessionStore,
		Mailer:   mailer,
		Storage:  avatars,
		Tasks:    runner,
		Log:      log,
	}, auth.Config{
		Secret:           cfg.JWT.Secret,
		Issuer:           cfg.JWT.Issuer,
		AccessExpMinutes: cfg.JWT.AccessExpMinutes,
		RefreshTTL:       time.Duration(cfg.JWT.RefreshExpDays) * 24 * time.Hour,
		OTPTTL:           time.Duration(cfg.OTP.ExpirationMinutes) * time.Minute,
		Production:       cfg.App.IsProduction(),
	})
	productUC := catalog.NewProductUseCase(productRepo)
	cartUC := cart.NewCartUseCase(cartRepo, productRepo)
	wishlistUC := wishlist.NewWishlistUseCase(wishlistRepo, productRepo, cartUC)
	orderUC := order.NewOrderUseCase(order.Deps{
		Orders:        orderRepo,
		Products:      productRepo,
		Accounts:      accountRepo,
		Notifications: notificationRepo,
		Cart:          cartUC,
		Notifier:      notifier,
		Receipts:      infrapdf.NewMarotoPDFGenerator(cfg.App.Name),
		Tasks:         runner,
		Log:           log,
	})
	rfqUC := rfq.NewRFQUseCase(rfqRepo, accountRepo, notifier, runner)
	adminUC := admin.NewAdminUseCase(accountRepo, analyticsRepo, sessionStore, log)
	// El hub toma el rol guardado en el handshake y corta conexiones al revocar sesiones.
	hub.UseAccounts(authUC)
	adminUC.OnAccessRevoked(hub.Disconnect)
	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo)
	notificationUC := notification.NewNotificationUseCase(notificationRepo)

	jobs := scheduler.New(otpRepo, appMetrics, log)
	if err := jobs.Start(cfg.OTP.CleanupSpec); err != nil {
		log.Fatal().Err(err).Msg("scheduler")
	}

	authLimiter := httpRouter.NewRateLimiter(cfg.RateLimit.AuthRPS, cfg.RateLimit.AuthBurst, log)
	stopCleanup := make(chan struct{})
	authLimiter.StartCleanup(10*time.Minute, stopCleanup)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    6 << 20,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Storefront API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		ProductUC:      productUC,
		CartUC:         cartUC,
		WishlistUC:     wishlistUC,
		OrderUC:        orderUC,
		RFQUC:          rfqUC,
		AdminUC:        adminUC,
		DashboardUC:    dashboardUC,
		NotificationUC: notificationUC,
		JWTSecret:      cfg.JWT.Secret,
		SecureCookies:  cfg.App.IsProduction(),
		AuthLimiter:    authLimiter,
		Metrics:        appMetrics,
		Log:            log,
		ServiceName:    cfg.App.Name,
	})

	// WebSocket en su propio listener net/http (el upgrader de gorilla lo requiere).
	mux := nethttp.NewServeMux()
	mux.Handle("/ws", hub)
	realtimeSrv := &nethttp.Server{
		Addr:              cfg.Realtime.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Realtime.Addr()).Msg("realtime escuchando")
		if err := realtimeSrv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Error().Err(err).Msg("servidor realtime finalizado")
		}
	}()

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := realtimeSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del realtime")
	}
	hub.Close()
	jobs.Stop()
	close(stopCleanup)
	// Los efectos secundarios en curso (correos, notificaciones) terminan antes de cerrar pool y Redis.
	runner.Wait()

	log.Info().Msg("aplicación detenida")
}

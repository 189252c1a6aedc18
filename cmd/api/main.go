package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-api/internal/application"
	"storefront-api/internal/application/webhook_handlers"
	"storefront-api/internal/config"
	apiinfra "storefront-api/internal/infrastructure/api"
	"storefront-api/internal/infrastructure/auth"
	"storefront-api/internal/infrastructure/cache"
	"storefront-api/internal/infrastructure/imaging"
	"storefront-api/internal/infrastructure/logging"
	"storefront-api/internal/infrastructure/mail"
	"storefront-api/internal/infrastructure/metrics"
	"storefront-api/internal/infrastructure/pubsub"
	"storefront-api/internal/infrastructure/razorpay"
	"storefront-api/internal/infrastructure/repository"
	"storefront-api/internal/infrastructure/storage"
	"storefront-api/internal/infrastructure/strapi"
	"storefront-api/internal/ports"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

var version = "dev"

func main() {
	cfg, envFound, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("Invalid configuration")
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if !envFound {
		logger.Warn().Msg("⚠️  .env file not found, using process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to MongoDB
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		cancel()
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		cancel()
		logger.Fatal().Err(err).Msg("Failed to ping MongoDB")
	}
	db := client.Database(cfg.MongoDB)
	if err := repository.EnsureIndexes(connectCtx, db); err != nil {
		cancel()
		logger.Fatal().Err(err).Msg("Failed to create indexes")
	}
	cancel()
	defer client.Disconnect(context.Background())
	logger.Info().Str("database", cfg.MongoDB).Msg("Connected to MongoDB")

	// Locks and webhook idempotency: Redis when configured, else in-process
	var (
		locker  ports.SyncLocker    = cache.NewMemoryLocker()
		deduper ports.EventDeduper = cache.NewMemoryDeduper()
	)
	if cfg.RedisAddr != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		locker = cache.NewRedisLocker(rdb)
		deduper = cache.NewRedisDeduper(rdb)
		logger.Info().Str("addr", cfg.RedisAddr).Msg("Connected to Redis")
	} else {
		logger.Warn().Msg("REDIS_ADDR not set, sync locks and webhook dedupe are per-process")
	}

	// Repositories
	productRepo := repository.NewMongoProductRepository(db)
	featuredRepo := repository.NewMongoFeaturedRepository(db)
	designRepo := repository.NewMongoDesignRepository(db)
	heroRepo := repository.NewMongoHeroRepository(db)
	settingsRepo := repository.NewMongoSettingsRepository(db)
	contactRepo := repository.NewMongoContactRepository(db)
	userRepo := repository.NewMongoUserRepository(db)
	orderRepo := repository.NewMongoOrderRepository(db)

	// Adapters
	collector := metrics.New()
	orderFeed := pubsub.NewOrderPubSub(logger)
	tokens := auth.NewJWTIssuer(cfg.JWTSecret, cfg.JWTExpires)
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)

	var catalog ports.CatalogSource
	if cfg.StrapiURL != "" {
		catalog = strapi.NewClient(strapi.Options{
			BaseURL:  cfg.StrapiURL,
			APIToken: cfg.StrapiAPIToken,
			Timeout:  cfg.StrapiTimeout,
		}, logger)
	} else {
		logger.Warn().Msg("STRAPI_URL not set, catalog sync disabled")
	}

	var gateway ports.PaymentGateway
	if cfg.RazorpayEnabled() {
		gateway, err = razorpay.NewGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to configure Razorpay")
		}
	} else {
		logger.Warn().Msg("Razorpay credentials not set, online payments disabled")
	}
	verifier := razorpay.NewVerifier(cfg.RazorpayKeySecret, cfg.RazorpayWebhookSecret)

	mailer := mail.SelectSender(mail.Settings{
		From:         cfg.EmailFrom,
		ResendAPIKey: cfg.ResendAPIKey,
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     cfg.SMTPPort,
		SMTPUser:     cfg.SMTPUser,
		SMTPPass:     cfg.SMTPPass,
	}, logger)

	var (
		fileStore  ports.FileStorage
		compositor ports.ImageCompositor
		uploadDir  string
	)
	// composites only read images we serve or the catalog links to
	imageHosts := append([]string{imaging.HostOf(cfg.PublicBaseURL), imaging.HostOf(cfg.StrapiURL)}, cfg.ImageSourceHosts...)
	switch cfg.StorageBackend {
	case "cloudinary":
		cs, err := storage.NewCloudinaryStorage(cfg.CloudinaryURL, "storefront")
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to configure Cloudinary")
		}
		fileStore = cs
		compositor = imaging.NewCompositor(cs, nil, nil, append(imageHosts, "res.cloudinary.com"), logger)
	default:
		ls, err := storage.NewLocalStorage(cfg.UploadDir, cfg.PublicBaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to prepare upload directory")
		}
		fileStore = ls
		uploadDir = ls.Root()
		compositor = imaging.NewCompositor(ls, ls, []string{storage.PublicPrefix}, imageHosts, logger)
	}

	// Services
	notifier := application.NewNotificationService(mailer, cfg.AdminEmail, cfg.FrontendURL, collector, logger)
	settingsService := application.NewSettingsService(settingsRepo, logger)
	orderService := application.NewOrderService(orderRepo, settingsService, notifier, orderFeed, logger)

	dispatcher := application.NewWebhookDispatcher(logger)
	dispatcher.RegisterHandler(webhook_handlers.NewPaymentCapturedHandler(orderService, logger))
	dispatcher.RegisterHandler(webhook_handlers.NewPaymentFailedHandler(orderService, logger))
	dispatcher.RegisterHandler(webhook_handlers.NewRefundHandler(orderService, logger))

	paymentService := application.NewPaymentService(gateway, verifier, orderService, compositor,
		deduper, dispatcher, cfg.Currency, collector, logger)

	router := apiinfra.NewRouter(apiinfra.Deps{
		Products:      application.NewProductService(productRepo, logger),
		Featured:      application.NewFeaturedService(featuredRepo, logger),
		CatalogSync:   application.NewCatalogSyncService(catalog, productRepo, featuredRepo, locker, collector, cfg.StrapiWebhookSecret, logger),
		Designs:       application.NewDesignService(designRepo, logger),
		Heroes:        application.NewHeroService(heroRepo, logger),
		Settings:      settingsService,
		Contacts:      application.NewContactService(contactRepo, notifier, logger),
		Auth:          application.NewAuthService(userRepo, hasher, tokens, logger),
		Profiles:      application.NewProfileService(userRepo, logger),
		Orders:        orderService,
		Payments:      paymentService,
		Uploads:       application.NewUploadService(fileStore, logger),
		Notifications: notifier,
		Tokens:        tokens,
		OrderFeed:     orderFeed,
		Metrics:       collector,
		UploadDir:     uploadDir,
		CORSOrigins:   cfg.CORSOrigins,
		Version:       version,
		Logger:        logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// the admin order stream keeps responses open
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("version", version).Msg("Starting API server")
		logger.Info().Msg("Swagger documentation available at http://localhost:" + cfg.Port + "/swagger/index.html")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

package api

import (
	"net/http"
	"time"

	"storefront-api/internal/application"
	"storefront-api/internal/infrastructure/metrics"
	appmw "storefront-api/internal/infrastructure/middleware"
	"storefront-api/internal/infrastructure/pubsub"
	"storefront-api/internal/infrastructure/storage"
	"storefront-api/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Deps carries everything the HTTP layer needs. Optional fields may be nil.
type Deps struct {
	Products      *application.ProductService
	Featured      *application.FeaturedService
	CatalogSync   *application.CatalogSyncService
	Designs       *application.DesignService
	Heroes        *application.HeroService
	Settings      *application.SettingsService
	Contacts      *application.ContactService
	Auth          *application.AuthService
	Profiles      *application.ProfileService
	Orders        *application.OrderService
	Payments      *application.PaymentService
	Uploads       *application.UploadService
	Notifications *application.NotificationService

	Tokens    ports.TokenIssuer
	OrderFeed *pubsub.OrderPubSub
	Metrics   *metrics.Collector

	// UploadDir is served under /uploads/ when the local storage backend is in use.
	UploadDir   string
	SwaggerFile string
	CORSOrigins []string
	Version     string
	Logger      zerolog.Logger
}

// NewRouter wires all routes.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(appmw.SecurityHeaders)
	r.Use(appmw.AccessLog(d.Logger))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler(d))
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler())
	}

	swaggerFile := d.SwaggerFile
	if swaggerFile == "" {
		swaggerFile = "./docs/swagger.json"
	}
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, swaggerFile)
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	if d.UploadDir != "" {
		fs := http.StripPrefix(storage.PublicPrefix, http.FileServer(http.Dir(d.UploadDir)))
		r.Handle(storage.PublicPrefix+"*", fs)
	}

	requireAuth := appmw.RequireAuth(d.Tokens)
	optionalAuth := appmw.OptionalAuth(d.Tokens)
	admin := chi.Chain(requireAuth, appmw.RequireAdmin)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", registerHandler(d))
			r.Post("/login", loginHandler(d))
			r.With(requireAuth).Get("/me", meHandler(d))
		})

		r.Route("/profile", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", getProfileHandler(d))
			r.Put("/", updateProfileHandler(d))
			r.Post("/addresses", addAddressHandler(d))
			r.Put("/addresses/{id}", updateAddressHandler(d))
			r.Delete("/addresses/{id}", deleteAddressHandler(d))
			r.Patch("/addresses/{id}/default", defaultAddressHandler(d))
		})

		r.Route("/products", func(r chi.Router) {
			r.With(optionalAuth).Get("/", listProductsHandler(d))
			r.With(admin...).Post("/sync", syncProductsHandler(d))
			r.With(optionalAuth).Get("/{idOrSlug}", getProductHandler(d))
			r.With(admin...).Post("/", createProductHandler(d))
			r.With(admin...).Put("/{id}", updateProductHandler(d))
			r.With(admin...).Delete("/{id}", deleteProductHandler(d))
		})

		r.Route("/featured", func(r chi.Router) {
			r.With(optionalAuth).Get("/", listFeaturedHandler(d))
			r.Post("/webhook/strapi", strapiWebhookHandler(d))
			r.With(admin...).Post("/sync", syncFeaturedHandler(d))
			r.With(admin...).Post("/", createFeaturedHandler(d))
			r.With(admin...).Put("/{id}", updateFeaturedHandler(d))
			r.With(admin...).Delete("/{id}", deleteFeaturedHandler(d))
		})

		r.Route("/designs", func(r chi.Router) {
			r.With(optionalAuth).Get("/", listDesignsHandler(d))
			r.Get("/{id}", getDesignHandler(d))
			r.With(admin...).Post("/", createDesignHandler(d))
			r.With(admin...).Put("/{id}", updateDesignHandler(d))
			r.With(admin...).Delete("/{id}", deleteDesignHandler(d))
		})

		r.Route("/hero", func(r chi.Router) {
			r.Get("/", listHeroesHandler(d))
			r.Get("/active", activeHeroHandler(d))
			r.With(admin...).Post("/", createHeroHandler(d))
			r.With(admin...).Put("/{id}", updateHeroHandler(d))
			r.With(admin...).Delete("/{id}", deleteHeroHandler(d))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", getSettingsHandler(d))
			r.With(admin...).Put("/", updateSettingsHandler(d))
		})

		r.Route("/contact", func(r chi.Router) {
			r.Post("/", submitContactHandler(d))
			r.With(admin...).Get("/", listContactsHandler(d))
			r.With(admin...).Patch("/{id}/status", contactStatusHandler(d))
			r.With(admin...).Delete("/{id}", deleteContactHandler(d))
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(optionalAuth).Post("/", createOrderHandler(d))
			r.Get("/number/{orderNumber}", orderByNumberHandler(d))
			r.With(requireAuth).Get("/my", myOrdersHandler(d))
			r.With(admin...).Get("/", listOrdersHandler(d))
			r.With(admin...).Get("/stream", orderStreamHandler(d))
			r.With(requireAuth).Get("/{id}", getOrderHandler(d))
			r.With(admin...).Patch("/{id}/status", orderStatusHandler(d))
			r.With(admin...).Post("/{id}/notifications/retry", retryNotificationsHandler(d))
		})

		r.Route("/payment", func(r chi.Router) {
			r.Post("/create-order", createGatewayOrderHandler(d))
			r.With(optionalAuth).Post("/verify", verifyPaymentHandler(d))
			r.Post("/webhook", paymentWebhookHandler(d))
		})

		r.Route("/upload", func(r chi.Router) {
			r.Post("/customization", uploadCustomizationHandler(d))
			r.With(admin...).Post("/single", uploadSingleHandler(d))
			r.With(admin...).Post("/multiple", uploadMultipleHandler(d))
			r.With(admin...).Delete("/*", deleteUploadHandler(d))
		})
	})

	return r
}

func healthHandler(d Deps) http.HandlerFunc {
	started := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]interface{}{
			"status":  "ok",
			"version": d.Version,
			"uptime":  time.Since(started).Round(time.Second).String(),
		}
		if d.Notifications != nil {
			body["email"] = d.Notifications.Provider()
		}
		if d.OrderFeed != nil {
			body["orderStream"] = d.OrderFeed.Stats()
		}
		writeJSON(w, http.StatusOK, body)
	}
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/brandcorner-backend/api/controllers"
	"github.com/angelmondragon/brandcorner-backend/api/middleware"
	"github.com/angelmondragon/brandcorner-backend/internal/cart"
	"github.com/angelmondragon/brandcorner-backend/internal/checkout"
	"github.com/angelmondragon/brandcorner-backend/internal/orders"
	"github.com/angelmondragon/brandcorner-backend/internal/products"
	"github.com/angelmondragon/brandcorner-backend/pkg/config"
	"github.com/angelmondragon/brandcorner-backend/pkg/db"
	"github.com/angelmondragon/brandcorner-backend/pkg/logger"
	"github.com/angelmondragon/brandcorner-backend/pkg/redis"
)

// Dependencies are the services and clients the API surface is built from.
// Redis is optional; without it rate limiting and idempotency are skipped.
type Dependencies struct {
	DB       db.Pinger
	Redis    *redis.Client
	Gatherer prometheus.Gatherer
	// Shutdown is closed when the server starts draining; open event streams end.
	Shutdown <-chan struct{}

	Products products.Service
	Cart     cart.Service
	Checkout checkout.Service
	Orders   orders.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	var (
		idempotency   = passthrough
		sessionLimit  = passthrough
		checkoutLimit = passthrough
	)
	readiness := map[string]controllers.Pinger{}
	if deps.DB != nil {
		readiness["db"] = deps.DB
	}
	if deps.Redis != nil {
		readiness["redis"] = deps.Redis
		idempotency = middleware.Idempotency(deps.Redis, logg)
		sessionLimit = middleware.RateLimit(
			middleware.NewRateLimitPolicy("session", cfg.RateLimit.Window, cfg.RateLimit.SessionLimit),
			deps.Redis,
			logg,
		)
		checkoutLimit = middleware.RateLimit(
			middleware.NewRateLimitPolicy("checkout", cfg.RateLimit.Window, cfg.RateLimit.CheckoutLimit),
			deps.Redis,
			logg,
		)
	}

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	catalogPath := cfg.App.CatalogPath

	r.Route("/api/v1", func(r chi.Router) {
		r.With(sessionLimit).Post("/session", controllers.SessionCreate(cfg.Session, logg))

		r.Get("/products", controllers.ProductList(deps.Products, logg))
		r.Get("/products/{productId}", controllers.ProductDetail(deps.Products, logg))

		r.Get("/orders", controllers.OrdersByPhone(deps.Orders, logg))
		r.Get("/orders/{orderId}", controllers.OrderDetail(deps.Orders, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(cfg.Session, logg))

			r.Get("/cart", controllers.CartGet(deps.Cart, catalogPath, logg))
			r.Delete("/cart", controllers.CartClear(deps.Cart, catalogPath, logg))
			r.Get("/cart/events", controllers.CartEvents(deps.Cart, deps.Shutdown, logg))
			r.Post("/cart/items", controllers.CartAddItem(deps.Cart, catalogPath, logg))
			r.Patch("/cart/items/{productId}", controllers.CartUpdateItem(deps.Cart, catalogPath, logg))
			r.Delete("/cart/items/{productId}", controllers.CartRemoveItem(deps.Cart, catalogPath, logg))

			r.Get("/checkout", controllers.CheckoutPreview(deps.Checkout, logg))
			r.With(checkoutLimit, idempotency).Post("/checkout", controllers.CheckoutSubmit(deps.Checkout, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.AdminKey(cfg.Admin, logg))
		r.With(idempotency).Put("/products/{productId}", controllers.AdminUpsertProduct(deps.Products, logg))
		r.With(idempotency).Patch("/orders/{orderId}", controllers.AdminPatchOrder(deps.Orders, logg))
	})

	return r
}

func passthrough(next http.Handler) http.Handler {
	return next
}

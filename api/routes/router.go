package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/floracare/storefront/api/controllers"
	"github.com/floracare/storefront/api/middleware"
	cartsvc "github.com/floracare/storefront/internal/cart"
	"github.com/floracare/storefront/internal/catalog"
	checkoutsvc "github.com/floracare/storefront/internal/checkout"
	"github.com/floracare/storefront/internal/orders"
	"github.com/floracare/storefront/pkg/config"
	"github.com/floracare/storefront/pkg/logger"
	"github.com/floracare/storefront/pkg/metrics"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Readiness   map[string]controllers.Pinger
	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry
	Catalog     catalog.Service
	CartStore   *cartsvc.Store
	Checkout    *checkoutsvc.Orchestrator
	Orders      orders.Repository
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.Metrics(deps.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.Readiness))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Profile(deps.Logger))

		r.Get("/products", controllers.Products(deps.Catalog, deps.Logger))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.CartStore, deps.Logger))
			r.Delete("/", controllers.CartClear(deps.CartStore, deps.Logger))
			r.Get("/summary", controllers.CartSummary(deps.CartStore, deps.Logger))
			r.Get("/events", controllers.CartEvents(deps.CartStore, deps.Logger))
			r.Post("/items", controllers.CartAddItem(deps.CartStore, deps.Catalog, deps.Logger))
			r.Patch("/items/{productID}", controllers.CartUpdateItem(deps.CartStore, deps.Logger))
			r.Delete("/items/{productID}", controllers.CartRemoveItem(deps.CartStore, deps.Logger))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/state", controllers.CheckoutState(deps.Checkout, deps.Logger))
			r.Post("/review", controllers.CheckoutReview(deps.Checkout, deps.Logger))
			r.Post("/leave", controllers.CheckoutLeave(deps.Checkout, deps.Logger))
			r.Post("/submit", controllers.CheckoutSubmit(deps.Checkout, deps.Logger))
		})

		r.Get("/orders", controllers.OrdersList(deps.Orders, deps.Logger))
	})

	return r
}

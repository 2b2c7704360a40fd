package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/stockkeeper/api/controllers"
	"github.com/angelmondragon/stockkeeper/api/middleware"
	"github.com/angelmondragon/stockkeeper/api/responses"
	"github.com/angelmondragon/stockkeeper/api/web"
	"github.com/angelmondragon/stockkeeper/internal/export"
	"github.com/angelmondragon/stockkeeper/internal/products"
	"github.com/angelmondragon/stockkeeper/internal/purchaseorders"
	"github.com/angelmondragon/stockkeeper/internal/vendors"
	"github.com/angelmondragon/stockkeeper/pkg/config"
	"github.com/angelmondragon/stockkeeper/pkg/db"
	"github.com/angelmondragon/stockkeeper/pkg/logger"
	"github.com/angelmondragon/stockkeeper/pkg/metrics"
	"github.com/angelmondragon/stockkeeper/pkg/redis"
)

// Services bundles the domain services exposed over HTTP.
type Services struct {
	Products products.Service
	Vendors  vendors.Service
	Orders   purchaseorders.Service
	Exporter *export.Exporter
}

// Observability carries the optional metrics registry; a nil Registry
// disables /metrics and request instrumentation.
type Observability struct {
	Registry *prometheus.Registry
	HTTP     *metrics.HTTPMetrics
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	obs Observability,
	views *web.Views,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	// a nil *redis.Client must not become a non-nil interface
	var (
		redisPinger controllers.Pinger
		idemStore   redis.IdempotencyStore
	)
	if redisClient != nil {
		redisPinger = redisClient
		idemStore = redisClient
	}

	r.Use(
		middleware.Recoverer(logg, renderByArea(views, logg)),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)
	if obs.HTTP != nil {
		r.Use(middleware.Metrics(obs.HTTP))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})

	if obs.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CORS(cfg.HTTP.CORSOrigins))
		idem := middleware.Idempotency(idemStore, logg)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(svcs.Products, logg))
			r.With(idem).Post("/", controllers.CreateProduct(svcs.Products, logg))
			r.Get("/export", controllers.ExportProducts(svcs.Exporter, logg))
			r.Put("/{productId}/quantity", controllers.UpdateProductQuantity(svcs.Products, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(svcs.Products, logg))
		})

		r.Route("/vendors", func(r chi.Router) {
			r.Get("/", controllers.ListVendors(svcs.Vendors, logg))
			r.With(idem).Post("/", controllers.CreateVendor(svcs.Vendors, logg))
			r.Delete("/{vendorId}", controllers.DeleteVendor(svcs.Vendors, logg))
		})

		r.Route("/purchase-orders", func(r chi.Router) {
			r.Get("/", controllers.ListPurchaseOrders(svcs.Orders, logg))
			r.With(idem).Post("/", controllers.CreatePurchaseOrder(svcs.Orders, logg))
			r.Post("/{orderId}/receive", controllers.ReceivePurchaseOrder(svcs.Orders, logg))
		})
	})

	web.Register(r, web.Deps{
		Views:    views,
		Products: svcs.Products,
		Vendors:  svcs.Vendors,
		Orders:   svcs.Orders,
		Exporter: svcs.Exporter,
	})

	return r
}

func renderByArea(views *web.Views, logg *logger.Logger) middleware.ErrorRenderer {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		if views == nil || isMachinePath(r.URL.Path) {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		views.RenderError(w, r, err)
	}
}

func isMachinePath(path string) bool {
	return strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/health/") || path == "/metrics"
}

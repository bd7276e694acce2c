package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopdeskhq/shopdesk-backend/api/controllers"
	"github.com/shopdeskhq/shopdesk-backend/api/middleware"
	authsvc "github.com/shopdeskhq/shopdesk-backend/internal/auth"
	checkoutsvc "github.com/shopdeskhq/shopdesk-backend/internal/checkout"
	"github.com/shopdeskhq/shopdesk-backend/internal/customers"
	"github.com/shopdeskhq/shopdesk-backend/internal/devices"
	"github.com/shopdeskhq/shopdesk-backend/internal/inventory"
	"github.com/shopdeskhq/shopdesk-backend/internal/repairs"
	"github.com/shopdeskhq/shopdesk-backend/internal/sales"
	"github.com/shopdeskhq/shopdesk-backend/pkg/config"
	"github.com/shopdeskhq/shopdesk-backend/pkg/db"
	"github.com/shopdeskhq/shopdesk-backend/pkg/enums"
	"github.com/shopdeskhq/shopdesk-backend/pkg/logger"
	"github.com/shopdeskhq/shopdesk-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Auth      authsvc.Service
	Checkout  checkoutsvc.Service
	Customers customers.Service
	Devices   devices.Service
	Inventory inventory.Service
	Repairs   repairs.Service
	Sales     sales.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var cachePinger db.Pinger
	if redisClient != nil {
		cachePinger = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, cachePinger))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	var idemStore redis.IdempotencyStore
	var revocations middleware.RevocationChecker
	if redisClient != nil {
		idemStore = redisClient
		revocations = redisClient
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.Login(svcs.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, revocations, logg)).
			Post("/logout", controllers.Logout(svcs.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, revocations, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/pos", func(r chi.Router) {
			r.Use(middleware.RequireSeller(logg))
			r.Post("/checkout", controllers.Checkout(svcs.Checkout, logg))
			r.Get("/search", controllers.POSSearch(svcs.Devices, svcs.Inventory, svcs.Repairs, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", controllers.CreateCustomer(svcs.Customers, logg))
			r.Get("/", controllers.ListCustomers(svcs.Customers, logg))
			r.Get("/{id}", controllers.GetCustomer(svcs.Customers, logg))
		})

		r.Route("/devices", func(r chi.Router) {
			r.Post("/", controllers.CreateDevice(svcs.Devices, logg))
			r.Get("/", controllers.ListDevices(svcs.Devices, logg))
			r.Get("/{id}", controllers.GetDevice(svcs.Devices, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Post("/", controllers.CreateInventoryItem(svcs.Inventory, logg))
			r.Get("/", controllers.ListInventoryItems(svcs.Inventory, logg))
			r.Get("/low-stock", controllers.ListLowStockItems(svcs.Inventory, logg))
			r.Get("/{id}", controllers.GetInventoryItem(svcs.Inventory, logg))
			r.Put("/{id}", controllers.UpdateInventoryItem(svcs.Inventory, logg))
			r.With(middleware.RequireRole(logg, enums.UserRoleAdmin, enums.UserRoleManager)).
				Delete("/{id}", controllers.DeleteInventoryItem(svcs.Inventory, logg))
			r.Post("/{id}/movements", controllers.RecordStockMovement(svcs.Inventory, logg))
			r.Get("/{id}/movements", controllers.ListStockMovements(svcs.Inventory, logg))
		})

		r.Route("/repairs", func(r chi.Router) {
			r.Post("/", controllers.CreateRepair(svcs.Repairs, logg))
			r.Get("/", controllers.ListRepairs(svcs.Repairs, logg))
			r.Get("/{id}", controllers.GetRepair(svcs.Repairs, logg))
			r.Post("/{id}/status", controllers.UpdateRepairStatus(svcs.Repairs, logg))
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.ListSales(svcs.Sales, logg))
			r.Get("/summary/daily", controllers.DailySalesSummary(svcs.Sales, logg))
			r.Get("/{id}", controllers.GetSale(svcs.Sales, logg))
		})
	})

	return r
}

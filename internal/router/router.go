package router

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pizzaria-pos/api/internal/config"
	"github.com/pizzaria-pos/api/internal/database"
	"github.com/pizzaria-pos/api/internal/enum"
	"github.com/pizzaria-pos/api/internal/handler"
	mw "github.com/pizzaria-pos/api/internal/middleware"
	"github.com/pizzaria-pos/api/internal/notify"
	"github.com/pizzaria-pos/api/internal/service"
	"github.com/pizzaria-pos/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Catalog reads, cart quotes and the iFood webhook are public; everything
// else requires a token and, for admin routes, an admin or manager role.
func New(cfg *config.Config, loc *time.Location, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub, notifier notify.Notifier, sink service.Sink) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Webhook-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Services
	orderService := service.NewOrderService(pool, func(db database.DBTX) service.OrderStore {
		return database.New(db)
	}, hub, notifier, loc)
	cashService := service.NewCashRegisterService(pool, func(db database.DBTX) service.CashStore {
		return database.New(db)
	}, loc)
	receiptService := service.NewReceiptService(pool, func(db database.DBTX) service.ReceiptStore {
		return database.New(db)
	}, sink, loc)
	categoryService := service.NewCategoryService(pool, func(db database.DBTX) service.CategoryStore {
		return database.New(db)
	})

	// Handlers
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	categoryHandler := handler.NewCategoryHandler(queries, categoryService)
	comboHandler := handler.NewComboHandler(queries)
	flavorHandler := handler.NewFlavorHandler(queries)
	extraHandler := handler.NewExtraHandler(queries)
	deliveryAreaHandler := handler.NewDeliveryAreaHandler(queries)
	orderHandler := handler.NewOrderHandler(orderService, queries, receiptService, loc)
	cashHandler := handler.NewCashHandler(cashService, loc)
	ifoodHandler := handler.NewIfoodHandler(orderService)
	settingsHandler := handler.NewSettingsHandler(queries)
	userHandler := handler.NewUserHandler(queries)

	// Public routes
	authHandler.RegisterRoutes(r)
	r.Route("/catalog", func(r chi.Router) {
		r.Route("/categories", categoryHandler.RegisterPublicRoutes)
		r.Route("/combos", comboHandler.RegisterPublicRoutes)
		r.Route("/flavors", flavorHandler.RegisterPublicRoutes)
		r.Route("/extras", extraHandler.RegisterPublicRoutes)
	})
	r.Route("/delivery-areas", deliveryAreaHandler.RegisterPublicRoutes)
	r.Route("/cart", orderHandler.RegisterCartRoutes)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// iFood webhook (shared secret header)
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireSharedToken(cfg.IfoodWebhookToken))
		r.Route("/integrations/ifood", ifoodHandler.RegisterRoutes)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		// Orders: customers and staff, per-operation checks in the service
		r.Route("/orders", orderHandler.RegisterRoutes)

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.UserRoleAdmin, enum.UserRoleManager, enum.UserRoleCashier))
			r.Route("/cash", cashHandler.RegisterRoutes)
		})

		// Catalog and store management
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.UserRoleAdmin, enum.UserRoleManager))
			r.Route("/admin/categories", categoryHandler.RegisterRoutes)
			r.Route("/admin/combos", comboHandler.RegisterRoutes)
			r.Route("/admin/flavors", flavorHandler.RegisterRoutes)
			r.Route("/admin/extras", extraHandler.RegisterRoutes)
			r.Route("/admin/delivery-areas", deliveryAreaHandler.RegisterRoutes)
			r.Route("/admin/settings", settingsHandler.RegisterRoutes)
		})

		// Staff accounts
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.UserRoleAdmin))
			r.Route("/admin/users", userHandler.RegisterRoutes)
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}

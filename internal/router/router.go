package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vamshi335235/priya-Traders-project/internal/cache"
	"github.com/vamshi335235/priya-Traders-project/internal/config"
	"github.com/vamshi335235/priya-Traders-project/internal/database"
	"github.com/vamshi335235/priya-Traders-project/internal/deeplink"
	"github.com/vamshi335235/priya-Traders-project/internal/handler"
	"github.com/vamshi335235/priya-Traders-project/internal/pricing"
	"github.com/vamshi335235/priya-Traders-project/internal/service"
	"github.com/vamshi335235/priya-Traders-project/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// catalog may be nil, which disables the product listing cache.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub, catalog cache.Cache) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Cache"},
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`)) //nolint:errcheck
	})

	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, ws.TopicOrders, w, r)
	})

	biz := handler.Business{
		Links: deeplink.Builder{
			BusinessName:  cfg.BusinessName,
			BusinessPhone: cfg.BusinessWhatsApp,
			PayeeVPA:      cfg.UPIPayeeVPA,
			PayeeName:     cfg.UPIPayeeName,
		},
		Email:    cfg.BusinessEmail,
		Location: cfg.Location(),
	}

	orderSvc := service.NewOrderService(pool, func(db database.DBTX) service.OrderStore {
		return database.New(db)
	}, pricing.Policy{
		DeliveryFee:           cfg.DeliveryFee,
		FreeDeliveryThreshold: cfg.FreeDeliveryThreshold,
	})

	r.Route("/api", func(r chi.Router) {
		productHandler := handler.NewProductHandler(queries, catalog, cfg.CatalogCacheTTL)
		r.Route("/products", productHandler.RegisterRoutes)

		orderHandler := handler.NewOrderHandler(orderSvc, queries, biz, hub)
		r.Route("/orders", orderHandler.RegisterRoutes)

		reportsHandler := handler.NewReportsHandler(queries, biz)
		r.Route("/reports", reportsHandler.RegisterRoutes)
	})

	return r
}

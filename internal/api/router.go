package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/leyenda/storefront/internal/api/handlers"
	"github.com/leyenda/storefront/internal/api/middleware"
	"github.com/leyenda/storefront/internal/repository"
	"github.com/leyenda/storefront/internal/service"
	"github.com/leyenda/storefront/internal/session"
	"github.com/leyenda/storefront/pkg/config"
)

// NewRouter builds the HTTP router for the storefront.
func NewRouter(db *sql.DB, sessions *session.Store, cfg config.Config, log *slog.Logger) http.Handler {
	variantRepo := repository.NewVariantRepo(db)
	couponRepo := repository.NewCouponRepo(db)
	productRepo := repository.NewProductRepo(db)
	userRepo := repository.NewUserRepo(db)

	totals := service.TotalsConfig{
		FreeShippingThreshold: decimal.NewFromFloat(cfg.FreeShippingThreshold),
		FlatShippingFee:       decimal.NewFromFloat(cfg.FlatShippingFee),
	}

	facade := service.NewCartFacade(
		service.NewCartStore(variantRepo),
		service.NewPricingEngine(variantRepo),
		service.NewCouponService(couponRepo),
		totals,
	)
	accounts := service.NewAccountService(userRepo, service.LogMailer{Log: log})

	cartHandler := handlers.NewCartHandler(facade, log)
	catalogHandler := handlers.NewCatalogHandler(productRepo, log)
	accountHandler := handlers.NewAccountHandler(accounts, sessions, log)

	r := chi.NewRouter()
	r.Use(middleware.Logger(log))
	r.Use(middleware.Sessions(sessions))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/csrf", cartHandler.CSRFToken)

		r.Route("/cart", func(r chi.Router) {
			r.Post("/", cartHandler.Perform)
			r.Get("/", cartHandler.Snapshot)
			r.Get("/count", cartHandler.Count)
			r.Post("/coupon", cartHandler.ApplyCoupon)
			r.Delete("/coupon", cartHandler.RemoveCoupon)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogHandler.List)
			r.Get("/{id}", catalogHandler.Get)
		})

		r.Route("/account", func(r chi.Router) {
			r.Post("/register", accountHandler.Register)
			r.Post("/login", accountHandler.Login)
			r.Post("/logout", accountHandler.Logout)
			r.Get("/verify", accountHandler.Verify)
		})
	})

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}

func writeJSONError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write([]byte(`{"success":false,"error":"` + msg + `"}`))
}

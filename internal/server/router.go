package server

import (
	"net/http"
	"time"

	"printshop-backend/internal/config"
	"printshop-backend/internal/domain"
	"printshop-backend/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"log/slog"
)

// NewRouter wires HTTP routes and middleware.
func NewRouter(cfg config.Config,
	logger *slog.Logger,
	health handler.HealthHandler,
	auth handler.AuthHandler,
	orders handler.OrderHandler,
	installments handler.InstallmentHandler,
	commissions handler.CommissionHandler,
	finance handler.FinanceHandler,
	fixedExpenses handler.FixedExpenseHandler,
	products handler.ProductHandler,
	customers handler.CustomerHandler,
	sellers handler.SellerHandler,
	settings handler.SettingsHandler,
	dashboard handler.DashboardHandler,
	notifications handler.NotificationHandler,
	fcm handler.FCMHandler,
	docs handler.DocsHandler,
	home handler.HomeHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(200, 1*time.Minute))

	health.RegisterRoutes(r)
	auth.RegisterRoutes(r)
	home.RegisterRoutes(r)
	docs.RegisterRoutes(r)
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Group(func(pr chi.Router) {
		pr.Use(AuthMiddleware(cfg.JWTSecret))
		auth.RegisterProtectedRoutes(pr)
		// staff-level (staff/manager/admin)
		pr.Group(func(sr chi.Router) {
			sr.Use(RequireRole(domain.RoleAdmin, domain.RoleManager, domain.RoleStaff))
			orders.RegisterRoutes(sr)
			products.RegisterRoutes(sr)
			customers.RegisterRoutes(sr)
			notifications.RegisterRoutes(sr)
			fcm.RegisterRoutes(sr)
		})
		// manager-level (manager/admin)
		pr.Group(func(mr chi.Router) {
			mr.Use(RequireRole(domain.RoleAdmin, domain.RoleManager))
			installments.RegisterRoutes(mr)
			commissions.RegisterRoutes(mr)
			finance.RegisterRoutes(mr)
			fixedExpenses.RegisterRoutes(mr)
			sellers.RegisterRoutes(mr)
			settings.RegisterRoutes(mr)
			dashboard.RegisterRoutes(mr)
		})
	})

	return r
}

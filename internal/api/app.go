// Package api is the backend REST surface: credential endpoints, user and
// product administration, and order CRUD, all gated by bearer tokens.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"MiniShop/internal/auth"
	"MiniShop/internal/order"
	"MiniShop/internal/product"
	"MiniShop/internal/user"
	"MiniShop/pkg/kit"
)

const maxBodyBytes = 1 << 20

type Server struct {
	Log      *zap.Logger
	Users    *user.Store
	Products *product.Store
	Orders   *order.Store
	JWT      *auth.TokenMaker
}

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

const (
	loginLimitPerMin    = 5
	registerLimitPerMin = 3
	limitWindow         = 60 * time.Second
)

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, deps)
	setupRoutes(r, s)

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func setupRoutes(r *chi.Mux, s *Server) {
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	loginLimiter := kit.NewIPRateLimiter(loginLimitPerMin, limitWindow)
	registerLimiter := kit.NewIPRateLimiter(registerLimitPerMin, limitWindow)

	r.With(registerLimiter.Middleware).Post("/register", s.handleRegister)
	r.With(loginLimiter.Middleware).Post("/login", s.handleLogin)

	// Product reads are public.
	r.Get("/products", s.handleListProducts)
	r.Get("/products/{id}", s.handleGetProduct)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireToken(s.JWT))

		pr.With(auth.RequireRole(user.RoleAdmin)).Get("/users", s.handleListUsers)
		pr.Get("/users/{id}", s.handleGetUser)
		pr.Put("/users/{id}", s.handleUpdateUser)
		pr.With(auth.RequireRole(user.RoleAdmin)).Delete("/users/{id}", s.handleDeleteUser)

		pr.With(auth.RequireRole(user.RoleAdmin)).Post("/products", s.handleCreateProduct)
		pr.With(auth.RequireRole(user.RoleAdmin)).Put("/products/{id}", s.handleUpdateProduct)
		pr.With(auth.RequireRole(user.RoleAdmin)).Delete("/products/{id}", s.handleDeleteProduct)

		pr.Post("/orders", s.handleCreateOrder)
		pr.Get("/orders", s.handleListOrders)
		pr.Get("/orders/{id}", s.handleGetOrder)
		pr.Put("/orders/{id}", s.handleUpdateOrder)
		pr.Delete("/orders/{id}", s.handleDeleteOrder)
	})
}

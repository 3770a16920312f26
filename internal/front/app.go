// Package front is the server-rendered frontend. It holds no data of its
// own: every page load calls the backend API with the session's bearer token
// and every form submission is translated into the API's JSON shape.
package front

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"MiniShop/pkg/kit"
)

type Server struct {
	Log      *zap.Logger
	API      *Client
	Sessions *Sessions

	templates pageTemplates
}

func NewServer(log *zap.Logger, api *Client, sessions *Sessions) *Server {
	return &Server{
		Log:       log,
		API:       api,
		Sessions:  sessions,
		templates: parseTemplates(),
	}
}

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))

	if deps.Registry != nil {
		metrics := kit.NewMetrics(deps.Registry)
		r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

		if deps.MetricsEnabled {
			r.With(kit.MetricsAuth(deps.MetricsToken)).
				Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
		}
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/", s.index)
	r.Get("/login", s.loginForm)
	r.Post("/login", s.login)
	r.Get("/logout", s.logout)
	r.Get("/register", s.registerForm)
	r.Post("/register", s.register)

	r.Get("/orders", s.orders)
	r.Get("/orders/new", s.newOrderForm)
	r.Post("/orders/new", s.createOrder)
	r.Get("/orders/{id}/edit", s.editOrderForm)
	r.Post("/orders/{id}/edit", s.updateOrder)
	r.Post("/orders/{id}/cancel", s.cancelOrder)
	r.Post("/orders/{id}/delete", s.deleteOrder)

	r.Get("/products", s.products)
	r.Post("/products/new", s.createProduct)
	r.Get("/products/{id}/edit", s.editProductForm)
	r.Post("/products/{id}/edit", s.updateProduct)
	r.Post("/products/{id}/delete", s.deleteProduct)

	r.Get("/admin", s.adminUsers)
	r.Get("/users/{id}/edit", s.editUserForm)
	r.Post("/users/{id}/edit", s.updateUser)
	r.Post("/admin/users/{id}/delete", s.deleteUser)

	return r
}

// page is the data every template receives.
type page struct {
	Title    string
	LoggedIn bool
	IsAdmin  bool
	Role     string
	CSRF     string
	Flashes  []Flash
	Data     any
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	_, loggedIn := s.Sessions.Token(r)
	role := s.Sessions.Role(r)

	p := page{
		Title:    title,
		LoggedIn: loggedIn,
		IsAdmin:  role == "admin",
		Role:     role,
		CSRF:     s.Sessions.CSRF(w, r),
		Flashes:  s.Sessions.Flashes(w, r),
		Data:     data,
	}

	// Render into a buffer so cookie writes above and template errors never
	// produce a half-written page.
	var buf bytes.Buffer
	if err := s.templates.render(&buf, name, p); err != nil {
		s.Log.Error("render template", zap.Error(err), zap.String("template", name))
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// requireLogin yields the session token or redirects to the login page.
func (s *Server) requireLogin(w http.ResponseWriter, r *http.Request) (string, bool) {
	token, ok := s.Sessions.Token(r)
	if !ok {
		s.redirect(w, r, "/login")
		return "", false
	}
	return token, true
}

// forceLogout clears the session after a failed data fetch and lands on
// the login page.
func (s *Server) forceLogout(w http.ResponseWriter, r *http.Request, flash string) {
	s.Sessions.Clear(w, r)
	s.Sessions.Flash(w, r, FlashDanger, flash)
	s.redirect(w, r, "/login")
}

func urlID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

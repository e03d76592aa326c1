package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/invoicevault/internal/http/auth"
	"github.com/MrJamesThe3rd/invoicevault/internal/http/export"
	"github.com/MrJamesThe3rd/invoicevault/internal/http/invoice"
	"github.com/MrJamesThe3rd/invoicevault/internal/metrics"
)

// New assembles the REST surface shared by both backend variants. A nil
// authH leaves the API open (the single-admin file-backed variant); a
// non-nil one mounts the login routes and gates everything else behind the
// session cookie.
func New(
	invoiceH *invoice.Handler,
	exportH *export.Handler,
	authH *auth.Handler,
	m *metrics.Metrics,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(m.Middleware)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	router.Handle("/metrics", m.Handler())

	if authH != nil {
		router.Get("/login", authH.LoginPage)
		router.Post("/api/login", authH.Login)
	}

	router.Group(func(r chi.Router) {
		if authH != nil {
			r.Use(authH.Middleware)
			r.Get("/api/logout", authH.Logout)
		}

		r.Get("/api/health", invoiceH.Health)

		r.Route("/api/invoices", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			invoiceH.Routes(r)
		})

		r.Route("/api/export", exportH.Routes)
	})

	return router
}

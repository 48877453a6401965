package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/cashtrack/internal/http/auth"
	"github.com/MrJamesThe3rd/cashtrack/internal/http/export"
	"github.com/MrJamesThe3rd/cashtrack/internal/http/ledger"
	"github.com/MrJamesThe3rd/cashtrack/internal/http/matching"
	"github.com/MrJamesThe3rd/cashtrack/internal/http/profile"
	"github.com/MrJamesThe3rd/cashtrack/internal/http/resource"
	"github.com/MrJamesThe3rd/cashtrack/internal/http/statement"
	"github.com/MrJamesThe3rd/cashtrack/internal/http/transaction"
)

type Handlers struct {
	Ledger       *ledger.Handler
	Transactions *transaction.Handler
	Auth         *auth.Handler
	Profile      *profile.Handler
	Import       *statement.Handler
	Matching     *matching.Handler
	Export       *export.Handler
	Resources    *resource.Handler
}

func New(h Handlers, allowedOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Ledger.Routes(r)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Transactions.Routes(r)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Auth.Routes(r)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Profile.Routes(r)
		})

		r.Route("/import", h.Import.Routes)

		r.Route("/matching", h.Matching.Routes)

		r.Route("/export", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Export.Routes(r)
		})

		r.Group(h.Resources.Routes)
	})

	return router
}

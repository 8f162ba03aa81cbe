package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/casalivre/listing-service/internal/adapter/httpapi/middleware"
	"github.com/casalivre/listing-service/internal/platform/logger"
)

// NewRouter wires the public browse routes and the JWT-protected broker
// routes.
func NewRouter(service ListingService, jwtSecret string, log *logger.Logger) http.Handler {
	h := NewHandler(service, log)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Public browse surface.
	r.Get("/listings", h.search)
	r.Get("/listings/{id}", h.detail)

	// Broker surface.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret, log))
		r.Post("/listings", h.create)
		r.Put("/listings/{id}", h.update)
		r.Delete("/listings/{id}", h.delete)
		r.Get("/dashboard/listings", h.dashboard)
	})

	return r
}

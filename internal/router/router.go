package router

import (
	"net/http"
	"strings"

	"sales-order-api/internal/handler"
	"sales-order-api/internal/middleware"
	"sales-order-api/internal/model"
	"sales-order-api/internal/token"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
//
// Access policy: catalog reads and the auth endpoints are public, catalog
// mutations and order cancel/delete require the admin role, and the remaining
// order endpoints require any authenticated caller.
func New(
	catalogHandler *handler.CatalogHandler,
	orderHandler *handler.OrderHandler,
	authHandler *handler.AuthHandler,
	tokens *token.Service,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	requireAdmin := middleware.Require(logger, model.RoleAdmin)
	requireUser := middleware.Require(logger)

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Auth routes
	mux.HandleFunc("/api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("/api/v1/auth/register", authHandler.Register)

	// Catalog handler function
	catalogRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		collection := r.URL.Path == "/api/v1/catalog" || r.URL.Path == "/api/v1/catalog/"

		switch {
		case r.Method == http.MethodGet && collection:
			catalogHandler.GetAll(w, r)
		case r.Method == http.MethodGet:
			catalogHandler.GetByID(w, r)
		case r.Method == http.MethodPost && collection:
			requireAdmin(catalogHandler.Create)(w, r)
		case r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/price"):
			requireAdmin(catalogHandler.UpdatePrice)(w, r)
		case r.Method == http.MethodDelete && !collection:
			requireAdmin(catalogHandler.Delete)(w, r)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}

	// Register catalog routes (both with and without trailing slash)
	mux.HandleFunc("/api/v1/catalog", catalogRouteHandler)
	mux.HandleFunc("/api/v1/catalog/", catalogRouteHandler)

	// Order handler function
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		collection := r.URL.Path == "/api/v1/orders" || r.URL.Path == "/api/v1/orders/"

		switch {
		case r.Method == http.MethodPost && collection:
			requireUser(orderHandler.Create)(w, r)
		case r.Method == http.MethodGet && collection:
			requireUser(orderHandler.List)(w, r)
		case r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/cancel"):
			requireAdmin(orderHandler.Cancel)(w, r)
		case r.Method == http.MethodDelete && !collection:
			requireAdmin(orderHandler.Delete)(w, r)
		case r.Method == http.MethodGet:
			requireUser(orderHandler.GetByID)(w, r)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}

	// Register order routes (both with and without trailing slash)
	mux.HandleFunc("/api/v1/orders", orderRouteHandler)
	mux.HandleFunc("/api/v1/orders/", orderRouteHandler)

	// Apply middleware in order: Recovery -> Logging -> CORS -> Authenticate
	var h http.Handler = mux
	h = middleware.Authenticate(tokens, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}

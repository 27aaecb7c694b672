package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/osanchez/portfolio-gateway/internal/handlers"
	"github.com/osanchez/portfolio-gateway/internal/middleware"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	proxyHandler *handlers.ProxyHandler,
	proxyRateLimit middleware.RateLimitConfig,
) {
	// Login goes through the ledger-backed gate inside the handler
	router.Post("/auth/login", authHandler.Login)

	router.Route("/api/proxy", func(r chi.Router) {
		// Coarse per-IP guard on browsing traffic only; the contact gate
		// owns the POST budget for submission paths
		r.With(middleware.RateLimitByIP(proxyRateLimit)).Get("/*", proxyHandler.Get)
		r.Post("/*", proxyHandler.Post)
		r.Delete("/*", proxyHandler.Delete)
	})
}

package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/angelmondragon/brandcorner-backend/api/responses"
	"github.com/angelmondragon/brandcorner-backend/pkg/config"
)

// SessionTokenHeader carries the guest cart token for clients that cannot set
// Authorization.
const SessionTokenHeader = "X-BC-Token"

// CORS returns middleware that applies the storefront's allowed origin policy.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", SessionTokenHeader, adminKeyHeader, "Idempotency-Key", "X-Requested-With"},
		ExposedHeaders:   []string{SessionTokenHeader, responses.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}

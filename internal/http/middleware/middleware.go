// Package middleware composes the HTTP middleware chain: CORS handling and
// request tracing.
package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/quizbooth/backend/internal/config"
	"github.com/quizbooth/backend/internal/observability"
)

// Middleware wraps an http.Handler with additional functionality.
type Middleware func(http.Handler) http.Handler

// Chain composes middlewares; the first argument becomes the outermost
// wrapper.
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// BuildMiddlewareChain composes the production chain (DI constructor).
// CORS must run before tracing so preflight requests are answered without
// generating trace noise.
func BuildMiddlewareChain(corsConfig *config.CORSConfig) Middleware {
	return Chain(
		CORS(corsConfig),
		Trace(),
	)
}

// CORS applies the configured cross-origin policy via github.com/rs/cors.
// A nil config disables CORS handling entirely.
func CORS(cfg *config.CORSConfig) Middleware {
	if cfg == nil {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})

	return c.Handler
}

// Trace injects trace and request identifiers into every request context and
// logs request start and completion.
func Trace() Middleware {
	return observability.Trace()
}

package myhttp

import (
	"net/http"

	"github.com/gorilla/handlers"
)

// WithCORS only lets the given origins call the wrapped handler from a browser. Preflight requests are answered
// before they reach the router.
func WithCORS(allowedOrigins []string, allowedMethods []string, allowedHeaders []string) func(http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods(allowedMethods),
		handlers.AllowedHeaders(allowedHeaders),
	)
}

// WithRecovery turns a panicking handler into a 500 without leaking the stack to the caller.
func WithRecovery(next http.Handler) http.Handler {
	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(next)
}

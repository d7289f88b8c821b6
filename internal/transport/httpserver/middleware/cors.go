package middleware

import (
	"net/http"
	"strings"
)

// The directory API is consumed by a browser frontend on a separate
// origin, so preflight responses advertise every verb the router
// serves, Authorization included for the JWT bearer header.
const (
	corsAllowMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsAllowHeaders = "Authorization, Content-Type"
	corsMaxAge       = "86400"
)

// NewCORS returns a middleware that answers cross-origin requests for
// the configured origins. Unknown origins get no CORS headers at all,
// which makes the browser reject the response.
func NewCORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowed[origin] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				w.Header().Add("Vary", "Origin")
				if _, ok := allowed[origin]; ok {
					headers := w.Header()
					headers.Set("Access-Control-Allow-Origin", origin)
					headers.Set("Access-Control-Allow-Methods", corsAllowMethods)
					headers.Set("Access-Control-Allow-Headers", corsAllowHeaders)
					headers.Set("Access-Control-Max-Age", corsMaxAge)
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

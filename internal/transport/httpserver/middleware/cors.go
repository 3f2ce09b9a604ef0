package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

const corsMaxAge = 86400

var (
	corsAllowMethods  = []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	corsAllowHeaders  = []string{"Authorization", "Content-Type", "X-Request-Id"}
	corsExposeHeaders = []string{"Retry-After", "X-Request-Id"}
)

// NewCORS allows the configured origins and echoes them back. A "*" entry
// allows any origin. An empty list allows none.
func NewCORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowAny := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origin = strings.ToLower(strings.TrimRight(strings.TrimSpace(origin), "/"))
		switch origin {
		case "":
			continue
		case "*":
			allowAny = true
		default:
			allowed[origin] = struct{}{}
		}
	}

	return cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			if allowAny {
				return true
			}
			_, ok := allowed[strings.ToLower(origin)]
			return ok
		},
		AllowedMethods: corsAllowMethods,
		AllowedHeaders: corsAllowHeaders,
		ExposedHeaders: corsExposeHeaders,
		MaxAge:         corsMaxAge,
	})
}

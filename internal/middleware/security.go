package middleware

import (
	"net/http"
	"strings"
)

// SecurityHeaders sets the headers every JSON response carries. The
// Swagger UI needs its own scripts and styles, so it gets a looser CSP.
func SecurityHeaders(isProd bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if isProd {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			if strings.HasPrefix(r.URL.Path, "/swagger/") {
				w.Header().Set("Content-Security-Policy",
					"default-src 'self'; "+
						"script-src 'self' 'unsafe-inline'; "+
						"style-src 'self' 'unsafe-inline'; "+
						"img-src 'self' data:; "+
						"frame-ancestors 'none';")
			} else {
				w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none';")
			}

			next.ServeHTTP(w, r)
		})
	}
}

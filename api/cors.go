package api

import (
	"net/http"
	"strings"

	"github.com/samber/lo"
)

var (
	corsMethods = strings.Join([]string{http.MethodGet, http.MethodPost}, ", ")
	corsHeaders = strings.Join([]string{
		"User-Agent",
		"Sec-Fetch-Mode",
		"Content-Type",
		"Referer",
		"Origin",
		"Range",
		"Access-Control-Request-Method",
		"Access-Control-Request-Headers",
	}, ", ")
)

// CORS allows cross-origin GET and POST from the given origins; "*" allows any origin.
// Preflight requests are answered here and never reach next.
func CORS(origins []string, next http.Handler) http.Handler {
	anyOrigin := lo.Contains(origins, "*")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowed := origin != "" && (anyOrigin || lo.Contains(origins, origin))

		if allowed {
			h := w.Header()
			if anyOrigin {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Expose-Headers", "Content-Length, Content-Range, X-Request-ID")
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			if !allowed {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			w.Header().Set("Access-Control-Allow-Methods", corsMethods)
			w.Header().Set("Access-Control-Allow-Headers", corsHeaders)
			w.Header().Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

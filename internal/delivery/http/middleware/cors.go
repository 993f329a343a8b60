package middleware

import (
	"net/http"
	"strings"
)

const (
	corsAllowMethods = "GET, POST, PATCH, PUT, DELETE, OPTIONS"
	corsAllowHeaders = "Authorization, Content-Type, Accept"
	corsMaxAge       = "86400"
)

// originAllowList holds normalized origins: trimmed and without a trailing slash.
type originAllowList map[string]struct{}

func newOriginAllowList(origins []string) originAllowList {
	list := make(originAllowList, len(origins))
	for _, o := range origins {
		if o = strings.TrimSuffix(strings.TrimSpace(o), "/"); o != "" {
			list[o] = struct{}{}
		}
	}
	return list
}

func (l originAllowList) allows(origin string) bool {
	_, ok := l[origin]
	return origin != "" && ok
}

// CORS lets the configured web origins call the API with credentials. OPTIONS requests are
// answered here with 204 and never reach next.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	origins := newOriginAllowList(allowedOrigins)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		header.Add("Vary", "Origin")

		origin := r.Header.Get("Origin")
		allowed := origins.allows(origin)
		if allowed {
			header.Set("Access-Control-Allow-Origin", origin)
			header.Set("Access-Control-Allow-Credentials", "true")
		}

		if r.Method == http.MethodOptions {
			if allowed {
				header.Set("Access-Control-Allow-Methods", corsAllowMethods)
				header.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				header.Set("Access-Control-Max-Age", corsMaxAge)
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

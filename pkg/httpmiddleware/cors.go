package httpmiddleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig configures cross-origin access to the API.
type CORSConfig struct {
	// AllowOrigins lists origins permitted to call the API. Empty, or a
	// single "*", allows every origin.
	AllowOrigins []string
	// AllowMethods defaults to the verbs the API actually serves.
	AllowMethods []string
	// AllowHeaders lists permitted request headers. When empty, preflights
	// echo back whatever the browser asked for.
	AllowHeaders []string
	// AllowCredentials permits cookies and auth headers. Incompatible with a
	// wildcard origin; the middleware echoes the specific origin instead.
	AllowCredentials bool
	// MaxAge is the preflight cache lifetime in seconds. Zero omits the
	// header, negative sends "0".
	MaxAge int
}

// CORS answers preflights and stamps CORS headers on actual responses.
// Origins match case-insensitively but the configured spelling is echoed
// back, and Vary headers are set so shared caches never serve one origin's
// response to another.
func CORS(cfg CORSConfig) Middleware {
	wildcard := len(cfg.AllowOrigins) == 0
	origins := make(map[string]string, len(cfg.AllowOrigins))
	for _, o := range cfg.AllowOrigins {
		if o == "*" {
			wildcard = true
			break
		}
		origins[strings.ToLower(o)] = o
	}
	if cfg.AllowCredentials {
		// Browsers reject credentials with "*"; echo specific origins.
		wildcard = false
	}

	methods := strings.Join(cfg.AllowMethods, ", ")
	if methods == "" {
		methods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	}
	headers := strings.Join(cfg.AllowHeaders, ", ")

	var maxAge string
	switch {
	case cfg.MaxAge > 0:
		maxAge = strconv.Itoa(cfg.MaxAge)
	case cfg.MaxAge < 0:
		maxAge = "0"
	}

	resolve := func(origin string) string {
		if wildcard {
			return "*"
		}
		return origins[strings.ToLower(origin)]
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				if !wildcard {
					w.Header().Add("Vary", "Origin")
				}
				next.ServeHTTP(w, r)
				return
			}

			allow := resolve(origin)

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Add("Vary", "Origin")
				w.Header().Add("Vary", "Access-Control-Request-Method")
				w.Header().Add("Vary", "Access-Control-Request-Headers")

				if allow != "" {
					w.Header().Set("Access-Control-Allow-Origin", allow)
					w.Header().Set("Access-Control-Allow-Methods", methods)
					switch {
					case headers != "":
						w.Header().Set("Access-Control-Allow-Headers", headers)
					default:
						if asked := r.Header.Get("Access-Control-Request-Headers"); asked != "" {
							w.Header().Set("Access-Control-Allow-Headers", asked)
						}
					}
					if cfg.AllowCredentials {
						w.Header().Set("Access-Control-Allow-Credentials", "true")
					}
					if maxAge != "" {
						w.Header().Set("Access-Control-Max-Age", maxAge)
					}
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if !wildcard {
				w.Header().Add("Vary", "Origin")
			}
			if allow != "" {
				w.Header().Set("Access-Control-Allow-Origin", allow)
				if cfg.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

package httpmiddleware

import (
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// Recovery converts panics into a 500 response with the API's JSON error
// shape. The panic value and stack are logged; the connection is closed so a
// half-written response is not reused.
func Recovery() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				zctx.From(r.Context()).Error("panic recovered",
					zap.Any("panic", rec),
					zap.Stack("stack"),
				)
				w.Header().Set("Connection", "close")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"code":500,"message":"internal error"}`))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

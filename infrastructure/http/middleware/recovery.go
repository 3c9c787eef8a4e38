package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/tasknest/tasknest/infrastructure/http/response"
	"github.com/tasknest/tasknest/infrastructure/service/logger"
)

// Recovery turns a panic in a handler into an internal fault response.
func Recovery(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error(r.Context(), "panic recovered", fmt.Errorf("%v", rec), map[string]interface{}{
						"stack": string(debug.Stack()),
						"path":  r.URL.Path,
					})
					response.InternalServerError(w)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

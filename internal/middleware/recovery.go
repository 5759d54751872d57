// File: internal/middleware/recovery.go
package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/iyunix/go-chatfront/internal/services"
)

func RecoverPanic(logger services.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("Panic recovered",
						"error", err,
						"method", r.Method,
						"uri", r.RequestURI,
						"stack", string(debug.Stack()),
					)

					w.Header().Set("Connection", "close")
					http.Error(w, "Something went wrong on our end.", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

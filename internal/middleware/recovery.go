package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/PauloHFS/inkpress/internal/envelope"
	"github.com/PauloHFS/inkpress/internal/logging"
)

func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				logging.Get().Error("panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
					"path", r.URL.Path,
					"request_id", RequestID(r.Context()),
				)

				envelope.Error(w, http.StatusInternalServerError, "internal server error", nil)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

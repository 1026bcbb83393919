package httpx

import (
	"net/http"
	"runtime/debug"

	"github.com/aussiebroadwan/users/pkg/slogx"
)

// Recover turns a panic in a downstream handler into the generic 500
// envelope. The stack trace goes to the log, never to the client.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				slogx.FromContext(r.Context()).Error("panic recovered",
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				WriteServerError(w)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

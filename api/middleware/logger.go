// Package middleware provides HTTP middleware for the compseq API.
package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/aria-lang/compseq-go/internal/applog"
)

var log = applog.Log

// Logger logs one line per request with its status, size and duration.
// Server errors are logged as warnings.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			reqID := chimiddleware.GetReqID(r.Context())
			if status >= http.StatusInternalServerError {
				log.Warningf("[%s] %s %s %d %dB %s", reqID, r.Method, r.URL.Path,
					status, ww.BytesWritten(), time.Since(start))
				return
			}
			log.Infof("[%s] %s %s %d %dB %s", reqID, r.Method, r.URL.Path,
				status, ww.BytesWritten(), time.Since(start))
		}()

		next.ServeHTTP(ww, r)
	})
}

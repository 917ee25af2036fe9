package web

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/hammamikhairi/chefai/internal/logger"
)

// requestLogger logs one line per request through the app logger.
func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.Info("%s %s %d %dB %s [%s]",
				r.Method, r.URL.Path, status, ww.BytesWritten(),
				time.Since(start).Round(time.Millisecond), chimiddleware.GetReqID(r.Context()))
		})
	}
}

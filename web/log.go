package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// LogHandler logs every request once it has been served.
func LogHandler(h http.Handler, log *zap.SugaredLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		t1 := time.Now()
		defer func() {
			log.Infow("request",
				"method", r.Method,
				"path", r.URL.Path,
				"fragment", IsFragmentRequest(r),
				"took", time.Since(t1),
				"status", ww.Status(),
				"size", ww.BytesWritten(),
			)
		}()
		h.ServeHTTP(ww, r)
	})
}

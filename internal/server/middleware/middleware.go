package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

func Logging(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		handler.ServeHTTP(ww, r)
		slog.Info(
			"request",
			slog.String("method", r.Method),
			slog.String("url", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.String("request_id", chimw.GetReqID(r.Context())),
			slog.Duration("time", time.Since(start)),
		)
	})
}

package logging

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RequestLogger stores a request-scoped zap logger in the context. The logger
// carries the request ID and, when available, Cloud Trace correlation fields.
func RequestLogger() func(http.Handler) http.Handler {
	return requestLogger(resolveProjectID)
}

func requestLogger(projectID func() string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(traceparentHeader)
			project := projectID()
			reqID := chimiddleware.GetReqID(r.Context())

			correlation := reqID
			if tc, ok := parseTraceparent(header); ok && project != "" {
				correlation = traceResource(project, tc.traceID)
			}
			logger := loggerWithTrace(LoggerFromContext(r.Context()), header, project, reqID)
			ctx := contextWithTraceID(r.Context(), correlation)
			ctx = WithLogger(ctx, logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccessLogger writes one structured summary per request using the request-scoped logger.
func AccessLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			LoggerFromContext(r.Context()).Info(
				"request completed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remoteIp", r.RemoteAddr),
			)
		})
	}
}

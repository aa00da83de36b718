package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"leveragebot/pkg/utils"
)

// RequestIDHeader - заголовок с идентификатором запроса
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestIDFromContext возвращает id запроса, выставленный Logging
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// responseWriter запоминает статус и размер ответа
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Logging - middleware для логирования HTTP запросов
//
// Пишет method, path, status, latency, размер ответа и request_id.
// request_id берётся из X-Request-ID или генерируется (uuid) и
// возвращается клиенту в том же заголовке.
//
// Для маршрутов с именем из hiddenRoutes вместо реального пути
// логируется шаблон "<name>", чтобы не писать в логи секретный путь webhook.
func Logging(logger *utils.Logger, hiddenRoutes ...string) func(http.Handler) http.Handler {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	hidden := make(map[string]bool, len(hiddenRoutes))
	for _, name := range hiddenRoutes {
		hidden[name] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)
			r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, requestID))

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(wrapped, r)

			path := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil && hidden[route.GetName()] {
				path = "<" + route.GetName() + ">"
			}

			logger.Info("HTTP request",
				utils.String("method", r.Method),
				utils.String("path", path),
				utils.Int("status", wrapped.statusCode),
				utils.Latency(float64(time.Since(start).Microseconds())/1000),
				utils.Int64("bytes", wrapped.written),
				utils.String("remote_addr", r.RemoteAddr),
				utils.RequestID(requestID),
			)
		})
	}
}

package middleware

import (
	"net/http"
	"runtime/debug"

	"leveragebot/pkg/utils"
)

// Recovery - middleware для восстановления после паники в handlers
//
// Паника логируется вместе со stack trace, клиент получает 500 "error".
// Сессии других чатов не затрагиваются: хранилище не держит блокировку
// во время вызова обработчиков.
func Recovery(logger *utils.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					logger.Error("PANIC recovered",
						utils.Any("panic", err),
						utils.String("method", r.Method),
						utils.String("stack", string(debug.Stack())),
					)

					w.Header().Set("Content-Type", "text/plain; charset=utf-8")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte("error"))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"crypto/subtle"
	"net/http"
)

// BasicAuth - middleware для защиты служебных endpoints (/metrics)
//
// Если username и password пустые, доступ открыт: метрики обычно
// собираются из внутренней сети. Иначе требуется HTTP Basic Auth,
// сравнение выполняется за постоянное время.
//
// Использование:
//
//	router.Handle("/metrics", middleware.BasicAuth(user, pass, "metrics")(promhttp.Handler()))
func BasicAuth(username, password, realm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if username == "" && password == "" {
			return next
		}

		challenge := `Basic realm="` + realm + `"`
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", challenge)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1
			passMatch := subtle.ConstantTimeCompare([]byte(pass), []byte(password)) == 1

			if !userMatch || !passMatch {
				w.Header().Set("WWW-Authenticate", challenge)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

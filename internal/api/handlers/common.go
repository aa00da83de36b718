package handlers

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MaxRequestBodySize ограничивает размер тела webhook запроса (1 MB)
const MaxRequestBodySize = 1 << 20

// Тела ответов webhook
const (
	bodyOK    = "ok"
	bodyError = "error"
)

// ErrorResponse стандартный формат JSON ответа об ошибке
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondWithJSON отправляет JSON ответ
func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		respondWithText(w, http.StatusInternalServerError, bodyError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// respondWithText отправляет текстовый ответ
func respondWithText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(text))
}

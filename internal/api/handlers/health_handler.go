package handlers

import (
	"net/http"

	"leveragebot/pkg/utils"
)

// IndexMessage - ответ GET /
const IndexMessage = "Bot is running and healthy! 🚀"

// SessionCounter возвращает число активных сессий
type SessionCounter interface {
	ActiveSessions() int
}

// HealthResponse - ответ GET /health
type HealthResponse struct {
	Status         string `json:"status"`
	Timestamp      string `json:"timestamp"`
	ActiveSessions int    `json:"active_sessions"`
}

// HealthHandler отдаёт liveness и подробный статус
type HealthHandler struct {
	sessions SessionCounter
	clock    utils.Clock
}

// NewHealthHandler создает новый HealthHandler
func NewHealthHandler(sessions SessionCounter, clock utils.Clock) *HealthHandler {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &HealthHandler{sessions: sessions, clock: clock}
}

// Index - GET /
func (h *HealthHandler) Index(w http.ResponseWriter, r *http.Request) {
	respondWithText(w, http.StatusOK, IndexMessage)
}

// Health - GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	active := 0
	if h.sessions != nil {
		active = h.sessions.ActiveSessions()
	}
	respondWithJSON(w, http.StatusOK, HealthResponse{
		Status:         "healthy",
		Timestamp:      utils.FormatISO8601(h.clock.Now()),
		ActiveSessions: active,
	})
}

package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"leveragebot/internal/api/handlers"
	"leveragebot/internal/api/middleware"
	"leveragebot/internal/service"
	"leveragebot/pkg/utils"
)

// WebhookRouteName - имя маршрута webhook; его путь не попадает в логи
const WebhookRouteName = "webhook"

// Dependencies содержит все зависимости для HTTP handlers
type Dependencies struct {
	ConversationService service.ConversationServiceInterface
	Verifier            handlers.SignatureVerifier

	// WebhookPath - секретный сегмент пути без ведущего "/"
	WebhookPath string

	// Basic Auth для /metrics; пустые значения - без авторизации
	MetricsUsername string
	MetricsPassword string

	Clock  utils.Clock
	Logger *utils.Logger
}

// SetupRoutes настраивает все HTTP маршруты приложения
//
// Структура маршрутов:
//
//	POST /{webhook-path}  - обновления Telegram (проверка подписи)
//	GET  /                - liveness строка
//	GET  /health          - {status, timestamp, active_sessions}
//	GET  /metrics         - Prometheus
//
// Middleware применяется в следующем порядке:
// 1. Recovery (для всех маршрутов)
// 2. Logging (для всех маршрутов)
func SetupRoutes(deps *Dependencies) *mux.Router {
	router := mux.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}

	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logging(logger, WebhookRouteName))

	healthHandler := handlers.NewHealthHandler(deps.ConversationService, deps.Clock)
	router.HandleFunc("/", healthHandler.Index).Methods(http.MethodGet)
	router.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)

	router.Handle("/metrics",
		middleware.BasicAuth(deps.MetricsUsername, deps.MetricsPassword, "metrics")(promhttp.Handler()),
	).Methods(http.MethodGet)

	if deps.ConversationService != nil && deps.Verifier != nil && deps.WebhookPath != "" {
		webhookHandler := handlers.NewWebhookHandler(deps.ConversationService, deps.Verifier, logger)
		router.HandleFunc("/"+deps.WebhookPath, webhookHandler.HandleUpdate).
			Methods(http.MethodPost).
			Name(WebhookRouteName)
	}

	return router
}

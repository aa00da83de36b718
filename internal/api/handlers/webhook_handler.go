package handlers

import (
	"io"
	"net/http"
	"time"

	"leveragebot/internal/bot"
	"leveragebot/internal/service"
	"leveragebot/internal/telegram"
	"leveragebot/pkg/utils"
)

// SecretTokenHeader - заголовок с подписью тела запроса
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// SignatureVerifier проверяет подпись тела запроса
type SignatureVerifier interface {
	Verify(body []byte, signature string) bool
}

// WebhookHandler принимает обновления Telegram
//
// POST /{path-token}
//   - 403 если подпись отсутствует или неверна (сервис не вызывается)
//   - 200 "ok" после обработки, в том числе для обновлений без текста
//   - 500 "error" если тело не читается, не разбирается или сервис вернул ошибку
type WebhookHandler struct {
	service  service.ConversationServiceInterface
	verifier SignatureVerifier
	logger   *utils.Logger
}

// NewWebhookHandler создает новый WebhookHandler
func NewWebhookHandler(svc service.ConversationServiceInterface, verifier SignatureVerifier, logger *utils.Logger) *WebhookHandler {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &WebhookHandler{
		service:  svc,
		verifier: verifier,
		logger:   logger.WithComponent("webhook"),
	}
}

// HandleUpdate обрабатывает одно обновление
func (h *WebhookHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		bot.ObserveWebhookLatency(time.Since(start).Seconds())
	}()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxRequestBodySize))
	if err != nil {
		h.logger.Error("Failed to read webhook body", utils.Err(err))
		respondWithText(w, http.StatusInternalServerError, bodyError)
		return
	}

	// Подпись проверяется по сырым байтам до любого разбора
	if !h.verifier.Verify(body, r.Header.Get(SecretTokenHeader)) {
		bot.RecordRejected(bot.RejectReasonSignature)
		h.logger.Warn("Invalid webhook signature", utils.String("remote_addr", r.RemoteAddr))
		respondWithText(w, http.StatusForbidden, http.StatusText(http.StatusForbidden))
		return
	}

	var update telegram.Update
	if err := json.Unmarshal(body, &update); err != nil {
		bot.RecordRejected(bot.RejectReasonDecode)
		h.logger.Error("Error processing webhook: invalid update", utils.Err(err))
		respondWithText(w, http.StatusInternalServerError, bodyError)
		return
	}

	chatID, text, ok := update.TextMessage()
	if !ok {
		bot.RecordUpdate(bot.UpdateKindIgnored)
		h.logger.Debug("Update without text ignored", utils.UpdateID(update.UpdateID))
		respondWithText(w, http.StatusOK, bodyOK)
		return
	}

	if err := h.service.HandleText(r.Context(), chatID, text); err != nil {
		h.logger.Error("Error processing webhook",
			utils.UpdateID(update.UpdateID),
			utils.ChatID(chatID),
			utils.Err(err),
		)
		respondWithText(w, http.StatusInternalServerError, bodyError)
		return
	}

	respondWithText(w, http.StatusOK, bodyOK)
}

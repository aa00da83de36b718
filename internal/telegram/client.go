// Package telegram - минимальный клиент Telegram Bot API и типы webhook обновлений.
package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"leveragebot/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultAPIURL - адрес Bot API по умолчанию
const DefaultAPIURL = "https://api.telegram.org"

// maxResponseSize ограничивает чтение ответа Bot API
const maxResponseSize = 1 << 20

// ErrTelegramAPI - Bot API вернул ok=false или неожиданный статус
var ErrTelegramAPI = errors.New("telegram api error")

// APIError - ошибка, описанная Bot API
type APIError struct {
	Method      string
	StatusCode  int
	ErrorCode   int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.ErrorCode, e.Description)
}

// Unwrap позволяет проверять errors.Is(err, ErrTelegramAPI)
func (e *APIError) Unwrap() error {
	return ErrTelegramAPI
}

// IsTransient возвращает true для ошибок, которые имеет смысл повторить:
// сетевые ошибки, 429 и 5xx. Остальные ответы Bot API (4xx) окончательны.
// Отмена контекста не считается временной ошибкой.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}

// apiResponse - общий конверт ответа Bot API
type apiResponse struct {
	OK          bool                `json:"ok"`
	Result      jsoniter.RawMessage `json:"result,omitempty"`
	ErrorCode   int                 `json:"error_code,omitempty"`
	Description string              `json:"description,omitempty"`
}

type sendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

type setWebhookRequest struct {
	URL            string   `json:"url"`
	AllowedUpdates []string `json:"allowed_updates,omitempty"`
}

type deleteWebhookRequest struct {
	DropPendingUpdates bool `json:"drop_pending_updates"`
}

// Client - клиент Bot API.
// Повторов нет: вызывающий код решает, что делать с ошибкой.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *utils.Logger
}

// NewClient создает клиент для токена бота.
// apiURL может быть пустым - используется DefaultAPIURL.
func NewClient(token, apiURL string, httpClient *http.Client, logger *utils.Logger) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if httpClient == nil {
		httpClient = NewHTTPClient(DefaultHTTPClientConfig())
	}
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(apiURL, "/") + "/bot" + token + "/",
		logger:     logger.WithComponent("telegram"),
	}
}

// SendMessage отправляет текстовое сообщение в чат.
// parseMode пустой для обычного текста или "Markdown".
func (c *Client) SendMessage(ctx context.Context, chatID int64, text, parseMode string) error {
	return c.call(ctx, "sendMessage", sendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: parseMode,
	}, nil)
}

// SetWebhook регистрирует URL для доставки обновлений
func (c *Client) SetWebhook(ctx context.Context, url string) error {
	var ok bool
	if err := c.call(ctx, "setWebhook", setWebhookRequest{
		URL:            url,
		AllowedUpdates: []string{"message"},
	}, &ok); err != nil {
		return err
	}
	if !ok {
		return &APIError{Method: "setWebhook", StatusCode: http.StatusOK, Description: "webhook was not set"}
	}
	return nil
}

// DeleteWebhook удаляет текущий webhook
func (c *Client) DeleteWebhook(ctx context.Context) error {
	return c.call(ctx, "deleteWebhook", deleteWebhookRequest{}, nil)
}

// call выполняет POST {baseURL}{method} с JSON телом и разбирает конверт ответа.
// Если result не nil, в него декодируется поле result.
func (c *Client) call(ctx context.Context, method string, payload, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+method, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error содержит адрес с токеном
		return fmt.Errorf("telegram %s: request failed: %w", method, redactError(err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("read %s response: %w", method, err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return &APIError{
			Method:      method,
			StatusCode:  resp.StatusCode,
			ErrorCode:   resp.StatusCode,
			Description: "invalid response body",
		}
	}

	if !envelope.OK {
		return &APIError{
			Method:      method,
			StatusCode:  resp.StatusCode,
			ErrorCode:   envelope.ErrorCode,
			Description: envelope.Description,
		}
	}

	if result != nil && len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
	}

	c.logger.Debug("Telegram API call succeeded", utils.String("method", method))
	return nil
}

// redactError убирает URL (с токеном бота) из ошибки транспорта
func redactError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leveragebot/pkg/crypto"
)

const testSecret = "webhook-test-secret"

const textUpdate = `{"update_id":10,"message":{"message_id":1,"chat":{"id":555,"type":"private"},"date":1700000000,"text":"  /start "}}`

func newTestWebhookHandler(t *testing.T) (*WebhookHandler, *MockConversationService, *crypto.SignatureVerifier) {
	t.Helper()
	verifier, err := crypto.NewSignatureVerifier(testSecret)
	require.NoError(t, err)
	svc := NewMockConversationService()
	return NewWebhookHandler(svc, verifier, nil), svc, verifier
}

func newSignedRequest(body string, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(body))
	if signature != "" {
		req.Header.Set(SecretTokenHeader, signature)
	}
	return req
}

// ============ WebhookHandler Tests ============

func TestWebhookHandler_ValidUpdate(t *testing.T) {
	handler, svc, verifier := newTestWebhookHandler(t)

	w := httptest.NewRecorder()
	handler.HandleUpdate(w, newSignedRequest(textUpdate, verifier.Sign([]byte(textUpdate))))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	calls := svc.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, int64(555), calls[0].ChatID)
	assert.Equal(t, "  /start ", calls[0].Text, "trimming is done by the service")
}

func TestWebhookHandler_SignatureRejected(t *testing.T) {
	handler, svc, verifier := newTestWebhookHandler(t)
	valid := verifier.Sign([]byte(textUpdate))

	tests := []struct {
		name      string
		body      string
		signature string
	}{
		{"missing header", textUpdate, ""},
		{"raw secret instead of hmac", textUpdate, testSecret},
		{"wrong signature", textUpdate, strings.Repeat("0", len(valid))},
		{"body changed after signing", strings.Replace(textUpdate, "555", "556", 1), valid},
		{"uppercase hex", textUpdate, strings.ToUpper(valid)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.HandleUpdate(w, newSignedRequest(tt.body, tt.signature))

			assert.Equal(t, http.StatusForbidden, w.Code)
		})
	}

	assert.Empty(t, svc.Calls(), "rejected requests never reach the service")
}

func TestWebhookHandler_IgnoredUpdates(t *testing.T) {
	handler, svc, verifier := newTestWebhookHandler(t)

	bodies := []string{
		`{"update_id":1}`,
		`{"update_id":2,"message":{"message_id":1,"chat":{"id":1,"type":"private"},"photo":[{"file_id":"a"}]}}`,
		`{"update_id":3,"message":{"message_id":1,"chat":{"id":1,"type":"private"},"text":""}}`,
		`{"update_id":4,"callback_query":{"id":"x"}}`,
	}

	for _, body := range bodies {
		w := httptest.NewRecorder()
		handler.HandleUpdate(w, newSignedRequest(body, verifier.Sign([]byte(body))))

		assert.Equal(t, http.StatusOK, w.Code, body)
		assert.Equal(t, "ok", w.Body.String(), body)
	}

	assert.Empty(t, svc.Calls())
}

func TestWebhookHandler_MalformedJSON(t *testing.T) {
	handler, svc, verifier := newTestWebhookHandler(t)

	body := `{"update_id": "not-a-number",`
	w := httptest.NewRecorder()
	handler.HandleUpdate(w, newSignedRequest(body, verifier.Sign([]byte(body))))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "error", w.Body.String())
	assert.Empty(t, svc.Calls())
}

func TestWebhookHandler_ServiceError(t *testing.T) {
	handler, svc, verifier := newTestWebhookHandler(t)
	svc.err = errors.New("boom")

	w := httptest.NewRecorder()
	handler.HandleUpdate(w, newSignedRequest(textUpdate, verifier.Sign([]byte(textUpdate))))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "error", w.Body.String())
}

func TestWebhookHandler_BodyTooLarge(t *testing.T) {
	handler, svc, _ := newTestWebhookHandler(t)

	big := bytes.Repeat([]byte("a"), MaxRequestBodySize+1)
	req := httptest.NewRequest(http.MethodPost, "/token", bytes.NewReader(big))
	req.Header.Set(SecretTokenHeader, "anything")

	w := httptest.NewRecorder()
	handler.HandleUpdate(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, svc.Calls())
}

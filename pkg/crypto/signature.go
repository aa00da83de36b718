package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
)

// Ошибки подписи
var (
	ErrEmptySecret = errors.New("signature secret cannot be empty")
)

// SignatureVerifier проверяет подлинность входящих webhook запросов
//
// Подпись: hex(HMAC-SHA256(secret, raw_body)).
// Сравнение выполняется за постоянное время (crypto/subtle),
// чтобы время ответа не раскрывало совпадающий префикс подписи.
//
// Это единственный механизм аутентификации webhook.
type SignatureVerifier struct {
	secret []byte
}

// NewSignatureVerifier создаёт верификатор с общим секретом
func NewSignatureVerifier(secret string) (*SignatureVerifier, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &SignatureVerifier{secret: []byte(secret)}, nil
}

// Sign вычисляет hex-подпись тела запроса
func (v *SignatureVerifier) Sign(body []byte) string {
	return SignHMACSHA256(v.secret, body)
}

// Verify проверяет подпись тела запроса.
// Пустая подпись всегда отклоняется.
func (v *SignatureVerifier) Verify(body []byte, signature string) bool {
	if signature == "" {
		return false
	}

	expected := v.Sign(body)
	return subtle.ConstantTimeCompare([]byte(signature), []byte(expected)) == 1
}

// SignHMACSHA256 возвращает hex(HMAC-SHA256(key, data))
func SignHMACSHA256(key, data []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}

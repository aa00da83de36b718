package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Ошибки деривации
var (
	ErrInvalidTokenLength = errors.New("token length must be between 8 and 64 bytes")
)

// DefaultPathTokenLength - длина токена пути в байтах (32 hex символа)
const DefaultPathTokenLength = 16

// pathTokenInfo - контекст HKDF для токена URL пути webhook
const pathTokenInfo = "leveragebot webhook-path v1"

// DerivePathToken выводит из секрета токен для URL пути webhook
// (HKDF-SHA256, length байт в hex).
//
// По токену секрет не восстановить, поэтому URL можно логировать,
// а секрет остаётся только ключом HMAC.
// Результат детерминирован: один секрет = один путь между перезапусками.
func DerivePathToken(secret string, length int) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	if length < 8 || length > 64 {
		return "", ErrInvalidTokenLength
	}

	reader := hkdf.New(sha256.New, []byte(secret), nil, []byte(pathTokenInfo))
	token := make([]byte, length)
	if _, err := io.ReadFull(reader, token); err != nil {
		return "", err
	}

	return hex.EncodeToString(token), nil
}

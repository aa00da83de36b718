// Package retry - повтор операций с экспоненциальным backoff.
//
// Используется только для служебных вызовов (регистрация webhook).
// Отправка сообщений пользователям никогда не повторяется.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// Config конфигурация для retry логики
//
// delay = min(InitialDelay * Multiplier^attempt, MaxDelay) ± jitter
type Config struct {
	// Attempts - максимальное количество попыток (включая первую), минимум 1
	Attempts int

	InitialDelay time.Duration // default: 500ms
	MaxDelay     time.Duration // default: 10s
	Multiplier   float64       // default: 2.0

	// JitterFactor - доля случайной вариации задержки (0.0 - 1.0)
	JitterFactor float64

	// RetryIf решает, повторять ли ошибку. nil = повторять все
	RetryIf func(error) bool

	// OnRetry вызывается перед ожиданием следующей попытки
	OnRetry func(attempt int, err error, delay time.Duration)
}

// WebhookConfig - политика для setWebhook/deleteWebhook:
// 3 попытки, задержки ~500ms, ~1s
func WebhookConfig() Config {
	return Config{
		Attempts:     3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.1,
	}
}

func (c *Config) normalize() {
	if c.Attempts < 1 {
		c.Attempts = 1
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = 500 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 10 * time.Second
	}
	if c.Multiplier < 1 {
		c.Multiplier = 2.0
	}
	c.JitterFactor = math.Max(0, math.Min(1, c.JitterFactor))
}

// delay вычисляет задержку перед попыткой attempt+1
func (c *Config) delay(attempt int) time.Duration {
	d := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt))
	if d > float64(c.MaxDelay) {
		d = float64(c.MaxDelay)
	}
	if c.JitterFactor > 0 {
		d += d * c.JitterFactor * (rand.Float64()*2 - 1)
	}
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}

// PermanentError - ошибка, которую не нужно повторять
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent помечает ошибку как неповторяемую
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// Do выполняет операцию с повторными попытками.
// Возвращает nil при успехе, иначе последнюю ошибку (PermanentError разворачивается).
// Отмена ctx прерывает ожидание между попытками.
func Do(ctx context.Context, operation func(context.Context) error, cfg Config) error {
	cfg.normalize()

	var lastErr error
	for attempt := 0; attempt < cfg.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		err := operation(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		var perm *PermanentError
		if errors.As(err, &perm) {
			return perm.Err
		}
		if cfg.RetryIf != nil && !cfg.RetryIf(err) {
			return err
		}
		if attempt == cfg.Attempts-1 {
			break
		}

		wait := cfg.delay(attempt)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, err, wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		}
	}

	return lastErr
}

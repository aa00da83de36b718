package utils

import (
	"sync"
	"time"
)

// time.go - источник времени
//
// Назначение:
// Хранилище сессий и обработчики получают время через Clock,
// чтобы истечение сессий можно было проверять в тестах без sleep.

// Clock - источник текущего времени
type Clock interface {
	Now() time.Time
}

// SystemClock возвращает реальное время
type SystemClock struct{}

// Now возвращает time.Now()
func (SystemClock) Now() time.Time {
	return time.Now()
}

// ManualClock - управляемые часы для тестов и отладки.
// Потокобезопасны.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock создаёт часы, стоящие на start
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now возвращает текущее значение часов
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance сдвигает часы вперёд на d
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set устанавливает часы на t
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// FormatISO8601 форматирует время в ISO-8601 с наносекундами (RFC3339Nano)
func FormatISO8601(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

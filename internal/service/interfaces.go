package service

import (
	"context"
	"time"

	"leveragebot/internal/models"
	"leveragebot/internal/repository"
)

// SessionRepositoryInterface определяет интерфейс хранилища сессий
type SessionRepositoryInterface interface {
	GetState(id models.ChatID) (models.ConversationState, bool)
	Snapshot(id models.ChatID) (models.Session, bool)
	Begin(id models.ChatID) models.NewSession
	Advance(id models.ChatID, from models.ConversationState, data models.SessionData) bool
	Finish(id models.ChatID, from models.ConversationState) (models.SessionData, bool)
	Clear(id models.ChatID)
	Sweep(now time.Time) (removed int, swept bool)
	Len() int
}

// MessageSender - отправка сообщений в чат (Telegram Bot API)
type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text, parseMode string) error
}

// Проверяем, что реальный репозиторий реализует интерфейс
var _ SessionRepositoryInterface = (*repository.SessionRepository)(nil)

// ============ Интерфейсы сервисов для Dependency Injection ============

// ConversationServiceInterface определяет интерфейс сервиса диалогов
type ConversationServiceInterface interface {
	HandleText(ctx context.Context, chatID int64, text string) error
	ActiveSessions() int
}

// Проверяем, что реальные сервисы реализуют интерфейсы
var _ ConversationServiceInterface = (*ConversationService)(nil)

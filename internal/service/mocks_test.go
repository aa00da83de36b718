package service

import (
	"context"
	"errors"
	"sync"

	"leveragebot/internal/models"
)

// ============ Mock MessageSender ============

type sentMessage struct {
	ChatID    int64
	Text      string
	ParseMode string
}

type MockMessageSender struct {
	mu      sync.Mutex
	sent    []sentMessage
	sendErr error
}

func NewMockMessageSender() *MockMessageSender {
	return &MockMessageSender{}
}

func (m *MockMessageSender) SendMessage(ctx context.Context, chatID int64, text, parseMode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMessage{ChatID: chatID, Text: text, ParseMode: parseMode})
	return m.sendErr
}

func (m *MockMessageSender) Messages() []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

func (m *MockMessageSender) Last() sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMessage{}
	}
	return m.sent[len(m.sent)-1]
}

func (m *MockMessageSender) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
}

var errSendFailed = errors.New("telegram unavailable")

// corruptStateStore отдаёт снимки с неизвестным состоянием
type corruptStateStore struct {
	SessionRepositoryInterface
}

func (c corruptStateStore) Snapshot(id models.ChatID) (models.Session, bool) {
	snap, ok := c.SessionRepositoryInterface.Snapshot(id)
	if ok {
		snap.State = models.ConversationState(9)
	}
	return snap, ok
}

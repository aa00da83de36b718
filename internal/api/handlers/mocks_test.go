package handlers

import (
	"context"
	"sync"
)

// ============ Mock ConversationService ============

type handledText struct {
	ChatID int64
	Text   string
}

type MockConversationService struct {
	mu       sync.Mutex
	handled  []handledText
	err      error
	sessions int
}

func NewMockConversationService() *MockConversationService {
	return &MockConversationService{}
}

func (m *MockConversationService) HandleText(ctx context.Context, chatID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handled = append(m.handled, handledText{ChatID: chatID, Text: text})
	return m.err
}

func (m *MockConversationService) ActiveSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions
}

func (m *MockConversationService) Calls() []handledText {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]handledText, len(m.handled))
	copy(out, m.handled)
	return out
}

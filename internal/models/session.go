package models

import "time"

// ChatID - идентификатор чата Telegram, ключ всех сессий
type ChatID int64

// ConversationState - шаг диалога расчёта плеча
type ConversationState int

// Состояния диалога.
// StateNoSession никогда не хранится: отсутствие записи и есть NoSession.
const (
	StateNoSession ConversationState = iota
	StateAwaitingEntry
	StateAwaitingStopLoss
	StateAwaitingMargin
)

// String возвращает имя состояния для логов и метрик
func (s ConversationState) String() string {
	switch s {
	case StateNoSession:
		return "no_session"
	case StateAwaitingEntry:
		return "awaiting_entry"
	case StateAwaitingStopLoss:
		return "awaiting_stop_loss"
	case StateAwaitingMargin:
		return "awaiting_margin"
	default:
		return "unknown"
	}
}

// IsValid возвращает true для известных состояний
func (s ConversationState) IsValid() bool {
	return s >= StateNoSession && s <= StateAwaitingMargin
}

// SessionData - данные сессии на конкретном шаге.
//
// Закрытый интерфейс с вариантом на каждый шаг: поле появляется
// только когда пользователь его ввёл, поэтому "0.0 = не задано" не бывает.
//
//	NewSession   -> ожидаем цену входа
//	EntrySet     -> ожидаем стоп-лосс
//	StopLossSet  -> ожидаем маржу
type SessionData interface {
	// Stage возвращает состояние, в котором эти данные валидны
	Stage() ConversationState
	// Started возвращает время создания сессии (/start)
	Started() time.Time

	sealed()
}

// NewSession - сессия сразу после /start
type NewSession struct {
	CreatedAt time.Time
}

// EntrySet - введена цена входа
type EntrySet struct {
	CreatedAt  time.Time
	EntryPrice float64
}

// StopLossSet - введены цена входа и стоп-лосс
type StopLossSet struct {
	CreatedAt  time.Time
	EntryPrice float64
	StopLoss   float64
}

func (NewSession) Stage() ConversationState  { return StateAwaitingEntry }
func (EntrySet) Stage() ConversationState    { return StateAwaitingStopLoss }
func (StopLossSet) Stage() ConversationState { return StateAwaitingMargin }

func (d NewSession) Started() time.Time  { return d.CreatedAt }
func (d EntrySet) Started() time.Time    { return d.CreatedAt }
func (d StopLossSet) Started() time.Time { return d.CreatedAt }

func (NewSession) sealed()  {}
func (EntrySet) sealed()    {}
func (StopLossSet) sealed() {}

// WithEntry переводит новую сессию на следующий шаг
func (d NewSession) WithEntry(entryPrice float64) EntrySet {
	return EntrySet{CreatedAt: d.CreatedAt, EntryPrice: entryPrice}
}

// WithStopLoss добавляет стоп-лосс
func (d EntrySet) WithStopLoss(stopLoss float64) StopLossSet {
	return StopLossSet{CreatedAt: d.CreatedAt, EntryPrice: d.EntryPrice, StopLoss: stopLoss}
}

// WithMargin завершает ввод и возвращает позицию.
// Позиция не хранится: после расчёта сессия удаляется.
func (d StopLossSet) WithMargin(margin float64) Position {
	return Position{EntryPrice: d.EntryPrice, StopLoss: d.StopLoss, Margin: margin}
}

// Position - полностью введённые параметры позиции
type Position struct {
	EntryPrice float64
	StopLoss   float64
	Margin     float64
}

// Session - снимок сессии чата: состояние, данные и время последнего изменения
type Session struct {
	ChatID    ChatID
	State     ConversationState
	Data      SessionData // nil если данные отсутствуют
	TouchedAt time.Time
}

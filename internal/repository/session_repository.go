package repository

import (
	"errors"
	"sync"
	"time"

	"leveragebot/internal/models"
	"leveragebot/pkg/utils"
)

// Значения по умолчанию для хранилища сессий
const (
	DefaultSessionTTL    = time.Hour
	DefaultSweepInterval = time.Hour
)

// Ошибки хранилища сессий
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNoSessionState  = errors.New("no_session state cannot be stored")
)

// sessionRecord - состояние, данные и время изменения одного чата.
// Всегда читается и пишется целиком под мьютексом репозитория.
type sessionRecord struct {
	state   models.ConversationState
	data    models.SessionData
	touched time.Time
}

// SessionRepository - in-memory хранилище диалогов по чатам
//
// Отсутствие записи означает NoSession. Очистка устаревших записей
// выполняется методом Sweep, который вызывается на пути запроса и
// срабатывает не чаще одного раза за sweepInterval.
type SessionRepository struct {
	mu        sync.Mutex
	sessions  map[models.ChatID]*sessionRecord
	lastSwept time.Time

	clock         utils.Clock
	ttl           time.Duration
	sweepInterval time.Duration
	logger        *utils.Logger
}

// NewSessionRepository создает хранилище.
// Нулевые ttl и sweepInterval заменяются значениями по умолчанию, nil clock - системным временем.
func NewSessionRepository(clock utils.Clock, ttl, sweepInterval time.Duration, logger *utils.Logger) *SessionRepository {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	if logger == nil {
		logger = utils.NewNopLogger()
	}

	return &SessionRepository{
		sessions:      make(map[models.ChatID]*sessionRecord),
		lastSwept:     clock.Now(),
		clock:         clock,
		ttl:           ttl,
		sweepInterval: sweepInterval,
		logger:        logger.WithComponent("session_repository"),
	}
}

// ============ Базовые операции ============

// SetState устанавливает состояние чата и обновляет время изменения.
// NoSession не хранится, для сброса используется Clear.
func (r *SessionRepository) SetState(id models.ChatID, state models.ConversationState) error {
	if state == models.StateNoSession || !state.IsValid() {
		return ErrNoSessionState
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.sessions[id]
	if !ok {
		rec = &sessionRecord{}
		r.sessions[id] = rec
	}
	rec.state = state
	rec.touched = r.clock.Now()
	return nil
}

// GetState возвращает состояние чата; false если сессии нет
func (r *SessionRepository) GetState(id models.ChatID) (models.ConversationState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.sessions[id]
	if !ok {
		return models.StateNoSession, false
	}
	return rec.state, true
}

// SetData сохраняет данные для существующей сессии
func (r *SessionRepository) SetData(id models.ChatID, data models.SessionData) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	rec.data = data
	return nil
}

// GetData возвращает данные сессии; false если сессии или данных нет
func (r *SessionRepository) GetData(id models.ChatID) (models.SessionData, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.sessions[id]
	if !ok || rec.data == nil {
		return nil, false
	}
	return rec.data, true
}

// Snapshot возвращает копию сессии целиком
func (r *SessionRepository) Snapshot(id models.ChatID) (models.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.sessions[id]
	if !ok {
		return models.Session{ChatID: id, State: models.StateNoSession}, false
	}
	return models.Session{
		ChatID:    id,
		State:     rec.state,
		Data:      rec.data,
		TouchedAt: rec.touched,
	}, true
}

// Clear удаляет сессию. Повторный вызов ничего не делает.
func (r *SessionRepository) Clear(id models.ChatID) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len возвращает количество сессий
func (r *SessionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// ============ Атомарные переходы ============

// Begin начинает новую сессию (или перезапускает текущую) с состоянием AwaitingEntry
func (r *SessionRepository) Begin(id models.ChatID) models.NewSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	data := models.NewSession{CreatedAt: now}
	r.sessions[id] = &sessionRecord{
		state:   data.Stage(),
		data:    data,
		touched: now,
	}
	return data
}

// Advance записывает данные следующего шага, если чат всё ещё находится в состоянии from.
// Новое состояние берётся из data.Stage(). Возвращает false если состояние
// уже изменилось (например, при повторной доставке того же обновления).
func (r *SessionRepository) Advance(id models.ChatID, from models.ConversationState, data models.SessionData) bool {
	if data == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.sessions[id]
	if !ok || rec.state != from {
		return false
	}
	rec.state = data.Stage()
	rec.data = data
	rec.touched = r.clock.Now()
	return true
}

// Finish удаляет сессию, если чат находится в состоянии from, и возвращает её данные.
// data может быть nil если запись была без данных.
func (r *SessionRepository) Finish(id models.ChatID, from models.ConversationState) (models.SessionData, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.sessions[id]
	if !ok || rec.state != from {
		return nil, false
	}
	delete(r.sessions, id)
	return rec.data, true
}

// ============ Очистка ============

// Sweep удаляет сессии, не изменявшиеся дольше ttl.
//
// Проверка дешёвая: если с прошлой очистки прошло меньше sweepInterval,
// метод сразу возвращает (0, false). Поэтому устаревшая сессия может
// прожить до ttl+sweepInterval.
func (r *SessionRepository) Sweep(now time.Time) (removed int, swept bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if now.Sub(r.lastSwept) < r.sweepInterval {
		return 0, false
	}

	for id, rec := range r.sessions {
		if now.Sub(rec.touched) > r.ttl {
			delete(r.sessions, id)
			removed++
			r.logger.Info("Cleaned up expired session", utils.ChatID(int64(id)))
		}
	}
	r.lastSwept = now

	r.logger.Debug("Session sweep finished",
		utils.Int("removed", removed),
		utils.Int("remaining", len(r.sessions)),
	)
	return removed, true
}

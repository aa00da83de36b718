package bot

import "leveragebot/internal/models"

// ValidTransitions определяет допустимые переходы между шагами диалога.
//
// /start разрешён из любого состояния (сброс), поэтому AwaitingEntry
// присутствует в каждом списке. Возврат в NoSession происходит только через
// удаление сессии, но переход описан явно, чтобы его можно было проверить.
var ValidTransitions = map[models.ConversationState][]models.ConversationState{
	models.StateNoSession:        {models.StateAwaitingEntry},
	models.StateAwaitingEntry:    {models.StateAwaitingEntry, models.StateAwaitingStopLoss, models.StateNoSession},
	models.StateAwaitingStopLoss: {models.StateAwaitingEntry, models.StateAwaitingMargin, models.StateNoSession},
	models.StateAwaitingMargin:   {models.StateAwaitingEntry, models.StateNoSession},
}

// CanTransition проверяет допустимость перехода
func CanTransition(from, to models.ConversationState) bool {
	allowed, ok := ValidTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// NextState возвращает следующий шаг после успешного ввода.
// Для AwaitingMargin следующий шаг - NoSession (расчёт и удаление сессии).
func NextState(s models.ConversationState) (models.ConversationState, bool) {
	switch s {
	case models.StateAwaitingEntry:
		return models.StateAwaitingStopLoss, true
	case models.StateAwaitingStopLoss:
		return models.StateAwaitingMargin, true
	case models.StateAwaitingMargin:
		return models.StateNoSession, true
	default:
		return models.StateNoSession, false
	}
}

// StateInfo возвращает описание состояния для логов и отладки
func StateInfo(s models.ConversationState) string {
	switch s {
	case models.StateNoSession:
		return "No active calculation"
	case models.StateAwaitingEntry:
		return "Waiting for entry price"
	case models.StateAwaitingStopLoss:
		return "Waiting for stop loss"
	case models.StateAwaitingMargin:
		return "Waiting for margin amount"
	default:
		return "Unknown state"
	}
}

// IsActive возвращает true если у чата идёт ввод данных
func IsActive(s models.ConversationState) bool {
	return s == models.StateAwaitingEntry || s == models.StateAwaitingStopLoss || s == models.StateAwaitingMargin
}

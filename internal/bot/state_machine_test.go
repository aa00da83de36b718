package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"leveragebot/internal/models"
)

// TestCanTransition_ValidTransitions проверяет все валидные переходы между шагами
func TestCanTransition_ValidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from models.ConversationState
		to   models.ConversationState
	}{
		{"no_session → awaiting_entry (/start)", models.StateNoSession, models.StateAwaitingEntry},
		{"awaiting_entry → awaiting_entry (/start restart)", models.StateAwaitingEntry, models.StateAwaitingEntry},
		{"awaiting_entry → awaiting_stop_loss (entry accepted)", models.StateAwaitingEntry, models.StateAwaitingStopLoss},
		{"awaiting_entry → no_session (expired)", models.StateAwaitingEntry, models.StateNoSession},
		{"awaiting_stop_loss → awaiting_margin (stop loss accepted)", models.StateAwaitingStopLoss, models.StateAwaitingMargin},
		{"awaiting_stop_loss → awaiting_entry (/start restart)", models.StateAwaitingStopLoss, models.StateAwaitingEntry},
		{"awaiting_stop_loss → no_session (expired)", models.StateAwaitingStopLoss, models.StateNoSession},
		{"awaiting_margin → no_session (calculated)", models.StateAwaitingMargin, models.StateNoSession},
		{"awaiting_margin → awaiting_entry (/start restart)", models.StateAwaitingMargin, models.StateAwaitingEntry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, CanTransition(tt.from, tt.to))
		})
	}
}

// TestCanTransition_InvalidTransitions проверяет, что шаги нельзя пропустить
func TestCanTransition_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from models.ConversationState
		to   models.ConversationState
	}{
		{"no_session → awaiting_stop_loss", models.StateNoSession, models.StateAwaitingStopLoss},
		{"no_session → awaiting_margin", models.StateNoSession, models.StateAwaitingMargin},
		{"no_session → no_session", models.StateNoSession, models.StateNoSession},
		{"awaiting_entry → awaiting_margin (skip)", models.StateAwaitingEntry, models.StateAwaitingMargin},
		{"awaiting_stop_loss → awaiting_stop_loss", models.StateAwaitingStopLoss, models.StateAwaitingStopLoss},
		{"awaiting_margin → awaiting_stop_loss (backwards)", models.StateAwaitingMargin, models.StateAwaitingStopLoss},
		{"awaiting_margin → awaiting_margin", models.StateAwaitingMargin, models.StateAwaitingMargin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCanTransition_UnknownState(t *testing.T) {
	unknown := models.ConversationState(99)
	assert.False(t, CanTransition(unknown, models.StateAwaitingEntry))
	assert.False(t, CanTransition(models.StateAwaitingEntry, unknown))
}

// TestValidTransitions_Completeness проверяет, что у каждого состояния есть запись
func TestValidTransitions_Completeness(t *testing.T) {
	all := []models.ConversationState{
		models.StateNoSession,
		models.StateAwaitingEntry,
		models.StateAwaitingStopLoss,
		models.StateAwaitingMargin,
	}
	for _, s := range all {
		_, ok := ValidTransitions[s]
		assert.True(t, ok, "state %s has no transitions", s)
	}

	for from, targets := range ValidTransitions {
		for _, to := range targets {
			assert.True(t, to.IsValid(), "%s → %s targets unknown state", from, to)
		}
	}
}

// TestValidTransitions_StartFromAnywhere - /start допустим из любого состояния
func TestValidTransitions_StartFromAnywhere(t *testing.T) {
	for from := range ValidTransitions {
		assert.True(t, CanTransition(from, models.StateAwaitingEntry), "from %s", from)
	}
}

func TestNextState(t *testing.T) {
	tests := []struct {
		from   models.ConversationState
		want   models.ConversationState
		wantOK bool
	}{
		{models.StateAwaitingEntry, models.StateAwaitingStopLoss, true},
		{models.StateAwaitingStopLoss, models.StateAwaitingMargin, true},
		{models.StateAwaitingMargin, models.StateNoSession, true},
		{models.StateNoSession, models.StateNoSession, false},
		{models.ConversationState(7), models.StateNoSession, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			got, ok := NextState(tt.from)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.True(t, CanTransition(tt.from, got), "NextState must be a valid transition")
			}
		})
	}
}

func TestStateInfo_AllStates(t *testing.T) {
	tests := []struct {
		state models.ConversationState
		want  string
	}{
		{models.StateNoSession, "No active calculation"},
		{models.StateAwaitingEntry, "Waiting for entry price"},
		{models.StateAwaitingStopLoss, "Waiting for stop loss"},
		{models.StateAwaitingMargin, "Waiting for margin amount"},
		{models.ConversationState(-3), "Unknown state"},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, StateInfo(tt.state))
		})
	}
}

func TestIsActive(t *testing.T) {
	assert.False(t, IsActive(models.StateNoSession))
	assert.True(t, IsActive(models.StateAwaitingEntry))
	assert.True(t, IsActive(models.StateAwaitingStopLoss))
	assert.True(t, IsActive(models.StateAwaitingMargin))
	assert.False(t, IsActive(models.ConversationState(10)))
}

// TestStateFlow_FullCalculation проходит полный цикл диалога
func TestStateFlow_FullCalculation(t *testing.T) {
	flow := []models.ConversationState{
		models.StateNoSession,
		models.StateAwaitingEntry,
		models.StateAwaitingStopLoss,
		models.StateAwaitingMargin,
		models.StateNoSession,
	}

	for i := 0; i < len(flow)-1; i++ {
		assert.True(t, CanTransition(flow[i], flow[i+1]), "%s → %s", flow[i], flow[i+1])
	}
}

func BenchmarkCanTransition(b *testing.B) {
	for i := 0; i < b.N; i++ {
		CanTransition(models.StateAwaitingStopLoss, models.StateAwaitingMargin)
	}
}

package service

import (
	"context"
	"errors"
	"strings"

	"leveragebot/internal/bot"
	"leveragebot/internal/models"
	"leveragebot/pkg/utils"
)

// Команды бота
const (
	CommandStart = "/start"
	CommandHelp  = "/help"
)

// ConversationService ведёт диалог расчёта плеча для каждого чата.
//
// Отвечает за:
// - Разбор команд /start и /help
// - Пошаговый ввод цены входа, стоп-лосса и маржи
// - Расчёт плеча и отправку результата
// - Ленивую очистку устаревших сессий на каждом обновлении
//
// Ошибки ввода, истёкшие сессии и ошибки расчёта превращаются в ответы
// пользователю. Ошибка возвращается только для непредвиденных ситуаций.
// Неудачная отправка сообщения логируется и не прерывает обработку.
type ConversationService struct {
	store  SessionRepositoryInterface
	sender MessageSender
	clock  utils.Clock
	logger *utils.Logger
}

// NewConversationService создает новый экземпляр ConversationService
func NewConversationService(store SessionRepositoryInterface, sender MessageSender, clock utils.Clock, logger *utils.Logger) *ConversationService {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &ConversationService{
		store:  store,
		sender: sender,
		clock:  clock,
		logger: logger.WithComponent("conversation"),
	}
}

// HandleText обрабатывает текстовое сообщение из чата.
func (s *ConversationService) HandleText(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	id := models.ChatID(chatID)
	text = strings.TrimSpace(text)

	s.sweep()

	switch parseCommand(text) {
	case CommandStart:
		s.handleStart(ctx, id)
	case CommandHelp:
		s.handleHelp(ctx, id)
	default:
		s.handleInput(ctx, id, text)
	}

	bot.UpdateActiveSessions(s.store.Len())
	return nil
}

// ActiveSessions возвращает количество активных сессий
func (s *ConversationService) ActiveSessions() int {
	return s.store.Len()
}

// parseCommand возвращает команду без аргументов и суффикса @BotName.
// Для обычного текста возвращает пустую строку.
func parseCommand(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd := strings.Fields(text)[0]
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}
	return cmd
}

func (s *ConversationService) sweep() {
	removed, swept := s.store.Sweep(s.clock.Now())
	if !swept {
		return
	}
	bot.RecordSweep(removed, s.store.Len())
	if removed > 0 {
		s.logger.Info("Expired sessions removed", utils.Int("removed", removed))
	}
}

// ============ Команды ============

func (s *ConversationService) handleStart(ctx context.Context, id models.ChatID) {
	bot.RecordUpdate(bot.UpdateKindStart)

	prev, _ := s.store.GetState(id)
	s.store.Begin(id)
	s.logTransition(id, prev, models.StateAwaitingEntry)

	s.send(ctx, id, MsgWelcome, "")
}

func (s *ConversationService) handleHelp(ctx context.Context, id models.ChatID) {
	bot.RecordUpdate(bot.UpdateKindHelp)
	s.send(ctx, id, MsgHelp, ParseModeMarkdown)
}

// ============ Ввод данных ============

func (s *ConversationService) handleInput(ctx context.Context, id models.ChatID, text string) {
	snap, ok := s.store.Snapshot(id)
	if !ok {
		bot.RecordUpdate(bot.UpdateKindHint)
		s.send(ctx, id, MsgStartHint, "")
		return
	}

	bot.RecordUpdate(bot.UpdateKindInput)

	if !bot.IsActive(snap.State) {
		s.logger.Error("Session in unexpected state, resetting",
			utils.ChatID(int64(id)),
			utils.State(snap.State.String()),
		)
		s.store.Clear(id)
		s.send(ctx, id, MsgGenericError, "")
		return
	}

	switch snap.State {
	case models.StateAwaitingEntry:
		s.handleEntryPrice(ctx, snap, text)
	case models.StateAwaitingStopLoss:
		s.handleStopLoss(ctx, snap, text)
	case models.StateAwaitingMargin:
		s.handleMargin(ctx, snap, text)
	}
}

func (s *ConversationService) handleEntryPrice(ctx context.Context, snap models.Session, text string) {
	entryPrice, ok := utils.ValidateNumber(text)
	if !ok {
		s.send(ctx, snap.ChatID, MsgInvalidNumber, "")
		return
	}

	// Цена входа не требует предыдущих данных: достаточно начать сессию заново
	base, ok := snap.Data.(models.NewSession)
	if !ok {
		base = models.NewSession{CreatedAt: s.clock.Now()}
	}

	next := base.WithEntry(entryPrice)
	if !s.store.Advance(snap.ChatID, snap.State, next) {
		s.logStale(snap)
		return
	}
	s.logTransition(snap.ChatID, snap.State, next.Stage())

	s.send(ctx, snap.ChatID, MsgAskStopLoss, "")
}

func (s *ConversationService) handleStopLoss(ctx context.Context, snap models.Session, text string) {
	stopLoss, ok := utils.ValidateNumber(text)
	if !ok {
		s.send(ctx, snap.ChatID, MsgInvalidNumber, "")
		return
	}

	data, ok := snap.Data.(models.EntrySet)
	if !ok {
		s.expire(ctx, snap)
		return
	}

	next := data.WithStopLoss(stopLoss)
	if !s.store.Advance(snap.ChatID, snap.State, next) {
		s.logStale(snap)
		return
	}
	s.logTransition(snap.ChatID, snap.State, next.Stage())

	s.send(ctx, snap.ChatID, MsgAskMargin, "")
}

// handleMargin завершает диалог: сессия удаляется независимо от результата расчёта
func (s *ConversationService) handleMargin(ctx context.Context, snap models.Session, text string) {
	margin, ok := utils.ValidateNumber(text)
	if !ok {
		s.send(ctx, snap.ChatID, MsgInvalidNumber, "")
		return
	}

	stored, ok := s.store.Finish(snap.ChatID, snap.State)
	if !ok {
		s.logStale(snap)
		return
	}
	done, _ := bot.NextState(snap.State)
	s.logTransition(snap.ChatID, snap.State, done)

	data, ok := stored.(models.StopLossSet)
	if !ok {
		s.expire(ctx, snap)
		return
	}

	pos := data.WithMargin(margin)
	res, err := bot.CalculateLeverage(pos.EntryPrice, pos.StopLoss)
	if err != nil {
		bot.RecordCalculation(false)
		s.logger.Info("Leverage calculation rejected",
			utils.ChatID(int64(snap.ChatID)),
			utils.Err(err),
		)
		if errors.Is(err, bot.ErrZeroEntryPrice) || errors.Is(err, bot.ErrZeroDifference) {
			s.send(ctx, snap.ChatID, FormatCalculationError(err), "")
		} else {
			s.send(ctx, snap.ChatID, MsgCalcFailed, "")
		}
		return
	}

	bot.RecordCalculation(true)
	s.logger.Debug("Leverage calculated",
		utils.ChatID(int64(snap.ChatID)),
		utils.Float64("distance_pct", res.DistancePct),
		utils.Float64("leverage", res.Leverage),
	)
	s.send(ctx, snap.ChatID, FormatResult(pos, res), ParseModeMarkdown)
}

// ============ Хелперы ============

// expire сбрасывает сессию без данных нужного шага
func (s *ConversationService) expire(ctx context.Context, snap models.Session) {
	s.logger.Warn("Session data missing, resetting",
		utils.ChatID(int64(snap.ChatID)),
		utils.State(snap.State.String()),
	)
	s.store.Clear(snap.ChatID)
	s.send(ctx, snap.ChatID, MsgSessionExpired, "")
}

// logStale - обновление проиграло гонку (повторная доставка или параллельный запрос)
func (s *ConversationService) logStale(snap models.Session) {
	s.logger.Debug("Stale update ignored",
		utils.ChatID(int64(snap.ChatID)),
		utils.State(snap.State.String()),
	)
}

func (s *ConversationService) logTransition(id models.ChatID, from, to models.ConversationState) {
	if !bot.CanTransition(from, to) {
		s.logger.Error("Unexpected state transition",
			utils.ChatID(int64(id)),
			utils.String("from", from.String()),
			utils.String("to", to.String()),
		)
		return
	}
	s.logger.Debug(bot.StateInfo(to),
		utils.ChatID(int64(id)),
		utils.String("from", from.String()),
		utils.State(to.String()),
	)
}

// send отправляет сообщение; ошибка логируется и учитывается в метриках
func (s *ConversationService) send(ctx context.Context, id models.ChatID, text, parseMode string) {
	if err := s.sender.SendMessage(ctx, int64(id), text, parseMode); err != nil {
		bot.RecordSendFailure()
		s.logger.Warn("Failed to send message",
			utils.ChatID(int64(id)),
			utils.Err(err),
		)
	}
}

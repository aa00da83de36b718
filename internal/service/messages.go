package service

import (
	"fmt"
	"strings"

	"leveragebot/internal/bot"
	"leveragebot/internal/models"
	"leveragebot/pkg/utils"
)

// ParseModeMarkdown - режим разметки Telegram для справки и результата
const ParseModeMarkdown = "Markdown"

// Тексты ответов бота
const (
	MsgWelcome = "🚀 Welcome to the Leverage Calculator!\n\n" +
		"I'll help you calculate the leverage needed to lose 100% of your margin " +
		"if the price hits your stop loss.\n\n" +
		"📥 Please enter your Entry Price (USDT):"

	MsgHelp = "📚 *How to use this bot:*\n\n" +
		"1. Use /start to begin a new calculation\n" +
		"2. Enter your entry price in USDT\n" +
		"3. Enter your stop loss price in USDT\n" +
		"4. Enter your margin amount in USDT\n\n" +
		"The bot will calculate:\n" +
		"• Percentage distance to stop loss\n" +
		"• Required leverage to lose 100% of margin\n\n"

	MsgStartHint      = "Use /start to begin or /help for instructions."
	MsgInvalidNumber  = "⛔ Please enter a valid number between 0.01 and 1,000,000 USDT."
	MsgAskStopLoss    = "📉 Please enter your Stop Loss (USDT):"
	MsgAskMargin      = "💵 Please enter your margin amount in USDT:"
	MsgSessionExpired = "❌ Session expired. Please use /start again."
	MsgGenericError   = "❌ An error occurred. Please try /start again."
	MsgCalcFailed     = "❌ An error occurred during calculation."
)

// FormatCalculationError формирует ответ на ошибку расчёта
func FormatCalculationError(err error) string {
	msg := err.Error()
	if msg != "" {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}
	return "❌ Calculation error: " + msg
}

// FormatResult формирует сообщение с результатом расчёта (Markdown)
func FormatResult(pos models.Position, res bot.LeverageResult) string {
	stopLoss := utils.FormatAmount(pos.StopLoss)
	leverage := utils.FormatFloat(res.Leverage)

	var b strings.Builder
	b.WriteString("📊 *Calculation Results:*\n\n")
	fmt.Fprintf(&b, "📥 Entry Price: %s USDT\n", utils.FormatAmount(pos.EntryPrice))
	fmt.Fprintf(&b, "📉 Stop Loss: %s USDT\n", stopLoss)
	fmt.Fprintf(&b, "💰 Margin: %s USDT\n\n", utils.FormatAmount(pos.Margin))
	fmt.Fprintf(&b, "🔻 Distance to SL: %s%%\n", utils.FormatFloat(res.DistancePct))
	fmt.Fprintf(&b, "📈 Required Leverage: %sx\n\n", leverage)
	fmt.Fprintf(&b, "⚠️ *Risk Warning:* Using %sx leverage means your margin "+
		"will be completely lost if the price reaches %s USDT.\n\n", leverage, stopLoss)
	b.WriteString("💡 Use /start for a new calculation")
	return b.String()
}

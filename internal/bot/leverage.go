package bot

import (
	"errors"

	"leveragebot/pkg/utils"
)

// Ошибки расчёта плеча
var (
	ErrZeroEntryPrice = errors.New("entry price cannot be zero")
	ErrZeroDifference = errors.New("entry price and stop loss cannot be the same")
)

// LeverageResult - результат расчёта
type LeverageResult struct {
	// DistancePct - расстояние от входа до стоп-лосса в процентах
	DistancePct float64
	// Leverage - плечо, при котором маржа полностью теряется на стоп-лоссе
	Leverage float64
}

// CalculateLeverage рассчитывает плечо, при котором движение цены от entryPrice
// до stopLoss съедает 100% маржи.
//
//	distance = |stopLoss - entryPrice| / entryPrice * 100
//	leverage = 100 / distance
//
// Плечо считается от неокруглённого расстояния, затем оба значения
// округляются до 2 знаков. Направление (long/short) не важно.
//
// Пример: CalculateLeverage(100, 90) = {10.0, 10.0}
func CalculateLeverage(entryPrice, stopLoss float64) (LeverageResult, error) {
	if entryPrice == 0 {
		return LeverageResult{}, ErrZeroEntryPrice
	}

	diff := utils.Abs(stopLoss - entryPrice)
	if diff == 0 {
		return LeverageResult{}, ErrZeroDifference
	}

	distance := diff / utils.Abs(entryPrice) * 100
	leverage := 100 / distance

	return LeverageResult{
		DistancePct: utils.Round2(distance),
		Leverage:    utils.Round2(leverage),
	}, nil
}

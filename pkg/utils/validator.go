package utils

import (
	"math"
	"strconv"
	"strings"
)

// validator.go - валидация пользовательского ввода
//
// Назначение:
// Проверка числовых значений, которые пользователь вводит в чат
// (цена входа, стоп-лосс, маржа).
//
// Границы асимметричны: нижняя граница исключается, верхняя включается.
// Значение 0.01 отклоняется, 1,000,000 принимается.

const (
	// DefaultMinValue - нижняя граница (исключительная)
	DefaultMinValue = 0.01
	// DefaultMaxValue - верхняя граница (включительная)
	DefaultMaxValue = 1_000_000
)

// ValidateNumber разбирает text как десятичное число в пределах
// (DefaultMinValue, DefaultMaxValue].
//
// Возвращает значение и true, либо 0 и false если текст не число
// или значение вне диапазона.
func ValidateNumber(text string) (float64, bool) {
	return ValidateNumberInRange(text, DefaultMinValue, DefaultMaxValue)
}

// ValidateNumberInRange разбирает text и проверяет min < value <= max.
//
// Пробелы по краям игнорируются. Принимается только десятичная запись:
// шестнадцатеричные литералы ("0x1p4"), NaN и бесконечности отклоняются,
// хотя strconv.ParseFloat их понимает.
func ValidateNumberInRange(text string, min, max float64) (float64, bool) {
	text = strings.TrimSpace(text)
	if strings.ContainsAny(text, "xX") {
		return 0, false
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}

	if value <= min || value > max {
		return 0, false
	}

	return value, true
}

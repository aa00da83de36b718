package utils

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// math.go - математические утилиты для расчёта риска позиции
//
// Назначение:
// Округление и форматирование денежных величин для ответов бота.
// Все функции являются чистыми (pure functions) без побочных эффектов.
//
// Функции:
// - RoundTo: округление до N знаков после запятой (половины к чётному)
// - Round2: округление до 2 знаков
// - FormatAmount: сумма с разделителем тысяч и 2 знаками (1,234.50)
// - FormatFloat: кратчайшее представление числа, минимум один знак после точки (10.0, 6.67)

// exactDecimal возвращает точное десятичное значение float64.
//
// Знаменатель двоичной дроби - степень двойки 2^k, поэтому её
// десятичная запись конечна и содержит ровно k знаков после запятой.
// В отличие от decimal.NewFromFloat, 1.005 остаётся 1.00499999...
func exactDecimal(value float64) decimal.Decimal {
	r := new(big.Rat).SetFloat64(value)
	places := int32(r.Denom().BitLen() - 1)
	return decimal.NewFromBigRat(r, places)
}

// RoundTo округляет value до places знаков после запятой.
//
// Округляется точное двоичное значение, ровные половины идут к чётной цифре.
//
// Примеры:
//   - RoundTo(6.666666, 2) = 6.67
//   - RoundTo(0.125, 2) = 0.12
//   - RoundTo(1.005, 2) = 1.0 (в float64 это 1.00499999...)
//   - RoundTo(-2.345, 2) = -2.35 (в float64 это -2.34500000...02)
func RoundTo(value float64, places int32) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	return exactDecimal(value).RoundBank(places).InexactFloat64()
}

// Round2 округляет до 2 знаков после запятой
func Round2(value float64) float64 {
	return RoundTo(value, 2)
}

// FormatAmount форматирует сумму с разделителем тысяч и ровно 2 знаками.
// Правило округления то же, что у RoundTo.
//
// Примеры:
//   - FormatAmount(100) = "100.00"
//   - FormatAmount(1234567.891) = "1,234,567.89"
//   - FormatAmount(-1500) = "-1,500.00"
//   - FormatAmount(2.675) = "2.67"
func FormatAmount(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return strconv.FormatFloat(value, 'f', -1, 64)
	}
	fixed := exactDecimal(value).StringFixedBank(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, fracPart := fixed, ""
	if dot := strings.IndexByte(fixed, '.'); dot >= 0 {
		intPart, fracPart = fixed[:dot], fixed[dot:]
	}

	return sign + groupThousands(intPart) + fracPart
}

// groupThousands вставляет запятые между группами по 3 цифры
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatFloat возвращает кратчайшее десятичное представление value.
// Целые значения получают суффикс ".0", чтобы "10x" не путалось с целым количеством.
//
// Примеры:
//   - FormatFloat(10) = "10.0"
//   - FormatFloat(6.67) = "6.67"
//   - FormatFloat(12.5) = "12.5"
func FormatFloat(value float64) string {
	s := strconv.FormatFloat(value, 'f', -1, 64)
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return s
	}
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// Abs возвращает абсолютное значение
func Abs(x float64) float64 {
	return math.Abs(x)
}

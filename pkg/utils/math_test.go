package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTo(t *testing.T) {
	tests := []struct {
		value  float64
		places int32
		want   float64
	}{
		{10.004, 2, 10.0},
		{6.666666, 2, 6.67},
		{1.005, 2, 1.0},
		{0.125, 2, 0.12},
		{0.375, 2, 0.38},
		{2.675, 2, 2.67},
		{0.005, 2, 0.01},
		{-2.345, 2, -2.35},
		{12.5, 0, 12},
		{13.5, 0, 14},
		{0, 2, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundTo(tt.value, tt.places), "RoundTo(%v, %d)", tt.value, tt.places)
	}
}

func TestRoundTo_NonFinite(t *testing.T) {
	assert.True(t, math.IsNaN(RoundTo(math.NaN(), 2)))
	assert.True(t, math.IsInf(RoundTo(math.Inf(1), 2), 1))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 33.33, Round2(100.0/3))
	assert.Equal(t, 3.0, Round2(3))
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0, "0.00"},
		{100, "100.00"},
		{999.999, "1,000.00"},
		{1000, "1,000.00"},
		{1234567.891, "1,234,567.89"},
		{1_000_000, "1,000,000.00"},
		{-1500, "-1,500.00"},
		{0.5, "0.50"},
		{2.675, "2.67"},
		{0.125, "0.12"},
		{1.005, "1.00"},
		{1234.565, "1,234.57"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.value))
		})
	}
}

func TestFormatAmount_NonFinite(t *testing.T) {
	assert.Equal(t, "NaN", FormatAmount(math.NaN()))
	assert.Equal(t, "+Inf", FormatAmount(math.Inf(1)))
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{10, "10.0"},
		{10.0, "10.0"},
		{6.67, "6.67"},
		{12.5, "12.5"},
		{0.1, "0.1"},
		{100, "100.0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFloat(tt.value))
		})
	}
}

func TestAbs(t *testing.T) {
	assert.Equal(t, 10.0, Abs(-10))
	assert.Equal(t, 10.0, Abs(10))
}

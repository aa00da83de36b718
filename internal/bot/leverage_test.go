package bot

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateLeverage(t *testing.T) {
	tests := []struct {
		name         string
		entry        float64
		stopLoss     float64
		wantDistance float64
		wantLeverage float64
	}{
		{"long 10%", 100, 90, 10, 10},
		{"short 10%", 100, 110, 10, 10},
		{"5% gives 20x", 200, 190, 5, 20},
		{"1% gives 100x", 50000, 49500, 1, 100},
		{"3% rounds leverage", 100, 97, 3, 33.33},
		{"leverage from unrounded distance", 3, 2.9, 3.33, 30},
		{"50%", 0.5, 0.25, 50, 2},
		{"half rounds to even", 800, 799, 0.12, 800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := CalculateLeverage(tt.entry, tt.stopLoss)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantDistance, res.DistancePct, 1e-9)
			assert.InDelta(t, tt.wantLeverage, res.Leverage, 1e-9)
		})
	}
}

func TestCalculateLeverage_Errors(t *testing.T) {
	tests := []struct {
		name     string
		entry    float64
		stopLoss float64
		wantErr  error
	}{
		{"zero entry", 0, 50, ErrZeroEntryPrice},
		{"zero entry and stop", 0, 0, ErrZeroEntryPrice},
		{"same price", 100, 100, ErrZeroDifference},
		{"same fractional price", 0.01, 0.01, ErrZeroDifference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateLeverage(tt.entry, tt.stopLoss)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCalculateLeverage_ErrorMessages(t *testing.T) {
	_, err := CalculateLeverage(0, 1)
	assert.EqualError(t, err, "entry price cannot be zero")

	_, err = CalculateLeverage(5, 5)
	assert.EqualError(t, err, "entry price and stop loss cannot be the same")
}

// TestCalculateLeverage_Symmetric - направление сделки не влияет на результат
func TestCalculateLeverage_Symmetric(t *testing.T) {
	long, err := CalculateLeverage(1234.5, 1200)
	require.NoError(t, err)
	short, err := CalculateLeverage(1234.5, 1269)
	require.NoError(t, err)

	assert.Equal(t, long, short)
	assert.False(t, math.IsInf(long.Leverage, 0))
}

func BenchmarkCalculateLeverage(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = CalculateLeverage(100, 90)
	}
}

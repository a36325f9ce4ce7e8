package format

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{
			name:   "without grouping",
			amount: 380,
			want:   "$380.00",
		},
		{
			name:   "with thousands separator",
			amount: 1800,
			want:   "$1,800.00",
		},
		{
			name:   "fractional cents kept",
			amount: 99.9,
			want:   "$99.90",
		},
		{
			name:   "zero",
			amount: 0,
			want:   "$0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Currency(tt.amount))
		})
	}
}

func TestCurrencyCents(t *testing.T) {
	assert.Equal(t, "$380.00", CurrencyCents(38000))
	assert.Equal(t, "$1,800.00", CurrencyCents(180000))
}

func TestDate(t *testing.T) {
	d := time.Date(2025, time.March, 7, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "March 7, 2025", Date(d))
}

func TestDurationMinutes(t *testing.T) {
	assert.Equal(t, "45 min", DurationMinutes(45))
	assert.Equal(t, "1 h 30 min", DurationMinutes(90))
	assert.Equal(t, "2 h", DurationMinutes(120))
}

func TestInstallments_SumIsExact(t *testing.T) {
	tests := []struct {
		name   string
		total  float64
		months int
	}{
		{name: "divides evenly", total: 1800, months: 3},
		{name: "rounding residue", total: 100, months: 3},
		{name: "single month", total: 380, months: 1},
		{name: "twelve months", total: 999.99, months: 12},
		{name: "residue is negative", total: 100.04, months: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts, err := Installments(tt.total, tt.months)
			require.NoError(t, err)
			require.Len(t, parts, tt.months)

			per := math.Round(tt.total/float64(tt.months)*100) / 100
			var sumCents int64
			for i, p := range parts {
				if i < tt.months-1 {
					assert.InDelta(t, per, p, 1e-9)
				}
				sumCents += int64(math.Round(p * 100))
			}
			assert.Equal(t, int64(math.Round(tt.total*100)), sumCents)
		})
	}
}

func TestInstallments_InvalidMonths(t *testing.T) {
	_, err := Installments(100, 0)
	assert.Error(t, err)

	_, err = Installments(100, -2)
	assert.Error(t, err)
}

func TestInstallmentsCents(t *testing.T) {
	parts, err := InstallmentsCents(10000, 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{3333, 3333, 3334}, parts)

	var sum int64
	for _, p := range parts {
		sum += p
	}
	assert.Equal(t, int64(10000), sum)
}

package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fintrack/internal/core"
)

func TestRawTrend(t *testing.T) {
	cases := []struct {
		name       string
		this, last float64
		want       float64
	}{
		{"growth", 150, 100, 50},
		{"decline", 50, 100, -50},
		{"flat", 100, 100, 0},
		{"no prior data uses divisor one", 50, 0, 4900},
		{"nothing at all", 0, 0, -100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RawTrend(tc.this, tc.last))
		})
	}
}

func TestNewTrendVariant(t *testing.T) {
	tr := NewTrend(50, 0)
	assert.Equal(t, TrendNoPriorData, tr.Status)
	assert.False(t, tr.HasPriorData())
	assert.Equal(t, 0.0, tr.Percent)
	assert.Equal(t, 4900.0, tr.Raw)

	tr = NewTrend(150, 100)
	assert.Equal(t, TrendChange, tr.Status)
	assert.Equal(t, 50.0, tr.Percent)
	assert.Equal(t, 50.0, tr.Raw)
}

func TestMonthOverMonth(t *testing.T) {
	feb := time.Date(2025, time.February, 10, 9, 0, 0, 0, time.UTC)
	mar := time.Date(2025, time.March, 2, 9, 0, 0, 0, time.UTC)
	jan := time.Date(2025, time.January, 20, 9, 0, 0, 0, time.UTC)

	txs := []core.Transaction{
		txAt(feb, "100", core.Expense),
		txAt(mar, "150", core.Expense),
		txAt(mar.Add(time.Hour), "50", core.Income),
		txAt(jan, "999", core.Income),
	}

	s := Compute(txs, opts())

	assert.Equal(t, TrendChange, s.Trend.Expenses.Status)
	assert.Equal(t, 50.0, s.Trend.Expenses.Percent)
	assert.Equal(t, TrendNoPriorData, s.Trend.Income.Status)
	assert.Equal(t, 4900.0, s.Trend.Income.Raw)
}

func TestMonthOverMonthWrapsJanuary(t *testing.T) {
	now := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		txAt(time.Date(2024, time.December, 5, 0, 0, 0, 0, time.UTC), "200", core.Income),
		txAt(time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC), "100", core.Income),
	}

	tr := MonthOverMonth(txs, now, time.UTC)

	assert.Equal(t, -50.0, tr.Income.Raw)
	assert.True(t, tr.Income.HasPriorData())
}

// Months are matched by month of the year only, so last year's March still
// counts as this month.
func TestMonthOverMonthIgnoresYear(t *testing.T) {
	txs := []core.Transaction{
		txAt(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), "10", core.Expense),
		txAt(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), "10", core.Expense),
		txAt(time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), "10", core.Expense),
	}

	tr := MonthOverMonth(txs, march2025, time.UTC)

	assert.Equal(t, 100.0, tr.Expenses.Raw)
}

func TestMonthOverMonthFallsBackToID(t *testing.T) {
	feb := time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		{ID: feb.UnixMilli(), Amount: "40", Type: core.Expense},
		{ID: march2025.UnixMilli(), Amount: "20", Type: core.Expense},
	}

	tr := MonthOverMonth(txs, march2025, time.UTC)

	assert.Equal(t, -50.0, tr.Expenses.Raw)
}

func TestMonthOverMonthUsesLocation(t *testing.T) {
	// 23:30 UTC on the last day of February is already March in UTC+2.
	loc := time.FixedZone("UTC+2", 2*60*60)
	late := time.Date(2025, time.February, 28, 23, 30, 0, 0, time.UTC)
	txs := []core.Transaction{txAt(late, "10", core.Expense)}

	inUTC := MonthOverMonth(txs, march2025, time.UTC)
	inLoc := MonthOverMonth(txs, march2025, loc)

	assert.Equal(t, TrendChange, inUTC.Expenses.Status)
	assert.Equal(t, TrendNoPriorData, inLoc.Expenses.Status)
	assert.Equal(t, 900.0, inLoc.Expenses.Raw)
}

func TestPreviousMonth(t *testing.T) {
	assert.Equal(t, time.December, PreviousMonth(time.January))
	assert.Equal(t, time.February, PreviousMonth(time.March))
}

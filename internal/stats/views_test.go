package stats

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func sample() []core.Transaction {
	return []core.Transaction{
		tx(1, "1000", core.Income, "Salary"),
		tx(2, "200", core.Expense, "Food"),
		tx(3, "abc", core.Expense, "Food"),
		tx(4, "50.5", core.Expense, "Bills"),
		tx(5, "20", core.Income, "Other"),
	}
}

func TestHomeView(t *testing.T) {
	v := Home(sample())

	assert.Equal(t, 1020.0, v.Income)
	assert.Equal(t, 250.5, v.Expenses)
	assert.Equal(t, 769.5, v.Balance)
	require.Len(t, v.Recent, HomeRecentLimit)
	assert.Equal(t, int64(5), v.Recent[0].ID)
	assert.Equal(t, int64(3), v.Recent[2].ID)
}

func TestTransactionsView(t *testing.T) {
	v := Transactions(sample())

	assert.Equal(t, 5, v.Total)
	assert.Equal(t, 2, v.IncomeCount)
	assert.Equal(t, 3, v.ExpenseCount)
	assert.Equal(t, v.Income-v.Expenses, v.Balance)
}

func TestViewsAgreeWithSummary(t *testing.T) {
	txs := sample()
	s := Dashboard(txs, march2025, time.UTC)
	h := Home(txs)
	v := Transactions(txs)

	assert.Equal(t, s.Balance, h.Balance)
	assert.Equal(t, s.Balance, v.Balance)
	assert.Len(t, s.Recent, 5)
	assert.Equal(t, "salary", s.TopCategory)
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{100, "100"},
		{1234567.5, "1,234,567.5"},
		{-1000, "-1,000"},
		{12.345678, "12.35"},
		{999.99, "999.99"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatAmount(tc.in), "amount %v", tc.in)
	}
}

func TestFormatTrend(t *testing.T) {
	assert.Equal(t, "+50.0%", FormatTrend(NewTrend(150, 100)))
	assert.Equal(t, "-50.0%", FormatTrend(NewTrend(50, 100)))
	assert.Equal(t, "0.0%", FormatTrend(NewTrend(100, 100)))
	assert.Equal(t, NotAvailable, FormatTrend(NewTrend(50, 0)))
	assert.Equal(t, "4900.0%", FormatPercent(NewTrend(50, 0).Raw))
}

func TestOversizedAmountsKeepViewsEncodable(t *testing.T) {
	lastMonth := time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)
	thisMonth := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx(1, "1e308", core.Income, "Salary"),
		tx(2, "1e308", core.Income, "Salary"),
		tx(3, "-1e308", core.Expense, "Food"),
		{ID: 4, CreatedAt: lastMonth, Amount: "1e-320", Type: core.Expense, Category: "Food"},
		{ID: 5, CreatedAt: thisMonth, Amount: "1e15", Type: core.Expense, Category: "Food"},
	}

	home := Home(txs)
	assert.Equal(t, 0.0, home.Income, "amounts beyond MaxAmount count as 0")
	_, err := json.Marshal(home)
	require.NoError(t, err)

	s := Dashboard(txs, march2025, time.UTC)
	assert.False(t, math.IsInf(s.Trend.Expenses.Percent, 0))
	for _, share := range s.TopCategories {
		assert.False(t, math.IsInf(share.Percentage, 0))
	}
	_, err = json.Marshal(s)
	require.NoError(t, err)

	assert.NotPanics(t, func() { FormatTrend(s.Trend.Expenses) })
}

func TestFormatNonFinite(t *testing.T) {
	assert.Equal(t, NotAvailable, FormatAmount(math.Inf(1)))
	assert.Equal(t, NotAvailable, FormatAmount(math.NaN()))
	assert.Equal(t, NotAvailable, FormatPercent(math.Inf(-1)))
	assert.Equal(t, NotAvailable, FormatTrend(Trend{Status: TrendChange, Percent: math.Inf(1)}))
}

func TestSummaryCloneIsIndependent(t *testing.T) {
	s := Dashboard(sample(), march2025, time.UTC)
	c := s.Clone()

	c.Categories["food"] = -1
	c.Recent[0].Description = "changed"
	c.TopCategories[0].Amount = -1

	assert.NotEqual(t, -1.0, s.Categories["food"])
	assert.NotEqual(t, "changed", s.Recent[0].Description)
	assert.NotEqual(t, -1.0, s.TopCategories[0].Amount)

	h := Home(sample())
	hc := h.Clone()
	hc.Recent[0].ID = 99
	assert.Equal(t, int64(5), h.Recent[0].ID)
}

package stats

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

var march2025 = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

func tx(id int64, amount core.Amount, typ core.TxType, category string) core.Transaction {
	return core.Transaction{ID: id, Amount: amount, Description: fmt.Sprintf("tx %d", id), Type: typ, Category: category}
}

func txAt(at time.Time, amount core.Amount, typ core.TxType) core.Transaction {
	return core.Transaction{ID: at.UnixMilli(), CreatedAt: at, Amount: amount, Description: "dated", Type: typ, Category: "Other"}
}

func opts() Options {
	return Options{Now: march2025, Location: time.UTC}
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil, opts())

	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0.0, s.Income)
	assert.Equal(t, 0.0, s.Expenses)
	assert.Equal(t, 0.0, s.Balance)
	assert.Empty(t, s.Categories)
	assert.NotNil(t, s.Categories)
	assert.Equal(t, NoCategory, s.TopCategory)
	assert.Empty(t, s.TopCategories)
	assert.NotNil(t, s.Recent)
	assert.Empty(t, s.Recent)
	assert.Equal(t, 0.0, s.Trend.Income.Raw)
	assert.Equal(t, 0.0, s.Trend.Expenses.Raw)
	assert.False(t, s.Trend.Income.HasPriorData())
}

func TestComputeExample(t *testing.T) {
	txs := []core.Transaction{
		tx(1, "100", core.Income, "Food"),
		tx(2, "40", core.Expense, "Food"),
		tx(3, "10", core.Expense, "Bills"),
	}

	s := Compute(txs, opts())

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 100.0, s.Income)
	assert.Equal(t, 50.0, s.Expenses)
	assert.Equal(t, 50.0, s.Balance)
	assert.Equal(t, map[string]float64{"food": 140, "bills": 10}, s.Categories)
	assert.Equal(t, []string{"food", "bills"}, s.CategoryOrder)
	assert.Equal(t, "food", s.TopCategory)
}

// Income filed under a category is summed into that category while the
// percentage divides by expenses only, so the share exceeds 100.
func TestCategoryShareIncludesIncome(t *testing.T) {
	txs := []core.Transaction{
		tx(1, "100", core.Income, "Food"),
		tx(2, "40", core.Expense, "Food"),
		tx(3, "10", core.Expense, "Bills"),
	}

	s := Compute(txs, opts())

	require.Len(t, s.TopCategories, 2)
	food := s.TopCategories[0]
	assert.Equal(t, "food", food.Key)
	assert.Equal(t, "Food", food.Label)
	assert.Equal(t, 140.0, food.Amount)
	assert.InDelta(t, 280.0, food.Percentage, 1e-9)
	assert.Equal(t, 100.0, food.BarWidth)

	bills := s.TopCategories[1]
	assert.InDelta(t, 20.0, bills.Percentage, 1e-9)
	assert.InDelta(t, 20.0, bills.BarWidth, 1e-9)
}

func TestCategoryShareWithoutExpenses(t *testing.T) {
	s := Compute([]core.Transaction{tx(1, "100", core.Income, "Salary")}, opts())

	require.Len(t, s.TopCategories, 1)
	assert.Equal(t, 0.0, s.TopCategories[0].Percentage)
	assert.Equal(t, 0.0, s.TopCategories[0].BarWidth)
}

func TestTopCategoriesLimited(t *testing.T) {
	var txs []core.Transaction
	for i := 1; i <= 7; i++ {
		txs = append(txs, tx(int64(i), core.AmountOf(float64(i)), core.Expense, fmt.Sprintf("c%d", i)))
	}

	s := Compute(txs, opts())

	require.Len(t, s.TopCategories, DefaultTopCategoryLimit)
	assert.Equal(t, "c7", s.TopCategories[0].Key)
	assert.Equal(t, "c3", s.TopCategories[4].Key)
	assert.Len(t, s.Categories, 7)
}

func TestCategoryKeysAreLowercase(t *testing.T) {
	txs := []core.Transaction{
		tx(1, "5", core.Expense, "Food"),
		tx(2, "7", core.Expense, "food"),
		tx(3, "1", core.Expense, "FOOD"),
	}

	s := Compute(txs, opts())

	assert.Equal(t, map[string]float64{"food": 13}, s.Categories)
	require.Len(t, s.TopCategories, 1)
	assert.Equal(t, "Food", s.TopCategories[0].Label)
}

func TestTopCategoryTieKeepsFirstSeen(t *testing.T) {
	txs := []core.Transaction{
		tx(1, "10", core.Expense, "Bills"),
		tx(2, "10", core.Expense, "Food"),
		tx(3, "3", core.Expense, "Other"),
	}

	s := Compute(txs, opts())

	assert.Equal(t, "bills", s.TopCategory)
	assert.Equal(t, []string{"bills", "food", "other"}, RankCategories(s.Categories, s.CategoryOrder))
}

func TestNonNumericAmountCountsAsZero(t *testing.T) {
	txs := []core.Transaction{
		tx(1, "abc", core.Income, "Food"),
		tx(2, "abc", core.Expense, "Food"),
		tx(3, "20", core.Expense, "Food"),
		tx(4, "", core.Income, "Food"),
	}

	s := Compute(txs, opts())

	assert.Equal(t, 0.0, s.Income)
	assert.Equal(t, 20.0, s.Expenses)
	assert.Equal(t, -20.0, s.Balance)
	assert.Equal(t, 20.0, s.Categories["food"])
}

func TestMissingFieldsAreDefaulted(t *testing.T) {
	txs := []core.Transaction{
		{ID: 1, Amount: "12"},
		{ID: 2, Amount: "3", Type: "transfer", Category: "  "},
	}

	s := Compute(txs, opts())

	assert.Equal(t, 15.0, s.Expenses)
	assert.Equal(t, 0.0, s.Income)
	assert.Equal(t, map[string]float64{"general": 15}, s.Categories)
	assert.Equal(t, "general", s.TopCategory)
}

func TestRecentOrderingAndLength(t *testing.T) {
	txs := []core.Transaction{
		tx(5, "1", core.Expense, "A"),
		tx(1, "1", core.Expense, "A"),
		tx(9, "1", core.Expense, "A"),
		tx(3, "1", core.Expense, "A"),
		tx(7, "1", core.Expense, "A"),
		tx(2, "1", core.Expense, "A"),
	}
	before := append([]core.Transaction(nil), txs...)

	cases := []struct {
		limit int
		ids   []int64
	}{
		{3, []int64{9, 7, 5}},
		{5, []int64{9, 7, 5, 3, 2}},
		{10, []int64{9, 7, 5, 3, 2, 1}},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("limit_%d", tc.limit), func(t *testing.T) {
			s := Compute(txs, Options{RecentLimit: tc.limit, Now: march2025, Location: time.UTC})
			ids := make([]int64, 0, len(s.Recent))
			for _, r := range s.Recent {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tc.ids, ids)
		})
	}

	assert.Equal(t, before, txs, "input must not be reordered")
}

func TestComputeIsIdempotent(t *testing.T) {
	txs := []core.Transaction{
		tx(1, "100", core.Income, "Salary"),
		txAt(march2025.AddDate(0, -1, 0), "30", core.Expense),
		txAt(march2025, "12.5", core.Expense),
	}

	first := Compute(txs, opts())
	second := Compute(txs, opts())

	assert.Equal(t, first, second)
}

func TestBalanceIdentity(t *testing.T) {
	var txs []core.Transaction
	for i := 0; i < 50; i++ {
		typ := core.Expense
		if i%3 == 0 {
			typ = core.Income
		}
		txs = append(txs, tx(int64(i+1), core.AmountOf(float64(i)*1.37+0.01), typ, "x"))
		s := Compute(txs, opts())
		require.Equal(t, s.Income-s.Expenses, s.Balance)
	}
}

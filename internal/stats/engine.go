// Package stats turns a snapshot of transactions into the figures shown on
// the Home, Transactions and Dashboard screens.
//
// Everything in this package is a pure function of its input: no state is
// kept between calls and the input slice is never reordered or modified.
// Malformed input is coerced (non-numeric amounts count as 0, missing types
// as expenses, blank categories as General) instead of being rejected.
package stats

import (
	"maps"
	"math"
	"slices"
	"sort"
	"time"

	"fintrack/internal/core"
)

// NoCategory is reported as the top category of an empty collection.
const NoCategory = "None"

const (
	DefaultRecentLimit      = 5
	DefaultTopCategoryLimit = 5
)

// Options tune a computation. The zero value gives the Dashboard behaviour
// relative to the current wall clock in the local time zone.
type Options struct {
	// RecentLimit is how many transactions Recent holds.
	RecentLimit int
	// TopCategoryLimit is how many ranked category shares are reported.
	TopCategoryLimit int
	// Now selects the current month for trends.
	Now time.Time
	// Location is the zone months are bucketed in.
	Location *time.Location
}

func (o Options) withDefaults() Options {
	if o.RecentLimit <= 0 {
		o.RecentLimit = DefaultRecentLimit
	}
	if o.TopCategoryLimit <= 0 {
		o.TopCategoryLimit = DefaultTopCategoryLimit
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

// Summary is the aggregate view of a transaction collection.
type Summary struct {
	Total    int     `json:"total"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`

	// Categories sums every transaction, income included, by lowercased
	// category. CategoryOrder lists its keys in first-seen order.
	Categories    map[string]float64 `json:"categories"`
	CategoryOrder []string           `json:"categoryOrder"`
	TopCategory   string             `json:"topCategory"`
	TopCategories []CategoryShare    `json:"topCategories"`

	Recent []core.Transaction `json:"recentTransactions"`
	Trend  Trends             `json:"trend"`
}

// CategoryShare is one bar of the spending-by-category chart.
type CategoryShare struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
	// Percentage is Amount relative to total expenses. Income filed under a
	// category is part of Amount, so this can exceed 100.
	Percentage float64 `json:"percentage"`
	// BarWidth is Percentage capped at 100, for rendering only.
	BarWidth float64 `json:"barWidth"`
}

// Clone returns a copy that shares no maps or slices with s.
func (s Summary) Clone() Summary {
	s.Categories = maps.Clone(s.Categories)
	s.CategoryOrder = slices.Clone(s.CategoryOrder)
	s.TopCategories = slices.Clone(s.TopCategories)
	s.Recent = slices.Clone(s.Recent)
	return s
}

// Compute derives the summary of txs.
func Compute(txs []core.Transaction, opts Options) Summary {
	opts = opts.withDefaults()

	s := Summary{
		Total:         len(txs),
		Categories:    map[string]float64{},
		CategoryOrder: []string{},
	}

	s.Income, s.Expenses = Totals(txs)
	s.Balance = s.Income - s.Expenses

	labels := map[string]string{}
	for _, t := range txs {
		key := t.CategoryKey()
		if _, ok := s.Categories[key]; !ok {
			s.CategoryOrder = append(s.CategoryOrder, key)
			labels[key] = t.CategoryLabel()
		}
		s.Categories[key] += t.Value()
	}

	ranked := RankCategories(s.Categories, s.CategoryOrder)
	s.TopCategory = NoCategory
	if len(ranked) > 0 {
		s.TopCategory = ranked[0]
	}
	if len(ranked) > opts.TopCategoryLimit {
		ranked = ranked[:opts.TopCategoryLimit]
	}
	s.TopCategories = make([]CategoryShare, 0, len(ranked))
	for _, key := range ranked {
		s.TopCategories = append(s.TopCategories, shareOf(key, labels[key], s.Categories[key], s.Expenses))
	}

	s.Recent = Recent(txs, opts.RecentLimit)

	if len(txs) > 0 {
		s.Trend = MonthOverMonth(txs, opts.Now, opts.Location)
	} else {
		s.Trend = Trends{Income: noPriorData(0), Expenses: noPriorData(0)}
	}
	return s
}

// Totals sums income and expenses separately, in input order.
func Totals(txs []core.Transaction) (income, expenses float64) {
	for _, t := range txs {
		if t.Kind() == core.Income {
			income += t.Value()
		} else {
			expenses += t.Value()
		}
	}
	return income, expenses
}

// RankCategories orders keys by amount, highest first. Equal amounts keep
// the order of keys.
func RankCategories(amounts map[string]float64, keys []string) []string {
	ranked := append([]string(nil), keys...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return amounts[ranked[i]] > amounts[ranked[j]]
	})
	return ranked
}

// Recent returns up to limit transactions, newest id first. txs is not modified.
func Recent(txs []core.Transaction, limit int) []core.Transaction {
	sorted := append([]core.Transaction(nil), txs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID > sorted[j].ID
	})
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	if sorted == nil {
		sorted = []core.Transaction{}
	}
	return sorted
}

// CategoryPercentage is amount as a share of expenses, 0 without expenses.
func CategoryPercentage(amount, expenses float64) float64 {
	if expenses > 0 {
		return finite(amount / expenses * 100)
	}
	return 0
}

// finite keeps a ratio JSON-encodable: NaN becomes 0 and infinities the
// largest float of the same sign.
func finite(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	}
	return v
}

func shareOf(key, label string, amount, expenses float64) CategoryShare {
	pct := CategoryPercentage(amount, expenses)
	width := pct
	if width > 100 {
		width = 100
	}
	return CategoryShare{
		Key:        key,
		Label:      label,
		Amount:     amount,
		Percentage: pct,
		BarWidth:   width,
	}
}

package stats

import (
	"time"

	"fintrack/internal/core"
)

type TrendStatus string

const (
	// TrendNoPriorData means last month summed to zero, so no meaningful
	// percentage exists.
	TrendNoPriorData TrendStatus = "no_prior_data"
	TrendChange      TrendStatus = "change"
)

// Trend is a month-over-month change of one summed quantity.
//
// Raw always holds (this / (last || 1) - 1) * 100, the figure older clients
// display. With no prior data that divisor is forced to 1, so Raw becomes
// (this - 1) * 100; Status lets callers show "N/A" instead.
type Trend struct {
	Status  TrendStatus `json:"status"`
	Percent float64     `json:"percent"`
	Raw     float64     `json:"raw"`
}

// Trends holds the income and expense trends.
type Trends struct {
	Income   Trend `json:"income"`
	Expenses Trend `json:"expenses"`
}

func (t Trend) HasPriorData() bool {
	return t.Status == TrendChange
}

// NewTrend builds the trend between this month's and last month's sums.
func NewTrend(thisMonth, lastMonth float64) Trend {
	raw := RawTrend(thisMonth, lastMonth)
	if lastMonth == 0 {
		return noPriorData(raw)
	}
	return Trend{Status: TrendChange, Percent: raw, Raw: raw}
}

// RawTrend is (thisMonth / (lastMonth || 1) - 1) * 100.
func RawTrend(thisMonth, lastMonth float64) float64 {
	divisor := lastMonth
	if divisor == 0 {
		divisor = 1
	}
	return finite((thisMonth/divisor - 1) * 100)
}

func noPriorData(raw float64) Trend {
	return Trend{Status: TrendNoPriorData, Raw: raw}
}

// MonthOverMonth compares the month containing now with the one before it.
//
// Only the month of the year is compared, never the year: a transaction from
// the same month a year ago counts towards "this month". January compares
// against December.
func MonthOverMonth(txs []core.Transaction, now time.Time, loc *time.Location) Trends {
	if loc == nil {
		loc = time.Local
	}
	current := now.In(loc).Month()
	previous := PreviousMonth(current)

	var thisIncome, lastIncome, thisExpenses, lastExpenses float64
	for _, t := range txs {
		month := t.Timestamp().In(loc).Month()
		if month != current && month != previous {
			continue
		}
		v := t.Value()
		switch {
		case month == current && t.Kind() == core.Income:
			thisIncome += v
		case month == current:
			thisExpenses += v
		case t.Kind() == core.Income:
			lastIncome += v
		default:
			lastExpenses += v
		}
	}

	return Trends{
		Income:   NewTrend(thisIncome, lastIncome),
		Expenses: NewTrend(thisExpenses, lastExpenses),
	}
}

// PreviousMonth wraps January back to December.
func PreviousMonth(m time.Month) time.Month {
	if m == time.January {
		return time.December
	}
	return m - 1
}

package stats

import (
	"slices"
	"time"

	"fintrack/internal/core"
)

const HomeRecentLimit = 3

// HomeView backs the landing screen: headline figures and the last few
// transactions.
type HomeView struct {
	Balance  float64            `json:"balance"`
	Income   float64            `json:"income"`
	Expenses float64            `json:"expenses"`
	Recent   []core.Transaction `json:"recentTransactions"`
}

// TransactionsView backs the transaction management screen.
type TransactionsView struct {
	Total        int     `json:"total"`
	Balance      float64 `json:"balance"`
	Income       float64 `json:"income"`
	Expenses     float64 `json:"expenses"`
	IncomeCount  int     `json:"incomeCount"`
	ExpenseCount int     `json:"expenseCount"`
}

// Clone returns a copy that shares no slices with v.
func (v HomeView) Clone() HomeView {
	v.Recent = slices.Clone(v.Recent)
	return v
}

func Home(txs []core.Transaction) HomeView {
	income, expenses := Totals(txs)
	return HomeView{
		Balance:  income - expenses,
		Income:   income,
		Expenses: expenses,
		Recent:   Recent(txs, HomeRecentLimit),
	}
}

func Transactions(txs []core.Transaction) TransactionsView {
	v := TransactionsView{Total: len(txs)}
	v.Income, v.Expenses = Totals(txs)
	v.Balance = v.Income - v.Expenses
	for _, t := range txs {
		if t.Kind() == core.Income {
			v.IncomeCount++
		} else {
			v.ExpenseCount++
		}
	}
	return v
}

// Dashboard is the full summary with five recent transactions and five
// category bars, trends relative to now.
func Dashboard(txs []core.Transaction, now time.Time, loc *time.Location) Summary {
	return Compute(txs, Options{
		RecentLimit:      DefaultRecentLimit,
		TopCategoryLimit: DefaultTopCategoryLimit,
		Now:              now,
		Location:         loc,
	})
}

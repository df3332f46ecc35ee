// Package analytics is the aggregation engine: pure functions that turn a
// flat transaction list into balances, category breakdowns, monthly series
// and goal progress. Nothing here touches storage or mutates its inputs;
// every derived value is recomputed on demand from the raw collection.
package analytics

import "pacer/internal/core"

// Balance is the income/expense aggregate for one context.
type Balance struct {
	Income   core.Money
	Expenses core.Money
	Net      core.Money
}

// CalculateBalance sums income and expense amounts for transactions in the
// given context. Transfers move money between contexts and count toward
// neither side. Empty input yields the zero Balance.
func CalculateBalance(txs []core.Transaction, scope core.Context) Balance {
	var b Balance
	for _, t := range txs {
		if t.Context != scope {
			continue
		}
		switch t.Type {
		case core.Income:
			b.Income.Cents += t.Amount.Cents
		case core.Expense:
			b.Expenses.Cents += t.Amount.Cents
		}
	}
	b.Net = core.Money{Cents: b.Income.Cents - b.Expenses.Cents}
	return b
}

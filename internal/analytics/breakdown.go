package analytics

import (
	"sort"

	"pacer/internal/core"
)

// FallbackColor is used when a transaction names a category that has no
// metadata record. Categories join on the raw name, so a deleted or
// renamed category leaves its historical transactions colorless.
const FallbackColor = "#6b7280"

// CategoryShare is one category's slice of a type's total.
type CategoryShare struct {
	Category   string
	Amount     core.Money
	Percentage float64
	Color      string
}

// CategoryBreakdown groups transactions of the requested type by their raw
// category name (case-sensitive) and computes each group's share of the
// type total. It is context-agnostic: filter by context before calling.
//
// Output is sorted descending by amount; ties keep first-appearance order,
// so repeated calls over identical input produce identical output. A zero
// total yields 0% shares rather than NaN.
func CategoryBreakdown(txs []core.Transaction, cats []core.Category, typ core.TransactionType) []CategoryShare {
	totals := make(map[string]int64)
	var order []string
	var total int64

	for _, t := range txs {
		if t.Type != typ {
			continue
		}
		if _, seen := totals[t.Category]; !seen {
			order = append(order, t.Category)
		}
		totals[t.Category] += t.Amount.Cents
		total += t.Amount.Cents
	}

	shares := make([]CategoryShare, 0, len(order))
	for _, name := range order {
		amount := totals[name]
		var pct float64
		if total > 0 {
			pct = float64(amount) / float64(total) * 100
		}
		shares = append(shares, CategoryShare{
			Category:   name,
			Amount:     core.Money{Cents: amount},
			Percentage: pct,
			Color:      colorFor(cats, name),
		})
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Amount.Cents > shares[j].Amount.Cents
	})
	return shares
}

// colorFor resolves display color from the first category whose name
// matches exactly.
func colorFor(cats []core.Category, name string) string {
	for _, c := range cats {
		if c.Name == name {
			return c.Color
		}
	}
	return FallbackColor
}

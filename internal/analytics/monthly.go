package analytics

import (
	"sort"
	"time"

	"pacer/internal/core"
)

// MonthPoint is one (year, month) bucket of the income/expense series.
// Month is a short display label such as "Jan 2024".
type MonthPoint struct {
	Month    string
	Income   core.Money
	Expenses core.Money
}

type monthKey struct {
	year  int
	month time.Month
}

// MonthlyData buckets transactions by calendar year and month and sums
// income and expenses per bucket. Transfers count toward neither, matching
// CalculateBalance. The series is sparse: months with no transactions are
// omitted. Ordering is chronological by the underlying (year, month),
// never by the label string, which would misorder across years.
func MonthlyData(txs []core.Transaction) []MonthPoint {
	type sums struct {
		income, expenses int64
	}
	buckets := make(map[monthKey]*sums)

	for _, t := range txs {
		key := monthKey{year: t.Date.Year(), month: t.Date.Time.Month()}
		b, ok := buckets[key]
		if !ok {
			b = &sums{}
			buckets[key] = b
		}
		switch t.Type {
		case core.Income:
			b.income += t.Amount.Cents
		case core.Expense:
			b.expenses += t.Amount.Cents
		}
	}

	keys := make([]monthKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	series := make([]MonthPoint, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		first := time.Date(k.year, k.month, 1, 0, 0, 0, 0, time.UTC)
		series = append(series, MonthPoint{
			Month:    first.Format("Jan 2006"),
			Income:   core.Money{Cents: b.income},
			Expenses: core.Money{Cents: b.expenses},
		})
	}
	return series
}

package analytics

import (
	"math"
	"reflect"
	"testing"

	"pacer/internal/core"
)

func expense(category string, cents int64) core.Transaction {
	return core.Transaction{
		Date:     core.NewDate(2024, 3, 10),
		Type:     core.Expense,
		Category: category,
		Amount:   core.Money{Cents: cents},
		Context:  core.Personal,
	}
}

func TestCategoryBreakdown(t *testing.T) {
	cats := []core.Category{
		{ID: "1", Name: "Food", Color: "#ef4444", Context: core.Personal, Type: core.Expense},
		{ID: "2", Name: "Rent", Color: "#8b5cf6", Context: core.Personal, Type: core.Expense},
	}

	txs := []core.Transaction{
		expense("Food", 60),
		expense("Food", 40),
		expense("Rent", 100),
	}

	got := CategoryBreakdown(txs, cats, core.Expense)

	want := []CategoryShare{
		{Category: "Food", Amount: core.Money{Cents: 100}, Percentage: 50, Color: "#ef4444"},
		{Category: "Rent", Amount: core.Money{Cents: 100}, Percentage: 50, Color: "#8b5cf6"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CategoryBreakdown() = %+v, want %+v", got, want)
	}
}

func TestCategoryBreakdown_TiesAreDeterministic(t *testing.T) {
	txs := []core.Transaction{
		expense("Food", 60),
		expense("Food", 40),
		expense("Rent", 100),
	}

	first := CategoryBreakdown(txs, nil, core.Expense)
	for i := 0; i < 20; i++ {
		again := CategoryBreakdown(txs, nil, core.Expense)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced different order: %+v vs %+v", i, again, first)
		}
	}
}

func TestCategoryBreakdown_SortedDescendingByAmount(t *testing.T) {
	txs := []core.Transaction{
		expense("Coffee", 300),
		expense("Rent", 90000),
		expense("Food", 12000),
		expense("Coffee", 150),
	}

	got := CategoryBreakdown(txs, nil, core.Expense)
	for i := 1; i < len(got); i++ {
		if got[i].Amount.Cents > got[i-1].Amount.Cents {
			t.Errorf("breakdown not sorted descending at index %d: %+v", i, got)
		}
	}
}

func TestCategoryBreakdown_PercentagesSumToHundred(t *testing.T) {
	txs := []core.Transaction{
		expense("Food", 3333),
		expense("Rent", 3333),
		expense("Fun", 3334),
	}

	got := CategoryBreakdown(txs, nil, core.Expense)
	var sum float64
	for _, share := range got {
		sum += share.Percentage
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("percentages sum to %f, want 100", sum)
	}
}

func TestCategoryBreakdown_MissingMetadataGetsFallbackColor(t *testing.T) {
	txs := []core.Transaction{expense("Unlabeled", 500)}

	got := CategoryBreakdown(txs, nil, core.Expense)
	if len(got) != 1 {
		t.Fatalf("got %d entries, want 1", len(got))
	}
	if got[0].Color != FallbackColor {
		t.Errorf("Color = %q, want fallback %q", got[0].Color, FallbackColor)
	}
}

func TestCategoryBreakdown_ZeroAmountsYieldZeroPercent(t *testing.T) {
	txs := []core.Transaction{
		expense("Food", 0),
		expense("Rent", 0),
	}

	got := CategoryBreakdown(txs, nil, core.Expense)
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	for _, share := range got {
		if share.Percentage != 0 {
			t.Errorf("Percentage = %f, want 0 on zero total", share.Percentage)
		}
		if math.IsNaN(share.Percentage) {
			t.Error("Percentage is NaN, want 0")
		}
	}
}

func TestCategoryBreakdown_FiltersByType(t *testing.T) {
	txs := []core.Transaction{
		expense("Food", 100),
		{Date: core.NewDate(2024, 3, 1), Type: core.Income, Category: "Salary", Amount: core.Money{Cents: 5000}, Context: core.Personal},
		{Date: core.NewDate(2024, 3, 2), Type: core.Transfer, Category: "Savings", Amount: core.Money{Cents: 2000}, Context: core.Personal},
	}

	got := CategoryBreakdown(txs, nil, core.Income)
	if len(got) != 1 || got[0].Category != "Salary" {
		t.Errorf("CategoryBreakdown(income) = %+v, want only Salary", got)
	}
}

func TestCategoryBreakdown_EmptyInput(t *testing.T) {
	got := CategoryBreakdown(nil, nil, core.Expense)
	if len(got) != 0 {
		t.Errorf("got %d entries, want 0", len(got))
	}
}

// Package ledger defines the ports to the persistence collaborator. The
// aggregation engine never talks to these; callers fetch whole collections
// and pass them in.
package ledger

import (
	"context"
	"errors"
	"time"

	"pacer/internal/core"
)

// ErrNotFound is returned when a record with the requested id does not exist.
var ErrNotFound = errors.New("record not found")

type (
	TransactionStore interface {
		// ListTransactions returns the full collection; empty, never nil-on-absent.
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		AddTransaction(ctx context.Context, t core.Transaction) error
		DeleteTransaction(ctx context.Context, id string) error
	}

	CategoryStore interface {
		ListCategories(ctx context.Context) ([]core.Category, error)
		AddCategory(ctx context.Context, c core.Category) error
		// DeleteCategory removes metadata only; transactions keep the name.
		DeleteCategory(ctx context.Context, id string) error
	}

	RecurringStore interface {
		ListRecurring(ctx context.Context) ([]core.RecurringTransaction, error)
		AddRecurring(ctx context.Context, r core.RecurringTransaction) error
		DeleteRecurring(ctx context.Context, id string) error
		// UpdateLastProcessed records a materialization timestamp.
		UpdateLastProcessed(ctx context.Context, id string, ts time.Time) error
	}

	GoalStore interface {
		ListGoals(ctx context.Context) ([]core.SavingsGoal, error)
		AddGoal(ctx context.Context, g core.SavingsGoal) error
		DeleteGoal(ctx context.Context, id string) error
		// ContributeToGoal adjusts the saved amount by deltaCents, clamped
		// at zero so withdrawals can never drive a goal negative.
		ContributeToGoal(ctx context.Context, id string, deltaCents int64) error
	}

	SettingsStore interface {
		// GetSettings returns stored settings, or the defaults when none
		// have been saved yet.
		GetSettings(ctx context.Context) (core.Settings, error)
		SaveSettings(ctx context.Context, s core.Settings) error
	}
)

// Store is the full persistence surface a backend provides.
type Store interface {
	TransactionStore
	CategoryStore
	RecurringStore
	GoalStore
	SettingsStore
}

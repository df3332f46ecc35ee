package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pacer/internal/core"
	"pacer/internal/identity"
	"pacer/internal/ledger"
)

// SyncPublisher announces a newly persisted transaction to downstream
// consumers. Publishing is best-effort: the local write always wins.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id string) error
}

// RecurringProcessor materializes transactions from recurring templates.
// It owns the LastProcessed mutation; the due predicate itself stays pure.
type RecurringProcessor struct {
	store  ledger.Store
	newID  identity.Generator
	events SyncPublisher // nil disables publishing
}

func NewRecurringProcessor(store ledger.Store, newID identity.Generator, events SyncPublisher) *RecurringProcessor {
	return &RecurringProcessor{store: store, newID: newID, events: events}
}

// ProcessDue walks all templates and creates one transaction for each that
// is inside its active window and due at now. It returns the number of
// transactions created. Per-template failures are logged and skipped so
// one bad template cannot stall the rest.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	if p.store == nil || p.newID == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	templates, err := p.store.ListRecurring(ctx)
	if err != nil {
		return 0, fmt.Errorf("list recurring templates: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring templates",
		"total", len(templates),
		"processing_date", now.Format("2006-01-02"))

	processed := 0
	for _, rec := range templates {
		if !p.inWindow(rec, now) {
			continue
		}
		if !ShouldProcessRecurring(rec, now) {
			continue
		}

		tx := core.Transaction{
			ID:          p.newID(),
			Date:        core.Date{Time: now},
			Type:        rec.Type,
			Category:    rec.Category,
			Amount:      rec.Amount,
			Description: rec.Name,
			Context:     rec.Context,
			RecurringID: rec.ID,
		}

		if err := p.store.AddTransaction(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to materialize recurring transaction",
				"template_id", rec.ID,
				"name", rec.Name,
				"error", err)
			continue
		}

		if err := p.store.UpdateLastProcessed(ctx, rec.ID, now); err != nil {
			slog.ErrorContext(ctx, "Failed to update last processed timestamp",
				"template_id", rec.ID,
				"error", err)
			// The transaction exists; carry on.
		}

		if p.events != nil {
			if err := p.events.PublishTransactionSync(ctx, tx.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to publish sync message",
					"transaction_id", tx.ID,
					"error", err)
			}
		}

		processed++
		slog.InfoContext(ctx, "Materialized recurring transaction",
			"template_id", rec.ID,
			"transaction_id", tx.ID,
			"name", rec.Name,
			"amount_cents", rec.Amount.Cents,
			"frequency", rec.Frequency)
	}

	slog.InfoContext(ctx, "Recurring processing complete",
		"created", processed,
		"total_checked", len(templates))

	return processed, nil
}

// inWindow reports whether now falls between the template's start date and
// optional end date.
func (p *RecurringProcessor) inWindow(rec core.RecurringTransaction, now time.Time) bool {
	if now.Before(rec.StartDate.Time) {
		return false
	}
	if !rec.EndDate.IsEmpty() {
		endOfDay := rec.EndDate.AddDate(0, 0, 1)
		if !now.Before(endOfDay) {
			return false
		}
	}
	return true
}

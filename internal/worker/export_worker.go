package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pacer/internal/amqp"
	"pacer/internal/core"
	"pacer/internal/ledger"
)

// TransactionAppender writes a transaction to an external export target.
type TransactionAppender interface {
	AppendTransaction(ctx context.Context, tx core.Transaction) (rowRef string, err error)
}

// ExportWorker consumes transaction sync messages and mirrors the
// referenced transactions to an export target such as Google Sheets.
type ExportWorker struct {
	store    ledger.TransactionStore
	appender TransactionAppender
}

func NewExportWorker(store ledger.TransactionStore, appender TransactionAppender) *ExportWorker {
	return &ExportWorker{
		store:    store,
		appender: appender,
	}
}

// HandleSyncMessage processes a single transaction sync message.
// A transaction that no longer exists in the ledger is dropped with a
// warning instead of being requeued forever.
func (w *ExportWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID)

	tx, err := w.store.GetTransaction(ctx, msg.ID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			slog.WarnContext(ctx, "Transaction no longer exists, dropping message", "id", msg.ID)
			return nil
		}
		return fmt.Errorf("get transaction from ledger: %w", err)
	}

	rowRef, err := w.appender.AppendTransaction(ctx, tx)
	if err != nil {
		return fmt.Errorf("append transaction to export target: %w", err)
	}

	slog.InfoContext(ctx, "Exported transaction",
		"id", msg.ID,
		"row_ref", rowRef)

	return nil
}

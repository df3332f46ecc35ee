package worker

import (
	"context"
	"fmt"
	"testing"

	"pacer/internal/amqp"
	"pacer/internal/core"
	"pacer/internal/ledger/memory"
)

type fakeAppender struct {
	appended []core.Transaction
	fail     bool
}

func (a *fakeAppender) AppendTransaction(_ context.Context, tx core.Transaction) (string, error) {
	if a.fail {
		return "", fmt.Errorf("sheets unavailable")
	}
	a.appended = append(a.appended, tx)
	return fmt.Sprintf("Transactions!A%d", len(a.appended)), nil
}

func TestExportWorker_HandleSyncMessage(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	appender := &fakeAppender{}
	w := NewExportWorker(store, appender)

	tx := core.Transaction{
		ID:       "t-1",
		Date:     core.NewDate(2024, 1, 15),
		Type:     core.Expense,
		Category: "Food & Dining",
		Amount:   core.Money{Cents: 1500},
		Context:  core.Personal,
	}
	if err := store.AddTransaction(ctx, tx); err != nil {
		t.Fatal(err)
	}

	msg := amqp.NewTransactionSyncMessage("t-1")
	if err := w.HandleSyncMessage(ctx, msg); err != nil {
		t.Fatalf("HandleSyncMessage() = %v", err)
	}
	if len(appender.appended) != 1 || appender.appended[0].ID != "t-1" {
		t.Errorf("appended = %+v, want t-1", appender.appended)
	}
}

func TestExportWorker_MissingTransactionIsDropped(t *testing.T) {
	ctx := context.Background()
	w := NewExportWorker(memory.New(), &fakeAppender{})

	// Deleted before export: drop the message rather than requeue it forever.
	msg := amqp.NewTransactionSyncMessage("vanished")
	if err := w.HandleSyncMessage(ctx, msg); err != nil {
		t.Errorf("HandleSyncMessage() = %v, want nil for missing transaction", err)
	}
}

func TestExportWorker_AppendFailurePropagates(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	w := NewExportWorker(store, &fakeAppender{fail: true})

	tx := core.Transaction{
		ID:       "t-1",
		Date:     core.NewDate(2024, 1, 15),
		Type:     core.Income,
		Category: "Salary",
		Amount:   core.Money{Cents: 100000},
		Context:  core.Personal,
	}
	if err := store.AddTransaction(ctx, tx); err != nil {
		t.Fatal(err)
	}

	msg := amqp.NewTransactionSyncMessage("t-1")
	if err := w.HandleSyncMessage(ctx, msg); err == nil {
		t.Error("expected error so the message is requeued")
	}
}

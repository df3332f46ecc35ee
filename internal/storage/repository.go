// Package storage is the SQLite ledger backend. Collections are read and
// written wholesale through the ledger ports; derived values (balances,
// breakdowns, series) are never stored here.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"pacer/internal/core"
	"pacer/internal/ledger"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, type, category, amount_cents, description, context, recurring_id
		FROM transactions ORDER BY date, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, date, type, category, amount_cents, description, context, recurring_id
		FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ledger.ErrNotFound
	}
	return t, err
}

func (r *SQLiteRepository) AddTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, date, type, category, amount_cents, description, context, recurring_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Date.ISO(), string(t.Type), t.Category, t.Amount.Cents, t.Description, string(t.Context), t.RecurringID)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"type", t.Type,
		"category", t.Category,
		"amount_cents", t.Amount.Cents,
		"context", t.Context)
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, color, context, type FROM categories ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		var cctx, typ string
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &cctx, &typ); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Context = core.Context(cctx)
		c.Type = core.TransactionType(typ)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) AddCategory(ctx context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, color, context, type) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Color, string(c.Context), string(c.Type))
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) ListRecurring(ctx context.Context) ([]core.RecurringTransaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, type, category, amount_cents, frequency, start_date, end_date, context, last_processed
		FROM recurring_transactions ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list recurring: %w", err)
	}
	defer rows.Close()

	var out []core.RecurringTransaction
	for rows.Next() {
		var rec core.RecurringTransaction
		var typ, freq, cctx, start string
		var end, last sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Name, &typ, &rec.Category, &rec.Amount.Cents,
			&freq, &start, &end, &cctx, &last); err != nil {
			return nil, fmt.Errorf("scan recurring: %w", err)
		}
		rec.Type = core.TransactionType(typ)
		rec.Frequency = core.Frequency(freq)
		rec.Context = core.Context(cctx)
		if rec.StartDate, err = core.ParseDate(start); err != nil {
			return nil, fmt.Errorf("recurring %s: %w", rec.ID, err)
		}
		if end.Valid && end.String != "" {
			if rec.EndDate, err = core.ParseDate(end.String); err != nil {
				return nil, fmt.Errorf("recurring %s: %w", rec.ID, err)
			}
		}
		if last.Valid && last.String != "" {
			if rec.LastProcessed, err = time.Parse(time.RFC3339, last.String); err != nil {
				return nil, fmt.Errorf("recurring %s: %w", rec.ID, err)
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) AddRecurring(ctx context.Context, rec core.RecurringTransaction) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	var end any
	if !rec.EndDate.IsEmpty() {
		end = rec.EndDate.ISO()
	}
	var last any
	if !rec.LastProcessed.IsZero() {
		last = rec.LastProcessed.UTC().Format(time.RFC3339)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO recurring_transactions (id, name, type, category, amount_cents, frequency, start_date, end_date, context, last_processed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, string(rec.Type), rec.Category, rec.Amount.Cents,
		string(rec.Frequency), rec.StartDate.ISO(), end, string(rec.Context), last)
	if err != nil {
		return fmt.Errorf("insert recurring: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteRecurring(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recurring_transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recurring: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) UpdateLastProcessed(ctx context.Context, id string, ts time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE recurring_transactions SET last_processed = ? WHERE id = ?`,
		ts.UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("update last processed: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]core.SavingsGoal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, target_cents, current_cents, deadline, color
		FROM savings_goals ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.SavingsGoal
	for rows.Next() {
		var g core.SavingsGoal
		var deadline string
		if err := rows.Scan(&g.ID, &g.Name, &g.Target.Cents, &g.Current.Cents, &deadline, &g.Color); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		if g.Deadline, err = core.ParseDate(deadline); err != nil {
			return nil, fmt.Errorf("goal %s: %w", g.ID, err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) AddGoal(ctx context.Context, g core.SavingsGoal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO savings_goals (id, name, target_cents, current_cents, deadline, color)
		VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.Target.Cents, g.Current.Cents, g.Deadline.ISO(), g.Color)
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM savings_goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) ContributeToGoal(ctx context.Context, id string, deltaCents int64) error {
	// MAX keeps withdrawals from driving the saved amount negative.
	res, err := r.db.ExecContext(ctx, `
		UPDATE savings_goals SET current_cents = MAX(0, current_cents + ?) WHERE id = ?`,
		deltaCents, id)
	if err != nil {
		return fmt.Errorf("contribute to goal: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) GetSettings(ctx context.Context) (core.Settings, error) {
	var s core.Settings
	var notifications int64
	err := r.db.QueryRowContext(ctx, `
		SELECT currency, date_format, theme, notifications FROM settings WHERE id = 1`).
		Scan(&s.Currency, &s.DateFormat, &s.Theme, &notifications)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DefaultSettings(), nil
	}
	if err != nil {
		return core.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	s.Notifications = notifications != 0
	return s, nil
}

func (r *SQLiteRepository) SaveSettings(ctx context.Context, s core.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	notifications := 0
	if s.Notifications {
		notifications = 1
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (id, currency, date_format, theme, notifications)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			currency = excluded.currency,
			date_format = excluded.date_format,
			theme = excluded.theme,
			notifications = excluded.notifications`,
		s.Currency, s.DateFormat, s.Theme, notifications)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var t core.Transaction
	var date, typ, cctx string
	if err := row.Scan(&t.ID, &date, &typ, &t.Category, &t.Amount.Cents,
		&t.Description, &cctx, &t.RecurringID); err != nil {
		return core.Transaction{}, err
	}
	t.Type = core.TransactionType(typ)
	t.Context = core.Context(cctx)
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", t.ID, err)
	}
	t.Date = d
	return t, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

var _ ledger.Store = (*SQLiteRepository)(nil)

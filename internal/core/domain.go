package core

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

const (
	Income   TransactionType = "income"
	Expense  TransactionType = "expense"
	Transfer TransactionType = "transfer"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

const (
	Personal Context = "personal"
	Business Context = "business"
)

type (
	TransactionType string

	Frequency string

	// Context is the personal/business partition applied to transactions
	// and categories.
	Context string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is an immutable ledger entry. Category is the raw
	// category name, not a foreign key: it may or may not match an
	// existing Category record.
	Transaction struct {
		ID          string
		Date        Date
		Type        TransactionType
		Category    string
		Amount      Money
		Description string
		Context     Context
		RecurringID string // back-reference to the template that produced it, if any
	}

	// Category carries display metadata. Its lifecycle is independent of
	// transactions: deleting one never relabels the entries that named it.
	Category struct {
		ID      string
		Name    string
		Color   string // hex, e.g. "#ef4444"
		Context Context
		Type    TransactionType // income or expense only
	}

	// RecurringTransaction is a template for periodic materialization.
	// LastProcessed is mutated only by the recurrence workflow.
	RecurringTransaction struct {
		ID            string
		Name          string
		Type          TransactionType
		Category      string
		Amount        Money
		Frequency     Frequency
		StartDate     Date
		EndDate       Date // zero when open-ended
		Context       Context
		LastProcessed time.Time // zero when never materialized
	}

	SavingsGoal struct {
		ID       string
		Name     string
		Target   Money
		Current  Money
		Deadline Date
		Color    string
	}

	Settings struct {
		Currency      string
		DateFormat    string
		Theme         string
		Notifications bool
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidContext   = errors.New("invalid context")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyCategory    = errors.New("empty category")
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// NewDate creates a calendar date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses the ISO calendar form "2006-01-02".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month.
func (d Date) Day() int { return d.Time.Day() }

// Month returns the month as 1-12.
func (d Date) Month() int { return int(d.Time.Month()) }

// Year returns the calendar year.
func (d Date) Year() int { return d.Time.Year() }

// IsEmpty reports whether the date is unset (used for optional dates
// such as a template's end date).
func (d Date) IsEmpty() bool { return d.IsZero() }

// ISO renders the date as "2006-01-02".
func (d Date) ISO() string { return d.Format("2006-01-02") }

func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense, Transfer:
		return true
	}
	return false
}

func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

func (c Context) Valid() bool {
	return c == Personal || c == Business
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	// Amounts are magnitudes; the type carries the sign of the flow.
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if !t.Context.Valid() {
		return ErrInvalidContext
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !hexColorRe.MatchString(c.Color) {
		return errors.New("invalid color: want #rrggbb")
	}
	if !c.Context.Valid() {
		return ErrInvalidContext
	}
	if c.Type != Income && c.Type != Expense {
		return ErrInvalidType
	}
	return nil
}

func (r RecurringTransaction) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if r.Type != Income && r.Type != Expense {
		return ErrInvalidType
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	if r.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if !r.Frequency.Valid() {
		return ErrInvalidFrequency
	}
	if err := r.StartDate.Validate(); err != nil {
		return errors.New("invalid start date: " + err.Error())
	}
	if !r.EndDate.IsEmpty() && r.EndDate.Before(r.StartDate.Time) {
		return errors.New("end date must not precede start date")
	}
	if !r.Context.Valid() {
		return ErrInvalidContext
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if g.Target.Cents <= 0 {
		return ErrInvalidAmount
	}
	if g.Current.Cents < 0 {
		return ErrInvalidAmount
	}
	if err := g.Deadline.Validate(); err != nil {
		return errors.New("invalid deadline: " + err.Error())
	}
	return nil
}

func (s Settings) Validate() error {
	if strings.TrimSpace(s.Currency) == "" {
		return errors.New("empty currency")
	}
	switch s.DateFormat {
	case "MM/DD/YYYY", "DD/MM/YYYY":
	default:
		return errors.New("unsupported date format")
	}
	switch s.Theme {
	case "light", "dark":
	default:
		return errors.New("unsupported theme")
	}
	return nil
}

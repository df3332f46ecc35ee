// Package memory is the in-memory ledger backend: the default for local
// runs and the test double everywhere else.
package memory

import (
	"context"
	"sync"
	"time"

	"pacer/internal/core"
	"pacer/internal/ledger"
)

type Store struct {
	mu        sync.Mutex
	txs       []core.Transaction
	cats      []core.Category
	recurring []core.RecurringTransaction
	goals     []core.SavingsGoal
	settings  core.Settings
	hasSet    bool
}

// New returns a store seeded with the default category set.
func New() *Store {
	return &Store{cats: core.DefaultCategories()}
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.txs...), nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.txs {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, ledger.ErrNotFound
}

func (s *Store) AddTransaction(_ context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append(s.txs, t)
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.txs {
		if t.ID == id {
			s.txs = append(s.txs[:i], s.txs[i+1:]...)
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Category(nil), s.cats...), nil
}

func (s *Store) AddCategory(_ context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cats = append(s.cats, c)
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.cats {
		if c.ID == id {
			s.cats = append(s.cats[:i], s.cats[i+1:]...)
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (s *Store) ListRecurring(_ context.Context) ([]core.RecurringTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.RecurringTransaction(nil), s.recurring...), nil
}

func (s *Store) AddRecurring(_ context.Context, r core.RecurringTransaction) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recurring = append(s.recurring, r)
	return nil
}

func (s *Store) DeleteRecurring(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.recurring {
		if r.ID == id {
			s.recurring = append(s.recurring[:i], s.recurring[i+1:]...)
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (s *Store) UpdateLastProcessed(_ context.Context, id string, ts time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.recurring {
		if s.recurring[i].ID == id {
			s.recurring[i].LastProcessed = ts
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (s *Store) ListGoals(_ context.Context) ([]core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.SavingsGoal(nil), s.goals...), nil
}

func (s *Store) AddGoal(_ context.Context, g core.SavingsGoal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = append(s.goals, g)
	return nil
}

func (s *Store) DeleteGoal(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, g := range s.goals {
		if g.ID == id {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (s *Store) ContributeToGoal(_ context.Context, id string, deltaCents int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.goals {
		if s.goals[i].ID == id {
			next := s.goals[i].Current.Cents + deltaCents
			if next < 0 {
				next = 0
			}
			s.goals[i].Current.Cents = next
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (s *Store) GetSettings(_ context.Context) (core.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasSet {
		return core.DefaultSettings(), nil
	}
	return s.settings, nil
}

func (s *Store) SaveSettings(_ context.Context, set core.Settings) error {
	if err := set.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = set
	s.hasSet = true
	return nil
}

var _ ledger.Store = (*Store)(nil)

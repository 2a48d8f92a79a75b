// Package memory is an in-process finance.Repository, used by tests and by
// anything that does not need persistence.
package memory

import (
	"context"
	"sync"

	"finance-tracker/internal/finance"
	"finance-tracker/internal/models"
)

var _ finance.Repository = (*Store)(nil)

// Store keeps transactions and budgets in slices guarded by a mutex. IDs
// are assigned from per-table counters starting at 1.
type Store struct {
	mu           sync.Mutex
	transactions []models.Transaction
	budgets      []models.Budget
	nextTxID     int64
	nextBudgetID int64
}

// New returns an empty Store.
func New() *Store {
	return &Store{nextTxID: 1, nextBudgetID: 1}
}

// ListTransactions returns the user's transactions in insertion order.
func (s *Store) ListTransactions(_ context.Context, userID int64, r models.DateRange) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Transaction
	for _, t := range s.transactions {
		if t.UserID == userID && r.Contains(t.Date.UTC()) {
			out = append(out, t)
		}
	}
	return out, nil
}

// GetTransaction returns a copy of the user's transaction id.
func (s *Store) GetTransaction(_ context.Context, userID, id int64) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.txIndex(userID, id)
	if i < 0 {
		return nil, finance.ErrNotFound
	}
	t := s.transactions[i]
	return &t, nil
}

// CreateTransaction stores a copy of t and sets its ID.
func (s *Store) CreateTransaction(_ context.Context, t *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.nextTxID
	s.nextTxID++
	s.transactions = append(s.transactions, *t)
	return nil
}

// UpdateTransaction replaces the stored transaction with t.ID owned by t.UserID.
func (s *Store) UpdateTransaction(_ context.Context, t *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.txIndex(t.UserID, t.ID)
	if i < 0 {
		return finance.ErrNotFound
	}
	s.transactions[i] = *t
	return nil
}

// DeleteTransaction removes the user's transaction id.
func (s *Store) DeleteTransaction(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.txIndex(userID, id)
	if i < 0 {
		return finance.ErrNotFound
	}
	s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
	return nil
}

func (s *Store) txIndex(userID, id int64) int {
	for i, t := range s.transactions {
		if t.ID == id && t.UserID == userID {
			return i
		}
	}
	return -1
}

// ListBudgets returns the user's budgets in insertion order.
func (s *Store) ListBudgets(_ context.Context, userID int64) ([]models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Budget
	for _, b := range s.budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

// GetBudget returns a copy of the user's budget id.
func (s *Store) GetBudget(_ context.Context, userID, id int64) (*models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.budgetIndex(userID, id)
	if i < 0 {
		return nil, finance.ErrNotFound
	}
	b := s.budgets[i]
	return &b, nil
}

// CreateBudget stores a copy of b and sets its ID.
func (s *Store) CreateBudget(_ context.Context, b *models.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b.ID = s.nextBudgetID
	s.nextBudgetID++
	s.budgets = append(s.budgets, *b)
	return nil
}

// UpdateBudget replaces the stored budget with b.ID owned by b.UserID.
func (s *Store) UpdateBudget(_ context.Context, b *models.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.budgetIndex(b.UserID, b.ID)
	if i < 0 {
		return finance.ErrNotFound
	}
	s.budgets[i] = *b
	return nil
}

// DeleteBudget removes the user's budget id.
func (s *Store) DeleteBudget(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.budgetIndex(userID, id)
	if i < 0 {
		return finance.ErrNotFound
	}
	s.budgets = append(s.budgets[:i], s.budgets[i+1:]...)
	return nil
}

func (s *Store) budgetIndex(userID, id int64) int {
	for i, b := range s.budgets {
		if b.ID == id && b.UserID == userID {
			return i
		}
	}
	return -1
}

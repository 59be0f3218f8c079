package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"school-ledger/internal/models"
)

// ExpenseStore keeps one expense document per id.
type ExpenseStore struct {
	mu       sync.RWMutex
	expenses map[string]*models.Expense
}

func NewExpenseStore() *ExpenseStore {
	return &ExpenseStore{expenses: make(map[string]*models.Expense)}
}

func (s *ExpenseStore) Create(ctx context.Context, e *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.expenses[e.ID]; exists {
		return fmt.Errorf("expense %s already exists", e.ID)
	}
	cp := *e
	s.expenses[e.ID] = &cp
	return nil
}

func (s *ExpenseStore) ByID(ctx context.Context, id string) (*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.expenses[id]
	if !ok {
		return nil, fmt.Errorf("expense %s: %w", id, models.ErrNotFound)
	}
	cp := *e
	return &cp, nil
}

func (s *ExpenseStore) ByDateRange(ctx context.Context, start, end time.Time) ([]*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Expense
	for _, e := range s.expenses {
		if !e.Date.Before(start) && e.Date.Before(end) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sortExpensesDesc(out)
	return out, nil
}

func (s *ExpenseStore) All(ctx context.Context) ([]*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		cp := *e
		out = append(out, &cp)
	}
	sortExpensesDesc(out)
	return out, nil
}

func (s *ExpenseStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.expenses[id]; !ok {
		return fmt.Errorf("expense %s: %w", id, models.ErrNotFound)
	}
	delete(s.expenses, id)
	return nil
}

func sortExpensesDesc(expenses []*models.Expense) {
	sort.SliceStable(expenses, func(i, j int) bool {
		if !expenses[i].Date.Equal(expenses[j].Date) {
			return expenses[i].Date.After(expenses[j].Date)
		}
		return expenses[i].CreatedAt.After(expenses[j].CreatedAt)
	})
}

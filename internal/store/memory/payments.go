package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"school-ledger/internal/models"
)

// PaymentStore keeps one payment document per id.
type PaymentStore struct {
	mu       sync.RWMutex
	payments map[string]*models.Payment
}

func NewPaymentStore() *PaymentStore {
	return &PaymentStore{payments: make(map[string]*models.Payment)}
}

func (s *PaymentStore) Create(ctx context.Context, p *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.payments[p.ID]; exists {
		return fmt.Errorf("payment %s already exists", p.ID)
	}
	cp := *p
	s.payments[p.ID] = &cp
	return nil
}

func (s *PaymentStore) ByID(ctx context.Context, id string) (*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[id]
	if !ok {
		return nil, fmt.Errorf("payment %s: %w", id, models.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (s *PaymentStore) ByStudent(ctx context.Context, studentID string) ([]*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Payment
	for _, p := range s.payments {
		if p.StudentID == studentID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sortPaymentsDesc(out)
	return out, nil
}

func (s *PaymentStore) ByDateRange(ctx context.Context, start, end time.Time) ([]*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Payment
	for _, p := range s.payments {
		if !p.Date.Before(start) && p.Date.Before(end) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sortPaymentsDesc(out)
	return out, nil
}

func (s *PaymentStore) All(ctx context.Context) ([]*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Payment, 0, len(s.payments))
	for _, p := range s.payments {
		cp := *p
		out = append(out, &cp)
	}
	sortPaymentsDesc(out)
	return out, nil
}

func (s *PaymentStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.payments[id]; !ok {
		return fmt.Errorf("payment %s: %w", id, models.ErrNotFound)
	}
	delete(s.payments, id)
	return nil
}

func sortPaymentsDesc(payments []*models.Payment) {
	sort.SliceStable(payments, func(i, j int) bool {
		if !payments[i].Date.Equal(payments[j].Date) {
			return payments[i].Date.After(payments[j].Date)
		}
		return payments[i].CreatedAt.After(payments[j].CreatedAt)
	})
}

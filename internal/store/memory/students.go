package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"school-ledger/internal/models"
)

// StudentStore keeps student documents keyed by id.
type StudentStore struct {
	mu       sync.RWMutex
	students map[string]*models.Student
}

func NewStudentStore() *StudentStore {
	return &StudentStore{students: make(map[string]*models.Student)}
}

func (s *StudentStore) Create(ctx context.Context, st *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.students[st.ID]; exists {
		return fmt.Errorf("student %s already exists", st.ID)
	}
	cp := copyStudent(st)
	s.students[st.ID] = cp
	return nil
}

func (s *StudentStore) ByID(ctx context.Context, id string) (*models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.students[id]
	if !ok {
		return nil, fmt.Errorf("student %s: %w", id, models.ErrNotFound)
	}
	return copyStudent(st), nil
}

func (s *StudentStore) All(ctx context.Context) ([]*models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Student, 0, len(s.students))
	for _, st := range s.students {
		out = append(out, copyStudent(st))
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].FullName()) < strings.ToLower(out[j].FullName())
	})
	return out, nil
}

func (s *StudentStore) ByStatus(ctx context.Context, status string) ([]*models.Student, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	var out []*models.Student
	for _, st := range all {
		if st.EnrollmentStatus == status {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *StudentStore) Update(ctx context.Context, st *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[st.ID]; !ok {
		return fmt.Errorf("student %s: %w", st.ID, models.ErrNotFound)
	}
	s.students[st.ID] = copyStudent(st)
	return nil
}

func copyStudent(st *models.Student) *models.Student {
	cp := *st
	if st.FrozenAt != nil {
		frozenAt := *st.FrozenAt
		cp.FrozenAt = &frozenAt
	}
	if st.BalanceCleared != nil {
		cleared := *st.BalanceCleared
		cp.BalanceCleared = &cleared
	}
	return &cp
}

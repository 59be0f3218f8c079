// Package memory implements the store contracts with mutex-guarded maps.
// It backs the test suites and the demo seed, and is a workable store for
// single-process demo deployments.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"school-ledger/internal/dateutil"
	"school-ledger/internal/models"
)

// AttendanceStore keeps one day document per date key.
type AttendanceStore struct {
	mu   sync.RWMutex
	days map[string]*models.AttendanceDay
}

func NewAttendanceStore() *AttendanceStore {
	return &AttendanceStore{days: make(map[string]*models.AttendanceDay)}
}

func (s *AttendanceStore) Day(ctx context.Context, dateKey string) (*models.AttendanceDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day, ok := s.days[dateKey]
	if !ok {
		return nil, nil
	}
	return copyDay(day), nil
}

func (s *AttendanceStore) DaysInRange(ctx context.Context, start, end time.Time) ([]*models.AttendanceDay, error) {
	startKey := dateutil.ToKey(start)
	endKey := dateutil.ToKey(end)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.AttendanceDay
	for key, day := range s.days {
		if key >= startKey && key < endKey {
			out = append(out, copyDay(day))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *AttendanceStore) StudentHistory(ctx context.Context, studentID string) ([]models.StudentAttendance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.StudentAttendance
	for key, day := range s.days {
		if rec, ok := day.Records[studentID]; ok {
			out = append(out, models.StudentAttendance{Date: key, Record: copyRecord(rec)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *AttendanceStore) SetRecord(ctx context.Context, dateKey, studentID string, rec models.AttendanceRecord) error {
	return s.SetRecords(ctx, dateKey, map[string]models.AttendanceRecord{studentID: rec})
}

func (s *AttendanceStore) SetRecords(ctx context.Context, dateKey string, records map[string]models.AttendanceRecord) error {
	if _, err := dateutil.ParseKey(dateKey); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	day, ok := s.days[dateKey]
	if !ok {
		day = &models.AttendanceDay{Date: dateKey, Records: make(map[string]models.AttendanceRecord)}
		s.days[dateKey] = day
	}
	// Merge write: untouched students keep their entries.
	for id, rec := range records {
		day.Records[id] = copyRecord(rec)
	}
	return nil
}

func (s *AttendanceStore) RemoveRecord(ctx context.Context, dateKey, studentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	day, ok := s.days[dateKey]
	if !ok {
		return nil
	}
	delete(day.Records, studentID)
	if len(day.Records) == 0 {
		delete(s.days, dateKey)
	}
	return nil
}

func copyDay(day *models.AttendanceDay) *models.AttendanceDay {
	cp := &models.AttendanceDay{
		Date:    day.Date,
		Records: make(map[string]models.AttendanceRecord, len(day.Records)),
	}
	for id, rec := range day.Records {
		cp.Records[id] = copyRecord(rec)
	}
	return cp
}

func copyRecord(rec models.AttendanceRecord) models.AttendanceRecord {
	cp := rec
	if rec.Attributes != nil {
		cp.Attributes = make(map[string]bool, len(rec.Attributes))
		for k, v := range rec.Attributes {
			cp.Attributes[k] = v
		}
	}
	return cp
}

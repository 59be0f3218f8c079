// Package store defines the document-store contracts the engine is built on.
// The core never talks to a database directly; it composes these interfaces,
// and tests instantiate them with the memory implementation.
package store

import (
	"context"
	"time"

	"school-ledger/internal/models"
)

// AttendanceStore holds one document per calendar day, keyed by the
// YYYY-MM-DD date key. Set operations merge into the day document; removing
// a single student re-persists the remaining map.
type AttendanceStore interface {
	// Day returns the document for the given date key, or nil when no
	// attendance was recorded that day.
	Day(ctx context.Context, dateKey string) (*models.AttendanceDay, error)

	// DaysInRange returns all day documents with start <= day < end,
	// ordered by date ascending.
	DaysInRange(ctx context.Context, start, end time.Time) ([]*models.AttendanceDay, error)

	// StudentHistory returns every record for the student across all days,
	// ordered by date ascending.
	StudentHistory(ctx context.Context, studentID string) ([]models.StudentAttendance, error)

	// SetRecord merges a single student's record into the day document.
	SetRecord(ctx context.Context, dateKey, studentID string, rec models.AttendanceRecord) error

	// SetRecords merges a batch of records into the day document. Other
	// students' entries are left untouched.
	SetRecords(ctx context.Context, dateKey string, records map[string]models.AttendanceRecord) error

	// RemoveRecord deletes one student's entry from the day document.
	RemoveRecord(ctx context.Context, dateKey, studentID string) error
}

// PaymentStore holds one document per payment.
type PaymentStore interface {
	Create(ctx context.Context, p *models.Payment) error
	ByID(ctx context.Context, id string) (*models.Payment, error)
	// ByStudent returns the student's payments ordered by date descending.
	ByStudent(ctx context.Context, studentID string) ([]*models.Payment, error)
	// ByDateRange returns payments with start <= date < end, date descending.
	ByDateRange(ctx context.Context, start, end time.Time) ([]*models.Payment, error)
	All(ctx context.Context) ([]*models.Payment, error)
	Delete(ctx context.Context, id string) error
}

// StudentStore is the user store filtered to role=student. Removal is a
// status write, never a document delete.
type StudentStore interface {
	Create(ctx context.Context, s *models.Student) error
	ByID(ctx context.Context, id string) (*models.Student, error)
	// All returns every student ordered by name.
	All(ctx context.Context) ([]*models.Student, error)
	ByStatus(ctx context.Context, status string) ([]*models.Student, error)
	Update(ctx context.Context, s *models.Student) error
}

// ExpenseStore holds one document per operational expense.
type ExpenseStore interface {
	Create(ctx context.Context, e *models.Expense) error
	ByID(ctx context.Context, id string) (*models.Expense, error)
	// ByDateRange returns expenses with start <= date < end, date descending.
	ByDateRange(ctx context.Context, start, end time.Time) ([]*models.Expense, error)
	All(ctx context.Context) ([]*models.Expense, error)
	Delete(ctx context.Context, id string) error
}

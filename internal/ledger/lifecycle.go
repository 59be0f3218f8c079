package ledger

import (
	"context"
	"fmt"
	"time"

	"school-ledger/internal/models"
	"school-ledger/internal/store"
)

// Lifecycle applies enrollment-status transitions. Moving a student to
// Inactive captures the freeze snapshot the balance engine relies on.
type Lifecycle struct {
	students store.StudentStore
	engine   *Engine
}

func NewLifecycle(students store.StudentStore, engine *Engine) *Lifecycle {
	return &Lifecycle{students: students, engine: engine}
}

// ChangeEnrollmentStatus moves the student to newStatus. A transition to
// Inactive snapshots the current derived totals as frozenFeesTotal and
// frozenBalance (clamped at zero); any other transition writes only the
// status and leaves an existing freeze snapshot in place.
func (l *Lifecycle) ChangeEnrollmentStatus(ctx context.Context, studentID, newStatus string) (*models.Student, error) {
	if !models.IsValidEnrollmentStatus(newStatus) {
		return nil, &models.InvalidStatusError{Status: newStatus}
	}

	student, err := l.students.ByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if newStatus == models.StatusInactive {
		summary, err := l.engine.CalculateStudentBalance(ctx, studentID)
		if err != nil {
			return nil, fmt.Errorf("failed to compute balance for freeze: %w", err)
		}
		now := time.Now()
		student.FrozenAt = &now
		student.FrozenFeesTotal = summary.TotalFeesCharged
		student.FrozenBalance = clampNonNegative(summary.CalculatedBalance)
	}

	student.EnrollmentStatus = newStatus
	if err := l.students.Update(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to update enrollment status: %w", err)
	}
	return student, nil
}

// RemoveStudent soft-removes the student by setting status Removed.
// Removal is refused while the derived balance is positive.
func (l *Lifecycle) RemoveStudent(ctx context.Context, studentID string) (*models.Student, error) {
	student, err := l.students.ByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	summary, err := l.engine.CalculateStudentBalance(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute balance for removal: %w", err)
	}
	if summary.CalculatedBalance > 0 {
		return nil, &models.OutstandingBalanceError{StudentID: studentID, Balance: summary.CalculatedBalance}
	}

	student.EnrollmentStatus = models.StatusRemoved
	if err := l.students.Update(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to remove student: %w", err)
	}
	return student, nil
}

// ClearStudentBalance zeroes the balance hint; see Engine.ClearStudentBalance.
func (l *Lifecycle) ClearStudentBalance(ctx context.Context, studentID, reason string) (*models.Student, error) {
	return l.engine.ClearStudentBalance(ctx, studentID, reason)
}

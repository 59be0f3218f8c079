package ledger

import (
	"context"
	"testing"

	"school-ledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLifecycleFixture() (*fixture, *Lifecycle) {
	f := newFixture()
	return f, NewLifecycle(f.students, f.engine)
}

func TestInactiveTransitionFreezesTotals(t *testing.T) {
	f, lc := newLifecycleFixture()
	f.addStudent(t, &models.Student{ID: "A", FirstName: "Alice", LastName: "Adams"})
	f.addAttendance(t, "2023-01-01", "A", models.AttendanceAbsent, nil) // fee 5
	f.addAttendance(t, "2023-01-02", "A", models.AttendancePresent, map[string]bool{"late": true})
	f.addPayment(t, "A", "2023-01-03", 2)

	student, err := lc.ChangeEnrollmentStatus(context.Background(), "A", models.StatusInactive)
	require.NoError(t, err)

	assert.Equal(t, models.StatusInactive, student.EnrollmentStatus)
	require.NotNil(t, student.FrozenAt)
	assert.Equal(t, 6, student.FrozenFeesTotal)
	assert.Equal(t, 4, student.FrozenBalance)

	// Attendance added after the freeze does not move the balance.
	f.addAttendance(t, "2023-02-01", "A", models.AttendanceAbsent, nil)

	summary, err := f.engine.CalculateStudentBalance(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, 6, summary.TotalFeesCharged)
	assert.Equal(t, 4, summary.CalculatedBalance)
	assert.True(t, summary.Inactive)
}

func TestFreezeClampsNegativeBalance(t *testing.T) {
	f, lc := newLifecycleFixture()
	f.addStudent(t, &models.Student{ID: "B", FirstName: "Bob", LastName: "Brown"})
	f.addAttendance(t, "2023-01-01", "B", models.AttendanceAbsent, nil) // fee 5
	f.addPayment(t, "B", "2023-01-02", 50)

	student, err := lc.ChangeEnrollmentStatus(context.Background(), "B", models.StatusInactive)
	require.NoError(t, err)

	assert.Equal(t, 5, student.FrozenFeesTotal)
	assert.Equal(t, 0, student.FrozenBalance)
}

func TestPlainStatusChangeDoesNotFreeze(t *testing.T) {
	f, lc := newLifecycleFixture()
	f.addStudent(t, &models.Student{ID: "C", FirstName: "Cara", LastName: "Cole",
		EnrollmentStatus: models.StatusPendingPayment})

	student, err := lc.ChangeEnrollmentStatus(context.Background(), "C", models.StatusEnrolled)
	require.NoError(t, err)

	assert.Equal(t, models.StatusEnrolled, student.EnrollmentStatus)
	assert.Nil(t, student.FrozenAt)
}

func TestInvalidStatusRejected(t *testing.T) {
	f, lc := newLifecycleFixture()
	f.addStudent(t, &models.Student{ID: "C", FirstName: "Cara", LastName: "Cole"})

	_, err := lc.ChangeEnrollmentStatus(context.Background(), "C", "Expelled")
	var invalid *models.InvalidStatusError
	assert.ErrorAs(t, err, &invalid)
}

func TestRemoveStudentRefusedWithOutstandingBalance(t *testing.T) {
	f, lc := newLifecycleFixture()
	f.addStudent(t, &models.Student{ID: "D", FirstName: "Dina", LastName: "Diaz"})
	f.addAttendance(t, "2023-01-01", "D", models.AttendanceAbsent, nil)

	_, err := lc.RemoveStudent(context.Background(), "D")
	var outstanding *models.OutstandingBalanceError
	require.ErrorAs(t, err, &outstanding)
	assert.Equal(t, 5, outstanding.Balance)

	// Student remains untouched.
	st, err := f.students.ByID(context.Background(), "D")
	require.NoError(t, err)
	assert.NotEqual(t, models.StatusRemoved, st.EnrollmentStatus)
}

func TestRemoveStudentWithSettledBalance(t *testing.T) {
	f, lc := newLifecycleFixture()
	f.addStudent(t, &models.Student{ID: "E", FirstName: "Eli", LastName: "Evans"})
	f.addAttendance(t, "2023-01-01", "E", models.AttendanceAbsent, nil)
	f.addPayment(t, "E", "2023-01-02", 5)

	student, err := lc.RemoveStudent(context.Background(), "E")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRemoved, student.EnrollmentStatus)
}

func TestRemoveStudentMissing(t *testing.T) {
	_, lc := newLifecycleFixture()

	_, err := lc.RemoveStudent(context.Background(), "ghost")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

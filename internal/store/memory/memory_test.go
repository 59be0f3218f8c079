package memory

import (
	"context"
	"testing"
	"time"

	"school-ledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, key string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", key, time.Local)
	require.NoError(t, err)
	return d
}

func TestAttendanceMergeWrite(t *testing.T) {
	s := NewAttendanceStore()
	ctx := context.Background()

	require.NoError(t, s.SetRecord(ctx, "2023-01-09", "A", models.AttendanceRecord{Status: models.AttendancePresent}))
	require.NoError(t, s.SetRecords(ctx, "2023-01-09", map[string]models.AttendanceRecord{
		"B": {Status: models.AttendanceAbsent},
	}))

	got, err := s.Day(ctx, "2023-01-09")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Records, 2, "batch write must merge, not replace")
	assert.Equal(t, models.AttendancePresent, got.Records["A"].Status)

	// Re-submitting one student overwrites only that student.
	require.NoError(t, s.SetRecord(ctx, "2023-01-09", "A", models.AttendanceRecord{Status: models.AttendanceLate}))
	got, err = s.Day(ctx, "2023-01-09")
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceLate, got.Records["A"].Status)
	assert.Equal(t, models.AttendanceAbsent, got.Records["B"].Status)
}

func TestAttendanceMissingDayIsNil(t *testing.T) {
	s := NewAttendanceStore()

	got, err := s.Day(context.Background(), "2023-01-09")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAttendanceRejectsBadDateKey(t *testing.T) {
	s := NewAttendanceStore()

	err := s.SetRecord(context.Background(), "09/01/2023", "A", models.AttendanceRecord{Status: models.AttendancePresent})
	assert.Error(t, err)
}

func TestAttendanceRangeAndHistoryAscending(t *testing.T) {
	s := NewAttendanceStore()
	ctx := context.Background()

	for _, key := range []string{"2023-01-20", "2023-01-05", "2023-02-01", "2023-01-10"} {
		require.NoError(t, s.SetRecord(ctx, key, "A", models.AttendanceRecord{Status: models.AttendancePresent}))
	}

	days, err := s.DaysInRange(ctx, day(t, "2023-01-01"), day(t, "2023-02-01"))
	require.NoError(t, err)
	require.Len(t, days, 3, "range end is exclusive")
	assert.Equal(t, "2023-01-05", days[0].Date)
	assert.Equal(t, "2023-01-20", days[2].Date)

	history, err := s.StudentHistory(ctx, "A")
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, "2023-01-05", history[0].Date)
	assert.Equal(t, "2023-02-01", history[3].Date)
}

func TestAttendanceRemoveRecordDropsEmptyDay(t *testing.T) {
	s := NewAttendanceStore()
	ctx := context.Background()

	require.NoError(t, s.SetRecords(ctx, "2023-01-09", map[string]models.AttendanceRecord{
		"A": {Status: models.AttendancePresent},
		"B": {Status: models.AttendanceAbsent},
	}))

	require.NoError(t, s.RemoveRecord(ctx, "2023-01-09", "A"))
	got, err := s.Day(ctx, "2023-01-09")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Records, 1)

	require.NoError(t, s.RemoveRecord(ctx, "2023-01-09", "B"))
	got, err = s.Day(ctx, "2023-01-09")
	require.NoError(t, err)
	assert.Nil(t, got, "day document disappears with its last record")
}

func TestAttendanceReadsAreCopies(t *testing.T) {
	s := NewAttendanceStore()
	ctx := context.Background()

	require.NoError(t, s.SetRecord(ctx, "2023-01-09", "A", models.AttendanceRecord{
		Status:     models.AttendancePresent,
		Attributes: map[string]bool{"late": true},
	}))

	got, err := s.Day(ctx, "2023-01-09")
	require.NoError(t, err)
	got.Records["A"] = models.AttendanceRecord{Status: models.AttendanceAbsent}

	again, err := s.Day(ctx, "2023-01-09")
	require.NoError(t, err)
	assert.Equal(t, models.AttendancePresent, again.Records["A"].Status)
}

func TestPaymentsOrderingNewestFirst(t *testing.T) {
	s := NewPaymentStore()
	ctx := context.Background()

	base := day(t, "2023-01-10")
	older := &models.Payment{ID: "p1", StudentID: "A", Amount: 5, Date: day(t, "2023-01-05"), CreatedAt: base}
	newer := &models.Payment{ID: "p2", StudentID: "A", Amount: 7, Date: day(t, "2023-01-20"), CreatedAt: base}
	// Same date as older but created later: createdAt breaks the tie.
	tied := &models.Payment{ID: "p3", StudentID: "A", Amount: 9, Date: day(t, "2023-01-05"), CreatedAt: base.Add(time.Hour)}

	for _, p := range []*models.Payment{older, newer, tied} {
		require.NoError(t, s.Create(ctx, p))
	}

	got, err := s.ByStudent(ctx, "A")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "p2", got[0].ID)
	assert.Equal(t, "p3", got[1].ID)
	assert.Equal(t, "p1", got[2].ID)
}

func TestPaymentsDateRangeExclusiveEnd(t *testing.T) {
	s := NewPaymentStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, &models.Payment{ID: "in", StudentID: "A", Amount: 1, Date: day(t, "2023-01-31")}))
	require.NoError(t, s.Create(ctx, &models.Payment{ID: "out", StudentID: "A", Amount: 1, Date: day(t, "2023-02-01")}))

	got, err := s.ByDateRange(ctx, day(t, "2023-01-01"), day(t, "2023-02-01"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "in", got[0].ID)
}

func TestPaymentsDeleteAndMissing(t *testing.T) {
	s := NewPaymentStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, &models.Payment{ID: "p1", StudentID: "A", Amount: 1, Date: day(t, "2023-01-05")}))
	require.NoError(t, s.Delete(ctx, "p1"))

	_, err := s.ByID(ctx, "p1")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "p1"), models.ErrNotFound)
}

func TestStudentsSortedByName(t *testing.T) {
	s := NewStudentStore()
	ctx := context.Background()

	for _, st := range []*models.Student{
		{ID: "1", FirstName: "zoe", LastName: "Young", Role: models.RoleStudent, EnrollmentStatus: models.StatusEnrolled},
		{ID: "2", FirstName: "Adam", LastName: "Berg", Role: models.RoleStudent, EnrollmentStatus: models.StatusEnrolled},
		{ID: "3", FirstName: "Mia", LastName: "Khan", Role: models.RoleStudent, EnrollmentStatus: models.StatusInactive},
	} {
		require.NoError(t, s.Create(ctx, st))
	}

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2", all[0].ID, "sort is case-insensitive by full name")
	assert.Equal(t, "3", all[1].ID)
	assert.Equal(t, "1", all[2].ID)

	inactive, err := s.ByStatus(ctx, models.StatusInactive)
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, "3", inactive[0].ID)
}

func TestStudentUpdateIsCopied(t *testing.T) {
	s := NewStudentStore()
	ctx := context.Background()

	st := &models.Student{ID: "1", FirstName: "Ada", LastName: "Lund", Role: models.RoleStudent, EnrollmentStatus: models.StatusEnrolled}
	require.NoError(t, s.Create(ctx, st))

	st.Balance = 99 // mutating the caller's copy must not leak into the store
	got, err := s.ByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Balance)

	got.Balance = 7
	require.NoError(t, s.Update(ctx, got))
	again, err := s.ByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 7, again.Balance)
}

func TestExpensesRangeAndOrdering(t *testing.T) {
	s := NewExpenseStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, &models.Expense{ID: "e1", Category: models.ExpenseSupplies, Amount: 10, Date: day(t, "2023-01-05")}))
	require.NoError(t, s.Create(ctx, &models.Expense{ID: "e2", Category: models.ExpenseUtilities, Amount: 20, Date: day(t, "2023-01-15")}))
	require.NoError(t, s.Create(ctx, &models.Expense{ID: "e3", Category: models.ExpenseOther, Amount: 30, Date: day(t, "2023-02-02")}))

	got, err := s.ByDateRange(ctx, day(t, "2023-01-01"), day(t, "2023-02-01"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "e2", got[0].ID, "newest first")
	assert.Equal(t, "e1", got[1].ID)
}

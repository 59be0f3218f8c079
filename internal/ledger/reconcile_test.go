package ledger

import (
	"context"
	"testing"

	"school-ledger/internal/fees"
	"school-ledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReconcilerFixture() (*fixture, *Reconciler) {
	f := newFixture()
	return f, NewReconciler(f.attendance, f.payments, fees.NewCalculator())
}

func TestReconcileFIFO(t *testing.T) {
	f, r := newReconcilerFixture()
	f.addStudent(t, &models.Student{ID: "D", FirstName: "Dina", LastName: "Diaz"})
	f.addAttendance(t, "2023-02-01", "D", models.AttendanceAbsent, nil)               // fee 5
	f.addAttendance(t, "2023-03-01", "D", models.AttendancePresent, map[string]bool{ // fee 3
		"late": true, "noShoes": true, "notInUniform": true,
	})
	f.addPayment(t, "D", "2023-02-15", 6)

	rec, err := r.Reconcile(context.Background(), "D")
	require.NoError(t, err)
	require.Len(t, rec.FeeHistory, 2)

	first := rec.FeeHistory[0]
	assert.Equal(t, "2023-02-01", first.Date)
	assert.Equal(t, PaymentStatusPaid, first.PaymentStatus)
	assert.Equal(t, 5, first.PaidAmount)
	assert.Equal(t, 0, first.RemainingAmount)

	second := rec.FeeHistory[1]
	assert.Equal(t, "2023-03-01", second.Date)
	assert.Equal(t, PaymentStatusPartial, second.PaymentStatus)
	assert.Equal(t, 1, second.PaidAmount)
	assert.Equal(t, 2, second.RemainingAmount)
}

func TestReconcileSyntheticEntry(t *testing.T) {
	f, r := newReconcilerFixture()
	f.addStudent(t, &models.Student{ID: "D", FirstName: "Dina", LastName: "Diaz"})
	f.addAttendance(t, "2023-02-01", "D", models.AttendanceAbsent, nil)
	f.addAttendance(t, "2023-03-01", "D", models.AttendancePresent, map[string]bool{
		"late": true, "noShoes": true, "notInUniform": true,
	})
	// Payment on a day with no attendance record.
	f.addPayment(t, "D", "2023-04-10", 6)

	rec, err := r.Reconcile(context.Background(), "D")
	require.NoError(t, err)
	require.Len(t, rec.FeeHistory, 3)

	// Real fees still absorb the pooled payment in FIFO order.
	assert.Equal(t, PaymentStatusPaid, rec.FeeHistory[0].PaymentStatus)
	assert.Equal(t, PaymentStatusPartial, rec.FeeHistory[1].PaymentStatus)
	assert.Equal(t, 1, rec.FeeHistory[1].PaidAmount)

	synthetic := rec.FeeHistory[2]
	assert.Equal(t, "2023-04-10", synthetic.Date)
	assert.True(t, synthetic.Synthetic)
	assert.Equal(t, 6, synthetic.Fee)
	assert.Equal(t, PaymentStatusPaid, synthetic.PaymentStatus)
	assert.Equal(t, 6, synthetic.PaidAmount)
	assert.Equal(t, 0, synthetic.RemainingAmount)
	assert.Equal(t, models.AttendanceAbsent, synthetic.Status)
}

func TestReconcileNoSyntheticEntryWithinTimeline(t *testing.T) {
	f, r := newReconcilerFixture()
	f.addStudent(t, &models.Student{ID: "D", FirstName: "Dina", LastName: "Diaz"})
	f.addAttendance(t, "2023-02-01", "D", models.AttendanceAbsent, nil)
	f.addAttendance(t, "2023-03-01", "D", models.AttendancePresent, map[string]bool{
		"late": true, "noShoes": true, "notInUniform": true,
	})
	// Paid on a no-attendance day between the two fee days: the money only
	// feeds the pool, it does not add a timeline row.
	f.addPayment(t, "D", "2023-02-15", 6)

	rec, err := r.Reconcile(context.Background(), "D")
	require.NoError(t, err)
	require.Len(t, rec.FeeHistory, 2)

	paid := 0
	for _, entry := range rec.FeeHistory {
		assert.False(t, entry.Synthetic)
		paid += entry.PaidAmount
	}
	assert.Equal(t, 6, paid)
}

func TestReconcileUnpaidWhenNoPayments(t *testing.T) {
	f, r := newReconcilerFixture()
	f.addStudent(t, &models.Student{ID: "E", FirstName: "Eli", LastName: "Evans"})
	f.addAttendance(t, "2023-05-01", "E", models.AttendanceAbsent, nil)

	rec, err := r.Reconcile(context.Background(), "E")
	require.NoError(t, err)
	require.Len(t, rec.FeeHistory, 1)

	entry := rec.FeeHistory[0]
	assert.Equal(t, PaymentStatusUnpaid, entry.PaymentStatus)
	assert.Equal(t, 0, entry.PaidAmount)
	assert.Equal(t, 5, entry.RemainingAmount)
}

func TestReconcilePreservesZeroFeeEntries(t *testing.T) {
	f, r := newReconcilerFixture()
	f.addStudent(t, &models.Student{ID: "E", FirstName: "Eli", LastName: "Evans"})
	f.addAttendance(t, "2023-05-01", "E", models.AttendancePresent, nil)
	f.addAttendance(t, "2023-05-02", "E", models.AttendanceMedicalAbsence, nil)
	f.addPayment(t, "E", "2023-05-01", 10)

	rec, err := r.Reconcile(context.Background(), "E")
	require.NoError(t, err)
	require.Len(t, rec.FeeHistory, 2)

	for _, entry := range rec.FeeHistory {
		assert.Equal(t, 0, entry.Fee)
		assert.Equal(t, PaymentStatusUnpaid, entry.PaymentStatus)
		assert.Equal(t, 0, entry.PaidAmount)
		assert.Equal(t, 0, entry.RemainingAmount)
	}
}

func TestReconcilePaidAmountsBoundedByPayments(t *testing.T) {
	f, r := newReconcilerFixture()
	f.addStudent(t, &models.Student{ID: "F", FirstName: "Fay", LastName: "Ford"})
	f.addAttendance(t, "2023-06-01", "F", models.AttendanceAbsent, nil)
	f.addAttendance(t, "2023-06-02", "F", models.AttendanceAbsent, nil)
	f.addAttendance(t, "2023-06-03", "F", models.AttendanceAbsent, nil)
	f.addPayment(t, "F", "2023-06-02", 7)

	rec, err := r.Reconcile(context.Background(), "F")
	require.NoError(t, err)

	paid := 0
	for _, entry := range rec.FeeHistory {
		if !entry.Synthetic {
			paid += entry.PaidAmount
		}
	}
	assert.LessOrEqual(t, paid, 7)
	assert.Equal(t, 7, paid)
}

func TestReconcileIsDeterministic(t *testing.T) {
	f, r := newReconcilerFixture()
	f.addStudent(t, &models.Student{ID: "G", FirstName: "Gus", LastName: "Gray"})
	f.addAttendance(t, "2023-07-03", "G", models.AttendanceAbsent, nil)
	f.addAttendance(t, "2023-07-01", "G", models.AttendancePresent, map[string]bool{"late": true})
	f.addAttendance(t, "2023-07-02", "G", models.AttendanceAbsent, nil)
	f.addPayment(t, "G", "2023-07-04", 4)
	f.addPayment(t, "G", "2023-07-05", 3)

	first, err := r.Reconcile(context.Background(), "G")
	require.NoError(t, err)
	second, err := r.Reconcile(context.Background(), "G")
	require.NoError(t, err)

	assert.Equal(t, first.FeeHistory, second.FeeHistory)

	// Timeline is sorted ascending by date.
	for i := 1; i < len(first.FeeHistory); i++ {
		assert.LessOrEqual(t, first.FeeHistory[i-1].Date, first.FeeHistory[i].Date)
	}
}

func TestReconcilePaymentHistoryNewestFirst(t *testing.T) {
	f, r := newReconcilerFixture()
	f.addStudent(t, &models.Student{ID: "H", FirstName: "Hal", LastName: "Hart"})
	f.addPayment(t, "H", "2023-01-01", 1)
	f.addPayment(t, "H", "2023-03-01", 2)
	f.addPayment(t, "H", "2023-02-01", 3)

	rec, err := r.Reconcile(context.Background(), "H")
	require.NoError(t, err)
	require.Len(t, rec.PaymentHistory, 3)

	assert.Equal(t, 2, rec.PaymentHistory[0].Amount)
	assert.Equal(t, 3, rec.PaymentHistory[1].Amount)
	assert.Equal(t, 1, rec.PaymentHistory[2].Amount)
}

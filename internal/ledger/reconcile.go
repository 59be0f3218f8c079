package ledger

import (
	"context"
	"fmt"
	"sort"

	"school-ledger/internal/dateutil"
	"school-ledger/internal/fees"
	"school-ledger/internal/models"
	"school-ledger/internal/store"
)

// Payment states of a single fee entry after reconciliation.
const (
	PaymentStatusPaid    = "paid"
	PaymentStatusPartial = "partial"
	PaymentStatusUnpaid  = "unpaid"
)

// FeeEntry is one row of a student's fee timeline. Synthetic entries are
// derived from payments made on days with no attendance record; they keep
// the timeline visually complete and are always fully paid.
type FeeEntry struct {
	Date            string          `json:"date"`
	Status          string          `json:"status"`
	Attributes      map[string]bool `json:"attributes,omitempty"`
	Fee             int             `json:"fee"`
	PaymentStatus   string          `json:"paymentStatus"`
	PaidAmount      int             `json:"paidAmount"`
	RemainingAmount int             `json:"remainingAmount"`
	Synthetic       bool            `json:"isSynthetic,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// Reconciliation is the full financial timeline of one student.
type Reconciliation struct {
	FeeHistory     []FeeEntry        `json:"feeHistory"`
	PaymentHistory []*models.Payment `json:"paymentHistory"`
}

// Reconciler matches payments against fees in FIFO order by fee date.
type Reconciler struct {
	attendance store.AttendanceStore
	payments   store.PaymentStore
	calc       *fees.Calculator
}

func NewReconciler(attendance store.AttendanceStore, payments store.PaymentStore, calc *fees.Calculator) *Reconciler {
	return &Reconciler{attendance: attendance, payments: payments, calc: calc}
}

// Reconcile builds the ordered fee timeline for the student.
//
// Payments pool into a single remaining amount that is consumed by fees in
// chronological order: a fee is paid when the pool covers it, partial when
// the pool runs dry on it, unpaid after that. Zero-amount fees stay in the
// timeline as unpaid with zero fields. A payment on a day without an
// attendance record becomes a synthetic paid entry only when it falls after
// the last real fee day; payments interleaved within the recorded timeline
// are pool-only. Synthetic entries never consume from the pool, because they
// represent the payment itself.
func (r *Reconciler) Reconcile(ctx context.Context, studentID string) (*Reconciliation, error) {
	history, err := r.attendance.StudentHistory(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance history: %w", err)
	}
	sort.SliceStable(history, func(i, j int) bool { return history[i].Date < history[j].Date })

	payments, err := r.payments.ByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment history: %w", err)
	}

	remaining := 0
	for _, p := range payments {
		remaining += p.Amount
	}

	attendanceDays := make(map[string]bool, len(history))
	entries := make([]FeeEntry, 0, len(history))
	for _, item := range history {
		attendanceDays[item.Date] = true

		fee := r.calc.RecordFee(item.Record)
		entry := FeeEntry{
			Date:          item.Date,
			Status:        item.Record.Status,
			Attributes:    item.Record.Attributes,
			Fee:           fee,
			PaymentStatus: PaymentStatusUnpaid,
		}

		if fee > 0 {
			switch {
			case remaining >= fee:
				entry.PaymentStatus = PaymentStatusPaid
				entry.PaidAmount = fee
				remaining -= fee
			case remaining > 0:
				entry.PaymentStatus = PaymentStatusPartial
				entry.PaidAmount = remaining
				entry.RemainingAmount = fee - remaining
				remaining = 0
			default:
				entry.RemainingAmount = fee
			}
		}
		entries = append(entries, entry)
	}

	// Payments on days with no attendance record become synthetic entries,
	// but only past the end of the recorded timeline. Walk oldest first so
	// same-day synthetics keep store order.
	lastFeeDate := ""
	if len(history) > 0 {
		lastFeeDate = history[len(history)-1].Date
	}
	for i := len(payments) - 1; i >= 0; i-- {
		p := payments[i]
		key := dateutil.ToKey(p.Date)
		if attendanceDays[key] || key <= lastFeeDate {
			continue
		}
		entries = append(entries, FeeEntry{
			Date:          key,
			Status:        models.AttendanceAbsent,
			Attributes:    map[string]bool{},
			Fee:           p.Amount,
			PaymentStatus: PaymentStatusPaid,
			PaidAmount:    p.Amount,
			Synthetic:     true,
			Notes:         p.Notes,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })

	return &Reconciliation{
		FeeHistory:     entries,
		PaymentHistory: payments,
	}, nil
}

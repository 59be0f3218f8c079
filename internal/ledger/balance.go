// Package ledger implements the financial reconciliation engine: per-student
// balances, FIFO matching of payments against fees, and enrollment
// transitions including the Inactive freeze.
package ledger

import (
	"context"
	"fmt"
	"time"

	"school-ledger/internal/dateutil"
	"school-ledger/internal/fees"
	"school-ledger/internal/models"
	"school-ledger/internal/store"

	"github.com/google/uuid"
)

// Engine derives per-student balances from the attendance and payment
// streams. The persisted balance field is only a hint; this is the
// authoritative computation.
type Engine struct {
	students   store.StudentStore
	attendance store.AttendanceStore
	payments   store.PaymentStore
	calc       *fees.Calculator
}

func NewEngine(students store.StudentStore, attendance store.AttendanceStore, payments store.PaymentStore, calc *fees.Calculator) *Engine {
	return &Engine{
		students:   students,
		attendance: attendance,
		payments:   payments,
		calc:       calc,
	}
}

// BalanceSummary is the derived financial position of one student.
// CalculatedBalance is never negative.
type BalanceSummary struct {
	TotalFeesCharged  int        `json:"totalFeesCharged"`
	TotalPaymentsMade int        `json:"totalPaymentsMade"`
	CalculatedBalance int        `json:"calculatedBalance"`
	Inactive          bool       `json:"inactive,omitempty"`
	FrozenAt          *time.Time `json:"frozenAt,omitempty"`
}

// PaymentResult pairs a recorded payment with the student it updated.
type PaymentResult struct {
	Payment        *models.Payment `json:"payment"`
	UpdatedStudent *models.Student `json:"updatedStudent"`
}

// CalculateStudentBalance sums fees over the student's attendance history
// and payments over their payment history.
//
// For Inactive students the fee side comes from the freeze snapshot:
// attendance recorded after frozenAt does not change the balance.
func (e *Engine) CalculateStudentBalance(ctx context.Context, studentID string) (*BalanceSummary, error) {
	student, err := e.students.ByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	payments, err := e.payments.ByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment history: %w", err)
	}
	totalPayments := 0
	for _, p := range payments {
		totalPayments += p.Amount
	}

	if student.EnrollmentStatus == models.StatusInactive {
		return &BalanceSummary{
			TotalFeesCharged:  student.FrozenFeesTotal,
			TotalPaymentsMade: totalPayments,
			CalculatedBalance: clampNonNegative(student.FrozenFeesTotal - totalPayments),
			Inactive:          true,
			FrozenAt:          student.FrozenAt,
		}, nil
	}

	history, err := e.attendance.StudentHistory(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance history: %w", err)
	}
	totalFees := 0
	for _, entry := range history {
		totalFees += e.calc.RecordFee(entry.Record)
	}

	return &BalanceSummary{
		TotalFeesCharged:  totalFees,
		TotalPaymentsMade: totalPayments,
		CalculatedBalance: clampNonNegative(totalFees - totalPayments),
	}, nil
}

// RecordPayment validates and persists a payment, then decrements the
// student's balance hint, clamped at zero.
//
// The payment write and the balance write are independent; if the second
// fails the balance hint is stale but the next CalculateStudentBalance
// recomputes from sources.
func (e *Engine) RecordPayment(ctx context.Context, p *models.Payment) (*PaymentResult, error) {
	if p.Amount <= 0 {
		return nil, &models.InvalidPaymentError{Reason: "amount must be positive"}
	}
	if p.PaymentMethod != models.MethodCash && p.PaymentMethod != models.MethodCard {
		return nil, &models.InvalidPaymentError{Reason: fmt.Sprintf("unsupported payment method %q", p.PaymentMethod)}
	}
	if p.Date.IsZero() {
		return nil, &models.InvalidPaymentError{Reason: "payment date is required"}
	}
	if err := dateutil.ValidateNotFutureDate(p.Date); err != nil {
		return nil, &models.InvalidPaymentError{Reason: err.Error()}
	}

	student, err := e.students.ByID(ctx, p.StudentID)
	if err != nil {
		return nil, err
	}

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	if err := e.payments.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	student.Balance = clampNonNegative(student.Balance - p.Amount)
	if err := e.students.Update(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to update student balance: %w", err)
	}

	return &PaymentResult{Payment: p, UpdatedStudent: student}, nil
}

// DeletePayment removes a payment and gives its amount back to the
// student's balance, the additive inverse of RecordPayment modulo the
// clamp at zero.
func (e *Engine) DeletePayment(ctx context.Context, paymentID string) (*models.Student, error) {
	payment, err := e.payments.ByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	student, err := e.students.ByID(ctx, payment.StudentID)
	if err != nil {
		return nil, err
	}

	if err := e.payments.Delete(ctx, paymentID); err != nil {
		return nil, fmt.Errorf("failed to delete payment: %w", err)
	}

	student.Balance += payment.Amount
	if err := e.students.Update(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to update student balance: %w", err)
	}
	return student, nil
}

// ClearStudentBalance zeroes the balance hint and records the clearing
// snapshot with the previous balance and the admin's reason.
func (e *Engine) ClearStudentBalance(ctx context.Context, studentID, reason string) (*models.Student, error) {
	student, err := e.students.ByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	student.BalanceCleared = &models.BalanceCleared{
		Date:            time.Now(),
		PreviousBalance: student.Balance,
		Reason:          reason,
	}
	student.Balance = 0
	if err := e.students.Update(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to clear student balance: %w", err)
	}
	return student, nil
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

package models

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a missing student, payment, or expense.
// Store implementations return it wrapped so callers can errors.Is on it.
var ErrNotFound = errors.New("not found")

// InvalidPaymentError reports a payment that failed basic checks
// (non-positive amount, unsupported method, unparseable date).
type InvalidPaymentError struct {
	Reason string
}

func (e *InvalidPaymentError) Error() string {
	return fmt.Sprintf("invalid payment: %s", e.Reason)
}

// InvalidExpenseError reports an expense that failed basic checks.
type InvalidExpenseError struct {
	Reason string
}

func (e *InvalidExpenseError) Error() string {
	return fmt.Sprintf("invalid expense: %s", e.Reason)
}

// InvalidStatusError reports an enrollment status outside the closed set.
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid enrollment status %q", e.Status)
}

// OutstandingBalanceError is returned when removal is attempted while the
// student still owes money.
type OutstandingBalanceError struct {
	StudentID string
	Balance   int
}

func (e *OutstandingBalanceError) Error() string {
	return fmt.Sprintf("student %s has an outstanding balance of %d", e.StudentID, e.Balance)
}

// UnsupportedFormatError is returned for export formats outside {pdf, csv, excel}.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported export format %q", e.Format)
}

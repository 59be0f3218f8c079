package models

import (
	"time"
)

// Roles stored on user documents.
const (
	RoleStudent    = "student"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// Enrollment statuses. Enrolled and Pending Payment count as active;
// Inactive freezes the student's obligations; Removed is a soft delete.
const (
	StatusEnrolled       = "Enrolled"
	StatusPendingPayment = "Pending Payment"
	StatusInactive       = "Inactive"
	StatusRemoved        = "Removed"
)

// EnrollmentStatuses is the closed set of valid enrollment statuses.
var EnrollmentStatuses = []string{StatusEnrolled, StatusPendingPayment, StatusInactive, StatusRemoved}

// IsValidEnrollmentStatus reports whether s is in the closed status set.
func IsValidEnrollmentStatus(s string) bool {
	for _, v := range EnrollmentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsActiveStatus reports whether a student with this status contributes
// fees and payments to reports.
func IsActiveStatus(s string) bool {
	return s == StatusEnrolled || s == StatusPendingPayment
}

// Attendance statuses.
const (
	AttendancePresent        = "present"
	AttendanceAbsent         = "absent"
	AttendanceLate           = "late"
	AttendanceMedicalAbsence = "medicalAbsence"
	AttendanceHoliday        = "holiday"
)

// AttendanceStatuses is the closed set of valid attendance statuses.
var AttendanceStatuses = []string{
	AttendancePresent, AttendanceAbsent, AttendanceLate,
	AttendanceMedicalAbsence, AttendanceHoliday,
}

// IsValidAttendanceStatus reports whether s is a known attendance status.
func IsValidAttendanceStatus(s string) bool {
	for _, v := range AttendanceStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Attribute keys on an attendance record. Only these contribute to fees.
const (
	AttrLate         = "late"
	AttrNoShoes      = "noShoes"
	AttrNotInUniform = "notInUniform"
)

// Payment methods accepted when recording a payment.
const (
	MethodCash = "cash"
	MethodCard = "card"
)

// Expense categories.
const (
	ExpenseSupplies    = "supplies"
	ExpenseUtilities   = "utilities"
	ExpenseMaintenance = "maintenance"
	ExpenseSalaries    = "salaries"
	ExpenseOther       = "other"
)

// ExpenseCategories is the closed set of valid expense categories.
var ExpenseCategories = []string{
	ExpenseSupplies, ExpenseUtilities, ExpenseMaintenance, ExpenseSalaries, ExpenseOther,
}

// IsValidExpenseCategory reports whether c is a known expense category.
func IsValidExpenseCategory(c string) bool {
	for _, v := range ExpenseCategories {
		if c == v {
			return true
		}
	}
	return false
}

// BalanceCleared records an explicit admin balance clearing.
type BalanceCleared struct {
	Date            time.Time `json:"date"`
	PreviousBalance int       `json:"previousBalance"`
	Reason          string    `json:"reason"`
}

// Student is a user document with role=student. Balance is a denormalized
// hint; the authoritative value always comes from the balance engine.
type Student struct {
	ID               string          `json:"id"`
	FirstName        string          `json:"firstName"`
	LastName         string          `json:"lastName"`
	Email            string          `json:"email"`
	Role             string          `json:"role"`
	EnrollmentStatus string          `json:"enrollmentStatus"`
	Balance          int             `json:"balance"`
	FrozenAt         *time.Time      `json:"frozenAt,omitempty"`
	FrozenFeesTotal  int             `json:"frozenFeesTotal,omitempty"`
	FrozenBalance    int             `json:"frozenBalance,omitempty"`
	BalanceCleared   *BalanceCleared `json:"balanceCleared,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// FullName returns "First Last" for display and sorting.
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// AttendanceRecord is one student's entry inside a day document.
type AttendanceRecord struct {
	Status     string          `json:"status"`
	Timestamp  time.Time       `json:"timestamp"`
	Attributes map[string]bool `json:"attributes,omitempty"`
}

// AttendanceDay is the per-day document, keyed by the YYYY-MM-DD date key.
type AttendanceDay struct {
	Date    string                      `json:"date"`
	Records map[string]AttendanceRecord `json:"records"`
}

// IsHoliday reports whether any record in the day carries the holiday status,
// which marks the whole day as a non-school day.
func (d *AttendanceDay) IsHoliday() bool {
	for _, rec := range d.Records {
		if rec.Status == AttendanceHoliday {
			return true
		}
	}
	return false
}

// StudentAttendance pairs a date key with one student's record on that day.
type StudentAttendance struct {
	Date   string           `json:"date"`
	Record AttendanceRecord `json:"record"`
}

// Payment is a single payment document.
type Payment struct {
	ID            string    `json:"id"`
	StudentID     string    `json:"studentId"`
	Amount        int       `json:"amount"`
	Date          time.Time `json:"date"`
	PaymentMethod string    `json:"paymentMethod"`
	Notes         string    `json:"notes,omitempty"`
	AdminID       string    `json:"adminId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Expense is an operational expense document.
type Expense struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Amount      int       `json:"amount"`
	Date        time.Time `json:"date"`
	AdminID     string    `json:"adminId"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

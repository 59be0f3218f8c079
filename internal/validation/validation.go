// Package validation provides form-level validation for incoming student,
// attendance, payment and expense data. Validation never fails hard: it
// always returns a Result listing the problems found.
package validation

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"school-ledger/internal/models"
)

// Payment methods accepted by form validation. This is the looser intake
// set; the ledger itself only records cash and card.
var FormPaymentMethods = []string{"cash", "credit", "bank_transfer", "check", "other"}

// Result is the outcome of validating one input.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// StudentInput is the shape validated before creating or updating a student.
type StudentInput struct {
	FirstName        string `json:"firstName" validate:"required"`
	LastName         string `json:"lastName" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	EnrollmentStatus string `json:"enrollmentStatus" validate:"omitempty,enrollment_status"`
}

// AttendanceInput is one student's attendance submission for a day.
type AttendanceInput struct {
	StudentID  string          `json:"studentId" validate:"required"`
	Status     string          `json:"status" validate:"required,attendance_status"`
	Attributes map[string]bool `json:"attributes"`
}

// PaymentInput is the shape validated before recording a payment.
type PaymentInput struct {
	StudentID     string    `json:"studentId" validate:"required"`
	Amount        int       `json:"amount" validate:"required,gt=0"`
	Date          time.Time `json:"date" validate:"required"`
	PaymentMethod string    `json:"paymentMethod" validate:"omitempty,form_payment_method"`
}

// ExpenseInput is the shape validated before recording an expense.
type ExpenseInput struct {
	Category    string    `json:"category" validate:"required,expense_category"`
	Description string    `json:"description" validate:"required"`
	Amount      int       `json:"amount" validate:"required,gt=0"`
	Date        time.Time `json:"date" validate:"required"`
}

// Service wraps a configured validator instance.
type Service struct {
	validate *validator.Validate
}

// NewService registers the domain rules and returns a Service.
func NewService() *Service {
	v := validator.New(validator.WithRequiredStructEnabled())

	mustRegister(v, "enrollment_status", func(fl validator.FieldLevel) bool {
		return models.IsValidEnrollmentStatus(fl.Field().String())
	})
	mustRegister(v, "attendance_status", func(fl validator.FieldLevel) bool {
		return models.IsValidAttendanceStatus(fl.Field().String())
	})
	mustRegister(v, "expense_category", func(fl validator.FieldLevel) bool {
		return models.IsValidExpenseCategory(fl.Field().String())
	})
	mustRegister(v, "form_payment_method", func(fl validator.FieldLevel) bool {
		method := fl.Field().String()
		for _, m := range FormPaymentMethods {
			if method == m {
				return true
			}
		}
		return false
	})

	return &Service{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("failed to register validation %q: %v", tag, err))
	}
}

// ValidateStudent checks a student submission.
func (s *Service) ValidateStudent(in StudentInput) Result {
	return s.run(in)
}

// ValidateAttendance checks an attendance submission, including that every
// attribute key is a known fee-bearing attribute.
func (s *Service) ValidateAttendance(in AttendanceInput) Result {
	result := s.run(in)
	for key := range in.Attributes {
		switch key {
		case models.AttrLate, models.AttrNoShoes, models.AttrNotInUniform:
		default:
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("attributes: unknown attribute %q", key))
		}
	}
	return result
}

// ValidatePayment checks a payment submission.
func (s *Service) ValidatePayment(in PaymentInput) Result {
	return s.run(in)
}

// ValidateExpense checks an expense submission.
func (s *Service) ValidateExpense(in ExpenseInput) Result {
	return s.run(in)
}

func (s *Service) run(in any) Result {
	err := s.validate.Struct(in)
	if err == nil {
		return Result{Valid: true, Errors: []string{}}
	}

	result := Result{Errors: []string{}}
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range errs {
			result.Errors = append(result.Errors, describe(fe))
		}
		return result
	}
	result.Errors = append(result.Errors, err.Error())
	return result
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s: required", fe.Field())
	case "email":
		return fmt.Sprintf("%s: must be a valid email address", fe.Field())
	case "gt":
		return fmt.Sprintf("%s: must be greater than %s", fe.Field(), fe.Param())
	case "enrollment_status":
		return fmt.Sprintf("%s: must be one of %v", fe.Field(), models.EnrollmentStatuses)
	case "attendance_status":
		return fmt.Sprintf("%s: must be one of %v", fe.Field(), models.AttendanceStatuses)
	case "expense_category":
		return fmt.Sprintf("%s: must be one of %v", fe.Field(), models.ExpenseCategories)
	case "form_payment_method":
		return fmt.Sprintf("%s: must be one of %v", fe.Field(), FormPaymentMethods)
	default:
		return fmt.Sprintf("%s: failed %s validation", fe.Field(), fe.Tag())
	}
}

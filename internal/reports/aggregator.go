// Package reports builds the monthly, cumulative, attendance, dashboard,
// export and visualization read models from the stores and the ledger.
package reports

import (
	"context"
	"fmt"
	"time"

	"school-ledger/internal/cache"
	"school-ledger/internal/dateutil"
	"school-ledger/internal/fees"
	"school-ledger/internal/ledger"
	"school-ledger/internal/models"
	"school-ledger/internal/store"
)

// Aggregator composes the stores, the fee calculator and the balance
// engine into report objects.
//
// includeInactiveStudents relaxes the active-student filter so Inactive
// students contribute fees and per-student rows; Removed students are
// always excluded. Production keeps the flag off.
type Aggregator struct {
	students                store.StudentStore
	attendance              store.AttendanceStore
	payments                store.PaymentStore
	expenses                store.ExpenseStore
	engine                  *ledger.Engine
	calc                    *fees.Calculator
	cache                   *cache.Cache
	includeInactiveStudents bool
}

// NewAggregator builds an Aggregator. The cache may be nil, in which case
// monthly reports are recomputed on every call.
func NewAggregator(
	students store.StudentStore,
	attendance store.AttendanceStore,
	payments store.PaymentStore,
	expenses store.ExpenseStore,
	engine *ledger.Engine,
	calc *fees.Calculator,
	reportCache *cache.Cache,
	includeInactiveStudents bool,
) *Aggregator {
	return &Aggregator{
		students:                students,
		attendance:              attendance,
		payments:                payments,
		expenses:                expenses,
		engine:                  engine,
		calc:                    calc,
		cache:                   reportCache,
		includeInactiveStudents: includeInactiveStudents,
	}
}

// Period identifies the reported month.
type Period struct {
	Month       int    `json:"month"`
	Year        int    `json:"year"`
	DisplayName string `json:"displayName"`
}

// Summary carries the monthly money totals. OutstandingBalance is the
// legacy signed delta totalFeesCharged − totalPaymentsReceived and can be
// negative; the other buckets never are.
type Summary struct {
	TotalFeesCharged      int `json:"totalFeesCharged"`
	TotalPaymentsReceived int `json:"totalPaymentsReceived"`
	FeesCollected         int `json:"feesCollected"`
	PendingFees           int `json:"pendingFees"`
	FeesInPaymentProcess  int `json:"feesInPaymentProcess"`
	OutstandingBalance    int `json:"outstandingBalance"`
}

// FeeTypeBreakdown counts fee-bearing events per type. These are counts,
// not monetary sums.
type FeeTypeBreakdown struct {
	Absence      int `json:"absence"`
	Late         int `json:"late"`
	NoShoes      int `json:"noShoes"`
	NotInUniform int `json:"notInUniform"`
}

func (b *FeeTypeBreakdown) add(other FeeTypeBreakdown) {
	b.Absence += other.Absence
	b.Late += other.Late
	b.NoShoes += other.NoShoes
	b.NotInUniform += other.NotInUniform
}

// FeeBreakdown wraps the by-type counts.
type FeeBreakdown struct {
	ByType FeeTypeBreakdown `json:"byType"`
}

// Per-student payment statuses in the monthly report.
const (
	StudentStatusPaid    = "paid"
	StudentStatusPartial = "partial"
	StudentStatusPending = "pending"
	StudentStatusNone    = "none"
)

// StudentDetail is one row of the monthly report, alphabetical by name.
type StudentDetail struct {
	StudentID     string           `json:"studentId"`
	Name          string           `json:"name"`
	Email         string           `json:"email"`
	FeesCharged   int              `json:"feesCharged"`
	PaymentsMade  int              `json:"paymentsMade"`
	Balance       int              `json:"balance"`
	PaymentStatus string           `json:"paymentStatus"`
	Breakdown     FeeTypeBreakdown `json:"breakdown"`
}

// ExpenseSummary totals the month's operational expenses.
type ExpenseSummary struct {
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"byCategory"`
}

// MonthlyReport is the detailed monthly financial report.
type MonthlyReport struct {
	Title          string          `json:"title"`
	Period         Period          `json:"period"`
	Summary        Summary         `json:"summary"`
	FeeBreakdown   FeeBreakdown    `json:"feeBreakdown"`
	StudentDetails []StudentDetail `json:"studentDetails"`
	Expenses       ExpenseSummary  `json:"expenses"`
}

// GenerateMonthlyReport builds the detailed financial report for the month
// containing monthDate. Results are memoized in the TTL cache per month.
func (a *Aggregator) GenerateMonthlyReport(ctx context.Context, monthDate time.Time) (*MonthlyReport, error) {
	cacheKey := "monthly-report:" + monthDate.Local().Format("2006-01")
	if a.cache != nil {
		if cached, ok := a.cache.Get(cacheKey); ok {
			if report, ok := cached.(*MonthlyReport); ok {
				return report, nil
			}
		}
	}

	report, err := a.buildMonthlyReport(ctx, monthDate)
	if err != nil {
		return nil, fmt.Errorf("failed to generate monthly financial report: %w", err)
	}

	if a.cache != nil {
		a.cache.Set(cacheKey, report)
	}
	return report, nil
}

func (a *Aggregator) buildMonthlyReport(ctx context.Context, monthDate time.Time) (*MonthlyReport, error) {
	monthStart, monthEnd := dateutil.MonthBounds(monthDate)

	students, err := a.reportableStudents(ctx)
	if err != nil {
		return nil, err
	}

	included := make(map[string]*models.Student, len(students))
	for _, st := range students {
		included[st.ID] = st
	}

	days, err := a.attendance.DaysInRange(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	summary := Summary{}
	breakdown := FeeTypeBreakdown{}
	perStudentFees := make(map[string]int)
	perStudentBreakdown := make(map[string]*FeeTypeBreakdown)

	for _, day := range days {
		for studentID, rec := range day.Records {
			if _, ok := included[studentID]; !ok {
				continue
			}

			fee := a.calc.RecordFee(rec)
			summary.TotalFeesCharged += fee
			perStudentFees[studentID] += fee

			sb := perStudentBreakdown[studentID]
			if sb == nil {
				sb = &FeeTypeBreakdown{}
				perStudentBreakdown[studentID] = sb
			}
			countRecord(rec, &breakdown, sb)
		}
	}

	monthPayments, err := a.payments.ByDateRange(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	perStudentPayments := make(map[string]int)
	for _, p := range monthPayments {
		// The raw sum includes every payment in the month, regardless of
		// the student filter.
		summary.TotalPaymentsReceived += p.Amount
		perStudentPayments[p.StudentID] += p.Amount
	}

	details := make([]StudentDetail, 0, len(students))
	for _, st := range students {
		charged := perStudentFees[st.ID]
		paid := perStudentPayments[st.ID]

		detail := StudentDetail{
			StudentID:    st.ID,
			Name:         st.FullName(),
			Email:        st.Email,
			FeesCharged:  charged,
			PaymentsMade: paid,
			Balance:      clampNonNegative(charged - paid),
		}
		if sb := perStudentBreakdown[st.ID]; sb != nil {
			detail.Breakdown = *sb
		}

		switch {
		case charged > 0 && paid >= charged:
			detail.PaymentStatus = StudentStatusPaid
			summary.FeesCollected += charged
		case charged > 0 && paid > 0:
			detail.PaymentStatus = StudentStatusPartial
			summary.FeesCollected += paid
			summary.FeesInPaymentProcess += charged - paid
		case charged > 0:
			detail.PaymentStatus = StudentStatusPending
			summary.PendingFees += charged
		default:
			detail.PaymentStatus = StudentStatusNone
		}

		details = append(details, detail)
	}

	summary.OutstandingBalance = summary.TotalFeesCharged - summary.TotalPaymentsReceived

	expenseSummary, err := a.expenseSummary(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	display := fmt.Sprintf("%s %d", monthStart.Month(), monthStart.Year())
	return &MonthlyReport{
		Title: "Monthly Financial Report: " + display,
		Period: Period{
			Month:       int(monthStart.Month()),
			Year:        monthStart.Year(),
			DisplayName: display,
		},
		Summary:        summary,
		FeeBreakdown:   FeeBreakdown{ByType: breakdown},
		StudentDetails: details,
		Expenses:       expenseSummary,
	}, nil
}

// reportableStudents returns the students whose fees count in reports:
// Enrolled and Pending Payment, plus Inactive when the toggle is on.
// Removed students never count.
func (a *Aggregator) reportableStudents(ctx context.Context) ([]*models.Student, error) {
	all, err := a.students.All(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*models.Student, 0, len(all))
	for _, st := range all {
		if models.IsActiveStatus(st.EnrollmentStatus) ||
			(a.includeInactiveStudents && st.EnrollmentStatus == models.StatusInactive) {
			out = append(out, st)
		}
	}
	return out, nil
}

func (a *Aggregator) expenseSummary(ctx context.Context, start, end time.Time) (ExpenseSummary, error) {
	expenses, err := a.expenses.ByDateRange(ctx, start, end)
	if err != nil {
		return ExpenseSummary{}, err
	}

	summary := ExpenseSummary{ByCategory: make(map[string]int)}
	for _, e := range expenses {
		summary.Total += e.Amount
		summary.ByCategory[e.Category] += e.Amount
	}
	return summary, nil
}

// countRecord adds one attendance record to the global and the per-student
// fee-type buckets. Buckets count events, not money: an absence counts one
// absence, each true attribute flag counts one of its type, and a
// standalone late status counts as a late flag.
func countRecord(rec models.AttendanceRecord, buckets ...*FeeTypeBreakdown) {
	delta := FeeTypeBreakdown{}

	switch rec.Status {
	case models.AttendanceAbsent:
		delta.Absence++
	case models.AttendanceLate:
		delta.Late++
		if rec.Attributes[models.AttrNoShoes] {
			delta.NoShoes++
		}
		if rec.Attributes[models.AttrNotInUniform] {
			delta.NotInUniform++
		}
	case models.AttendancePresent:
		if rec.Attributes[models.AttrLate] {
			delta.Late++
		}
		if rec.Attributes[models.AttrNoShoes] {
			delta.NoShoes++
		}
		if rec.Attributes[models.AttrNotInUniform] {
			delta.NotInUniform++
		}
	}

	for _, b := range buckets {
		b.add(delta)
	}
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

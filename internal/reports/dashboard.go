package reports

import (
	"context"
	"fmt"
	"time"
)

// DashboardStudent is one row of the balances dashboard. Balance is the
// engine-derived figure; StoredBalance echoes the persisted hint so drift
// is visible.
type DashboardStudent struct {
	StudentID     string `json:"studentId"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	TotalFees     int    `json:"totalFees"`
	TotalPayments int    `json:"totalPayments"`
	Balance       int    `json:"balance"`
	StoredBalance int    `json:"storedBalance"`
	Status        string `json:"status"`
	Inactive      bool   `json:"inactive"`
}

// Dashboard is the at-a-glance balances view across active students.
type Dashboard struct {
	GeneratedAt      time.Time          `json:"generatedAt"`
	StudentCount     int                `json:"studentCount"`
	TotalFees        int                `json:"totalFees"`
	TotalPayments    int                `json:"totalPayments"`
	TotalOutstanding int                `json:"totalOutstanding"`
	Students         []DashboardStudent `json:"students"`
}

// GenerateDashboard derives a current balance summary for every
// reportable student, sorted by name.
func (a *Aggregator) GenerateDashboard(ctx context.Context) (*Dashboard, error) {
	students, err := a.reportableStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate dashboard: %w", err)
	}

	dashboard := &Dashboard{
		GeneratedAt:  time.Now(),
		StudentCount: len(students),
		Students:     make([]DashboardStudent, 0, len(students)),
	}

	for _, st := range students {
		summary, err := a.engine.CalculateStudentBalance(ctx, st.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to generate dashboard: %w", err)
		}

		dashboard.TotalFees += summary.TotalFeesCharged
		dashboard.TotalPayments += summary.TotalPaymentsMade
		dashboard.TotalOutstanding += summary.CalculatedBalance
		dashboard.Students = append(dashboard.Students, DashboardStudent{
			StudentID:     st.ID,
			Name:          st.FullName(),
			Email:         st.Email,
			TotalFees:     summary.TotalFeesCharged,
			TotalPayments: summary.TotalPaymentsMade,
			Balance:       summary.CalculatedBalance,
			StoredBalance: st.Balance,
			Status:        st.EnrollmentStatus,
			Inactive:      summary.Inactive,
		})
	}
	return dashboard, nil
}

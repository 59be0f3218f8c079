package reports

import (
	"context"
	"fmt"
	"time"

	"school-ledger/internal/dateutil"
)

// YearToDate summarizes collections across the whole requested range.
type YearToDate struct {
	Year                  int     `json:"year"`
	TotalFeesCharged      int     `json:"totalFeesCharged"`
	TotalPaymentsReceived int     `json:"totalPaymentsReceived"`
	CollectionRate        float64 `json:"collectionRate"`
}

// MonthlyTotal is one month's slice of the cumulative report.
type MonthlyTotal struct {
	Period  Period  `json:"period"`
	Summary Summary `json:"summary"`
}

// CumulativeReport aggregates the monthly reports across a date range.
type CumulativeReport struct {
	Title        string         `json:"title"`
	StartDate    string         `json:"startDate"`
	EndDate      string         `json:"endDate"`
	Totals       Summary        `json:"totals"`
	FeeBreakdown FeeBreakdown   `json:"feeBreakdown"`
	Months       []MonthlyTotal `json:"months"`
	YearToDate   YearToDate     `json:"yearToDate"`
}

// GenerateCumulativeReport sums the monthly reports for every month whose
// first day falls inside [start, end]. Zero start and end default to the
// current calendar year.
func (a *Aggregator) GenerateCumulativeReport(ctx context.Context, start, end time.Time) (*CumulativeReport, error) {
	if start.IsZero() || end.IsZero() {
		now := dateutil.StartOfDay(time.Now())
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		end = time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, now.Location())
	}
	start = dateutil.StartOfDay(start)
	end = dateutil.StartOfDay(end)
	if end.Before(start) {
		return nil, fmt.Errorf("invalid report range: end %s before start %s",
			dateutil.ToKey(end), dateutil.ToKey(start))
	}

	report := &CumulativeReport{
		StartDate: dateutil.ToKey(start),
		EndDate:   dateutil.ToKey(end),
	}

	firstMonth, _ := dateutil.MonthBounds(start)
	lastMonth, _ := dateutil.MonthBounds(end)

	for cursor := firstMonth; !cursor.After(lastMonth); cursor = dateutil.AddMonths(cursor, 1) {
		monthly, err := a.GenerateMonthlyReport(ctx, cursor)
		if err != nil {
			return nil, err
		}

		report.Totals.TotalFeesCharged += monthly.Summary.TotalFeesCharged
		report.Totals.TotalPaymentsReceived += monthly.Summary.TotalPaymentsReceived
		report.Totals.FeesCollected += monthly.Summary.FeesCollected
		report.Totals.PendingFees += monthly.Summary.PendingFees
		report.Totals.FeesInPaymentProcess += monthly.Summary.FeesInPaymentProcess
		report.FeeBreakdown.ByType.add(monthly.FeeBreakdown.ByType)

		report.Months = append(report.Months, MonthlyTotal{
			Period:  monthly.Period,
			Summary: monthly.Summary,
		})
	}
	report.Totals.OutstandingBalance = report.Totals.TotalFeesCharged - report.Totals.TotalPaymentsReceived

	rate := 0.0
	if report.Totals.TotalFeesCharged > 0 {
		rate = float64(report.Totals.FeesCollected) / float64(report.Totals.TotalFeesCharged) * 100
	}
	report.YearToDate = YearToDate{
		Year:                  start.Year(),
		TotalFeesCharged:      report.Totals.TotalFeesCharged,
		TotalPaymentsReceived: report.Totals.TotalPaymentsReceived,
		CollectionRate:        rate,
	}

	report.Title = fmt.Sprintf("Cumulative Financial Report: %s %d - %s %d",
		firstMonth.Month(), firstMonth.Year(), lastMonth.Month(), lastMonth.Year())
	return report, nil
}

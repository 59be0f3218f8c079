package reports

import (
	"context"
	"fmt"
	"time"
)

// Series is one labeled data series for a chart.
type Series struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// VisualizationData carries the chart-ready series built from the
// cumulative report.
type VisualizationData struct {
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	MonthlyFees     Series `json:"monthlyFees"`
	MonthlyPayments Series `json:"monthlyPayments"`
	Distribution    Series `json:"distribution"`
	FeeBreakdown    Series `json:"feeBreakdown"`
	CollectionRate  Series `json:"collectionRate"`
}

// GenerateVisualizationData reshapes the cumulative report into per-month
// and distribution series. Zero start and end default to the current
// calendar year, matching GenerateCumulativeReport.
func (a *Aggregator) GenerateVisualizationData(ctx context.Context, start, end time.Time) (*VisualizationData, error) {
	report, err := a.GenerateCumulativeReport(ctx, start, end)
	if err != nil {
		return nil, err
	}

	viz := &VisualizationData{
		StartDate: report.StartDate,
		EndDate:   report.EndDate,
	}

	for _, month := range report.Months {
		label := fmt.Sprintf("%s %d", time.Month(month.Period.Month).String()[:3], month.Period.Year)

		viz.MonthlyFees.Labels = append(viz.MonthlyFees.Labels, label)
		viz.MonthlyFees.Data = append(viz.MonthlyFees.Data, float64(month.Summary.TotalFeesCharged))

		viz.MonthlyPayments.Labels = append(viz.MonthlyPayments.Labels, label)
		viz.MonthlyPayments.Data = append(viz.MonthlyPayments.Data, float64(month.Summary.TotalPaymentsReceived))

		rate := 0.0
		if month.Summary.TotalFeesCharged > 0 {
			rate = float64(month.Summary.FeesCollected) / float64(month.Summary.TotalFeesCharged) * 100
		}
		viz.CollectionRate.Labels = append(viz.CollectionRate.Labels, label)
		viz.CollectionRate.Data = append(viz.CollectionRate.Data, rate)
	}

	viz.Distribution = Series{
		Labels: []string{"Collected", "Pending", "In Process"},
		Data: []float64{
			float64(report.Totals.FeesCollected),
			float64(report.Totals.PendingFees),
			float64(report.Totals.FeesInPaymentProcess),
		},
	}
	viz.FeeBreakdown = Series{
		Labels: []string{"Absence", "Late", "No Shoes", "Not In Uniform"},
		Data: []float64{
			float64(report.FeeBreakdown.ByType.Absence),
			float64(report.FeeBreakdown.ByType.Late),
			float64(report.FeeBreakdown.ByType.NoShoes),
			float64(report.FeeBreakdown.ByType.NotInUniform),
		},
	}
	return viz, nil
}

package handlers

import (
	"net/http"

	"school-ledger/internal/reports"
)

type ReportHandler struct {
	aggregator *reports.Aggregator
}

func NewReportHandler(aggregator *reports.Aggregator) *ReportHandler {
	return &ReportHandler{aggregator: aggregator}
}

// GET /api/reports/monthly?month=YYYY-MM
func (h *ReportHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	month, ok := parseMonthParam(r, "month")
	if !ok {
		jsonError(w, http.StatusBadRequest, "Invalid month parameter, expected YYYY-MM")
		return
	}
	report, err := h.aggregator.GenerateMonthlyReport(r.Context(), month)
	if err != nil {
		serverError(w, "Failed to generate monthly report", err)
		return
	}
	jsonResponse(w, http.StatusOK, report)
}

// GET /api/reports/cumulative?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *ReportHandler) Cumulative(w http.ResponseWriter, r *http.Request) {
	start, okStart := parseDateParam(r, "start")
	end, okEnd := parseDateParam(r, "end")
	if !okStart || !okEnd {
		jsonError(w, http.StatusBadRequest, "Invalid date parameter, expected YYYY-MM-DD")
		return
	}
	report, err := h.aggregator.GenerateCumulativeReport(r.Context(), start, end)
	if err != nil {
		serverError(w, "Failed to generate cumulative report", err)
		return
	}
	jsonResponse(w, http.StatusOK, report)
}

// GET /api/reports/attendance?month=YYYY-MM
func (h *ReportHandler) Attendance(w http.ResponseWriter, r *http.Request) {
	month, ok := parseMonthParam(r, "month")
	if !ok {
		jsonError(w, http.StatusBadRequest, "Invalid month parameter, expected YYYY-MM")
		return
	}
	report, err := h.aggregator.GenerateAttendanceReport(r.Context(), month)
	if err != nil {
		serverError(w, "Failed to generate attendance report", err)
		return
	}
	jsonResponse(w, http.StatusOK, report)
}

// GET /api/reports/dashboard
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.aggregator.GenerateDashboard(r.Context())
	if err != nil {
		serverError(w, "Failed to generate dashboard", err)
		return
	}
	jsonResponse(w, http.StatusOK, dashboard)
}

// GET /api/reports/export?month=YYYY-MM&format=pdf|csv|excel
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	month, ok := parseMonthParam(r, "month")
	if !ok {
		jsonError(w, http.StatusBadRequest, "Invalid month parameter, expected YYYY-MM")
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = reports.FormatPDF
	}
	exported, err := h.aggregator.ExportMonthlyReport(r.Context(), month, format)
	if err != nil {
		if !domainError(w, err) {
			serverError(w, "Failed to export report", err)
		}
		return
	}
	jsonResponse(w, http.StatusOK, exported)
}

// GET /api/reports/visualization?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *ReportHandler) Visualization(w http.ResponseWriter, r *http.Request) {
	start, okStart := parseDateParam(r, "start")
	end, okEnd := parseDateParam(r, "end")
	if !okStart || !okEnd {
		jsonError(w, http.StatusBadRequest, "Invalid date parameter, expected YYYY-MM-DD")
		return
	}
	viz, err := h.aggregator.GenerateVisualizationData(r.Context(), start, end)
	if err != nil {
		serverError(w, "Failed to generate visualization data", err)
		return
	}
	jsonResponse(w, http.StatusOK, viz)
}

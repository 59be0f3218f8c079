package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"school-ledger/internal/dateutil"
	"school-ledger/internal/models"
	"school-ledger/internal/store"
	"school-ledger/internal/validation"
)

type AttendanceHandler struct {
	attendance store.AttendanceStore
	validator  *validation.Service
}

func NewAttendanceHandler(attendance store.AttendanceStore, validator *validation.Service) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance, validator: validator}
}

// Routes under /api/attendance/{date} and /api/attendance/{date}/{studentId}.
func (h *AttendanceHandler) ByDate(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/attendance/")
	parts := strings.SplitN(rest, "/", 2)
	dateKey := parts[0]
	if _, err := dateutil.ParseKey(dateKey); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	if len(parts) == 2 && parts[1] != "" {
		h.studentRecord(w, r, dateKey, parts[1])
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.day(w, r, dateKey)
	case http.MethodPut:
		h.setDay(w, r, dateKey)
	default:
		jsonError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// GET /api/attendance/{date} - the whole day document
func (h *AttendanceHandler) day(w http.ResponseWriter, r *http.Request, dateKey string) {
	day, err := h.attendance.Day(r.Context(), dateKey)
	if err != nil {
		serverError(w, "Failed to load attendance day", err)
		return
	}
	if day == nil {
		day = &models.AttendanceDay{Date: dateKey, Records: map[string]models.AttendanceRecord{}}
	}
	jsonResponse(w, http.StatusOK, day)
}

// PUT /api/attendance/{date} - merge a batch of records into the day
func (h *AttendanceHandler) setDay(w http.ResponseWriter, r *http.Request, dateKey string) {
	var req struct {
		Records map[string]struct {
			Status     string          `json:"status"`
			Attributes map[string]bool `json:"attributes"`
		} `json:"records"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if len(req.Records) == 0 {
		jsonError(w, http.StatusBadRequest, "records is required")
		return
	}

	records := make(map[string]models.AttendanceRecord, len(req.Records))
	now := time.Now()
	for studentID, rec := range req.Records {
		if result := h.validator.ValidateAttendance(validation.AttendanceInput{
			StudentID:  studentID,
			Status:     rec.Status,
			Attributes: rec.Attributes,
		}); !result.Valid {
			jsonResponse(w, http.StatusBadRequest, result)
			return
		}
		records[studentID] = models.AttendanceRecord{
			Status:     rec.Status,
			Timestamp:  now,
			Attributes: rec.Attributes,
		}
	}

	if err := h.attendance.SetRecords(r.Context(), dateKey, records); err != nil {
		serverError(w, "Failed to save attendance", err)
		return
	}

	day, err := h.attendance.Day(r.Context(), dateKey)
	if err != nil {
		serverError(w, "Failed to load attendance day", err)
		return
	}
	jsonResponse(w, http.StatusOK, day)
}

// PUT or DELETE /api/attendance/{date}/{studentId} - one student's record
func (h *AttendanceHandler) studentRecord(w http.ResponseWriter, r *http.Request, dateKey, studentID string) {
	switch r.Method {
	case http.MethodPut:
		var req struct {
			Status     string          `json:"status"`
			Attributes map[string]bool `json:"attributes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if result := h.validator.ValidateAttendance(validation.AttendanceInput{
			StudentID:  studentID,
			Status:     req.Status,
			Attributes: req.Attributes,
		}); !result.Valid {
			jsonResponse(w, http.StatusBadRequest, result)
			return
		}
		rec := models.AttendanceRecord{
			Status:     req.Status,
			Timestamp:  time.Now(),
			Attributes: req.Attributes,
		}
		if err := h.attendance.SetRecord(r.Context(), dateKey, studentID, rec); err != nil {
			serverError(w, "Failed to save attendance record", err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]interface{}{
			"date":      dateKey,
			"studentId": studentID,
			"record":    rec,
		})
	case http.MethodDelete:
		if err := h.attendance.RemoveRecord(r.Context(), dateKey, studentID); err != nil {
			serverError(w, "Failed to remove attendance record", err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]bool{"deleted": true})
	default:
		jsonError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// Package handlers exposes the JSON API over the ledger, reports and
// stores.
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"school-ledger/internal/dateutil"
	"school-ledger/internal/models"
)

// JSON response helpers
func jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: Failed to encode JSON response: %v", err)
	}
}

func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// domainError maps the domain error kinds onto HTTP statuses and writes
// the response. It reports whether err was recognized and handled.
func domainError(w http.ResponseWriter, err error) bool {
	var invalidPayment *models.InvalidPaymentError
	var invalidExpense *models.InvalidExpenseError
	var invalidStatus *models.InvalidStatusError
	var outstanding *models.OutstandingBalanceError
	var unsupported *models.UnsupportedFormatError

	switch {
	case errors.Is(err, models.ErrNotFound):
		jsonError(w, http.StatusNotFound, "Not found")
	case errors.As(err, &invalidPayment),
		errors.As(err, &invalidExpense),
		errors.As(err, &invalidStatus),
		errors.As(err, &unsupported):
		jsonError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &outstanding):
		jsonError(w, http.StatusConflict, err.Error())
	default:
		return false
	}
	return true
}

// serverError logs err and writes a generic 500.
func serverError(w http.ResponseWriter, context string, err error) {
	log.Printf("ERROR: %s: %v", context, err)
	jsonError(w, http.StatusInternalServerError, "Internal server error")
}

// parseDateParam parses a YYYY-MM-DD query parameter. A missing value
// returns the zero time with ok=true so callers can apply defaults.
func parseDateParam(r *http.Request, name string) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := dateutil.ParseKey(raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseMonthParam parses a YYYY-MM query parameter, defaulting to the
// current month when absent.
func parseMonthParam(r *http.Request, name string) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return dateutil.StartOfDay(time.Now()), true
	}
	t, err := time.ParseInLocation("2006-01", raw, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

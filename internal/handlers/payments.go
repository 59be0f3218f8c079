package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"school-ledger/internal/ledger"
	"school-ledger/internal/models"
	"school-ledger/internal/store"
	"school-ledger/internal/validation"
)

type PaymentHandler struct {
	engine    *ledger.Engine
	payments  store.PaymentStore
	validator *validation.Service
}

func NewPaymentHandler(engine *ledger.Engine, payments store.PaymentStore, validator *validation.Service) *PaymentHandler {
	return &PaymentHandler{engine: engine, payments: payments, validator: validator}
}

type paymentRequest struct {
	StudentID     string    `json:"studentId"`
	Amount        int       `json:"amount"`
	Date          time.Time `json:"date"`
	PaymentMethod string    `json:"paymentMethod"`
	Notes         string    `json:"notes"`
	AdminID       string    `json:"adminId"`
}

// POST /api/payments - record a payment and update the student's balance
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if result := h.validator.ValidatePayment(validation.PaymentInput{
		StudentID:     req.StudentID,
		Amount:        req.Amount,
		Date:          req.Date,
		PaymentMethod: req.PaymentMethod,
	}); !result.Valid {
		jsonResponse(w, http.StatusBadRequest, result)
		return
	}

	result, err := h.engine.RecordPayment(r.Context(), &models.Payment{
		StudentID:     req.StudentID,
		Amount:        req.Amount,
		Date:          req.Date,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		AdminID:       req.AdminID,
	})
	if err != nil {
		if !domainError(w, err) {
			serverError(w, "Failed to record payment", err)
		}
		return
	}
	jsonResponse(w, http.StatusCreated, result)
}

// GET /api/payments - list payments, optionally bounded by start/end dates
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	start, okStart := parseDateParam(r, "start")
	end, okEnd := parseDateParam(r, "end")
	if !okStart || !okEnd {
		jsonError(w, http.StatusBadRequest, "Invalid date parameter, expected YYYY-MM-DD")
		return
	}

	var (
		payments []*models.Payment
		err      error
	)
	if start.IsZero() && end.IsZero() {
		payments, err = h.payments.All(r.Context())
	} else {
		if end.IsZero() {
			end = time.Now().AddDate(1, 0, 0)
		}
		payments, err = h.payments.ByDateRange(r.Context(), start, end)
	}
	if err != nil {
		serverError(w, "Failed to list payments", err)
		return
	}
	jsonResponse(w, http.StatusOK, payments)
}

// GET or DELETE /api/payments/{id}
func (h *PaymentHandler) ByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/payments/")
	if id == "" || strings.Contains(id, "/") {
		jsonError(w, http.StatusNotFound, "Not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		payment, err := h.payments.ByID(r.Context(), id)
		if err != nil {
			if !domainError(w, err) {
				serverError(w, "Failed to load payment", err)
			}
			return
		}
		jsonResponse(w, http.StatusOK, payment)
	case http.MethodDelete:
		student, err := h.engine.DeletePayment(r.Context(), id)
		if err != nil {
			if !domainError(w, err) {
				serverError(w, "Failed to delete payment", err)
			}
			return
		}
		jsonResponse(w, http.StatusOK, map[string]interface{}{
			"deleted":        true,
			"updatedStudent": student,
		})
	default:
		jsonError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

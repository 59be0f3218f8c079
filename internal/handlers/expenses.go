package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"school-ledger/internal/models"
	"school-ledger/internal/store"
	"school-ledger/internal/validation"
)

type ExpenseHandler struct {
	expenses  store.ExpenseStore
	validator *validation.Service
}

func NewExpenseHandler(expenses store.ExpenseStore, validator *validation.Service) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses, validator: validator}
}

type expenseRequest struct {
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Amount      int       `json:"amount"`
	Date        time.Time `json:"date"`
	AdminID     string    `json:"adminId"`
	Notes       string    `json:"notes"`
}

// POST /api/expenses - record an operational expense
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if result := h.validator.ValidateExpense(validation.ExpenseInput{
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        req.Date,
	}); !result.Valid {
		jsonResponse(w, http.StatusBadRequest, result)
		return
	}

	expense := &models.Expense{
		ID:          uuid.New().String(),
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        req.Date,
		AdminID:     req.AdminID,
		Notes:       req.Notes,
		CreatedAt:   time.Now(),
	}
	if err := h.expenses.Create(r.Context(), expense); err != nil {
		serverError(w, "Failed to record expense", err)
		return
	}
	jsonResponse(w, http.StatusCreated, expense)
}

// GET /api/expenses - list expenses, optionally bounded by start/end dates
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	start, okStart := parseDateParam(r, "start")
	end, okEnd := parseDateParam(r, "end")
	if !okStart || !okEnd {
		jsonError(w, http.StatusBadRequest, "Invalid date parameter, expected YYYY-MM-DD")
		return
	}

	var (
		expenses []*models.Expense
		err      error
	)
	if start.IsZero() && end.IsZero() {
		expenses, err = h.expenses.All(r.Context())
	} else {
		if end.IsZero() {
			end = time.Now().AddDate(1, 0, 0)
		}
		expenses, err = h.expenses.ByDateRange(r.Context(), start, end)
	}
	if err != nil {
		serverError(w, "Failed to list expenses", err)
		return
	}
	jsonResponse(w, http.StatusOK, expenses)
}

// GET or DELETE /api/expenses/{id}
func (h *ExpenseHandler) ByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/expenses/")
	if id == "" || strings.Contains(id, "/") {
		jsonError(w, http.StatusNotFound, "Not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		expense, err := h.expenses.ByID(r.Context(), id)
		if err != nil {
			if !domainError(w, err) {
				serverError(w, "Failed to load expense", err)
			}
			return
		}
		jsonResponse(w, http.StatusOK, expense)
	case http.MethodDelete:
		if err := h.expenses.Delete(r.Context(), id); err != nil {
			if !domainError(w, err) {
				serverError(w, "Failed to delete expense", err)
			}
			return
		}
		jsonResponse(w, http.StatusOK, map[string]bool{"deleted": true})
	default:
		jsonError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

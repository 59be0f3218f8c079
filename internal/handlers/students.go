package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"school-ledger/internal/ledger"
	"school-ledger/internal/models"
	"school-ledger/internal/store"
	"school-ledger/internal/validation"
)

type StudentHandler struct {
	students   store.StudentStore
	payments   store.PaymentStore
	engine     *ledger.Engine
	reconciler *ledger.Reconciler
	lifecycle  *ledger.Lifecycle
	validator  *validation.Service
}

func NewStudentHandler(
	students store.StudentStore,
	payments store.PaymentStore,
	engine *ledger.Engine,
	reconciler *ledger.Reconciler,
	lifecycle *ledger.Lifecycle,
	validator *validation.Service,
) *StudentHandler {
	return &StudentHandler{
		students:   students,
		payments:   payments,
		engine:     engine,
		reconciler: reconciler,
		lifecycle:  lifecycle,
		validator:  validator,
	}
}

type studentRequest struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	EnrollmentStatus string `json:"enrollmentStatus"`
}

// POST /api/students - create a student
func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req studentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if result := h.validator.ValidateStudent(validation.StudentInput{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		EnrollmentStatus: req.EnrollmentStatus,
	}); !result.Valid {
		jsonResponse(w, http.StatusBadRequest, result)
		return
	}

	// New students start out pending until their first payment clears.
	status := req.EnrollmentStatus
	if status == "" {
		status = models.StatusPendingPayment
	}
	student := &models.Student{
		ID:               uuid.New().String(),
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Role:             models.RoleStudent,
		EnrollmentStatus: status,
		CreatedAt:        time.Now(),
	}
	if err := h.students.Create(r.Context(), student); err != nil {
		serverError(w, "Failed to create student", err)
		return
	}
	jsonResponse(w, http.StatusCreated, student)
}

// GET /api/students - list students, optionally filtered by status
func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	var (
		students []*models.Student
		err      error
	)
	if status == "" {
		students, err = h.students.All(r.Context())
	} else if !models.IsValidEnrollmentStatus(status) {
		jsonError(w, http.StatusBadRequest, "Unknown enrollment status")
		return
	} else {
		students, err = h.students.ByStatus(r.Context(), status)
	}
	if err != nil {
		serverError(w, "Failed to list students", err)
		return
	}
	jsonResponse(w, http.StatusOK, students)
}

// Routes under /api/students/{id}/... dispatch on the trailing segment.
func (h *StudentHandler) ByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/students/")
	parts := strings.SplitN(rest, "/", 2)
	id := parts[0]
	if id == "" {
		jsonError(w, http.StatusNotFound, "Not found")
		return
	}
	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	switch action {
	case "":
		h.studentRoot(w, r, id)
	case "balance":
		h.balance(w, r, id)
	case "payments":
		h.paymentHistory(w, r, id)
	case "fees":
		h.feeReconciliation(w, r, id)
	case "financial-details":
		h.financialDetails(w, r, id)
	case "status":
		h.changeStatus(w, r, id)
	case "clear-balance":
		h.clearBalance(w, r, id)
	default:
		jsonError(w, http.StatusNotFound, "Not found")
	}
}

// GET or DELETE /api/students/{id}
func (h *StudentHandler) studentRoot(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		student, err := h.students.ByID(r.Context(), id)
		if err != nil {
			if !domainError(w, err) {
				serverError(w, "Failed to load student", err)
			}
			return
		}
		jsonResponse(w, http.StatusOK, student)
	case http.MethodDelete:
		student, err := h.lifecycle.RemoveStudent(r.Context(), id)
		if err != nil {
			if !domainError(w, err) {
				serverError(w, "Failed to remove student", err)
			}
			return
		}
		jsonResponse(w, http.StatusOK, student)
	default:
		jsonError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// GET /api/students/{id}/balance - derived balance summary
func (h *StudentHandler) balance(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		jsonError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	summary, err := h.engine.CalculateStudentBalance(r.Context(), id)
	if err != nil {
		if !domainError(w, err) {
			serverError(w, "Failed to calculate balance", err)
		}
		return
	}
	jsonResponse(w, http.StatusOK, summary)
}

// GET /api/students/{id}/payments - payment history, newest first
func (h *StudentHandler) paymentHistory(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		jsonError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	student, err := h.students.ByID(r.Context(), id)
	if err != nil {
		if !domainError(w, err) {
			serverError(w, "Failed to load student", err)
		}
		return
	}
	payments, err := h.payments.ByStudent(r.Context(), id)
	if err != nil {
		serverError(w, "Failed to load payment history", err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"student":  student,
		"payments": payments,
	})
}

// GET /api/students/{id}/fees - FIFO fee reconciliation
func (h *StudentHandler) feeReconciliation(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		jsonError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if _, err := h.students.ByID(r.Context(), id); err != nil {
		if !domainError(w, err) {
			serverError(w, "Failed to load student", err)
		}
		return
	}
	reconciliation, err := h.reconciler.Reconcile(r.Context(), id)
	if err != nil {
		serverError(w, "Failed to reconcile fees", err)
		return
	}
	jsonResponse(w, http.StatusOK, reconciliation)
}

// GET /api/students/{id}/financial-details - student, summary and histories
func (h *StudentHandler) financialDetails(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		jsonError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	student, err := h.students.ByID(r.Context(), id)
	if err != nil {
		if !domainError(w, err) {
			serverError(w, "Failed to load student", err)
		}
		return
	}
	summary, err := h.engine.CalculateStudentBalance(r.Context(), id)
	if err != nil {
		serverError(w, "Failed to calculate balance", err)
		return
	}
	reconciliation, err := h.reconciler.Reconcile(r.Context(), id)
	if err != nil {
		serverError(w, "Failed to reconcile fees", err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"student":          student,
		"financialSummary": summary,
		"feeHistory":       reconciliation.FeeHistory,
		"paymentHistory":   reconciliation.PaymentHistory,
	})
}

// PATCH /api/students/{id}/status - enrollment transition
func (h *StudentHandler) changeStatus(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPatch {
		jsonError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	student, err := h.lifecycle.ChangeEnrollmentStatus(r.Context(), id, req.Status)
	if err != nil {
		if !domainError(w, err) {
			serverError(w, "Failed to change enrollment status", err)
		}
		return
	}
	jsonResponse(w, http.StatusOK, student)
}

// POST /api/students/{id}/clear-balance - explicit admin clearing
func (h *StudentHandler) clearBalance(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		jsonError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	student, err := h.lifecycle.ClearStudentBalance(r.Context(), id, req.Reason)
	if err != nil {
		if !domainError(w, err) {
			serverError(w, "Failed to clear balance", err)
		}
		return
	}
	jsonResponse(w, http.StatusOK, student)
}

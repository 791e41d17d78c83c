package kpihandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kpiflow/internal/domain/hierarchy"
	"kpiflow/internal/domain/kpi"
	"kpiflow/internal/transport/http/api"
	"kpiflow/internal/transport/http/middleware"
)

type Handler struct {
	Service *kpi.Service
	Chains  *hierarchy.Service
}

func NewHandler(service *kpi.Service, chains *hierarchy.Service) *Handler {
	return &Handler{Service: service, Chains: chains}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/kpis", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/{kpiID}", h.handleGet)
		r.Put("/{kpiID}/values", h.handleUpdateValues)
		r.Post("/{kpiID}/recalculate", h.handleRecalculate)
		r.Post("/{kpiID}/submit", h.handleSubmit)
		r.Post("/{kpiID}/approve", h.handleApprove)
		r.Post("/{kpiID}/reject", h.handleReject)
		r.Post("/{kpiID}/reopen", h.handleReopen)
		r.Post("/{kpiID}/archive", h.handleArchive)
		r.Get("/{kpiID}/history", h.handleHistory)
	})
	r.Get("/approvals/pending", h.handlePending)
	r.Get("/approvals/queue", h.handleQueue)
	r.Get("/employees/{employeeID}/kpis/summary", h.handleSummary)
	r.Get("/employees/{employeeID}/chain", h.handleChain)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		EmployeeID      string   `json:"employeeId"`
		Department      string   `json:"department"`
		Category        string   `json:"category"`
		Target          *float64 `json:"target"`
		Achievement     *float64 `json:"achievement"`
		Direction       string   `json:"direction"`
		ObjectiveWeight float64  `json:"objectiveWeight"`
		KPIWeight       float64  `json:"kpiWeight"`
		Quarter         int      `json:"quarter"`
		FiscalYear      int      `json:"fiscalYear"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.EmployeeID == "" {
		payload.EmployeeID = user.UserID
	}
	if payload.Category == "" || payload.Quarter == 0 || payload.FiscalYear == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "category, quarter and fiscalYear are required", middleware.GetRequestID(r.Context()))
		return
	}

	record, err := h.Service.Create(r.Context(), kpi.CreateInput{
		EmployeeID:      payload.EmployeeID,
		Department:      payload.Department,
		Category:        payload.Category,
		Target:          payload.Target,
		Achievement:     payload.Achievement,
		Direction:       payload.Direction,
		ObjectiveWeight: payload.ObjectiveWeight,
		KPIWeight:       payload.KPIWeight,
		Quarter:         payload.Quarter,
		FiscalYear:      payload.FiscalYear,
	})
	if err != nil {
		h.fail(w, r, err, "kpi_create_failed", "failed to create kpi")
		return
	}
	api.Created(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	record, err := h.Service.Get(r.Context(), chi.URLParam(r, "kpiID"))
	if err != nil {
		h.fail(w, r, err, "kpi_get_failed", "failed to load kpi")
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateValues(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Target      *float64 `json:"target"`
		Achievement *float64 `json:"achievement"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	record, err := h.Service.UpdateValues(r.Context(), chi.URLParam(r, "kpiID"), payload.Target, payload.Achievement)
	if err != nil {
		h.fail(w, r, err, "kpi_update_failed", "failed to update kpi values")
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	record, err := h.Service.Recalculate(r.Context(), chi.URLParam(r, "kpiID"))
	if err != nil {
		h.fail(w, r, err, "kpi_recalculate_failed", "failed to recalculate kpi")
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Notes string `json:"notes"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}
	}

	record, err := h.Service.Submit(r.Context(), chi.URLParam(r, "kpiID"), user.UserID, payload.Notes)
	if err != nil {
		h.fail(w, r, err, "kpi_submit_failed", "failed to submit kpi")
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, approved bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Notes  string `json:"notes"`
		Reason string `json:"reason"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}
	}
	if !approved && payload.Reason == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "rejection reason is required", middleware.GetRequestID(r.Context()))
		return
	}

	record, err := h.Service.Approve(r.Context(), chi.URLParam(r, "kpiID"), user.UserID, kpi.Decision{
		Approved: approved,
		Notes:    payload.Notes,
		Reason:   payload.Reason,
	})
	if err != nil {
		h.fail(w, r, err, "kpi_decision_failed", "failed to record decision")
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReopen(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	record, err := h.Service.Reopen(r.Context(), chi.URLParam(r, "kpiID"), user.UserID)
	if err != nil {
		h.fail(w, r, err, "kpi_reopen_failed", "failed to reopen kpi")
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleArchive(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	record, err := h.Service.Archive(r.Context(), chi.URLParam(r, "kpiID"), user.UserID)
	if err != nil {
		h.fail(w, r, err, "kpi_archive_failed", "failed to archive kpi")
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.History(r.Context(), chi.URLParam(r, "kpiID"))
	if err != nil {
		h.fail(w, r, err, "kpi_history_failed", "failed to load history")
		return
	}
	api.Success(w, entries, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePending(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	records, err := h.Service.PendingForManager(r.Context(), user.UserID)
	if err != nil {
		h.fail(w, r, err, "pending_list_failed", "failed to list pending kpis")
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleQueue(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	queue, err := h.Service.Queue(r.Context(), user.UserID)
	if err != nil {
		h.fail(w, r, err, "queue_failed", "failed to load approval queue")
		return
	}
	api.Success(w, queue, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Summary(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		h.fail(w, r, err, "summary_failed", "failed to load status summary")
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleChain(w http.ResponseWriter, r *http.Request) {
	report, err := h.Chains.Report(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		h.fail(w, r, err, "chain_failed", "failed to load approval chain")
		return
	}
	api.Success(w, report, middleware.GetRequestID(r.Context()))
}

// fail maps the engine's error taxonomy onto HTTP statuses; anything outside
// the taxonomy is a 500 with the given fallback code.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, kpi.ErrKPINotFound), errors.Is(err, kpi.ErrManagerNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.Is(err, kpi.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "caller is not authorized for this kpi", requestID)
	case errors.Is(err, kpi.ErrInvalidState):
		api.Fail(w, http.StatusConflict, "precondition_failed", err.Error(), requestID)
	case errors.Is(err, kpi.ErrNoApprovalChain), errors.Is(err, kpi.ErrInvalidInput):
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_input", err.Error(), requestID)
	case errors.Is(err, kpi.ErrVersionConflict):
		api.Fail(w, http.StatusConflict, "conflict", "kpi was modified concurrently, retry", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}

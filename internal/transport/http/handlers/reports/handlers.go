package reportshandler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"kpiflow/internal/domain/reports"
	"kpiflow/internal/transport/http/api"
	"kpiflow/internal/transport/http/middleware"
)

type Handler struct {
	Service *reports.Service
}

func NewHandler(service *reports.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/approvals/count", h.handlePendingCount)
		r.Get("/employees/{employeeID}/scorecard", h.handleScorecard)
		r.Get("/employees/{employeeID}/scorecard.pdf", h.handleScorecardPDF)
	})
}

func (h *Handler) handlePendingCount(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	count, err := h.Service.PendingApprovalCount(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to count pending approvals", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]int{"pending": count}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleScorecard(w http.ResponseWriter, r *http.Request) {
	quarter, fiscalYear, ok := periodParams(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "quarter and fiscalYear query params are required", middleware.GetRequestID(r.Context()))
		return
	}

	card, err := h.Service.Scorecard(r.Context(), chi.URLParam(r, "employeeID"), quarter, fiscalYear)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build scorecard", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, card, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleScorecardPDF(w http.ResponseWriter, r *http.Request) {
	quarter, fiscalYear, ok := periodParams(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "quarter and fiscalYear query params are required", middleware.GetRequestID(r.Context()))
		return
	}

	filePath, err := h.Service.ScorecardPDF(r.Context(), chi.URLParam(r, "employeeID"), quarter, fiscalYear)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to render scorecard", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, filePath)
}

func periodParams(r *http.Request) (int, int, bool) {
	quarter, err := strconv.Atoi(r.URL.Query().Get("quarter"))
	if err != nil || quarter < 1 || quarter > 4 {
		return 0, 0, false
	}
	fiscalYear, err := strconv.Atoi(r.URL.Query().Get("fiscalYear"))
	if err != nil || fiscalYear == 0 {
		return 0, 0, false
	}
	return quarter, fiscalYear, true
}

package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ordersight/report-engine/pkg/logging"
	"github.com/ordersight/report-engine/pkg/models"
	"github.com/ordersight/report-engine/pkg/reports"
	"github.com/ordersight/report-engine/pkg/repositories"
)

// ReportsHandler exposes the five report queries over HTTP. All parameter
// handling goes through the reports validators; a validation failure is
// rejected before any query runs.
type ReportsHandler struct {
	repo   repositories.ReportRepository
	logger *zap.Logger
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(repo repositories.ReportRepository, logger *zap.Logger) *ReportsHandler {
	return &ReportsHandler{repo: repo, logger: logger}
}

// RegisterRoutes registers the report routes on the given mux.
func (h *ReportsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/reports/categories", h.CategorySales)
	mux.HandleFunc("GET /api/reports/products", h.ProductRanking)
	mux.HandleFunc("GET /api/reports/users", h.UserSummary)
	mux.HandleFunc("GET /api/reports/statuses", h.StatusSummary)
	mux.HandleFunc("GET /api/reports/daily", h.DailySummary)
}

type pageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type pageResponse[T any] struct {
	Data []T      `json:"data"`
	Meta pageMeta `json:"meta"`
}

type listResponse[T any] struct {
	Data []T `json:"data"`
}

// CategorySales handles GET /api/reports/categories.
func (h *ReportsHandler) CategorySales(w http.ResponseWriter, r *http.Request) {
	filter, err := reports.ParseCategorySalesFilter(queryParams(r))
	if err != nil {
		h.rejectInvalid(w, err)
		return
	}

	page, err := h.repo.CategorySales(r.Context(), filter)
	if err != nil {
		h.fetchFailed(w, "category sales", err)
		return
	}

	writePage(h, w, page)
}

// ProductRanking handles GET /api/reports/products.
func (h *ReportsHandler) ProductRanking(w http.ResponseWriter, r *http.Request) {
	filter, err := reports.ParseProductRankingFilter(queryParams(r))
	if err != nil {
		h.rejectInvalid(w, err)
		return
	}

	page, err := h.repo.ProductRanking(r.Context(), filter)
	if err != nil {
		h.fetchFailed(w, "product ranking", err)
		return
	}

	writePage(h, w, page)
}

// UserSummary handles GET /api/reports/users.
func (h *ReportsHandler) UserSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := reports.ParseUserSummaryFilter(queryParams(r))
	if err != nil {
		h.rejectInvalid(w, err)
		return
	}

	page, err := h.repo.UserSummary(r.Context(), filter)
	if err != nil {
		h.fetchFailed(w, "user summary", err)
		return
	}

	writePage(h, w, page)
}

// StatusSummary handles GET /api/reports/statuses.
func (h *ReportsHandler) StatusSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := reports.ParseStatusSummaryFilter(queryParams(r))
	if err != nil {
		h.rejectInvalid(w, err)
		return
	}

	summaries, err := h.repo.StatusSummary(r.Context(), filter)
	if err != nil {
		h.fetchFailed(w, "status summary", err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, listResponse[models.StatusSummary]{Data: summaries}); err != nil {
		h.logger.Error("Failed to encode status summary response", zap.Error(err))
	}
}

// DailySummary handles GET /api/reports/daily.
func (h *ReportsHandler) DailySummary(w http.ResponseWriter, r *http.Request) {
	filter, err := reports.ParseDailySummaryFilter(queryParams(r))
	if err != nil {
		h.rejectInvalid(w, err)
		return
	}

	page, err := h.repo.DailySummary(r.Context(), filter)
	if err != nil {
		h.fetchFailed(w, "daily summary", err)
		return
	}

	writePage(h, w, page)
}

// queryParams flattens the request query into the raw parameter map the
// validators consume. Unrecognized parameters are carried along and ignored
// by the validators; repeated parameters keep their first value.
func queryParams(r *http.Request) reports.Params {
	params := make(reports.Params)
	for name, values := range r.URL.Query() {
		if len(values) > 0 {
			params[name] = values[0]
		}
	}
	return params
}

func writePage[T any](h *ReportsHandler, w http.ResponseWriter, page *reports.Page[T]) {
	response := pageResponse[T]{
		Data: page.Rows,
		Meta: pageMeta{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		},
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode report response", zap.Error(err))
	}
}

// rejectInvalid maps a validation failure to 400 before any query has run.
func (h *ReportsHandler) rejectInvalid(w http.ResponseWriter, err error) {
	var verr *reports.ValidationError
	if errors.As(err, &verr) {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_parameter", verr.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "unexpected validation error"); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}

// fetchFailed surfaces a data-access failure. No retry; the caller is
// expected to degrade gracefully.
func (h *ReportsHandler) fetchFailed(w http.ResponseWriter, report string, err error) {
	h.logger.Error("Report fetch failed",
		zap.String("report", report),
		zap.String("error", logging.SanitizeError(err)),
	)
	if err := ErrorResponse(w, http.StatusServiceUnavailable, "report_unavailable", "report temporarily unavailable"); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}

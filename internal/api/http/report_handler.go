package http

import (
	"net/http"
	"time"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/service"
	"unilib-backend/internal/utils"
)

type ReportHandler struct {
	reportSvc service.ReportService
}

func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// dateRange reads from/to query parameters, defaulting to the last 30 days.
func dateRange(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := utils.ParseDate(raw)
		if err != nil {
			return time.Time{}, time.Time{}, domain.NewValidationError(domain.ErrInvalidInput, "invalid from date %q", raw)
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := utils.ParseDate(raw)
		if err != nil {
			return time.Time{}, time.Time{}, domain.NewValidationError(domain.ErrInvalidInput, "invalid to date %q", raw)
		}
		to = parsed
	}
	return from, to, nil
}

func (h *ReportHandler) DailySummary(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustActor(w, r); !ok {
		return
	}
	from, to, err := dateRange(r)
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := h.reportSvc.DailySummary(r.Context(), from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *ReportHandler) CurrentBorrowings(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustActor(w, r); !ok {
		return
	}

	rows, err := h.reportSvc.CurrentBorrowings(r.Context(), r.URL.Query().Get("department"), queryInt32(r, "category_id", 0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) OverdueBooks(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustActor(w, r); !ok {
		return
	}

	rows, err := h.reportSvc.OverdueBooks(r.Context(), r.URL.Query().Get("department"), queryInt32(r, "category_id", 0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) PopularBooks(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustActor(w, r); !ok {
		return
	}
	from, to, err := dateRange(r)
	if err != nil {
		writeError(w, err)
		return
	}

	books, err := h.reportSvc.PopularBooks(r.Context(), from, to, queryInt32(r, "limit", 10))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

func (h *ReportHandler) UserActivity(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustActor(w, r); !ok {
		return
	}
	from, to, err := dateRange(r)
	if err != nil {
		writeError(w, err)
		return
	}

	users, departments, err := h.reportSvc.UserActivity(r.Context(), from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users, "departments": departments})
}

func (h *ReportHandler) FinesSummary(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustActor(w, r); !ok {
		return
	}

	summary, err := h.reportSvc.FinesSummary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *ReportHandler) CollectionStatus(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustActor(w, r); !ok {
		return
	}

	status, err := h.reportSvc.CollectionStatus(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// backend/src/handlers/report_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/username/kuyumcu/backend/src/logger"
	"github.com/username/kuyumcu/backend/src/model"
	"github.com/username/kuyumcu/backend/src/processors"
	"github.com/username/kuyumcu/backend/src/security/validation"
	"github.com/username/kuyumcu/backend/src/services"
	"github.com/username/kuyumcu/backend/src/store"
	"github.com/username/kuyumcu/backend/src/utils"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 200
)

type ReportHandler struct {
	reportService services.ReportService
	now           func() time.Time
}

func NewReportHandler(service services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: service, now: time.Now}
}

// HandleListReports returns the persisted daily reports, newest first.
func (h *ReportHandler) HandleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reportService.ListReports(r.Context())
	if err != nil {
		h.sendServiceError(w, r, "Error retrieving reports", err)
		return
	}
	utils.SendJSON(w, reports, http.StatusOK)
}

// HandlePreviewReport builds an ad-hoc report for ?date= (default today) without persisting it.
func (h *ReportHandler) HandlePreviewReport(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("date")
	if day == "" {
		day = h.reportService.Today(h.now())
	}
	day, err := validation.ValidateDateString(day, "date")
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger.FromContext(r.Context()).Info("Handling report preview", "date", day)

	report, err := h.reportService.BuildReport(r.Context(), day)
	if err != nil {
		h.sendServiceError(w, r, "Error building report", err)
		return
	}
	utils.SendJSON(w, report, http.StatusOK)
}

// HandleDownloadReportText serves the report text for {date} as a file download.
func (h *ReportHandler) HandleDownloadReportText(w http.ResponseWriter, r *http.Request) {
	day, err := validation.ValidateDateString(chi.URLParam(r, "date"), "date")
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	text, err := h.reportService.ReportText(r.Context(), day)
	if err != nil {
		h.sendServiceError(w, r, "Error building report", err)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="rapor_%s.txt"`, day))
	utils.SendText(w, text, http.StatusOK)
}

// HandleGenerateReport is the manual trigger: it generates today's report unless one exists.
func (h *ReportHandler) HandleGenerateReport(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	report, created, err := h.reportService.GenerateDailyReport(r.Context(), now, model.TriggerManual)
	if err != nil {
		h.sendServiceError(w, r, "Error generating report", err)
		return
	}
	if !created {
		utils.SendJSON(w, map[string]string{"status": "skipped", "date": h.reportService.Today(now)}, http.StatusOK)
		return
	}
	utils.SendJSON(w, report, http.StatusCreated)
}

// HandleListRuns returns recent generation attempts, most recent first.
func (h *ReportHandler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	limit, err := validation.ValidateIntString(r.URL.Query().Get("limit"), "limit", defaultRunsLimit, 1, maxRunsLimit)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	runs, err := h.reportService.RecentRuns(r.Context(), limit)
	if err != nil {
		if errors.Is(err, services.ErrRunHistoryUnavailable) {
			utils.SendJSONError(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		h.sendServiceError(w, r, "Error retrieving report runs", err)
		return
	}

	views := make([]model.ReportRunView, 0, len(runs))
	for _, run := range runs {
		views = append(views, run.View())
	}
	utils.SendJSON(w, views, http.StatusOK)
}

func (h *ReportHandler) sendServiceError(w http.ResponseWriter, r *http.Request, message string, err error) {
	if errors.Is(err, processors.ErrInvalidDay) || errors.Is(err, validation.ErrValidationFailed) {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	logger.FromContext(r.Context()).Error(message, "error", err)
	switch {
	case errors.Is(err, store.ErrStoreNotFound):
		utils.SendJSONError(w, message+": store document not found", http.StatusInternalServerError)
	case errors.Is(err, store.ErrStoreMalformed):
		utils.SendJSONError(w, message+": store document is malformed", http.StatusInternalServerError)
	default:
		utils.SendJSONError(w, message, http.StatusInternalServerError)
	}
}

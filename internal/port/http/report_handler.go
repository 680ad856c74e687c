package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/loopify/deal-service/internal/domain/entity"
	"github.com/loopify/deal-service/internal/platform/logger"
	"github.com/loopify/deal-service/internal/port/http/middleware"
	"github.com/loopify/deal-service/internal/service"
)

type ReportHandler struct {
	reportService service.ReportService
	adminRole     string
	log           logger.Logger
}

func NewReportHandler(reportService service.ReportService, adminRole string, log logger.Logger) *ReportHandler {
	return &ReportHandler{reportService: reportService, adminRole: adminRole, log: log}
}

type submitReportRequest struct {
	ListingID string `json:"listing_id"`
	Reason    string `json:"reason"`
	Details   string `json:"details,omitempty"`
}

type reportResponse struct {
	ID         string    `json:"id"`
	ListingID  string    `json:"listing_id"`
	ReporterID string    `json:"reporter_id"`
	Reason     string    `json:"reason"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type submitReportResponse struct {
	Report  reportResponse `json:"report"`
	Outcome string         `json:"outcome"`
}

type reportViewResponse struct {
	reportResponse
	ListingTitle string `json:"listing_title,omitempty"`
	ReporterName string `json:"reporter_name,omitempty"`
}

type reportListResponse struct {
	Reports    []reportViewResponse `json:"reports"`
	TotalCount int64                `json:"total_count"`
}

func toReportResponse(rep *entity.Report) reportResponse {
	return reportResponse{
		ID:         rep.ID,
		ListingID:  rep.ListingID,
		ReporterID: rep.ReporterID,
		Reason:     string(rep.Reason),
		Details:    rep.Details,
		CreatedAt:  rep.CreatedAt,
	}
}

func (h *ReportHandler) HandleSubmitReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req submitReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warnf("Invalid request body for SubmitReport: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ListingID == "" {
		http.Error(w, "listing_id is required", http.StatusBadRequest)
		return
	}

	output, err := h.reportService.SubmitReport(r.Context(), userID, req.ListingID, entity.ReportReason(req.Reason), req.Details)
	if err != nil {
		writeDomainError(w, err, h.log)
		return
	}

	writeJSON(w, http.StatusCreated, submitReportResponse{
		Report:  toReportResponse(output.Report),
		Outcome: string(output.Outcome),
	}, h.log)
}

func (h *ReportHandler) HandleListReports(w http.ResponseWriter, r *http.Request) {
	role, _ := middleware.RoleFromContext(r.Context())
	if role != h.adminRole {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	page, pageSize := parsePagination(r)
	output, err := h.reportService.ListReports(r.Context(), page, pageSize)
	if err != nil {
		writeDomainError(w, err, h.log)
		return
	}

	resp := reportListResponse{
		Reports:    make([]reportViewResponse, len(output.Reports)),
		TotalCount: output.TotalCount,
	}
	for i, v := range output.Reports {
		resp.Reports[i] = reportViewResponse{
			reportResponse: toReportResponse(&v.Report),
			ListingTitle:   v.ListingTitle,
			ReporterName:   v.ReporterName,
		}
	}
	writeJSON(w, http.StatusOK, resp, h.log)
}

package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dealscope/app"
	"dealscope/domain/core"
	"dealscope/domain/report"
	apperrors "dealscope/internal/errors"
)

// investigateRequest is the inbound submission shape from the UI layer.
type investigateRequest struct {
	Category string            `json:"category"`
	FormData map[string]string `json:"form_data"`
	Notes    string            `json:"notes"`
}

// reportResponse flattens a report for API consumers.
type reportResponse struct {
	ID                 string                   `json:"id"`
	RiskLevel          report.RiskLevel         `json:"risk_level"`
	RiskScore          float64                  `json:"risk_score"`
	ExecutiveSummary   string                   `json:"executive_summary"`
	VerificationStatus string                   `json:"verification_status"`
	RedFlags           []report.RedFlag         `json:"red_flags"`
	PartyBackgrounds   []report.PartyBackground `json:"party_backgrounds"`
	Recommendations    []string                 `json:"recommendations"`
	SourcesChecked     []string                 `json:"sources_checked"`
	Degraded           bool                     `json:"degraded"`
	CreatedAt          core.Timestamp           `json:"created_at"`
}

func toReportResponse(r report.Report) reportResponse {
	return reportResponse{
		ID:                 r.ID.String(),
		RiskLevel:          r.Analysis.RiskLevel,
		RiskScore:          r.Analysis.RiskScore,
		ExecutiveSummary:   r.Analysis.ExecutiveSummary,
		VerificationStatus: r.Analysis.VerificationStatus,
		RedFlags:           r.Analysis.RedFlags,
		PartyBackgrounds:   r.Analysis.PartyBackgrounds,
		Recommendations:    r.Analysis.Recommendations,
		SourcesChecked:     r.Analysis.SourcesChecked,
		Degraded:           r.Analysis.Degraded,
		CreatedAt:          r.CreatedAt,
	}
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleInvestigate(w http.ResponseWriter, r *http.Request) {
	var req investigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}

	rep, err := a.investigations.Run(r.Context(), app.InvestigationRequest{
		OwnerID:  ownerFromContext(r.Context()),
		Category: req.Category,
		FormData: req.FormData,
		Notes:    req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportResponse(rep))
}

func (a *App) handleListReports(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	reports, err := a.reports.ListByOwner(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]reportResponse, 0, len(reports))
	for _, rep := range reports {
		out = append(out, toReportResponse(rep))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"reports": out})
}

func (a *App) handleGetReport(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	rep, err := a.fetchReport(r, ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportResponse(rep))
}

func (a *App) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	id, err := core.ParseReportID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	if err := a.reports.DeleteOne(r.Context(), id, ownerID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (a *App) handleDeleteReports(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}
	ids := make([]core.ReportID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := core.ParseReportID(raw)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	deleted, err := a.reports.DeleteMany(r.Context(), ownerID, ids)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

func (a *App) handleExportReport(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	rep, err := a.fetchReport(r, ownerID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "report-"+rep.ID.String()+".xlsx"))
	if err := a.exporter.Export(rep, w); err != nil {
		// Headers are already written; nothing left to do but log.
		log.Printf("[API] xlsx export of report %s failed mid-stream: %v", rep.ID, err)
	}
}

func (a *App) handleRiskTrends(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	trends, err := a.reports.Trends(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trends)
}

func (a *App) fetchReport(r *http.Request, ownerID core.OwnerID) (report.Report, error) {
	id, err := core.ParseReportID(chi.URLParam(r, "id"))
	if err != nil {
		return report.Report{}, fmt.Errorf("%w: %v", core.ErrInvalidRequest, err)
	}
	return a.reports.Get(r.Context(), id, ownerID)
}

func requireOwner(w http.ResponseWriter, r *http.Request) (core.OwnerID, bool) {
	ownerID := ownerFromContext(r.Context())
	if ownerID.IsEmpty() {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Sign in to access reports."})
		return "", false
	}
	return ownerID, true
}

// writeError maps classified pipeline errors onto the API's status codes.
// Authorization failures carry actionable messages; pipeline failures get
// a generic retry suggestion, never internals.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNoOwner):
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"message": "Sign in to run investigations.",
		})
	case errors.Is(err, core.ErrQuotaExhausted):
		writeJSON(w, http.StatusForbidden, map[string]string{
			"message": "You have used all investigations in your current plan. Upgrade to continue.",
		})
	case errors.Is(err, core.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
	case core.IsNotFoundError(err):
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "report not found"})
	default:
		log.Printf("[API] pipeline failure (%s): %v", apperrors.GetCode(err), err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "The investigation could not be completed. Please try again.",
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[API] failed to encode response: %v", err)
	}
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"schoolpulse/internal/service"
)

// ReportHandler handles report and analysis endpoints
type ReportHandler struct {
	reportSvc   *service.ReportService
	analysisSvc *service.AnalysisService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportSvc *service.ReportService, analysisSvc *service.AnalysisService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc, analysisSvc: analysisSvc}
}

// GenerateReport handles POST /v1/projects/{projectId}/report. The call
// is synchronous: the pipeline either assembles a report (AI or
// fallback) or fails on the fetch stage.
func (h *ReportHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["projectId"]

	report, err := h.reportSvc.Generate(r.Context(), projectID)
	if errors.Is(err, service.ErrGenerationInProgress) {
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "generating"})
		return
	}
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GetReport handles GET /v1/projects/{projectId}/report
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportSvc.GetByProject(r.Context(), mux.Vars(r)["projectId"])
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GenerateAnalysis handles POST /v1/projects/{projectId}/analysis
func (h *ReportHandler) GenerateAnalysis(w http.ResponseWriter, r *http.Request) {
	result, err := h.analysisSvc.GenerateAnalysis(r.Context(), mux.Vars(r)["projectId"])
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

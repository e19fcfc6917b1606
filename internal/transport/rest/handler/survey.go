package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"schoolpulse/internal/model"
	"schoolpulse/internal/service"
)

// SurveyHandler handles project, question, and response-intake endpoints
type SurveyHandler struct {
	surveySvc *service.SurveyService
}

// NewSurveyHandler creates a new survey handler
func NewSurveyHandler(surveySvc *service.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveySvc: surveySvc}
}

// CreateProject handles POST /v1/projects
func (h *SurveyHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var project model.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.surveySvc.CreateProject(r.Context(), &project)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// GetProject handles GET /v1/projects/{projectId}
func (h *SurveyHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.surveySvc.GetProject(r.Context(), mux.Vars(r)["projectId"])
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// GetQuestions handles GET /v1/projects/{projectId}/questions?type=teacher
func (h *SurveyHandler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["projectId"]
	rt := model.RespondentType(r.URL.Query().Get("type"))

	questions, err := h.surveySvc.Questions(r.Context(), projectID, rt)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if questions == nil {
		questions = []*model.Question{}
	}
	writeJSON(w, http.StatusOK, questions)
}

// StartSession handles POST /v1/projects/{projectId}/sessions
func (h *SurveyHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RespondentType model.RespondentType `json:"respondentType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.surveySvc.StartSession(r.Context(), mux.Vars(r)["projectId"], req.RespondentType)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// SubmitResponse handles POST /v1/sessions/{sessionId}/responses
func (h *SurveyHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QuestionID string `json:"questionId"`
		Value      string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	response, err := h.surveySvc.SubmitResponse(r.Context(), mux.Vars(r)["sessionId"], req.QuestionID, req.Value)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, response)
}

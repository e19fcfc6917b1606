package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"schoolpulse/internal/apperr"
	"schoolpulse/internal/cache"
	"schoolpulse/internal/model"
	"schoolpulse/internal/repository"
)

// SurveyService handles respondent-facing survey operations: sessions,
// ordered question listing, and response intake.
type SurveyService struct {
	projectRepo  repository.ProjectRepo
	questionRepo repository.QuestionRepo
	responseRepo repository.ResponseRepo
	sessions     cache.SessionCache
	logger       *zap.Logger
}

// NewSurveyService creates a new survey service
func NewSurveyService(
	projectRepo repository.ProjectRepo,
	questionRepo repository.QuestionRepo,
	responseRepo repository.ResponseRepo,
	sessions cache.SessionCache,
	logger *zap.Logger,
) *SurveyService {
	return &SurveyService{
		projectRepo:  projectRepo,
		questionRepo: questionRepo,
		responseRepo: responseRepo,
		sessions:     sessions,
		logger:       logger,
	}
}

// CreateProject registers a new evaluation project
func (s *SurveyService) CreateProject(ctx context.Context, project *model.Project) (string, error) {
	if project.SchoolName == "" || project.Title == "" {
		return "", apperr.New(apperr.InvalidArgument, "school name and title are required")
	}
	if project.Status == "" {
		project.Status = model.ProjectActive
	}
	id, err := s.projectRepo.Create(ctx, project)
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, err)
	}
	return id, nil
}

// GetProject fetches a project by id
func (s *SurveyService) GetProject(ctx context.Context, projectID string) (*model.Project, error) {
	if projectID == "" {
		return nil, apperr.New(apperr.InvalidArgument, "project id is required")
	}
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err)
	}
	if project == nil {
		return nil, apperr.Newf(apperr.NotFound, "project %s not found", projectID)
	}
	return project, nil
}

// Questions returns a respondent type's question set for a project in
// presentation order. With rt empty, all of the project's questions are
// returned.
func (s *SurveyService) Questions(ctx context.Context, projectID string, rt model.RespondentType) ([]*model.Question, error) {
	if projectID == "" {
		return nil, apperr.New(apperr.InvalidArgument, "project id is required")
	}
	if rt == "" {
		questions, err := s.questionRepo.GetByProject(ctx, projectID)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, err)
		}
		return questions, nil
	}
	if !rt.Valid() {
		return nil, apperr.Newf(apperr.InvalidArgument, "unknown respondent type %q", rt)
	}
	questions, err := s.questionRepo.GetByProjectAndType(ctx, projectID, rt)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err)
	}
	return questions, nil
}

// StartSession opens a survey session for one respondent. The session is
// an explicit object passed back on every submission; core logic never
// reads ambient client state.
func (s *SurveyService) StartSession(ctx context.Context, projectID string, rt model.RespondentType) (*model.SurveySession, error) {
	if projectID == "" {
		return nil, apperr.New(apperr.InvalidArgument, "project id is required")
	}
	if !rt.Valid() {
		return nil, apperr.Newf(apperr.InvalidArgument, "unknown respondent type %q", rt)
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err)
	}
	if project == nil {
		return nil, apperr.Newf(apperr.NotFound, "project %s not found", projectID)
	}

	session := &model.SurveySession{
		ID:             uuid.NewString(),
		ProjectID:      projectID,
		RespondentType: rt,
		StartedAt:      time.Now(),
	}
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, apperr.Wrap(apperr.Internal, err)
	}
	return session, nil
}

// SubmitResponse validates and stores one answer. The stored response's
// respondent type is always taken from the question, keeping the
// response/question type invariant by construction.
func (s *SurveyService) SubmitResponse(ctx context.Context, sessionID, questionID, value string) (*model.Response, error) {
	if sessionID == "" || questionID == "" {
		return nil, apperr.New(apperr.InvalidArgument, "session id and question id are required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err)
	}
	if session == nil {
		return nil, apperr.Newf(apperr.NotFound, "session %s not found or expired", sessionID)
	}

	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err)
	}
	if question == nil {
		return nil, apperr.Newf(apperr.NotFound, "question %s not found", questionID)
	}
	if question.ProjectID != session.ProjectID {
		return nil, apperr.New(apperr.InvalidArgument, "question does not belong to the session's project")
	}
	if question.RespondentType != session.RespondentType {
		return nil, apperr.Newf(apperr.InvalidArgument,
			"question is for %s respondents, session is %s", question.RespondentType, session.RespondentType)
	}
	if err := validateValue(question, value); err != nil {
		return nil, err
	}

	response := &model.Response{
		QuestionID:     question.ID,
		ProjectID:      question.ProjectID,
		RespondentType: question.RespondentType,
		Value:          value,
		SessionID:      session.ID,
		CreatedAt:      time.Now(),
	}
	if err := s.responseRepo.Create(ctx, response); err != nil {
		return nil, apperr.Wrap(apperr.Internal, err)
	}
	return response, nil
}

// validateValue checks the value shape against the question type
func validateValue(question *model.Question, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperr.New(apperr.InvalidArgument, "response value is required")
	}

	switch question.Type {
	case model.QuestionRating:
		r := model.Response{Value: value}
		if _, ok := r.RatingValue(); !ok {
			return apperr.Newf(apperr.InvalidArgument, "rating value %q is not an integer in [1,5]", value)
		}
	case model.QuestionMultipleChoice:
		for _, opt := range question.Options {
			if value == opt {
				return nil
			}
		}
		return apperr.Newf(apperr.InvalidArgument, "value %q is not one of the question's options", value)
	case model.QuestionPriority:
		if _, err := model.ParsePriorityList(value); err != nil {
			return apperr.Wrap(apperr.InvalidArgument, err)
		}
	}
	return nil
}

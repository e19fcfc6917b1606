package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"schoolpulse/internal/apperr"
	"schoolpulse/internal/cache"
	"schoolpulse/internal/model"
	"schoolpulse/internal/repository"
)

// ErrGenerationInProgress is returned when another request already holds
// the project's generation lock; the caller should poll the stored
// report instead of triggering a second model call.
var ErrGenerationInProgress = errors.New("report generation already in progress")

// ReportService runs the report synthesis pipeline: fetch, aggregate,
// prompt, generate, parse, assemble. Once source data is fetched the
// pipeline always assembles a report; generation and parse failures take
// the deterministic-fallback branch instead of surfacing.
type ReportService struct {
	projectRepo  repository.ProjectRepo
	questionRepo repository.QuestionRepo
	responseRepo repository.ResponseRepo
	reportRepo   repository.ReportRepo
	genCache     cache.GenerationCache
	generator    Generator
	logger       *zap.Logger

	// expectedRespondents feeds the project-level heuristic completion
	// rate (responses / (questions x expected)).
	expectedRespondents int
	lockTTL             time.Duration
}

// NewReportService creates a new report service
func NewReportService(
	projectRepo repository.ProjectRepo,
	questionRepo repository.QuestionRepo,
	responseRepo repository.ResponseRepo,
	reportRepo repository.ReportRepo,
	genCache cache.GenerationCache,
	generator Generator,
	logger *zap.Logger,
	expectedRespondents int,
) *ReportService {
	if expectedRespondents <= 0 {
		expectedRespondents = 10
	}
	return &ReportService{
		projectRepo:         projectRepo,
		questionRepo:        questionRepo,
		responseRepo:        responseRepo,
		reportRepo:          reportRepo,
		genCache:            genCache,
		generator:           generator,
		logger:              logger,
		expectedRespondents: expectedRespondents,
		lockTTL:             4 * time.Minute,
	}
}

// Generate runs the full pipeline for a project and persists the result.
// Terminal errors: missing project id (InvalidArgument), unknown project
// or zero responses (NotFound), store failures (Internal). Everything
// after the fetch stage assembles a report, fallback or not.
func (s *ReportService) Generate(ctx context.Context, projectID string) (*model.Report, error) {
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

	locked, err := s.genCache.TryLock(ctx, projectID, s.lockTTL)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err)
	}
	if !locked {
		return nil, ErrGenerationInProgress
	}
	defer s.genCache.Unlock(ctx, projectID)
	s.genCache.SetStatus(ctx, projectID, string(model.ReportPending))

	questions, err := s.questionRepo.GetByProject(ctx, projectID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err)
	}
	responses, err := s.responseRepo.GetByProject(ctx, projectID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err)
	}
	if len(responses) == 0 {
		return nil, apperr.New(apperr.NotFound, "no responses to report on")
	}

	stats := Aggregate(questions, responses)
	grade := ConvertToGrade(stats.AverageRating)

	var structured *model.StructuredPayload
	if s.generator.Enabled() {
		prompt := BuildReportPrompt(project, stats, grade, collectTextResponses(questions, responses))
		raw, err := s.generator.GenerateReport(ctx, prompt)
		if err != nil {
			s.logger.Warn("report generation failed, assembling fallback", zap.Error(err))
		} else {
			res := ParseStructuredOutput(raw)
			if res.Parsed() {
				structured = res.Payload
			} else {
				s.logger.Warn("report output unparsable, assembling fallback", zap.Error(res.Err))
				s.logger.Debug("raw model output", zap.String("raw", res.Raw))
			}
		}
	} else {
		s.logger.Info("generator disabled, assembling fallback report")
	}

	report := AssembleReport(project, stats, grade, structured, s.expectedRespondents)

	if err := s.reportRepo.Save(ctx, report); err != nil {
		return nil, apperr.Wrap(apperr.Internal, err)
	}
	s.genCache.SetStatus(ctx, projectID, string(report.Status))

	return report, nil
}

// GetByProject returns the project's stored report
func (s *ReportService) GetByProject(ctx context.Context, projectID string) (*model.Report, error) {
	if projectID == "" {
		return nil, apperr.New(apperr.InvalidArgument, "project id is required")
	}
	report, err := s.reportRepo.GetByProject(ctx, projectID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err)
	}
	if report == nil {
		return nil, apperr.Newf(apperr.NotFound, "no report for project %s", projectID)
	}
	return report, nil
}

// Status returns the last known generation status for a project, empty
// when nothing was ever generated.
func (s *ReportService) Status(ctx context.Context, projectID string) (string, error) {
	return s.genCache.GetStatus(ctx, projectID)
}

// AssembleReport merges parsed narrative content with computed
// statistics into the final report. With structured == nil (generation
// unavailable or unparsable) it produces the fixed six-section
// placeholder report instead; either way the caller gets an assembled
// report, never an error.
func AssembleReport(
	project *model.Project,
	stats model.AggregatedStatistics,
	grade model.GradeInfo,
	structured *model.StructuredPayload,
	expectedRespondents int,
) *model.Report {
	report := &model.Report{
		ProjectID:  project.ID,
		SchoolName: project.SchoolName,
		Title:      project.SchoolName + " 학교 평가 보고서",
		Grade:      grade,
		Statistics: model.ReportStatistics{
			TotalResponses: stats.TotalResponses,
			AverageRating:  stats.AverageRating,
			CompletionRate: heuristicCompletionRate(stats, expectedRespondents),
		},
		GeneratedAt: time.Now(),
	}

	if structured != nil && len(structured.Sections) > 0 {
		report.Status = model.ReportReady
		report.Sections = structured.Sections
		if structured.Title != "" {
			report.Title = structured.Title
		}
		return report
	}

	report.Status = model.ReportFallback
	report.Sections = fallbackSections(project, stats, grade)
	return report
}

// heuristicCompletionRate approximates project-level completion as
// responses / (questions x expected respondents per question). An
// approximation, not a true response-rate measurement; the per-type
// rates in AggregatedStatistics are the exact ratios.
func heuristicCompletionRate(stats model.AggregatedStatistics, expectedRespondents int) int {
	if stats.TotalQuestions == 0 {
		return 0
	}
	expected := float64(stats.TotalQuestions * expectedRespondents)
	return int(math.Round(float64(stats.TotalResponses) / expected * 100))
}

const fallbackNotice = "AI 보고서 생성을 현재 사용할 수 없어 수집된 응답 통계를 기반으로 한 기본 보고서를 제공합니다."

// fallbackSections builds the fixed six-section placeholder report. The
// section set and order are a stable contract with the presentation
// layer.
func fallbackSections(project *model.Project, stats model.AggregatedStatistics, grade model.GradeInfo) []model.ReportSection {
	var byType strings.Builder
	types := make([]model.RespondentType, 0, len(stats.ResponsesByType))
	for rt := range stats.ResponsesByType {
		types = append(types, rt)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, rt := range types {
		fmt.Fprintf(&byType, "%s %d건", respondentLabel(rt), stats.ResponsesByType[rt])
		if rate, ok := stats.CompletionRate[rt]; ok {
			fmt.Fprintf(&byType, " (응답률 %d%%)", rate)
		}
		byType.WriteString(", ")
	}

	return []model.ReportSection{
		{
			Title: "총평",
			Content: fmt.Sprintf("%s %s 평가에서 총 %d건의 응답이 수집되었으며, 평균 평점은 %.2f점(5점 만점)으로 '%s' 수준입니다.",
				project.SchoolName, project.Title, stats.TotalResponses, stats.AverageRating, grade.Label) + " " + fallbackNotice,
		},
		{
			Title: "설문 개요",
			Content: fmt.Sprintf("본 평가는 총 %d개 문항으로 구성되었습니다. 응답자 유형별 응답 현황: %s",
				stats.TotalQuestions, strings.TrimSuffix(byType.String(), ", ")),
		},
		{
			Title: "주요 결과",
			Content: fmt.Sprintf("전체 평정형 응답 %d건의 평균은 %.2f점입니다. 서술형 응답 %d건은 AI 분석이 가능해진 후 주제 분석에 반영됩니다.",
				stats.RatingResponses, stats.AverageRating, stats.TextResponses),
		},
		{
			Title:   "영역별 분석",
			Content: "영역별 세부 분석은 AI 보고서 생성이 가능할 때 제공됩니다. " + fallbackNotice,
		},
		{
			Title:   "강점 및 개선점",
			Content: "강점과 개선점에 대한 서술 분석은 AI 보고서 생성이 가능할 때 제공됩니다. 현재는 수집된 통계만 반영되어 있습니다.",
		},
		{
			Title:   "제언",
			Content: "AI 분석이 복구되면 보고서를 다시 생성해 주세요. 재생성 시 최신 응답 데이터가 반영됩니다.",
		},
	}
}

func respondentLabel(rt model.RespondentType) string {
	switch rt {
	case model.RespondentTeacher:
		return "교원"
	case model.RespondentStaff:
		return "직원"
	case model.RespondentParent:
		return "학부모"
	case model.RespondentStudent:
		return "학생"
	}
	return string(rt)
}

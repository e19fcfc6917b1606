package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"schoolpulse/internal/apperr"
	"schoolpulse/internal/model"
	"schoolpulse/internal/testutil"
)

var fallbackSectionTitles = []string{"총평", "설문 개요", "주요 결과", "영역별 분석", "강점 및 개선점", "제언"}

func testProject() *model.Project {
	return &model.Project{
		ID:         "p1",
		SchoolID:   "s1",
		SchoolName: "한빛중학교",
		Title:      "2026년 학교 자체평가",
		Year:       2026,
		Status:     model.ProjectActive,
	}
}

func testStats() model.AggregatedStatistics {
	return model.AggregatedStatistics{
		TotalQuestions: 4,
		TotalResponses: 20,
		QuestionsByType: map[model.RespondentType]int{
			model.RespondentTeacher: 2,
			model.RespondentParent:  2,
		},
		ResponsesByType: map[model.RespondentType]int{
			model.RespondentTeacher: 12,
			model.RespondentParent:  8,
		},
		AverageRating:   3.8,
		RatingResponses: 15,
		TextResponses:   5,
		CompletionRate: map[model.RespondentType]int{
			model.RespondentTeacher: 600,
			model.RespondentParent:  400,
		},
	}
}

func TestAssembleReport_Fallback(t *testing.T) {
	project := testProject()
	stats := testStats()
	grade := ConvertToGrade(stats.AverageRating)

	report := AssembleReport(project, stats, grade, nil, 10)

	if report.Status != model.ReportFallback {
		t.Errorf("Status = %s, want fallback", report.Status)
	}
	if report.Title == "" {
		t.Fatal("fallback report has empty title")
	}
	if want := "한빛중학교 학교 평가 보고서"; report.Title != want {
		t.Errorf("Title = %q, want %q", report.Title, want)
	}
	if len(report.Sections) != 6 {
		t.Fatalf("got %d sections, want exactly 6", len(report.Sections))
	}
	for i, want := range fallbackSectionTitles {
		if report.Sections[i].Title != want {
			t.Errorf("section %d title = %q, want %q", i, report.Sections[i].Title, want)
		}
		if report.Sections[i].Content == "" {
			t.Errorf("section %q has empty content", want)
		}
	}
	if report.Statistics.TotalResponses != 20 {
		t.Errorf("TotalResponses = %d, want 20", report.Statistics.TotalResponses)
	}
	// 20 responses / (4 questions x 10 expected) = 50%
	if report.Statistics.CompletionRate != 50 {
		t.Errorf("CompletionRate = %d, want 50", report.Statistics.CompletionRate)
	}
}

func TestAssembleReport_StructuredVerbatim(t *testing.T) {
	structured := &model.StructuredPayload{
		Title:   "한빛중학교 2026 평가 결과",
		Summary: "요약",
		Sections: []model.ReportSection{
			{Title: "총평", Content: "AI가 작성한 총평"},
			{Title: "설문 개요", Content: "개요"},
			{Title: "주요 결과", Content: "결과"},
			{Title: "영역별 분석", Content: "분석"},
			{Title: "강점 및 개선점", Content: "강점"},
			{Title: "제언", Content: "제언"},
		},
	}

	report := AssembleReport(testProject(), testStats(), ConvertToGrade(3.8), structured, 10)

	if report.Status != model.ReportReady {
		t.Errorf("Status = %s, want ready", report.Status)
	}
	if report.Title != structured.Title {
		t.Errorf("Title = %q, want AI-supplied %q", report.Title, structured.Title)
	}
	if report.Sections[0].Content != "AI가 작성한 총평" {
		t.Errorf("section content not used verbatim: %q", report.Sections[0].Content)
	}
}

func TestHeuristicCompletionRate(t *testing.T) {
	tests := []struct {
		name      string
		questions int
		responses int
		expected  int
		want      int
	}{
		{"half of expected", 4, 20, 10, 50},
		{"full", 2, 20, 10, 100},
		{"over", 1, 15, 10, 150},
		{"zero questions", 0, 20, 10, 0},
		{"configured expectation", 4, 20, 5, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := model.AggregatedStatistics{TotalQuestions: tt.questions, TotalResponses: tt.responses}
			if got := heuristicCompletionRate(stats, tt.expected); got != tt.want {
				t.Errorf("heuristicCompletionRate(q=%d, r=%d, e=%d) = %d, want %d",
					tt.questions, tt.responses, tt.expected, got, tt.want)
			}
		})
	}
}

func newReportServiceForTest(gen *testutil.Generator) (*ReportService, *testutil.ReportRepo, *testutil.GenerationCache) {
	project := testProject()
	questions := []*model.Question{
		{ID: "q1", ProjectID: "p1", RespondentType: model.RespondentTeacher, Type: model.QuestionRating, OrderIndex: 1},
		{ID: "q2", ProjectID: "p1", RespondentType: model.RespondentTeacher, Type: model.QuestionText, OrderIndex: 2},
	}
	responses := []*model.Response{
		{ID: "r1", QuestionID: "q1", ProjectID: "p1", RespondentType: model.RespondentTeacher, Value: "4"},
		{ID: "r2", QuestionID: "q2", ProjectID: "p1", RespondentType: model.RespondentTeacher, Value: "소통이 잘 됩니다"},
	}

	reportRepo := testutil.NewReportRepo()
	genCache := testutil.NewGenerationCache()
	svc := NewReportService(
		testutil.NewProjectRepo(project),
		testutil.NewQuestionRepo(questions...),
		testutil.NewResponseRepo(responses...),
		reportRepo,
		genCache,
		gen,
		zap.NewNop(),
		10,
	)
	return svc, reportRepo, genCache
}

func TestGenerate_UpstreamFailureStillAssembles(t *testing.T) {
	gen := &testutil.Generator{Err: apperr.New(apperr.UpstreamUnavailable, "connection refused")}
	svc, reportRepo, genCache := newReportServiceForTest(gen)

	report, err := svc.Generate(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Generate returned error despite fallback guarantee: %v", err)
	}
	if report.Status != model.ReportFallback {
		t.Errorf("Status = %s, want fallback", report.Status)
	}
	if len(report.Sections) != 6 {
		t.Errorf("got %d sections, want 6", len(report.Sections))
	}
	if saved := reportRepo.Reports["p1"]; saved == nil {
		t.Error("fallback report was not persisted")
	}
	if got := genCache.Status["p1"]; got != string(model.ReportFallback) {
		t.Errorf("generation status = %q, want %q", got, model.ReportFallback)
	}
}

func TestGenerate_MalformedOutputStillAssembles(t *testing.T) {
	gen := &testutil.Generator{Output: "I could not produce JSON today, sorry."}
	svc, _, _ := newReportServiceForTest(gen)

	report, err := svc.Generate(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Generate returned error despite fallback guarantee: %v", err)
	}
	if report.Status != model.ReportFallback {
		t.Errorf("Status = %s, want fallback", report.Status)
	}
}

func TestGenerate_ParsedOutputIsReady(t *testing.T) {
	gen := &testutil.Generator{Output: `Here you go: {
		"title": "한빛중학교 평가 결과",
		"summary": "요약",
		"sections": [
			{"title": "총평", "content": "a"},
			{"title": "설문 개요", "content": "b"},
			{"title": "주요 결과", "content": "c"},
			{"title": "영역별 분석", "content": "d"},
			{"title": "강점 및 개선점", "content": "e"},
			{"title": "제언", "content": "f"}
		]
	}`}
	svc, reportRepo, _ := newReportServiceForTest(gen)

	report, err := svc.Generate(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if report.Status != model.ReportReady {
		t.Errorf("Status = %s, want ready", report.Status)
	}
	if report.Title != "한빛중학교 평가 결과" {
		t.Errorf("Title = %q, want AI title", report.Title)
	}
	if gen.Calls != 1 {
		t.Errorf("generator calls = %d, want exactly 1 (no retries)", gen.Calls)
	}
	if reportRepo.Reports["p1"] == nil {
		t.Error("report was not persisted")
	}
}

func TestGenerate_DisabledGeneratorFallsBack(t *testing.T) {
	gen := &testutil.Generator{Disabled: true}
	svc, _, _ := newReportServiceForTest(gen)

	report, err := svc.Generate(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if report.Status != model.ReportFallback {
		t.Errorf("Status = %s, want fallback", report.Status)
	}
	if gen.Calls != 0 {
		t.Errorf("generator calls = %d, want 0 when disabled", gen.Calls)
	}
}

func TestGenerate_TerminalErrors(t *testing.T) {
	tests := []struct {
		name      string
		projectID string
		wantKind  apperr.Kind
	}{
		{"missing project id", "", apperr.InvalidArgument},
		{"unknown project", "nope", apperr.NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newReportServiceForTest(&testutil.Generator{})
			_, err := svc.Generate(context.Background(), tt.projectID)
			if err == nil {
				t.Fatal("expected terminal error")
			}
			if !apperr.Is(err, tt.wantKind) {
				t.Errorf("error kind = %v, want %v", apperr.KindOf(err), tt.wantKind)
			}
		})
	}
}

func TestGenerate_NoResponsesIsNotFound(t *testing.T) {
	svc := NewReportService(
		testutil.NewProjectRepo(testProject()),
		testutil.NewQuestionRepo(),
		testutil.NewResponseRepo(),
		testutil.NewReportRepo(),
		testutil.NewGenerationCache(),
		&testutil.Generator{},
		zap.NewNop(),
		10,
	)

	_, err := svc.Generate(context.Background(), "p1")
	if !apperr.Is(err, apperr.NotFound) {
		t.Errorf("error kind = %v, want not_found", apperr.KindOf(err))
	}
}

func TestGenerate_LockContention(t *testing.T) {
	gen := &testutil.Generator{}
	svc, _, genCache := newReportServiceForTest(gen)
	genCache.Locked = true

	_, err := svc.Generate(context.Background(), "p1")
	if !errors.Is(err, ErrGenerationInProgress) {
		t.Fatalf("err = %v, want ErrGenerationInProgress", err)
	}
	if gen.Calls != 0 {
		t.Errorf("generator calls = %d, want 0 while another generation holds the lock", gen.Calls)
	}
}

func TestGetByProject(t *testing.T) {
	svc, _, _ := newReportServiceForTest(&testutil.Generator{Disabled: true})

	if _, err := svc.GetByProject(context.Background(), "p1"); !apperr.Is(err, apperr.NotFound) {
		t.Errorf("error kind = %v, want not_found before generation", apperr.KindOf(err))
	}

	if _, err := svc.Generate(context.Background(), "p1"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	report, err := svc.GetByProject(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetByProject: %v", err)
	}
	if report.ProjectID != "p1" {
		t.Errorf("ProjectID = %q, want p1", report.ProjectID)
	}
}

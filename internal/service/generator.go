package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"schoolpulse/internal/apperr"
	"schoolpulse/internal/config"
	"schoolpulse/internal/model"
)

// Generator is the generative-text collaborator: prompt in, free-form
// text out. Output carries no schema guarantee; callers must run it
// through ParseStructuredOutput.
type Generator interface {
	Enabled() bool
	// GenerateAnalysis runs the analysis model within its time budget.
	GenerateAnalysis(ctx context.Context, prompt string) (string, error)
	// GenerateReport runs the report model within its larger budget.
	GenerateReport(ctx context.Context, prompt string) (string, error)
}

// GeneratorService calls the Gemini API. A single attempt per request;
// retries are user-initiated regeneration, never automatic.
type GeneratorService struct {
	config *config.AIConfig
	client *http.Client
	logger *zap.Logger
}

// NewGeneratorService creates a generator backed by the default AI config
func NewGeneratorService(logger *zap.Logger) *GeneratorService {
	cfg := config.DefaultAIConfig()
	return &GeneratorService{
		config: cfg,
		client: &http.Client{Timeout: cfg.ReportTimeout},
		logger: logger,
	}
}

// Enabled reports whether an API key is configured. When false the
// pipeline goes straight to deterministic fallback content.
func (s *GeneratorService) Enabled() bool {
	return s.config.IsEnabled()
}

func (s *GeneratorService) GenerateAnalysis(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.AnalysisTimeout)
	defer cancel()
	return s.callGemini(ctx, s.config.Models.Analysis, prompt)
}

func (s *GeneratorService) GenerateReport(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.ReportTimeout)
	defer cancel()
	return s.callGemini(ctx, s.config.Models.Report, prompt)
}

// callGemini makes a request to the Gemini API
func (s *GeneratorService) callGemini(ctx context.Context, modelName, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, err)
	}

	url := fmt.Sprintf("%s?key=%s", s.config.ModelEndpoint(modelName), s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.UpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperr.Wrap(apperr.UpstreamUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperr.Newf(apperr.UpstreamUnavailable, "gemini returned status %d", resp.StatusCode)
	}

	s.logger.Debug("gemini call completed",
		zap.String("model", modelName),
		zap.Duration("elapsed", time.Since(start)))

	// Parse Gemini response structure
	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", apperr.Wrap(apperr.MalformedModelOutput, err)
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", apperr.New(apperr.UpstreamUnavailable, "empty response from gemini")
}

// DefaultTextExcerptLimit caps how many free-text responses get embedded
// in a prompt. Truncation is a silent size cap, not an error.
const DefaultTextExcerptLimit = 50

// BuildAnalysisPrompt renders free-text responses into an analysis
// request carrying the required output schema. At most limit responses
// are embedded; pass limit <= 0 for the default.
func BuildAnalysisPrompt(textResponses []string, limit int) string {
	if limit <= 0 {
		limit = DefaultTextExcerptLimit
	}
	if len(textResponses) > limit {
		textResponses = textResponses[:limit]
	}

	var sb strings.Builder
	for _, t := range textResponses {
		sb.WriteString("- ")
		sb.WriteString(t)
		sb.WriteString("\n")
	}

	return fmt.Sprintf(`You are analyzing free-text responses from a school evaluation survey.
All prose in your output must be written in Korean. Return ONLY valid JSON matching this schema:
{
  "summary": "3-4 sentence overall summary",
  "themes": ["theme 1", "theme 2", "theme 3", "theme 4", "theme 5"],
  "recommendations": ["recommendation 1", "recommendation 2", "recommendation 3"],
  "sentiment": {"positive": 0, "neutral": 0, "negative": 0},
  "wordCloud": [{"word": "word", "count": 0}]
}

Rules:
- themes: exactly 5 entries.
- recommendations: exactly 3 entries.
- sentiment values are percentages and must sum to 100.
- wordCloud: at most 10 entries, most frequent first.

Responses (%d):
%s`, len(textResponses), sb.String())
}

// BuildReportPrompt renders aggregated statistics and text excerpts into
// a narrative-report request with the six-section output schema.
func BuildReportPrompt(project *model.Project, stats model.AggregatedStatistics, grade model.GradeInfo, excerpts []string) string {
	if len(excerpts) > DefaultTextExcerptLimit {
		excerpts = excerpts[:DefaultTextExcerptLimit]
	}

	var byType strings.Builder
	for _, rt := range model.RespondentTypes {
		if stats.QuestionsByType[rt] == 0 && stats.ResponsesByType[rt] == 0 {
			continue
		}
		fmt.Fprintf(&byType, "- %s: %d responses to %d questions (completion %d%%)\n",
			rt, stats.ResponsesByType[rt], stats.QuestionsByType[rt], stats.CompletionRate[rt])
	}

	var excerptList strings.Builder
	for _, e := range excerpts {
		excerptList.WriteString("- ")
		excerptList.WriteString(e)
		excerptList.WriteString("\n")
	}

	return fmt.Sprintf(`You are writing an evaluation report for a Korean school based on survey data.
All prose in your output must be written in Korean. Return ONLY valid JSON matching this schema:
{
  "title": "report title",
  "summary": "executive summary paragraph",
  "sections": [
    {"title": "section title", "content": "section prose"}
  ],
  "themes": ["key theme"],
  "recommendations": ["recommendation"]
}

Rules:
- sections: exactly 6, in this order: 총평 (executive summary), 설문 개요, 주요 결과, 영역별 분석, 강점 및 개선점, 제언.
- Ground every claim in the statistics and excerpts below; do not invent numbers.

School: %s
Project: %s (%d)
Overall grade: %s (%s)
Total questions: %d, total responses: %d
Average rating: %.2f / 5 (%d rating responses)
By respondent type:
%s
Free-text excerpts:
%s`,
		project.SchoolName, project.Title, project.Year,
		grade.Label, grade.Grade,
		stats.TotalQuestions, stats.TotalResponses,
		stats.AverageRating, stats.RatingResponses,
		byType.String(), excerptList.String())
}

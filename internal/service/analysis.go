package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"schoolpulse/internal/apperr"
	"schoolpulse/internal/model"
	"schoolpulse/internal/repository"
)

// AnalysisService produces the qualitative analysis of a project's
// free-text responses. Every call recomputes from the current response
// snapshot; nothing is cached.
type AnalysisService struct {
	questionRepo repository.QuestionRepo
	responseRepo repository.ResponseRepo
	generator    Generator
	logger       *zap.Logger
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(
	questionRepo repository.QuestionRepo,
	responseRepo repository.ResponseRepo,
	generator Generator,
	logger *zap.Logger,
) *AnalysisService {
	return &AnalysisService{
		questionRepo: questionRepo,
		responseRepo: responseRepo,
		generator:    generator,
		logger:       logger,
	}
}

// GenerateAnalysis runs the analysis pipeline for a project. Upstream or
// parse failures are absorbed: the result is then built by the local
// extractor and flagged Fallback, never surfaced as an error. Only a
// missing project ID, an empty response set, or a store failure
// terminate the call.
func (s *AnalysisService) GenerateAnalysis(ctx context.Context, projectID string) (*model.AnalysisResult, error) {
	if projectID == "" {
		return nil, apperr.New(apperr.InvalidArgument, "project id is required")
	}

	questions, err := s.questionRepo.GetByProject(ctx, projectID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err)
	}
	responses, err := s.responseRepo.GetByProject(ctx, projectID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err)
	}
	if len(responses) == 0 {
		return nil, apperr.New(apperr.NotFound, "no responses to analyze")
	}

	stats := Aggregate(questions, responses)
	texts := collectTextResponses(questions, responses)

	result := &model.AnalysisResult{
		ProjectID: projectID,
		Statistics: model.AnalysisStatistics{
			TotalResponses:  stats.TotalResponses,
			TextResponses:   stats.TextResponses,
			RatingResponses: stats.RatingResponses,
			AverageRating:   stats.AverageRating,
		},
		GeneratedAt: time.Now(),
	}

	payload := s.generateStructured(ctx, texts)
	if payload == nil {
		s.applyFallback(result, texts, stats)
		return result, nil
	}

	result.Summary = payload.Summary
	result.Themes = payload.Themes
	result.Recommendations = payload.Recommendations
	if payload.Sentiment != nil {
		result.Sentiment = normalizeSentiment(*payload.Sentiment)
	} else {
		result.Sentiment = fallbackSentiment(stats)
	}
	result.WordCloud = payload.WordCloud
	if len(result.WordCloud) > maxWordCloudEntries {
		result.WordCloud = result.WordCloud[:maxWordCloudEntries]
	}
	if len(result.WordCloud) == 0 {
		result.WordCloud = ExtractWordFrequencies(texts, maxWordCloudEntries)
	}
	return result, nil
}

// generateStructured runs one model attempt and returns nil on any
// recoverable failure.
func (s *AnalysisService) generateStructured(ctx context.Context, texts []string) *model.StructuredPayload {
	if !s.generator.Enabled() {
		s.logger.Info("generator disabled, using local analysis")
		return nil
	}

	prompt := BuildAnalysisPrompt(texts, DefaultTextExcerptLimit)
	raw, err := s.generator.GenerateAnalysis(ctx, prompt)
	if err != nil {
		s.logger.Warn("analysis generation failed", zap.Error(err))
		return nil
	}

	res := ParseStructuredOutput(raw)
	if !res.Parsed() {
		s.logger.Warn("analysis output unparsable", zap.Error(res.Err))
		s.logger.Debug("raw model output", zap.String("raw", res.Raw))
		return nil
	}
	return res.Payload
}

func (s *AnalysisService) applyFallback(result *model.AnalysisResult, texts []string, stats model.AggregatedStatistics) {
	result.Fallback = true
	result.Summary = "실시간 AI 분석을 사용할 수 없어 기본 통계 분석을 제공합니다. " +
		"아래 키워드와 감성 분포는 수집된 응답에서 직접 계산된 값입니다."
	result.Themes = fallbackThemes(texts)
	result.Recommendations = []string{
		"응답률이 낮은 응답자 유형의 참여를 독려해 주세요.",
		"서술형 응답의 주요 키워드를 중심으로 후속 논의를 진행해 주세요.",
		"AI 분석이 가능해지면 보고서를 다시 생성해 주세요.",
	}
	result.Sentiment = fallbackSentiment(stats)
	result.WordCloud = ExtractWordFrequencies(texts, maxWordCloudEntries)
}

// collectTextResponses gathers values of responses whose question is a
// text question, in response order.
func collectTextResponses(questions []*model.Question, responses []*model.Response) []string {
	textQuestions := make(map[string]bool, len(questions))
	for _, q := range questions {
		if q.Type == model.QuestionText {
			textQuestions[q.ID] = true
		}
	}

	var texts []string
	for _, r := range responses {
		if textQuestions[r.QuestionID] && strings.TrimSpace(r.Value) != "" {
			texts = append(texts, strings.TrimSpace(r.Value))
		}
	}
	return texts
}

const maxWordCloudEntries = 10

// stopwords are particles and filler terms excluded from the local word
// cloud. Korean survey responses dominate; a few English terms cover
// mixed input.
var stopwords = map[string]bool{
	"그리고": true, "하지만": true, "그래서": true, "또한": true, "너무": true,
	"정말": true, "매우": true, "좀": true, "더": true, "잘": true,
	"있습니다": true, "합니다": true, "같습니다": true, "있는": true, "하는": true,
	"것": true, "수": true, "등": true, "때": true, "및": true,
	"the": true, "and": true, "for": true, "with": true, "that": true,
	"this": true, "are": true, "was": true, "but": true, "not": true,
}

// ExtractWordFrequencies builds a bounded word-frequency list from raw
// text responses: lowercased, split on non-letter runs, stopword- and
// single-character-filtered, ordered by count then word.
func ExtractWordFrequencies(texts []string, limit int) []model.WordCount {
	counts := make(map[string]int)
	for _, t := range texts {
		words := strings.FieldsFunc(strings.ToLower(t), func(r rune) bool {
			return !unicode.IsLetter(r)
		})
		for _, w := range words {
			if len([]rune(w)) < 2 || stopwords[w] {
				continue
			}
			counts[w]++
		}
	}

	cloud := make([]model.WordCount, 0, len(counts))
	for w, c := range counts {
		cloud = append(cloud, model.WordCount{Word: w, Count: c})
	}
	sort.Slice(cloud, func(i, j int) bool {
		if cloud[i].Count != cloud[j].Count {
			return cloud[i].Count > cloud[j].Count
		}
		return cloud[i].Word < cloud[j].Word
	})

	if limit > 0 && len(cloud) > limit {
		cloud = cloud[:limit]
	}
	return cloud
}

// fallbackThemes promotes the top local keywords to themes when no model
// output is available.
func fallbackThemes(texts []string) []string {
	top := ExtractWordFrequencies(texts, 5)
	themes := make([]string, 0, len(top))
	for _, wc := range top {
		themes = append(themes, wc.Word)
	}
	return themes
}

// fallbackSentiment derives a deterministic sentiment triple from the
// rating average: a 5.0 average reads fully positive, a 1.0 average
// fully negative, with the remainder neutral. Always sums to 100.
func fallbackSentiment(stats model.AggregatedStatistics) model.SentimentBreakdown {
	if stats.RatingResponses == 0 {
		return model.SentimentBreakdown{Neutral: 100}
	}
	// Map [1,5] onto [0,1]
	score := (stats.AverageRating - 1) / 4
	positive := int(math.Round(score * 70))
	negative := int(math.Round((1 - score) * 70))
	return model.SentimentBreakdown{
		Positive: positive,
		Negative: negative,
		Neutral:  100 - positive - negative,
	}
}

// normalizeSentiment nudges a model-supplied triple so it sums to
// exactly 100, tolerating rounding drift in the model's arithmetic.
func normalizeSentiment(s model.SentimentBreakdown) model.SentimentBreakdown {
	sum := s.Positive + s.Neutral + s.Negative
	if sum == 100 {
		return s
	}
	if sum <= 0 {
		return model.SentimentBreakdown{Neutral: 100}
	}
	s.Positive = s.Positive * 100 / sum
	s.Negative = s.Negative * 100 / sum
	s.Neutral = 100 - s.Positive - s.Negative
	return s
}

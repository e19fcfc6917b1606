package model

import "time"

// SentimentBreakdown is a positive/neutral/negative percentage triple.
// The model is asked to make the three sum to 100; local fallbacks
// normalize to exactly 100.
type SentimentBreakdown struct {
	Positive int `json:"positive" bson:"positive"`
	Neutral  int `json:"neutral" bson:"neutral"`
	Negative int `json:"negative" bson:"negative"`
}

// WordCount is one word-cloud entry
type WordCount struct {
	Word  string `json:"word" bson:"word"`
	Count int    `json:"count" bson:"count"`
}

// StructuredPayload is the JSON object the generative service is asked to
// emit for an analysis request, embedded in otherwise free-form text.
type StructuredPayload struct {
	Title           string              `json:"title,omitempty"`
	Summary         string              `json:"summary"`
	Themes          []string            `json:"themes"`
	Recommendations []string            `json:"recommendations"`
	Sentiment       *SentimentBreakdown `json:"sentiment,omitempty"`
	WordCloud       []WordCount         `json:"wordCloud,omitempty"`
	Sections        []ReportSection     `json:"sections,omitempty"`
}

// AnalysisStatistics is the quantitative block of an analysis result
type AnalysisStatistics struct {
	TotalResponses  int     `json:"totalResponses"`
	TextResponses   int     `json:"textResponses"`
	RatingResponses int     `json:"ratingResponses"`
	AverageRating   float64 `json:"averageRating"`
}

// AnalysisResult is the qualitative analysis of a project's free-text
// responses. Ephemeral: generated per invocation, never cached.
type AnalysisResult struct {
	ProjectID       string             `json:"projectId"`
	Summary         string             `json:"summary"`
	Themes          []string           `json:"themes"`
	Recommendations []string           `json:"recommendations"`
	Sentiment       SentimentBreakdown `json:"sentiment"`
	WordCloud       []WordCount        `json:"wordCloud"`
	Statistics      AnalysisStatistics `json:"statistics"`
	Fallback        bool               `json:"fallback"` // true when live analysis was unavailable
	GeneratedAt     time.Time          `json:"generatedAt"`
}

package service

import (
	"math"

	"schoolpulse/internal/model"
)

// Aggregate reduces a project's raw questions and responses into
// quantitative statistics. Pure: no side effects, safe to re-run
// concurrently on read-only snapshots, and idempotent for a fixed input.
//
// Responses whose respondent type has no questions in the current set are
// still counted in ResponsesByType (responses may outlive their
// question), but no completion rate is produced for that type.
func Aggregate(questions []*model.Question, responses []*model.Response) model.AggregatedStatistics {
	stats := model.AggregatedStatistics{
		TotalQuestions:  len(questions),
		TotalResponses:  len(responses),
		QuestionsByType: make(map[model.RespondentType]int),
		ResponsesByType: make(map[model.RespondentType]int),
		CompletionRate:  make(map[model.RespondentType]int),
	}

	questionType := make(map[string]model.QuestionType, len(questions))
	for _, q := range questions {
		stats.QuestionsByType[q.RespondentType]++
		questionType[q.ID] = q.Type
	}

	ratingSum := 0
	for _, r := range responses {
		stats.ResponsesByType[r.RespondentType]++
		// Any value that reads as an integer in [1,5] counts toward the
		// average, regardless of the question's declared type.
		if n, ok := r.RatingValue(); ok {
			ratingSum += n
			stats.RatingResponses++
		}
		if questionType[r.QuestionID] == model.QuestionText {
			stats.TextResponses++
		}
	}

	if stats.RatingResponses > 0 {
		stats.AverageRating = float64(ratingSum) / float64(stats.RatingResponses)
	}

	for rt, qCount := range stats.QuestionsByType {
		if qCount == 0 {
			continue
		}
		rCount := stats.ResponsesByType[rt]
		stats.CompletionRate[rt] = int(math.Round(float64(rCount) / math.Max(float64(qCount), 1) * 100))
	}

	return stats
}

// Grade thresholds: closed at the lower bound, open at the upper bound,
// checked in descending order so ties resolve to the higher grade.
const (
	gradeExcellentMin = 4.2
	gradeGoodMin      = 3.4
	gradeAverageMin   = 2.6
)

// ConvertToGrade maps a numeric rating average onto the 4-level ordinal
// grade. Total over all finite floats; callers must not pass NaN.
func ConvertToGrade(average float64) model.GradeInfo {
	switch {
	case average >= gradeExcellentMin:
		return model.GradeInfo{Grade: model.GradeExcellent, Label: "매우 우수"}
	case average >= gradeGoodMin:
		return model.GradeInfo{Grade: model.GradeGood, Label: "우수"}
	case average >= gradeAverageMin:
		return model.GradeInfo{Grade: model.GradeAverage, Label: "보통"}
	default:
		return model.GradeInfo{Grade: model.GradePoor, Label: "미흡"}
	}
}

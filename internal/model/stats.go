package model

// AggregatedStatistics is the quantitative reduction of a project's raw
// responses. Derived on demand, never persisted on its own.
type AggregatedStatistics struct {
	TotalQuestions  int                    `json:"totalQuestions" bson:"totalQuestions"`
	TotalResponses  int                    `json:"totalResponses" bson:"totalResponses"`
	QuestionsByType map[RespondentType]int `json:"questionsByType" bson:"questionsByType"`
	ResponsesByType map[RespondentType]int `json:"responsesByType" bson:"responsesByType"`
	// AverageRating is 0 when no rating-style values exist; distinguish
	// "no ratings" from a true zero via RatingResponses, not the average.
	AverageRating   float64                `json:"averageRating" bson:"averageRating"`
	RatingResponses int                    `json:"ratingResponses" bson:"ratingResponses"`
	TextResponses   int                    `json:"textResponses" bson:"textResponses"`
	CompletionRate  map[RespondentType]int `json:"completionRate" bson:"completionRate"` // percent per type
}

// Grade is the 4-level ordinal evaluation grade
type Grade string

const (
	GradePoor      Grade = "poor"
	GradeAverage   Grade = "average"
	GradeGood      Grade = "good"
	GradeExcellent Grade = "excellent"
)

// Ordinal maps a grade onto {poor:0 < average:1 < good:2 < excellent:3}
func (g Grade) Ordinal() int {
	switch g {
	case GradeAverage:
		return 1
	case GradeGood:
		return 2
	case GradeExcellent:
		return 3
	}
	return 0
}

// GradeInfo pairs a grade with a display label
type GradeInfo struct {
	Grade Grade  `json:"grade" bson:"grade"`
	Label string `json:"label" bson:"label"`
}

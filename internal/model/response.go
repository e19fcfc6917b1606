package model

import (
	"strconv"
	"time"
)

// Response is a single (question, respondent, value) tuple. Invariant:
// RespondentType always equals the originating question's RespondentType.
// Responses may outlive their question.
type Response struct {
	ID             string         `json:"id" bson:"_id,omitempty"`
	QuestionID     string         `json:"questionId" bson:"questionId"`
	ProjectID      string         `json:"projectId" bson:"projectId"`
	RespondentType RespondentType `json:"respondentType" bson:"respondentType"`
	// Value holds the raw answer: an integer string in [1,5] for rating,
	// free text for text, a selected option for multiple_choice, and a
	// JSON-encoded ranked list for priority (decode with ParsePriorityList).
	Value     string    `json:"value" bson:"value"`
	SessionID string    `json:"sessionId" bson:"sessionId"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// RatingValue parses the response value as a survey rating. ok is false
// when the value is not an integer in [1,5].
func (r *Response) RatingValue() (int, bool) {
	n, err := strconv.Atoi(r.Value)
	if err != nil || n < 1 || n > 5 {
		return 0, false
	}
	return n, true
}

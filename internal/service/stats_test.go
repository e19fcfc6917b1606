package service

import (
	"math"
	"reflect"
	"testing"

	"schoolpulse/internal/model"
)

func TestConvertToGrade_Boundaries(t *testing.T) {
	tests := []struct {
		name    string
		average float64
		want    model.Grade
	}{
		{"excellent lower bound", 4.2, model.GradeExcellent},
		{"just below excellent", 4.1999, model.GradeGood},
		{"good lower bound", 3.4, model.GradeGood},
		{"just below good", 3.3999, model.GradeAverage},
		{"average lower bound", 2.6, model.GradeAverage},
		{"just below average", 2.5999, model.GradePoor},
		{"top of scale", 5.0, model.GradeExcellent},
		{"bottom of scale", 1.0, model.GradePoor},
		{"zero", 0, model.GradePoor},
		{"negative", -3.2, model.GradePoor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConvertToGrade(tt.average)
			if got.Grade != tt.want {
				t.Errorf("ConvertToGrade(%v) = %s, want %s", tt.average, got.Grade, tt.want)
			}
			if got.Label == "" {
				t.Errorf("ConvertToGrade(%v) has empty label", tt.average)
			}
		})
	}
}

func TestConvertToGrade_Monotonic(t *testing.T) {
	prev := ConvertToGrade(0)
	for x := 0.0; x <= 5.0; x += 0.01 {
		got := ConvertToGrade(x)
		if got.Grade.Ordinal() < prev.Grade.Ordinal() {
			t.Fatalf("grade decreased from %s to %s at average %v", prev.Grade, got.Grade, x)
		}
		prev = got
	}
}

func ratingResponse(id, questionID string, rt model.RespondentType, value string) *model.Response {
	return &model.Response{ID: id, QuestionID: questionID, ProjectID: "p1", RespondentType: rt, Value: value}
}

func TestAggregate_EndToEnd(t *testing.T) {
	questions := []*model.Question{
		{ID: "qt1", ProjectID: "p1", RespondentType: model.RespondentTeacher, Type: model.QuestionRating, OrderIndex: 1},
		{ID: "qp1", ProjectID: "p1", RespondentType: model.RespondentParent, Type: model.QuestionRating, OrderIndex: 1},
		{ID: "qs1", ProjectID: "p1", RespondentType: model.RespondentStudent, Type: model.QuestionText, OrderIndex: 1},
	}

	responses := []*model.Response{
		ratingResponse("r1", "qt1", model.RespondentTeacher, "5"),
		ratingResponse("r2", "qt1", model.RespondentTeacher, "4"),
		ratingResponse("r3", "qt1", model.RespondentTeacher, "3"),
		ratingResponse("r4", "qt1", model.RespondentTeacher, "5"),
		ratingResponse("r5", "qt1", model.RespondentTeacher, "4"),
		ratingResponse("r6", "qp1", model.RespondentParent, "2"),
		ratingResponse("r7", "qp1", model.RespondentParent, "3"),
		ratingResponse("r8", "qs1", model.RespondentStudent, "수업이 재미있어요"),
		ratingResponse("r9", "qs1", model.RespondentStudent, "급식이 맛있어요"),
		ratingResponse("r10", "qs1", model.RespondentStudent, "친구들과 잘 지내요"),
	}

	stats := Aggregate(questions, responses)

	if stats.TotalQuestions != 3 {
		t.Errorf("TotalQuestions = %d, want 3", stats.TotalQuestions)
	}
	if stats.TotalResponses != 10 {
		t.Errorf("TotalResponses = %d, want 10", stats.TotalResponses)
	}
	if stats.ResponsesByType[model.RespondentTeacher] != 5 {
		t.Errorf("teacher responses = %d, want 5", stats.ResponsesByType[model.RespondentTeacher])
	}
	if stats.ResponsesByType[model.RespondentParent] != 2 {
		t.Errorf("parent responses = %d, want 2", stats.ResponsesByType[model.RespondentParent])
	}
	if stats.RatingResponses != 7 {
		t.Errorf("RatingResponses = %d, want 7", stats.RatingResponses)
	}
	if stats.TextResponses != 3 {
		t.Errorf("TextResponses = %d, want 3", stats.TextResponses)
	}

	wantAvg := 26.0 / 7.0
	if math.Abs(stats.AverageRating-wantAvg) > 1e-9 {
		t.Errorf("AverageRating = %v, want %v", stats.AverageRating, wantAvg)
	}
	if grade := ConvertToGrade(stats.AverageRating); grade.Grade != model.GradeGood {
		t.Errorf("grade = %s, want good", grade.Grade)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	questions := []*model.Question{
		{ID: "q1", RespondentType: model.RespondentTeacher, Type: model.QuestionRating},
		{ID: "q2", RespondentType: model.RespondentStudent, Type: model.QuestionText},
	}
	responses := []*model.Response{
		ratingResponse("r1", "q1", model.RespondentTeacher, "4"),
		ratingResponse("r2", "q2", model.RespondentStudent, "좋아요"),
	}

	first := Aggregate(questions, responses)
	second := Aggregate(questions, responses)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("aggregation not idempotent:\nfirst  = %+v\nsecond = %+v", first, second)
	}
}

func TestAggregate_CompletionRates(t *testing.T) {
	questions := []*model.Question{
		{ID: "q1", RespondentType: model.RespondentTeacher, Type: model.QuestionRating},
		{ID: "q2", RespondentType: model.RespondentTeacher, Type: model.QuestionRating},
		{ID: "q3", RespondentType: model.RespondentParent, Type: model.QuestionRating},
	}
	responses := []*model.Response{
		ratingResponse("r1", "q1", model.RespondentTeacher, "4"),
		// Student response with no student questions: counted by type,
		// but no completion rate entry appears for students.
		ratingResponse("r2", "orphan", model.RespondentStudent, "3"),
	}

	stats := Aggregate(questions, responses)

	if got := stats.CompletionRate[model.RespondentTeacher]; got != 50 {
		t.Errorf("teacher completion = %d, want 50", got)
	}
	if got := stats.CompletionRate[model.RespondentParent]; got != 0 {
		t.Errorf("parent completion = %d, want 0", got)
	}
	if _, ok := stats.CompletionRate[model.RespondentStudent]; ok {
		t.Error("student completion rate present despite zero student questions")
	}
	if stats.ResponsesByType[model.RespondentStudent] != 1 {
		t.Errorf("student responses = %d, want 1 (orphans still counted)", stats.ResponsesByType[model.RespondentStudent])
	}

	for rt, rate := range stats.CompletionRate {
		if rate < 0 || rate > 100 {
			t.Errorf("completion rate for %s = %d, want within [0,100]", rt, rate)
		}
	}
}

func TestAggregate_NoRatings(t *testing.T) {
	questions := []*model.Question{
		{ID: "q1", RespondentType: model.RespondentStudent, Type: model.QuestionText},
	}
	responses := []*model.Response{
		ratingResponse("r1", "q1", model.RespondentStudent, "서술형 응답"),
	}

	stats := Aggregate(questions, responses)
	if stats.AverageRating != 0 {
		t.Errorf("AverageRating = %v, want 0 sentinel", stats.AverageRating)
	}
	if stats.RatingResponses != 0 {
		t.Errorf("RatingResponses = %d, want 0", stats.RatingResponses)
	}
}

func TestAggregate_NonRatingValuesExcluded(t *testing.T) {
	questions := []*model.Question{
		{ID: "q1", RespondentType: model.RespondentTeacher, Type: model.QuestionRating},
	}
	responses := []*model.Response{
		ratingResponse("r1", "q1", model.RespondentTeacher, "6"),   // out of range
		ratingResponse("r2", "q1", model.RespondentTeacher, "0"),   // out of range
		ratingResponse("r3", "q1", model.RespondentTeacher, "abc"), // not an integer
		ratingResponse("r4", "q1", model.RespondentTeacher, "5"),
	}

	stats := Aggregate(questions, responses)
	if stats.RatingResponses != 1 {
		t.Errorf("RatingResponses = %d, want 1", stats.RatingResponses)
	}
	if stats.AverageRating != 5 {
		t.Errorf("AverageRating = %v, want 5", stats.AverageRating)
	}
}

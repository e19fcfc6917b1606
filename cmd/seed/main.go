package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"schoolpulse/internal/model"
	"schoolpulse/internal/repository"
)

func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "schoolpulse"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(dbName)
	projectRepo := repository.NewProjectRepo(db)
	questionRepo := repository.NewQuestionRepo(db)

	project := &model.Project{
		SchoolID:   "school_demo",
		SchoolName: "한빛중학교",
		Title:      "2026년 학교 자체평가",
		Year:       2026,
		Status:     model.ProjectActive,
	}
	projectID, err := projectRepo.Create(ctx, project)
	if err != nil {
		log.Fatalf("Failed to insert project: %v", err)
	}

	questions := []*model.Question{
		{
			RespondentType: model.RespondentTeacher,
			Type:           model.QuestionRating,
			Text:           "학교 교육과정이 학생의 성장에 적합하게 편성·운영되고 있습니까?",
			IsRequired:     true,
			OrderIndex:     1,
			SectionName:    "교육과정",
		},
		{
			RespondentType: model.RespondentTeacher,
			Type:           model.QuestionText,
			Text:           "수업 개선을 위해 학교가 지원해야 할 점을 자유롭게 적어 주세요.",
			OrderIndex:     2,
			SectionName:    "교육과정",
		},
		{
			RespondentType: model.RespondentTeacher,
			Type:           model.QuestionPriority,
			Text:           "내년도에 우선적으로 개선해야 할 영역의 순위를 매겨 주세요.",
			OrderIndex:     3,
			SectionName:    "학교 운영",
		},
		{
			RespondentType: model.RespondentStaff,
			Type:           model.QuestionRating,
			Text:           "행정 업무 분장이 합리적으로 이루어지고 있습니까?",
			IsRequired:     true,
			OrderIndex:     1,
			SectionName:    "학교 운영",
		},
		{
			RespondentType: model.RespondentParent,
			Type:           model.QuestionRating,
			Text:           "학교가 학부모와 충분히 소통하고 있다고 생각하십니까?",
			IsRequired:     true,
			OrderIndex:     1,
			SectionName:    "소통",
		},
		{
			RespondentType: model.RespondentParent,
			Type:           model.QuestionText,
			Text:           "학교에 바라는 점을 자유롭게 적어 주세요.",
			OrderIndex:     2,
			SectionName:    "소통",
		},
		{
			RespondentType: model.RespondentStudent,
			Type:           model.QuestionRating,
			Text:           "수업 시간에 배우는 내용이 이해하기 쉽습니까?",
			IsRequired:     true,
			OrderIndex:     1,
			SectionName:    "수업",
		},
		{
			RespondentType: model.RespondentStudent,
			Type:           model.QuestionMultipleChoice,
			Text:           "학교 생활에서 가장 만족스러운 부분은 무엇입니까?",
			Options:        []string{"수업", "친구 관계", "동아리 활동", "급식", "시설"},
			OrderIndex:     2,
			SectionName:    "학교 생활",
		},
	}

	for _, q := range questions {
		q.ProjectID = projectID
		if _, err := questionRepo.Create(ctx, q); err != nil {
			log.Fatalf("Failed to insert question: %v", err)
		}
	}

	fmt.Printf("Seeded project %q (%s) with %d questions\n", project.Title, projectID, len(questions))
}

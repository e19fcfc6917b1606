package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"schoolpulse/internal/model"
)

// QuestionRepo handles MongoDB operations for survey questions
type QuestionRepo interface {
	Create(ctx context.Context, question *model.Question) (string, error)
	GetByID(ctx context.Context, id string) (*model.Question, error)
	// GetByProject returns all questions for a project ordered by
	// orderIndex.
	GetByProject(ctx context.Context, projectID string) ([]*model.Question, error)
	// GetByProjectAndType returns a respondent type's question set in
	// presentation order.
	GetByProjectAndType(ctx context.Context, projectID string, rt model.RespondentType) ([]*model.Question, error)
	// Delete removes a question. Responses referencing it are left in
	// place; they may outlive their question.
	Delete(ctx context.Context, id string) error
}

type questionRepo struct {
	collection *mongo.Collection
}

// NewQuestionRepo creates a new question repository
func NewQuestionRepo(db *mongo.Database) QuestionRepo {
	return &questionRepo{collection: db.Collection("questions")}
}

func (r *questionRepo) Create(ctx context.Context, question *model.Question) (string, error) {
	result, err := r.collection.InsertOne(ctx, question)
	if err != nil {
		return "", err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		question.ID = oid.Hex()
	}
	return question.ID, nil
}

func (r *questionRepo) GetByID(ctx context.Context, id string) (*model.Question, error) {
	filter, err := idFilter(id)
	if err != nil {
		return nil, err
	}

	var question model.Question
	err = r.collection.FindOne(ctx, filter).Decode(&question)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepo) GetByProject(ctx context.Context, projectID string) ([]*model.Question, error) {
	return r.find(ctx, bson.M{"projectId": projectID})
}

func (r *questionRepo) GetByProjectAndType(ctx context.Context, projectID string, rt model.RespondentType) ([]*model.Question, error) {
	return r.find(ctx, bson.M{"projectId": projectID, "respondentType": rt})
}

func (r *questionRepo) find(ctx context.Context, filter bson.M) ([]*model.Question, error) {
	opts := options.Find().SetSort(bson.D{{Key: "orderIndex", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []*model.Question
	if err = cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) Delete(ctx context.Context, id string) error {
	filter, err := idFilter(id)
	if err != nil {
		return err
	}
	_, err = r.collection.DeleteOne(ctx, filter)
	return err
}

package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"schoolpulse/internal/model"
)

// ResponseRepo handles MongoDB operations for survey responses
type ResponseRepo interface {
	Create(ctx context.Context, response *model.Response) error
	GetByProject(ctx context.Context, projectID string) ([]*model.Response, error)
	GetByQuestion(ctx context.Context, questionID string) ([]*model.Response, error)
	GetByProjectAndType(ctx context.Context, projectID string, rt model.RespondentType) ([]*model.Response, error)
	GetBySession(ctx context.Context, sessionID string) ([]*model.Response, error)
}

type responseRepo struct {
	collection *mongo.Collection
}

// NewResponseRepo creates a new response repository
func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{collection: db.Collection("responses")}
}

func (r *responseRepo) Create(ctx context.Context, response *model.Response) error {
	if response.CreatedAt.IsZero() {
		response.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, response)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		response.ID = oid.Hex()
	}
	return nil
}

func (r *responseRepo) GetByProject(ctx context.Context, projectID string) ([]*model.Response, error) {
	return r.find(ctx, bson.M{"projectId": projectID})
}

func (r *responseRepo) GetByQuestion(ctx context.Context, questionID string) ([]*model.Response, error) {
	return r.find(ctx, bson.M{"questionId": questionID})
}

func (r *responseRepo) GetByProjectAndType(ctx context.Context, projectID string, rt model.RespondentType) ([]*model.Response, error) {
	return r.find(ctx, bson.M{"projectId": projectID, "respondentType": rt})
}

func (r *responseRepo) GetBySession(ctx context.Context, sessionID string) ([]*model.Response, error) {
	return r.find(ctx, bson.M{"sessionId": sessionID})
}

func (r *responseRepo) find(ctx context.Context, filter bson.M) ([]*model.Response, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var responses []*model.Response
	if err = cursor.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

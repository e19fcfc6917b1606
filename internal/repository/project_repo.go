package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"schoolpulse/internal/model"
)

// ProjectRepo handles MongoDB operations for evaluation projects
type ProjectRepo interface {
	Create(ctx context.Context, project *model.Project) (string, error)
	GetByID(ctx context.Context, id string) (*model.Project, error)
	GetBySchoolID(ctx context.Context, schoolID string) ([]*model.Project, error)
	Update(ctx context.Context, project *model.Project) error
}

type projectRepo struct {
	collection *mongo.Collection
}

// NewProjectRepo creates a new project repository
func NewProjectRepo(db *mongo.Database) ProjectRepo {
	return &projectRepo{collection: db.Collection("projects")}
}

func (r *projectRepo) Create(ctx context.Context, project *model.Project) (string, error) {
	now := time.Now()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	project.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, project)
	if err != nil {
		return "", err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		project.ID = oid.Hex()
	}
	return project.ID, nil
}

func (r *projectRepo) GetByID(ctx context.Context, id string) (*model.Project, error) {
	filter, err := idFilter(id)
	if err != nil {
		return nil, err
	}

	var project model.Project
	err = r.collection.FindOne(ctx, filter).Decode(&project)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepo) GetBySchoolID(ctx context.Context, schoolID string) ([]*model.Project, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"schoolId": schoolID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var projects []*model.Project
	if err = cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepo) Update(ctx context.Context, project *model.Project) error {
	filter, err := idFilter(project.ID)
	if err != nil {
		return err
	}
	project.UpdatedAt = time.Now()
	_, err = r.collection.UpdateOne(ctx, filter, bson.M{"$set": project})
	return err
}

// idFilter builds an _id filter, accepting both hex ObjectIDs and
// pre-assigned string IDs (seed data uses the latter).
func idFilter(id string) (bson.M, error) {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": oid}, nil
	}
	return bson.M{"_id": id}, nil
}

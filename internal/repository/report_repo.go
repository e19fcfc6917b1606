package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"schoolpulse/internal/model"
)

// ReportRepo handles MongoDB operations for generated reports. A project
// holds at most one report; regeneration replaces it.
type ReportRepo interface {
	Save(ctx context.Context, report *model.Report) error
	GetByProject(ctx context.Context, projectID string) (*model.Report, error)
}

type reportRepo struct {
	collection *mongo.Collection
}

// NewReportRepo creates a new report repository
func NewReportRepo(db *mongo.Database) ReportRepo {
	return &reportRepo{collection: db.Collection("reports")}
}

func (r *reportRepo) Save(ctx context.Context, report *model.Report) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"projectId": report.ProjectID}, report, opts)
	return err
}

func (r *reportRepo) GetByProject(ctx context.Context, projectID string) (*model.Report, error) {
	var report model.Report
	err := r.collection.FindOne(ctx, bson.M{"projectId": projectID}).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

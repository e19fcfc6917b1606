package model

import "time"

// ProjectStatus tracks the lifecycle of an evaluation project
type ProjectStatus string

const (
	ProjectDraft  ProjectStatus = "draft"
	ProjectActive ProjectStatus = "active"
	ProjectClosed ProjectStatus = "closed"
)

// School is the institution an evaluation project belongs to
type School struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Region    string    `json:"region,omitempty" bson:"region,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Project is a single evaluation run against a school. Questions and
// responses are scoped to a project; statistics and reports are always
// recomputed from the project's current response snapshot.
type Project struct {
	ID         string        `json:"id" bson:"_id,omitempty"`
	SchoolID   string        `json:"schoolId" bson:"schoolId"`
	SchoolName string        `json:"schoolName" bson:"schoolName"`
	Title      string        `json:"title" bson:"title"`
	Year       int           `json:"year" bson:"year"`
	Status     ProjectStatus `json:"status" bson:"status"`
	CreatedAt  time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// SurveySession is a respondent's in-progress pass through a project's
// question set. Held in redis with a TTL; never persisted to mongo.
type SurveySession struct {
	ID             string         `json:"id"`
	ProjectID      string         `json:"projectId"`
	RespondentType RespondentType `json:"respondentType"`
	Section        string         `json:"section,omitempty"`
	StartedAt      time.Time      `json:"startedAt"`
}

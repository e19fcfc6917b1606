package model

import "time"

// ReportStatus tracks a stored report's generation outcome
type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportReady    ReportStatus = "ready"    // AI narrative parsed and merged
	ReportFallback ReportStatus = "fallback" // deterministic placeholder content
)

// ReportSection is one titled block of narrative prose
type ReportSection struct {
	Title   string `json:"title" bson:"title"`
	Content string `json:"content" bson:"content"`
}

// ReportStatistics is the quantitative block embedded in a final report
type ReportStatistics struct {
	TotalResponses int     `json:"totalResponses" bson:"totalResponses"`
	AverageRating  float64 `json:"averageRating" bson:"averageRating"`
	// CompletionRate is the project-level heuristic percent
	// (responses / (questions x expected respondents)), an approximation
	// rather than a true response-rate measurement.
	CompletionRate int `json:"completionRate" bson:"completionRate"`
}

// Report is the assembled evaluation report for a project. Regeneration
// recomputes everything from the current response snapshot, so two
// generations of the same project may differ.
type Report struct {
	ProjectID   string           `json:"projectId" bson:"projectId"`
	SchoolName  string           `json:"schoolName" bson:"schoolName"`
	Title       string           `json:"title" bson:"title"`
	Status      ReportStatus     `json:"status" bson:"status"`
	Grade       GradeInfo        `json:"grade" bson:"grade"`
	Sections    []ReportSection  `json:"sections" bson:"sections"`
	Statistics  ReportStatistics `json:"statistics" bson:"statistics"`
	GeneratedAt time.Time        `json:"generatedAt" bson:"generatedAt"`
}

package model

// RespondentType is the survey population a question or response belongs to
type RespondentType string

const (
	RespondentTeacher RespondentType = "teacher"
	RespondentStaff   RespondentType = "staff"
	RespondentParent  RespondentType = "parent"
	RespondentStudent RespondentType = "student"
)

// RespondentTypes lists all populations in presentation order
var RespondentTypes = []RespondentType{
	RespondentTeacher,
	RespondentStaff,
	RespondentParent,
	RespondentStudent,
}

// Valid reports whether t is one of the four known populations
func (t RespondentType) Valid() bool {
	switch t {
	case RespondentTeacher, RespondentStaff, RespondentParent, RespondentStudent:
		return true
	}
	return false
}

// QuestionType defines how a question's value is shaped
type QuestionType string

const (
	QuestionRating         QuestionType = "rating"          // integer 1-5
	QuestionText           QuestionType = "text"            // free form
	QuestionMultipleChoice QuestionType = "multiple_choice" // one of Options
	QuestionPriority       QuestionType = "priority"        // ranked list, see priority.go
)

// Question is a survey question scoped to a project and respondent type.
// Once responses reference a question it is treated as immutable; deleting
// a question never cascades to its responses.
type Question struct {
	ID             string         `json:"id" bson:"_id,omitempty"`
	ProjectID      string         `json:"projectId" bson:"projectId"`
	RespondentType RespondentType `json:"respondentType" bson:"respondentType"`
	Type           QuestionType   `json:"type" bson:"type"`
	Text           string         `json:"text" bson:"text"`
	Options        []string       `json:"options,omitempty" bson:"options,omitempty"` // multiple_choice only
	IsRequired     bool           `json:"isRequired" bson:"isRequired"`
	OrderIndex     int            `json:"orderIndex" bson:"orderIndex"`
	SectionName    string         `json:"sectionName,omitempty" bson:"sectionName,omitempty"`
}

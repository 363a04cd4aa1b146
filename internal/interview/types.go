// Package interview holds the interview domain model, the question-set parser
// and the service orchestrating the rehearsal pipeline.
package interview

import "time"

// Interview types accepted at setup.
const (
	TypeTechnical  = "technical"
	TypeBehavioral = "behavioral"
	TypeMixed      = "mixed"
)

// Experience levels accepted at setup.
const (
	LevelFresher = "fresher"
	LevelJunior  = "junior"
	LevelMid     = "mid"
	LevelSenior  = "senior"
)

// Bounds for the number of questions per interview.
const (
	MinQuestions = 3
	MaxQuestions = 10
)

// QuestionItem is one generated question together with its model answer.
// Items are created only by the question-set parser and never mutated after.
type QuestionItem struct {
	Question        string `json:"question"`
	PreferredAnswer string `json:"preferred_answer"`
}

// Interview is the question bank plus the candidate context it was generated
// from.
type Interview struct {
	ID                 string         `json:"id"`
	UserID             string         `json:"user_id"`
	Name               string         `json:"interview_name"`
	NumQuestions       int            `json:"num_of_questions"`
	Type               string         `json:"interview_type"`
	Role               string         `json:"role"`
	ExperienceLevel    string         `json:"experience_level"`
	CompanyName        string         `json:"company_name,omitempty"`
	CompanyDescription string         `json:"company_description,omitempty"`
	JobDescription     string         `json:"job_description,omitempty"`
	ResumeLink         string         `json:"resume_link,omitempty"`
	FocusArea          string         `json:"focus_area,omitempty"`
	Questions          []QuestionItem `json:"questions"`
	CreatedAt          time.Time      `json:"created_at"`
}

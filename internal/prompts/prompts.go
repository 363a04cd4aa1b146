// Package prompts renders the deterministic instruction templates sent to the
// text-generation model. Templates are embedded and filled by token
// replacement, so rendering is a pure function of the typed parameters.
package prompts

import (
	"strconv"
	"strings"

	_ "embed"
)

//go:embed templates/questions.md
var questionsTemplate string

//go:embed templates/grading.md
var gradingTemplate string

//go:embed templates/narrative.md
var narrativeTemplate string

const (
	defaultCompanyName        = "PrepEdge AI"
	defaultCompanyDescription = "No company description provided."
	defaultJobDescription     = "No job description provided."
	defaultFocusArea          = "No specific focus areas provided."

	// InterviewTypeMixed renders as a combined round in prompts.
	InterviewTypeMixed = "mixed"
	mixedRoundWording  = "technical and behavioral"
)

// QuestionSetParams carries the candidate context for question generation.
type QuestionSetParams struct {
	NumQuestions       int
	InterviewType      string
	Role               string
	ExperienceLevel    string
	CompanyName        string
	CompanyDescription string
	JobDescription     string
	FocusArea          string
}

// GradingParams carries one question/answer pair plus interview context.
type GradingParams struct {
	Question        string
	UserAnswer      string
	PreferredAnswer string
	Role            string
	ExperienceLevel string
	InterviewType   string
}

// QuestionSet renders the question-generation prompt.
func QuestionSet(p QuestionSetParams) string {
	return render(questionsTemplate, map[string]string{
		"NUM_QUESTIONS":       strconv.Itoa(p.NumQuestions),
		"ROUND_TYPE":          roundWording(p.InterviewType),
		"ROLE":                p.Role,
		"EXPERIENCE_LEVEL":    p.ExperienceLevel,
		"COMPANY_NAME":        orDefault(p.CompanyName, defaultCompanyName),
		"COMPANY_DESCRIPTION": orDefault(p.CompanyDescription, defaultCompanyDescription),
		"JOB_DESCRIPTION":     orDefault(p.JobDescription, defaultJobDescription),
		"FOCUS_AREA":          orDefault(p.FocusArea, defaultFocusArea),
	})
}

// Grading renders the answer-grading prompt for a single answer.
func Grading(p GradingParams) string {
	return render(gradingTemplate, map[string]string{
		"ROLE":             p.Role,
		"EXPERIENCE_LEVEL": p.ExperienceLevel,
		"INTERVIEW_TYPE":   p.InterviewType,
		"QUESTION":         p.Question,
		"PREFERRED_ANSWER": p.PreferredAnswer,
		"USER_ANSWER":      p.UserAnswer,
	})
}

// Narrative renders the report-narrative prompt from the combined per-answer
// feedback.
func Narrative(combinedFeedback string) string {
	return render(narrativeTemplate, map[string]string{
		"COMBINED_FEEDBACK": combinedFeedback,
	})
}

func render(template string, tokens map[string]string) string {
	out := template
	for token, value := range tokens {
		out = strings.ReplaceAll(out, "{{"+token+"}}", value)
	}
	return strings.TrimSpace(out)
}

func roundWording(interviewType string) string {
	if strings.EqualFold(strings.TrimSpace(interviewType), InterviewTypeMixed) {
		return mixedRoundWording
	}
	return interviewType
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

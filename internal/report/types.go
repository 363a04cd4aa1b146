// Package report grades candidate answers and accumulates them into the
// interview report, finalizing it with model-written narrative sections.
package report

import "time"

// GradedAnswer is the scored record of one submitted answer. Score is always
// within [0,100]; untrustworthy grading results are replaced by the sentinel
// before they ever reach a report.
type GradedAnswer struct {
	Question        string `json:"question"`
	UserAnswer      string `json:"user_answer"`
	PreferredAnswer string `json:"preferred_answer"`
	Score           int    `json:"score"`
	Feedback        string `json:"feedback"`
}

// Report is the per-interview aggregate. FinalScore is empty while the report
// is in progress; it is set exactly once, when the number of answers reaches
// the interview's expected question count, together with the narrative
// sections. The transition is never reversed.
type Report struct {
	InterviewID       string         `json:"interview_id"`
	UserID            string         `json:"user_id"`
	Answers           []GradedAnswer `json:"answers"`
	FinalScore        string         `json:"final_score,omitempty"`
	Summary           string         `json:"summary,omitempty"`
	Strengths         string         `json:"strengths,omitempty"`
	AreaOfImprovement string         `json:"area_of_improvement,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

// Finalized reports whether the one-way transition to a final report happened.
func (r *Report) Finalized() bool {
	return r != nil && r.FinalScore != ""
}

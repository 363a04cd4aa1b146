package report

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/prepedge/prepedge/internal/ai"
	"github.com/prepedge/prepedge/internal/prompts"
)

const (
	scorePrefix    = "- Score:"
	feedbackPrefix = "- Feedback:"

	// fallbackScore is used when a score line exists but its content is not
	// numeric. The literal value is preserved from observed behavior.
	fallbackScore = 80

	sentinelFeedback = "Analysis failed"
	missingFeedback  = "Analysis failed to provide feedback"
)

// GradeRequest is one answer to evaluate, plus the interview context the
// grading prompt needs.
type GradeRequest struct {
	Question        string
	UserAnswer      string
	PreferredAnswer string
	Role            string
	ExperienceLevel string
	InterviewType   string
}

// Result is the outcome of grading one answer. Degraded marks the sentinel
// substituted when grading could not produce a trustworthy result; callers
// currently store the values either way, but the distinction stays visible.
type Result struct {
	Score    int
	Feedback string
	Degraded bool
}

func sentinel() Result {
	return Result{Score: 0, Feedback: sentinelFeedback, Degraded: true}
}

// Grader turns one candidate answer into a bounded score plus feedback text.
type Grader struct {
	completer ai.Completer
	logger    *zap.Logger
}

func NewGrader(completer ai.Completer, logger *zap.Logger) *Grader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Grader{completer: completer, logger: logger}
}

// Grade never fails: a model-call error or an out-of-range parsed score
// degrades to the sentinel result instead of propagating. The caller sees a
// zero score with generic feedback and the pipeline continues.
func (g *Grader) Grade(ctx context.Context, req GradeRequest) Result {
	prompt := prompts.Grading(prompts.GradingParams{
		Question:        req.Question,
		UserAnswer:      req.UserAnswer,
		PreferredAnswer: req.PreferredAnswer,
		Role:            req.Role,
		ExperienceLevel: req.ExperienceLevel,
		InterviewType:   req.InterviewType,
	})

	raw, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		g.logger.Warn("answer analysis failed", zap.Error(err))
		return sentinel()
	}

	result := parseGrading(raw)
	if result.Score < 0 || result.Score > 100 {
		g.logger.Warn("discarding out-of-range score", zap.Int("score", result.Score))
		return sentinel()
	}

	return result
}

// parseGrading scans the raw grading text for the score and feedback lines.
// Three distinct score outcomes: no score line keeps the initial 0, a score
// line with non-numeric content falls back to 80, a numeric line wins.
func parseGrading(raw string) Result {
	result := Result{Score: 0, Feedback: missingFeedback}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)

		if rest, ok := strings.CutPrefix(line, scorePrefix); ok {
			if score, err := strconv.Atoi(strings.TrimSpace(rest)); err == nil {
				result.Score = score
			} else {
				result.Score = fallbackScore
			}
			continue
		}

		if rest, ok := strings.CutPrefix(line, feedbackPrefix); ok {
			if feedback := strings.TrimSpace(rest); feedback != "" {
				result.Feedback = feedback
			}
		}
	}

	return result
}

package interview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/prepedge/prepedge/internal/ai"
	"github.com/prepedge/prepedge/internal/logger"
	"github.com/prepedge/prepedge/internal/prompts"
	"github.com/prepedge/prepedge/internal/report"
)

// ErrQuestionOutOfRange is returned when a submitted answer references a
// question index outside the interview's question bank.
var ErrQuestionOutOfRange = fmt.Errorf("question index out of range")

// ErrInvalidParams marks setup input the caller can fix.
var ErrInvalidParams = fmt.Errorf("invalid interview parameters")

// Store is the persistence contract the service consumes for interviews.
// Implementations live in internal/store.
type Store interface {
	Save(ctx context.Context, iv *Interview) error
	Get(ctx context.Context, id string) (*Interview, error)
	ListByUser(ctx context.Context, userID string) ([]*Interview, error)
}

// SetupParams is the candidate context required to generate a question bank.
type SetupParams struct {
	UserID             string
	Name               string
	NumQuestions       int
	Type               string
	Role               string
	ExperienceLevel    string
	CompanyName        string
	CompanyDescription string
	JobDescription     string
	FocusArea          string
	ResumeLink         string
}

func (p SetupParams) validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidParams)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: interview name is required", ErrInvalidParams)
	}
	if strings.TrimSpace(p.Role) == "" {
		return fmt.Errorf("%w: role is required", ErrInvalidParams)
	}
	if p.NumQuestions < MinQuestions || p.NumQuestions > MaxQuestions {
		return fmt.Errorf("%w: num_of_questions must be between %d and %d", ErrInvalidParams, MinQuestions, MaxQuestions)
	}
	switch p.Type {
	case TypeTechnical, TypeBehavioral, TypeMixed:
	default:
		return fmt.Errorf("%w: unsupported interview type %q", ErrInvalidParams, p.Type)
	}
	switch p.ExperienceLevel {
	case LevelFresher, LevelJunior, LevelMid, LevelSenior:
	default:
		return fmt.Errorf("%w: unsupported experience level %q", ErrInvalidParams, p.ExperienceLevel)
	}
	return nil
}

// Service sequences the rehearsal pipeline against the model and the stores.
type Service struct {
	completer ai.Completer
	store     Store
	grader    *report.Grader
	reports   *report.Accumulator
	logger    *zap.Logger
}

func NewService(completer ai.Completer, store Store, grader *report.Grader, reports *report.Accumulator, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		completer: completer,
		store:     store,
		grader:    grader,
		reports:   reports,
		logger:    log,
	}
}

// Setup generates the question bank for a new interview. This is the strict
// path: a model failure or a shortfall of well-formed items surfaces as a
// *GenerationError and nothing is persisted.
func (s *Service) Setup(ctx context.Context, p SetupParams) (*Interview, error) {
	p.Type = strings.ToLower(strings.TrimSpace(p.Type))
	p.ExperienceLevel = strings.ToLower(strings.TrimSpace(p.ExperienceLevel))

	if err := p.validate(); err != nil {
		return nil, err
	}

	prompt := prompts.QuestionSet(prompts.QuestionSetParams{
		NumQuestions:       p.NumQuestions,
		InterviewType:      p.Type,
		Role:               p.Role,
		ExperienceLevel:    p.ExperienceLevel,
		CompanyName:        p.CompanyName,
		CompanyDescription: p.CompanyDescription,
		JobDescription:     p.JobDescription,
		FocusArea:          p.FocusArea,
	})

	raw, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, &GenerationError{Want: p.NumQuestions, Err: err}
	}

	questions, err := ParseQuestionSet(raw, p.NumQuestions)
	if err != nil {
		return nil, err
	}

	iv := &Interview{
		ID:                 uuid.NewString(),
		UserID:             p.UserID,
		Name:               p.Name,
		NumQuestions:       p.NumQuestions,
		Type:               p.Type,
		Role:               p.Role,
		ExperienceLevel:    p.ExperienceLevel,
		CompanyName:        p.CompanyName,
		CompanyDescription: p.CompanyDescription,
		JobDescription:     p.JobDescription,
		ResumeLink:         p.ResumeLink,
		FocusArea:          p.FocusArea,
		Questions:          questions,
		CreatedAt:          time.Now().UTC(),
	}

	if err := s.store.Save(ctx, iv); err != nil {
		return nil, fmt.Errorf("save interview: %w", err)
	}

	s.logger.Info("interview set up",
		zap.String(logger.FieldInterview, iv.ID),
		zap.String("role", iv.Role),
		zap.Int("questions", len(iv.Questions)),
	)

	return iv, nil
}

// SubmitAnswer grades one answer and folds it into the interview's report.
// This is the lenient path: grading failures degrade to the sentinel result
// and are invisible here; only lookup and persistence errors propagate.
func (s *Service) SubmitAnswer(ctx context.Context, interviewID string, questionIndex int, answer string) error {
	iv, err := s.store.Get(ctx, interviewID)
	if err != nil {
		return err
	}

	if questionIndex < 0 || questionIndex >= len(iv.Questions) {
		return fmt.Errorf("%w: %d", ErrQuestionOutOfRange, questionIndex)
	}
	question := iv.Questions[questionIndex]

	result := s.grader.Grade(ctx, report.GradeRequest{
		Question:        question.Question,
		UserAnswer:      answer,
		PreferredAnswer: question.PreferredAnswer,
		Role:            iv.Role,
		ExperienceLevel: iv.ExperienceLevel,
		InterviewType:   iv.Type,
	})

	if result.Degraded {
		s.logger.Debug("answer graded with sentinel result",
			zap.String(logger.FieldInterview, interviewID),
			zap.Int("question_index", questionIndex),
		)
	}

	_, err = s.reports.Append(ctx, iv.ID, iv.UserID, report.GradedAnswer{
		Question:        question.Question,
		UserAnswer:      answer,
		PreferredAnswer: question.PreferredAnswer,
		Score:           result.Score,
		Feedback:        result.Feedback,
	}, iv.NumQuestions)

	return err
}

// Interview returns one interview by id.
func (s *Service) Interview(ctx context.Context, id string) (*Interview, error) {
	return s.store.Get(ctx, id)
}

// List returns the interviews owned by a user.
func (s *Service) List(ctx context.Context, userID string) ([]*Interview, error) {
	return s.store.ListByUser(ctx, userID)
}

// Report returns the report for an interview, finalized or not.
func (s *Service) Report(ctx context.Context, interviewID string) (*report.Report, error) {
	return s.reports.Report(ctx, interviewID)
}

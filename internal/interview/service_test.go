package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/prepedge/prepedge/internal/report"
)

type scriptedCompleter struct {
	// responses are consumed in call order; the last one repeats.
	responses []string
	err       error
	prompts   []string
}

func (s *scriptedCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	idx := len(s.prompts) - 1
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	return s.responses[idx], nil
}

type fakeInterviewStore struct {
	interviews map[string]*Interview
}

func newFakeInterviewStore() *fakeInterviewStore {
	return &fakeInterviewStore{interviews: make(map[string]*Interview)}
}

func (f *fakeInterviewStore) Save(_ context.Context, iv *Interview) error {
	f.interviews[iv.ID] = iv
	return nil
}

func (f *fakeInterviewStore) Get(_ context.Context, id string) (*Interview, error) {
	iv, ok := f.interviews[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return iv, nil
}

func (f *fakeInterviewStore) ListByUser(_ context.Context, userID string) ([]*Interview, error) {
	result := make([]*Interview, 0)
	for _, iv := range f.interviews {
		if iv.UserID == userID {
			result = append(result, iv)
		}
	}
	return result, nil
}

type fakeReportStore struct {
	reports map[string]*report.Report
}

func newFakeReportStore() *fakeReportStore {
	return &fakeReportStore{reports: make(map[string]*report.Report)}
}

func (f *fakeReportStore) FindOrCreate(_ context.Context, interviewID, userID string) (*report.Report, error) {
	if rep, ok := f.reports[interviewID]; ok {
		return rep, nil
	}
	return &report.Report{
		InterviewID: interviewID,
		UserID:      userID,
		Answers:     []report.GradedAnswer{},
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (f *fakeReportStore) Save(_ context.Context, rep *report.Report) error {
	f.reports[rep.InterviewID] = rep
	return nil
}

func (f *fakeReportStore) Get(_ context.Context, interviewID string) (*report.Report, error) {
	rep, ok := f.reports[interviewID]
	if !ok {
		return nil, errors.New("not found")
	}
	return rep, nil
}

func questionSetResponse(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "%d. Question number %d?\n   Preferred Answer: Answer number %d.\n\n", i, i, i)
	}
	return b.String()
}

func newTestService(completer *scriptedCompleter) (*Service, *fakeInterviewStore) {
	store := newFakeInterviewStore()
	grader := report.NewGrader(completer, zap.NewNop())
	reports := report.NewAccumulator(newFakeReportStore(), completer, zap.NewNop())
	return NewService(completer, store, grader, reports, zap.NewNop()), store
}

func validParams() SetupParams {
	return SetupParams{
		UserID:          "user-1",
		Name:            "backend screen",
		NumQuestions:    3,
		Type:            TypeTechnical,
		Role:            "Backend Engineer",
		ExperienceLevel: LevelMid,
	}
}

func TestServiceSetup(t *testing.T) {
	t.Parallel()

	completer := &scriptedCompleter{responses: []string{questionSetResponse(3)}}
	svc, store := newTestService(completer)

	iv, err := svc.Setup(context.Background(), validParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if iv.ID == "" {
		t.Fatalf("expected a generated interview id")
	}
	if len(iv.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(iv.Questions))
	}
	if iv.CreatedAt.IsZero() {
		t.Fatalf("expected a creation timestamp")
	}

	stored, err := store.Get(context.Background(), iv.ID)
	if err != nil {
		t.Fatalf("interview was not persisted: %v", err)
	}
	if stored.Role != "Backend Engineer" {
		t.Fatalf("unexpected stored role: %q", stored.Role)
	}

	if !strings.Contains(completer.prompts[0], "Backend Engineer") {
		t.Fatalf("role missing from generation prompt")
	}
}

func TestServiceSetupValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*SetupParams)
	}{
		{"missing user", func(p *SetupParams) { p.UserID = "" }},
		{"missing name", func(p *SetupParams) { p.Name = "" }},
		{"missing role", func(p *SetupParams) { p.Role = "" }},
		{"too few questions", func(p *SetupParams) { p.NumQuestions = 2 }},
		{"too many questions", func(p *SetupParams) { p.NumQuestions = 11 }},
		{"unknown type", func(p *SetupParams) { p.Type = "trivia" }},
		{"unknown level", func(p *SetupParams) { p.ExperienceLevel = "wizard" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			completer := &scriptedCompleter{responses: []string{questionSetResponse(3)}}
			svc, _ := newTestService(completer)

			params := validParams()
			tc.mutate(&params)

			_, err := svc.Setup(context.Background(), params)
			if !errors.Is(err, ErrInvalidParams) {
				t.Fatalf("expected a validation error, got %v", err)
			}
			if len(completer.prompts) != 0 {
				t.Fatalf("model must not be called on invalid params")
			}
		})
	}
}

func TestServiceSetupModelFailure(t *testing.T) {
	t.Parallel()

	completer := &scriptedCompleter{err: errors.New("api down")}
	svc, store := newTestService(completer)

	_, err := svc.Setup(context.Background(), validParams())

	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *GenerationError, got %v", err)
	}
	if len(store.interviews) != 0 {
		t.Fatalf("nothing may be persisted on a failed setup")
	}
}

func TestServiceSetupShortOutput(t *testing.T) {
	t.Parallel()

	completer := &scriptedCompleter{responses: []string{questionSetResponse(2)}}
	svc, store := newTestService(completer)

	_, err := svc.Setup(context.Background(), validParams())

	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *GenerationError, got %v", err)
	}
	if genErr.Got != 2 || genErr.Want != 3 {
		t.Fatalf("unexpected counts: got %d want %d", genErr.Got, genErr.Want)
	}
	if len(store.interviews) != 0 {
		t.Fatalf("nothing may be persisted on a failed setup")
	}
}

func TestServiceSubmitAnswerOutOfRange(t *testing.T) {
	t.Parallel()

	completer := &scriptedCompleter{responses: []string{questionSetResponse(3)}}
	svc, _ := newTestService(completer)

	iv, err := svc.Setup(context.Background(), validParams())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	for _, idx := range []int{-1, 3, 99} {
		err := svc.SubmitAnswer(context.Background(), iv.ID, idx, "answer")
		if !errors.Is(err, ErrQuestionOutOfRange) {
			t.Fatalf("expected out-of-range error for index %d, got %v", idx, err)
		}
	}
}

func TestServiceFullRun(t *testing.T) {
	t.Parallel()

	completer := &scriptedCompleter{responses: []string{
		questionSetResponse(3),
		"- Score: 80\n- Feedback: First feedback.",
		"- Score: 90\n- Feedback: Second feedback.",
		"- Score: 100\n- Feedback: Third feedback.",
		"**Overall Summary:** Strong showing.\n**Strengths:** Good pace.\n**Areas of Improvement:** More detail.",
	}}
	svc, _ := newTestService(completer)

	ctx := context.Background()

	iv, err := svc.Setup(ctx, validParams())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := svc.SubmitAnswer(ctx, iv.ID, i, "my answer"); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	rep, err := svc.Report(ctx, iv.ID)
	if err != nil {
		t.Fatalf("report: %v", err)
	}

	if !rep.Finalized() {
		t.Fatalf("expected a finalized report")
	}
	if rep.FinalScore != "90.00" {
		t.Fatalf("expected final score %q, got %q", "90.00", rep.FinalScore)
	}
	if rep.Summary != "Strong showing." {
		t.Fatalf("unexpected summary: %q", rep.Summary)
	}
	if len(rep.Answers) != 3 {
		t.Fatalf("expected 3 graded answers, got %d", len(rep.Answers))
	}
	if rep.Answers[0].PreferredAnswer == "" {
		t.Fatalf("graded answer should carry the preferred answer")
	}
}

func TestServiceGradingDegradesButRecords(t *testing.T) {
	t.Parallel()

	completer := &scriptedCompleter{responses: []string{
		questionSetResponse(3),
		"complete nonsense from the model",
	}}
	svc, _ := newTestService(completer)

	ctx := context.Background()

	iv, err := svc.Setup(ctx, validParams())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := svc.SubmitAnswer(ctx, iv.ID, 0, "my answer"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	rep, err := svc.Report(ctx, iv.ID)
	if err != nil {
		t.Fatalf("report: %v", err)
	}

	if len(rep.Answers) != 1 {
		t.Fatalf("expected the answer to be recorded, got %d", len(rep.Answers))
	}
	if rep.Answers[0].Score != 0 {
		t.Fatalf("expected score 0 for unparsable grading, got %d", rep.Answers[0].Score)
	}
	if rep.Answers[0].Feedback != "Analysis failed to provide feedback" {
		t.Fatalf("unexpected feedback: %q", rep.Answers[0].Feedback)
	}
	if rep.Finalized() {
		t.Fatalf("report must not be finalized after one of three answers")
	}
}
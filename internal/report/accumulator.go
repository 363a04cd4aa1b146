package report

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/prepedge/prepedge/internal/ai"
	"github.com/prepedge/prepedge/internal/logger"
	"github.com/prepedge/prepedge/internal/prompts"
)

// Store is the persistence contract the accumulator consumes. Implementations
// live in internal/store.
type Store interface {
	// FindOrCreate returns the report for the interview, creating an empty
	// in-progress one owned by userID when none exists yet. The created
	// report is not persisted until Save.
	FindOrCreate(ctx context.Context, interviewID, userID string) (*Report, error)
	Save(ctx context.Context, r *Report) error
	Get(ctx context.Context, interviewID string) (*Report, error)
}

// Accumulator appends graded answers to a report-in-progress and finalizes it
// when the expected answer count is reached.
//
// Mutations are serialized per interview id with a keyed mutex, so two answers
// submitted concurrently for the same interview cannot both observe the
// pre-finalization length. This is a deliberate strengthening over the
// unsynchronized read-modify-write the behavior was ported from.
type Accumulator struct {
	store     Store
	completer ai.Completer
	logger    *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewAccumulator(store Store, completer ai.Completer, log *zap.Logger) *Accumulator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Accumulator{
		store:     store,
		completer: completer,
		logger:    log,
		locks:     make(map[string]*sync.Mutex),
	}
}

// Append records one graded answer in submission order. When the answer list
// reaches expected, the report is finalized exactly once: mean score, combined
// feedback, narrative model call, section extraction. A finalized report is
// never reopened; late appends only grow the answer list.
func (a *Accumulator) Append(ctx context.Context, interviewID, userID string, ans GradedAnswer, expected int) (*Report, error) {
	lock := a.lockFor(interviewID)
	lock.Lock()
	defer lock.Unlock()

	rep, err := a.store.FindOrCreate(ctx, interviewID, userID)
	if err != nil {
		return nil, fmt.Errorf("find or create report: %w", err)
	}

	rep.Answers = append(rep.Answers, ans)

	if len(rep.Answers) == expected && !rep.Finalized() {
		if err := a.finalize(ctx, rep); err != nil {
			return nil, err
		}
	}

	if err := a.store.Save(ctx, rep); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	return rep, nil
}

// Report returns the stored report for the interview.
func (a *Accumulator) Report(ctx context.Context, interviewID string) (*Report, error) {
	return a.store.Get(ctx, interviewID)
}

func (a *Accumulator) finalize(ctx context.Context, rep *Report) error {
	total := 0
	feedback := make([]string, 0, len(rep.Answers))
	for _, ans := range rep.Answers {
		total += ans.Score
		feedback = append(feedback, ans.Feedback)
	}

	mean := float64(total) / float64(len(rep.Answers))
	combined := strings.Join(feedback, "\n")

	raw, err := a.completer.Complete(ctx, prompts.Narrative(combined))
	if err != nil {
		return fmt.Errorf("report narrative: %w", err)
	}

	sections := ExtractNarrative(raw)

	rep.FinalScore = fmt.Sprintf("%.2f", mean)
	rep.Summary = sections.Summary
	rep.Strengths = sections.Strengths
	rep.AreaOfImprovement = sections.AreaOfImprovement

	a.logger.Info("report finalized",
		zap.String(logger.FieldInterview, rep.InterviewID),
		zap.Int("answers", len(rep.Answers)),
		zap.String("final_score", rep.FinalScore),
	)

	return nil
}

// lockFor returns the mutex serializing mutations of one interview's report.
// Entries are kept for the process lifetime; the map stays small because it
// only holds interviews this instance has graded.
func (a *Accumulator) lockFor(interviewID string) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()

	lock, ok := a.locks[interviewID]
	if !ok {
		lock = &sync.Mutex{}
		a.locks[interviewID] = lock
	}
	return lock
}

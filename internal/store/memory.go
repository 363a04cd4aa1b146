package store

import (
	"context"
	"sync"
	"time"

	"github.com/prepedge/prepedge/internal/interview"
	"github.com/prepedge/prepedge/internal/report"
)

// Memory is a mutex-guarded map store. It backs tests and the terminal
// rehearsal mode, where nothing needs to outlive the process. The Interviews
// and Reports facets expose the two consumer-side store contracts over the
// same state.
type Memory struct {
	mu         sync.RWMutex
	interviews map[string]*interview.Interview
	reports    map[string]*report.Report
}

func NewMemory() *Memory {
	return &Memory{
		interviews: make(map[string]*interview.Interview),
		reports:    make(map[string]*report.Report),
	}
}

// Interviews returns the interview-store facet.
func (m *Memory) Interviews() interview.Store { return &memoryInterviews{m} }

// Reports returns the report-store facet.
func (m *Memory) Reports() report.Store { return &memoryReports{m} }

type memoryInterviews struct{ *Memory }

var _ interview.Store = (*memoryInterviews)(nil)

func (m *memoryInterviews) Save(_ context.Context, iv *interview.Interview) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.interviews[iv.ID] = cloneInterview(iv)
	return nil
}

func (m *memoryInterviews) Get(_ context.Context, id string) (*interview.Interview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	iv, ok := m.interviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneInterview(iv), nil
}

func (m *memoryInterviews) ListByUser(_ context.Context, userID string) ([]*interview.Interview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*interview.Interview, 0)
	for _, iv := range m.interviews {
		if iv.UserID == userID {
			result = append(result, cloneInterview(iv))
		}
	}
	return result, nil
}

type memoryReports struct{ *Memory }

var _ report.Store = (*memoryReports)(nil)

func (m *memoryReports) FindOrCreate(_ context.Context, interviewID, userID string) (*report.Report, error) {
	m.mu.RLock()
	rep, ok := m.reports[interviewID]
	m.mu.RUnlock()

	if ok {
		return cloneReport(rep), nil
	}

	return &report.Report{
		InterviewID: interviewID,
		UserID:      userID,
		Answers:     []report.GradedAnswer{},
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (m *memoryReports) Save(_ context.Context, rep *report.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reports[rep.InterviewID] = cloneReport(rep)
	return nil
}

func (m *memoryReports) Get(_ context.Context, interviewID string) (*report.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rep, ok := m.reports[interviewID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneReport(rep), nil
}

// Copies keep callers from mutating shared state through returned pointers.

func cloneInterview(iv *interview.Interview) *interview.Interview {
	clone := *iv
	clone.Questions = append([]interview.QuestionItem(nil), iv.Questions...)
	return &clone
}

func cloneReport(rep *report.Report) *report.Report {
	clone := *rep
	clone.Answers = append([]report.GradedAnswer(nil), rep.Answers...)
	return &clone
}

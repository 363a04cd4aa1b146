package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/prepedge/prepedge/internal/interview"
	"github.com/prepedge/prepedge/internal/report"
)

const (
	interviewsDir = "interviews"
	reportsDir    = "reports"
)

// File persists one JSON document per record under a data directory.
// Documents are read back as loose maps and decoded through mapstructure, so
// records written by older versions with extra fields still load.
type File struct {
	dir string
}

func NewFile(dir string) (*File, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("storage path is required for the file driver")
	}

	for _, sub := range []string{interviewsDir, reportsDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	return &File{dir: dir}, nil
}

// Interviews returns the interview-store facet.
func (f *File) Interviews() interview.Store { return &fileInterviews{f} }

// Reports returns the report-store facet.
func (f *File) Reports() report.Store { return &fileReports{f} }

type fileInterviews struct{ *File }

var _ interview.Store = (*fileInterviews)(nil)

func (f *fileInterviews) Save(_ context.Context, iv *interview.Interview) error {
	return f.writeDocument(interviewsDir, iv.ID, iv)
}

func (f *fileInterviews) Get(_ context.Context, id string) (*interview.Interview, error) {
	var iv interview.Interview
	if err := f.readDocument(interviewsDir, id, &iv); err != nil {
		return nil, err
	}
	return &iv, nil
}

func (f *fileInterviews) ListByUser(_ context.Context, userID string) ([]*interview.Interview, error) {
	entries, err := os.ReadDir(filepath.Join(f.dir, interviewsDir))
	if err != nil {
		return nil, fmt.Errorf("read storage directory: %w", err)
	}

	result := make([]*interview.Interview, 0)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		var iv interview.Interview
		id := strings.TrimSuffix(entry.Name(), ".json")
		if err := f.readDocument(interviewsDir, id, &iv); err != nil {
			return nil, err
		}
		if iv.UserID == userID {
			result = append(result, &iv)
		}
	}
	return result, nil
}

type fileReports struct{ *File }

var _ report.Store = (*fileReports)(nil)

func (f *fileReports) FindOrCreate(ctx context.Context, interviewID, userID string) (*report.Report, error) {
	rep, err := f.Get(ctx, interviewID)
	if err == nil {
		return rep, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	return &report.Report{
		InterviewID: interviewID,
		UserID:      userID,
		Answers:     []report.GradedAnswer{},
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (f *fileReports) Save(_ context.Context, rep *report.Report) error {
	return f.writeDocument(reportsDir, rep.InterviewID, rep)
}

func (f *fileReports) Get(_ context.Context, interviewID string) (*report.Report, error) {
	var rep report.Report
	if err := f.readDocument(reportsDir, interviewID, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

func (f *File) writeDocument(sub, id string, record any) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	path := f.documentPath(sub, id)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (f *File) readDocument(sub, id string, out any) error {
	path := f.documentPath(sub, id)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return decodeDocument(doc, out)
}

func (f *File) documentPath(sub, id string) string {
	return filepath.Join(f.dir, sub, id+".json")
}

// decodeDocument maps a loose JSON document onto a typed record, reusing the
// json tags and converting RFC3339 strings back into time.Time values.
func decodeDocument(doc map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		Result:     out,
		TagName:    "json",
	})
	if err != nil {
		return fmt.Errorf("build document decoder: %w", err)
	}

	if err := decoder.Decode(doc); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

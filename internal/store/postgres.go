package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prepedge/prepedge/internal/interview"
	"github.com/prepedge/prepedge/internal/report"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS interviews (
	id         text PRIMARY KEY,
	user_id    text NOT NULL,
	doc        jsonb NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS interviews_user_id_idx ON interviews (user_id);

CREATE TABLE IF NOT EXISTS reports (
	interview_id text PRIMARY KEY,
	user_id      text NOT NULL,
	doc          jsonb NOT NULL,
	created_at   timestamptz NOT NULL DEFAULT now()
);
`

// Postgres stores interviews and reports as JSONB documents keyed by id.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects a pool, verifies the connection and bootstraps the
// schema.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// Interviews returns the interview-store facet.
func (p *Postgres) Interviews() interview.Store { return &postgresInterviews{p} }

// Reports returns the report-store facet.
func (p *Postgres) Reports() report.Store { return &postgresReports{p} }

type postgresInterviews struct{ *Postgres }

var _ interview.Store = (*postgresInterviews)(nil)

func (p *postgresInterviews) Save(ctx context.Context, iv *interview.Interview) error {
	doc, err := json.Marshal(iv)
	if err != nil {
		return fmt.Errorf("marshal interview: %w", err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO interviews (id, user_id, doc, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET user_id = $2, doc = $3`,
		iv.ID, iv.UserID, doc, iv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save interview: %w", err)
	}
	return nil
}

func (p *postgresInterviews) Get(ctx context.Context, id string) (*interview.Interview, error) {
	var doc []byte
	err := p.pool.QueryRow(ctx, `SELECT doc FROM interviews WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load interview: %w", err)
	}

	var iv interview.Interview
	if err := json.Unmarshal(doc, &iv); err != nil {
		return nil, fmt.Errorf("unmarshal interview: %w", err)
	}
	return &iv, nil
}

func (p *postgresInterviews) ListByUser(ctx context.Context, userID string) ([]*interview.Interview, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT doc FROM interviews WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	defer rows.Close()

	result := make([]*interview.Interview, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan interview: %w", err)
		}

		var iv interview.Interview
		if err := json.Unmarshal(doc, &iv); err != nil {
			return nil, fmt.Errorf("unmarshal interview: %w", err)
		}
		result = append(result, &iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	return result, nil
}

type postgresReports struct{ *Postgres }

var _ report.Store = (*postgresReports)(nil)

func (p *postgresReports) FindOrCreate(ctx context.Context, interviewID, userID string) (*report.Report, error) {
	rep, err := p.Get(ctx, interviewID)
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

func (p *postgresReports) Save(ctx context.Context, rep *report.Report) error {
	doc, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO reports (interview_id, user_id, doc, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (interview_id) DO UPDATE SET user_id = $2, doc = $3`,
		rep.InterviewID, rep.UserID, doc, rep.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func (p *postgresReports) Get(ctx context.Context, interviewID string) (*report.Report, error) {
	var doc []byte
	err := p.pool.QueryRow(ctx, `SELECT doc FROM reports WHERE interview_id = $1`, interviewID).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load report: %w", err)
	}

	var rep report.Report
	if err := json.Unmarshal(doc, &rep); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &rep, nil
}

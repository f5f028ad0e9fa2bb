// Package postgres implements store.Store on a pgx connection pool.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taejunjeon/leadership/internal/analysis"
	"github.com/taejunjeon/leadership/internal/logging"
	"github.com/taejunjeon/leadership/internal/scoring"
	"github.com/taejunjeon/leadership/internal/store"
	"github.com/taejunjeon/leadership/internal/survey"
)

const schema = `
CREATE TABLE IF NOT EXISTS survey_submissions (
    id TEXT PRIMARY KEY,
    subject_id TEXT NOT NULL,
    identity TEXT NOT NULL,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    organization TEXT NOT NULL DEFAULT '',
    department TEXT NOT NULL DEFAULT '',
    job_position TEXT NOT NULL DEFAULT '',
    responses JSONB NOT NULL,
    completion_seconds INTEGER NOT NULL DEFAULT 0,
    content_hash TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_submissions_subject ON survey_submissions (subject_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_submissions_identity ON survey_submissions (identity, created_at DESC);

CREATE TABLE IF NOT EXISTS leadership_analyses (
    id TEXT PRIMARY KEY,
    subject_id TEXT NOT NULL,
    dimensions JSONB NOT NULL,
    style TEXT NOT NULL,
    risk TEXT NOT NULL,
    insights JSONB NOT NULL,
    organization TEXT NOT NULL DEFAULT '',
    department TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_subject ON leadership_analyses (subject_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_analyses_org ON leadership_analyses (organization, department, created_at DESC);
`

const (
	submissionColumns = "id, subject_id, identity, name, email, organization, department, job_position, responses, completion_seconds, content_hash, created_at"
	analysisColumns   = "id, subject_id, dimensions, style, risk, insights, organization, department, created_at"
)

// Store is a Postgres-backed store.Store.
type Store struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

var _ store.Store = (*Store)(nil)

// New wraps an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, logger: logging.NewComponentLogger("store.postgres")}
}

// Open dials dsn, pings and ensures the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s := New(pool)
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("postgres store not initialized")
	}
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func mapInsertErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return store.ErrDuplicate
	}
	return err
}

func (s *Store) SaveSubmission(ctx context.Context, rec survey.Record) error {
	responses, err := json.Marshal(rec.Responses)
	if err != nil {
		return fmt.Errorf("marshal responses: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
INSERT INTO survey_submissions (`+submissionColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		rec.ID, rec.SubjectID, rec.Identity, rec.Name, rec.Email, rec.Organization, rec.Department, rec.Position,
		responses, rec.CompletionSeconds, rec.ContentHash, rec.CreatedAt,
	)
	if err != nil {
		return mapInsertErr(err)
	}
	return nil
}

func (s *Store) FindRecentSubmissions(ctx context.Context, identity string, since time.Time) ([]survey.Summary, error) {
	rows, err := s.pool.Query(ctx, `
SELECT id, content_hash, created_at
FROM survey_submissions
WHERE identity = $1 AND created_at >= $2
ORDER BY created_at DESC`, identity, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []survey.Summary
	for rows.Next() {
		var sum survey.Summary
		if err := rows.Scan(&sum.ID, &sum.ContentHash, &sum.CreatedAt); err != nil {
			return nil, err
		}
		sum.CreatedAt = sum.CreatedAt.UTC()
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *Store) LatestSubmission(ctx context.Context, subjectID string) (survey.Record, error) {
	row := s.pool.QueryRow(ctx, `
SELECT `+submissionColumns+`
FROM survey_submissions
WHERE subject_id = $1
ORDER BY created_at DESC, id DESC
LIMIT 1`, subjectID)
	rec, err := scanSubmission(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return survey.Record{}, store.ErrNotFound
	}
	return rec, err
}

func (s *Store) ListSubmissions(ctx context.Context, subjectID string, limit int) ([]survey.Record, error) {
	rows, err := s.pool.Query(ctx, `
SELECT `+submissionColumns+`
FROM survey_submissions
WHERE subject_id = $1
ORDER BY created_at DESC, id DESC
LIMIT NULLIF($2, 0)`, subjectID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []survey.Record{}
	for rows.Next() {
		rec, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanSubmission(row pgx.Row) (survey.Record, error) {
	var (
		rec       survey.Record
		responses []byte
	)
	if err := row.Scan(&rec.ID, &rec.SubjectID, &rec.Identity, &rec.Name, &rec.Email, &rec.Organization,
		&rec.Department, &rec.Position, &responses, &rec.CompletionSeconds, &rec.ContentHash, &rec.CreatedAt); err != nil {
		return survey.Record{}, err
	}
	if err := json.Unmarshal(responses, &rec.Responses); err != nil {
		return survey.Record{}, fmt.Errorf("decode responses of %s: %w", rec.ID, err)
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, nil
}

func (s *Store) SubmissionStats(ctx context.Context) (survey.Stats, error) {
	var (
		stats survey.Stats
		avg   *float64
		last  *time.Time
	)
	err := s.pool.QueryRow(ctx, `
SELECT COUNT(*),
       AVG(completion_seconds) FILTER (WHERE completion_seconds > 0)::float8,
       MAX(created_at)
FROM survey_submissions`).Scan(&stats.TotalResponses, &avg, &last)
	if err != nil {
		return survey.Stats{}, err
	}
	if avg != nil {
		stats.AverageCompletionTime = *avg
	}
	if last != nil {
		at := last.UTC()
		stats.LastResponseAt = &at
	}
	return stats, nil
}

func (s *Store) SaveAnalysis(ctx context.Context, rec analysis.Record) error {
	dims, err := json.Marshal(rec.Dimensions)
	if err != nil {
		return fmt.Errorf("marshal dimensions: %w", err)
	}
	insights, err := json.Marshal(rec.Insights)
	if err != nil {
		return fmt.Errorf("marshal insights: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
INSERT INTO leadership_analyses (`+analysisColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.SubjectID, dims, string(rec.Style), string(rec.Risk), insights,
		rec.Organization, rec.Department, rec.CreatedAt,
	)
	if err != nil {
		return mapInsertErr(err)
	}
	return nil
}

func (s *Store) LatestAnalysis(ctx context.Context, subjectID string) (analysis.Record, error) {
	history, err := s.AnalysisHistory(ctx, subjectID, 1)
	if err != nil {
		return analysis.Record{}, err
	}
	if len(history) == 0 {
		return analysis.Record{}, store.ErrNotFound
	}
	return history[0], nil
}

func (s *Store) AnalysisHistory(ctx context.Context, subjectID string, limit int) ([]analysis.Record, error) {
	return s.queryAnalyses(ctx, `
SELECT `+analysisColumns+`
FROM leadership_analyses
WHERE subject_id = $1
ORDER BY created_at DESC, id DESC
LIMIT NULLIF($2, 0)`, subjectID, limit)
}

func (s *Store) OrgAnalyses(ctx context.Context, organization, department string) ([]analysis.Record, error) {
	return s.queryAnalyses(ctx, `
SELECT DISTINCT ON (subject_id) `+analysisColumns+`
FROM leadership_analyses
WHERE organization = $1 AND ($2 = '' OR department = $2)
ORDER BY subject_id, created_at DESC, id DESC`, organization, department)
}

func (s *Store) PeerStyles(ctx context.Context, excludeSubject string) (map[scoring.Style]int, error) {
	rows, err := s.pool.Query(ctx, `
SELECT style, COUNT(*)
FROM (
    SELECT DISTINCT ON (subject_id) subject_id, style
    FROM leadership_analyses
    WHERE subject_id <> $1
    ORDER BY subject_id, created_at DESC, id DESC
) latest
GROUP BY style`, excludeSubject)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[scoring.Style]int)
	for rows.Next() {
		var (
			style string
			n     int
		)
		if err := rows.Scan(&style, &n); err != nil {
			return nil, err
		}
		counts[scoring.Style(style)] = n
	}
	return counts, rows.Err()
}

func (s *Store) RecentSubjects(ctx context.Context, since time.Time) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
SELECT DISTINCT subject_id
FROM leadership_analyses
WHERE created_at >= $1
ORDER BY subject_id`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var subject string
		if err := rows.Scan(&subject); err != nil {
			return nil, err
		}
		out = append(out, subject)
	}
	return out, rows.Err()
}

func (s *Store) queryAnalyses(ctx context.Context, query string, args ...any) ([]analysis.Record, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []analysis.Record{}
	for rows.Next() {
		var (
			rec            analysis.Record
			dims, insights []byte
			style, risk    string
		)
		if err := rows.Scan(&rec.ID, &rec.SubjectID, &dims, &style, &risk, &insights,
			&rec.Organization, &rec.Department, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(dims, &rec.Dimensions); err != nil {
			s.logger.Warn("skipping analysis %s with unreadable dimensions: %v", rec.ID, err)
			continue
		}
		if err := json.Unmarshal(insights, &rec.Insights); err != nil {
			s.logger.Warn("skipping analysis %s with unreadable insights: %v", rec.ID, err)
			continue
		}
		rec.Style = scoring.Style(style)
		rec.Risk = scoring.RiskLevel(risk)
		rec.CreatedAt = rec.CreatedAt.UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	store.NewestFirst(out)
	return out, nil
}

// Package sqlstore implements store.Store on database/sql for SQLite
// (modernc.org/sqlite) and MySQL (go-sql-driver/mysql).
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/taejunjeon/leadership/internal/analysis"
	"github.com/taejunjeon/leadership/internal/logging"
	"github.com/taejunjeon/leadership/internal/scoring"
	"github.com/taejunjeon/leadership/internal/store"
	"github.com/taejunjeon/leadership/internal/survey"
)

const (
	submissionColumns = "id, subject_id, identity, name, email, organization, department, job_position, responses, completion_seconds, content_hash, created_at"
	analysisColumns   = "id, subject_id, dimensions, style, risk, insights, organization, department, created_at"
)

// Store is a database/sql backed store.Store.
type Store struct {
	db      *sql.DB
	dialect dialect
	logger  logging.Logger
}

var _ store.Store = (*Store)(nil)

// Open connects to driver/dsn and ensures the schema.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}
	dsn, err = normalizeDSN(driver, dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// One connection keeps :memory: databases shared and serialises writers.
		db.SetMaxOpenConns(1)
	}
	s := &Store{db: db, dialect: d, logger: logging.NewComponentLogger("store." + driver)}
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) wrapInsert(err error) error {
	if err == nil {
		return nil
	}
	if s.dialect.isDuplicate(err) {
		return store.ErrDuplicate
	}
	return err
}

func (s *Store) SaveSubmission(ctx context.Context, rec survey.Record) error {
	responses, err := json.Marshal(rec.Responses)
	if err != nil {
		return fmt.Errorf("marshal responses: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO survey_submissions ("+submissionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		rec.ID, rec.SubjectID, rec.Identity, rec.Name, rec.Email, rec.Organization, rec.Department, rec.Position,
		string(responses), rec.CompletionSeconds, rec.ContentHash, rec.CreatedAt.UnixNano(),
	)
	return s.wrapInsert(err)
}

func (s *Store) FindRecentSubmissions(ctx context.Context, identity string, since time.Time) ([]survey.Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, content_hash, created_at FROM survey_submissions WHERE identity = ? AND created_at >= ? ORDER BY created_at DESC",
		identity, since.UnixNano())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []survey.Summary
	for rows.Next() {
		var (
			sum survey.Summary
			at  int64
		)
		if err := rows.Scan(&sum.ID, &sum.ContentHash, &at); err != nil {
			return nil, err
		}
		sum.CreatedAt = fromNanos(at)
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *Store) LatestSubmission(ctx context.Context, subjectID string) (survey.Record, error) {
	list, err := s.ListSubmissions(ctx, subjectID, 1)
	if err != nil {
		return survey.Record{}, err
	}
	if len(list) == 0 {
		return survey.Record{}, store.ErrNotFound
	}
	return list[0], nil
}

func (s *Store) ListSubmissions(ctx context.Context, subjectID string, limit int) ([]survey.Record, error) {
	query := "SELECT " + submissionColumns + " FROM survey_submissions WHERE subject_id = ? ORDER BY created_at DESC, id DESC"
	args := []any{subjectID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []survey.Record{}
	for rows.Next() {
		var (
			rec       survey.Record
			responses string
			at        int64
		)
		if err := rows.Scan(&rec.ID, &rec.SubjectID, &rec.Identity, &rec.Name, &rec.Email, &rec.Organization,
			&rec.Department, &rec.Position, &responses, &rec.CompletionSeconds, &rec.ContentHash, &at); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(responses), &rec.Responses); err != nil {
			return nil, fmt.Errorf("decode responses of %s: %w", rec.ID, err)
		}
		rec.CreatedAt = fromNanos(at)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) SubmissionStats(ctx context.Context) (survey.Stats, error) {
	var (
		stats survey.Stats
		avg   sql.NullFloat64
		last  sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `SELECT
    COUNT(*),
    AVG(CASE WHEN completion_seconds > 0 THEN completion_seconds END),
    MAX(created_at)
FROM survey_submissions`).Scan(&stats.TotalResponses, &avg, &last)
	if err != nil {
		return survey.Stats{}, err
	}
	if avg.Valid {
		stats.AverageCompletionTime = avg.Float64
	}
	if last.Valid {
		at := fromNanos(last.Int64)
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
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO leadership_analyses ("+analysisColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		rec.ID, rec.SubjectID, string(dims), string(rec.Style), string(rec.Risk), string(insights),
		rec.Organization, rec.Department, rec.CreatedAt.UnixNano(),
	)
	return s.wrapInsert(err)
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
	query := "SELECT " + analysisColumns + " FROM leadership_analyses WHERE subject_id = ? ORDER BY created_at DESC, id DESC"
	args := []any{subjectID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return s.queryAnalyses(ctx, query, args...)
}

func (s *Store) OrgAnalyses(ctx context.Context, organization, department string) ([]analysis.Record, error) {
	var conds []string
	args := []any{organization}
	conds = append(conds, "organization = ?")
	if department != "" {
		conds = append(conds, "department = ?")
		args = append(args, department)
	}
	query := "SELECT " + analysisColumns + " FROM leadership_analyses WHERE " + strings.Join(conds, " AND ") +
		" ORDER BY created_at DESC, id DESC"
	all, err := s.queryAnalyses(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return store.LatestPerSubject(all), nil
}

func (s *Store) PeerStyles(ctx context.Context, excludeSubject string) (map[scoring.Style]int, error) {
	all, err := s.queryAnalyses(ctx, "SELECT "+analysisColumns+" FROM leadership_analyses ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	return store.CountStyles(store.LatestPerSubject(all), excludeSubject), nil
}

func (s *Store) RecentSubjects(ctx context.Context, since time.Time) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT subject_id FROM leadership_analyses WHERE created_at >= ?", since.UnixNano())
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
	sort.Strings(out)
	return out, rows.Err()
}

func (s *Store) queryAnalyses(ctx context.Context, query string, args ...any) ([]analysis.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []analysis.Record{}
	for rows.Next() {
		var (
			rec            analysis.Record
			dims, insights string
			style, risk    string
			at             int64
		)
		if err := rows.Scan(&rec.ID, &rec.SubjectID, &dims, &style, &risk, &insights,
			&rec.Organization, &rec.Department, &at); err != nil {
			return nil, err
		}
		if err := decodeAnalysis(&rec, dims, insights); err != nil {
			s.logger.Warn("skipping unreadable analysis %s: %v", rec.ID, err)
			continue
		}
		rec.Style = scoring.Style(style)
		rec.Risk = scoring.RiskLevel(risk)
		rec.CreatedAt = fromNanos(at)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func decodeAnalysis(rec *analysis.Record, dims, insights string) error {
	if err := json.Unmarshal([]byte(dims), &rec.Dimensions); err != nil {
		return errors.Join(errors.New("dimensions"), err)
	}
	if err := json.Unmarshal([]byte(insights), &rec.Insights); err != nil {
		return errors.Join(errors.New("insights"), err)
	}
	return nil
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

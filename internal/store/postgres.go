// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/lib/pq"

	"rekonet-workers/internal/models"
	"rekonet-workers/internal/readiness"
)

const (
	defaultAttemptLimit = 3
	maxAttemptLimit     = 10
	topSectorCount      = 2
)

// PostgresStore implements AssessmentStore, ProfileStore, SignalStore and
// RoleCatalog over the tables created by Schema.
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

func (s *PostgresStore) CreateAssessment(ctx context.Context, a *models.Assessment) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now().UTC()
	}
	query := `INSERT INTO assessments (id, user_id, language, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := s.db.ExecContext(ctx, query, a.ID, nullString(a.UserID), a.Language, a.CreatedAt); err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetAssessment(ctx context.Context, id string) (*models.Assessment, error) {
	var a models.Assessment
	var userID sql.NullString
	query := `SELECT id, user_id, language, created_at FROM assessments WHERE id = $1`
	err := s.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &userID, &a.Language, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get assessment: %w", err)
	}
	a.UserID = userID.String
	return &a, nil
}

func (s *PostgresStore) SetLanguage(ctx context.Context, id, lang string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE assessments SET language = $2 WHERE id = $1`, id, lang)
	if err != nil {
		return fmt.Errorf("set language: %w", err)
	}
	return requireRow(res)
}

// SaveAnswer upserts on (assessment_id, question_id), so re-answering a
// question replaces the earlier score.
func (s *PostgresStore) SaveAnswer(ctx context.Context, a *models.Answer) error {
	if a.AnsweredAt.IsZero() {
		a.AnsweredAt = s.now().UTC()
	}
	query := `
		INSERT INTO assessment_answers (assessment_id, question_id, category, score, answered_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (assessment_id, question_id)
		DO UPDATE SET category = EXCLUDED.category, score = EXCLUDED.score, answered_at = EXCLUDED.answered_at`
	if _, err := s.db.ExecContext(ctx, query, a.AssessmentID, a.QuestionID, a.Category, a.Score, a.AnsweredAt); err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("save answer: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAnswers(ctx context.Context, assessmentID string) ([]models.Answer, error) {
	query := `
		SELECT assessment_id, question_id, category, score, answered_at
		FROM assessment_answers
		WHERE assessment_id = $1
		ORDER BY question_id`
	rows, err := s.db.QueryContext(ctx, query, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	answers := []models.Answer{}
	for rows.Next() {
		var a models.Answer
		if err := rows.Scan(&a.AssessmentID, &a.QuestionID, &a.Category, &a.Score, &a.AnsweredAt); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func (s *PostgresStore) SaveAvailability(ctx context.Context, a *models.Availability) error {
	a.UpdatedAt = s.now().UTC()
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode availability: %w", err)
	}
	query := `
		INSERT INTO availability (assessment_id, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (assessment_id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
	if _, err := s.db.ExecContext(ctx, query, a.AssessmentID, data, a.UpdatedAt); err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("save availability: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetAvailability(ctx context.Context, assessmentID string) (*models.Availability, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM availability WHERE assessment_id = $1`, assessmentID).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get availability: %w", err)
	}
	var a models.Availability
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode availability: %w", err)
	}
	a.AssessmentID = assessmentID
	return &a, nil
}

// LatestCVSummary returns the newest parsed CV. A user without an upload
// gets a summary with HasCV false rather than an error.
func (s *PostgresStore) LatestCVSummary(ctx context.Context, assessmentID string) (*models.CVSummary, error) {
	var (
		keywords []string
		sectors  []byte
		score    sql.NullFloat64
		uploaded time.Time
	)
	query := `
		SELECT keywords, sector_scores, ats_score, uploaded_at
		FROM cv_documents
		WHERE assessment_id = $1
		ORDER BY uploaded_at DESC
		LIMIT 1`
	err := s.db.QueryRowContext(ctx, query, assessmentID).Scan(pq.Array(&keywords), &sectors, &score, &uploaded)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.CVSummary{Keywords: []string{}, TopSectors: []string{}}, nil
		}
		return nil, fmt.Errorf("latest cv: %w", err)
	}

	sum := &models.CVSummary{
		HasCV:        true,
		Keywords:     keywords,
		SectorScores: map[string]float64{},
		Score:        score.Float64,
		UploadedAt:   uploaded,
	}
	if sum.Keywords == nil {
		sum.Keywords = []string{}
	}
	if len(sectors) > 0 {
		if err := json.Unmarshal(sectors, &sum.SectorScores); err != nil {
			return nil, fmt.Errorf("decode sector scores: %w", err)
		}
	}
	sum.TopSectors = TopSectors(sum.SectorScores, topSectorCount)
	return sum, nil
}

// TopSectors returns up to n sector names by descending score, ties by name.
func TopSectors(scores map[string]float64, n int) []string {
	names := make([]string, 0, len(scores))
	for k := range scores {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		if scores[names[i]] != scores[names[j]] {
			return scores[names[i]] > scores[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}

func (s *PostgresStore) ListExperience(ctx context.Context, assessmentID string) ([]readiness.ExperienceEvidence, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT domain, months FROM experience_evidence WHERE assessment_id = $1 ORDER BY domain`, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("list experience: %w", err)
	}
	defer rows.Close()

	out := []readiness.ExperienceEvidence{}
	for rows.Next() {
		var e readiness.ExperienceEvidence
		if err := rows.Scan(&e.Domain, &e.Months); err != nil {
			return nil, fmt.Errorf("scan experience: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListVerifiedCertificateProviders(ctx context.Context, assessmentID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT provider FROM certificates WHERE assessment_id = $1 AND verified ORDER BY provider`, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan certificate: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) RecordInterviewAttempt(ctx context.Context, a *models.InterviewAttempt) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now().UTC()
	}
	query := `
		INSERT INTO interview_attempts (id, assessment_id, question_id, answer, score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := s.db.ExecContext(ctx, query, a.ID, a.AssessmentID, a.QuestionID, a.Answer, a.Score, a.CreatedAt); err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}

// RecentInterviewAttempts returns the newest attempts first. limit is
// clamped to 1..10 and defaults to 3.
func (s *PostgresStore) RecentInterviewAttempts(ctx context.Context, assessmentID string, limit int) ([]models.InterviewAttempt, error) {
	limit = ClampAttemptLimit(limit)
	query := `
		SELECT id, assessment_id, question_id, score, created_at
		FROM interview_attempts
		WHERE assessment_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := s.db.QueryContext(ctx, query, assessmentID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent attempts: %w", err)
	}
	defer rows.Close()

	out := []models.InterviewAttempt{}
	for rows.Next() {
		var a models.InterviewAttempt
		if err := rows.Scan(&a.ID, &a.AssessmentID, &a.QuestionID, &a.Score, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func ClampAttemptLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultAttemptLimit
	case limit > maxAttemptLimit:
		return maxAttemptLimit
	}
	return limit
}

func (s *PostgresStore) CountCompletedActivities(ctx context.Context, assessmentID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT activity_id) FROM activity_completions WHERE assessment_id = $1`, assessmentID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count activities: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) LatestCVScore(ctx context.Context, assessmentID string) (float64, error) {
	return s.latestScore(ctx,
		`SELECT ats_score FROM cv_documents WHERE assessment_id = $1 AND ats_score IS NOT NULL ORDER BY uploaded_at DESC LIMIT 1`,
		assessmentID)
}

// InterviewSessionScore sums the latest attempt at each practice question.
func (s *PostgresStore) InterviewSessionScore(ctx context.Context, assessmentID string) (float64, error) {
	var total sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT SUM(score) FROM (
			SELECT DISTINCT ON (question_id) score
			FROM interview_attempts
			WHERE assessment_id = $1
			ORDER BY question_id, created_at DESC
		) latest`, assessmentID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("interview session score: %w", err)
	}
	if !total.Valid {
		return 0, ErrNotFound
	}
	return total.Float64, nil
}

func (s *PostgresStore) latestScore(ctx context.Context, query, assessmentID string) (float64, error) {
	var v float64
	if err := s.db.QueryRowContext(ctx, query, assessmentID).Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("latest score: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) ListRoles(ctx context.Context) ([]readiness.RoleProfile, error) {
	query := `
		SELECT title, min_overall_level, min_interview_score, must_have_keywords,
		       requires_certificate, preferred_cert_providers
		FROM role_profiles
		WHERE active
		ORDER BY sort_order, title`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	out := []readiness.RoleProfile{}
	for rows.Next() {
		var (
			p        readiness.RoleProfile
			minScore sql.NullFloat64
		)
		if err := rows.Scan(&p.Title, &p.MinOverallLevel, &minScore, pq.Array(&p.MustHaveKeywords),
			&p.RequiresCertificate, pq.Array(&p.PreferredCertProviders)); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		if minScore.Valid {
			v := minScore.Float64
			p.MinInterviewScore = &v
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpsertRoles replaces the catalog rows in one transaction, keeping the
// given order.
func (s *PostgresStore) UpsertRoles(ctx context.Context, roles []readiness.RoleProfile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `UPDATE role_profiles SET active = false`); err != nil {
		return fmt.Errorf("deactivate roles: %w", err)
	}
	query := `
		INSERT INTO role_profiles (title, min_overall_level, min_interview_score, must_have_keywords,
		                           requires_certificate, preferred_cert_providers, sort_order, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true)
		ON CONFLICT (title) DO UPDATE SET
			min_overall_level = EXCLUDED.min_overall_level,
			min_interview_score = EXCLUDED.min_interview_score,
			must_have_keywords = EXCLUDED.must_have_keywords,
			requires_certificate = EXCLUDED.requires_certificate,
			preferred_cert_providers = EXCLUDED.preferred_cert_providers,
			sort_order = EXCLUDED.sort_order,
			active = true`
	for i, r := range roles {
		var minScore interface{}
		if r.MinInterviewScore != nil {
			minScore = *r.MinInterviewScore
		}
		if _, err := tx.ExecContext(ctx, query, r.Title, r.MinOverallLevel, minScore,
			pq.Array(r.MustHaveKeywords), r.RequiresCertificate, pq.Array(r.PreferredCertProviders), i); err != nil {
			return fmt.Errorf("upsert role %q: %w", r.Title, err)
		}
	}
	return tx.Commit()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// foreignKeyViolation is the SQLSTATE for a row pointing at a missing
// assessment.
const foreignKeyViolation = "23503"

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rekonet-workers/internal/models"
)

var fixedNow = time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewPostgresStore(db)
	s.now = func() time.Time { return fixedNow }
	return s, mock
}

func TestPostgresStore_CreateAndGetAssessment(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectExec(`INSERT INTO assessments \(id, user_id, language, created_at\)`).
		WithArgs("a-1", sql.NullString{}, "en", fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))

	a := &models.Assessment{ID: "a-1", Language: "en"}
	require.NoError(t, s.CreateAssessment(ctx, a))
	assert.Equal(t, fixedNow, a.CreatedAt)

	mock.ExpectQuery(`SELECT id, user_id, language, created_at FROM assessments WHERE id = \$1`).
		WithArgs("a-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "language", "created_at"}).
			AddRow("a-1", "user-9", "fr", fixedNow))

	got, err := s.GetAssessment(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, &models.Assessment{ID: "a-1", UserID: "user-9", Language: "fr", CreatedAt: fixedNow}, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetAssessment_NotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT id, user_id, language, created_at FROM assessments`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetAssessment(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStore_SetLanguage(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectExec(`UPDATE assessments SET language = \$2 WHERE id = \$1`).
		WithArgs("a-1", "ar").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE assessments SET language`).
		WithArgs("nope", "ar").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.SetLanguage(ctx, "a-1", "ar"))
	assert.ErrorIs(t, s.SetLanguage(ctx, "nope", "ar"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveAnswerUpserts(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO assessment_answers .* ON CONFLICT \(assessment_id, question_id\)`).
		WithArgs("a-1", "cv-1", "cv", 4, fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.SaveAnswer(context.Background(), &models.Answer{AssessmentID: "a-1", QuestionID: "cv-1", Category: "cv", Score: 4})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveAnswerUnknownAssessment(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO assessment_answers`).
		WillReturnError(&pq.Error{Code: "23503", Message: "violates foreign key constraint"})

	err := s.SaveAnswer(context.Background(), &models.Answer{AssessmentID: "missing", QuestionID: "cv-1", Category: "cv", Score: 2})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStore_ListAnswers(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"assessment_id", "question_id", "category", "score", "answered_at"}).
		AddRow("a-1", "cv-1", "cv", 3, fixedNow).
		AddRow("a-1", "int-1", "interview", 5, fixedNow)
	mock.ExpectQuery(`SELECT assessment_id, question_id, category, score, answered_at\s+FROM assessment_answers`).
		WithArgs("a-1").
		WillReturnRows(rows)

	got, err := s.ListAnswers(context.Background(), "a-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "interview", got[1].Category)
	assert.Equal(t, 5, got[1].Score)
}

func TestPostgresStore_ListAnswers_QueryError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`FROM assessment_answers`).WillReturnError(errors.New("connection reset"))

	_, err := s.ListAnswers(context.Background(), "a-1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestPostgresStore_Availability(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectExec(`INSERT INTO availability .* ON CONFLICT \(assessment_id\)`).
		WithArgs("a-1", sqlmock.AnyArg(), fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))

	in := &models.Availability{
		AssessmentID:  "a-1",
		Days:          models.Days{Sat: true},
		Contract:      "part_time",
		TravelMinutes: 20,
	}
	require.NoError(t, s.SaveAvailability(ctx, in))

	mock.ExpectQuery(`SELECT data FROM availability WHERE assessment_id = \$1`).
		WithArgs("a-1").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).
			AddRow([]byte(`{"days":{"sat":true},"times":{"evening":true},"contract":"part_time","travelMinutes":20}`)))

	got, err := s.GetAvailability(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, "a-1", got.AssessmentID)
	assert.True(t, got.Days.Sat)
	assert.True(t, got.Times.Evening)
	assert.Equal(t, 20, got.TravelMinutes)

	mock.ExpectQuery(`SELECT data FROM availability`).WithArgs("none").WillReturnError(sql.ErrNoRows)
	_, err = s.GetAvailability(ctx, "none")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStore_LatestCVSummary(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT keywords, sector_scores, ats_score, uploaded_at\s+FROM cv_documents`).
		WithArgs("a-1").
		WillReturnRows(sqlmock.NewRows([]string{"keywords", "sector_scores", "ats_score", "uploaded_at"}).
			AddRow("{crm,\"customer service\"}", []byte(`{"retail":0.4,"hospitality":0.9,"care":0.7}`), 72.5, fixedNow))

	got, err := s.LatestCVSummary(ctx, "a-1")
	require.NoError(t, err)
	assert.True(t, got.HasCV)
	assert.Equal(t, []string{"crm", "customer service"}, got.Keywords)
	assert.Equal(t, []string{"hospitality", "care"}, got.TopSectors)
	assert.Equal(t, 72.5, got.Score)

	mock.ExpectQuery(`FROM cv_documents`).WithArgs("a-2").WillReturnError(sql.ErrNoRows)
	empty, err := s.LatestCVSummary(ctx, "a-2")
	require.NoError(t, err)
	assert.False(t, empty.HasCV)
	assert.NotNil(t, empty.Keywords)
	assert.NotNil(t, empty.TopSectors)
}

func TestTopSectors(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, TopSectors(map[string]float64{"b": 1, "a": 1, "c": 0.5}, 2))
	assert.Equal(t, []string{"only"}, TopSectors(map[string]float64{"only": 3}, 2))
	assert.Empty(t, TopSectors(nil, 2))
}

func TestPostgresStore_ExperienceAndCertificates(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT domain, months FROM experience_evidence`).
		WithArgs("a-1").
		WillReturnRows(sqlmock.NewRows([]string{"domain", "months"}).AddRow("care", 14).AddRow("retail", 24))
	exp, err := s.ListExperience(ctx, "a-1")
	require.NoError(t, err)
	assert.Len(t, exp, 2)
	assert.Equal(t, 24, exp[1].Months)

	mock.ExpectQuery(`SELECT DISTINCT provider FROM certificates WHERE assessment_id = \$1 AND verified`).
		WithArgs("a-1").
		WillReturnRows(sqlmock.NewRows([]string{"provider"}).AddRow("NCFE").AddRow("RTITB"))
	certs, err := s.ListVerifiedCertificateProviders(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"NCFE", "RTITB"}, certs)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InterviewAttempts(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectExec(`INSERT INTO interview_attempts`).
		WithArgs("att-1", "a-1", "int-star-1", "I led a team", 14.0, fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, s.RecordInterviewAttempt(ctx, &models.InterviewAttempt{
		ID: "att-1", AssessmentID: "a-1", QuestionID: "int-star-1", Answer: "I led a team", Score: 14,
	}))

	mock.ExpectQuery(`FROM interview_attempts\s+WHERE assessment_id = \$1\s+ORDER BY created_at DESC\s+LIMIT \$2`).
		WithArgs("a-1", 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "assessment_id", "question_id", "score", "created_at"}).
			AddRow("att-1", "a-1", "int-star-1", 14.0, fixedNow))
	got, err := s.RecentInterviewAttempts(ctx, "a-1", 50)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 14.0, got[0].Score)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClampAttemptLimit(t *testing.T) {
	assert.Equal(t, 3, ClampAttemptLimit(0))
	assert.Equal(t, 3, ClampAttemptLimit(-4))
	assert.Equal(t, 1, ClampAttemptLimit(1))
	assert.Equal(t, 7, ClampAttemptLimit(7))
	assert.Equal(t, 10, ClampAttemptLimit(11))
}

func TestPostgresStore_SignalQueries(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT activity_id\) FROM activity_completions`).
		WithArgs("a-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	n, err := s.CountCompletedActivities(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	mock.ExpectQuery(`SELECT ats_score FROM cv_documents`).
		WithArgs("a-1").
		WillReturnError(sql.ErrNoRows)
	_, err = s.LatestCVScore(ctx, "a-1")
	assert.ErrorIs(t, err, ErrNotFound)

	mock.ExpectQuery(`SELECT SUM\(score\) FROM \(\s*SELECT DISTINCT ON \(question_id\) score`).
		WithArgs("a-1").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(18.0))
	v, err := s.InterviewSessionScore(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, 18.0, v)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InterviewSessionScore(t *testing.T) {
	tests := []struct {
		name    string
		rows    *sqlmock.Rows
		err     error
		want    float64
		wantErr error
	}{
		{
			name: "latest attempt per question summed",
			rows: sqlmock.NewRows([]string{"sum"}).AddRow(14.0),
			want: 14,
		},
		{
			name:    "no attempts yet",
			rows:    sqlmock.NewRows([]string{"sum"}).AddRow(nil),
			wantErr: ErrNotFound,
		},
		{
			name:    "query fails",
			err:     context.DeadlineExceeded,
			wantErr: context.DeadlineExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			q := mock.ExpectQuery(`ORDER BY question_id, created_at DESC`).WithArgs("a-1")
			if tt.err != nil {
				q.WillReturnError(tt.err)
			} else {
				q.WillReturnRows(tt.rows)
			}

			got, err := s.InterviewSessionScore(context.Background(), "a-1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresStore_ListRoles(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{
		"title", "min_overall_level", "min_interview_score", "must_have_keywords",
		"requires_certificate", "preferred_cert_providers",
	}).
		AddRow("Retail Assistant", "L2", nil, "{}", false, "{}").
		AddRow("Forklift Driver", "L1", 9.0, "{forklift}", true, "{RTITB}")
	mock.ExpectQuery(`FROM role_profiles\s+WHERE active`).WillReturnRows(rows)

	got, err := s.ListRoles(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Nil(t, got[0].MinInterviewScore)
	require.NotNil(t, got[1].MinInterviewScore)
	assert.Equal(t, 9.0, *got[1].MinInterviewScore)
	assert.Equal(t, []string{"forklift"}, got[1].MustHaveKeywords)
	assert.Equal(t, []string{"RTITB"}, got[1].PreferredCertProviders)
	assert.True(t, got[1].RequiresCertificate)
}

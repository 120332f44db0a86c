// internal/workers/assessment/create-assessment/handler_test.go
package createassessment

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rekonet-workers/internal/common/errors"
	"rekonet-workers/internal/common/logger"
	"rekonet-workers/internal/locale"
	"rekonet-workers/internal/store"
)

func createTestConfig() *Config {
	return LoadConfig()
}

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := NewHandler(createTestConfig(), store.NewPostgresStore(db), locale.MustNew(), logger.NewTestLogger(t))
	h.newID = func() string { return "11111111-2222-3333-4444-555555555555" }
	return h, mock
}

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name           string
		input          *Input
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name:  "defaults to english",
			input: &Input{UserID: "user-1"},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, "en", output.Language)
				assert.Equal(t, "ltr", output.Direction)
				require.Len(t, output.Questions, 8)
				assert.Equal(t, "cv-1", output.Questions[0].ID)
				assert.Equal(t, "cv", output.Questions[0].Category)
				assert.Contains(t, output.Questions[0].Text, "CV")
				require.Len(t, output.Scale, 5)
				assert.Equal(t, ScaleOption{Value: 1, Label: "Not yet"}, output.Scale[0])
				assert.Equal(t, ScaleOption{Value: 5, Label: "Always"}, output.Scale[4])
			},
		},
		{
			name:  "regional tag is canonicalised",
			input: &Input{Language: "fr-CA"},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, "fr", output.Language)
			},
		},
		{
			name:  "arabic is right to left",
			input: &Input{Language: "ar"},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, "rtl", output.Direction)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock := newTestHandler(t)
			mock.ExpectExec("INSERT INTO assessments").
				WithArgs("11111111-2222-3333-4444-555555555555", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(1, 1))

			output, err := h.Execute(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, "11111111-2222-3333-4444-555555555555", output.AssessmentID)
			tt.validateOutput(t, output)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_UnsupportedLanguage(t *testing.T) {
	h, mock := newTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{Language: "de"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
	assert.Equal(t, errors.ErrCodeUnsupportedLanguage, h.mapError(err, &Input{Language: "de"}).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_InsertFailure(t *testing.T) {
	h, mock := newTestHandler(t)
	mock.ExpectExec("INSERT INTO assessments").WillReturnError(stderrors.New("connection reset"))

	_, err := h.Execute(context.Background(), &Input{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsertFailed)

	stdErr := h.mapError(err, &Input{})
	assert.Equal(t, errors.ErrCodeDatabaseInsertFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

// internal/workers/profile/save-availability/handler_test.go
package saveavailability

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rekonet-workers/internal/common/errors"
	"rekonet-workers/internal/common/logger"
	"rekonet-workers/internal/store"
)

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewHandler(LoadConfig(), store.NewPostgresStore(db), logger.NewTestLogger(t)), mock
}

func createTestInput(availability string) *Input {
	return &Input{AssessmentID: "a-1", Availability: json.RawMessage(availability)}
}

func TestHandler_Execute_Success(t *testing.T) {
	h, mock := newTestHandler(t)
	mock.ExpectExec(`INSERT INTO availability .* ON CONFLICT \(assessment_id\)`).
		WithArgs("a-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	output, err := h.Execute(context.Background(), createTestInput(`{
		"days": {"mon": true, "wed": true, "sat": true},
		"times": {"evening": true},
		"contract": "part_time",
		"travelMinutes": 25,
		"startDate": "2026-11-02"
	}`))
	require.NoError(t, err)

	assert.True(t, output.Saved)
	assert.Equal(t, []string{"mon", "wed", "sat"}, output.Days)
	assert.Equal(t, "part_time", output.Availability.Contract)
	assert.Equal(t, 25, output.Availability.TravelMinutes)
	assert.True(t, output.Availability.Times.Evening)
	assert.Equal(t, "a-1", output.Availability.AssessmentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		input       *Input
		expectField string
	}{
		{
			name:  "missing availability",
			input: &Input{AssessmentID: "a-1"},
		},
		{
			name:        "unknown contract",
			input:       createTestInput(`{"contract": "zero_hours"}`),
			expectField: "contract",
		},
		{
			name:        "travel too long",
			input:       createTestInput(`{"contract": "any", "travelMinutes": 600}`),
			expectField: "travelMinutes",
		},
		{
			name:        "unknown day",
			input:       createTestInput(`{"contract": "any", "days": {"funday": true}}`),
			expectField: "days",
		},
		{
			name:  "impossible start date",
			input: createTestInput(`{"contract": "any", "startDate": "2026-13-45"}`),
		},
		{
			name:  "missing assessment id",
			input: &Input{Availability: json.RawMessage(`{"contract": "any"}`)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock := newTestHandler(t)

			_, err := h.Execute(context.Background(), tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidAvailability)

			stdErr := h.mapError(err, tt.input)
			assert.Equal(t, errors.ErrCodeInvalidAvailability, stdErr.Code)
			assert.False(t, stdErr.Retryable)
			if tt.expectField != "" {
				fields, ok := stdErr.Metadata["fieldErrors"].(FieldErrors)
				require.True(t, ok)
				require.NotEmpty(t, fields)
				assert.Contains(t, fields[0].Field, tt.expectField)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_StoreErrors(t *testing.T) {
	tests := []struct {
		name         string
		dbErr        error
		expectedCode errors.ErrorCode
	}{
		{
			name:         "assessment missing",
			dbErr:        &pq.Error{Code: "23503"},
			expectedCode: errors.ErrCodeAssessmentNotFound,
		},
		{
			name:         "database unavailable",
			dbErr:        stderrors.New("driver: bad connection"),
			expectedCode: errors.ErrCodeDatabaseInsertFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock := newTestHandler(t)
			mock.ExpectExec("INSERT INTO availability").WillReturnError(tt.dbErr)

			input := createTestInput(`{"contract": "weekends", "days": {"sat": true, "sun": true}}`)
			_, err := h.Execute(context.Background(), input)
			require.Error(t, err)
			assert.Equal(t, tt.expectedCode, h.mapError(err, input).Code)
		})
	}
}

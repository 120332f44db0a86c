// internal/workers/assessment/record-answer/handler_test.go
package recordanswer

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rekonet-workers/internal/common/errors"
	"rekonet-workers/internal/common/logger"
	"rekonet-workers/internal/models"
	"rekonet-workers/internal/store"
)

type MockStore struct {
	SaveAnswerFunc  func(ctx context.Context, a *models.Answer) error
	ListAnswersFunc func(ctx context.Context, assessmentID string) ([]models.Answer, error)
	saved           []*models.Answer
}

func (m *MockStore) SaveAnswer(ctx context.Context, a *models.Answer) error {
	m.saved = append(m.saved, a)
	if m.SaveAnswerFunc != nil {
		return m.SaveAnswerFunc(ctx, a)
	}
	return nil
}

func (m *MockStore) ListAnswers(ctx context.Context, assessmentID string) ([]models.Answer, error) {
	if m.ListAnswersFunc != nil {
		return m.ListAnswersFunc(ctx, assessmentID)
	}
	return []models.Answer{{QuestionID: "cv-1"}}, nil
}

func createTestInput(questionID string, score int) *Input {
	return &Input{AssessmentID: "a-1", QuestionID: questionID, Score: score}
}

func answered(n int) []models.Answer {
	out := make([]models.Answer, n)
	for i := range out {
		out[i] = models.Answer{QuestionID: models.QuestionBank[i].ID}
	}
	return out
}

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name           string
		input          *Input
		answers        []models.Answer
		validateOutput func(t *testing.T, output *Output, saved *models.Answer)
	}{
		{
			name:    "category comes from the question bank",
			input:   createTestInput("int-2", 4),
			answers: answered(3),
			validateOutput: func(t *testing.T, output *Output, saved *models.Answer) {
				assert.Equal(t, "interview", output.Category)
				assert.Equal(t, "interview", saved.Category)
				assert.Equal(t, 4, saved.Score)
				assert.Equal(t, 3, output.AnsweredCount)
				assert.Equal(t, 8, output.TotalQuestions)
				assert.False(t, output.Complete)
			},
		},
		{
			name:    "last answer completes the assessment",
			input:   createTestInput("js-2", 1),
			answers: answered(8),
			validateOutput: func(t *testing.T, output *Output, _ *models.Answer) {
				assert.True(t, output.Complete)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockStore{
				ListAnswersFunc: func(context.Context, string) ([]models.Answer, error) { return tt.answers, nil },
			}
			h := NewHandler(LoadConfig(), mock, logger.NewTestLogger(t))

			output, err := h.Execute(context.Background(), tt.input)
			require.NoError(t, err)
			require.Len(t, mock.saved, 1)
			tt.validateOutput(t, output, mock.saved[0])
		})
	}
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name         string
		input        *Input
		store        *MockStore
		expectedErr  error
		expectedCode errors.ErrorCode
	}{
		{
			name:         "unknown question",
			input:        createTestInput("cv-9", 3),
			store:        &MockStore{},
			expectedErr:  ErrInvalidAnswer,
			expectedCode: errors.ErrCodeInvalidAnswer,
		},
		{
			name:         "score above the scale",
			input:        createTestInput("cv-1", 6),
			store:        &MockStore{},
			expectedErr:  ErrInvalidAnswer,
			expectedCode: errors.ErrCodeInvalidAnswer,
		},
		{
			name:         "score below the scale",
			input:        createTestInput("cv-1", 0),
			store:        &MockStore{},
			expectedErr:  ErrInvalidAnswer,
			expectedCode: errors.ErrCodeInvalidAnswer,
		},
		{
			name:         "missing assessment id",
			input:        &Input{QuestionID: "cv-1", Score: 3},
			store:        &MockStore{},
			expectedErr:  ErrInvalidAnswer,
			expectedCode: errors.ErrCodeInvalidAnswer,
		},
		{
			name:  "assessment does not exist",
			input: createTestInput("cv-1", 3),
			store: &MockStore{SaveAnswerFunc: func(context.Context, *models.Answer) error {
				return store.ErrNotFound
			}},
			expectedErr:  ErrAssessmentNotFound,
			expectedCode: errors.ErrCodeAssessmentNotFound,
		},
		{
			name:  "database down",
			input: createTestInput("cv-1", 3),
			store: &MockStore{SaveAnswerFunc: func(context.Context, *models.Answer) error {
				return stderrors.New("dial tcp: connection refused")
			}},
			expectedErr:  ErrSaveFailed,
			expectedCode: errors.ErrCodeDatabaseInsertFailed,
		},
		{
			name:  "count query times out",
			input: createTestInput("cv-1", 3),
			store: &MockStore{ListAnswersFunc: func(context.Context, string) ([]models.Answer, error) {
				return nil, context.DeadlineExceeded
			}},
			expectedErr:  ErrQueryFailed,
			expectedCode: errors.ErrCodeQueryTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(LoadConfig(), tt.store, logger.NewTestLogger(t))

			_, err := h.Execute(context.Background(), tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.expectedCode, h.mapError(err, tt.input).Code)
		})
	}
}

// Package store holds the repositories the workers read and write.
// Every worker depends on the narrow interface it needs, and PostgresStore
// implements all of them.
package store

import (
	"context"
	"errors"

	"rekonet-workers/internal/models"
	"rekonet-workers/internal/readiness"
)

var ErrNotFound = errors.New("NOT_FOUND")

type AssessmentStore interface {
	CreateAssessment(ctx context.Context, a *models.Assessment) error
	GetAssessment(ctx context.Context, id string) (*models.Assessment, error)
	SetLanguage(ctx context.Context, id, lang string) error
	SaveAnswer(ctx context.Context, a *models.Answer) error
	ListAnswers(ctx context.Context, assessmentID string) ([]models.Answer, error)
}

type ProfileStore interface {
	SaveAvailability(ctx context.Context, a *models.Availability) error
	GetAvailability(ctx context.Context, assessmentID string) (*models.Availability, error)
	LatestCVSummary(ctx context.Context, assessmentID string) (*models.CVSummary, error)
	ListExperience(ctx context.Context, assessmentID string) ([]readiness.ExperienceEvidence, error)
	ListVerifiedCertificateProviders(ctx context.Context, assessmentID string) ([]string, error)
	RecordInterviewAttempt(ctx context.Context, a *models.InterviewAttempt) error
	RecentInterviewAttempts(ctx context.Context, assessmentID string, limit int) ([]models.InterviewAttempt, error)
}

// SignalStore reads the raw numbers behind the progress percentages.
// The score lookups return ErrNotFound when nothing has been recorded.
type SignalStore interface {
	CountCompletedActivities(ctx context.Context, assessmentID string) (int, error)
	LatestCVScore(ctx context.Context, assessmentID string) (float64, error)
	InterviewSessionScore(ctx context.Context, assessmentID string) (float64, error)
}

type RoleCatalog interface {
	ListRoles(ctx context.Context) ([]readiness.RoleProfile, error)
}

package store

import (
	"context"

	"github.com/gradlift/scholar-cli/internal/model"
)

// ApplicationFilter specifies criteria for listing applications.
type ApplicationFilter struct {
	Status        model.ApplicationStatus `json:"status,omitempty"`
	ScholarshipID string                  `json:"scholarship_id,omitempty"`
	ApplicantID   string                  `json:"applicant_id,omitempty"`
	Limit         int                     `json:"limit,omitempty"`
	Offset        int                     `json:"offset,omitempty"`
}

// SavedState is the versioned bookmark flag for a scholarship.
type SavedState struct {
	ScholarshipID string `json:"scholarship_id"`
	Saved         bool   `json:"saved"`
	Version       int64  `json:"version"`
}

// Store defines the persistence interface for the lifecycle engine. The
// engine performs no retries; transient failures are the implementation's
// concern.
type Store interface {
	// Applications
	CreateApplication(ctx context.Context, app *model.Application) error
	GetApplication(ctx context.Context, id string) (*model.Application, error)
	UpdateApplication(ctx context.Context, app *model.Application) error
	ListApplications(ctx context.Context, filter ApplicationFilter) ([]model.Application, error)

	// Saved-scholarship flag under optimistic concurrency. ToggleSaved flips
	// the flag only when expectedVersion matches the stored version; a stale
	// version fails with ConcurrentModificationError. Rows are created on
	// first toggle with version 1, so the first caller passes 1.
	GetSaved(ctx context.Context, scholarshipID string) (*SavedState, error)
	ToggleSaved(ctx context.Context, scholarshipID string, expectedVersion int64) (*SavedState, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

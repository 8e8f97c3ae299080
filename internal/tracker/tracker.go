package tracker

import (
	"time"

	"github.com/google/uuid"

	"github.com/gradlift/scholar-cli/internal/model"
)

// allowedTransitions is the complete legal edge set. Terminal states have no
// entries: nothing leaves Accepted or Rejected.
var allowedTransitions = map[model.ApplicationStatus][]model.ApplicationStatus{
	model.StatusApplied:     {model.StatusUnderReview, model.StatusRejected},
	model.StatusUnderReview: {model.StatusShortlisted, model.StatusRejected},
	model.StatusShortlisted: {model.StatusAccepted, model.StatusRejected},
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to model.ApplicationStatus) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// NewApplication creates an application in the Applied state with the
// scholarship's document list snapshotted as pending requirements and the
// deadline copied so later catalog edits cannot reach it.
func NewApplication(s *model.Scholarship, applicantID string, now time.Time) *model.Application {
	docs := make([]model.DocumentRequirement, len(s.RequiredDocuments))
	for i, name := range s.RequiredDocuments {
		docs[i] = model.DocumentRequirement{Name: name, Status: model.DocumentPending}
	}
	return &model.Application{
		ID:            uuid.New().String(),
		ScholarshipID: s.ID,
		ApplicantID:   applicantID,
		Status:        model.StatusApplied,
		Timeline: []model.TimelineEvent{{
			Label:     model.StatusApplied.Label(),
			Timestamp: now,
			Status:    model.EventCurrent,
		}},
		Documents: docs,
		Deadline:  s.Deadline,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Advance moves the application to target or rejects the request leaving it
// completely unchanged. Accepting requires an empty pending checklist. On
// success the previous Current event becomes Completed and a new event is
// appended (Current, or Completed when target is terminal).
func Advance(app *model.Application, target model.ApplicationStatus, now time.Time) error {
	if !CanTransition(app.Status, target) {
		return &model.InvalidTransitionError{From: app.Status, To: target}
	}
	if target == model.StatusAccepted {
		if pending := PendingDocuments(app); len(pending) > 0 {
			return &model.MissingDocumentsError{Status: app.Status, Missing: pending}
		}
	}

	for i := range app.Timeline {
		if app.Timeline[i].Status == model.EventCurrent {
			app.Timeline[i].Status = model.EventCompleted
		}
	}

	eventStatus := model.EventCurrent
	if target.Terminal() {
		eventStatus = model.EventCompleted
	}
	app.Timeline = append(app.Timeline, model.TimelineEvent{
		Label:     target.Label(),
		Timestamp: now,
		Status:    eventStatus,
	})
	app.Status = target
	app.UpdatedAt = now
	return nil
}

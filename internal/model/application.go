package model

import "time"

// ApplicationStatus represents where an application sits in its lifecycle.
type ApplicationStatus string

const (
	StatusApplied     ApplicationStatus = "applied"
	StatusUnderReview ApplicationStatus = "under_review"
	StatusShortlisted ApplicationStatus = "shortlisted"
	StatusAccepted    ApplicationStatus = "accepted"
	StatusRejected    ApplicationStatus = "rejected"
)

// Terminal reports whether no further transitions are permitted.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Label returns the display form used for timeline events.
func (s ApplicationStatus) Label() string {
	switch s {
	case StatusApplied:
		return "Applied"
	case StatusUnderReview:
		return "Under Review"
	case StatusShortlisted:
		return "Shortlisted"
	case StatusAccepted:
		return "Accepted"
	case StatusRejected:
		return "Rejected"
	}
	return string(s)
}

// DocumentStatus tracks a single document requirement.
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentUploaded DocumentStatus = "uploaded"
	DocumentExpired  DocumentStatus = "expired"
)

// DocumentRequirement is a named artifact an application must supply before
// it can be accepted. Only status is tracked, never file bytes.
type DocumentRequirement struct {
	Name       string         `json:"name"`
	Status     DocumentStatus `json:"status"`
	UploadedAt *time.Time     `json:"uploaded_at,omitempty"`
}

// EventStatus tags a timeline event.
type EventStatus string

const (
	EventCompleted EventStatus = "completed"
	EventCurrent   EventStatus = "current"
	EventUpcoming  EventStatus = "upcoming"
)

// TimelineEvent is a labeled, timestamped lifecycle milestone. The timeline
// is append-only and ordered by timestamp; at most one event is Current, and
// none are once the application is terminal.
type TimelineEvent struct {
	Label     string      `json:"label"`
	Timestamp time.Time   `json:"timestamp"`
	Status    EventStatus `json:"status"`
}

// Application is a submitted application. The deadline is copied from the
// scholarship at submission time; later catalog edits do not change it.
// Applications are never deleted, only advanced to a terminal status.
type Application struct {
	ID            string                `json:"id"`
	ScholarshipID string                `json:"scholarship_id"`
	ApplicantID   string                `json:"applicant_id"`
	Status        ApplicationStatus     `json:"status"`
	Timeline      []TimelineEvent       `json:"timeline"`
	Documents     []DocumentRequirement `json:"documents"`
	Deadline      time.Time             `json:"deadline"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

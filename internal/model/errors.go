package model

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports malformed scoring input: an unreadable profile or
// a criterion the evaluator cannot interpret. Deterministic: retrying with
// the same input is pointless.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// NotFoundError reports an unknown application, scholarship, or document id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// InvalidTransitionError reports an illegal state-machine edge. From carries
// the current (unchanged) status so callers can reconcile without re-fetching.
type InvalidTransitionError struct {
	From ApplicationStatus
	To   ApplicationStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s -> %s", e.From, e.To)
}

// MissingDocumentsError blocks a transition to Accepted while required
// documents are still pending. Status carries the current (unchanged)
// application status.
type MissingDocumentsError struct {
	Status  ApplicationStatus
	Missing []string
}

func (e *MissingDocumentsError) Error() string {
	return fmt.Sprintf("missing documents in %s: %s", e.Status, strings.Join(e.Missing, ", "))
}

// DocumentExpiredError reports an upload attempt against an expired
// requirement.
type DocumentExpiredError struct {
	Name string
}

func (e *DocumentExpiredError) Error() string {
	return "document expired: " + e.Name
}

// ConcurrentModificationError reports a stale version on a saved-flag toggle.
// The caller must re-read and retry with the current version.
type ConcurrentModificationError struct {
	ScholarshipID   string
	ExpectedVersion int64
	CurrentVersion  int64
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("concurrent modification on %s: expected version %d, have %d",
		e.ScholarshipID, e.ExpectedVersion, e.CurrentVersion)
}

// IsNotFound returns true if the error chain contains a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict returns true if the error chain contains a
// ConcurrentModificationError.
func IsConflict(err error) bool {
	var cm *ConcurrentModificationError
	return errors.As(err, &cm)
}

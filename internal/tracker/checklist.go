// Package tracker owns application lifecycle mutation: the document
// checklist and the status state machine. Functions either fully apply or
// leave the application untouched; callers serialize access per application.
package tracker

import (
	"time"

	"github.com/gradlift/scholar-cli/internal/model"
)

// RecordUpload marks a document requirement as uploaded. Re-uploading an
// already-uploaded document is a no-op; uploading an expired one fails with
// DocumentExpiredError. Unknown names fail with NotFoundError.
func RecordUpload(app *model.Application, name string, now time.Time) error {
	for i := range app.Documents {
		doc := &app.Documents[i]
		if doc.Name != name {
			continue
		}
		switch doc.Status {
		case model.DocumentUploaded:
			return nil
		case model.DocumentExpired:
			return &model.DocumentExpiredError{Name: name}
		}
		ts := now
		doc.Status = model.DocumentUploaded
		doc.UploadedAt = &ts
		return nil
	}
	return &model.NotFoundError{Kind: "document", ID: name}
}

// ExpireOverdue expires pending documents once the application deadline has
// passed with no upload. Returns the number of documents expired.
func ExpireOverdue(app *model.Application, now time.Time) int {
	if !now.After(app.Deadline) {
		return 0
	}
	n := 0
	for i := range app.Documents {
		if app.Documents[i].Status == model.DocumentPending {
			app.Documents[i].Status = model.DocumentExpired
			n++
		}
	}
	return n
}

// ExpireStaleUploads expires uploaded documents whose validity window has
// lapsed. This check is independent of the application deadline.
func ExpireStaleUploads(app *model.Application, validity time.Duration, now time.Time) int {
	if validity <= 0 {
		return 0
	}
	n := 0
	for i := range app.Documents {
		doc := &app.Documents[i]
		if doc.Status != model.DocumentUploaded || doc.UploadedAt == nil {
			continue
		}
		if now.After(doc.UploadedAt.Add(validity)) {
			doc.Status = model.DocumentExpired
			n++
		}
	}
	return n
}

// PendingDocuments lists requirement names still pending, in checklist order.
func PendingDocuments(app *model.Application) []string {
	var names []string
	for _, doc := range app.Documents {
		if doc.Status == model.DocumentPending {
			names = append(names, doc.Name)
		}
	}
	return names
}

package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradlift/scholar-cli/internal/model"
)

var (
	testNow      = time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	testDeadline = testNow.Add(30 * 24 * time.Hour)
)

func testScholarship() *model.Scholarship {
	return &model.Scholarship{
		ID:                "merit-2025",
		Name:              "Merit Award 2025",
		Provider:          "Gradlift Foundation",
		AwardAmount:       500000,
		Currency:          "USD",
		Coverage:          model.CoveragePartial,
		Deadline:          testDeadline,
		RequiredDocuments: []string{"Transcript", "Financial Statement"},
	}
}

func TestRecordUpload_PendingToUploaded(t *testing.T) {
	app := NewApplication(testScholarship(), "applicant-1", testNow)

	require.NoError(t, RecordUpload(app, "Transcript", testNow))
	assert.Equal(t, model.DocumentUploaded, app.Documents[0].Status)
	require.NotNil(t, app.Documents[0].UploadedAt)
	assert.Equal(t, testNow, *app.Documents[0].UploadedAt)
}

func TestRecordUpload_Idempotent(t *testing.T) {
	app := NewApplication(testScholarship(), "applicant-1", testNow)

	require.NoError(t, RecordUpload(app, "Transcript", testNow))
	first := *app.Documents[0].UploadedAt

	// Second upload is a no-op: status and timestamp unchanged, no error.
	require.NoError(t, RecordUpload(app, "Transcript", testNow.Add(time.Hour)))
	assert.Equal(t, model.DocumentUploaded, app.Documents[0].Status)
	assert.Equal(t, first, *app.Documents[0].UploadedAt)
}

func TestRecordUpload_ExpiredFails(t *testing.T) {
	app := NewApplication(testScholarship(), "applicant-1", testNow)
	app.Documents[0].Status = model.DocumentExpired

	err := RecordUpload(app, "Transcript", testNow)
	var expiredErr *model.DocumentExpiredError
	require.ErrorAs(t, err, &expiredErr)
	assert.Equal(t, "Transcript", expiredErr.Name)
}

func TestRecordUpload_UnknownDocument(t *testing.T) {
	app := NewApplication(testScholarship(), "applicant-1", testNow)
	err := RecordUpload(app, "Essay", testNow)
	assert.True(t, model.IsNotFound(err))
}

func TestExpireOverdue_BeforeDeadlineNoop(t *testing.T) {
	app := NewApplication(testScholarship(), "applicant-1", testNow)
	assert.Equal(t, 0, ExpireOverdue(app, testDeadline))
	assert.Equal(t, model.DocumentPending, app.Documents[0].Status)
}

func TestExpireOverdue_PastDeadlineExpiresPendingOnly(t *testing.T) {
	app := NewApplication(testScholarship(), "applicant-1", testNow)
	require.NoError(t, RecordUpload(app, "Transcript", testNow))

	n := ExpireOverdue(app, testDeadline.Add(time.Hour))
	assert.Equal(t, 1, n)
	assert.Equal(t, model.DocumentUploaded, app.Documents[0].Status)
	assert.Equal(t, model.DocumentExpired, app.Documents[1].Status)
}

func TestExpireStaleUploads_WindowLapsed(t *testing.T) {
	app := NewApplication(testScholarship(), "applicant-1", testNow)
	require.NoError(t, RecordUpload(app, "Transcript", testNow))

	validity := 90 * 24 * time.Hour
	assert.Equal(t, 0, ExpireStaleUploads(app, validity, testNow.Add(validity)))
	assert.Equal(t, 1, ExpireStaleUploads(app, validity, testNow.Add(validity+time.Hour)))
	assert.Equal(t, model.DocumentExpired, app.Documents[0].Status)
}

func TestExpireStaleUploads_ZeroValidityDisabled(t *testing.T) {
	app := NewApplication(testScholarship(), "applicant-1", testNow)
	require.NoError(t, RecordUpload(app, "Transcript", testNow))
	assert.Equal(t, 0, ExpireStaleUploads(app, 0, testNow.Add(1000*24*time.Hour)))
}

func TestPendingDocuments_Order(t *testing.T) {
	app := NewApplication(testScholarship(), "applicant-1", testNow)
	assert.Equal(t, []string{"Transcript", "Financial Statement"}, PendingDocuments(app))

	require.NoError(t, RecordUpload(app, "Transcript", testNow))
	assert.Equal(t, []string{"Financial Statement"}, PendingDocuments(app))

	require.NoError(t, RecordUpload(app, "Financial Statement", testNow))
	assert.Empty(t, PendingDocuments(app))
}

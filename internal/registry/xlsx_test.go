package registry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/gradlift/scholar-cli/internal/model"
)

func writeSheet(t *testing.T, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Scholarships")
	require.NoError(t, err)
	for _, cells := range rows {
		row := sheet.AddRow()
		for _, v := range cells {
			row.AddCell().SetString(v)
		}
	}
	path := filepath.Join(t.TempDir(), "import.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestImportXLSX(t *testing.T) {
	path := writeSheet(t, [][]string{
		xlsxColumns,
		{
			"merit-2025", "Merit Award 2025", "Gradlift Foundation", "500000", "usd",
			"Partial", "2025-06-10",
			"GPA of 3.5 or above|gpa|min|3.5; STEM field|field|one_of|engineering|math|physics",
			"Transcript; Financial Statement",
		},
		{"", "", "", "", "", "", "", "", ""}, // blank rows are skipped
		{
			"need-2025", "Need-Based Grant 2025", "Bridge Trust", "200000", "EUR",
			"stipend", "2025-05-11T00:00:00Z",
			"First-generation student|first_generation|flag",
			"Essay",
		},
	})

	scholarships, err := ImportXLSX(path)
	require.NoError(t, err)
	require.Len(t, scholarships, 2)

	merit := scholarships[0]
	assert.Equal(t, "merit-2025", merit.ID)
	assert.EqualValues(t, 500000, merit.AwardAmount)
	assert.Equal(t, "USD", merit.Currency)
	assert.Equal(t, model.CoveragePartial, merit.Coverage)
	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), merit.Deadline)
	assert.Equal(t, []string{"Transcript", "Financial Statement"}, merit.RequiredDocuments)

	require.Len(t, merit.Criteria, 2)
	assert.Equal(t, model.OpMin, merit.Criteria[0].Operator)
	assert.Equal(t, "3.5", merit.Criteria[0].Value)
	// one_of values keep their pipe separators.
	assert.Equal(t, model.OpOneOf, merit.Criteria[1].Operator)
	assert.Equal(t, "engineering|math|physics", merit.Criteria[1].Value)

	need := scholarships[1]
	assert.Equal(t, model.OpFlag, need.Criteria[0].Operator)
	assert.Empty(t, need.Criteria[0].Value)
}

func TestImportXLSXBadAmount(t *testing.T) {
	path := writeSheet(t, [][]string{
		xlsxColumns,
		{"x-1", "X", "P", "not-a-number", "USD", "full", "2025-06-10", "A|gpa|min|3", "Doc"},
	})

	_, err := ImportXLSX(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "award_amount")
}

func TestImportXLSXBadDeadline(t *testing.T) {
	path := writeSheet(t, [][]string{
		xlsxColumns,
		{"x-1", "X", "P", "100", "USD", "full", "June 2025", "A|gpa|min|3", "Doc"},
	})

	_, err := ImportXLSX(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unparseable deadline")
}

func TestImportXLSXMalformedCriterion(t *testing.T) {
	path := writeSheet(t, [][]string{
		xlsxColumns,
		{"x-1", "X", "P", "100", "USD", "full", "2025-06-10", "just-a-label", "Doc"},
	})

	_, err := ImportXLSX(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want label|attribute|operator")
}

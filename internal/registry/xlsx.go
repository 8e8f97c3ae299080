package registry

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/gradlift/scholar-cli/internal/model"
)

// xlsxColumns is the expected provider-spreadsheet layout, one scholarship
// per row after a single header row.
var xlsxColumns = []string{
	"id", "name", "provider", "award_amount", "currency",
	"coverage", "deadline", "criteria", "required_documents",
}

// ImportXLSX reads a provider spreadsheet into catalog entries.
//
// The criteria cell holds semicolon-separated entries of the form
// "label|attribute|operator|value"; required_documents is semicolon-separated
// names. Deadlines parse as RFC 3339 or 2006-01-02.
func ImportXLSX(path string) ([]model.Scholarship, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: no sheets")
	}
	sheet := f.Sheets[0]

	var scholarships []model.Scholarship
	for i, row := range sheet.Rows {
		if i == 0 {
			continue // header
		}
		cells := rowToStrings(row)
		if isBlankRow(cells) {
			continue
		}
		s, err := parseRow(cells)
		if err != nil {
			return nil, eris.Wrapf(err, "xlsx: row %d", i+1)
		}
		scholarships = append(scholarships, s)
	}
	return scholarships, nil
}

func parseRow(cells []string) (model.Scholarship, error) {
	if len(cells) < len(xlsxColumns) {
		return model.Scholarship{}, eris.Errorf("expected %d columns, got %d", len(xlsxColumns), len(cells))
	}

	amount, err := strconv.ParseInt(strings.TrimSpace(cells[3]), 10, 64)
	if err != nil {
		return model.Scholarship{}, eris.Wrapf(err, "award_amount %q", cells[3])
	}

	deadline, err := parseDeadline(cells[6])
	if err != nil {
		return model.Scholarship{}, err
	}

	criteria, err := parseCriteria(cells[7])
	if err != nil {
		return model.Scholarship{}, err
	}

	s := model.Scholarship{
		ID:                strings.TrimSpace(cells[0]),
		Name:              strings.TrimSpace(cells[1]),
		Provider:          strings.TrimSpace(cells[2]),
		AwardAmount:       amount,
		Currency:          strings.ToUpper(strings.TrimSpace(cells[4])),
		Coverage:          model.CoverageType(strings.ToLower(strings.TrimSpace(cells[5]))),
		Deadline:          deadline,
		Criteria:          criteria,
		RequiredDocuments: splitList(cells[8]),
	}
	if s.ID == "" {
		return model.Scholarship{}, eris.New("empty id")
	}
	return s, nil
}

func parseDeadline(cell string) (time.Time, error) {
	cell = strings.TrimSpace(cell)
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, cell); err == nil {
			return t, nil
		}
	}
	return time.Time{}, eris.Errorf("unparseable deadline %q", cell)
}

func parseCriteria(cell string) ([]model.Criterion, error) {
	var criteria []model.Criterion
	for i, entry := range splitList(cell) {
		parts := strings.Split(entry, "|")
		if len(parts) < 3 {
			return nil, eris.Errorf("criterion %q: want label|attribute|operator[|value]", entry)
		}
		c := model.Criterion{
			Key:       fmt.Sprintf("c%d", i+1),
			Label:     strings.TrimSpace(parts[0]),
			Attribute: strings.TrimSpace(parts[1]),
			Operator:  model.CriterionOp(strings.TrimSpace(parts[2])),
		}
		if len(parts) > 3 {
			c.Value = strings.TrimSpace(strings.Join(parts[3:], "|"))
		}
		criteria = append(criteria, c)
	}
	return criteria, nil
}

func splitList(cell string) []string {
	var out []string
	for _, part := range strings.Split(cell, ";") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func rowToStrings(row *xlsx.Row) []string {
	out := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		out[i] = cell.String()
	}
	return out
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

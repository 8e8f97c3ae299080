package model

import "time"

// CoverageType describes how much of the cost of attendance an award covers.
type CoverageType string

const (
	CoverageFull    CoverageType = "full"
	CoveragePartial CoverageType = "partial"
	CoverageStipend CoverageType = "stipend"
)

// CriterionOp is the comparison applied to a profile attribute.
type CriterionOp string

const (
	OpEquals CriterionOp = "eq"     // case-insensitive string equality
	OpOneOf  CriterionOp = "one_of" // attribute matches any of the |-separated values
	OpMin    CriterionOp = "min"    // numeric attribute >= value
	OpMax    CriterionOp = "max"    // numeric attribute <= value
	OpFlag   CriterionOp = "flag"   // attribute parses as boolean true
)

// Criterion is one named, independently evaluated condition on a profile.
type Criterion struct {
	Key       string      `json:"key" yaml:"key"`
	Label     string      `json:"label" yaml:"label"`
	Attribute string      `json:"attribute" yaml:"attribute"`
	Operator  CriterionOp `json:"operator" yaml:"operator"`
	Value     string      `json:"value,omitempty" yaml:"value,omitempty"`
}

// Scholarship is an immutable catalog entry. A scoring run operates on a
// snapshot; edits to the catalog never reach in-flight applications.
type Scholarship struct {
	ID                string       `json:"id" yaml:"id"`
	Name              string       `json:"name" yaml:"name"`
	Provider          string       `json:"provider" yaml:"provider"`
	AwardAmount       int64        `json:"award_amount" yaml:"award_amount"` // minor currency units
	Currency          string       `json:"currency" yaml:"currency"`
	Coverage          CoverageType `json:"coverage" yaml:"coverage"`
	Deadline          time.Time    `json:"deadline" yaml:"deadline"`
	Criteria          []Criterion  `json:"criteria" yaml:"criteria"`
	RequiredDocuments []string     `json:"required_documents" yaml:"required_documents"`
}

package labresult

import (
	"time"

	"github.com/google/uuid"
)

// Comparator qualifies a numeric result or reference bound.
type Comparator string

const (
	Less           Comparator = "<"
	LessOrEqual    Comparator = "<="
	Greater        Comparator = ">"
	GreaterOrEqual Comparator = ">="
)

// LessFamily reports whether the comparator bounds the value from above.
func (c Comparator) LessFamily() bool { return c == Less || c == LessOrEqual }

// GreaterFamily reports whether the comparator bounds the value from below.
func (c Comparator) GreaterFamily() bool { return c == Greater || c == GreaterOrEqual }

// LabResult maps to the lab_result table: one extracted clinical report for
// one document at one calendar date. A raw report with several dated value
// columns produces several LabResults.
type LabResult struct {
	ID         uuid.UUID        `db:"id" json:"id"`
	DocumentID uuid.UUID        `db:"document_id" json:"document_id"`
	Patient    string           `db:"patient" json:"patient"`
	LabName    string           `db:"lab_name" json:"lab_name"`
	Date       time.Time        `db:"result_date" json:"date"`
	Points     []LabResultPoint `db:"points" json:"points"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

// LabResultPoint is one measurement within a report. Raw fields keep the
// extracted text untouched; parsed and normalized fields are best effort and
// absent when the text did not yield them.
type LabResultPoint struct {
	Parameter           string      `json:"parameter"`
	Result              string      `json:"result"`
	ResultValue         *float64    `json:"result_value,omitempty"`
	ResultComparator    *Comparator `json:"result_comparator,omitempty"`
	Unit                string      `json:"unit"`
	Reference           string      `json:"reference"`
	ReferenceComparator *Comparator `json:"reference_comparator,omitempty"`
	ReferenceFrom       *float64    `json:"reference_from,omitempty"`
	ReferenceTo         *float64    `json:"reference_to,omitempty"`

	NormalizedResult        *float64 `json:"normalized_result,omitempty"`
	NormalizedUnit          *string  `json:"normalized_unit,omitempty"`
	NormalizedReferenceFrom *float64 `json:"normalized_reference_from,omitempty"`
	NormalizedReferenceTo   *float64 `json:"normalized_reference_to,omitempty"`
}

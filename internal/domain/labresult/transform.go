package labresult

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RawReport is a document-analysis extraction result before any parsing.
// One report carries one value column per calendar date.
type RawReport struct {
	LabName string           `json:"lab_name"`
	Patient string           `json:"patient"`
	Values  []RawValueColumn `json:"values"`
}

// RawValueColumn holds the measurements reported for a single date.
type RawValueColumn struct {
	Date         string           `json:"date"`
	Measurements []RawMeasurement `json:"measurements"`
}

// RawMeasurement is one extracted table row, all fields verbatim text.
type RawMeasurement struct {
	Parameter string `json:"parameter"`
	Result    string `json:"result"`
	Unit      string `json:"unit"`
	Reference string `json:"reference"`
}

const resultDateLayout = "2006-01-02"

// Transformer turns raw reports into stored LabResults, parsing values and
// references and attaching normalized fields point by point.
type Transformer struct {
	units UnitNormalizer
}

// NewTransformer builds a Transformer. A nil normalizer falls back to the
// default implementation.
func NewTransformer(units UnitNormalizer) *Transformer {
	if units == nil {
		units = DefaultUnitNormalizer{}
	}
	return &Transformer{units: units}
}

// Transform converts one raw report into one LabResult per dated value
// column. Dates must be ISO "YYYY-MM-DD"; a malformed date fails the whole
// report so a bad extraction never half-lands.
func (t *Transformer) Transform(documentID uuid.UUID, report *RawReport) ([]*LabResult, error) {
	if report == nil {
		return nil, fmt.Errorf("report is required")
	}
	results := make([]*LabResult, 0, len(report.Values))
	for _, col := range report.Values {
		date, err := time.Parse(resultDateLayout, strings.TrimSpace(col.Date))
		if err != nil {
			return nil, fmt.Errorf("parse report date %q: %w", col.Date, err)
		}
		result := &LabResult{
			ID:         uuid.New(),
			DocumentID: documentID,
			Patient:    report.Patient,
			LabName:    report.LabName,
			Date:       date,
			Points:     make([]LabResultPoint, 0, len(col.Measurements)),
		}
		for _, m := range col.Measurements {
			result.Points = append(result.Points, t.transformPoint(m))
		}
		results = append(results, result)
	}
	return results, nil
}

func (t *Transformer) transformPoint(m RawMeasurement) LabResultPoint {
	p := LabResultPoint{
		Parameter: m.Parameter,
		Result:    m.Result,
		Unit:      m.Unit,
		Reference: m.Reference,
	}
	p.ResultComparator, p.ResultValue = ParseResult(m.Result)
	p.ReferenceComparator, p.ReferenceFrom, p.ReferenceTo = ParseReference(m.Reference)

	p.NormalizedResult = copyFloat(p.ResultValue)
	if unit := t.units.Normalize(m.Unit); unit != "" {
		p.NormalizedUnit = &unit
	}
	p.NormalizedReferenceFrom = copyFloat(p.ReferenceFrom)
	p.NormalizedReferenceTo = copyFloat(p.ReferenceTo)

	// Repair: "< X" style references sometimes lose their number to the
	// extraction. When both bounds are missing but a reference comparator
	// and a numeric result exist, synthesize the implied bound from the
	// result itself.
	if p.ReferenceFrom == nil && p.ReferenceTo == nil &&
		p.ReferenceComparator != nil && p.ResultValue != nil {
		if p.ReferenceComparator.LessFamily() {
			p.NormalizedReferenceTo = copyFloat(p.ResultValue)
		} else {
			p.NormalizedReferenceFrom = copyFloat(p.ResultValue)
		}
	}
	return p
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

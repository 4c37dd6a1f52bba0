package pivot

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sebfischer83/ArquivoMate2-sub001/internal/domain/labresult"
)

// PivotTable is the per-owner parameter-by-date matrix of normalized lab
// values. Columns are calendar dates, strictly descending and unique; every
// row's parallel arrays have exactly len(Columns) entries.
type PivotTable struct {
	OwnerID   uuid.UUID   `json:"owner_id"`
	Columns   []time.Time `json:"columns"`
	Rows      []*PivotRow `json:"rows"`
	Version   int         `json:"version"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// PivotRow keys on (normalized parameter, normalized unit). A nil unit is a
// distinct key, not a wildcard. The arrays are indexed by column: numeric
// value, qualitative text, reference bounds and comparator per date.
type PivotRow struct {
	Parameter            string                  `json:"parameter"`
	Unit                 *string                 `json:"unit,omitempty"`
	Values               []*float64              `json:"values"`
	TextValues           []*string               `json:"text_values"`
	ReferenceFrom        []*float64              `json:"reference_from"`
	ReferenceTo          []*float64              `json:"reference_to"`
	ReferenceComparators []*labresult.Comparator `json:"reference_comparators"`
}

// NewPivotTable returns an empty table for the owner: no columns, no rows.
func NewPivotTable(ownerID uuid.UUID) *PivotTable {
	return &PivotTable{OwnerID: ownerID}
}

func newRow(parameter string, unit *string, width int) *PivotRow {
	r := &PivotRow{Parameter: parameter, Unit: unit}
	r.pad(width)
	return r
}

func (r *PivotRow) pad(width int) {
	for len(r.Values) < width {
		r.Values = append(r.Values, nil)
		r.TextValues = append(r.TextValues, nil)
		r.ReferenceFrom = append(r.ReferenceFrom, nil)
		r.ReferenceTo = append(r.ReferenceTo, nil)
		r.ReferenceComparators = append(r.ReferenceComparators, nil)
	}
}

// matches compares row keys: parameter case-insensitively, unit ordinally
// with absent-unit as its own value.
func (r *PivotRow) matches(parameter string, unit *string) bool {
	if !strings.EqualFold(r.Parameter, parameter) {
		return false
	}
	if r.Unit == nil || unit == nil {
		return r.Unit == nil && unit == nil
	}
	return *r.Unit == *unit
}

// hasAnyValue reports whether any of the given column indexes carries a
// numeric or qualitative entry.
func (r *PivotRow) hasAnyValue(indexes []int) bool {
	for _, i := range indexes {
		if r.Values[i] != nil || r.TextValues[i] != nil {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ensureColumn inserts the date as a column if absent, keeps the column list
// strictly descending and unique, pads every row to the new width, and
// returns the date's index.
func (t *PivotTable) ensureColumn(date time.Time) int {
	if t.columnIndex(date) < 0 {
		t.Columns = append(t.Columns, date)
		sort.Slice(t.Columns, func(i, j int) bool { return t.Columns[i].After(t.Columns[j]) })
		for _, r := range t.Rows {
			r.pad(len(t.Columns))
		}
		// Inserting mid-list shifts later columns right, so realign every
		// row's cells with the sorted column order.
		t.realignRows(date)
	}
	return t.columnIndex(date)
}

func (t *PivotTable) columnIndex(date time.Time) int {
	for i, c := range t.Columns {
		if sameDay(c, date) {
			return i
		}
	}
	return -1
}

// realignRows moves row cells right by one from the insertion point of the
// new date, leaving an empty cell under the new column.
func (t *PivotTable) realignRows(inserted time.Time) {
	at := t.columnIndex(inserted)
	if at < 0 || at == len(t.Columns)-1 {
		return
	}
	for _, r := range t.Rows {
		copy(r.Values[at+1:], r.Values[at:len(r.Values)-1])
		copy(r.TextValues[at+1:], r.TextValues[at:len(r.TextValues)-1])
		copy(r.ReferenceFrom[at+1:], r.ReferenceFrom[at:len(r.ReferenceFrom)-1])
		copy(r.ReferenceTo[at+1:], r.ReferenceTo[at:len(r.ReferenceTo)-1])
		copy(r.ReferenceComparators[at+1:], r.ReferenceComparators[at:len(r.ReferenceComparators)-1])
		r.Values[at] = nil
		r.TextValues[at] = nil
		r.ReferenceFrom[at] = nil
		r.ReferenceTo[at] = nil
		r.ReferenceComparators[at] = nil
	}
}

func (t *PivotTable) findOrCreateRow(parameter string, unit *string) *PivotRow {
	for _, r := range t.Rows {
		if r.matches(parameter, unit) {
			return r
		}
	}
	r := newRow(parameter, unit, len(t.Columns))
	t.Rows = append(t.Rows, r)
	return r
}

// Apply folds one lab result into the table: its date becomes a column and
// each point lands in the row keyed by normalized parameter and unit. A
// point's cell is overwritten wholesale, so the last write for a date wins.
func (t *PivotTable) Apply(result *labresult.LabResult, params labresult.ParameterNormalizer) {
	idx := t.ensureColumn(result.Date)
	for i := range result.Points {
		p := &result.Points[i]
		parameter := params.Normalize(p.Parameter)
		if parameter == "" {
			continue
		}
		row := t.findOrCreateRow(parameter, p.NormalizedUnit)
		row.Values[idx] = copyFloat(p.NormalizedResult)
		row.TextValues[idx] = nil
		if p.NormalizedResult == nil && strings.TrimSpace(p.Result) != "" {
			text := strings.TrimSpace(p.Result)
			row.TextValues[idx] = &text
		}
		row.ReferenceFrom[idx] = copyFloat(p.NormalizedReferenceFrom)
		row.ReferenceTo[idx] = copyFloat(p.NormalizedReferenceTo)
		row.ReferenceComparators[idx] = copyComparator(p.ReferenceComparator)
	}
	t.sortRows()
}

// sortRows orders rows by parameter (case-insensitive), then unit (ordinal,
// absent first) for deterministic reads.
func (t *PivotTable) sortRows() {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		a, b := t.Rows[i], t.Rows[j]
		pa, pb := strings.ToLower(a.Parameter), strings.ToLower(b.Parameter)
		if pa != pb {
			return pa < pb
		}
		switch {
		case a.Unit == nil && b.Unit == nil:
			return false
		case a.Unit == nil:
			return true
		case b.Unit == nil:
			return false
		default:
			return *a.Unit < *b.Unit
		}
	})
}

// FilterByDates returns a read-only projection restricted to the given
// dates, keeping only rows that still carry at least one numeric or text
// entry. The receiver is not mutated.
func (t *PivotTable) FilterByDates(dates []time.Time) *PivotTable {
	var indexes []int
	for i, c := range t.Columns {
		for _, d := range dates {
			if sameDay(c, d) {
				indexes = append(indexes, i)
				break
			}
		}
	}

	out := &PivotTable{OwnerID: t.OwnerID, Version: t.Version, UpdatedAt: t.UpdatedAt}
	for _, i := range indexes {
		out.Columns = append(out.Columns, t.Columns[i])
	}
	for _, r := range t.Rows {
		if !r.hasAnyValue(indexes) {
			continue
		}
		nr := &PivotRow{Parameter: r.Parameter, Unit: r.Unit}
		for _, i := range indexes {
			nr.Values = append(nr.Values, r.Values[i])
			nr.TextValues = append(nr.TextValues, r.TextValues[i])
			nr.ReferenceFrom = append(nr.ReferenceFrom, r.ReferenceFrom[i])
			nr.ReferenceTo = append(nr.ReferenceTo, r.ReferenceTo[i])
			nr.ReferenceComparators = append(nr.ReferenceComparators, r.ReferenceComparators[i])
		}
		out.Rows = append(out.Rows, nr)
	}
	return out
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyComparator(v *labresult.Comparator) *labresult.Comparator {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

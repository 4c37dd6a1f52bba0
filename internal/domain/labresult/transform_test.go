package labresult

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTransform_OneResultPerDate(t *testing.T) {
	tr := NewTransformer(nil)
	docID := uuid.New()

	report := &RawReport{
		LabName: "Labor Berlin",
		Patient: "Mustermann, Max",
		Values: []RawValueColumn{
			{
				Date: "2024-05-13",
				Measurements: []RawMeasurement{
					{Parameter: "Hämoglobin", Result: "13,2", Unit: "g/l", Reference: "12.0-15.5"},
					{Parameter: "CRP", Result: "<0.6", Unit: "mg/dl", Reference: "< 0.5"},
				},
			},
			{
				Date: "2024-06-01",
				Measurements: []RawMeasurement{
					{Parameter: "Hämoglobin", Result: "12,8", Unit: "g/l", Reference: "12.0-15.5"},
				},
			},
		},
	}

	results, err := tr.Transform(docID, report)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	first := results[0]
	if first.DocumentID != docID {
		t.Errorf("expected document id %s, got %s", docID, first.DocumentID)
	}
	if first.LabName != "Labor Berlin" || first.Patient != "Mustermann, Max" {
		t.Errorf("report metadata not carried: %+v", first)
	}
	want := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)
	if !first.Date.Equal(want) {
		t.Errorf("expected date %v, got %v", want, first.Date)
	}
	if len(first.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(first.Points))
	}

	hb := first.Points[0]
	assertFloat(t, floatPtr(13.2), hb.ResultValue)
	assertFloat(t, floatPtr(13.2), hb.NormalizedResult)
	if hb.NormalizedUnit == nil || *hb.NormalizedUnit != "g/L" {
		t.Errorf("expected normalized unit g/L, got %v", hb.NormalizedUnit)
	}
	assertFloat(t, floatPtr(12.0), hb.NormalizedReferenceFrom)
	assertFloat(t, floatPtr(15.5), hb.NormalizedReferenceTo)

	crp := first.Points[1]
	assertCmp(t, cmpPtr(Less), crp.ResultComparator)
	assertFloat(t, floatPtr(0.6), crp.ResultValue)
	assertCmp(t, cmpPtr(Less), crp.ReferenceComparator)
	if crp.NormalizedReferenceFrom != nil {
		t.Error("less-than reference must not produce a lower bound")
	}
	assertFloat(t, floatPtr(0.5), crp.NormalizedReferenceTo)
}

func TestTransform_RawTextPreserved(t *testing.T) {
	tr := NewTransformer(nil)

	results, err := tr.Transform(uuid.New(), &RawReport{
		Values: []RawValueColumn{{
			Date: "2024-01-02",
			Measurements: []RawMeasurement{
				{Parameter: "Urin-Sediment", Result: "unauffällig", Unit: "", Reference: "siehe Befund"},
			},
		}},
	})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	p := results[0].Points[0]
	if p.Result != "unauffällig" || p.Reference != "siehe Befund" {
		t.Errorf("raw text must survive untouched: %+v", p)
	}
	if p.ResultValue != nil || p.NormalizedResult != nil {
		t.Error("non-numeric result must stay non-numeric")
	}
	if p.NormalizedUnit != nil {
		t.Error("empty unit must normalize to absent")
	}
}

func TestTransform_MalformedDateFailsReport(t *testing.T) {
	tr := NewTransformer(nil)

	_, err := tr.Transform(uuid.New(), &RawReport{
		Values: []RawValueColumn{
			{Date: "2024-05-13", Measurements: []RawMeasurement{{Parameter: "CRP", Result: "1"}}},
			{Date: "13.05.2024", Measurements: []RawMeasurement{{Parameter: "CRP", Result: "2"}}},
		},
	})
	if err == nil {
		t.Fatal("expected error for non-ISO date")
	}
}

func TestTransform_RepairsMissingBoundFromResult(t *testing.T) {
	tr := NewTransformer(nil)

	results, err := tr.Transform(uuid.New(), &RawReport{
		Values: []RawValueColumn{{
			Date: "2024-03-01",
			Measurements: []RawMeasurement{
				{Parameter: "Troponin", Result: "0,8", Unit: "ng/l", Reference: "< neg."},
				{Parameter: "HDL", Result: "1,2", Unit: "mmol/l", Reference: "> o.B."},
			},
		}},
	})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	troponin := results[0].Points[0]
	if troponin.ReferenceFrom != nil || troponin.ReferenceTo != nil {
		t.Fatal("parser must not have found bounds for the repair case")
	}
	assertFloat(t, floatPtr(0.8), troponin.NormalizedReferenceTo)
	if troponin.NormalizedReferenceFrom != nil {
		t.Error("less-family repair must fill the upper bound only")
	}

	hdl := results[0].Points[1]
	assertFloat(t, floatPtr(1.2), hdl.NormalizedReferenceFrom)
	if hdl.NormalizedReferenceTo != nil {
		t.Error("greater-family repair must fill the lower bound only")
	}
}

func TestTransform_NoRepairWithoutComparator(t *testing.T) {
	tr := NewTransformer(nil)

	results, err := tr.Transform(uuid.New(), &RawReport{
		Values: []RawValueColumn{{
			Date: "2024-03-01",
			Measurements: []RawMeasurement{
				{Parameter: "LDH", Result: "250", Unit: "U/l", Reference: "altersabhängig"},
			},
		}},
	})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	p := results[0].Points[0]
	if p.NormalizedReferenceFrom != nil || p.NormalizedReferenceTo != nil {
		t.Error("no comparator signal means no synthesized bounds")
	}
}

func TestTransform_NilReport(t *testing.T) {
	if _, err := NewTransformer(nil).Transform(uuid.New(), nil); err == nil {
		t.Error("expected error for nil report")
	}
}

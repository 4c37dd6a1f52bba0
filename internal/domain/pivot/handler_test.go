package pivot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func TestHandler_GetPivotByOwner(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	doc := f.addDocument(owner)
	lr := f.addResult(doc, day(2024, 1, 1), numericPoint("Glucose", 5.1, "mmol/L"))
	if err := f.svc.AddOrUpdate(context.Background(), lr); err != nil {
		t.Fatalf("AddOrUpdate failed: %v", err)
	}

	h := NewHandler(f.svc)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("ownerId")
	c.SetParamValues(owner.String())

	if err := h.GetPivotByOwner(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var table PivotTable
	if err := json.Unmarshal(rec.Body.Bytes(), &table); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(table.Rows) != 1 || table.Rows[0].Parameter != "glucose" {
		t.Errorf("unexpected table payload: %+v", table)
	}
}

func TestHandler_GetPivotByOwner_NotFound(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("ownerId")
	c.SetParamValues(uuid.NewString())

	err := h.GetPivotByOwner(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_GetPivotByOwner_InvalidID(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("ownerId")
	c.SetParamValues("not-a-uuid")

	err := h.GetPivotByOwner(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_RebuildForOwner(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	doc := f.addDocument(owner)
	f.addResult(doc, day(2024, 1, 1), numericPoint("CRP", 1, "mg/L"))

	h := NewHandler(f.svc)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("ownerId")
	c.SetParamValues(owner.String())

	if err := h.RebuildForOwner(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if _, ok := f.tables.tables[owner]; !ok {
		t.Error("rebuild must have created the table")
	}
}

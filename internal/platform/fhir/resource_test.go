package fhir

import (
	"encoding/json"
	"testing"
)

func TestNewOperationOutcome(t *testing.T) {
	oo := NewOperationOutcome("error", "invalid", "bad input")
	if oo.ResourceType != "OperationOutcome" {
		t.Errorf("expected OperationOutcome, got %s", oo.ResourceType)
	}
	if len(oo.Issue) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(oo.Issue))
	}
	if oo.Issue[0].Severity != "error" || oo.Issue[0].Code != "invalid" {
		t.Errorf("unexpected issue: %+v", oo.Issue[0])
	}
}

func TestNotFoundOutcome(t *testing.T) {
	oo := NotFoundOutcome("CodeSystem", "ayurveda")
	if oo.Issue[0].Code != "not-found" {
		t.Errorf("expected not-found, got %s", oo.Issue[0].Code)
	}
	if oo.Issue[0].Diagnostics != "CodeSystem/ayurveda not found" {
		t.Errorf("unexpected diagnostics: %s", oo.Issue[0].Diagnostics)
	}
}

func TestParametersString(t *testing.T) {
	p := NewParameters().
		Add(Parameter{Name: "system", ValueUri: "http://namaste.gov.in/fhir/CodeSystem/ayurveda"}).
		Add(Parameter{Name: "code", ValueCode: "AYU-DIG-001"})

	if got := p.String("system"); got != "http://namaste.gov.in/fhir/CodeSystem/ayurveda" {
		t.Errorf("unexpected system: %s", got)
	}
	if got := p.String("code"); got != "AYU-DIG-001" {
		t.Errorf("unexpected code: %s", got)
	}
	if got := p.String("missing"); got != "" {
		t.Errorf("expected empty for missing param, got %s", got)
	}
}

func TestParametersOmitsEmptyValues(t *testing.T) {
	p := NewParameters().Add(Parameter{Name: "result", ValueBoolean: boolPtr(true)})
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	params := m["parameter"].([]interface{})
	first := params[0].(map[string]interface{})
	if _, ok := first["valueUri"]; ok {
		t.Error("empty valueUri should be omitted")
	}
	if first["valueBoolean"] != true {
		t.Error("expected valueBoolean true")
	}
}

func TestSearchSetBundle(t *testing.T) {
	b := NewSearchSetBundle(42)
	if b.Type != "searchset" {
		t.Errorf("expected searchset, got %s", b.Type)
	}
	if b.Total == nil || *b.Total != 42 {
		t.Error("expected total 42")
	}
	b.AddEntry("urn:uuid:x", map[string]string{"resourceType": "Basic"})
	if len(b.Entry) != 1 {
		t.Errorf("expected 1 entry, got %d", len(b.Entry))
	}
}

func boolPtr(b bool) *bool { return &b }

package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseConcepts(t *testing.T) {
	records := [][]string{
		{"NAMC_CODE", "NAMC_TERM", "native_term"},
		{"AYU-001", "Sandhigata Vata", "सन्धिगत वात"},
		{"AYU-002", "Amlapitta", ""},
		{"", "orphan display", ""},
	}
	concepts, err := ParseConcepts(records)
	if err != nil {
		t.Fatal(err)
	}
	if len(concepts) != 2 {
		t.Fatalf("expected 2 concepts, got %d", len(concepts))
	}
	if concepts[0].Code != "AYU-001" || concepts[0].NativeTerm != "सन्धिगत वात" {
		t.Errorf("unexpected first concept: %+v", concepts[0])
	}
}

func TestParseConceptsMissingColumn(t *testing.T) {
	records := [][]string{
		{"something", "else"},
		{"a", "b"},
	}
	if _, err := ParseConcepts(records); err == nil {
		t.Error("expected error for missing code column")
	}
}

func TestParseMappings(t *testing.T) {
	records := [][]string{
		{"namc_code", "icd_code", "icd_title", "similarity_score"},
		{"AYU-001", "FA01", "Osteoarthritis", "0.95"},
		{"AYU-002", "", "", ""},
	}
	mappings, err := ParseMappings(records)
	if err != nil {
		t.Fatal(err)
	}
	if len(mappings) != 2 {
		t.Fatalf("expected 2 mappings, got %d", len(mappings))
	}
	if mappings[0].Confidence == nil || *mappings[0].Confidence != 0.95 {
		t.Errorf("unexpected confidence: %v", mappings[0].Confidence)
	}
	if mappings[1].TargetCode != "" || mappings[1].Confidence != nil {
		t.Errorf("unmapped row must carry no target or score: %+v", mappings[1])
	}
}

func TestParseMappingsBadScore(t *testing.T) {
	records := [][]string{
		{"namc_code", "icd_code", "icd_title", "similarity_score"},
		{"AYU-001", "FA01", "Osteoarthritis", "not-a-number"},
	}
	if _, err := ParseMappings(records); err == nil {
		t.Error("expected error for unparseable score")
	}
}

func TestParseICD11(t *testing.T) {
	records := [][]string{
		{"code", "title", "is_tm2"},
		{"FA01", "Osteoarthritis", "false"},
		{"TM20.01", "Joint pattern disorder (TM2)", "true"},
	}
	codes, err := ParseICD11(records)
	if err != nil {
		t.Fatal(err)
	}
	if len(codes) != 2 {
		t.Fatalf("expected 2 codes, got %d", len(codes))
	}
	if codes[0].IsTM2 || !codes[1].IsTM2 {
		t.Errorf("is_tm2 parsing wrong: %+v", codes)
	}
}

func TestReadCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "concepts.csv")
	content := "code,display,native_term\nAYU-001,Sandhigata Vata,\nAYU-002,\"Amlapitta, chronic\",x\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	records, err := readTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(records))
	}
	if records[2][1] != "Amlapitta, chronic" {
		t.Errorf("quoted field parsed wrong: %q", records[2][1])
	}
}

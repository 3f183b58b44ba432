package stats

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ayushterm/api/internal/domain/mapping"
)

type mockRepo struct {
	concepts   int
	systems    map[string]int
	rows       []MappingRow
	encounters int
}

func (m *mockRepo) CountConcepts(context.Context) (int, error)          { return m.concepts, nil }
func (m *mockRepo) SystemCounts(context.Context) (map[string]int, error) { return m.systems, nil }
func (m *mockRepo) MappingRows(context.Context) ([]MappingRow, error)    { return m.rows, nil }
func (m *mockRepo) CountEncounters(context.Context) (int, error)         { return m.encounters, nil }

func f(v float64) *float64 { return &v }
func str(s string) *string { return &s }

func TestSummarizeBucketsMatchResolver(t *testing.T) {
	rows := []MappingRow{
		{SourceTerm: "Sandhigata Vata", TargetCode: str("FA01"), TargetTitle: str("Osteoarthritis"), Confidence: f(0.95)},
		{SourceTerm: "Amlapitta", TargetCode: str("DA22"), TargetTitle: str("Gastro-oesophageal reflux disease"), Confidence: f(0.7)},
		{SourceTerm: "Gunmam", TargetCode: str("DA61"), TargetTitle: str("Peptic ulcer"), Confidence: f(0.45)},
		{SourceTerm: "Anidra", TargetTitle: nil, Confidence: nil},
	}
	repo := &mockRepo{
		concepts: 10,
		systems:  map[string]int{"ayurveda": 6, "siddha": 3, "unani": 1},
		rows:     rows,
	}
	svc := NewService(repo, nil, 0, zerolog.Nop())

	report, err := svc.Summarize(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	for _, row := range rows {
		label := mapping.Classify(row.Confidence)
		if report.ByEquivalence[label] == 0 {
			t.Errorf("bucket %s missing row classified by resolver logic", label)
		}
	}
	if report.ByEquivalence[mapping.EquivalenceEquivalent] != 1 ||
		report.ByEquivalence[mapping.EquivalenceRelatedTo] != 1 ||
		report.ByEquivalence[mapping.EquivalenceWider] != 1 ||
		report.ByEquivalence[mapping.EquivalenceUnmatched] != 1 {
		t.Errorf("unexpected distribution: %v", report.ByEquivalence)
	}
}

func TestSummarizeExcludesGenericMappings(t *testing.T) {
	repo := &mockRepo{
		concepts: 3,
		systems:  map[string]int{"ayurveda": 3},
		rows: []MappingRow{
			{SourceTerm: "Sandhigata Vata", TargetCode: str("FA01"), TargetTitle: str("Osteoarthritis"), Confidence: f(0.95)},
			{SourceTerm: "disorder", TargetCode: str("MG30"), TargetTitle: str("Chronic pain"), Confidence: f(0.99)},
			{SourceTerm: "Amlapitta", TargetCode: str("DA42.Z"), TargetTitle: str("Gastritis, unspecified"), Confidence: f(0.9)},
		},
	}
	svc := NewService(repo, nil, 0, zerolog.Nop())

	report, err := svc.Summarize(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalMappings != 1 {
		t.Errorf("expected 1 mapping after generic filter, got %d", report.TotalMappings)
	}
}

func TestSummarizeAgreesWithResolverOnTitlelessRow(t *testing.T) {
	row := MappingRow{SourceTerm: "disorder", TargetCode: str("MG30"), TargetTitle: nil, Confidence: f(0.9)}
	repo := &mockRepo{
		concepts: 1,
		systems:  map[string]int{"ayurveda": 1},
		rows:     []MappingRow{row},
	}
	svc := NewService(repo, nil, 0, zerolog.Nop())

	report, err := svc.Summarize(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if mapping.Excluded(row.SourceTerm, row.TargetCode, row.TargetTitle) && report.TotalMappings != 0 {
		t.Errorf("row hidden from resolver results must not be counted, got %d", report.TotalMappings)
	}
	if report.TotalMappings != 0 {
		t.Errorf("generic mapped row with null title should be excluded, got %d", report.TotalMappings)
	}
}

func TestSummarizeCountsUnmappedAsUnmatched(t *testing.T) {
	repo := &mockRepo{
		concepts: 1,
		systems:  map[string]int{"ayurveda": 1},
		rows: []MappingRow{
			{SourceTerm: "Anidra", TargetTitle: nil, Confidence: nil},
		},
	}
	svc := NewService(repo, nil, 0, zerolog.Nop())

	report, err := svc.Summarize(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalMappings != 1 {
		t.Errorf("explicit unmapped row should count, got %d", report.TotalMappings)
	}
	if report.ByEquivalence[mapping.EquivalenceUnmatched] != 1 {
		t.Errorf("unmapped row must land in unmatched bucket: %v", report.ByEquivalence)
	}
}

func TestSummarizeZeroEncounters(t *testing.T) {
	repo := &mockRepo{concepts: 5, systems: map[string]int{"unani": 5}}
	svc := NewService(repo, nil, 0, zerolog.Nop())

	report, err := svc.Summarize(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalEncounters != 0 {
		t.Errorf("expected 0 encounters, got %d", report.TotalEncounters)
	}
	if report.TotalConcepts != 5 {
		t.Errorf("expected 5 concepts, got %d", report.TotalConcepts)
	}
}

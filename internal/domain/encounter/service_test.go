package encounter

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ayushterm/api/internal/domain/mapping"
	"github.com/ayushterm/api/pkg/apperr"
)

type mockRepo struct {
	records []Record
}

func (m *mockRepo) Create(_ context.Context, rec *Record) error {
	m.records = append(m.records, *rec)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]Record, error) {
	if offset > len(m.records) {
		return nil, nil
	}
	out := m.records[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Record, error) {
	for _, r := range m.records {
		if r.ID == id {
			rec := r
			return &rec, nil
		}
	}
	return nil, nil
}

type mockResolver struct {
	results map[string][]mapping.Result
}

func (m *mockResolver) Resolve(_ context.Context, code, system string) ([]mapping.Result, error) {
	return m.results[code], nil
}

func str(s string) *string { return &s }
func f(v float64) *float64 { return &v }

func testService() (*Service, *mockRepo) {
	repo := &mockRepo{}
	resolver := &mockResolver{results: map[string][]mapping.Result{
		"AYU-001": {
			{TargetCode: str("FA01"), TargetTitle: str("Osteoarthritis"), Confidence: f(0.95)},
			{TargetCode: str("FA3Z"), TargetTitle: str("Joint pain"), Confidence: f(0.5)},
		},
	}}
	return NewService(repo, resolver, zerolog.Nop()), repo
}

func TestIngestDerivesICD11Codes(t *testing.T) {
	svc, repo := testService()

	rec, err := svc.Ingest(context.Background(), IngestRequest{
		EncounterID: "enc-1",
		PatientID:   "pat-1",
		Codes:       []CodeRef{{System: "ayurveda", Code: "AYU-001"}},
	}, "dr-rao")
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.ICD11Codes) != 1 || rec.ICD11Codes[0] != "FA01" {
		t.Errorf("expected best candidate FA01, got %v", rec.ICD11Codes)
	}
	if rec.CreatedBy != "dr-rao" {
		t.Errorf("expected created_by dr-rao, got %s", rec.CreatedBy)
	}
	if len(repo.records) != 1 {
		t.Errorf("expected 1 stored record, got %d", len(repo.records))
	}
}

func TestIngestUnmappedCode(t *testing.T) {
	svc, _ := testService()

	rec, err := svc.Ingest(context.Background(), IngestRequest{
		EncounterID: "enc-2",
		PatientID:   "pat-2",
		Codes:       []CodeRef{{System: "siddha", Code: "SID-UNKNOWN"}},
	}, "dr-rao")
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.ICD11Codes) != 0 {
		t.Errorf("expected no ICD-11 codes, got %v", rec.ICD11Codes)
	}
	if len(rec.AyushCodes) != 1 {
		t.Errorf("ayush code must still be recorded: %v", rec.AyushCodes)
	}
}

func TestIngestValidation(t *testing.T) {
	svc, _ := testService()

	cases := []IngestRequest{
		{PatientID: "p", Codes: []CodeRef{{Code: "X"}}},
		{EncounterID: "e", Codes: []CodeRef{{Code: "X"}}},
		{EncounterID: "e", PatientID: "p"},
		{EncounterID: "e", PatientID: "p", Codes: []CodeRef{{Code: " "}}},
	}
	for i, req := range cases {
		if _, err := svc.Ingest(context.Background(), req, "u"); !apperr.IsKind(err, apperr.KindInvalidArgument) {
			t.Errorf("case %d: expected invalid argument, got %v", i, err)
		}
	}
}

func TestGetNotFound(t *testing.T) {
	svc, _ := testService()
	_, err := svc.Get(context.Background(), uuid.New())
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestIngestAppendOnly(t *testing.T) {
	svc, repo := testService()

	for i := 0; i < 3; i++ {
		_, err := svc.Ingest(context.Background(), IngestRequest{
			EncounterID: "enc",
			PatientID:   "pat",
			Codes:       []CodeRef{{System: "ayurveda", Code: "AYU-001"}},
		}, "u")
		if err != nil {
			t.Fatal(err)
		}
	}
	if len(repo.records) != 3 {
		t.Errorf("expected 3 appended records, got %d", len(repo.records))
	}
	ids := map[uuid.UUID]bool{}
	for _, r := range repo.records {
		ids[r.ID] = true
	}
	if len(ids) != 3 {
		t.Error("record ids must be unique")
	}
}

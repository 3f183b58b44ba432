package encounter

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Record is one ingested clinical encounter with dual coding. Records are
// append-only: created once, never mutated, retained for audit.
type Record struct {
	ID          uuid.UUID       `json:"id"`
	EncounterID string          `json:"encounter_id"`
	PatientID   string          `json:"patient_id"`
	AyushCodes  []string        `json:"ayush_codes"`
	ICD11Codes  []string        `json:"icd11_codes"`
	FHIRBundle  json.RawMessage `json:"fhir_bundle"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CodeRef names one traditional-medicine code in an ingest request.
type CodeRef struct {
	System string `json:"system"`
	Code   string `json:"code"`
}

// IngestRequest is the payload for recording an encounter.
type IngestRequest struct {
	EncounterID string          `json:"encounter_id"`
	PatientID   string          `json:"patient_id"`
	Codes       []CodeRef       `json:"codes"`
	FHIRBundle  json.RawMessage `json:"fhir_bundle"`
}

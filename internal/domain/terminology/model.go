package terminology

import "github.com/ayushterm/api/internal/domain/mapping"

// Traditional medicine systems served by this terminology.
const (
	SystemAyurveda = "ayurveda"
	SystemSiddha   = "siddha"
	SystemUnani    = "unani"
)

// CodeSystem URIs for the traditional systems and the ICD-11 target.
const (
	AyurvedaURI = "http://namaste.gov.in/fhir/CodeSystem/ayurveda"
	SiddhaURI   = "http://namaste.gov.in/fhir/CodeSystem/siddha"
	UnaniURI    = "http://namaste.gov.in/fhir/CodeSystem/unani"
	ICD11URI    = "http://id.who.int/icd/release/11/mms"
)

// KnownSystem reports whether a system name is one of the served systems.
func KnownSystem(system string) bool {
	switch system {
	case SystemAyurveda, SystemSiddha, SystemUnani:
		return true
	}
	return false
}

// SystemURI returns the CodeSystem URI for a system name, or empty.
func SystemURI(system string) string {
	switch system {
	case SystemAyurveda:
		return AyurvedaURI
	case SystemSiddha:
		return SiddhaURI
	case SystemUnani:
		return UnaniURI
	}
	return ""
}

// Concept is one traditional-medicine terminology entry. Rows are loaded once
// and never mutated during normal operation.
type Concept struct {
	Code       string `json:"code"`
	Display    string `json:"display"`
	NativeTerm string `json:"native_term,omitempty"`
	System     string `json:"system"`
}

// ICD11Code is one WHO ICD-11 classification entry.
type ICD11Code struct {
	Code  string `json:"code"`
	Title string `json:"title"`
	IsTM2 bool   `json:"is_tm2"`
}

// EnrichedConcept is a concept together with its resolved mapping candidates,
// best candidate first.
type EnrichedConcept struct {
	Concept
	Mappings []mapping.Result `json:"mappings"`
}

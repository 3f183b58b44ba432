package mapping

// Equivalence labels for a mapping candidate.
const (
	EquivalenceEquivalent = "equivalent"
	EquivalenceRelatedTo  = "relatedto"
	EquivalenceWider      = "wider"
	EquivalenceUnmatched  = "unmatched"
)

// Mapping is a denormalized candidate row joining a source concept with an
// ICD-11 target. Target fields and confidence are null together for concepts
// that were never mapped. EquivalenceHint is the curator-supplied label from
// the source data, distinct from the computed classification.
type Mapping struct {
	SourceCode      string   `json:"source_code"`
	SourceTerm      string   `json:"source_term"`
	OriginalTerm    string   `json:"original_term,omitempty"`
	System          string   `json:"system"`
	TargetCode      *string  `json:"target_code"`
	TargetTitle     *string  `json:"target_title"`
	Confidence      *float64 `json:"confidence"`
	EquivalenceHint *string  `json:"equivalence_hint,omitempty"`
}

// Result is a resolved mapping candidate ready for presentation.
type Result struct {
	SourceCode      string   `json:"source_code"`
	SourceTerm      string   `json:"source_term"`
	OriginalTerm    string   `json:"original_term,omitempty"`
	System          string   `json:"system"`
	TargetCode      *string  `json:"target_code"`
	TargetTitle     *string  `json:"target_title"`
	Confidence      *float64 `json:"confidence"`
	Equivalence     string   `json:"equivalence"`
	EquivalenceHint *string  `json:"equivalence_hint,omitempty"`
	ClinicalNote    string   `json:"clinical_note"`
}

// ListFilter narrows a cross-system mapping listing.
type ListFilter struct {
	System        string
	MinConfidence float64
	Equivalence   string
	Limit         int
	Offset        int
}

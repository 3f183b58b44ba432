package stats

// Report summarizes the whole terminology and mapping corpus.
type Report struct {
	TotalConcepts   int            `json:"total_concepts"`
	TotalMappings   int            `json:"total_mappings"`
	TotalEncounters int            `json:"total_encounters"`
	BySystem        map[string]int `json:"system_distribution"`
	ByEquivalence   map[string]int `json:"equivalence_distribution"`
}

// MappingRow is the slice of a stored mapping the aggregator classifies. It
// carries the same fields the resolver's exclusion gate inspects.
type MappingRow struct {
	SourceTerm  string
	TargetCode  *string
	TargetTitle *string
	Confidence  *float64
}

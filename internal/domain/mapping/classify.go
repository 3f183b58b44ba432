package mapping

import (
	"fmt"
	"strings"
)

// Confidence thresholds for equivalence classification. These cut points are
// the single source of truth; every call path classifies through Classify.
const (
	thresholdEquivalent = 0.8
	thresholdRelatedTo  = 0.6
	thresholdWider      = 0.4
)

// ExpertReviewNote is returned for concepts with no ICD-11 target.
const ExpertReviewNote = "No ICD-11 mapping available for this concept. Expert review is required."

// Classify assigns an equivalence label from a confidence score. A nil
// confidence always classifies as unmatched.
func Classify(confidence *float64) string {
	if confidence == nil {
		return EquivalenceUnmatched
	}
	switch {
	case *confidence >= thresholdEquivalent:
		return EquivalenceEquivalent
	case *confidence >= thresholdRelatedTo:
		return EquivalenceRelatedTo
	case *confidence >= thresholdWider:
		return EquivalenceWider
	default:
		return EquivalenceUnmatched
	}
}

var genericSourceTerms = map[string]bool{
	"disorder":    true,
	"disease":     true,
	"condition":   true,
	"-":           true,
	"unspecified": true,
	"other":       true,
	"general":     true,
	"various":     true,
	"multiple":    true,
}

var genericTargetPatterns = []string{
	"unspecified",
	"other specified",
	"not otherwise specified",
	"not elsewhere classified",
	", unspecified",
	", other",
}

// IsGeneric reports whether a candidate pairs a vague source term or a
// catch-all ICD-11 title and should be excluded from results. The source
// vocabulary matches whole trimmed terms only; multi-word terms that merely
// contain a vague word ("Vata disorder") are kept.
func IsGeneric(sourceTerm, targetTitle string) bool {
	source := strings.ToLower(strings.TrimSpace(sourceTerm))
	if genericSourceTerms[source] {
		return true
	}

	target := strings.ToLower(targetTitle)
	for _, pattern := range genericTargetPatterns {
		if strings.Contains(target, pattern) {
			return true
		}
	}
	if strings.HasSuffix(target, ", unspecified") || strings.HasSuffix(target, ", other") {
		return true
	}
	return false
}

// Excluded is the single gate deciding whether a stored candidate row is
// hidden from user-facing results and counts. Explicit unmapped rows (nil
// target code) always pass through; only mapped rows are subject to the
// generic filter. Every read path must go through this function so listings
// and statistics can never disagree.
func Excluded(sourceTerm string, targetCode, targetTitle *string) bool {
	if targetCode == nil {
		return false
	}
	title := ""
	if targetTitle != nil {
		title = *targetTitle
	}
	return IsGeneric(sourceTerm, title)
}

// equivalenceBounds returns the half-open confidence interval [lo, hi) an
// equivalence label covers, derived from the same threshold constants Classify
// uses. A nil bound is open-ended. ok is false for unknown labels.
func equivalenceBounds(label string) (lo, hi *float64, ok bool) {
	eq, rel, wid := thresholdEquivalent, thresholdRelatedTo, thresholdWider
	switch label {
	case EquivalenceEquivalent:
		return &eq, nil, true
	case EquivalenceRelatedTo:
		return &rel, &eq, true
	case EquivalenceWider:
		return &wid, &rel, true
	case EquivalenceUnmatched:
		return nil, &wid, true
	}
	return nil, nil, false
}

var systemInsights = map[string]string{
	"ayurveda": "Consider traditional Ayurvedic diagnostic principles and constitutional factors.",
	"siddha":   "Evaluate based on Siddha medicine's tridosha and bodily constituent assessment.",
	"unani":    "Apply Unani medicine's temperament (mizaj) and humoral balance principles.",
}

// ClinicalNote synthesizes a human-readable note for a mapped candidate.
// Concepts with no target get the fixed expert review note.
func ClinicalNote(sourceTerm, system, targetTitle string, confidence *float64) string {
	if confidence == nil || targetTitle == "" {
		return ExpertReviewNote
	}

	var tier, relationship string
	switch {
	case *confidence >= thresholdEquivalent:
		tier = "High confidence mapping"
		relationship = "Strong clinical correlation"
	case *confidence >= thresholdRelatedTo:
		tier = "Moderate confidence mapping"
		relationship = "Good clinical alignment"
	case *confidence >= thresholdWider:
		tier = "Fair confidence mapping"
		relationship = "Partial clinical overlap"
	default:
		tier = "Low confidence mapping"
		relationship = "Limited clinical correlation"
	}

	insight := systemInsights[strings.ToLower(system)]

	note := fmt.Sprintf("%s (score: %.2f). %s between '%s' and '%s'.",
		tier, *confidence, relationship, sourceTerm, targetTitle)
	if insight != "" {
		note += " " + insight
	}
	return note
}

package mapping

import (
	"strings"
	"testing"
)

func f(v float64) *float64 { return &v }

func TestClassifyThresholds(t *testing.T) {
	tests := []struct {
		name       string
		confidence *float64
		want       string
	}{
		{"high score", f(0.95), EquivalenceEquivalent},
		{"exact equivalent boundary", f(0.8), EquivalenceEquivalent},
		{"related", f(0.7), EquivalenceRelatedTo},
		{"exact related boundary", f(0.6), EquivalenceRelatedTo},
		{"wider", f(0.45), EquivalenceWider},
		{"exact wider boundary", f(0.4), EquivalenceWider},
		{"below all thresholds", f(0.39), EquivalenceUnmatched},
		{"zero", f(0), EquivalenceUnmatched},
		{"nil confidence", nil, EquivalenceUnmatched},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.confidence); got != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", tt.confidence, got, tt.want)
			}
		})
	}
}

func TestClassifyMonotonic(t *testing.T) {
	rank := map[string]int{
		EquivalenceUnmatched:  0,
		EquivalenceWider:      1,
		EquivalenceRelatedTo:  2,
		EquivalenceEquivalent: 3,
	}
	prev := -1
	for c := 0.0; c <= 1.0; c += 0.05 {
		v := c
		r := rank[Classify(&v)]
		if r < prev {
			t.Fatalf("classification rank decreased at confidence %.2f", c)
		}
		prev = r
	}
}

func TestIsGenericSourceTerms(t *testing.T) {
	generics := []string{"disorder", "Disease", " condition ", "-", "unspecified", "other", "general", "various", "multiple"}
	for _, term := range generics {
		if !IsGeneric(term, "Irritable bowel syndrome") {
			t.Errorf("expected %q to be generic", term)
		}
	}
	if IsGeneric("Grahani Roga", "Irritable bowel syndrome") {
		t.Error("specific term flagged as generic")
	}
	if IsGeneric("Vata disorder", "Osteoarthritis") {
		t.Error("multi-word term containing a vague word flagged as generic")
	}
}

func TestIsGenericTargetTitles(t *testing.T) {
	if !IsGeneric("Sandhigata Vata", "Osteoarthritis, unspecified") {
		t.Error("expected trailing ', unspecified' title to be generic")
	}
	if IsGeneric("Sandhigata Vata", "Osteoarthritis") {
		t.Error("plain title flagged as generic")
	}
	if !IsGeneric("Amlapitta", "Other specified diseases of the digestive system") {
		t.Error("expected 'other specified' title to be generic")
	}
	if !IsGeneric("Vatarakta", "Gout, not elsewhere classified") {
		t.Error("expected 'not elsewhere classified' title to be generic")
	}
}

func TestExcludedGate(t *testing.T) {
	code := "MG30"
	title := "Chronic pain"

	if Excluded("Anidra", nil, nil) {
		t.Error("explicit unmapped row must never be excluded")
	}
	if Excluded("disorder", nil, nil) {
		t.Error("unmapped row passes even with a generic source term")
	}
	if !Excluded("disorder", &code, nil) {
		t.Error("mapped row with generic source term must be excluded even without a title")
	}
	if Excluded("Sandhigata Vata", &code, nil) {
		t.Error("specific mapped row without a title must be kept")
	}
	if !Excluded("disorder", &code, &title) {
		t.Error("mapped row with generic source term must be excluded")
	}
}

func TestEquivalenceBoundsMatchClassify(t *testing.T) {
	labels := []string{
		EquivalenceEquivalent,
		EquivalenceRelatedTo,
		EquivalenceWider,
		EquivalenceUnmatched,
	}
	for c := 0.0; c <= 1.0; c += 0.01 {
		score := c
		got := Classify(&score)
		for _, label := range labels {
			lo, hi, ok := equivalenceBounds(label)
			if !ok {
				t.Fatalf("no bounds for label %s", label)
			}
			inRange := (lo == nil || score >= *lo) && (hi == nil || score < *hi)
			if inRange != (got == label) {
				t.Fatalf("bounds for %s disagree with Classify at %.2f (classified %s)", label, score, got)
			}
		}
	}
	if _, _, ok := equivalenceBounds("nonsense"); ok {
		t.Error("unknown label must report no bounds")
	}
}

func TestClinicalNoteTiers(t *testing.T) {
	tests := []struct {
		confidence float64
		wantTier   string
	}{
		{0.95, "High confidence mapping"},
		{0.7, "Moderate confidence mapping"},
		{0.5, "Fair confidence mapping"},
		{0.2, "Low confidence mapping"},
	}
	for _, tt := range tests {
		note := ClinicalNote("Grahani", "ayurveda", "Irritable bowel syndrome", f(tt.confidence))
		if !strings.HasPrefix(note, tt.wantTier) {
			t.Errorf("note for %.2f = %q, want prefix %q", tt.confidence, note, tt.wantTier)
		}
	}
}

func TestClinicalNoteContents(t *testing.T) {
	note := ClinicalNote("Grahani", "ayurveda", "Irritable bowel syndrome", f(0.95))
	if !strings.Contains(note, "(score: 0.95)") {
		t.Errorf("note missing score: %q", note)
	}
	if !strings.Contains(note, "'Grahani'") || !strings.Contains(note, "'Irritable bowel syndrome'") {
		t.Errorf("note missing terms: %q", note)
	}
	if !strings.Contains(note, "Ayurvedic diagnostic principles") {
		t.Errorf("note missing system insight: %q", note)
	}

	siddha := ClinicalNote("Gunmam", "Siddha", "Peptic ulcer", f(0.7))
	if !strings.Contains(siddha, "tridosha") {
		t.Errorf("siddha note missing insight: %q", siddha)
	}
}

func TestClinicalNoteUnmapped(t *testing.T) {
	if got := ClinicalNote("Anidra", "ayurveda", "", nil); got != ExpertReviewNote {
		t.Errorf("unmapped note = %q, want fixed expert review note", got)
	}
}

func TestClinicalNotePure(t *testing.T) {
	a := ClinicalNote("Grahani", "ayurveda", "Irritable bowel syndrome", f(0.8))
	b := ClinicalNote("Grahani", "ayurveda", "Irritable bowel syndrome", f(0.8))
	if a != b {
		t.Error("identical inputs produced different notes")
	}
}

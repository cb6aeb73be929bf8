package screening

// SuicidalIdeationItem is the zero-based PHQ-9 item inspected for crisis indicators.
const SuicidalIdeationItem = 8

// DetectSafetyFlag reports whether the PHQ-9 self-harm item was endorsed at all.
// It is independent of the PHQ-9 total.
func DetectSafetyFlag(phq9 []int) bool {
	return len(phq9) > SuicidalIdeationItem && phq9[SuicidalIdeationItem] > 0
}

package screening

// Thresholds holds one minimum raw score per instrument.
type Thresholds struct {
	PHQ9  int
	GAD7  int
	PSS10 int
	GHQ12 int
}

func (t Thresholds) min(code Instrument) int {
	switch code {
	case PHQ9:
		return t.PHQ9
	case GAD7:
		return t.GAD7
	case PSS10:
		return t.PSS10
	case GHQ12:
		return t.GHQ12
	}
	return 0
}

var (
	// CrisisThresholds escalate straight to CRISIS_ALERT when any one is met.
	CrisisThresholds = Thresholds{PHQ9: 20, GAD7: 15, PSS10: 35, GHQ12: 10}
	// HighThresholds count towards highCount.
	HighThresholds = Thresholds{PHQ9: 15, GAD7: 10, PSS10: 27, GHQ12: 7}
	// ModerateThresholds count towards moderateCount. They overlap HighThresholds:
	// an instrument at or above its high bar is counted by both.
	ModerateThresholds = Thresholds{PHQ9: 10, GAD7: 5, PSS10: 20, GHQ12: 4}
)

// CountMeeting returns how many instruments reach their threshold in t.
func CountMeeting(results Results, t Thresholds) int {
	n := 0
	for _, code := range Instruments {
		if results.For(code).RawScore >= t.min(code) {
			n++
		}
	}
	return n
}

// Aggregate combines the instrument results and the safety flag into the
// overall triage category. Crisis checks run first and short-circuit.
func Aggregate(results Results, safetyFlag bool) TriageCategory {
	if safetyFlag || CountMeeting(results, CrisisThresholds) > 0 {
		return TriageCrisisAlert
	}
	highCount := CountMeeting(results, HighThresholds)
	moderateCount := CountMeeting(results, ModerateThresholds)
	switch {
	case highCount >= 2:
		return TriageHigh
	case highCount >= 1 || moderateCount >= 3:
		return TriageModerate
	default:
		return TriageLow
	}
}

// Evaluate validates and scores a response set and aggregates the outcome.
func Evaluate(set ResponseSet) (TriageOutcome, error) {
	if err := ValidateSet(set); err != nil {
		return TriageOutcome{}, err
	}
	results, err := ScoreAll(set)
	if err != nil {
		return TriageOutcome{}, err
	}
	flag := DetectSafetyFlag(set.PHQ9)
	return TriageOutcome{
		OverallCategory:   Aggregate(results, flag),
		SafetyFlag:        flag,
		InstrumentResults: results,
	}, nil
}

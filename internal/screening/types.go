package screening

// ResponseSet holds one ordered response sequence per instrument.
type ResponseSet struct {
	PHQ9  []int `json:"phq9" yaml:"phq9"`
	GAD7  []int `json:"gad7" yaml:"gad7"`
	PSS10 []int `json:"pss10" yaml:"pss10"`
	GHQ12 []int `json:"ghq12" yaml:"ghq12"`
}

// For returns the responses recorded for code.
func (r ResponseSet) For(code Instrument) []int {
	switch code {
	case PHQ9:
		return r.PHQ9
	case GAD7:
		return r.GAD7
	case PSS10:
		return r.PSS10
	case GHQ12:
		return r.GHQ12
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate a submitted set.
func (r ResponseSet) Clone() ResponseSet {
	return ResponseSet{
		PHQ9:  append([]int(nil), r.PHQ9...),
		GAD7:  append([]int(nil), r.GAD7...),
		PSS10: append([]int(nil), r.PSS10...),
		GHQ12: append([]int(nil), r.GHQ12...),
	}
}

// InstrumentResult is the scored outcome of one instrument.
type InstrumentResult struct {
	RawScore      int      `json:"raw_score"`
	MaxScore      int      `json:"max_score"`
	Category      Category `json:"category"`
	SeverityLevel int      `json:"severity_level"`
}

// Results groups the four instrument results.
type Results struct {
	PHQ9  InstrumentResult `json:"phq9"`
	GAD7  InstrumentResult `json:"gad7"`
	PSS10 InstrumentResult `json:"pss10"`
	GHQ12 InstrumentResult `json:"ghq12"`
}

// For returns the result recorded for code.
func (r Results) For(code Instrument) InstrumentResult {
	switch code {
	case PHQ9:
		return r.PHQ9
	case GAD7:
		return r.GAD7
	case PSS10:
		return r.PSS10
	case GHQ12:
		return r.GHQ12
	}
	return InstrumentResult{}
}

func (r *Results) set(code Instrument, res InstrumentResult) {
	switch code {
	case PHQ9:
		r.PHQ9 = res
	case GAD7:
		r.GAD7 = res
	case PSS10:
		r.PSS10 = res
	case GHQ12:
		r.GHQ12 = res
	}
}

// TriageCategory is the single overall label driving recommendations.
type TriageCategory string

const (
	TriageLow         TriageCategory = "LOW"
	TriageModerate    TriageCategory = "MODERATE"
	TriageHigh        TriageCategory = "HIGH"
	TriageCrisisAlert TriageCategory = "CRISIS_ALERT"
)

// TriageOutcome is what the student and counselor see for a session.
type TriageOutcome struct {
	OverallCategory   TriageCategory `json:"overall_category"`
	SafetyFlag        bool           `json:"safety_flag"`
	InstrumentResults Results        `json:"instrument_results"`
}

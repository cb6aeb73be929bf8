package screening

import "fmt"

// ReverseScore maps a response onto its mirror within [lo, hi],
// e.g. 1 -> 3 on a 0..4 scale. Out-of-range values are clamped first.
func ReverseScore(raw, lo, hi int) int {
	if hi <= lo {
		return raw
	}
	if raw < lo {
		raw = lo
	}
	if raw > hi {
		raw = hi
	}
	return lo + hi - raw
}

// Validate checks the length and value range of one response sequence.
func Validate(code Instrument, responses []int) error {
	def, ok := Lookup(code)
	if !ok {
		return &ValidationError{Instrument: code, Constraint: ConstraintUnknownInstrument, Index: -1}
	}
	if len(responses) != def.Questions {
		return &ValidationError{
			Instrument: code,
			Constraint: ConstraintLength,
			Index:      -1,
			Got:        len(responses),
			Want:       fmt.Sprintf("%d", def.Questions),
		}
	}
	for i, v := range responses {
		if v < def.MinValue || v > def.MaxValue {
			return &ValidationError{
				Instrument: code,
				Constraint: ConstraintRange,
				Index:      i,
				Got:        v,
				Want:       fmt.Sprintf("%d-%d", def.MinValue, def.MaxValue),
			}
		}
	}
	return nil
}

// ValidateSet validates all four sequences, reporting the first failure
// in submission order.
func ValidateSet(set ResponseSet) error {
	for _, code := range Instruments {
		if err := Validate(code, set.For(code)); err != nil {
			return err
		}
	}
	return nil
}

// ItemScores returns the per-item contribution to the raw score after
// reverse scoring and binarization. Responses must already be valid.
func ItemScores(def Definition, responses []int) []int {
	out := make([]int, len(responses))
	for i, v := range responses {
		switch {
		case def.IsReversed(i):
			v = ReverseScore(v, def.MinValue, def.MaxValue)
		case def.BinarizeAt > 0:
			if v >= def.BinarizeAt {
				v = 1
			} else {
				v = 0
			}
		}
		out[i] = v
	}
	return out
}

// Score converts one instrument's responses into its result.
func Score(code Instrument, responses []int) (InstrumentResult, error) {
	if err := Validate(code, responses); err != nil {
		return InstrumentResult{}, err
	}
	def, _ := Lookup(code)
	raw := 0
	for _, v := range ItemScores(def, responses) {
		raw += v
	}
	return InstrumentResult{
		RawScore:      raw,
		MaxScore:      def.MaxScore,
		Category:      def.Categorize(raw),
		SeverityLevel: raw / def.BucketSize,
	}, nil
}

// ScoreAll scores every instrument in the set.
func ScoreAll(set ResponseSet) (Results, error) {
	var out Results
	for _, code := range Instruments {
		res, err := Score(code, set.For(code))
		if err != nil {
			return Results{}, err
		}
		out.set(code, res)
	}
	return out, nil
}

package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func results(phq9, gad7, pss10, ghq12 int) Results {
	return Results{
		PHQ9:  InstrumentResult{RawScore: phq9},
		GAD7:  InstrumentResult{RawScore: gad7},
		PSS10: InstrumentResult{RawScore: pss10},
		GHQ12: InstrumentResult{RawScore: ghq12},
	}
}

func TestDetectSafetyFlag(t *testing.T) {
	assert.False(t, DetectSafetyFlag([]int{3, 3, 3, 3, 3, 3, 3, 3, 0}), "item 9 at zero never flags")
	assert.True(t, DetectSafetyFlag([]int{0, 0, 0, 0, 0, 0, 0, 0, 1}))
	assert.True(t, DetectSafetyFlag([]int{0, 0, 0, 0, 0, 0, 0, 0, 3}))
	assert.False(t, DetectSafetyFlag([]int{1, 1, 1}))
	assert.False(t, DetectSafetyFlag(nil))
}

func TestAggregate(t *testing.T) {
	cases := []struct {
		name string
		in   Results
		flag bool
		want TriageCategory
	}{
		{"all zero", results(0, 0, 0, 0), false, TriageLow},
		{"safety flag alone", results(0, 0, 0, 0), true, TriageCrisisAlert},
		{"phq9 crisis", results(20, 0, 0, 0), false, TriageCrisisAlert},
		{"gad7 crisis", results(0, 15, 0, 0), false, TriageCrisisAlert},
		{"pss10 crisis", results(0, 0, 35, 0), false, TriageCrisisAlert},
		{"ghq12 crisis", results(0, 0, 0, 10), false, TriageCrisisAlert},
		{"just below every crisis bar", results(19, 14, 34, 9), false, TriageHigh},
		{"two high", results(15, 10, 0, 0), false, TriageHigh},
		{"two high pss ghq", results(0, 0, 27, 7), false, TriageHigh},
		{"one high", results(15, 0, 0, 0), false, TriageModerate},
		{"three moderate", results(10, 5, 20, 0), false, TriageModerate},
		{"two moderate", results(10, 5, 0, 0), false, TriageLow},
		{"moderate bars minus one", results(9, 4, 19, 3), false, TriageLow},
		{"high counts toward moderate too", results(16, 5, 20, 0), false, TriageModerate},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Aggregate(c.in, c.flag))
		})
	}
}

func TestAggregateIsIdempotent(t *testing.T) {
	in := results(12, 9, 24, 5)
	first := Aggregate(in, false)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Aggregate(in, false))
	}
}

func TestCountMeetingUsesOwnThresholds(t *testing.T) {
	in := results(16, 11, 28, 8)
	assert.Equal(t, 4, CountMeeting(in, HighThresholds))
	assert.Equal(t, 4, CountMeeting(in, ModerateThresholds))
	assert.Equal(t, 0, CountMeeting(in, CrisisThresholds))
}

func TestEvaluateSafetyItemOnlyIsCrisis(t *testing.T) {
	set := validSet()
	set.PHQ9 = []int{0, 0, 0, 0, 0, 0, 0, 0, 1}
	out, err := Evaluate(set)
	require.NoError(t, err)
	assert.True(t, out.SafetyFlag)
	assert.Equal(t, CategoryMinimal, out.InstrumentResults.PHQ9.Category)
	assert.Equal(t, TriageCrisisAlert, out.OverallCategory)
}

func TestEvaluateMaxPHQ9IsCrisisRegardlessOfOthers(t *testing.T) {
	maxPHQ9 := []int{3, 3, 3, 3, 3, 3, 3, 3, 3}
	sets := []ResponseSet{
		{PHQ9: maxPHQ9, GAD7: validSet().GAD7, PSS10: validSet().PSS10, GHQ12: validSet().GHQ12},
		{
			PHQ9:  maxPHQ9,
			GAD7:  []int{1, 1, 1, 1, 1, 1, 1},
			PSS10: []int{2, 2, 2, 2, 2, 2, 2, 2, 2, 2},
			GHQ12: []int{1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2},
		},
	}
	for _, set := range sets {
		out, err := Evaluate(set)
		require.NoError(t, err)
		assert.Equal(t, 27, out.InstrumentResults.PHQ9.RawScore)
		assert.True(t, out.SafetyFlag)
		assert.Equal(t, TriageCrisisAlert, out.OverallCategory)

		recs := Recommend(out.OverallCategory, out.SafetyFlag)
		require.NotEmpty(t, recs)
		assert.True(t, recs[0].IsUrgent)
	}
}

func TestEvaluateRejectsInvalidSet(t *testing.T) {
	set := validSet()
	set.GAD7 = append(set.GAD7, 0)
	_, err := Evaluate(set)
	require.Error(t, err)
}

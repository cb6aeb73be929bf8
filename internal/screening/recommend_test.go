package screening

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type recShape struct {
	Type     RecommendationType
	Priority int
	Urgent   bool
}

func shapes(recs []Recommendation) []recShape {
	out := make([]recShape, 0, len(recs))
	for _, r := range recs {
		out = append(out, recShape{Type: r.Type, Priority: r.Priority, Urgent: r.IsUrgent})
	}
	return out
}

func TestRecommend(t *testing.T) {
	cases := []struct {
		name     string
		category TriageCategory
		flag     bool
		want     []recShape
	}{
		{
			name:     "crisis with safety flag",
			category: TriageCrisisAlert,
			flag:     true,
			want: []recShape{
				{RecCrisisSupport, 1, true},
				{RecEmergencyResources, 1, true},
				{RecCounseling, 2, true},
			},
		},
		{
			name:     "crisis by score",
			category: TriageCrisisAlert,
			want: []recShape{
				{RecCrisisSupport, 1, true},
				{RecEmergencyResources, 1, true},
				{RecCounseling, 2, true},
			},
		},
		{
			name:     "high",
			category: TriageHigh,
			want: []recShape{
				{RecCounseling, 2, false},
				{RecMentalHealth, 3, false},
				{RecPeerSupport, 4, false},
			},
		},
		{
			name:     "moderate",
			category: TriageModerate,
			want: []recShape{
				{RecMentalHealth, 3, false},
				{RecPeerSupport, 4, false},
			},
		},
		{
			name:     "low",
			category: TriageLow,
			want: []recShape{
				{RecMaintainWellbeing, 3, false},
				{RecPreventiveCare, 4, false},
			},
		},
		{
			name:     "safety flag on a low category",
			category: TriageLow,
			flag:     true,
			want: []recShape{
				{RecCrisisSupport, 1, true},
				{RecEmergencyResources, 1, true},
				{RecMaintainWellbeing, 3, false},
				{RecPreventiveCare, 4, false},
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Recommend(c.category, c.flag)
			if diff := cmp.Diff(c.want, shapes(got)); diff != "" {
				t.Fatalf("Recommend(%s, %v) mismatch (-want +got):\n%s", c.category, c.flag, diff)
			}
			for _, r := range got {
				if r.Title == "" || r.Description == "" || r.ActionURL == "" {
					t.Fatalf("recommendation %s missing copy: %+v", r.Type, r)
				}
			}
		})
	}
}

func TestRecommendReturnsFreshSlices(t *testing.T) {
	a := Recommend(TriageLow, false)
	a[0].Title = "changed"
	b := Recommend(TriageLow, false)
	if b[0].Title == "changed" {
		t.Fatalf("Recommend shares state between calls")
	}
}

package services

import (
	"strings"
	"testing"
)

func TestReportMarkdown(t *testing.T) {
	in := calmResponses()
	in.PHQ9 = []int{0, 0, 0, 0, 0, 0, 0, 0, 1}
	sess := evaluatedSession(t, "S1", "U1", in, fixedNow)

	md := ReportMarkdown(sess, "en")
	for _, want := range []string{
		"**Overall: CRISIS_ALERT**",
		"thoughts of hurting yourself",
		"| PHQ-9 (depression) | 1 / 27 | Minimal |",
		"| GHQ-12 (general distress) | 0 / 12 | No distress |",
		"(/support/crisis) **(urgent)**",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("report missing %q:\n%s", want, md)
		}
	}
}

func TestReportHTML(t *testing.T) {
	sess := evaluatedSession(t, "S1", "U1", calmResponses(), fixedNow)
	html, err := ReportHTML(sess, "fr")
	if err != nil {
		t.Fatalf("ReportHTML returned error: %v", err)
	}
	out := string(html)
	if !strings.Contains(out, "<table>") || !strings.Contains(out, "<h1>Wellbeing screening results</h1>") {
		t.Fatalf("unexpected html:\n%s", out)
	}
	if strings.Contains(out, "thoughts of hurting yourself") {
		t.Fatalf("safety notice should only appear when flagged")
	}
}

func TestReportMarkdownLocalized(t *testing.T) {
	in := calmResponses()
	in.PHQ9 = []int{0, 0, 0, 0, 0, 0, 0, 0, 1}
	sess := evaluatedSession(t, "S1", "U1", in, fixedNow)

	md := ReportMarkdown(sess, "zh")
	localized := LocalizeRecommendations(sess.Recommendations, "zh")
	for _, want := range []string{
		"# 心理健康筛查结果",
		"**总体结果：危机警报**",
		"| PHQ-9（抑郁） | 1 / 27 | 极轻微 |",
		"(/support/crisis) **(紧急)**",
		localized[0].Title,
		"本筛查不构成诊断。",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("report missing %q:\n%s", want, md)
		}
	}
	for _, r := range sess.Recommendations {
		if strings.Contains(md, r.Title) {
			t.Fatalf("english recommendation %q leaked into zh report", r.Title)
		}
	}
}

func TestLocalizeRecommendationsKeepsActions(t *testing.T) {
	sess := evaluatedSession(t, "S1", "U1", calmResponses(), fixedNow)
	got := LocalizeRecommendations(sess.Recommendations, "zh")
	if len(got) != len(sess.Recommendations) {
		t.Fatalf("len = %d, want %d", len(got), len(sess.Recommendations))
	}
	for i, r := range got {
		orig := sess.Recommendations[i]
		if r.Type != orig.Type || r.ActionURL != orig.ActionURL || r.IsUrgent != orig.IsUrgent {
			t.Fatalf("recommendation %d changed beyond copy: %+v", i, r)
		}
		if r.Title == orig.Title {
			t.Fatalf("recommendation %d title not translated", i)
		}
	}
	if en := LocalizeRecommendations(sess.Recommendations, "en"); en[0].Title != sess.Recommendations[0].Title {
		t.Fatalf("english copy should be unchanged")
	}
}

package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/soaringjerry/wellcheck/internal/screening"
	"github.com/soaringjerry/wellcheck/internal/utils"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// LocalizeRecommendations swaps in translated copy where locale has it.
// Types, urgency and action URLs are unchanged.
func LocalizeRecommendations(recs []screening.Recommendation, locale string) []screening.Recommendation {
	out := make([]screening.Recommendation, len(recs))
	copy(out, recs)
	for i := range out {
		prefix := "recommendation." + string(out[i].Type)
		if v, ok := utils.Lookup(locale, prefix+".title"); ok {
			out[i].Title = v
		}
		if v, ok := utils.Lookup(locale, prefix+".description"); ok {
			out[i].Description = v
		}
	}
	return out
}

// ReportMarkdown summarizes one session for its owner in locale, falling
// back to English.
func ReportMarkdown(sess *ScreeningSession, locale string) string {
	tr := func(key string) string { return utils.T(locale, key) }
	overall := string(sess.Outcome.OverallCategory)
	if v, ok := utils.Lookup(locale, "triage."+overall); ok {
		overall = v
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", tr("report.title"))
	fmt.Fprintf(&b, tr("report.completed")+"\n\n", sess.CompletedAt.UTC().Format(time.RFC1123))
	fmt.Fprintf(&b, "**"+tr("report.overall")+"**\n\n", overall)
	if sess.Outcome.SafetyFlag {
		fmt.Fprintf(&b, "> %s\n\n", tr("report.safety"))
	}
	fmt.Fprintf(&b, "| %s | %s | %s |\n|---|---|---|\n", tr("report.col.instrument"), tr("report.col.score"), tr("report.col.result"))
	for _, code := range screening.Instruments {
		res := sess.Outcome.InstrumentResults.For(code)
		fmt.Fprintf(&b, "| %s | %d / %d | %s |\n", tr("report.instrument."+string(code)), res.RawScore, res.MaxScore, categoryLabel(res.Category, locale))
	}
	fmt.Fprintf(&b, "\n## %s\n\n", tr("report.next_steps"))
	for i, r := range LocalizeRecommendations(sess.Recommendations, locale) {
		urgent := ""
		if r.IsUrgent {
			urgent = " **(" + tr("report.urgent") + ")**"
		}
		fmt.Fprintf(&b, "%d. [%s](%s)%s: %s\n", i+1, r.Title, r.ActionURL, urgent, r.Description)
	}
	fmt.Fprintf(&b, "\n%s\n", tr("report.disclaimer"))
	return b.String()
}

// ReportHTML renders ReportMarkdown as HTML.
func ReportHTML(sess *ScreeningSession, locale string) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(ReportMarkdown(sess, locale)), &buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

func categoryLabel(c screening.Category, locale string) string {
	if v, ok := utils.Lookup(locale, "category."+string(c)); ok {
		return v
	}
	return humanize(string(c))
}

func humanize(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soaringjerry/wellcheck/internal/screening"
)

const calmYAML = `
phq9:  [0, 1, 0, 1, 0, 0, 1, 0, 0]
gad7:  [1, 0, 1, 0, 0, 0, 0]
pss10: [1, 1, 1, 3, 3, 1, 3, 3, 1, 1]
ghq12: [0, 1, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0]
`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestScoreYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.yaml")
	require.NoError(t, os.WriteFile(path, []byte(calmYAML), 0o600))

	out, err := run(t, "", "score", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Overall: LOW")
	assert.Contains(t, out, "/resources/wellbeing")
	assert.NotContains(t, out, "\x1b[", "output to a buffer is never coloured")
}

func TestScoreJSONStdin(t *testing.T) {
	in := `{"phq9":[0,0,0,0,0,0,0,0,2],"gad7":[0,0,0,0,0,0,0],"pss10":[0,0,0,4,4,0,4,4,0,0],"ghq12":[0,0,0,0,0,0,0,0,0,0,0,0]}`
	out, err := run(t, in, "score", "-f", "-", "--json")
	require.NoError(t, err)

	var report scoreReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, screening.TriageCrisisAlert, report.Outcome.OverallCategory)
	assert.True(t, report.Outcome.SafetyFlag)
	require.NotEmpty(t, report.Recommendations)
	assert.True(t, report.Recommendations[0].IsUrgent)
}

func TestScoreInvalidResponses(t *testing.T) {
	_, err := run(t, "phq9: [0, 0]\n", "score", "-f", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid responses")
}

func TestScoreRequiresFile(t *testing.T) {
	_, err := run(t, "", "score")
	assert.Error(t, err)
}

func TestRenderReportColour(t *testing.T) {
	set, err := readResponses(strings.NewReader(calmYAML), "-")
	require.NoError(t, err)
	outcome, err := screening.Evaluate(set)
	require.NoError(t, err)

	var buf bytes.Buffer
	renderReport(&buf, scoreReport{Outcome: outcome, Recommendations: screening.Recommend(outcome.OverallCategory, false)}, true)
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestInstrumentsCommand(t *testing.T) {
	out, err := run(t, "", "instruments")
	require.NoError(t, err)
	assert.Contains(t, out, "pss10")
	assert.Contains(t, out, "[reversed]")
}

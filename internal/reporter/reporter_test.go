package reporter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BetterCallFirewall/tupisec/internal/models"
	"github.com/BetterCallFirewall/tupisec/internal/scan"
	"github.com/BetterCallFirewall/tupisec/internal/target"
)

func newTestState(t *testing.T) *scan.State {
	t.Helper()
	tgt, err := target.Parse("https://example.com")
	require.NoError(t, err)
	st, err := scan.New(tgt, "", 0)
	require.NoError(t, err)
	return st
}

func TestBuildSortsFindingsBySeverity(t *testing.T) {
	st := newTestState(t)
	st.Findings.Add(models.SeverityLow, "Info Disclosure", "low title", "d", "r")
	st.Findings.Add(models.SeverityCritical, "SQL Injection", "crit title", "d", "r")
	st.Findings.Add(models.SeverityHigh, "XSS", "high title", "d", "r")

	report := Build(st)
	require.Len(t, report.Findings, 3)
	assert.Equal(t, models.SeverityCritical, report.Findings[0].Severity)
	assert.Equal(t, models.SeverityHigh, report.Findings[1].Severity)
	assert.Equal(t, models.SeverityLow, report.Findings[2].Severity)
}

func TestJSONRoundTripsSummaryAndTarget(t *testing.T) {
	st := newTestState(t)
	st.Findings.Add(models.SeverityHigh, "CORS Misconfiguration", "t", "d", "r")

	report := Build(st)
	data, err := report.JSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "https://example.com", decoded["target"])
	assert.Contains(t, decoded, "summary")
	assert.Contains(t, decoded, "findings")
}

func TestTextContainsBannerAndFindingBlocks(t *testing.T) {
	st := newTestState(t)
	st.Findings.Add(models.SeverityCritical, "SQL Injection", "Injectable parameter", "detail here", "fix here")

	text := Build(st).Text()
	assert.Contains(t, text, "TUPISEC")
	assert.Contains(t, text, "SQL Injection")
	assert.Contains(t, text, "Injectable parameter")
	assert.Contains(t, text, "detail here")
	assert.Contains(t, text, "fix here")
}

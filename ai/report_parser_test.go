package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealscope/domain/report"
)

const wellFormedOutput = `{
	"risk_level": "HIGH",
	"risk_score": 82,
	"executive_summary": "Multiple indicators of escrow fraud around the seller.",
	"verification_status": "PARTIAL - 2 of 3 sources returned evidence",
	"red_flags": [
		{
			"severity": "HIGH",
			"category": "pricing",
			"description": "Asking price is 40% below comparable listings.",
			"evidence": "web_search"
		}
	],
	"party_backgrounds": [
		{
			"party_name": "Jordan Blake",
			"status": "SUSPICIOUS",
			"findings": "Name appears in prior marketplace fraud reports.",
			"recommendations": ["Request government ID verification."]
		}
	],
	"recommendations": ["Do not wire funds before independent escrow confirmation."]
}`

func TestParseWellFormedOutput(t *testing.T) {
	parser := NewReportParser()
	analysis := parser.Parse(wellFormedOutput, []string{"Jordan Blake"}, []string{"company_registry", "web_search"})

	assert.False(t, analysis.Degraded)
	assert.Equal(t, report.RiskHigh, analysis.RiskLevel)
	assert.Equal(t, 82.0, analysis.RiskScore)
	assert.Equal(t, "Multiple indicators of escrow fraud around the seller.", analysis.ExecutiveSummary)
	require.Len(t, analysis.RedFlags, 1)
	assert.Equal(t, report.RiskHigh, analysis.RedFlags[0].Severity)
	require.Len(t, analysis.PartyBackgrounds, 1)
	assert.Equal(t, report.StatusSuspicious, analysis.PartyBackgrounds[0].Status)
	assert.Equal(t, []string{"company_registry", "web_search"}, analysis.SourcesChecked)
}

func TestParseFencedOutput(t *testing.T) {
	parser := NewReportParser()
	fenced := "```json\n" + wellFormedOutput + "\n```"
	analysis := parser.Parse(fenced, nil, nil)

	assert.False(t, analysis.Degraded)
	assert.Equal(t, report.RiskHigh, analysis.RiskLevel)
}

func TestParseChattyOutput(t *testing.T) {
	parser := NewReportParser()
	chatty := "Sure! Here is the assessment you asked for:\n\n" + wellFormedOutput + "\n\nLet me know if you need anything else."
	analysis := parser.Parse(chatty, nil, nil)

	assert.False(t, analysis.Degraded)
	assert.Equal(t, report.RiskHigh, analysis.RiskLevel)
}

func TestParseDegradesOnGarbage(t *testing.T) {
	parser := NewReportParser()
	parties := []string{"Jordan Blake", "Acme Holdings LLC"}
	sources := []string{"web_search"}

	cases := []struct {
		name string
		raw  string
	}{
		{"prose only", "I could not produce a structured assessment for this transaction."},
		{"empty", ""},
		{"truncated json", `{"risk_level": "HIGH", "risk_score": 82, "executive_su`},
		{"wrong enum", `{"risk_level": "SEVERE", "risk_score": 82, "executive_summary": "x"}`},
		{"score out of range", `{"risk_level": "HIGH", "risk_score": 182, "executive_summary": "x"}`},
		{"missing summary", `{"risk_level": "HIGH", "risk_score": 82}`},
		{"bad flag severity", `{"risk_level": "HIGH", "risk_score": 82, "executive_summary": "x", "red_flags": [{"severity": "EXTREME"}]}`},
		{"bad party status", `{"risk_level": "HIGH", "risk_score": 82, "executive_summary": "x", "party_backgrounds": [{"party_name": "a", "status": "UNKNOWN"}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			analysis := parser.Parse(tc.raw, parties, sources)

			assert.True(t, analysis.Degraded)
			assert.Equal(t, report.RiskMedium, analysis.RiskLevel)
			assert.Equal(t, 50.0, analysis.RiskScore)
			require.Len(t, analysis.PartyBackgrounds, len(parties))
			for i, pb := range analysis.PartyBackgrounds {
				assert.Equal(t, parties[i], pb.PartyName)
				assert.Equal(t, report.StatusNeedsReview, pb.Status)
			}
			assert.Equal(t, sources, analysis.SourcesChecked)
		})
	}
}

func TestParseNormalizesEnumCase(t *testing.T) {
	parser := NewReportParser()
	raw := `{"risk_level": "high", "risk_score": 70, "executive_summary": "Findings noted."}`
	analysis := parser.Parse(raw, nil, nil)

	assert.False(t, analysis.Degraded)
	assert.Equal(t, report.RiskHigh, analysis.RiskLevel)
}

func TestParseIsIdempotent(t *testing.T) {
	parser := NewReportParser()
	parties := []string{"Jordan Blake"}
	sources := []string{"web_search"}

	first := parser.Parse(wellFormedOutput, parties, sources)
	second := parser.Parse(wellFormedOutput, parties, sources)
	assert.Equal(t, first, second)

	degradedFirst := parser.Parse("not json at all", parties, sources)
	degradedSecond := parser.Parse("not json at all", parties, sources)
	assert.Equal(t, degradedFirst, degradedSecond)
}

// A parsed analysis must survive the persistence round trip without loss,
// since the stored JSON document is the report of record.
func TestParsedAnalysisRoundTrips(t *testing.T) {
	parser := NewReportParser()
	analysis := parser.Parse(wellFormedOutput, []string{"Jordan Blake"}, []string{"web_search"})

	data, err := json.Marshal(analysis)
	require.NoError(t, err)

	var restored report.Analysis
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, analysis, restored)
}

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`, true},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`, true},
		{"fence without language", "```\n{\"a\": 1}\n```", `{"a": 1}`, true},
		{"surrounding prose", `prefix {"a": 1} suffix`, `{"a": 1}`, true},
		{"nested braces stay greedy", `{"a": {"b": 2}}`, `{"a": {"b": 2}}`, true},
		{"no object", "nothing here", "", false},
		{"only open brace", "{ truncated", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := extractJSONObject(tc.raw)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

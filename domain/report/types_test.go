package report

import (
	"testing"
	"time"

	"dealscope/domain/core"
)

func TestParseRiskLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected RiskLevel
		hasError bool
	}{
		{"LOW", RiskLow, false},
		{"medium", RiskMedium, false},
		{"  High  ", RiskHigh, false},
		{"CRITICAL", RiskCritical, false},
		{"SEVERE", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		result, err := ParseRiskLevel(tt.input)
		if tt.hasError {
			if err == nil {
				t.Errorf("ParseRiskLevel(%q): expected error, got none", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRiskLevel(%q): unexpected error: %v", tt.input, err)
		}
		if result != tt.expected {
			t.Errorf("ParseRiskLevel(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestRiskLevelOrdering(t *testing.T) {
	ordered := []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskCritical}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Rank() >= ordered[i].Rank() {
			t.Errorf("Expected %s to rank below %s", ordered[i-1], ordered[i])
		}
	}
}

func TestParseAssessmentStatus(t *testing.T) {
	if _, err := ParseAssessmentStatus("needs_review"); err != nil {
		t.Errorf("Lowercase status must parse: %v", err)
	}
	if _, err := ParseAssessmentStatus("UNKNOWN"); err == nil {
		t.Error("Out-of-vocabulary status must be rejected")
	}
}

func TestReportExpiry(t *testing.T) {
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rep := Report{CreatedAt: core.NewTimestamp(created)}

	if rep.Expired(created.Add(71 * time.Hour)) {
		t.Error("Report inside the retention window must not be expired")
	}
	if !rep.Expired(created.Add(73 * time.Hour)) {
		t.Error("Report past the retention window must be expired")
	}
}

func TestNewDegraded(t *testing.T) {
	parties := []string{"Jordan Blake", "Acme Holdings LLC"}
	analysis := NewDegraded(parties, []string{"web_search"})

	if !analysis.Degraded {
		t.Error("Degraded analysis must be marked degraded")
	}
	if analysis.RiskLevel != RiskMedium || analysis.RiskScore != 50 {
		t.Errorf("Degraded policy is MEDIUM/50, got %s/%.0f", analysis.RiskLevel, analysis.RiskScore)
	}
	if len(analysis.PartyBackgrounds) != len(parties) {
		t.Fatalf("Expected %d party backgrounds, got %d", len(parties), len(analysis.PartyBackgrounds))
	}
	for i, pb := range analysis.PartyBackgrounds {
		if pb.PartyName != parties[i] {
			t.Errorf("Party name mismatch at %d: %q", i, pb.PartyName)
		}
		if pb.Status != StatusNeedsReview {
			t.Errorf("Every degraded background must be NEEDS_REVIEW, got %s", pb.Status)
		}
	}
	if len(analysis.Recommendations) == 0 {
		t.Error("Degraded analysis must carry manual follow-up recommendations")
	}
}

func TestNewDegradedIsFixed(t *testing.T) {
	first := NewDegraded([]string{"a"}, nil)
	second := NewDegraded([]string{"a"}, nil)
	if first.ExecutiveSummary != second.ExecutiveSummary || first.RiskScore != second.RiskScore {
		t.Error("Degraded output must be identical across invocations")
	}
}

func TestAdvisoryScore(t *testing.T) {
	if got := AdvisoryScore(nil); got != 0 {
		t.Errorf("No flags means no advisory score, got %.2f", got)
	}

	single := AdvisoryScore([]RedFlag{{Severity: RiskCritical}})
	if single != 95 {
		t.Errorf("Single CRITICAL flag scores 95, got %.2f", single)
	}

	// One CRITICAL (95 @ weight 8) against four LOW (20 @ weight 1): the
	// weighted mean must sit far closer to the critical score.
	flags := []RedFlag{
		{Severity: RiskCritical},
		{Severity: RiskLow},
		{Severity: RiskLow},
		{Severity: RiskLow},
		{Severity: RiskLow},
	}
	weighted := AdvisoryScore(flags)
	if weighted < 69.9 || weighted > 70.1 {
		t.Errorf("Expected weighted mean 70, got %.2f", weighted)
	}
}

func TestScoreDivergence(t *testing.T) {
	a := Analysis{
		RiskScore: 90,
		RedFlags:  []RedFlag{{Severity: RiskLow}},
	}
	if got := ScoreDivergence(a); got != 70 {
		t.Errorf("Expected divergence 70, got %.2f", got)
	}

	if got := ScoreDivergence(Analysis{RiskScore: 90}); got != 0 {
		t.Errorf("No flags means no divergence, got %.2f", got)
	}
}

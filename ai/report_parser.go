package ai

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"dealscope/domain/report"
)

// ReportParser validates raw model output against the report schema. It is
// a pure function of its inputs: the same raw text always yields the same
// analysis. It never returns an error to the caller; when the output
// cannot be salvaged it substitutes the fixed degraded report, because a
// structured (if conservative) answer is the billable unit of work.
type ReportParser struct{}

// NewReportParser creates a parser.
func NewReportParser() *ReportParser {
	return &ReportParser{}
}

// rawAnalysis mirrors the output contract with untyped enum fields so a
// wrong vocabulary word fails validation rather than decode.
type rawAnalysis struct {
	RiskLevel          *string  `json:"risk_level"`
	RiskScore          *float64 `json:"risk_score"`
	ExecutiveSummary   *string  `json:"executive_summary"`
	VerificationStatus string   `json:"verification_status"`
	RedFlags           []struct {
		Severity    string `json:"severity"`
		Category    string `json:"category"`
		Description string `json:"description"`
		Evidence    string `json:"evidence"`
	} `json:"red_flags"`
	PartyBackgrounds []struct {
		PartyName       string   `json:"party_name"`
		Status          string   `json:"status"`
		Findings        string   `json:"findings"`
		Recommendations []string `json:"recommendations"`
	} `json:"party_backgrounds"`
	Recommendations []string `json:"recommendations"`
}

// Parse extracts and validates the JSON object embedded in raw model
// output. partyNames and sourcesChecked feed the degraded fallback and the
// final analysis metadata.
func (p *ReportParser) Parse(raw string, partyNames []string, sourcesChecked []string) report.Analysis {
	candidate, ok := extractJSONObject(raw)
	if !ok {
		log.Printf("[ReportParser] no JSON object found in %d bytes of output, degrading", len(raw))
		return report.NewDegraded(partyNames, sourcesChecked)
	}

	var decoded rawAnalysis
	if err := json.Unmarshal([]byte(candidate), &decoded); err != nil {
		log.Printf("[ReportParser] structural decode failed, degrading: %v", err)
		return report.NewDegraded(partyNames, sourcesChecked)
	}

	analysis, err := validate(decoded)
	if err != nil {
		log.Printf("[ReportParser] schema validation failed, degrading: %v", err)
		return report.NewDegraded(partyNames, sourcesChecked)
	}

	if sourcesChecked == nil {
		sourcesChecked = []string{}
	}
	analysis.SourcesChecked = sourcesChecked
	return analysis
}

// extractJSONObject trims the text, strips a surrounding markdown fence if
// present, then takes the greedy first-{ through last-} substring.
func extractJSONObject(raw string) (string, bool) {
	content := strings.TrimSpace(raw)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
		content = strings.TrimSpace(content)
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return content[start : end+1], true
}

func validate(decoded rawAnalysis) (report.Analysis, error) {
	if decoded.RiskLevel == nil {
		return report.Analysis{}, fmt.Errorf("missing risk_level")
	}
	level, err := report.ParseRiskLevel(*decoded.RiskLevel)
	if err != nil {
		return report.Analysis{}, err
	}

	if decoded.RiskScore == nil {
		return report.Analysis{}, fmt.Errorf("missing risk_score")
	}
	score := *decoded.RiskScore
	if score < 0 || score > 100 {
		return report.Analysis{}, fmt.Errorf("risk_score %v outside [0,100]", score)
	}

	if decoded.ExecutiveSummary == nil || strings.TrimSpace(*decoded.ExecutiveSummary) == "" {
		return report.Analysis{}, fmt.Errorf("missing executive_summary")
	}

	flags := make([]report.RedFlag, 0, len(decoded.RedFlags))
	for i, f := range decoded.RedFlags {
		severity, err := report.ParseRiskLevel(f.Severity)
		if err != nil {
			return report.Analysis{}, fmt.Errorf("red_flags[%d]: %w", i, err)
		}
		flags = append(flags, report.RedFlag{
			Severity:    severity,
			Category:    f.Category,
			Description: f.Description,
			Evidence:    f.Evidence,
		})
	}

	backgrounds := make([]report.PartyBackground, 0, len(decoded.PartyBackgrounds))
	for i, pb := range decoded.PartyBackgrounds {
		status, err := report.ParseAssessmentStatus(pb.Status)
		if err != nil {
			return report.Analysis{}, fmt.Errorf("party_backgrounds[%d]: %w", i, err)
		}
		recs := pb.Recommendations
		if recs == nil {
			recs = []string{}
		}
		backgrounds = append(backgrounds, report.PartyBackground{
			PartyName:       pb.PartyName,
			Status:          status,
			Findings:        pb.Findings,
			Recommendations: recs,
		})
	}

	recommendations := decoded.Recommendations
	if recommendations == nil {
		recommendations = []string{}
	}

	return report.Analysis{
		RiskLevel:          level,
		RiskScore:          score,
		ExecutiveSummary:   strings.TrimSpace(*decoded.ExecutiveSummary),
		VerificationStatus: strings.TrimSpace(decoded.VerificationStatus),
		RedFlags:           flags,
		PartyBackgrounds:   backgrounds,
		Recommendations:    recommendations,
	}, nil
}

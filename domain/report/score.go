package report

import "gonum.org/v1/gonum/stat"

// Severity contribution and weight used for the advisory score cross-check.
// Higher severities both score higher and weigh more, so one CRITICAL flag
// dominates a pile of LOW ones.
var severityScores = map[RiskLevel]float64{
	RiskLow:      20,
	RiskMedium:   50,
	RiskHigh:     75,
	RiskCritical: 95,
}

var severityWeights = map[RiskLevel]float64{
	RiskLow:      1,
	RiskMedium:   2,
	RiskHigh:     4,
	RiskCritical: 8,
}

// AdvisoryScore recomputes a risk score from the red flags alone as a
// severity-weighted mean. It is a consistency cross-check against the
// model-reported score, never a replacement for it: the risk level stays
// authoritative either way.
func AdvisoryScore(flags []RedFlag) float64 {
	if len(flags) == 0 {
		return 0
	}
	xs := make([]float64, 0, len(flags))
	ws := make([]float64, 0, len(flags))
	for _, f := range flags {
		if !f.Severity.IsValid() {
			continue
		}
		xs = append(xs, severityScores[f.Severity])
		ws = append(ws, severityWeights[f.Severity])
	}
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, ws)
}

// ScoreDivergence returns the absolute gap between the model-reported score
// and the flag-derived advisory score.
func ScoreDivergence(a Analysis) float64 {
	if len(a.RedFlags) == 0 {
		return 0
	}
	d := a.RiskScore - AdvisoryScore(a.RedFlags)
	if d < 0 {
		d = -d
	}
	return d
}

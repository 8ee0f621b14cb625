package ai

import (
	"fmt"
	"strings"
	"time"

	"dealscope/domain/evidence"
	"dealscope/domain/subject"
)

// Prompt construction for the one-shot investigation synthesis. The prompt
// carries the declared subject facts, the evidence bundle verbatim, the
// as-of date guard, and a rigid description of the required JSON output.

const outputContract = `Respond with a single JSON object and nothing else. The object must have exactly these fields:
{
  "risk_level": one of "LOW" | "MEDIUM" | "HIGH" | "CRITICAL",
  "risk_score": number from 0 to 100 (must roughly track risk_level),
  "executive_summary": short paragraph, plain text,
  "verification_status": short description of how much could be verified and from how many sources,
  "red_flags": [
    {
      "severity": one of "LOW" | "MEDIUM" | "HIGH" | "CRITICAL",
      "category": short category label (e.g. "identity", "ownership", "pricing", "sanctions"),
      "description": what was found,
      "evidence": which evidence supports this flag
    }
  ],
  "party_backgrounds": [
    {
      "party_name": the party's name as given,
      "status": one of "VERIFIED" | "UNVERIFIED" | "SUSPICIOUS" | "NEEDS_REVIEW",
      "findings": what the evidence shows about this party,
      "recommendations": [short action strings]
    }
  ],
  "recommendations": [short next-action strings for the whole transaction]
}
Do not wrap the object in markdown fences. Do not add commentary before or after it.`

// BuildInvestigationPrompt assembles the bounded synthesis prompt.
func BuildInvestigationPrompt(sub subject.Subject, bundle evidence.Bundle, asOf time.Time) string {
	date := asOf.Format("2006-01-02")

	var b strings.Builder
	b.WriteString("You are assessing fraud risk for a prospective high-value transaction. ")
	b.WriteString("Base every conclusion on the declared facts and gathered evidence below; ")
	b.WriteString("when evidence is missing, say so rather than assume.\n\n")

	fmt.Fprintf(&b, "TODAY: %s\n", date)
	fmt.Fprintf(&b, "DATA GUARD: Any evidence dated after %s is a data error from an upstream source. "+
		"Silently correct such dates backward by exactly one year before reasoning about them.\n\n", date)

	b.WriteString("=== SUBJECT FACTS ===\n")
	b.WriteString(sub.Describe())
	b.WriteString("\n=== GATHERED EVIDENCE ===\n")
	b.WriteString(bundle.Render())
	b.WriteString("\n")

	for _, directive := range compileAssessmentDirectives(sub, bundle) {
		b.WriteString(directive)
		b.WriteString("\n")
	}

	b.WriteString("\n=== OUTPUT CONTRACT ===\n")
	b.WriteString(outputContract)
	b.WriteString("\n")
	return b.String()
}

// compileAssessmentDirectives produces high-salience instruction fragments
// tuned to what was (and was not) gathered for this subject.
func compileAssessmentDirectives(sub subject.Subject, bundle evidence.Bundle) []string {
	var out []string

	if bundle.IsEmpty() {
		out = append(out, "CAUTION: No external source returned evidence. Remain conservative; "+
			"do not assign LOW risk on declared facts alone unless they are internally consistent and unremarkable.")
	}

	if parties := sub.Parties(); len(parties) > 0 {
		names := make([]string, 0, len(parties))
		for _, p := range parties {
			names = append(names, p.Name)
		}
		out = append(out, fmt.Sprintf(
			"REQUIRED: Produce one party_backgrounds entry for each of: %s.",
			strings.Join(names, "; ")))
	}

	if price := sub.Field("price"); price != "" {
		out = append(out, "PRIORITY: Judge whether the stated price is plausible for the asset class; "+
			"significantly below-market pricing is a classic advance-fee lure.")
	}

	// Deduplicate while preserving order
	seen := make(map[string]struct{}, len(out))
	dedup := out[:0]
	for _, s := range out {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		dedup = append(dedup, s)
	}
	return dedup
}

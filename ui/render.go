package ui

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"dealscope/domain/report"
)

func (a *App) handleReportSummaryHTML(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	rep, err := a.fetchReport(r, ownerID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(renderSummaryHTML(rep))
}

// renderSummaryHTML builds a markdown document from the report analysis
// and converts it to a standalone HTML fragment.
func renderSummaryHTML(rep report.Report) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# Due Diligence Report\n\n")
	fmt.Fprintf(&b, "**Risk Level:** %s &mdash; **Score:** %.0f/100\n\n", rep.Analysis.RiskLevel, rep.Analysis.RiskScore)
	if rep.Analysis.Degraded {
		fmt.Fprintf(&b, "> Automated analysis was inconclusive. Findings below are conservative defaults pending manual review.\n\n")
	}

	fmt.Fprintf(&b, "## Executive Summary\n\n%s\n\n", rep.Analysis.ExecutiveSummary)

	if rep.Analysis.VerificationStatus != "" {
		fmt.Fprintf(&b, "**Verification:** %s\n\n", rep.Analysis.VerificationStatus)
	}

	if len(rep.Analysis.RedFlags) > 0 {
		fmt.Fprintf(&b, "## Red Flags\n\n")
		for _, f := range rep.Analysis.RedFlags {
			fmt.Fprintf(&b, "- **[%s] %s:** %s\n", f.Severity, f.Category, f.Description)
			if f.Evidence != "" {
				fmt.Fprintf(&b, "  - Evidence: %s\n", f.Evidence)
			}
		}
		b.WriteString("\n")
	}

	if len(rep.Analysis.PartyBackgrounds) > 0 {
		fmt.Fprintf(&b, "## Party Backgrounds\n\n")
		for _, p := range rep.Analysis.PartyBackgrounds {
			fmt.Fprintf(&b, "### %s (%s)\n\n", p.PartyName, p.Status)
			if p.Findings != "" {
				fmt.Fprintf(&b, "%s\n\n", p.Findings)
			}
			if len(p.Recommendations) > 0 {
				fmt.Fprintf(&b, "*Recommended:* %s\n\n", strings.Join(p.Recommendations, "; "))
			}
		}
	}

	if len(rep.Analysis.Recommendations) > 0 {
		fmt.Fprintf(&b, "## Recommendations\n\n")
		for _, rec := range rep.Analysis.Recommendations {
			fmt.Fprintf(&b, "1. %s\n", rec)
		}
		b.WriteString("\n")
	}

	if len(rep.Analysis.SourcesChecked) > 0 {
		fmt.Fprintf(&b, "*Sources checked: %s*\n", strings.Join(rep.Analysis.SourcesChecked, ", "))
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(b.String()), p, renderer)
}

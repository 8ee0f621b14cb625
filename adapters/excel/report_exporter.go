// Package excel renders finished reports as downloadable xlsx workbooks.
package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"dealscope/domain/report"
)

// ReportExporter writes one report per workbook: a summary sheet plus one
// sheet each for red flags and party backgrounds.
type ReportExporter struct{}

// NewReportExporter creates an exporter.
func NewReportExporter() *ReportExporter {
	return &ReportExporter{}
}

// Export writes the xlsx workbook for a report to w.
func (e *ReportExporter) Export(r report.Report, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeSummarySheet(f, r); err != nil {
		return fmt.Errorf("write summary sheet: %w", err)
	}
	if err := e.writeRedFlagsSheet(f, r.Analysis.RedFlags); err != nil {
		return fmt.Errorf("write red flags sheet: %w", err)
	}
	if err := e.writePartiesSheet(f, r.Analysis.PartyBackgrounds); err != nil {
		return fmt.Errorf("write parties sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func (e *ReportExporter) writeSummarySheet(f *excelize.File, r report.Report) error {
	const sheet = "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Report ID", r.ID.String()},
		{"Created", r.CreatedAt.String()},
		{"Risk Level", string(r.Analysis.RiskLevel)},
		{"Risk Score", r.Analysis.RiskScore},
		{"Verification Status", r.Analysis.VerificationStatus},
		{"Sources Checked", strings.Join(r.Analysis.SourcesChecked, ", ")},
		{"Degraded", r.Analysis.Degraded},
		{"Executive Summary", r.Analysis.ExecutiveSummary},
		{"Recommendations", strings.Join(r.Analysis.Recommendations, "; ")},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (e *ReportExporter) writeRedFlagsSheet(f *excelize.File, flags []report.RedFlag) error {
	const sheet = "Red Flags"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"Severity", "Category", "Description", "Evidence"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, flag := range flags {
		row := []interface{}{string(flag.Severity), flag.Category, flag.Description, flag.Evidence}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (e *ReportExporter) writePartiesSheet(f *excelize.File, parties []report.PartyBackground) error {
	const sheet = "Parties"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"Party", "Status", "Findings", "Recommendations"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, p := range parties {
		row := []interface{}{p.PartyName, string(p.Status), p.Findings, strings.Join(p.Recommendations, "; ")}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

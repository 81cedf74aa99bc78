package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/kks0488/aionda-sub000/internal/model"
)

// renderReportTable prints a per-file verification summary
func renderReportTable(w io.Writer, report model.VerifyReport) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Claims", "Verified", "Failed High", "Avg Conf", "Status"})

	for _, fr := range report.Reports {
		status := "PASS"
		if fr.FailedHighPriority > 0 || (fr.ClaimsChecked > 0 && fr.VerifiedClaims == 0) {
			status = "FAIL"
		}
		t.AppendRow(table.Row{
			fr.File,
			fr.ClaimsChecked,
			fr.VerifiedClaims,
			fr.FailedHighPriority,
			fmt.Sprintf("%.2f", fr.AvgConfidence),
			status,
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMax: 60},
		{Number: 6, Align: text.AlignCenter},
	})
	t.Render()
}

// renderFindingsTable prints per-question research findings
func renderFindingsTable(w io.Writer, researched model.ResearchedTopic) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Question", "Confidence", "Sources", "Trusted"})

	for _, finding := range researched.Findings {
		trusted := "no"
		if model.HasTrusted(finding.Sources) {
			trusted = "yes"
		}
		t.AppendRow(table.Row{
			finding.Question,
			fmt.Sprintf("%.2f", finding.Confidence),
			len(finding.Sources),
			trusted,
		})
	}

	t.AppendFooter(table.Row{
		"overall",
		fmt.Sprintf("%.2f", researched.OverallConfidence),
		"",
		fmt.Sprintf("publish: %v", researched.CanPublish),
	})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 1, WidthMax: 60}})
	t.Render()
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/brodkewitz/brphoto-metadata-tools/internal/resolve"
	"github.com/brodkewitz/brphoto-metadata-tools/internal/workflow"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	if len(headers) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	configs := make([]table.ColumnConfig, len(headers))
	for i, name := range headers {
		header[i] = name
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		cells := make(table.Row, len(headers))
		for i := range cells {
			if i < len(row) {
				cells[i] = row[i]
			} else {
				cells[i] = ""
			}
		}
		tw.AppendRow(cells)
	}

	return tw.Render()
}

// recordState collapses resolution and write phase into the single word the
// report table shows per record.
func recordState(rec workflow.RecordReport) string {
	if rec.WriteStatus != "" {
		return rec.WriteStatus
	}
	return rec.Status
}

func recordDetail(rec workflow.RecordReport) string {
	switch {
	case rec.Error != "":
		return rec.Error
	case rec.WriteDetail != "":
		return rec.WriteDetail
	case rec.Reason != "":
		if len(rec.Candidates) > 0 {
			return fmt.Sprintf("%s (%s)", rec.Reason, strings.Join(rec.Candidates, ", "))
		}
		return rec.Reason
	default:
		return ""
	}
}

func printReport(out io.Writer, report *workflow.Report) {
	fmt.Fprintf(out, "Input: %s\n", report.InputPath)
	fmt.Fprintf(out, "Search dir: %s (%d files visited, %d indexed)\n",
		report.SearchDir, report.Summary.Scanned, report.Summary.Indexed)

	rows := make([][]string, 0, len(report.Records))
	for _, rec := range report.Records {
		target := rec.Target
		if rec.Action == string(resolve.ActionCreateSidecar) && target != "" {
			target += " (new)"
		}
		rows = append(rows, []string{
			strconv.Itoa(rec.Line),
			rec.Stem,
			recordState(rec),
			target,
			recordDetail(rec),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Line", "Stem", "State", "Target", "Detail"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
	))

	printSummary(out, report)
}

func printSummary(out io.Writer, report *workflow.Report) {
	s := report.Summary
	fmt.Fprintf(out, "%d records: %d matched (%d updates, %d new sidecars), %d ambiguous, %d not found\n",
		s.Records, s.Matched, s.WriteExisting, s.CreateSidecar, s.Ambiguous, s.NotFound)
	if report.DryRun {
		fmt.Fprintln(out, "Dry run: no files were modified")
		return
	}
	fmt.Fprintf(out, "Writes: %d written, %d skipped, %d failed, %d not attempted\n",
		s.Written, s.Skipped, s.Failed, s.NotAttempted)
}

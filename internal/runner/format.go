// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runner

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// FormatTable writes the stage counts and the reviewer distribution of
// sum as two tables to w.
func FormatTable(sum Summary, w io.Writer) {
	fmt.Fprintf(w, "Run %s (%s)\n\n", sum.RunID, sum.Source)

	stages := make([][]string, 0, len(sum.Stages))
	for _, c := range sum.Stages {
		stages = append(stages, []string{c.Stage, strconv.Itoa(c.Count)})
	}
	renderTable(w, []string{"Stage", "Items"}, stages)

	if len(sum.Reviewers) == 0 {
		fmt.Fprintln(w, "\nNo items to review.")
		return
	}
	fmt.Fprintln(w)
	reviewers := make([][]string, 0, len(sum.Reviewers))
	for _, r := range sum.Reviewers {
		reviewers = append(reviewers, []string{r.Reviewer, strconv.Itoa(r.Items), r.File})
	}
	renderTable(w, []string{"Reviewer", "Items", "File"}, reviewers)

	fmt.Fprintf(w, "\n%d items over %d day(s)\n", sum.Curated(), len(sum.Days))
}

// FormatJSON writes sum as indented JSON to w.
func FormatJSON(sum Summary, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sum)
}

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{Borders: tw.BorderNone}),
	)
	table.Header(header)
	table.Bulk(rows)
	table.Render()
}

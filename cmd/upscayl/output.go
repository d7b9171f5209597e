package main

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/phrazzld/upscayl-gateway/internal/domain"
	"github.com/spf13/cobra"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// renderOutcome prints the task summary followed by one row per image.
func renderOutcome(outcome domain.TaskOutcome) string {
	rows := [][]string{
		{"Task", valueOrDash(outcome.Handle.String())},
		{"State", string(outcome.State)},
		{"Remote status", valueOrDash(outcome.Status)},
	}
	if outcome.Reason != "" {
		rows = append(rows, []string{"Reason", outcome.Reason})
	}

	var b strings.Builder
	b.WriteString(renderTable([]string{"Field", "Value"}, rows, nil))

	if len(outcome.URLs) > 0 {
		images := make([][]string, 0, len(outcome.URLs))
		for i, u := range outcome.URLs {
			images = append(images, []string{strconv.Itoa(i + 1), u})
		}
		b.WriteString("\n")
		b.WriteString(renderTable([]string{"#", "Image URL"}, images, []columnAlignment{alignRight, alignLeft}))
	}

	return b.String()
}

func valueOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

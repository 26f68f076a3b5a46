package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// tableColumn describes one output column. Headers are printed as written.
// A positive maxWidth soft-wraps long cells such as story titles.
type tableColumn struct {
	header   string
	align    columnAlignment
	maxWidth int
}

func col(header string) tableColumn {
	return tableColumn{header: header}
}

func rightCol(header string) tableColumn {
	return tableColumn{header: header, align: alignRight}
}

func wrapCol(header string, maxWidth int) tableColumn {
	return tableColumn{header: header, maxWidth: maxWidth}
}

func renderTable(columns []tableColumn, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, c := range columns {
		header[i] = c.header
		cfg := table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignLeft,
			AlignHeader: text.AlignLeft,
		}
		if c.align == alignRight {
			cfg.Align = text.AlignRight
		}
		if c.maxWidth > 0 {
			cfg.WidthMax = c.maxWidth
			cfg.WidthMaxEnforcer = text.WrapSoft
		}
		configs[i] = cfg
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	return tw.Render() + "\n"
}

// Package xlbook composes assembled audit tables and plain record grids
// into a single in-memory Office Open XML workbook.
package xlbook

import (
	"github.com/rpxanalytics/portfolio-api/pkg/auditfmt"
)

// Grid is a plain tabular sheet body: an ordered header set and
// row-major cell values. Unlike the audit layout, plain headers are
// unique and carry no positional contract.
type Grid struct {
	Headers []string
	Rows    [][]interface{}
}

// Dataset pairs fetched records with the column order they arrived in.
// Record maps have no iteration order of their own, so the fetch layer
// supplies it.
type Dataset struct {
	Columns []string
	Records []auditfmt.Record
}

// Empty reports whether the dataset has no rows.
func (d *Dataset) Empty() bool {
	return d == nil || len(d.Records) == 0
}

// GridFromDataset builds a plain grid, normalizing every cell through
// the audit value domain so database types (decimals, identifiers,
// zoned timestamps) land in spreadsheet-compatible form.
func GridFromDataset(ds *Dataset) *Grid {
	if ds == nil {
		return &Grid{}
	}
	g := &Grid{Headers: ds.Columns}
	for _, rec := range ds.Records {
		row := make([]interface{}, len(ds.Columns))
		for i, col := range ds.Columns {
			v, _ := rec.Field(col)
			row[i] = v.Interface()
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}

// Sheet is one workbook sheet: either an audit-format table (87
// positional columns, duplicate labels preserved) or a plain grid.
type Sheet struct {
	Name  string
	Audit *auditfmt.Table
	Grid  *Grid
}

// AuditSheet wraps an assembled audit table as a named sheet.
func AuditSheet(name string, table *auditfmt.Table) Sheet {
	return Sheet{Name: name, Audit: table}
}

// PlainSheet wraps a grid as a named sheet.
func PlainSheet(name string, grid *Grid) Sheet {
	return Sheet{Name: name, Grid: grid}
}

package auditfmt

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Table is a rectangular audit grid: one row per source record in input
// order, and always the full 87 columns in registry order. Built fresh
// per export, never persisted.
type Table struct {
	Columns []ColumnSpec
	Rows    [][]Value
}

// Assembler folds the resolver over every (record, column) pair and then
// applies the table-wide type coercions.
type Assembler struct {
	reg      *Registry
	resolver *Resolver
}

func NewAssembler(reg *Registry) *Assembler {
	return &Assembler{reg: reg, resolver: NewResolver(reg)}
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
}

// Assemble builds the audit table for the given records. Empty input
// yields a zero-row table with the full 87-column header structure: an
// empty export is still a valid, correctly-headed sheet. The 87-column
// post-condition is the one hard assertion in the subsystem: a malformed
// registry must fail the export rather than produce a malformed report.
func (a *Assembler) Assemble(records []Record) (*Table, error) {
	cols := a.reg.Columns()
	if len(cols) != AuditColumnCount {
		return nil, fmt.Errorf("%w: assembling with %d columns", ErrRegistryIntegrity, len(cols))
	}

	rows := make([][]Value, 0, len(records))
	for _, rec := range records {
		row := make([]Value, len(cols))
		for i, spec := range cols {
			row[i] = coerceCell(a.resolver.ResolveSpec(rec, spec), spec)
		}
		rows = append(rows, row)
	}

	return &Table{Columns: cols, Rows: rows}, nil
}

// coerceCell applies the table-wide type coercions after resolution.
// Coercion failures collapse to absent, never to an error: a bad cell
// must not sink a whole export.
func coerceCell(v Value, spec ColumnSpec) Value {
	if v.IsAbsent() {
		return v
	}
	switch spec.Type {
	case TypePercentage:
		// Values above 1 are assumed to be on a 0-100 scale and brought
		// back to decimal, except for override-populated cells, which
		// arrive already scaled. The comparison is literally > 1:
		// exactly 1.0 and negatives are left alone.
		if spec.Strategy == StrategyOverride {
			return v
		}
		if f, ok := v.Float(); ok && f > 1 {
			return Float(f / 100)
		}
		return v
	case TypeDate:
		return coerceDate(v)
	case TypeInteger:
		return coerceInteger(v)
	default:
		// Currency, basis points, and text pass through; they were
		// normalized at resolution.
		return v
	}
}

func coerceDate(v Value) Value {
	if _, ok := v.Time(); ok {
		return v
	}
	if s, ok := v.Str(); ok {
		s = strings.TrimSpace(s)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return Time(t)
			}
		}
	}
	return Absent()
}

func coerceInteger(v Value) Value {
	switch v.Kind() {
	case KindInt:
		return v
	case KindFloat:
		f, _ := v.Float()
		return Int(int64(f))
	case KindString:
		s, _ := v.Str()
		s = strings.TrimSpace(s)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(n)
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Int(int64(f))
		}
	}
	return Absent()
}

package auditfmt

// ColumnRange is an inclusive 1-based position span within the audit
// layout, used for documentation and validation tooling.
type ColumnRange struct {
	Name  string
	Start int
	End   int
}

// ColumnRanges groups the 87 positions by subject area. The spans cover
// the full layout with no gaps or overlaps.
var ColumnRanges = []ColumnRange{
	{Name: "core_identifiers", Start: 1, End: 10},
	{Name: "loan_details", Start: 11, End: 20},
	{Name: "structure", Start: 21, End: 30},
	{Name: "pricing", Start: 31, End: 40},
	{Name: "duration_ranges", Start: 41, End: 50},
	{Name: "dates_extensions", Start: 51, End: 60},
	{Name: "price_changes", Start: 61, End: 70},
	{Name: "additional_metrics", Start: 71, End: 80},
	{Name: "prior_period", Start: 81, End: 87},
}

// RangeForPosition returns the subject-area range containing the
// position, or false for positions outside 1..87.
func RangeForPosition(position int) (ColumnRange, bool) {
	for _, r := range ColumnRanges {
		if position >= r.Start && position <= r.End {
			return r, true
		}
	}
	return ColumnRange{}, false
}

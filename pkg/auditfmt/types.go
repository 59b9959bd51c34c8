package auditfmt

// Record is one source row fetched from the data store, keyed by field
// name. Records are read-only: a record may carry fields no column reads,
// and a column may reference a field a given record does not have.
type Record map[string]interface{}

// Field returns the normalized value of a field and whether the record
// carries it at all. A present field holding nil reports present with an
// absent value.
func (r Record) Field(name string) (Value, bool) {
	raw, ok := r[name]
	if !ok {
		return Absent(), false
	}
	return Normalize(raw), true
}

// ColumnType classifies how a column's cells are coerced and formatted.
type ColumnType uint8

const (
	TypeText ColumnType = iota
	TypeCurrency
	TypePercentage
	TypeBasisPoints
	TypeDate
	TypeInteger
	TypeNumeric
)

func (t ColumnType) String() string {
	switch t {
	case TypeCurrency:
		return "currency"
	case TypePercentage:
		return "percentage"
	case TypeBasisPoints:
		return "basis_points"
	case TypeDate:
		return "date"
	case TypeInteger:
		return "integer"
	case TypeNumeric:
		return "numeric"
	default:
		return "text"
	}
}

// Strategy tags how a column's value is decided. It is resolved once at
// registry build, so per-cell resolution is a switch on the tag rather
// than repeated label comparisons.
type Strategy uint8

const (
	// StrategyPlaceholder resolves to an explicit absent value; the
	// column has no data source yet and must not fabricate one.
	StrategyPlaceholder Strategy = iota
	// StrategyDirect reads the column's source field off the record.
	StrategyDirect
	// StrategyTransform calls the column's registered transform with the
	// full record.
	StrategyTransform
	// StrategyOverride is position-specific logic that beats everything
	// else; the two "Accrued Interest" positions live here.
	StrategyOverride
)

// TransformFunc derives a column value from the whole record. Transforms
// may read several fields, apply fallbacks, or format composites.
type TransformFunc func(Record) Value

// ColumnSpec is one of the 87 audit-format columns. Position is the only
// reliable key: one label appears at two positions with unrelated
// semantics, so the registry is an ordered sequence, never a map keyed
// by label.
type ColumnSpec struct {
	Position    int // 1-based
	Label       string
	Type        ColumnType
	SourceField string        // direct lookup field, "" when none
	Transform   TransformFunc // set at registry build for transform columns
	Strategy    Strategy
}

package auditfmt

// Resolver decides cell values for audit columns. It is a pure function
// of (record, column); the only state is the immutable registry.
type Resolver struct {
	reg *Registry
}

func NewResolver(reg *Registry) *Resolver {
	return &Resolver{reg: reg}
}

// Resolve returns the value for the column at the given 1-based
// position. Precedence is fixed: position-specific override, then named
// transform, then direct field lookup, then the placeholder policy
// (explicit absent, never zero, never empty string). Out-of-range
// positions resolve to absent.
func (r *Resolver) Resolve(rec Record, position int) Value {
	spec, ok := r.reg.ColumnAt(position)
	if !ok {
		return Absent()
	}
	return r.ResolveSpec(rec, spec)
}

// ResolveSpec resolves against an already-fetched column spec; Assemble
// uses this to avoid the per-cell position lookup.
func (r *Resolver) ResolveSpec(rec Record, spec ColumnSpec) Value {
	switch spec.Strategy {
	case StrategyOverride:
		return r.resolveOverride(rec, spec)
	case StrategyTransform:
		return spec.Transform(rec)
	case StrategyDirect:
		if v, ok := rec.Field(spec.SourceField); ok {
			return v
		}
		return Absent()
	default:
		return Absent()
	}
}

// resolveOverride handles the positions whose semantics differ from any
// generic rule. Position 33 is the accrued dollar amount; position 36 is
// the accrued percentage, stored on a 0-100 scale upstream and scaled by
// exactly 1/100 here to the display-ready decimal the audit consumers
// expect.
func (r *Resolver) resolveOverride(rec Record, spec ColumnSpec) Value {
	switch spec.Position {
	case PosAccruedInterestAmount:
		if v, ok := rec.Field("accrued_interest"); ok {
			return v
		}
		return Absent()
	case PosAccruedInterestPct:
		v, ok := rec.Field("price_accrued_pct")
		if !ok || v.IsAbsent() {
			return Absent()
		}
		if f, ok := v.Float(); ok {
			return Float(f / 100)
		}
		return v
	}
	return Absent()
}

package auditfmt

import (
	"errors"
	"fmt"
)

// AuditColumnCount is the mandated width of the audit layout. The
// registry refuses to build with any other count.
const AuditColumnCount = 87

// ErrRegistryIntegrity reports a malformed column order at registry
// build. It is a build/config defect, not a runtime condition, and must
// prevent the service from starting.
var ErrRegistryIntegrity = errors.New("auditfmt: audit column order integrity violation")

// Positions that carry hard-coded, position-specific resolution logic.
// 33 and 36 share the literal label "Accrued Interest": 33 is a dollar
// amount, 36 is a percentage stored on a 0-100 scale upstream.
const (
	PosAccruedInterestAmount = 33
	PosAccruedInterestPct    = 36
)

// auditColumns returns the 87-column audit order with per-position type
// and source-field assignments. DO NOT reorder or resize: positions are
// audit-compliance contract, and the typos (Propoerty, Becnhmark,
// Conponent, the double space in "Upper  Fair Value Range - FV") are
// mandated by the external format.
func auditColumns() []ColumnSpec {
	return []ColumnSpec{
		// Columns 1-10: core identifiers and scenarios
		{Label: "Loan ID", Type: TypeInteger, SourceField: "loan_id"},
		{Label: "Pricing Scenario", Type: TypeText, SourceField: "pricing_scenario"},
		{Label: "Maturity Assumption", Type: TypeText, SourceField: "calculated_maturity_assumption"},
		{Label: "Credit Spread", Type: TypeBasisPoints, SourceField: "display_credit_spread"},
		{Label: "Market Yield (or Discount Rate)", Type: TypePercentage, SourceField: "market_yield_cbe"},
		{Label: "Loss Scenario", Type: TypeText, SourceField: "loss_scenario_final"},
		{Label: "PD", Type: TypePercentage, SourceField: "pd_final"},
		{Label: "EAD", Type: TypeCurrency, SourceField: "ead_final"},
		{Label: "LGD", Type: TypePercentage, SourceField: "lgd_final"},
		{Label: "Lag to Recovery", Type: TypeInteger, SourceField: "lag_to_recovery_final"},

		// Columns 11-20: default and loan details
		{Label: "Default Date", Type: TypeDate, SourceField: "default_date_final"},
		{Label: "CDR", Type: TypePercentage, SourceField: "cdr_final"},
		{Label: "Client Loan Number", Type: TypeText, SourceField: "client_loan_number"},
		{Label: "Loan Name", Type: TypeText, SourceField: "loan_name"},
		{Label: "Sector", Type: TypeText, SourceField: "sector"},
		{Label: "Property Type", Type: TypeText, SourceField: "property_type"},
		{Label: "Property Lifecycle Financing", Type: TypeText, SourceField: "property_lifecycle_financing"},
		{Label: "Sponsor/Borrower", Type: TypeText, SourceField: "borrower"},
		{Label: "Original Balance", Type: TypeCurrency, SourceField: "original_balance"},
		{Label: "Current Balance - Includes Accrued Interest & PIK Interest", Type: TypeCurrency, SourceField: "current_balance"},

		// Columns 21-30: currency and loan structure
		{Label: "Currency", Type: TypeText, SourceField: "currency"},
		{Label: "Client % of Total Loan Facility", Type: TypePercentage, SourceField: "client_percentage"},
		{Label: "PIK Balance", Type: TypeCurrency, SourceField: "pik_balance"},
		{Label: "Position in Capital Stack", Type: TypeText, SourceField: "position_in_capital_stack"},
		{Label: "Periodicity", Type: TypeText, SourceField: "periodicity"},
		{Label: "Interest Day Count", Type: TypeText, SourceField: "interest_day_count"},
		{Label: "Loan Status", Type: TypeText, SourceField: "loan_status"},
		{Label: "Propoerty & Loan Commentary", Type: TypeText, SourceField: "commentary"}, // typo mandated
		{Label: "Coupon Description", Type: TypeText, SourceField: "coupon_description"},
		{Label: "Contract Type", Type: TypeText, SourceField: "interest_type"},

		// Columns 31-40: pricing values
		{Label: "Interest Type", Type: TypeText, SourceField: "interest_type"},
		{Label: "Fair Value + Accrued Interest", Type: TypeCurrency, SourceField: "fair_value_dirty"},
		{Label: "Accrued Interest", Type: TypeCurrency, SourceField: "accrued_interest"}, // 33: dollar amount
		{Label: "Fair Value", Type: TypeCurrency, SourceField: "fair_value_clean"},
		{Label: "Price including Accrued", Type: TypePercentage, SourceField: "price_dirty_pct"},
		{Label: "Accrued Interest", Type: TypePercentage, SourceField: "price_accrued_pct"}, // 36: percentage, not 33
		{Label: "Price", Type: TypePercentage, SourceField: "price_clean_pct"},
		{Label: "Benchmark Yield | Index Rate", Type: TypePercentage, SourceField: "benchmark_yield"},
		{Label: "Becnhmark", Type: TypeText, SourceField: "benchmark_type"}, // typo mandated
		{Label: "WAL (yrs)", Type: TypeNumeric, SourceField: "wal_years"},

		// Columns 41-50: duration and ranges
		{Label: "Modified Duration (yrs)", Type: TypeNumeric, SourceField: "modified_duration_years"},
		{Label: "Convexity", Type: TypeNumeric, SourceField: "convexity"},
		{Label: "Maturity", Type: TypeDate, SourceField: "effective_maturity_date"},
		{Label: "Lower Fair Value Range - Price", Type: TypePercentage},
		{Label: "Upper Fair Value Range - Price", Type: TypePercentage},
		{Label: "Lower Fair Value Range - FV", Type: TypeCurrency},
		{Label: "Upper  Fair Value Range - FV", Type: TypeCurrency}, // double space mandated
		{Label: "Lower Fair Value Range - MEY", Type: TypePercentage},
		{Label: "Upper Fair Value Range - MEY", Type: TypePercentage},
		{Label: "Loan Origination Date", Type: TypeDate, SourceField: "origination_date"},

		// Columns 51-60: dates and extensions
		{Label: "Original Maturity Date", Type: TypeDate, SourceField: "original_maturity_date"},
		{Label: "Extension 1st", Type: TypeDate, SourceField: "first_extension_date"},
		{Label: "Extension 2nd", Type: TypeDate, SourceField: "second_extension_date"},
		{Label: "Extension 3rd", Type: TypeDate, SourceField: "third_extension_date"},
		{Label: "Default Scenario", Type: TypeText, SourceField: "default_scenario_code"},
		{Label: "Conponent Yield", Type: TypePercentage, SourceField: "component_yield_decimal"}, // typo mandated
		{Label: "Δ Price", Type: TypeText},
		{Label: "Δ Price due to Yield CBE", Type: TypeText},
		{Label: "Δ Price due to Credit Spread / DM", Type: TypeText},
		{Label: "Δ Price due to Benchmark", Type: TypeText},

		// Columns 61-70: price changes and spreads
		{Label: "Δ Price due to Yield Curve Shift", Type: TypeText},
		{Label: "Δ Price due to Yield Curve Roll", Type: TypeText},
		{Label: "Δ Price due to Accretion to Par or Amortization of Premium", Type: TypeText},
		{Label: "Δ Credit Spread", Type: TypeBasisPoints},
		{Label: "Δ Benchmark Yld", Type: TypeText},
		{Label: "Δ CBE Yield", Type: TypeText},
		{Label: "Yield Curve Shift", Type: TypeText},
		{Label: "Yield Curve Roll", Type: TypeText},
		{Label: "Prior Scenario", Type: TypeText},
		{Label: "CS", Type: TypeText},

		// Columns 71-80: additional metrics
		{Label: "MY", Type: TypeText},
		{Label: "MS", Type: TypeText},
		{Label: "Amortization Type", Type: TypeText, SourceField: "amortization_type"},
		{Label: "Property Location", Type: TypeText, SourceField: "property_location"},
		{Label: "DSCR", Type: TypeText, SourceField: "dscr_current"},
		{Label: "LTV", Type: TypeText, SourceField: "ltv_current"},
		{Label: "Current Balance Prior", Type: TypeCurrency},
		{Label: "Price Prior", Type: TypePercentage},
		{Label: "Benchmark Yield Prior", Type: TypeText},
		{Label: "Credit Spread Prior", Type: TypeBasisPoints},

		// Columns 81-87: prior period comparisons
		{Label: "Market Yield Prior", Type: TypePercentage},
		{Label: "DSCR Prior", Type: TypeText},
		{Label: "LTV Prior", Type: TypeText},
		{Label: "WAL Prior", Type: TypeText},
		{Label: "Duration Prior", Type: TypeText},
		{Label: "Loan Status Prior", Type: TypeText},
		{Label: "New Loan to Portfolio?", Type: TypeText},
	}
}

// Registry holds the frozen 87-column audit layout. It is built once at
// startup and never mutated, so it is safe for unlimited concurrent
// readers.
type Registry struct {
	cols    []ColumnSpec
	byLabel map[string]int // label -> first position
}

// NewRegistry builds the audit column registry, attaching positions,
// transforms, and resolution strategies, and verifying the layout holds
// exactly 87 entries.
func NewRegistry() (*Registry, error) {
	cols := auditColumns()
	if len(cols) != AuditColumnCount {
		return nil, fmt.Errorf("%w: expected %d columns, found %d", ErrRegistryIntegrity, AuditColumnCount, len(cols))
	}

	byLabel := make(map[string]int, len(cols))
	for i := range cols {
		pos := i + 1
		cols[i].Position = pos

		if fn, ok := columnTransforms[cols[i].Label]; ok {
			cols[i].Transform = fn
		}

		switch {
		case pos == PosAccruedInterestAmount || pos == PosAccruedInterestPct:
			cols[i].Strategy = StrategyOverride
		case cols[i].Transform != nil:
			cols[i].Strategy = StrategyTransform
		case cols[i].SourceField != "":
			cols[i].Strategy = StrategyDirect
		default:
			cols[i].Strategy = StrategyPlaceholder
		}

		if _, seen := byLabel[cols[i].Label]; !seen {
			byLabel[cols[i].Label] = pos
		}
	}

	return &Registry{cols: cols, byLabel: byLabel}, nil
}

// Len reports the number of columns; always AuditColumnCount for a
// successfully built registry.
func (r *Registry) Len() int { return len(r.cols) }

// Columns returns the columns in audit order. Callers must not modify
// the returned slice.
func (r *Registry) Columns() []ColumnSpec { return r.cols }

// ColumnAt returns the column at a 1-based position.
func (r *Registry) ColumnAt(position int) (ColumnSpec, bool) {
	if position < 1 || position > len(r.cols) {
		return ColumnSpec{}, false
	}
	return r.cols[position-1], true
}

// PositionOf returns the first position carrying the label. The lookup
// is ambiguous for "Accrued Interest", which appears at positions 33 and
// 36; callers needing the duplicate must address it by position.
func (r *Registry) PositionOf(label string) (int, bool) {
	pos, ok := r.byLabel[label]
	return pos, ok
}

// Labels returns the 87 header labels in audit order, duplicates
// included.
func (r *Registry) Labels() []string {
	labels := make([]string, len(r.cols))
	for i, c := range r.cols {
		labels[i] = c.Label
	}
	return labels
}

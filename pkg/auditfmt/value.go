package auditfmt

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindFloat
	KindInt
	KindString
	KindTime
	KindBool
	// KindRaw carries an unrecognized source type through untouched so
	// unexpected data stays visible in the export instead of failing it.
	KindRaw
)

// Value is the normalized cell value domain. A cell is either absent or
// holds exactly one of the supported variants.
type Value struct {
	kind Kind
	f    float64
	i    int64
	s    string
	t    time.Time
	b    bool
	raw  interface{}
}

func Absent() Value { return Value{kind: KindAbsent} }

func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

func Int(v int64) Value { return Value{kind: KindInt, i: v} }

func String(v string) Value { return Value{kind: KindString, s: v} }

func Time(v time.Time) Value { return Value{kind: KindTime, t: v} }

func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

func Raw(v interface{}) Value { return Value{kind: KindRaw, raw: v} }

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Float returns the float variant, converting an int variant as well.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

func (v Value) Int() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

func (v Value) Time() (time.Time, bool) {
	if v.kind != KindTime {
		return time.Time{}, false
	}
	return v.t, true
}

// Interface returns the value as a plain interface for cell writing.
// Absent becomes nil, which excelize leaves as a blank cell.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindAbsent:
		return nil
	case KindFloat:
		return v.f
	case KindInt:
		return v.i
	case KindString:
		return v.s
	case KindTime:
		return v.t
	case KindBool:
		return v.b
	default:
		return v.raw
	}
}

// DisplayString renders the value the way it would appear in a cell.
func (v Value) DisplayString() string {
	if v.kind == KindAbsent {
		return ""
	}
	if v.kind == KindTime {
		return v.t.Format("2006-01-02")
	}
	return fmt.Sprintf("%v", v.Interface())
}

// Normalize converts a heterogeneous source value into the canonical
// Value domain. Decimals collapse to float64 (this is a report artifact,
// not a ledger), identifiers become their string form, and timestamps
// lose their zone offset because the spreadsheet format has none.
// Unrecognized types pass through as raw values rather than failing.
func Normalize(raw interface{}) Value {
	switch v := raw.(type) {
	case nil:
		return Absent()
	case Value:
		return v
	case decimal.Decimal:
		return Float(v.InexactFloat64())
	case *decimal.Decimal:
		if v == nil {
			return Absent()
		}
		return Float(v.InexactFloat64())
	case uuid.UUID:
		return String(v.String())
	case time.Time:
		return Time(stripOffset(v))
	case *time.Time:
		if v == nil {
			return Absent()
		}
		return Time(stripOffset(*v))
	case float64:
		return Float(v)
	case float32:
		return Float(float64(v))
	case int:
		return Int(int64(v))
	case int32:
		return Int(int64(v))
	case int64:
		return Int(v)
	case uint:
		return Int(int64(v))
	case uint64:
		return Int(int64(v))
	case string:
		return String(v)
	case []byte:
		// lib/pq hands numerics and text back as []byte on dynamic scans.
		return String(string(v))
	case bool:
		return Bool(v)
	default:
		return Raw(raw)
	}
}

// stripOffset re-anchors the wall-clock reading in UTC, discarding the
// zone offset without shifting the displayed date or time.
func stripOffset(t time.Time) time.Time {
	if t.Location() == time.UTC {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

package engine

import (
	"math"
	"strconv"
)

// Value is one typed attribute value of a change-request record.
type Value struct {
	text    string
	num     float64
	numeric bool
}

// Text builds a categorical value.
func Text(s string) Value { return Value{text: s} }

// Number builds a numeric value.
func Number(v float64) Value { return Value{num: v, numeric: true} }

// IsNumeric reports whether the value was built with Number.
func (v Value) IsNumeric() bool { return v.numeric }

// Float returns the numeric value. ok is false for text values.
func (v Value) Float() (f float64, ok bool) {
	if !v.numeric {
		return 0, false
	}
	return v.num, true
}

// String renders the value as a categorical matcher would see it.
// Whole numbers print without a fractional part, so 0 reads "0".
func (v Value) String() string {
	if !v.numeric {
		return v.text
	}
	if v.num == math.Trunc(v.num) && !math.IsInf(v.num, 0) && math.Abs(v.num) < 1e15 {
		return strconv.FormatInt(int64(v.num), 10)
	}
	return strconv.FormatFloat(v.num, 'g', -1, 64)
}

// Record gives the engine read access to a validated change request.
type Record interface {
	Lookup(name string) (Value, bool)
}

// Values is the plain map implementation of Record. Absent keys are
// absent attributes.
type Values map[string]Value

// Lookup implements Record.
func (v Values) Lookup(name string) (Value, bool) {
	val, ok := v[name]
	return val, ok
}

package scorecard

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Interval is a numeric range with independently open or closed ends.
// Infinite ends are always open.
type Interval struct {
	Low        float64
	High       float64
	LowClosed  bool
	HighClosed bool
}

// ParseInterval parses bracket notation: "[0,2)", "(2,4]", "[10,inf)",
// "(-inf,0)". Whitespace around the bounds is ignored.
func ParseInterval(s string) (Interval, error) {
	t := strings.TrimSpace(s)
	if len(t) < 5 {
		return Interval{}, fmt.Errorf("interval %q: too short", s)
	}

	var iv Interval
	switch t[0] {
	case '[':
		iv.LowClosed = true
	case '(':
	default:
		return Interval{}, fmt.Errorf("interval %q: must start with '[' or '('", s)
	}
	switch t[len(t)-1] {
	case ']':
		iv.HighClosed = true
	case ')':
	default:
		return Interval{}, fmt.Errorf("interval %q: must end with ']' or ')'", s)
	}

	parts := strings.Split(t[1:len(t)-1], ",")
	if len(parts) != 2 {
		return Interval{}, fmt.Errorf("interval %q: want exactly two bounds", s)
	}

	var err error
	if iv.Low, err = parseBound(parts[0]); err != nil {
		return Interval{}, fmt.Errorf("interval %q: low bound: %w", s, err)
	}
	if iv.High, err = parseBound(parts[1]); err != nil {
		return Interval{}, fmt.Errorf("interval %q: high bound: %w", s, err)
	}

	if math.IsInf(iv.Low, 1) || math.IsInf(iv.High, -1) {
		return Interval{}, fmt.Errorf("interval %q: bounds are reversed", s)
	}
	if math.IsInf(iv.Low, -1) {
		iv.LowClosed = false
	}
	if math.IsInf(iv.High, 1) {
		iv.HighClosed = false
	}

	switch {
	case iv.Low > iv.High:
		return Interval{}, fmt.Errorf("interval %q: low bound exceeds high bound", s)
	case iv.Low == iv.High && !(iv.LowClosed && iv.HighClosed):
		return Interval{}, fmt.Errorf("interval %q: empty range", s)
	}
	return iv, nil
}

func parseBound(s string) (float64, error) {
	b := strings.ToLower(strings.TrimSpace(s))
	switch b {
	case "-inf":
		return math.Inf(-1), nil
	case "inf", "+inf":
		return math.Inf(1), nil
	}
	v, err := strconv.ParseFloat(b, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", strings.TrimSpace(s))
	}
	if math.IsNaN(v) {
		return 0, fmt.Errorf("NaN is not a valid bound")
	}
	return v, nil
}

// Contains reports whether v lies inside the interval.
func (iv Interval) Contains(v float64) bool {
	if math.IsNaN(v) {
		return false
	}
	aboveLow := v > iv.Low || (iv.LowClosed && v == iv.Low)
	belowHigh := v < iv.High || (iv.HighClosed && v == iv.High)
	return aboveLow && belowHigh
}

// String renders the interval back in bracket notation.
func (iv Interval) String() string {
	var sb strings.Builder
	if iv.LowClosed {
		sb.WriteByte('[')
	} else {
		sb.WriteByte('(')
	}
	sb.WriteString(formatBound(iv.Low))
	sb.WriteByte(',')
	sb.WriteString(formatBound(iv.High))
	if iv.HighClosed {
		sb.WriteByte(']')
	} else {
		sb.WriteByte(')')
	}
	return sb.String()
}

func formatBound(v float64) string {
	switch {
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsInf(v, 1):
		return "inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// adjacency describes how the end of one interval meets the start of the next.
type adjacency int

const (
	adjacent adjacency = iota
	overlapping
	gapped
)

// meet classifies the boundary between a and the following interval b.
func meet(a, b Interval) adjacency {
	switch {
	case a.High > b.Low:
		return overlapping
	case a.High < b.Low:
		return gapped
	case a.HighClosed && b.LowClosed:
		return overlapping
	case !a.HighClosed && !b.LowClosed:
		return gapped
	default:
		return adjacent
	}
}

// looksLikeInterval reports whether a bin matcher is written in interval
// notation. Used to infer a feature's kind when it is not declared.
func looksLikeInterval(s string) bool {
	t := strings.TrimSpace(s)
	if len(t) < 2 {
		return false
	}
	return strings.ContainsRune("[(", rune(t[0])) &&
		strings.ContainsRune("])", rune(t[len(t)-1])) &&
		strings.Contains(t, ",")
}

package engine

import "fmt"

// ErrorKind classifies an EvaluationError.
type ErrorKind string

const (
	MissingField ErrorKind = "missing_field"
	UnknownValue ErrorKind = "unknown_value"
	OutOfRange   ErrorKind = "out_of_range"
	NotReady     ErrorKind = "not_ready"
)

// Sentinels for errors.Is. They match any EvaluationError of the same kind.
var (
	ErrMissingField = &EvaluationError{Kind: MissingField}
	ErrUnknownValue = &EvaluationError{Kind: UnknownValue}
	ErrOutOfRange   = &EvaluationError{Kind: OutOfRange}
	ErrNotReady     = &EvaluationError{Kind: NotReady}
)

// EvaluationError explains why a record could not be scored.
type EvaluationError struct {
	Kind    ErrorKind
	Feature string
	Value   string
}

func (e *EvaluationError) Error() string {
	switch e.Kind {
	case MissingField:
		return fmt.Sprintf("engine: feature %q: required value is missing", e.Feature)
	case UnknownValue:
		return fmt.Sprintf("engine: feature %q: unknown value %q", e.Feature, e.Value)
	case OutOfRange:
		return fmt.Sprintf("engine: feature %q: value %s is out of range", e.Feature, e.Value)
	case NotReady:
		return "engine: no scorecard loaded"
	default:
		return fmt.Sprintf("engine: %s", e.Kind)
	}
}

// Is matches sentinels by kind.
func (e *EvaluationError) Is(target error) bool {
	t, ok := target.(*EvaluationError)
	if !ok {
		return false
	}
	return t.Feature == "" && t.Value == "" && t.Kind == e.Kind
}

// ClientError reports whether the caller's record is at fault. NotReady
// is a service-side condition.
func (e *EvaluationError) ClientError() bool {
	return e.Kind != NotReady
}

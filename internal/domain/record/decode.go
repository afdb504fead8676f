package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecodeError is a request body that does not fit a ChangeRequest.
// Err holds the reader's error when the body could not be read at all.
type DecodeError struct {
	Field  string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("record: field %q: %s", e.Field, e.Reason)
	}
	return "record: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode reads exactly one JSON object. Unknown fields, values of the
// wrong JSON type and trailing data are rejected.
func Decode(r io.Reader) (*ChangeRequest, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var req ChangeRequest
	if err := dec.Decode(&req); err != nil {
		return nil, decodeErr(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			if de := decodeErr(err); de.Err != nil {
				return nil, de
			}
		}
		return nil, &DecodeError{Reason: "unexpected data after the request object"}
	}
	return &req, nil
}

// DecodeYAML reads a ChangeRequest from YAML, rejecting unknown fields.
func DecodeYAML(r io.Reader) (*ChangeRequest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var req ChangeRequest
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &DecodeError{Reason: "empty document"}
		}
		return nil, &DecodeError{Reason: err.Error()}
	}
	return &req, nil
}

func decodeErr(err error) *DecodeError {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr):
		return &DecodeError{Field: typeErr.Field, Reason: fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value)}
	case errors.As(err, &syntaxErr):
		return &DecodeError{Reason: fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)}
	case errors.Is(err, io.EOF):
		return &DecodeError{Reason: "empty body"}
	case errors.Is(err, io.ErrUnexpectedEOF):
		return &DecodeError{Reason: "truncated body"}
	}

	// encoding/json reports unknown fields only as text.
	if name, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return &DecodeError{Field: strings.Trim(name, `"`), Reason: "unknown field"}
	}
	return &DecodeError{Reason: err.Error(), Err: err}
}

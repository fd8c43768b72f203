package crop

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// FieldStatus is the validation state of a single input.
type FieldStatus int

const (
	// FieldEmpty means the field has not been validated or holds nothing optional.
	FieldEmpty FieldStatus = iota
	FieldInvalid
	FieldValid
)

func (s FieldStatus) String() string {
	switch s {
	case FieldInvalid:
		return "invalid"
	case FieldValid:
		return "valid"
	default:
		return "empty"
	}
}

// Reason names the constraint an invalid field broke.
type Reason string

const (
	ReasonRequired Reason = "required"
	ReasonMin      Reason = "min"
	ReasonMax      Reason = "max"
)

// FieldState is the outcome of validating one raw input.
type FieldState struct {
	Key     Key         `json:"key"`
	Raw     string      `json:"raw"`
	Status  FieldStatus `json:"-"`
	Value   float64     `json:"value"`
	Reason  Reason      `json:"reason,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Valid reports whether the field holds an accepted value.
func (s FieldState) Valid() bool {
	return s.Status == FieldValid
}

// decimalPattern matches what a browser number input accepts: plain decimal
// digits with an optional exponent. Hex floats, digit separators and words such
// as Inf or NaN are rejected.
var decimalPattern = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?$`)

// Validate checks raw against the field constraints.
func (f FieldSpec) Validate(raw string) FieldState {
	state := FieldState{Key: f.Key, Raw: raw}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		if f.Required {
			return state.fail(ReasonRequired, "This field is required")
		}
		return state
	}

	if !decimalPattern.MatchString(trimmed) {
		return state.fail(ReasonRequired, "This field is required")
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsInf(value, 0) {
		return state.fail(ReasonRequired, "This field is required")
	}
	if f.Min != nil && value < *f.Min {
		return state.fail(ReasonMin, "Must be at least "+formatBound(*f.Min))
	}
	if f.Max != nil && value > *f.Max {
		return state.fail(ReasonMax, "Must be at most "+formatBound(*f.Max))
	}

	state.Status = FieldValid
	state.Value = value
	return state
}

func (s FieldState) fail(reason Reason, message string) FieldState {
	s.Status = FieldInvalid
	s.Reason = reason
	s.Message = message
	return s
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormValues holds raw user input keyed by field.
type FormValues map[Key]string

// FormState aggregates the per-field states in feature order.
type FormState struct {
	Fields [FeatureCount]FieldState
}

// ValidateForm evaluates every field independently.
func ValidateForm(values FormValues) FormState {
	var form FormState
	for i, spec := range fieldSpecs {
		form.Fields[i] = spec.Validate(values[spec.Key])
	}
	return form
}

// Valid reports whether the form may be submitted.
func (f FormState) Valid() bool {
	for i, state := range f.Fields {
		if state.Status == FieldInvalid {
			return false
		}
		if fieldSpecs[i].Required && state.Status != FieldValid {
			return false
		}
	}
	return true
}

// Field returns the state recorded for key.
func (f FormState) Field(key Key) FieldState {
	for _, state := range f.Fields {
		if state.Key == key {
			return state
		}
	}
	return FieldState{Key: key}
}

// Errors maps each invalid field to its message.
func (f FormState) Errors() map[Key]string {
	out := make(map[Key]string)
	for _, state := range f.Fields {
		if state.Status == FieldInvalid {
			out[state.Key] = state.Message
		}
	}
	return out
}

// FeatureVector builds the ordered model input. It fails when the form is not valid.
func (f FormState) FeatureVector() (FeatureVector, error) {
	if !f.Valid() {
		return FeatureVector{}, &ValidationError{Form: f}
	}
	var vec FeatureVector
	for i, state := range f.Fields {
		vec[i] = state.Value
	}
	return vec, nil
}

// FeatureVector is the fixed-order tuple [N, P, K, temperature, humidity, pH, rainfall].
type FeatureVector [FeatureCount]float64

// Get returns the value stored for key.
func (v FeatureVector) Get(key Key) float64 {
	for i, spec := range fieldSpecs {
		if spec.Key == key {
			return v[i]
		}
	}
	return 0
}

// ValidationError blocks a submission and carries the field states.
type ValidationError struct {
	Form FormState
}

func (e *ValidationError) Error() string {
	errs := e.Form.Errors()
	parts := make([]string, 0, len(errs))
	for _, key := range Keys() {
		if msg, ok := errs[key]; ok {
			parts = append(parts, fmt.Sprintf("%s: %s", key, msg))
		}
	}
	return strings.Join(parts, "; ")
}

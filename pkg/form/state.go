package form

import (
	"maps"

	"github.com/tiendc/go-deepcopy"

	"github.com/mitchelllharris/formkit/pkg/validator"
)

// State is an immutable snapshot of a form. Transitions never mutate a State
// in place; they return a new one.
type State struct {
	Values     validator.Values `json:"values"`
	Errors     map[string]string `json:"errors"`
	Touched    map[string]bool   `json:"touched"`
	Submitting bool              `json:"submitting"`
}

// IsValid reports whether no field currently has an error. Fields that were
// never validated count as valid, so this is advisory and not a submission gate.
func (s State) IsValid() bool {
	for _, msg := range s.Errors {
		if msg != "" {
			return false
		}
	}
	return true
}

// Error returns the recorded error for name regardless of touched state.
func (s State) Error(name string) string {
	return s.Errors[name]
}

// Clone returns a copy whose maps can be modified without affecting s.
// Field values are shared; use deepCopyValues when they must be isolated.
func (s State) Clone() State {
	return State{
		Values:     cloneValues(s.Values),
		Errors:     cloneMap(s.Errors),
		Touched:    cloneMap(s.Touched),
		Submitting: s.Submitting,
	}
}

func initialState(values validator.Values) State {
	return State{
		Values:  deepCopyValues(values),
		Errors:  map[string]string{},
		Touched: map[string]bool{},
	}
}

func cloneValues(v validator.Values) validator.Values {
	if v == nil {
		return validator.Values{}
	}
	return maps.Clone(v)
}

func cloneMap[V any](m map[string]V) map[string]V {
	if m == nil {
		return map[string]V{}
	}
	return maps.Clone(m)
}

// deepCopyValues copies structured values so later edits to one copy never
// show through the other. Values the copier cannot handle are shared.
func deepCopyValues(src validator.Values) validator.Values {
	out := make(validator.Values, len(src))
	for name, value := range src {
		if value == nil {
			out[name] = nil
			continue
		}
		var dst any
		if err := deepcopy.Copy(&dst, value, deepcopy.IgnoreNonCopyableTypes(true)); err != nil {
			dst = value
		}
		out[name] = dst
	}
	return out
}

// transitions holds what the pure transition functions need beyond the state.
type transitions struct {
	rules     validator.Rules
	cfg       *config
	translate Translator
}

func (t transitions) message(err error) string {
	if err == nil {
		return ""
	}
	if t.translate != nil {
		if ve, ok := err.(validator.ValidationError); ok {
			if msg := t.translate(ve); msg != "" {
				return msg
			}
		}
	}
	return err.Error()
}

func (t transitions) validateField(s State, name string) string {
	return t.message(validator.ValidateFieldIn(s.Values, name, t.rules[name]))
}

func setError(s *State, name, msg string) {
	if msg == "" {
		delete(s.Errors, name)
		return
	}
	s.Errors[name] = msg
}

// change records a new value. A recorded error is cleared at once; touched
// fields are then re-validated when validate-on-change is enabled.
func (t transitions) change(s State, name string, value any) State {
	next := s.Clone()
	next.Values[name] = value
	delete(next.Errors, name)
	if t.cfg.validateOnChange && next.Touched[name] {
		setError(&next, name, t.validateField(next, name))
	}
	return next
}

// blur marks the field touched and validates it when validate-on-blur is enabled.
func (t transitions) blur(s State, name string) State {
	next := s.Clone()
	next.Touched[name] = true
	if t.cfg.validateOnBlur {
		setError(&next, name, t.validateField(next, name))
	}
	return next
}

func (t transitions) setValue(s State, name string, value any) State {
	next := s.Clone()
	next.Values[name] = value
	return next
}

func (t transitions) setError(s State, name, msg string) State {
	next := s.Clone()
	setError(&next, name, msg)
	return next
}

// validateAll replaces the error mapping with a full validation run.
func (t transitions) validateAll(s State) (State, validator.FieldErrors) {
	next := s.Clone()
	errs := validator.ValidateForm(next.Values, t.rules)
	next.Errors = make(map[string]string, len(errs))
	for name, err := range errs {
		setError(&next, name, t.message(err))
	}
	return next, errs
}

// touchAll marks every field with a value or rules as touched.
func (t transitions) touchAll(s State) State {
	next := s.Clone()
	for name := range next.Values {
		next.Touched[name] = true
	}
	for name := range t.rules {
		next.Touched[name] = true
	}
	return next
}

func (t transitions) submitting(s State, on bool) State {
	next := s.Clone()
	next.Submitting = on
	return next
}

package validator

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Values maps field names to their current values. Values are untyped:
// strings, booleans, numbers and structured values are all accepted.
type Values map[string]any

// Validator checks a single field value. values is the full form snapshot so
// cross-field rules can read sibling fields. A nil return means the value passes.
type Validator func(value any, values Values) error

// Rules maps field names to their ordered validator chains.
type Rules map[string][]Validator

// ValidationError represents a single validation error with translation support.
type ValidationError struct {
	Field             string
	Message           string
	TranslationKey    string
	TranslationValues map[string]any
}

func (e ValidationError) Error() string {
	return e.Message
}

// ValidationErrors represents a collection of validation errors.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(ve))
	for _, err := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidationFailed) hold for any ValidationErrors.
func (ve ValidationErrors) Is(target error) bool {
	return target == ErrValidationFailed
}

func (ve *ValidationErrors) Add(err ValidationError) {
	*ve = append(*ve, err)
}

func (ve ValidationErrors) Has(field string) bool {
	for _, err := range ve {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Get returns the message recorded for field, or an empty string.
func (ve ValidationErrors) Get(field string) string {
	for _, err := range ve {
		if err.Field == field {
			return err.Message
		}
	}
	return ""
}

func (ve ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(ve))
	for _, err := range ve {
		if !slices.Contains(fields, err.Field) {
			fields = append(fields, err.Field)
		}
	}
	return fields
}

func (ve ValidationErrors) IsEmpty() bool {
	return len(ve) == 0
}

// FieldErrors holds the first failure of every failing field.
type FieldErrors map[string]error

// Messages flattens the errors into field -> message.
func (fe FieldErrors) Messages() map[string]string {
	out := make(map[string]string, len(fe))
	for field, err := range fe {
		out[field] = err.Error()
	}
	return out
}

// Ordered converts the mapping into ValidationErrors following order.
// Fields missing from order are appended in lexical order.
func (fe FieldErrors) Ordered(order []string) ValidationErrors {
	out := make(ValidationErrors, 0, len(fe))
	seen := make(map[string]bool, len(fe))
	appendField := func(field string) {
		err, ok := fe[field]
		if !ok || seen[field] {
			return
		}
		seen[field] = true
		out = append(out, asValidationError(field, err))
	}

	for _, field := range order {
		appendField(field)
	}

	rest := make([]string, 0, len(fe))
	for field := range fe {
		if !seen[field] {
			rest = append(rest, field)
		}
	}
	slices.Sort(rest)
	for _, field := range rest {
		appendField(field)
	}
	return out
}

// ValidateField runs chain against value and returns the first failure.
// Cross-field validators see an empty value set; use ValidateFieldIn when the
// surrounding values matter.
func ValidateField(value any, chain []Validator) error {
	return validate(value, Values{}, chain)
}

// ValidateFieldIn validates values[name] against chain with access to the full value set.
// The returned error carries the field name.
func ValidateFieldIn(values Values, name string, chain []Validator) error {
	if values == nil {
		values = Values{}
	}
	if err := validate(values[name], values, chain); err != nil {
		return asValidationError(name, err)
	}
	return nil
}

func validate(value any, values Values, chain []Validator) error {
	for _, v := range chain {
		if v == nil {
			continue
		}
		if err := v(value, values); err != nil {
			return err
		}
	}
	return nil
}

// ValidateForm validates every field named in rules. Fields present in values
// but absent from rules are never checked. Only failing fields appear in the result.
func ValidateForm(values Values, rules Rules) FieldErrors {
	errs := make(FieldErrors)
	for name, chain := range rules {
		if err := ValidateFieldIn(values, name, chain); err != nil {
			errs[name] = err
		}
	}
	return errs
}

// Check validates values against rules and returns ValidationErrors ordered by
// order, or nil when everything passes.
func Check(values Values, rules Rules, order ...string) error {
	errs := ValidateForm(values, rules)
	if len(errs) == 0 {
		return nil
	}
	return errs.Ordered(order)
}

// Chain composes validators into a single one that reports the first failure.
func Chain(chain ...Validator) Validator {
	return func(value any, values Values) error {
		return validate(value, values, chain)
	}
}

// ExtractValidationErrors extracts ValidationErrors from an error.
func ExtractValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var validationErr ValidationErrors
	if errors.As(err, &validationErr) {
		return validationErr
	}

	return nil
}

func IsValidationError(err error) bool {
	if err == nil {
		return false
	}

	var validationErr ValidationErrors
	return errors.As(err, &validationErr)
}

func asValidationError(field string, err error) ValidationError {
	var ve ValidationError
	if errors.As(err, &ve) {
		ve.Field = field
		return ve
	}
	return ValidationError{Field: field, Message: err.Error()}
}

// newError builds a ValidationError. A non-empty override replaces the default
// message and drops the translation key so translators leave it untouched.
func newError(key, message string, values map[string]any, overrides []string) ValidationError {
	for _, o := range overrides {
		if o != "" {
			return ValidationError{Message: o, TranslationValues: values}
		}
	}
	return ValidationError{
		Message:           message,
		TranslationKey:    key,
		TranslationValues: values,
	}
}

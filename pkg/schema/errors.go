package schema

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDefinition = errors.New("schema: invalid form definition")
	ErrUnknownRule       = errors.New("schema: unknown rule")
	ErrInvalidRuleArgs   = errors.New("schema: invalid rule arguments")
	ErrComponentNotFound = errors.New("schema: openapi component not found")
)

// RuleError reports a rule that could not be turned into a validator.
type RuleError struct {
	Field string
	Rule  string
	Err   error
}

func (e *RuleError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("rule %q: %v", e.Rule, e.Err)
	}
	return fmt.Sprintf("field %q rule %q: %v", e.Field, e.Rule, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }

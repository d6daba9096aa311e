package schema

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/mitchelllharris/formkit/pkg/validator"
)

// Builder turns rule arguments into a validator. message is empty unless the
// definition overrides the rule's default message.
type Builder func(args []any, message string) (validator.Validator, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Builder{
		"required":       noArgs(validator.Required),
		"email":          noArgs(validator.Email),
		"url":            noArgs(validator.URL),
		"uuid":           noArgs(validator.UUID),
		"min_length":     buildMinLength,
		"max_length":     buildMaxLength,
		"min":            buildMin,
		"max":            buildMax,
		"password":       buildPassword,
		"password_match": buildPasswordMatch,
		"equals":         buildEquals,
		"username":       buildUsername,
		"pattern":        buildPattern,
		"one_of":         buildOneOf,
	}
)

// Register adds or replaces a rule builder.
func Register(name string, b Builder) {
	if name == "" || b == nil {
		return
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = b
}

// RuleNames lists the registered rules in alphabetical order.
func RuleNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return slices.Sorted(maps.Keys(registry))
}

// Build resolves spec through the registry.
func Build(spec RuleSpec) (validator.Validator, error) {
	registryMu.RLock()
	b, ok := registry[spec.Rule]
	registryMu.RUnlock()
	if !ok {
		return nil, &RuleError{Rule: spec.Rule, Err: ErrUnknownRule}
	}
	v, err := b(spec.Args, spec.Message)
	if err != nil {
		return nil, &RuleError{Rule: spec.Rule, Err: fmt.Errorf("%w: %w", ErrInvalidRuleArgs, err)}
	}
	return v, nil
}

func messages(message string) []string {
	if message == "" {
		return nil
	}
	return []string{message}
}

func noArgs(ctor func(...string) validator.Validator) Builder {
	return func(args []any, message string) (validator.Validator, error) {
		if len(args) > 0 {
			return nil, fmt.Errorf("expected no arguments, got %d", len(args))
		}
		return ctor(messages(message)...), nil
	}
}

func buildMinLength(args []any, message string) (validator.Validator, error) {
	n, err := intArg(args)
	if err != nil {
		return nil, err
	}
	return validator.MinLength(n, messages(message)...), nil
}

func buildMaxLength(args []any, message string) (validator.Validator, error) {
	n, err := intArg(args)
	if err != nil {
		return nil, err
	}
	return validator.MaxLength(n, messages(message)...), nil
}

func buildMin(args []any, message string) (validator.Validator, error) {
	f, err := floatArg(args)
	if err != nil {
		return nil, err
	}
	return validator.Min(f, messages(message)...), nil
}

func buildMax(args []any, message string) (validator.Validator, error) {
	f, err := floatArg(args)
	if err != nil {
		return nil, err
	}
	return validator.Max(f, messages(message)...), nil
}

// A message override replaces every password sub-rule message.
func buildPassword(args []any, message string) (validator.Validator, error) {
	if len(args) > 0 {
		return nil, fmt.Errorf("expected no arguments, got %d", len(args))
	}
	return validator.Password(validator.PasswordMessages{
		MinLength: message,
		Uppercase: message,
		Lowercase: message,
		Number:    message,
		Special:   message,
	}), nil
}

func buildUsername(args []any, message string) (validator.Validator, error) {
	if len(args) > 0 {
		return nil, fmt.Errorf("expected no arguments, got %d", len(args))
	}
	return validator.Username(validator.UsernameMessages{
		MinLength: message,
		MaxLength: message,
		Format:    message,
	}), nil
}

func buildPasswordMatch(args []any, message string) (validator.Validator, error) {
	field, err := stringArg(args)
	if err != nil {
		return nil, err
	}
	if field == "" {
		return nil, fmt.Errorf("field name is required")
	}
	return validator.PasswordMatch(field, messages(message)...), nil
}

func buildEquals(args []any, message string) (validator.Validator, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("expected 1 argument, got %d", len(args))
	}
	return validator.Equals(args[0], messages(message)...), nil
}

func buildPattern(args []any, message string) (validator.Validator, error) {
	expr, err := stringArg(args)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return validator.Pattern(re, messages(message)...), nil
}

// one_of accepts a list of options or one comma separated string.
func buildOneOf(args []any, message string) (validator.Validator, error) {
	var options []string
	if len(args) == 1 {
		if s, ok := args[0].(string); ok {
			for _, opt := range strings.Split(s, ",") {
				if opt = strings.TrimSpace(opt); opt != "" {
					options = append(options, opt)
				}
			}
		}
	}
	if options == nil {
		for _, a := range args {
			options = append(options, fmt.Sprint(a))
		}
	}
	if len(options) == 0 {
		return nil, fmt.Errorf("at least one option is required")
	}
	return validator.OneOf(options, messages(message)...), nil
}

func stringArg(args []any) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("expected 1 argument, got %d", len(args))
	}
	s, ok := args[0].(string)
	if !ok {
		return fmt.Sprint(args[0]), nil
	}
	return strings.TrimSpace(s), nil
}

func intArg(args []any) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected 1 argument, got %d", len(args))
	}
	var n int
	switch v := args[0].(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case uint64:
		n = int(v)
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%v is not an integer", v)
		}
		n = int(v)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", v)
		}
		n = parsed
	default:
		return 0, fmt.Errorf("unsupported argument %T", v)
	}
	if n < 0 {
		return 0, fmt.Errorf("%d is negative", n)
	}
	return n, nil
}

func floatArg(args []any) (float64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", v)
		}
		return f, nil
	}
	return 0, fmt.Errorf("unsupported argument %T", args[0])
}

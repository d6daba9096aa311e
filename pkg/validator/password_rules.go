package validator

import (
	"fmt"
	"reflect"
	"regexp"
)

const PasswordMinLength = 8

var (
	uppercaseRegex   = regexp.MustCompile(`[A-Z]`)
	lowercaseRegex   = regexp.MustCompile(`[a-z]`)
	digitRegex       = regexp.MustCompile(`[0-9]`)
	specialCharRegex = regexp.MustCompile(`[@$!%*?&]`)
)

// PasswordMessages overrides individual password rule messages.
type PasswordMessages struct {
	MinLength string
	Uppercase string
	Lowercase string
	Number    string
	Special   string
}

// Password checks, in order: minimum length, an uppercase letter, a lowercase
// letter, a digit and one of @$!%*?&. The first violated rule is reported.
func Password(messages ...PasswordMessages) Validator {
	var m PasswordMessages
	if len(messages) > 0 {
		m = messages[0]
	}

	return func(value any, _ Values) error {
		if isUnset(value) {
			return nil
		}
		s, ok := stringValue(value)
		n, _ := length(s)
		if !ok || n < PasswordMinLength {
			return newError(
				"validation.password.min_length",
				fmt.Sprintf("Password must be at least %d characters long", PasswordMinLength),
				map[string]any{"min": PasswordMinLength},
				[]string{m.MinLength},
			)
		}

		checks := []struct {
			re      *regexp.Regexp
			key     string
			message string
			custom  string
		}{
			{uppercaseRegex, "validation.password.uppercase", "Password must contain at least one uppercase letter", m.Uppercase},
			{lowercaseRegex, "validation.password.lowercase", "Password must contain at least one lowercase letter", m.Lowercase},
			{digitRegex, "validation.password.number", "Password must contain at least one number", m.Number},
			{specialCharRegex, "validation.password.special", "Password must contain at least one special character (@$!%*?&)", m.Special},
		}
		for _, c := range checks {
			if !c.re.MatchString(s) {
				return newError(c.key, c.message, nil, []string{c.custom})
			}
		}
		return nil
	}
}

// PasswordMatch fails when a present value differs from the sibling field.
func PasswordMatch(field string, message ...string) Validator {
	return func(value any, values Values) error {
		if isUnset(value) {
			return nil
		}
		if !sameValue(value, values[field]) {
			return newError("validation.password_match", "Passwords do not match",
				map[string]any{"field": field}, message)
		}
		return nil
	}
}

// Equals fails when a present value differs from expected, a value captured
// when the rule was built.
func Equals(expected any, message ...string) Validator {
	return func(value any, _ Values) error {
		if isUnset(value) {
			return nil
		}
		if !sameValue(value, expected) {
			return newError("validation.equals", "Values do not match", nil, message)
		}
		return nil
	}
}

func sameValue(a, b any) bool {
	as, aok := stringValue(a)
	bs, bok := stringValue(b)
	if aok && bok {
		return as == bs
	}
	return reflect.DeepEqual(a, b)
}

package validator

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"
)

var (
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

const (
	UsernameMinLength = 3
	UsernameMaxLength = 30
)

// Required fails for nil, blank strings, false, empty collections and nil pointers.
func Required(message ...string) Validator {
	return func(value any, _ Values) error {
		if IsEmpty(value) {
			return newError("validation.required", "This field is required", nil, message)
		}
		return nil
	}
}

// MinLength fails when a present value is shorter than min.
// Unset values pass; pair it with Required to reject them.
func MinLength(min int, message ...string) Validator {
	return func(value any, _ Values) error {
		if isUnset(value) {
			return nil
		}
		if n, ok := length(value); ok && n < min {
			return newError(
				"validation.min_length",
				fmt.Sprintf("Must be at least %d characters", min),
				map[string]any{"min": min},
				message,
			)
		}
		return nil
	}
}

// MaxLength fails when a present value is longer than max.
func MaxLength(max int, message ...string) Validator {
	return func(value any, _ Values) error {
		if isUnset(value) {
			return nil
		}
		if n, ok := length(value); ok && n > max {
			return newError(
				"validation.max_length",
				fmt.Sprintf("Must be no more than %d characters", max),
				map[string]any{"max": max},
				message,
			)
		}
		return nil
	}
}

// Email fails when a present value does not look like local@domain.tld.
func Email(message ...string) Validator {
	return func(value any, _ Values) error {
		if isUnset(value) {
			return nil
		}
		s, ok := stringValue(value)
		if !ok || !emailRegex.MatchString(s) {
			return newError("validation.email", "Please enter a valid email address", nil, message)
		}
		return nil
	}
}

// UsernameMessages overrides the username rule messages. Empty fields keep the defaults.
type UsernameMessages struct {
	MinLength string
	MaxLength string
	Format    string
}

// Username checks length bounds first, then the allowed character set.
func Username(messages ...UsernameMessages) Validator {
	var m UsernameMessages
	if len(messages) > 0 {
		m = messages[0]
	}

	return func(value any, _ Values) error {
		if isUnset(value) {
			return nil
		}
		s, ok := stringValue(value)
		if !ok {
			return newError("validation.username.format",
				"Username can only contain letters, numbers, and underscores", nil, []string{m.Format})
		}

		n, _ := length(s)
		switch {
		case n < UsernameMinLength:
			return newError(
				"validation.username.min_length",
				fmt.Sprintf("Username must be at least %d characters", UsernameMinLength),
				map[string]any{"min": UsernameMinLength},
				[]string{m.MinLength},
			)
		case n > UsernameMaxLength:
			return newError(
				"validation.username.max_length",
				fmt.Sprintf("Username must be no more than %d characters", UsernameMaxLength),
				map[string]any{"max": UsernameMaxLength},
				[]string{m.MaxLength},
			)
		case !usernameRegex.MatchString(s):
			return newError("validation.username.format",
				"Username can only contain letters, numbers, and underscores", nil, []string{m.Format})
		}
		return nil
	}
}

// Pattern fails when a present value does not match re.
func Pattern(re *regexp.Regexp, message ...string) Validator {
	return func(value any, _ Values) error {
		if isUnset(value) || re == nil {
			return nil
		}
		s, ok := stringValue(value)
		if !ok || !re.MatchString(s) {
			return newError("validation.pattern", "Invalid format",
				map[string]any{"pattern": re.String()}, message)
		}
		return nil
	}
}

// OneOf fails when a present value is not one of options.
func OneOf(options []string, message ...string) Validator {
	return func(value any, _ Values) error {
		if isUnset(value) {
			return nil
		}
		s, ok := stringValue(value)
		if !ok || !slices.Contains(options, s) {
			return newError("validation.one_of",
				"Must be one of: "+strings.Join(options, ", "),
				map[string]any{"options": strings.Join(options, ", ")}, message)
		}
		return nil
	}
}

// URL fails when a present value is not an absolute http(s) URL.
func URL(message ...string) Validator {
	return func(value any, _ Values) error {
		if isUnset(value) {
			return nil
		}
		s, ok := stringValue(value)
		if ok {
			u, err := url.Parse(strings.TrimSpace(s))
			if err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
				return nil
			}
		}
		return newError("validation.url", "Please enter a valid URL", nil, message)
	}
}

// Custom fails when fn returns false.
func Custom(fn func(value any, values Values) bool, message ...string) Validator {
	return func(value any, values Values) error {
		if fn == nil || fn(value, values) {
			return nil
		}
		return newError("validation.custom", "Invalid value", nil, message)
	}
}

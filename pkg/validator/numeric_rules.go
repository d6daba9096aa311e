package validator

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Min fails when a present value is not a number or is below min.
func Min(min float64, message ...string) Validator {
	return func(value any, _ Values) error {
		if isUnset(value) {
			return nil
		}
		if n, ok := numberValue(value); !ok || n < min {
			return newError("validation.min",
				fmt.Sprintf("Must be at least %s", formatNumber(min)),
				map[string]any{"min": min}, message)
		}
		return nil
	}
}

// Max fails when a present value is not a number or is above max.
func Max(max float64, message ...string) Validator {
	return func(value any, _ Values) error {
		if isUnset(value) {
			return nil
		}
		if n, ok := numberValue(value); !ok || n > max {
			return newError("validation.max",
				fmt.Sprintf("Must be no more than %s", formatNumber(max)),
				map[string]any{"max": max}, message)
		}
		return nil
	}
}

// UUID fails when a present value does not parse as a UUID.
func UUID(message ...string) Validator {
	return func(value any, _ Values) error {
		if isUnset(value) {
			return nil
		}
		s, ok := stringValue(value)
		if ok {
			if _, err := uuid.Parse(s); err == nil {
				return nil
			}
		}
		return newError("validation.uuid", "Must be a valid UUID", nil, message)
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

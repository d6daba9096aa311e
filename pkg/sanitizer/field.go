package sanitizer

import "strings"

// Field input types with a dedicated policy.
const (
	TypeText     = "text"
	TypeTextarea = "textarea"
	TypeEmail    = "email"
	TypePassword = "password"
	TypeURL      = "url"
	TypeNumber   = "number"
	TypeSelect   = "select"
	TypeCheckbox = "checkbox"
)

var (
	textPolicy     = Compose(RemoveControlChars, StripHTML, SingleLine)
	textareaPolicy = Compose(RemoveControlChars, StripHTML, Trim)
	tokenPolicy    = Compose(RemoveControlChars, Trim)
)

// ForFieldType cleans a submitted string for the given input type.
// Passwords are returned untouched; unknown types get the text policy.
func ForFieldType(fieldType, value string) string {
	switch strings.ToLower(fieldType) {
	case TypePassword:
		return value
	case TypeEmail:
		return NormalizeEmail(RemoveControlChars(value))
	case TypeTextarea:
		return textareaPolicy(value)
	case TypeURL, TypeNumber, TypeSelect, TypeCheckbox:
		return tokenPolicy(value)
	default:
		return textPolicy(value)
	}
}

// Values applies ForFieldType to every string in values, looking up each
// field's type in types. Non-string values are copied as is.
func Values(values map[string]any, types map[string]string) map[string]any {
	out := make(map[string]any, len(values))
	for name, v := range values {
		if s, ok := v.(string); ok {
			out[name] = ForFieldType(types[name], s)
			continue
		}
		out[name] = v
	}
	return out
}

package formhttp

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/mitchelllharris/formkit/pkg/sanitizer"
	"github.com/mitchelllharris/formkit/pkg/schema"
	"github.com/mitchelllharris/formkit/pkg/validator"
)

const maxBodySize = 1 << 20

// readValues decodes the posted values of def's fields from a DataStar signal
// payload, a JSON object or an url-encoded/multipart form. Fields absent from
// the payload are left out, except checkboxes in HTML forms, which browsers
// omit when unchecked.
func readValues(w http.ResponseWriter, r *http.Request, def *schema.Definition) (validator.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var raw map[string]any
	switch {
	case IsDataStar(r):
		raw = map[string]any{}
		if err := datastar.ReadSignals(r, &raw); err != nil {
			return nil, fmt.Errorf("read signals: %w", err)
		}
	case isJSON(r):
		raw = map[string]any{}
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode json body: %w", err)
		}
		if nested, ok := raw["values"].(map[string]any); ok {
			raw = nested
		}
	default:
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("parse form: %w", err)
		}
		raw = make(map[string]any, len(r.PostForm))
		for _, field := range def.Fields {
			if r.PostForm.Has(field.Name) {
				raw[field.Name] = r.PostForm.Get(field.Name)
			} else if field.Type == sanitizer.TypeCheckbox {
				raw[field.Name] = false
			}
		}
	}

	values := make(validator.Values, len(def.Fields))
	for _, field := range def.Fields {
		if v, ok := raw[field.Name]; ok {
			values[field.Name] = coerce(field.Type, v)
		}
	}
	return sanitizer.Values(values, def.FieldTypes()), nil
}

// readFieldValue decodes the value of a single field for a change event. It
// accepts the field's own name or "value" as the key.
func readFieldValue(w http.ResponseWriter, r *http.Request, field schema.Field) (any, bool, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var raw map[string]any
	switch {
	case IsDataStar(r):
		raw = map[string]any{}
		if err := datastar.ReadSignals(r, &raw); err != nil {
			return nil, false, fmt.Errorf("read signals: %w", err)
		}
	case isJSON(r):
		raw = map[string]any{}
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, false, fmt.Errorf("decode json body: %w", err)
		}
	default:
		if err := r.ParseForm(); err != nil {
			return nil, false, fmt.Errorf("parse form: %w", err)
		}
		raw = map[string]any{}
		for _, key := range []string{field.Name, "value"} {
			if r.Form.Has(key) {
				raw[key] = r.Form.Get(key)
			}
		}
		if len(raw) == 0 && field.Type == sanitizer.TypeCheckbox {
			raw[field.Name] = false
		}
	}

	v, ok := raw[field.Name]
	if !ok {
		v, ok = raw["value"]
	}
	if !ok {
		return nil, false, nil
	}
	v = coerce(field.Type, v)
	if s, isString := v.(string); isString {
		v = sanitizer.ForFieldType(field.Type, s)
	}
	return v, true, nil
}

// coerce converts submitted strings to the Go type the field's rules expect.
// Unparseable numbers stay strings so the min and max rules reject them.
func coerce(fieldType string, v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	switch fieldType {
	case sanitizer.TypeCheckbox:
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "on", "true", "1", "yes":
			return true
		}
		return false
	case sanitizer.TypeNumber:
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return v
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

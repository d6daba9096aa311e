package schema

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/mitchelllharris/formkit/pkg/sanitizer"
)

// OrderExtension sets a property's position when a definition is built from
// an OpenAPI component. Properties without it follow, sorted by name.
const OrderExtension = "x-order"

// FromOpenAPI builds a definition from the object schema published as
// components.schemas[component] in an OpenAPI 3 document.
//
// Required properties get the required rule. minLength, maxLength, pattern,
// minimum, maximum and enum map to their rules; the formats email, uri, uuid
// and password pick the field type and rule.
func FromOpenAPI(ctx context.Context, data []byte, component string) (*Definition, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("%w: load openapi document: %w", ErrInvalidDefinition, err)
	}
	if doc.Components == nil {
		return nil, fmt.Errorf("%w: %q", ErrComponentNotFound, component)
	}
	ref, ok := doc.Components.Schemas[component]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("%w: %q", ErrComponentNotFound, component)
	}
	obj := ref.Value
	if len(obj.Properties) == 0 {
		return nil, fmt.Errorf("%w: component %q has no properties", ErrInvalidDefinition, component)
	}

	def := &Definition{Name: component, Title: obj.Title}
	for _, name := range propertyOrder(obj.Properties) {
		prop := obj.Properties[name]
		if prop == nil || prop.Value == nil {
			continue
		}
		def.Fields = append(def.Fields, fieldFromSchema(name, prop.Value, slices.Contains(obj.Required, name)))
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

func fieldFromSchema(name string, s *openapi3.Schema, required bool) Field {
	f := Field{
		Name:    name,
		Label:   s.Title,
		Help:    s.Description,
		Type:    sanitizer.TypeText,
		Initial: s.Default,
	}
	if required {
		f.Rules = append(f.Rules, RuleSpec{Rule: "required"})
	}

	switch {
	case s.Type.Is(openapi3.TypeBoolean):
		f.Type = sanitizer.TypeCheckbox
	case s.Type.Is(openapi3.TypeInteger), s.Type.Is(openapi3.TypeNumber):
		f.Type = sanitizer.TypeNumber
		if s.Min != nil {
			f.Rules = append(f.Rules, RuleSpec{Rule: "min", Args: []any{*s.Min}})
		}
		if s.Max != nil {
			f.Rules = append(f.Rules, RuleSpec{Rule: "max", Args: []any{*s.Max}})
		}
	default:
		f.Rules = append(f.Rules, stringRules(&f, s)...)
	}
	return f
}

func stringRules(f *Field, s *openapi3.Schema) []RuleSpec {
	var rules []RuleSpec
	switch s.Format {
	case "email":
		f.Type = sanitizer.TypeEmail
		rules = append(rules, RuleSpec{Rule: "email"})
	case "uri", "url":
		f.Type = sanitizer.TypeURL
		rules = append(rules, RuleSpec{Rule: "url"})
	case "uuid":
		rules = append(rules, RuleSpec{Rule: "uuid"})
	case "password":
		f.Type = sanitizer.TypePassword
	}

	if s.MinLength > 0 {
		rules = append(rules, RuleSpec{Rule: "min_length", Args: []any{int(s.MinLength)}})
	}
	if s.MaxLength != nil {
		rules = append(rules, RuleSpec{Rule: "max_length", Args: []any{int(*s.MaxLength)}})
	}
	if s.Pattern != "" {
		rules = append(rules, RuleSpec{Rule: "pattern", Args: []any{s.Pattern}})
	}
	if len(s.Enum) > 0 {
		f.Type = sanitizer.TypeSelect
		for _, v := range s.Enum {
			f.Choices = append(f.Choices, fmt.Sprint(v))
		}
	}
	return rules
}

func propertyOrder(props openapi3.Schemas) []string {
	type entry struct {
		name  string
		order int
		set   bool
	}
	entries := make([]entry, 0, len(props))
	for name, ref := range props {
		e := entry{name: name}
		if ref != nil && ref.Value != nil {
			e.order, e.set = extensionInt(ref.Value.Extensions[OrderExtension])
		}
		entries = append(entries, e)
	}

	slices.SortFunc(entries, func(a, b entry) int {
		switch {
		case a.set && !b.set:
			return -1
		case !a.set && b.set:
			return 1
		case a.set && b.set && a.order != b.order:
			return cmp.Compare(a.order, b.order)
		}
		return cmp.Compare(a.name, b.name)
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

func extensionInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

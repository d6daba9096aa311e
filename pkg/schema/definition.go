package schema

import (
	"errors"
	"fmt"

	"github.com/mitchelllharris/formkit/pkg/form"
	"github.com/mitchelllharris/formkit/pkg/sanitizer"
	"github.com/mitchelllharris/formkit/pkg/validator"
)

// Definition describes a form declaratively: its fields in display order,
// their initial values and validation rules.
type Definition struct {
	Name    string  `yaml:"name" json:"name"`
	Title   string  `yaml:"title,omitempty" json:"title,omitempty"`
	Options Options `yaml:"options,omitempty" json:"options,omitempty"`
	Fields  []Field `yaml:"fields" json:"fields"`
}

// Options mirrors the engine's configuration. Nil keeps the engine default.
type Options struct {
	ValidateOnChange   *bool `yaml:"validate_on_change,omitempty" json:"validate_on_change,omitempty"`
	ValidateOnBlur     *bool `yaml:"validate_on_blur,omitempty" json:"validate_on_blur,omitempty"`
	ShowErrorsOnSubmit *bool `yaml:"show_errors_on_submit,omitempty" json:"show_errors_on_submit,omitempty"`
}

// Field is one input of a Definition. Type is one of the sanitizer field
// types and defaults to text.
type Field struct {
	Name        string     `yaml:"name" json:"name"`
	Label       string     `yaml:"label,omitempty" json:"label,omitempty"`
	Type        string     `yaml:"type,omitempty" json:"type,omitempty"`
	Initial     any        `yaml:"initial,omitempty" json:"initial,omitempty"`
	Placeholder string     `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Help        string     `yaml:"help,omitempty" json:"help,omitempty"`
	Choices     []string   `yaml:"choices,omitempty" json:"choices,omitempty"`
	Rules       []RuleSpec `yaml:"rules,omitempty" json:"rules,omitempty"`
}

var fieldTypes = map[string]bool{
	sanitizer.TypeText:     true,
	sanitizer.TypeTextarea: true,
	sanitizer.TypeEmail:    true,
	sanitizer.TypePassword: true,
	sanitizer.TypeURL:      true,
	sanitizer.TypeNumber:   true,
	sanitizer.TypeSelect:   true,
	sanitizer.TypeCheckbox: true,
}

// DisplayLabel returns Label, or Name when no label is set.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// Required reports whether the field carries the required rule.
func (f Field) Required() bool {
	for _, r := range f.Rules {
		if r.Rule == "required" {
			return true
		}
	}
	return false
}

// Field returns the field called name.
func (d *Definition) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Order returns the field names in declaration order.
func (d *Definition) Order() []string {
	names := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		names[i] = f.Name
	}
	return names
}

// FieldTypes maps field names to their types, for sanitizer.Values.
func (d *Definition) FieldTypes() map[string]string {
	types := make(map[string]string, len(d.Fields))
	for _, f := range d.Fields {
		types[f.Name] = f.Type
	}
	return types
}

// InitialValues returns a fresh map of starting values. Fields without an
// initial value start as "" except checkboxes (false) and numbers (nil).
func (d *Definition) InitialValues() validator.Values {
	values := make(validator.Values, len(d.Fields))
	for _, f := range d.Fields {
		switch {
		case f.Initial != nil:
			values[f.Name] = f.Initial
		case f.Type == sanitizer.TypeCheckbox:
			values[f.Name] = false
		case f.Type == sanitizer.TypeNumber:
			values[f.Name] = nil
		default:
			values[f.Name] = ""
		}
	}
	return values
}

// Rules builds the validator chains. Select fields with choices get an
// implicit one_of check after their declared rules.
func (d *Definition) Rules() (validator.Rules, error) {
	rules := make(validator.Rules, len(d.Fields))
	for _, f := range d.Fields {
		chain := make([]validator.Validator, 0, len(f.Rules)+1)
		for _, spec := range f.Rules {
			v, err := Build(spec)
			if err != nil {
				var re *RuleError
				if errors.As(err, &re) {
					re.Field = f.Name
				}
				return nil, err
			}
			chain = append(chain, v)
		}
		if f.Type == sanitizer.TypeSelect && len(f.Choices) > 0 {
			chain = append(chain, validator.OneOf(f.Choices))
		}
		if len(chain) > 0 {
			rules[f.Name] = chain
		}
	}
	return rules, nil
}

// FormOptions translates the definition into engine options.
func (d *Definition) FormOptions() []form.Option {
	opts := []form.Option{
		form.WithName(d.Name),
		form.WithFieldOrder(d.Order()...),
	}
	if d.Options.ValidateOnChange != nil {
		opts = append(opts, form.WithValidateOnChange(*d.Options.ValidateOnChange))
	}
	if d.Options.ValidateOnBlur != nil {
		opts = append(opts, form.WithValidateOnBlur(*d.Options.ValidateOnBlur))
	}
	if d.Options.ShowErrorsOnSubmit != nil {
		opts = append(opts, form.WithShowErrorsOnSubmit(*d.Options.ShowErrorsOnSubmit))
	}
	return opts
}

// NewForm builds a fresh engine for the definition. opts are applied after
// the definition's own options.
func (d *Definition) NewForm(opts ...form.Option) (*form.Form, error) {
	rules, err := d.Rules()
	if err != nil {
		return nil, err
	}
	return form.New(d.InitialValues(), rules, append(d.FormOptions(), opts...)...), nil
}

// Restore builds an engine that resumes from a saved state. Reset still
// returns to the definition's initial values.
func (d *Definition) Restore(state form.State, opts ...form.Option) (*form.Form, error) {
	return d.NewForm(append([]form.Option{form.WithState(state)}, opts...)...)
}

// Validate checks the definition's structure and that every rule resolves.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}
	if len(d.Fields) == 0 {
		return fmt.Errorf("%w: form %q has no fields", ErrInvalidDefinition, d.Name)
	}

	seen := make(map[string]bool, len(d.Fields))
	for i := range d.Fields {
		f := &d.Fields[i]
		if f.Name == "" {
			return fmt.Errorf("%w: form %q field %d has no name", ErrInvalidDefinition, d.Name, i)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: form %q declares field %q twice", ErrInvalidDefinition, d.Name, f.Name)
		}
		seen[f.Name] = true

		if f.Type == "" {
			f.Type = sanitizer.TypeText
		}
		if !fieldTypes[f.Type] {
			return fmt.Errorf("%w: field %q has unknown type %q", ErrInvalidDefinition, f.Name, f.Type)
		}
		for _, r := range f.Rules {
			if r.Rule != "password_match" {
				continue
			}
			if target, _ := stringArg(r.Args); target != "" && !d.hasField(target) {
				return fmt.Errorf("%w: field %q matches unknown field %q", ErrInvalidDefinition, f.Name, target)
			}
		}
	}

	_, err := d.Rules()
	return err
}

func (d *Definition) hasField(name string) bool {
	_, ok := d.Field(name)
	return ok
}

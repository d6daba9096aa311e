package form

import "github.com/mitchelllharris/formkit/pkg/validator"

// FieldProps is what a UI binding needs for one field.
type FieldProps struct {
	Name  string
	Value any
	// Error is only set once the field is touched.
	Error string
	// Success is true for touched fields with a value and no error.
	Success  bool
	OnChange func(value any)
	OnBlur   func()
}

// FieldProps returns the binding for name.
func (f *Form) FieldProps(name string) FieldProps {
	f.mu.RLock()
	value := f.state.Values[name]
	touched := f.state.Touched[name]
	msg := f.state.Errors[name]
	f.mu.RUnlock()

	props := FieldProps{
		Name:     name,
		Value:    value,
		OnChange: func(v any) { f.Change(name, v) },
		OnBlur:   func() { f.Blur(name) },
	}
	if touched {
		props.Error = msg
		props.Success = msg == "" && !validator.IsEmpty(value)
	}
	return props
}

// FieldPropsWith decorates the binding for name with extra validators that run
// after the engine's own handlers. See Decorate.
func (f *Form) FieldPropsWith(name string, extra ...validator.Validator) FieldProps {
	return Decorate(f.FieldProps(name), validator.Chain(extra...), f)
}

// Target is the part of a form that Decorate needs.
type Target interface {
	Values() validator.Values
	Touched(name string) bool
	SetError(name, message string)
}

// Decorate layers an extra validator over base field props. Each handler runs
// the base handler first, then the extra validator against the current
// values, and records its error when it fails. A passing extra validator
// leaves the base result untouched.
func Decorate(base FieldProps, extra validator.Validator, target Target) FieldProps {
	if extra == nil || target == nil {
		return base
	}

	check := func() {
		if !target.Touched(base.Name) {
			return
		}
		values := target.Values()
		if err := extra(values[base.Name], values); err != nil {
			target.SetError(base.Name, err.Error())
		}
	}

	decorated := base
	decorated.OnChange = func(v any) {
		if base.OnChange != nil {
			base.OnChange(v)
		}
		check()
	}
	decorated.OnBlur = func() {
		if base.OnBlur != nil {
			base.OnBlur()
		}
		check()
	}

	if target.Touched(base.Name) && base.Error == "" {
		values := target.Values()
		if err := extra(values[base.Name], values); err != nil {
			decorated.Error = err.Error()
			decorated.Success = false
		}
	}
	return decorated
}

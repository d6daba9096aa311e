// Package validator provides pure, composable field validators and the two
// aggregation helpers used by the form engine.
//
// A Validator is a function of the field value and the full value set:
//
//	type Validator func(value any, values Values) error
//
// It returns nil when the value passes and a ValidationError otherwise. The
// error carries a human readable Message plus a TranslationKey and
// TranslationValues so callers can localise it. Validators never panic and
// never perform I/O, so they are cheap enough to run on every keystroke.
//
// # Emptiness
//
// Every rule except Required passes on an unset value (nil, "", false).
// Emptiness is the job of Required, which also rejects whitespace-only strings
// and empty collections. Put Required first in a chain to report it before any
// format rule:
//
//	rules := validator.Rules{
//	    "email":    {validator.Required(), validator.Email()},
//	    "password": {validator.Required(), validator.Password()},
//	    "confirm":  {validator.Required(), validator.PasswordMatch("password")},
//	}
//
// # Aggregation
//
// ValidateField returns the first failure of an ordered chain. ValidateForm runs
// every chain in a Rules mapping and returns only failing fields; fields with no
// rules are ignored. Check wraps ValidateForm and returns ValidationErrors as an
// error, which is convenient for batch validation:
//
//	if err := validator.Check(values, rules, "email", "password"); err != nil {
//	    for _, e := range validator.ExtractValidationErrors(err) {
//	        fmt.Println(e.Field, e.Message)
//	    }
//	}
//
// Message overrides are passed as trailing arguments. An overridden message
// has no translation key, so translators leave it as written.
package validator

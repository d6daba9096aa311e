// Package form implements a form state engine: it tracks field values,
// validation errors, touched fields and an in-flight submission flag, and
// mediates between UI events and the validator package.
//
// The engine knows nothing about rendering or transport. A UI binding asks for
// FieldProps, calls OnChange and OnBlur as the user interacts, and binds the
// handler returned by HandleSubmit to the submission event.
//
//	f := form.New(
//	    validator.Values{"email": "", "password": ""},
//	    validator.Rules{
//	        "email":    {validator.Required(), validator.Email()},
//	        "password": {validator.Required(), validator.Password()},
//	    },
//	    form.WithFieldOrder("email", "password"),
//	)
//
//	props := f.FieldProps("email")
//	props.OnChange("user@example.com")
//	props.OnBlur()
//
//	submit := f.HandleSubmit(func(ctx context.Context, values validator.Values) error {
//	    return api.Register(ctx, values)
//	})
//	if err := submit(ctx); form.IsBlocked(err) {
//	    // focus f.FirstInvalid()
//	}
//
// # Transitions
//
// Change stores the value and clears the field's error; a touched field is
// then re-validated when validate-on-change is enabled. Blur marks the field
// touched and validates it when validate-on-blur is enabled. A submit attempt
// touches every field, validates the whole form, and only calls the submit
// function when nothing failed.
//
// Each transition is a pure function from State to State. The Form applies it
// under a lock and publishes the resulting snapshot to Subscribe callbacks.
//
// # Validity
//
// IsValid is true when no error is recorded. A field that was never validated
// has no error, so a fresh form reports valid. Submission always validates
// fully, so IsValid is only a hint for the UI.
package form

package form_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mitchelllharris/formkit/pkg/form"
	"github.com/mitchelllharris/formkit/pkg/validator"
)

func TestFieldPropsWith(t *testing.T) {
	t.Parallel()

	taken := validator.Custom(func(value any, _ validator.Values) bool {
		return value != "admin"
	}, "Username is taken")

	newForm := func() *form.Form {
		return form.New(
			validator.Values{"username": ""},
			validator.Rules{"username": {validator.Required(), validator.Username()}},
		)
	}

	t.Run("extra validator runs after the base handler", func(t *testing.T) {
		f := newForm()
		props := f.FieldPropsWith("username", taken)
		props.OnChange("admin")
		assert.Empty(t, f.Error("username"), "untouched field")

		props.OnBlur()
		assert.Equal(t, "Username is taken", f.Error("username"))
		assert.Equal(t, "Username is taken", f.FieldPropsWith("username", taken).Error)
	})

	t.Run("base errors win over a passing extra validator", func(t *testing.T) {
		f := newForm()
		props := f.FieldPropsWith("username", taken)
		props.OnChange("ab")
		props.OnBlur()
		assert.Equal(t, "Username must be at least 3 characters", f.Error("username"))
	})

	t.Run("passing value clears both", func(t *testing.T) {
		f := newForm()
		props := f.FieldPropsWith("username", taken)
		props.OnBlur()
		props.OnChange("neo_1")
		assert.Empty(t, f.Error("username"))
		assert.True(t, f.FieldPropsWith("username", taken).Success)
	})

	t.Run("no extra validators", func(t *testing.T) {
		f := newForm()
		props := f.FieldPropsWith("username")
		props.OnChange("admin")
		props.OnBlur()
		assert.Empty(t, f.Error("username"))
	})
}

func TestDecorateNilInputs(t *testing.T) {
	t.Parallel()

	base := form.FieldProps{Name: "x"}
	assert.Equal(t, base.Name, form.Decorate(base, nil, nil).Name)
}

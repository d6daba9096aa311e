package validator_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelllharris/formkit/pkg/validator"
)

func TestValidateField(t *testing.T) {
	t.Parallel()

	t.Run("returns nil when every validator passes", func(t *testing.T) {
		err := validator.ValidateField("user@example.com", []validator.Validator{
			validator.Required(),
			validator.Email(),
		})
		assert.NoError(t, err)
	})

	t.Run("first failing validator wins", func(t *testing.T) {
		err := validator.ValidateField("", []validator.Validator{
			validator.Required(),
			validator.Email(),
		})
		require.Error(t, err)
		assert.Equal(t, "This field is required", err.Error())
	})

	t.Run("order decides which error is reported", func(t *testing.T) {
		chain := []validator.Validator{
			validator.MinLength(10, "too short"),
			validator.Email("not an email"),
		}
		err := validator.ValidateField("abc", chain)
		require.Error(t, err)
		assert.Equal(t, "too short", err.Error())

		reversed := []validator.Validator{chain[1], chain[0]}
		err = validator.ValidateField("abc", reversed)
		require.Error(t, err)
		assert.Equal(t, "not an email", err.Error())
	})

	t.Run("skips nil validators", func(t *testing.T) {
		err := validator.ValidateField("x", []validator.Validator{nil, validator.Required()})
		assert.NoError(t, err)
	})

	t.Run("empty chain passes", func(t *testing.T) {
		assert.NoError(t, validator.ValidateField(nil, nil))
	})

	t.Run("error carries translation metadata", func(t *testing.T) {
		err := validator.ValidateField("ab", []validator.Validator{validator.MinLength(3)})
		var ve validator.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "validation.min_length", ve.TranslationKey)
		assert.Equal(t, map[string]any{"min": 3}, ve.TranslationValues)
	})
}

func TestValidateFieldIn(t *testing.T) {
	t.Parallel()

	values := validator.Values{"password": "Secret1@", "confirm": "Secret1!"}

	t.Run("sets the field name on the error", func(t *testing.T) {
		err := validator.ValidateFieldIn(values, "confirm", []validator.Validator{
			validator.PasswordMatch("password"),
		})
		var ve validator.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "confirm", ve.Field)
		assert.Equal(t, "Passwords do not match", ve.Message)
	})

	t.Run("missing field is validated as nil", func(t *testing.T) {
		err := validator.ValidateFieldIn(values, "absent", []validator.Validator{validator.Required()})
		require.Error(t, err)
		assert.Equal(t, "This field is required", err.Error())
	})

	t.Run("nil values are tolerated", func(t *testing.T) {
		err := validator.ValidateFieldIn(nil, "email", []validator.Validator{validator.Email()})
		assert.NoError(t, err)
	})
}

func TestValidateForm(t *testing.T) {
	t.Parallel()

	t.Run("only fields with rules are validated", func(t *testing.T) {
		errs := validator.ValidateForm(
			validator.Values{"a": "", "b": "x"},
			validator.Rules{"a": {validator.Required()}},
		)
		assert.Equal(t, map[string]string{"a": "This field is required"}, errs.Messages())
	})

	t.Run("passing fields are absent from the result", func(t *testing.T) {
		errs := validator.ValidateForm(
			validator.Values{"a": "filled", "b": ""},
			validator.Rules{
				"a": {validator.Required()},
				"b": {validator.Required()},
			},
		)
		assert.Len(t, errs, 1)
		assert.Contains(t, errs, "b")
		assert.NotContains(t, errs, "a")
	})

	t.Run("fields missing from values are validated as nil", func(t *testing.T) {
		errs := validator.ValidateForm(validator.Values{}, validator.Rules{
			"name": {validator.Required()},
		})
		assert.Contains(t, errs, "name")
	})

	t.Run("is idempotent", func(t *testing.T) {
		values := validator.Values{"email": "bad", "name": ""}
		rules := validator.Rules{
			"email": {validator.Required(), validator.Email()},
			"name":  {validator.Required()},
		}
		first := validator.ValidateForm(values, rules).Messages()
		second := validator.ValidateForm(values, rules).Messages()
		assert.Equal(t, first, second)
		assert.Equal(t, validator.Values{"email": "bad", "name": ""}, values)
	})

	t.Run("empty rules produce no errors", func(t *testing.T) {
		assert.Empty(t, validator.ValidateForm(validator.Values{"a": ""}, nil))
	})
}

func TestCheck(t *testing.T) {
	t.Parallel()

	rules := validator.Rules{
		"email":    {validator.Required(), validator.Email()},
		"name":     {validator.Required()},
		"username": {validator.Username()},
	}

	t.Run("returns nil for valid values", func(t *testing.T) {
		err := validator.Check(validator.Values{
			"email":    "user@example.com",
			"name":     "Jane",
			"username": "jane_doe",
		}, rules)
		assert.NoError(t, err)
	})

	t.Run("orders errors by the given field order", func(t *testing.T) {
		err := validator.Check(validator.Values{"email": "", "name": "", "username": "x"}, rules,
			"username", "name", "email")
		require.Error(t, err)
		require.True(t, validator.IsValidationError(err))
		assert.True(t, errors.Is(err, validator.ErrValidationFailed))

		verrs := validator.ExtractValidationErrors(err)
		assert.Equal(t, []string{"username", "name", "email"}, verrs.Fields())
		assert.Equal(t, "This field is required", verrs.Get("email"))
		assert.True(t, verrs.Has("username"))
		assert.False(t, verrs.Has("missing"))
	})

	t.Run("unordered fields follow lexical order", func(t *testing.T) {
		err := validator.Check(validator.Values{}, rules)
		verrs := validator.ExtractValidationErrors(err)
		assert.Equal(t, []string{"email", "name"}, verrs.Fields())
	})
}

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	t.Run("formats every field", func(t *testing.T) {
		var verrs validator.ValidationErrors
		verrs.Add(validator.ValidationError{Field: "email", Message: "bad"})
		verrs.Add(validator.ValidationError{Field: "name", Message: "missing"})
		assert.Equal(t, "validation failed: email: bad; name: missing", verrs.Error())
		assert.False(t, verrs.IsEmpty())
	})

	t.Run("empty collection", func(t *testing.T) {
		var verrs validator.ValidationErrors
		assert.Equal(t, "validation failed", verrs.Error())
		assert.True(t, verrs.IsEmpty())
		assert.Empty(t, verrs.Fields())
	})

	t.Run("extract ignores foreign errors", func(t *testing.T) {
		assert.Nil(t, validator.ExtractValidationErrors(errors.New("boom")))
		assert.Nil(t, validator.ExtractValidationErrors(nil))
		assert.False(t, validator.IsValidationError(nil))
	})
}

func TestChain(t *testing.T) {
	t.Parallel()

	v := validator.Chain(validator.Required(), validator.MinLength(3))
	assert.Error(t, v("", nil))
	assert.EqualError(t, v("ab", nil), "Must be at least 3 characters")
	assert.NoError(t, v("abc", nil))
}

func TestIsEmpty(t *testing.T) {
	t.Parallel()

	var nilPtr *string
	blank := "   "
	word := "x"

	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"whitespace", "  \t", true},
		{"text", "a", false},
		{"false", false, true},
		{"true", true, false},
		{"zero int", 0, false},
		{"empty slice", []string{}, true},
		{"slice", []string{"a"}, false},
		{"empty map", map[string]any{}, true},
		{"nil pointer", nilPtr, true},
		{"pointer to blank", &blank, true},
		{"pointer to word", &word, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validator.IsEmpty(tt.value))
		})
	}
}

package schema_test

import (
	"context"
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelllharris/formkit/pkg/form"
	"github.com/mitchelllharris/formkit/pkg/schema"
	"github.com/mitchelllharris/formkit/pkg/validator"
)

func TestLoadFile(t *testing.T) {
	t.Parallel()

	def, err := schema.LoadFile("testdata/signup.yaml")
	require.NoError(t, err)

	assert.Equal(t, "signup", def.Name)
	assert.Equal(t, "Create your account", def.Title)
	assert.Equal(t, []string{"username", "email", "password", "confirm", "plan", "terms"}, def.Order())
	assert.Equal(t, validator.Values{
		"username": "",
		"email":    "",
		"password": "",
		"confirm":  "",
		"plan":     "free",
		"terms":    false,
	}, def.InitialValues())

	username, ok := def.Field("username")
	require.True(t, ok)
	assert.Equal(t, "text", username.Type, "type defaults to text")
	assert.True(t, username.Required())

	confirm, _ := def.Field("confirm")
	assert.Equal(t, schema.RuleSpec{Rule: "password_match", Args: []any{"password"}, Message: "Both passwords must match"}, confirm.Rules[1])

	plan, _ := def.Field("plan")
	assert.False(t, plan.Required())
	assert.Equal(t, "plan", plan.DisplayLabel())
	assert.Equal(t, "Email", func() string { f, _ := def.Field("email"); return f.DisplayLabel() }())

	assert.Equal(t, "email", def.FieldTypes()["email"])
}

func TestNewForm(t *testing.T) {
	t.Parallel()

	def, err := schema.LoadFile("testdata/signup.yaml")
	require.NoError(t, err)

	f, err := def.NewForm()
	require.NoError(t, err)
	assert.Equal(t, "signup", f.Name())
	assert.Equal(t, def.Order(), f.Fields())

	t.Run("definition options reach the engine", func(t *testing.T) {
		f, err := def.NewForm()
		require.NoError(t, err)
		f.Blur("email")
		require.Equal(t, "This field is required", f.Error("email"))
		f.Change("email", "")
		assert.Empty(t, f.Error("email"), "validate_on_change is off")
	})

	t.Run("rules are wired", func(t *testing.T) {
		f, err := def.NewForm(form.WithValidateOnChange(true))
		require.NoError(t, err)
		f.Change("password", "Secret1@x")
		f.Change("confirm", "Secret1@y")
		f.Blur("confirm")
		assert.Equal(t, "Both passwords must match", f.Error("confirm"))

		f.Blur("terms")
		assert.Equal(t, "You must accept the terms", f.Error("terms"))

		f.Change("plan", "enterprise")
		f.Blur("plan")
		assert.NotEmpty(t, f.Error("plan"), "select choices are enforced")
	})

	t.Run("submit is blocked in field order", func(t *testing.T) {
		f, err := def.NewForm()
		require.NoError(t, err)
		err = f.HandleSubmit(nil)(context.Background())
		require.True(t, form.IsBlocked(err))
		assert.Equal(t, []string{"username", "email", "password", "confirm", "terms"},
			validator.ExtractValidationErrors(err).Fields())
	})
}

func TestRestore(t *testing.T) {
	t.Parallel()

	def, err := schema.LoadFile("testdata/signup.yaml")
	require.NoError(t, err)

	f, err := def.NewForm()
	require.NoError(t, err)
	f.Change("email", "jane@example.com")
	f.Blur("email")

	restored, err := def.Restore(f.State())
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", restored.Value("email"))
	assert.True(t, restored.Touched("email"))

	restored.Reset()
	assert.Equal(t, "", restored.Value("email"))
}

func TestLoadDir(t *testing.T) {
	t.Parallel()

	defs, err := schema.LoadDir("testdata")
	require.Error(t, err, "openapi.yaml is not a form definition")

	fsys := fstest.MapFS{
		"forms/signup.yaml":  {Data: mustRead(t, "testdata/signup.yaml")},
		"forms/contact.yml":  {Data: mustRead(t, "testdata/contact.yml")},
		"forms/README.txt":   {Data: []byte("ignored")},
		"forms/nested/x.yml": {Data: []byte("ignored")},
	}
	defs, err = schema.LoadFS(fsys, "forms")
	require.NoError(t, err)
	assert.Len(t, defs, 2)
	assert.Contains(t, defs, "signup")

	contact := defs["contact"]
	require.NotNil(t, contact)
	assert.Equal(t, validator.Values{"message": "", "age": nil}, contact.InitialValues())

	rules, err := contact.Rules()
	require.NoError(t, err)
	assert.Error(t, validator.ValidateField("short", rules["message"]))
	assert.Error(t, validator.ValidateField("17", rules["age"]))
	assert.Error(t, validator.ValidateField(121, rules["age"]))
	assert.NoError(t, validator.ValidateField(30, rules["age"]))

	t.Run("duplicate names", func(t *testing.T) {
		dup := fstest.MapFS{
			"a.yaml": {Data: mustRead(t, "testdata/contact.yml")},
			"b.yaml": {Data: mustRead(t, "testdata/contact.yml")},
		}
		_, err := schema.LoadFS(dup, ".")
		assert.ErrorIs(t, err, schema.ErrInvalidDefinition)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := schema.LoadDir("testdata/missing")
		assert.Error(t, err)
	})
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
		err  error
	}{
		{name: "empty", yaml: "", err: schema.ErrInvalidDefinition},
		{name: "no name", yaml: "fields: [{name: a}]", err: schema.ErrInvalidDefinition},
		{name: "no fields", yaml: "name: x", err: schema.ErrInvalidDefinition},
		{name: "unnamed field", yaml: "name: x\nfields: [{type: text}]", err: schema.ErrInvalidDefinition},
		{name: "duplicate field", yaml: "name: x\nfields: [{name: a}, {name: a}]", err: schema.ErrInvalidDefinition},
		{name: "unknown type", yaml: "name: x\nfields: [{name: a, type: date}]", err: schema.ErrInvalidDefinition},
		{name: "unknown key", yaml: "name: x\nlabel: y\nfields: [{name: a}]", err: schema.ErrInvalidDefinition},
		{name: "unknown rule", yaml: "name: x\nfields: [{name: a, rules: [shiny]}]", err: schema.ErrUnknownRule},
		{name: "bad min_length", yaml: "name: x\nfields: [{name: a, rules: ['min_length:abc']}]", err: schema.ErrInvalidRuleArgs},
		{name: "bad pattern", yaml: "name: x\nfields: [{name: a, rules: [{rule: pattern, args: ['[']}]}]", err: schema.ErrInvalidRuleArgs},
		{name: "match unknown field", yaml: "name: x\nfields: [{name: a, rules: ['password_match:b']}]", err: schema.ErrInvalidDefinition},
		{name: "rule is a list", yaml: "name: x\nfields: [{name: a, rules: [[required]]}]", err: schema.ErrInvalidDefinition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.err)
		})
	}

	t.Run("rule errors name the field", func(t *testing.T) {
		_, err := schema.Parse([]byte("name: x\nfields: [{name: a, rules: [shiny]}]"))
		var re *schema.RuleError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, "a", re.Field)
		assert.Equal(t, "shiny", re.Rule)
		assert.Contains(t, err.Error(), `field "a" rule "shiny"`)
	})
}

func TestBuild(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec  string
		good  any
		bad   any
		error string
	}{
		{spec: "required", good: "x", bad: "", error: "This field is required"},
		{spec: "email", good: "a@b.co", bad: "nope"},
		{spec: "url", good: "https://example.com", bad: "example"},
		{spec: "uuid", good: "7b0e5c1e-4a86-4c41-9f1b-0b9f9d1d6a10", bad: "123"},
		{spec: "min_length:3", good: "abc", bad: "ab"},
		{spec: "max_length:3", good: "abc", bad: "abcd"},
		{spec: "min:1.5", good: 2, bad: "1"},
		{spec: "max:10", good: "10", bad: 11},
		{spec: "password", good: "Secret1@x", bad: "secret"},
		{spec: "username", good: "jane_doe", bad: "j!"},
		{spec: "pattern:^[a-z]+,[0-9]+$", good: "abc,123", bad: "abc"},
		{spec: "one_of:red, green ,blue", good: "green", bad: "pink"},
		{spec: "equals:yes", good: "yes", bad: "no"},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			v, err := schema.Build(schema.ParseRule(tt.spec))
			require.NoError(t, err)
			assert.NoError(t, v(tt.good, nil))
			err = v(tt.bad, nil)
			require.Error(t, err)
			if tt.error != "" {
				assert.Equal(t, tt.error, err.Error())
			}
		})
	}

	t.Run("message override", func(t *testing.T) {
		v, err := schema.Build(schema.RuleSpec{Rule: "password", Message: "Too weak"})
		require.NoError(t, err)
		assert.EqualError(t, v("abc", nil), "Too weak")
	})

	t.Run("one_of from a list", func(t *testing.T) {
		v, err := schema.Build(schema.RuleSpec{Rule: "one_of", Args: []any{1, 2}})
		require.NoError(t, err)
		assert.NoError(t, v("2", nil))
	})

	t.Run("argument errors", func(t *testing.T) {
		for _, spec := range []schema.RuleSpec{
			{Rule: "required", Args: []any{"x"}},
			{Rule: "min_length"},
			{Rule: "min_length", Args: []any{-1}},
			{Rule: "max_length", Args: []any{2.5}},
			{Rule: "min", Args: []any{"many"}},
			{Rule: "password_match", Args: []any{""}},
			{Rule: "one_of", Args: []any{" , "}},
			{Rule: "equals"},
		} {
			_, err := schema.Build(spec)
			assert.ErrorIs(t, err, schema.ErrInvalidRuleArgs, spec.String())
		}
	})
}

func TestRegister(t *testing.T) {
	t.Parallel()

	schema.Register("even", func(args []any, message string) (validator.Validator, error) {
		return validator.Custom(func(value any, _ validator.Values) bool {
			n, ok := value.(int)
			return ok && n%2 == 0
		}, "Must be even"), nil
	})
	assert.Contains(t, schema.RuleNames(), "even")

	v, err := schema.Build(schema.ParseRule("even"))
	require.NoError(t, err)
	assert.NoError(t, v(4, nil))
	assert.EqualError(t, v(3, nil), "Must be even")
}

func TestRuleNames(t *testing.T) {
	t.Parallel()

	names := schema.RuleNames()
	for _, want := range []string{
		"email", "equals", "max", "max_length", "min", "min_length", "one_of",
		"password", "password_match", "pattern", "required", "url", "username", "uuid",
	} {
		assert.Contains(t, names, want)
	}
	assert.IsIncreasing(t, names)
}

func TestFromOpenAPI(t *testing.T) {
	t.Parallel()

	data := mustRead(t, "testdata/openapi.yaml")
	def, err := schema.FromOpenAPI(context.Background(), data, "Account")
	require.NoError(t, err)

	assert.Equal(t, "Account", def.Name)
	assert.Equal(t, "New account", def.Title)
	assert.Equal(t, []string{"email", "name", "age", "code", "newsletter", "plan", "website"}, def.Order())

	types := def.FieldTypes()
	assert.Equal(t, "email", types["email"])
	assert.Equal(t, "number", types["age"])
	assert.Equal(t, "checkbox", types["newsletter"])
	assert.Equal(t, "select", types["plan"])
	assert.Equal(t, "url", types["website"])
	assert.Equal(t, "text", types["code"])

	name, _ := def.Field("name")
	assert.Equal(t, "Full name", name.Label)
	assert.Equal(t, []string{"required", "min_length:2", "max_length:64"}, ruleStrings(name.Rules))

	plan, _ := def.Field("plan")
	assert.Equal(t, []string{"free", "pro"}, plan.Choices)
	assert.Equal(t, "free", def.InitialValues()["plan"])

	f, err := def.NewForm()
	require.NoError(t, err)
	f.Change("age", 12)
	f.Change("code", "abc")
	f.Change("website", "nope")
	f.ValidateAllFields()
	for _, field := range []string{"email", "name", "age", "code", "website"} {
		assert.NotEmpty(t, f.Error(field), field)
	}
	assert.Empty(t, f.Error("plan"))

	t.Run("unknown component", func(t *testing.T) {
		_, err := schema.FromOpenAPI(context.Background(), data, "Missing")
		assert.ErrorIs(t, err, schema.ErrComponentNotFound)
	})

	t.Run("invalid document", func(t *testing.T) {
		_, err := schema.FromOpenAPI(context.Background(), []byte("{"), "Account")
		assert.ErrorIs(t, err, schema.ErrInvalidDefinition)
	})
}

func ruleStrings(rules []schema.RuleSpec) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.String()
	}
	return out
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

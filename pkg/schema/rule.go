package schema

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuleSpec names a validation rule with its arguments and an optional message
// override. In YAML it is either a scalar such as "min_length:3" or a mapping
// with rule, args and message keys.
type RuleSpec struct {
	Rule    string `yaml:"rule" json:"rule"`
	Args    []any  `yaml:"args,omitempty" json:"args,omitempty"`
	Message string `yaml:"message,omitempty" json:"message,omitempty"`
}

// ParseRule parses the scalar form "name" or "name:arg". The argument is kept
// as a single string; rules that take lists split it on commas.
func ParseRule(s string) RuleSpec {
	name, arg, found := strings.Cut(strings.TrimSpace(s), ":")
	spec := RuleSpec{Rule: strings.TrimSpace(name)}
	if found {
		spec.Args = []any{arg}
	}
	return spec
}

func (r *RuleSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*r = ParseRule(node.Value)
		return nil
	case yaml.MappingNode:
		var raw struct {
			Rule    string    `yaml:"rule"`
			Args    yaml.Node `yaml:"args"`
			Message string    `yaml:"message"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		spec := RuleSpec{Rule: strings.TrimSpace(raw.Rule), Message: raw.Message}
		switch raw.Args.Kind {
		case 0:
		case yaml.SequenceNode:
			if err := raw.Args.Decode(&spec.Args); err != nil {
				return err
			}
		default:
			var arg any
			if err := raw.Args.Decode(&arg); err != nil {
				return err
			}
			spec.Args = []any{arg}
		}
		*r = spec
		return nil
	}
	return fmt.Errorf("line %d: rule must be a string or a mapping", node.Line)
}

func (r RuleSpec) String() string {
	if len(r.Args) == 0 {
		return r.Rule
	}
	args := make([]string, len(r.Args))
	for i, a := range r.Args {
		args[i] = fmt.Sprint(a)
	}
	return r.Rule + ":" + strings.Join(args, ",")
}

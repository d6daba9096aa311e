package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mitchelllharris/formkit/pkg/form"
	"github.com/mitchelllharris/formkit/pkg/logger"
	"github.com/mitchelllharris/formkit/pkg/prompt"
	"github.com/mitchelllharris/formkit/pkg/sanitizer"
	"github.com/mitchelllharris/formkit/pkg/validator"
)

const redacted = "********"

func newFillCmd(newDriver func() prompt.Driver) *cobra.Command {
	var (
		component   string
		output      string
		rounds      int
		showSecrets bool
	)

	cmd := &cobra.Command{
		Use:   "fill <definition>",
		Short: "Fill a form interactively and print the submitted values as YAML",
		Long: `fill asks every field of the form in the terminal, validating each answer
as it is given. When the submission is blocked the invalid fields are asked
again. With FORMKIT_WEBHOOK_URL set the values are also delivered there.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := logger.NewFromConfig(cfg.Log)
			ctx := cmd.Context()

			def, err := loadDefinition(ctx, args[0], component)
			if err != nil {
				return err
			}
			f, err := def.NewForm(form.WithLogger(log))
			if err != nil {
				return err
			}
			submitter, err := newSubmitter(cfg, log)
			if err != nil {
				return err
			}

			filler := prompt.NewFiller(def, f, newDriver(), prompt.WithLogger(log), prompt.WithRounds(rounds))
			values, err := filler.Run(ctx, submitter)
			if err != nil {
				return err
			}
			if !showSecrets {
				values = redactSecrets(values, def.FieldTypes())
			}

			out := cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(filepath.Clean(output))
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer file.Close()
				out = file
			}
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(values); err != nil {
				return fmt.Errorf("encode values: %w", err)
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVar(&component, "component", "", "read the definition from this OpenAPI schema component")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the values to this file instead of stdout")
	cmd.Flags().IntVar(&rounds, "rounds", 3, "how many times a blocked submission is corrected")
	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "print password fields instead of masking them")
	return cmd
}

func redactSecrets(values validator.Values, types map[string]string) validator.Values {
	out := make(validator.Values, len(values))
	for name, v := range values {
		if types[name] == sanitizer.TypePassword && !validator.IsEmpty(v) {
			out[name] = redacted
			continue
		}
		out[name] = v
	}
	return out
}

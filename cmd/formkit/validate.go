package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/mitchelllharris/formkit/pkg/i18n"
	"github.com/mitchelllharris/formkit/pkg/sanitizer"
	"github.com/mitchelllharris/formkit/pkg/schema"
	"github.com/mitchelllharris/formkit/pkg/validator"
)

// ErrInvalidRecords is returned by validate when any record fails.
var ErrInvalidRecords = errors.New("some records are invalid")

func newValidateCmd() *cobra.Command {
	var (
		component   string
		lang        string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "validate <definition> <records.yaml>",
		Short: "Validate a YAML list of records against a form definition",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			def, err := loadDefinition(ctx, args[0], component)
			if err != nil {
				return err
			}
			records, err := readRecords(args[1])
			if err != nil {
				return err
			}
			tr, err := i18n.NewTranslator(ctx)
			if err != nil {
				return err
			}

			results, err := validateRecords(ctx, def, records, concurrency)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), results, func(ve validator.ValidationError) string {
				return tr.Message(lang, ve)
			})
		},
	}
	cmd.Flags().StringVar(&component, "component", "", "read the definition from this OpenAPI schema component")
	cmd.Flags().StringVar(&lang, "lang", i18n.DefaultLanguage, "language of the error messages")
	cmd.Flags().IntVar(&concurrency, "concurrency", runtime.GOMAXPROCS(0), "records validated in parallel")
	return cmd
}

func readRecords(path string) ([]validator.Values, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	var records []validator.Values
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse records %s: %w", path, err)
	}
	return records, nil
}

// validateRecords checks every record the way a submission would be checked:
// missing fields take their initial value and strings are sanitized for
// their field type first. Results keep the record order.
func validateRecords(ctx context.Context, def *schema.Definition, records []validator.Values, concurrency int) ([]validator.ValidationErrors, error) {
	rules, err := def.Rules()
	if err != nil {
		return nil, err
	}
	order := def.Order()
	types := def.FieldTypes()

	results := make([]validator.ValidationErrors, len(records))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))
	for i, record := range records {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			values := def.InitialValues()
			for name, v := range record {
				values[name] = v
			}
			values = sanitizer.Values(values, types)
			results[i] = validator.ExtractValidationErrors(validator.Check(values, rules, order...))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func report(w io.Writer, results []validator.ValidationErrors, message func(validator.ValidationError) string) error {
	invalid := 0
	for i, errs := range results {
		if errs.IsEmpty() {
			if _, err := fmt.Fprintf(w, "record %d: ok\n", i+1); err != nil {
				return err
			}
			continue
		}
		invalid++
		if _, err := fmt.Fprintf(w, "record %d: invalid\n", i+1); err != nil {
			return err
		}
		for _, ve := range errs {
			if _, err := fmt.Fprintf(w, "  %s: %s\n", ve.Field, message(ve)); err != nil {
				return err
			}
		}
	}
	if _, err := fmt.Fprintf(w, "%d of %d records invalid\n", invalid, len(results)); err != nil {
		return err
	}
	if invalid > 0 {
		return ErrInvalidRecords
	}
	return nil
}

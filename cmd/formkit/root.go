package main

import (
	"github.com/spf13/cobra"

	"github.com/mitchelllharris/formkit/pkg/config"
	"github.com/mitchelllharris/formkit/pkg/prompt"
)

func newRootCmd() *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:   "formkit",
		Short: "Schema-driven forms with live validation",
		Long: `formkit loads form definitions from YAML or OpenAPI documents and
validates them the same way everywhere: over HTTP with server-rendered
fragments, interactively in the terminal, or in bulk against record files.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if len(envFiles) == 0 {
				return nil
			}
			return config.LoadEnv(envFiles...)
		},
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to read before loading configuration")

	root.AddCommand(
		newServeCmd(),
		newFillCmd(func() prompt.Driver { return prompt.NewSurveyDriver() }),
		newValidateCmd(),
		newRulesCmd(),
	)
	return root
}

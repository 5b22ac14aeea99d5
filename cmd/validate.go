package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/angeloszaimis/dns-failover/config"
)

func newValidateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the config and print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			// Building the specs compiles patterns and resolves defaults.
			specs, err := cfg.RecordSpecs()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(cfg.Redacted()); err != nil {
				return err
			}
			if err := enc.Close(); err != nil {
				return err
			}

			fmt.Fprintf(out, "# configuration is valid: %d record(s)\n", len(specs))
			return nil
		},
	}
}

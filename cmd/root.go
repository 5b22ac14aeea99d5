package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "dnsfailover",
		Short: "Health-check driven DNS failover",
		Long: `Periodically health-checks DNS names and, after repeated failures,
rewrites the live Cloudflare record to a healthy candidate from its pool.`,
		DisableFlagsInUseLine: true,
		SilenceUsage:          true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the config file (default: config.yml in ./config or .)")

	rootCmd.AddCommand(
		newRunCmd(&configPath),
		newValidateCmd(&configPath),
		newVersionCmd(),
	)

	return rootCmd
}

package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "pgfrag",
		Short:        "pgfrag",
		SilenceUsage: true,
		Long:         `Developer tool for composing parameterized SQL fragments: strip comments, sanitize identifiers, merge CTE and set-operation fragments with collision-free placeholder renumbering.`,
	}

	verbose bool
)

// Execute executes the root command.
func Execute() error {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cobra.OnInitialize(func() {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	})
	return rootCmd.Execute()
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/thisprojects/pgfrag"
)

var checkContext string

var checkCmd = &cobra.Command{
	Use:   "check expr...",
	Short: "Validate free-form SQL expressions against the injection denylist",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rejected := 0
		for _, expr := range args {
			if err := pgfrag.CheckExpression(expr, checkContext); err != nil {
				fmt.Fprintf(os.Stderr, "rejected: %v\n", err)
				rejected++
				continue
			}
			fmt.Printf("ok: %s\n", expr)
		}
		if rejected > 0 {
			return fmt.Errorf("%d expression(s) rejected", rejected)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkContext, "context", "expression", "context name reported in rejections")
	rootCmd.AddCommand(checkCmd)
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/thisprojects/pgfrag"
)

var identCmd = &cobra.Command{
	Use:   "ident name...",
	Short: "Sanitize identifiers for embedding in SQL text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rejected := 0
		for _, name := range args {
			s, err := pgfrag.Ident(name)
			if err != nil {
				fmt.Fprintf(os.Stderr, "rejected: %v\n", err)
				rejected++
				continue
			}
			fmt.Println(s)
		}
		if rejected > 0 {
			return fmt.Errorf("%d identifier(s) rejected", rejected)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(identCmd)
}

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/thisprojects/pgfrag"
)

var stripCmd = &cobra.Command{
	Use:   "strip [file]",
	Short: "Remove SQL comments from a file or stdin, preserving string literals",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			input []byte
			err   error
		)
		if len(args) == 1 {
			input, err = os.ReadFile(args[0])
		} else {
			input, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return err
		}
		fmt.Print(pgfrag.StripComments(string(input)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stripCmd)
}

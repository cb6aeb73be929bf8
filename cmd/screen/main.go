// Command screen scores questionnaire responses offline with the same
// engine the API uses. Nothing is stored and no cooldown applies.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "screen",
		Short:         "Score PHQ-9, GAD-7, PSS-10 and GHQ-12 responses",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newScoreCmd(), newInstrumentsCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for labeller
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labeller",
		Short: "Interactive purchase receipt labelling",
		Long: `Labeller walks you through a questionnaire for a purchase receipt:
date, expense category, one or more account transactions and the shop
address, then stores the completed receipt in a local database.

The question list reshapes itself while you type: answering "yes" to
"Add another account?" splices in a fresh account block, and picking
"manual address" expands the address into individual fields. Answers
already given survive every reshape.

Configuration is loaded from $LABELLER_HOME/config.yaml (default
~/.labeller/config.yaml). CLI flags override configuration file
settings.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewLabelCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}

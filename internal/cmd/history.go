package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrison/labeller/internal/config"
	"github.com/harrison/labeller/internal/receipt"
	"github.com/harrison/labeller/internal/results"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently labelled receipts",
		Long: `List the most recently saved receipts from the database.

With --results the partial answer log from quit sessions is shown
instead of saved receipts.

Examples:
  labeller history
  labeller history --limit 5
  labeller history --results`,
		Args: cobra.NoArgs,
		RunE: historyCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: $LABELLER_HOME/config.yaml)")
	cmd.Flags().String("db", "", "Path to the receipt database")
	cmd.Flags().String("results-log", "", "Path to the results log file")
	cmd.Flags().String("log-level", "", "Log level (trace, debug, info, warn, error)")
	cmd.Flags().Int("limit", 10, "Maximum number of receipts to list")
	cmd.Flags().Bool("results", false, "Show the partial answer log instead of saved receipts")

	return cmd
}

// historyCommand implements the history command logic
func historyCommand(cmd *cobra.Command, args []string) error {
	cfg, home, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	showResults, _ := cmd.Flags().GetBool("results")
	if showResults {
		return printResults(cmd, config.ResolvePath(home, cfg.ResultsLog))
	}

	store, err := receipt.NewStore(config.ResolvePath(home, cfg.Store.DBPath))
	if err != nil {
		return fmt.Errorf("failed to open receipt store: %w", err)
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	receipts, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to load receipts: %w", err)
	}
	if len(receipts) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No receipts saved yet.")
		return nil
	}

	out := cmd.OutOrStdout()
	heading := color.New(color.FgCyan, color.Bold)
	for _, r := range receipts {
		heading.Fprintf(out, "%s  %s\n", r.Date.Format("2006-01-02"), r.Category)
		if shop := r.ShopName(); shop != "" {
			fmt.Fprintf(out, "  shop: %s\n", shop)
		}
		if r.Address != nil {
			fmt.Fprintf(out, "  address: %s %s, %s %s, %s\n",
				r.Address.Street, r.Address.HouseNumber, r.Address.Zipcode, r.Address.City, r.Address.Country)
		}
		for _, tx := range r.Transactions {
			line := fmt.Sprintf("  paid %.2f %s from %s", tx.AmountPaid, tx.Currency, tx.Account)
			if tx.ChangeReturned > 0 {
				line += fmt.Sprintf(" (%.2f returned)", tx.ChangeReturned)
			}
			fmt.Fprintln(out, line)
		}
		if r.Subtotal > 0 || r.TotalTax > 0 {
			fmt.Fprintf(out, "  subtotal %.2f, tax %.2f\n", r.Subtotal, r.TotalTax)
		}
		fmt.Fprintln(out)
	}
	return nil
}

// printResults dumps the quit-session answer log.
func printResults(cmd *cobra.Command, path string) error {
	entries, err := results.NewLog(path).Read()
	if err != nil {
		return fmt.Errorf("failed to read results log: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No quit sessions logged yet.")
		return nil
	}

	heading := color.New(color.FgYellow, color.Bold)
	for _, e := range entries {
		heading.Fprintf(out, "quit at %s\n", e.QuitAt.Format("2006-01-02 15:04:05"))
		for _, a := range e.Answers {
			text := a.Text
			if strings.TrimSpace(text) == "" {
				text = "(blank)"
			}
			fmt.Fprintf(out, "  %-20s %s\n", a.ID, text)
		}
		fmt.Fprintln(out)
	}
	return nil
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/labeller/internal/config"
	"github.com/harrison/labeller/internal/logger"
	"github.com/harrison/labeller/internal/question"
	"github.com/harrison/labeller/internal/receipt"
	"github.com/harrison/labeller/internal/reconfig"
	"github.com/harrison/labeller/internal/results"
	"github.com/harrison/labeller/internal/session"
	"github.com/harrison/labeller/internal/tui"
)

// NewLabelCommand creates the label command
func NewLabelCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Label a purchase receipt interactively",
		Long: `Start the interactive questionnaire for one receipt.

The session runs until the final "The receipt is complete:" question is
answered with yes, which saves the receipt, or until you quit with q or
Ctrl-C, which appends the answers typed so far to the results log.

Examples:
  labeller label
  labeller label --db /tmp/receipts.db
  labeller label --log-level debug`,
		Args: cobra.NoArgs,
		RunE: labelCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: $LABELLER_HOME/config.yaml)")
	cmd.Flags().String("db", "", "Path to the receipt database")
	cmd.Flags().String("results-log", "", "Path to the results log file")
	cmd.Flags().String("log-level", "", "Log level (trace, debug, info, warn, error)")

	return cmd
}

// labelCommand implements the label command logic
func labelCommand(cmd *cobra.Command, args []string) error {
	cfg, home, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fileLog, err := logger.NewFileLogger(config.ResolvePath(home, cfg.LogDir), cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer fileLog.Close()

	store, err := receipt.NewStore(config.ResolvePath(home, cfg.Store.DBPath))
	if err != nil {
		return fmt.Errorf("failed to open receipt store: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()

	visits, err := store.ShopVisits(ctx)
	if err != nil {
		return fmt.Errorf("failed to load shop history: %w", err)
	}
	history, err := loadHistory(ctx, store)
	if err != nil {
		return err
	}

	questions := receipt.FullQuestions(cfg.AllAccounts(), cfg.Currencies, cfg.Categories,
		receipt.AddressChoices(visits, ""))
	sess, err := session.New(questions, history)
	if err != nil {
		return fmt.Errorf("failed to build questionnaire: %w", err)
	}

	engine := reconfig.New(cfg.AllAccounts(), cfg.Currencies, func(activeCategory string) []string {
		return receipt.AddressChoices(visits, activeCategory)
	})

	app := tui.NewApp(tui.Options{
		Session: sess,
		Engine:  engine,
		Store:   store,
		Results: results.NewLog(config.ResolvePath(home, cfg.ResultsLog)),
		Log:     fileLog,
		Header:  "labelling a receipt",
	})

	fileLog.LogInfo(fmt.Sprintf("labelling session started with %d questions", len(questions)))
	return app.Run(ctx)
}

// loadConfig loads, merges and validates the configuration shared by
// the label and history commands.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	home, err := config.GetLabellerHome()
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve labeller home: %w", err)
	}

	configPath, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(home)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
	}

	var dbPath, resultsLog, logLevel *string
	if f := cmd.Flags().Lookup("db"); f != nil && f.Changed {
		v, _ := cmd.Flags().GetString("db")
		dbPath = &v
	}
	if f := cmd.Flags().Lookup("results-log"); f != nil && f.Changed {
		v, _ := cmd.Flags().GetString("results-log")
		resultsLog = &v
	}
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		v, _ := cmd.Flags().GetString("log-level")
		logLevel = &v
	}
	cfg.MergeWithFlags(dbPath, resultsLog, logLevel)

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, home, nil
}

// loadHistory seeds the suggestion history from previously saved
// receipts so past categories surface while typing.
func loadHistory(ctx context.Context, store *receipt.Store) (*question.HistoryStore, error) {
	history := question.NewHistoryStore()
	categories, err := store.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load category history: %w", err)
	}
	history.Seed(receipt.IDExpenseCategory, categories)
	return history, nil
}

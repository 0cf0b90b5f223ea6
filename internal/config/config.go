// Package config loads the labeller configuration: the accounts and
// currencies offered in the questionnaire, the receipt database
// location and the logging setup. Values come from a YAML file merged
// over built-in defaults; CLI flags override both.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// StoreConfig configures the receipt database.
type StoreConfig struct {
	// DBPath is the path to the sqlite receipt database.
	DBPath string `yaml:"db_path"`
}

// Config represents labeller configuration options.
type Config struct {
	// Accounts are the bank accounts offered by the account chooser,
	// formatted holder:bank:type.
	Accounts []string `yaml:"accounts"`

	// CashAccounts are accounts without a bank, e.g. a wallet.
	CashAccounts []string `yaml:"cash_accounts"`

	// Currencies offered by the currency chooser.
	Currencies []string `yaml:"currencies"`

	// Categories seeds the bookkeeping category suggestions.
	Categories []string `yaml:"categories"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where log files are written.
	LogDir string `yaml:"log_dir"`

	// ResultsLog is the side log receiving answers on abrupt quit.
	ResultsLog string `yaml:"results_log"`

	// Store contains receipt database configuration.
	Store StoreConfig `yaml:"store"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		CashAccounts: []string{"cash"},
		Currencies:   []string{"EUR", "USD"},
		Categories:   []string{"groceries", "transport", "household", "leisure"},
		LogLevel:     "info",
		LogDir:       "logs",
		ResultsLog:   "results.yaml",
		Store: StoreConfig{
			DBPath: "receipts.db",
		},
	}
}

// LoadConfig loads configuration from the specified file path. A
// missing file yields the defaults without error; a malformed file is
// an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply values present in the file over the defaults. List and
	// string fields replace; absence keeps the default. The store
	// section needs a raw-map presence check so an explicitly empty
	// db_path is distinguishable from an omitted one.
	if fileCfg.Accounts != nil {
		cfg.Accounts = fileCfg.Accounts
	}
	if fileCfg.CashAccounts != nil {
		cfg.CashAccounts = fileCfg.CashAccounts
	}
	if fileCfg.Currencies != nil {
		cfg.Currencies = fileCfg.Currencies
	}
	if fileCfg.Categories != nil {
		cfg.Categories = fileCfg.Categories
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.LogDir != "" {
		cfg.LogDir = fileCfg.LogDir
	}
	if fileCfg.ResultsLog != "" {
		cfg.ResultsLog = fileCfg.ResultsLog
	}

	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if storeSection, exists := rawMap["store"]; exists && storeSection != nil {
			storeMap, _ := storeSection.(map[string]interface{})
			if _, exists := storeMap["db_path"]; exists {
				cfg.Store.DBPath = fileCfg.Store.DBPath
			}
		}
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from config.yaml in the given
// labeller home directory, falling back to defaults when absent.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, "config.yaml"))
}

// MergeWithFlags merges CLI flags into the configuration. Non-nil flag
// values override configuration values.
func (c *Config) MergeWithFlags(dbPath *string, resultsLog *string, logLevel *string) {
	if dbPath != nil {
		c.Store.DBPath = *dbPath
	}
	if resultsLog != nil {
		c.ResultsLog = *resultsLog
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
}

// AllAccounts returns bank and cash accounts merged, deduplicated and
// sorted, ready for the account chooser.
func (c *Config) AllAccounts() []string {
	seen := map[string]bool{}
	var all []string
	for _, a := range append(append([]string{}, c.Accounts...), c.CashAccounts...) {
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		all = append(all, a)
	}
	sort.Strings(all)
	return all
}

// Validate checks the configuration for values the questionnaire
// cannot run without.
func (c *Config) Validate() error {
	if len(c.AllAccounts()) == 0 {
		return fmt.Errorf("no accounts configured: set accounts or cash_accounts")
	}
	if len(c.Currencies) == 0 {
		return fmt.Errorf("no currencies configured")
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}

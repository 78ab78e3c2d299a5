package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/harborpos/ledger/internal/core/domain"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	// DefaultActorID is recorded as created_by/posted_by when a caller does not
	// identify the acting user.
	DefaultActorID string
	// Chart carries the account codes the posting engine writes to. Each code
	// can be overridden individually via LEDGER_ACCOUNT_* variables.
	Chart domain.ChartOfAccounts
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	defaults := domain.DefaultChart()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("DEFAULT_ACTOR_ID", "system")
	viper.SetDefault("LEDGER_ACCOUNT_CASH", defaults.Cash)
	viper.SetDefault("LEDGER_ACCOUNT_BANK", defaults.Bank)
	viper.SetDefault("LEDGER_ACCOUNT_RECEIVABLE", defaults.AccountsReceivable)
	viper.SetDefault("LEDGER_ACCOUNT_INVENTORY", defaults.Inventory)
	viper.SetDefault("LEDGER_ACCOUNT_TAX_RECOVERABLE", defaults.TaxRecoverable)
	viper.SetDefault("LEDGER_ACCOUNT_PAYABLE", defaults.AccountsPayable)
	viper.SetDefault("LEDGER_ACCOUNT_TAX_PAYABLE", defaults.TaxPayable)
	viper.SetDefault("LEDGER_ACCOUNT_REVENUE", defaults.Revenue)
	viper.SetDefault("LEDGER_ACCOUNT_SALES_DISCOUNT", defaults.SalesDiscount)
	viper.SetDefault("LEDGER_ACCOUNT_COGS", defaults.CostOfGoodsSold)
	viper.SetDefault("LEDGER_ACCOUNT_DEFAULT_EXPENSE", defaults.DefaultExpense)

	viper.AutomaticEnv()

	cfg := &Config{}
	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.DefaultActorID = viper.GetString("DEFAULT_ACTOR_ID")

	cfg.Chart = domain.ChartOfAccounts{
		Cash:               viper.GetString("LEDGER_ACCOUNT_CASH"),
		Bank:               viper.GetString("LEDGER_ACCOUNT_BANK"),
		AccountsReceivable: viper.GetString("LEDGER_ACCOUNT_RECEIVABLE"),
		Inventory:          viper.GetString("LEDGER_ACCOUNT_INVENTORY"),
		TaxRecoverable:     viper.GetString("LEDGER_ACCOUNT_TAX_RECOVERABLE"),
		AccountsPayable:    viper.GetString("LEDGER_ACCOUNT_PAYABLE"),
		TaxPayable:         viper.GetString("LEDGER_ACCOUNT_TAX_PAYABLE"),
		Revenue:            viper.GetString("LEDGER_ACCOUNT_REVENUE"),
		SalesDiscount:      viper.GetString("LEDGER_ACCOUNT_SALES_DISCOUNT"),
		CostOfGoodsSold:    viper.GetString("LEDGER_ACCOUNT_COGS"),
		DefaultExpense:     viper.GetString("LEDGER_ACCOUNT_DEFAULT_EXPENSE"),
	}

	return cfg, nil
}

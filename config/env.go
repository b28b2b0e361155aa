package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override file settings.
const (
	EnvBalance     = "TRADER_BALANCE"
	EnvLogLevel    = "TRADER_LOG_LEVEL"
	EnvLogPretty   = "TRADER_LOG_PRETTY"
	EnvJournalType = "TRADER_JOURNAL_TYPE"
	EnvJournalDB   = "TRADER_JOURNAL_DB"
)

// LoadEnv loads envPath (or ./.env when empty) into the process
// environment. A missing file is not an error; variables already set win.
func LoadEnv(envPath string) error {
	var err error
	if envPath != "" {
		err = godotenv.Load(envPath)
	} else {
		err = godotenv.Load()
	}
	if err != nil && envPath != "" {
		if _, statErr := os.Stat(envPath); statErr == nil {
			return fmt.Errorf("load env file: %w", err)
		}
	}
	return nil
}

// ApplyEnv overrides c with any TRADER_* variables that are set.
// Priority: ENV > config file > defaults.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvBalance); v != "" {
		bal, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBalance, err)
		}
		c.Account.Balance = bal
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogPretty); v != "" {
		pretty, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLogPretty, err)
		}
		c.Log.Pretty = pretty
	}
	if v := os.Getenv(EnvJournalType); v != "" {
		c.Journal.Type = v
	}
	if v := os.Getenv(EnvJournalDB); v != "" {
		c.Journal.DBPath = v
	}
	return c.Validate()
}

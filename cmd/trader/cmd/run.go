package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradesim/config"
	"github.com/rustyeddy/tradesim/internal/logging"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scripted session from a config file",
	Long: `Run a trading session using the account, steps and journal settings from
a configuration file. TRADER_* environment variables override the file.

Example:
  trader run -f examples/configs/demo.yaml`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

var (
	runConfigPath string
	runOrg        bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "file", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.Flags().BoolVar(&runOrg, "org", false, "print an Org-mode run summary")
	runCmd.MarkFlagRequired("file")
}

func runRun(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return fmt.Errorf("apply env: %w", err)
	}
	if err := applyLogConfig(cmd, cfg.Log); err != nil {
		return err
	}

	fmt.Fprintf(out, "Running simulation with config: %s\n", runConfigPath)
	fmt.Fprintf(out, "  Account: %s (Balance: $%.2f)\n", cfg.Account.ID, cfg.Account.Balance)
	fmt.Fprintf(out, "  Steps:   %d\n", len(cfg.Simulation.Steps))
	fmt.Fprintf(out, "  Journal: %s\n\n", cfg.Journal.Type)

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}

	s, err := newSession(out, "run:"+runConfigPath, cfg.Account.Balance, j)
	if err != nil {
		j.Close()
		return err
	}
	if err := s.applySteps(cfg.Simulation.Steps, time.Now()); err != nil {
		s.journal.Close()
		return err
	}

	sum, err := s.finish()
	if err != nil {
		return err
	}

	switch cfg.Journal.Type {
	case "csv":
		fmt.Fprintf(out, "\nResults saved to:\n  - %s\n  - %s\n", cfg.Journal.TradesFile, cfg.Journal.EquityFile)
	case "sqlite":
		fmt.Fprintf(out, "\nResults saved to: %s (run %s)\n", cfg.Journal.DBPath, sum.RunID)
	}
	if runOrg {
		fmt.Fprintln(out)
		return sum.WriteOrg(out)
	}
	return nil
}

// applyLogConfig reinstalls the global logger from the config file's log
// section. Flags given on the command line still win.
func applyLogConfig(cmd *cobra.Command, lc config.LogConfig) error {
	level, pretty := lc.Level, lc.Pretty
	if cmd.Flags().Changed("log-level") || level == "" {
		level = logLevel
	}
	if cmd.Flags().Changed("log-pretty") {
		pretty = logPretty
	}
	if _, err := logging.Setup(level, pretty); err != nil {
		return fmt.Errorf("log config: %w", err)
	}
	return nil
}

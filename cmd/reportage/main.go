// Package main is the entry point for the reportage CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/avinse/reportage/internal/config"
	"github.com/avinse/reportage/internal/pipeline"
	"github.com/avinse/reportage/internal/state"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the reportage CLI.
var rootCmd = &cobra.Command{
	Use:   "reportage",
	Short: "Extract and section the narrative text of annual-report PDFs",
	Long: `reportage processes annual-report PDFs: it classifies each document,
extracts positioned text, cleans recurring headers and footers, locates
the narrative sections (the stakeholder letter and the MD&A), and writes
text, JSON, DOCX, Markdown, and workbook outputs.

Each operation is a subcommand: process runs single documents or whole
directory trees, sections and verify inspect boundary detection, status
and retry work against the run ledger, and serve exposes the pipeline
over HTTP.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./reportage.yaml or ~/.config/reportage/reportage.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if err := config.Init(cfgFile); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintln(os.Stderr, "Using config file:", used)
	}
}

// bindFlags routes the command's named flags through viper so
// command-line values override file and environment settings.
func bindFlags(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		_ = viper.BindPFlag(name, cmd.Flags().Lookup(name))
	}
}

// newLogger returns the CLI logger. Results go to stdout; logs go to
// stderr.
func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// openRunner builds the ledger-backed pipeline runner from the merged
// configuration. The caller closes the ledger.
func openRunner() (config.Config, *pipeline.Runner, *state.Ledger, error) {
	cfg := config.Load()
	ledger, err := state.Open(cfg.OutputDir)
	if err != nil {
		return cfg, nil, nil, err
	}
	runner, err := pipeline.NewRunner(cfg, ledger, newLogger())
	if err != nil {
		ledger.Close()
		return cfg, nil, nil, err
	}
	return cfg, runner, ledger, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

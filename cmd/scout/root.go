package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/scout"
	"github.com/aretw0/scout/internal/config"
	"github.com/aretw0/scout/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "scout",
	Short: "Company, job and employee lookup tools for LLM agents",
	Long: `scout exposes company profiles, job postings and work email lookups as tools.
Serve them to an agent over MCP, as a JSON HTTP API, or call them from the shell.

Credentials are read from LINKEDIN_API_KEY, BRIGHTDATA_API_TOKEN and HUNTER_API_KEY.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
}

// loadConfig reads the configuration named by the persistent flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	return cfg, nil
}

// newService builds the wired service and its logger.
func newService(cmd *cobra.Command) (*scout.Service, *slog.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(logging.ParseLevel(cfg.LogLevel))
	svc, err := scout.New(cfg, scout.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return svc, logger, nil
}

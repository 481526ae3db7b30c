package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"marketpulse/internal/config"
	"marketpulse/internal/logger"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "marketpulse",
	Short: "marketpulse - next-day stock direction prediction",
	Long: `marketpulse predicts next-day stock price direction from technical
indicators and news sentiment. It fetches raw data, assembles the training
dataset and serves predictions over HTTP.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

// loadConfig loads and validates the config file, falling back to defaults
// when none is given.
func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// watchlistSymbols resolves the --symbols flag against the watchlist.
// An empty flag means every watchlist symbol.
func watchlistSymbols(cfg *config.Config, flag []string) []string {
	if len(flag) > 0 {
		return flag
	}
	symbols := make([]string, 0, len(cfg.Watchlist))
	for _, item := range cfg.Watchlist {
		symbols = append(symbols, item.Symbol)
	}
	return symbols
}

func newLogger() *zap.Logger {
	return logger.Must(debug)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

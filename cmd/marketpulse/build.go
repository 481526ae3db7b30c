package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"marketpulse/internal/dataset"
	"marketpulse/internal/metrics"
	"marketpulse/internal/storage/archive"
)

var buildSymbols []string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Assemble the training dataset from archived data",
	Long: `Build joins archived price history with daily sentiment, derives
indicators, labels each row with the next day's direction and writes the
combined training table to the archive.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringSliceVar(&buildSymbols, "symbols", nil, "symbols to include (default: watchlist)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	store, err := archive.New(cfg.Data.Archive())
	if err != nil {
		return fmt.Errorf("creating storage: %w", err)
	}

	builder := dataset.NewBuilder(store, cfg.Indicators.Windows(), metrics.NewRegistry(), log)
	table, err := builder.BuildAndStore(cmd.Context(), watchlistSymbols(cfg, buildSymbols))
	if err != nil {
		return fmt.Errorf("building dataset: %w", err)
	}

	log.Info("dataset written",
		zap.String("path", archive.DatasetPath),
		zap.Int("rows", len(table.Rows)))
	return nil
}

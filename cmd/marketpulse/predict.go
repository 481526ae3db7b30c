package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"marketpulse/internal/config"
	"marketpulse/internal/infer"
	"marketpulse/internal/metrics"
	"marketpulse/internal/model/httpmodel"
	"marketpulse/internal/provider/newsapi"
	"marketpulse/internal/provider/yahoo"
	"marketpulse/internal/sentiment"

	"go.uber.org/zap"
)

var predictCmd = &cobra.Command{
	Use:   "predict <symbol>",
	Short: "Run one prediction and print it",
	Args:  cobra.ExactArgs(1),
	RunE:  runPredict,
}

func init() {
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	symbol := args[0]
	company, ok := cfg.Company(symbol)
	if !ok {
		return fmt.Errorf("symbol %s not in watchlist", symbol)
	}

	predictor, err := newPredictor(cfg, metrics.NewRegistry(), log)
	if err != nil {
		return err
	}

	pred, err := predictor.Predict(cmd.Context(), symbol, company)
	if err != nil {
		return fmt.Errorf("predicting %s: %w", symbol, err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(pred)
}

// newPredictor wires the serving pipeline from config.
func newPredictor(cfg *config.Config, reg *metrics.Registry, log *zap.Logger) (*infer.Predictor, error) {
	var priceOpts []yahoo.Option
	if cfg.Providers.Price.Endpoint != "" {
		priceOpts = append(priceOpts, yahoo.WithBaseURL(cfg.Providers.Price.Endpoint))
	}
	if cfg.Providers.Price.Timeout > 0 {
		priceOpts = append(priceOpts, yahoo.WithTimeout(cfg.Providers.Price.Timeout))
	}
	prices := yahoo.New(priceOpts...)

	var newsOpts []newsapi.Option
	if cfg.Providers.News.Endpoint != "" {
		newsOpts = append(newsOpts, newsapi.WithBaseURL(cfg.Providers.News.Endpoint))
	}
	news := newsapi.New(cfg.Providers.News.APIKey, newsOpts...)

	classifier, err := httpmodel.New(cfg.Model.Endpoint, cfg.Model.Timeout)
	if err != nil {
		return nil, fmt.Errorf("creating model client: %w", err)
	}

	return infer.NewPredictor(
		prices,
		news,
		sentiment.NewAnalyzer(),
		classifier,
		infer.NewCache(cfg.Cache.TTL),
		reg,
		log,
		cfg.Indicators.Windows(),
	), nil
}

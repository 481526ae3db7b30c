package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"marketpulse/internal/config"
	"marketpulse/internal/dataset"
	"marketpulse/internal/provider/newsapi"
	"marketpulse/internal/provider/yahoo"
	"marketpulse/internal/sentiment"
	"marketpulse/internal/storage/archive"
)

var (
	fetchSymbols []string
	fetchDays    int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch prices and news into the archive",
	Long: `Fetch downloads daily price history and news headlines for the
watchlist, writes the raw artifacts and aggregates headlines into per-day
sentiment scores.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringSliceVar(&fetchSymbols, "symbols", nil, "symbols to fetch (default: watchlist)")
	fetchCmd.Flags().IntVar(&fetchDays, "days", 365, "days of history to fetch")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
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
	analyzer := sentiment.NewAnalyzer()

	ctx := cmd.Context()
	now := time.Now()
	start := now.AddDate(0, 0, -fetchDays)

	var failed int
	for _, symbol := range watchlistSymbols(cfg, fetchSymbols) {
		if err := fetchSymbol(ctx, store, prices, news, analyzer, cfg, symbol, start, now); err != nil {
			log.Error("fetch failed", zap.String("symbol", symbol), zap.Error(err))
			failed++
			continue
		}
		log.Info("fetched", zap.String("symbol", symbol))
	}

	if failed > 0 {
		return fmt.Errorf("%d symbols failed", failed)
	}
	return nil
}

func fetchSymbol(
	ctx context.Context,
	store archive.Storage,
	prices *yahoo.Client,
	news *newsapi.Client,
	analyzer *sentiment.Analyzer,
	cfg *config.Config,
	symbol string,
	start, end time.Time,
) error {
	bars, err := prices.DailyBars(ctx, symbol, start, end)
	if err != nil {
		return fmt.Errorf("fetching prices: %w", err)
	}

	var priceBuf bytes.Buffer
	if err := dataset.WritePriceCSV(&priceBuf, bars); err != nil {
		return fmt.Errorf("encoding prices: %w", err)
	}
	if err := store.Write(ctx, archive.PricePath(symbol), priceBuf.Bytes()); err != nil {
		return fmt.Errorf("storing prices: %w", err)
	}

	query := symbol
	if name, ok := cfg.Company(symbol); ok {
		query = name
	}
	articles, err := news.Headlines(ctx, query, start, end)
	if err != nil {
		return fmt.Errorf("fetching news: %w", err)
	}

	newsData, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding news: %w", err)
	}
	if err := store.Write(ctx, archive.NewsPath(symbol), newsData); err != nil {
		return fmt.Errorf("storing news: %w", err)
	}

	days := sentiment.Daily(analyzer, articles)
	var sentBuf bytes.Buffer
	if err := sentiment.WriteCSV(&sentBuf, days); err != nil {
		return fmt.Errorf("encoding sentiment: %w", err)
	}
	return store.Write(ctx, archive.SentimentPath(symbol), sentBuf.Bytes())
}

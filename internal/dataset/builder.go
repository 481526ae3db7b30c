package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"marketpulse/internal/core"
	"marketpulse/internal/indicator"
	"marketpulse/internal/metrics"
	"marketpulse/internal/sentiment"
	"marketpulse/internal/storage/archive"
)

// Builder reads raw artifacts from storage, assembles per-symbol rows and
// writes the concatenated training table back. One symbol's failure skips
// that symbol and the build continues; the build fails only when nothing
// was assembled at all.
type Builder struct {
	assembler *Assembler
	store     archive.Storage
	metrics   *metrics.Registry
	logger    *zap.Logger
}

// NewBuilder creates a builder. metrics may be nil.
func NewBuilder(store archive.Storage, w indicator.Windows, reg *metrics.Registry, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{
		assembler: NewAssembler(w, log),
		store:     store,
		metrics:   reg,
		logger:    log,
	}
}

// Build assembles the training table for the given tickers. Tickers are
// processed in sorted order and the result is sorted by (ticker, date), so
// two builds over the same inputs produce identical tables.
func (b *Builder) Build(ctx context.Context, tickers []string) (*Table, error) {
	start := time.Now()

	sorted := append([]string(nil), tickers...)
	sort.Strings(sorted)

	table := &Table{}
	skipped := 0
	for _, ticker := range sorted {
		rows, err := b.buildSymbol(ctx, ticker)
		if err != nil {
			if errors.Is(err, core.ErrDataUnavailable) {
				b.logger.Warn("skipping symbol", zap.String("ticker", ticker), zap.Error(err))
				if b.metrics != nil {
					b.metrics.RecordDatasetSkip()
				}
				skipped++
				continue
			}
			return nil, fmt.Errorf("assembling %s: %w", ticker, err)
		}

		b.logger.Info("assembled symbol", zap.String("ticker", ticker), zap.Int("rows", len(rows)))
		if b.metrics != nil {
			b.metrics.RecordDatasetRows(ticker, len(rows))
		}
		table.Rows = append(table.Rows, rows...)
	}

	if len(table.Rows) == 0 {
		return nil, core.WrapError(core.ErrDataUnavailable,
			fmt.Errorf("no rows assembled from %d tickers (%d skipped)", len(sorted), skipped))
	}

	table.Sort()
	if b.metrics != nil {
		b.metrics.ObserveDatasetBuild(time.Since(start).Seconds())
	}
	return table, nil
}

// BuildAndStore builds the table and writes it to the dataset path.
func (b *Builder) BuildAndStore(ctx context.Context, tickers []string) (*Table, error) {
	table, err := b.Build(ctx, tickers)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := table.WriteCSV(&buf); err != nil {
		return nil, fmt.Errorf("encoding training table: %w", err)
	}
	if err := b.store.Write(ctx, archive.DatasetPath, buf.Bytes()); err != nil {
		return nil, fmt.Errorf("storing training table: %w", err)
	}

	b.logger.Info("training table stored",
		zap.String("path", archive.DatasetPath),
		zap.Int("rows", len(table.Rows)),
	)
	return table, nil
}

func (b *Builder) buildSymbol(ctx context.Context, ticker string) ([]Row, error) {
	priceData, err := b.readRequired(ctx, archive.PricePath(ticker))
	if err != nil {
		return nil, err
	}
	sentimentData, err := b.readRequired(ctx, archive.SentimentPath(ticker))
	if err != nil {
		return nil, err
	}

	bars, dropped, err := LoadPriceCSV(bytes.NewReader(priceData))
	if err != nil {
		return nil, core.WrapError(core.ErrDataUnavailable, err)
	}
	if dropped > 0 {
		b.logger.Warn("dropped unparseable price rows",
			zap.String("ticker", ticker), zap.Int("count", dropped))
	}

	days, err := sentiment.ReadCSV(bytes.NewReader(sentimentData))
	if err != nil {
		return nil, core.WrapError(core.ErrDataUnavailable, err)
	}

	return b.assembler.AssembleSymbol(ticker, bars, days)
}

func (b *Builder) readRequired(ctx context.Context, path string) ([]byte, error) {
	ok, err := b.store.Exists(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", path, err)
	}
	if !ok {
		return nil, core.WrapError(core.ErrDataUnavailable, fmt.Errorf("missing %s", path))
	}
	return b.store.Read(ctx, path)
}

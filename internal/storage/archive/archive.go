// Package archive stores the pipeline's file artifacts: raw price CSVs and
// news JSON under raw/, aggregated sentiment and the training table under
// processed/. Paths are relative; the backend decides where they live.
package archive

import (
	"context"
	"fmt"
)

// Well-known artifact paths.
const (
	RawDir       = "raw"
	ProcessedDir = "processed"
	DatasetPath  = "processed/final_dataset.csv"
)

// PricePath returns the raw price file path for a ticker.
func PricePath(ticker string) string {
	return fmt.Sprintf("%s/%s.csv", RawDir, ticker)
}

// NewsPath returns the raw news file path for a ticker.
func NewsPath(ticker string) string {
	return fmt.Sprintf("%s/%s_news.json", RawDir, ticker)
}

// SentimentPath returns the aggregated daily sentiment file path for a ticker.
func SentimentPath(ticker string) string {
	return fmt.Sprintf("%s/%s_sentiment.csv", ProcessedDir, ticker)
}

// Storage defines the interface for artifact storage backends
type Storage interface {
	// Write stores data at the given path
	Write(ctx context.Context, path string, data []byte) error

	// Read retrieves data from the given path
	Read(ctx context.Context, path string) ([]byte, error)

	// List returns all paths matching the prefix
	List(ctx context.Context, prefix string) ([]string, error)

	// Exists checks if data exists at the given path
	Exists(ctx context.Context, path string) (bool, error)
}

// Config selects and configures a storage backend.
type Config struct {
	Type string // "localfs" or "s3"
	Path string // localfs base directory
	S3   S3Config
}

// New creates the backend named by cfg.Type.
func New(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "localfs":
		return NewLocalFS(cfg.Path)
	case "s3":
		return NewS3(cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"marketpulse/internal/core"
	"marketpulse/internal/indicator"
	"marketpulse/internal/storage/archive"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Data       DataConfig       `mapstructure:"data"`
	Providers  ProvidersConfig  `mapstructure:"providers"`
	Model      ModelConfig      `mapstructure:"model"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Indicators IndicatorsConfig `mapstructure:"indicators"`
	Watchlist  []WatchlistItem  `mapstructure:"watchlist"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DataConfig selects the archive backend the fetch and build commands
// read and write.
type DataConfig struct {
	Type string   `mapstructure:"type"` // "localfs" or "s3"
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type ProvidersConfig struct {
	Price PriceProviderConfig `mapstructure:"price"`
	News  NewsProviderConfig  `mapstructure:"news"`
}

type PriceProviderConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type NewsProviderConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Endpoint string `mapstructure:"endpoint"`
}

type ModelConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// IndicatorsConfig holds the lookback windows. Changing these away from the
// values the model was trained with silently degrades predictions; they are
// configurable only so training and serving can be changed together.
type IndicatorsConfig struct {
	SMA        int     `mapstructure:"sma"`
	RSI        int     `mapstructure:"rsi"`
	MACDFast   int     `mapstructure:"macd_fast"`
	MACDSlow   int     `mapstructure:"macd_slow"`
	MACDSignal int     `mapstructure:"macd_signal"`
	Bollinger  int     `mapstructure:"bollinger"`
	BollingerK float64 `mapstructure:"bollinger_k"`
}

type WatchlistItem struct {
	Symbol string `mapstructure:"symbol"`
	Name   string `mapstructure:"name"`
}

// Archive converts the data section to the storage package's config.
func (d DataConfig) Archive() archive.Config {
	return archive.Config{
		Type: d.Type,
		Path: d.Path,
		S3: archive.S3Config{
			Bucket:    d.S3.Bucket,
			Endpoint:  d.S3.Endpoint,
			Region:    d.S3.Region,
			AccessKey: d.S3.AccessKey,
			SecretKey: d.S3.SecretKey,
			Prefix:    d.S3.Prefix,
		},
	}
}

// Windows converts the indicators section to the indicator package's type.
func (i IndicatorsConfig) Windows() indicator.Windows {
	return indicator.Windows{
		SMA:        i.SMA,
		RSI:        i.RSI,
		MACDFast:   i.MACDFast,
		MACDSlow:   i.MACDSlow,
		MACDSignal: i.MACDSignal,
		Bollinger:  i.Bollinger,
		BollingerK: i.BollingerK,
	}
}

// Company returns the watchlist name for symbol, or "" when it is not
// listed.
func (c *Config) Company(symbol string) (string, bool) {
	for _, item := range c.Watchlist {
		if item.Symbol == symbol {
			return item.Name, true
		}
	}
	return "", false
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a config with sensible defaults. The indicator windows
// default to the values the classifier was trained with.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Data: DataConfig{
			Type: "localfs",
			Path: "data",
		},
		Providers: ProvidersConfig{
			Price: PriceProviderConfig{
				Timeout: 10 * time.Second,
			},
		},
		Model: ModelConfig{
			Timeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			TTL: time.Hour,
		},
		Indicators: IndicatorsConfig{
			SMA:        20,
			RSI:        14,
			MACDFast:   12,
			MACDSlow:   26,
			MACDSignal: 9,
			Bollinger:  20,
			BollingerK: 2,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	switch c.Data.Type {
	case "", "localfs":
	case "s3":
		if c.Data.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("s3 bucket required when data type is s3"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown data type %q", c.Data.Type))
	}

	if c.Cache.TTL < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("cache ttl cannot be negative, got %s", c.Cache.TTL))
	}

	w := c.Indicators
	for name, v := range map[string]int{
		"sma":         w.SMA,
		"rsi":         w.RSI,
		"macd_fast":   w.MACDFast,
		"macd_slow":   w.MACDSlow,
		"macd_signal": w.MACDSignal,
		"bollinger":   w.Bollinger,
	} {
		if v < 1 {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("indicator window %s must be positive, got %d", name, v))
		}
	}
	if w.MACDFast >= w.MACDSlow {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("macd_fast (%d) must be shorter than macd_slow (%d)", w.MACDFast, w.MACDSlow))
	}

	for _, item := range c.Watchlist {
		if item.Symbol == "" {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("watchlist entry with empty symbol"))
		}
	}

	return nil
}

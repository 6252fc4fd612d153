// Package config loads trader settings from an optional YAML file and
// TRADER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/WinPooh32/fixed"
	"github.com/WinPooh32/tradeadapter/platform"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

const envPrefix = "TRADER"

const (
	ExchangeBinance = "binance"
	ExchangePaper   = "paper"
)

type Paper struct {
	Balances map[string]string `mapstructure:"balances"`
}

type Config struct {
	Exchange          string  `mapstructure:"exchange"`
	Asset             string  `mapstructure:"asset"`
	Currency          string  `mapstructure:"currency"`
	Key               string  `mapstructure:"key"`
	Secret            string  `mapstructure:"secret"`
	PostOnly          bool    `mapstructure:"post_only"`
	Testnet           bool    `mapstructure:"testnet"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	RetryUnclassified bool    `mapstructure:"retry_unclassified"`
	RetryReads        bool    `mapstructure:"retry_reads"`
	LogLevel          string  `mapstructure:"log_level"`
	HistoryFile       string  `mapstructure:"history_file"`
	MetricsAddr       string  `mapstructure:"metrics_addr"`
	Paper             Paper   `mapstructure:"paper"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("exchange", ExchangeBinance)
	v.SetDefault("asset", "")
	v.SetDefault("currency", "")
	v.SetDefault("key", "")
	v.SetDefault("secret", "")
	v.SetDefault("post_only", true)
	v.SetDefault("testnet", false)
	v.SetDefault("requests_per_second", 0)
	v.SetDefault("retry_unclassified", false)
	v.SetDefault("retry_reads", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("history_file", "")
	v.SetDefault("metrics_addr", "")
}

// Load reads the file at path when it is not empty. Environment variables
// override file values, e.g. TRADER_POST_ONLY for post_only.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Exchange = strings.ToLower(strings.TrimSpace(cfg.Exchange))

	return cfg, nil
}

func (cfg Config) Pair() platform.Pair {
	return platform.NewPair(cfg.Asset, cfg.Currency)
}

// Balances parses the starting wallets of the paper exchange.
func (cfg Config) Balances() (map[string]platform.Fixed, error) {
	var merr *multierror.Error

	balances := make(map[string]platform.Fixed, len(cfg.Paper.Balances))
	for asset, s := range cfg.Paper.Balances {
		amount, err := fixed.NewSErr(s)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("paper balance %s: %w", asset, err))
			continue
		}
		balances[strings.ToUpper(asset)] = amount
	}

	return balances, merr.ErrorOrNil()
}

func (cfg Config) Validate() error {
	var merr *multierror.Error

	switch cfg.Exchange {
	case ExchangeBinance, ExchangePaper:
	default:
		merr = multierror.Append(merr, fmt.Errorf("unknown exchange %q", cfg.Exchange))
	}

	if err := cfg.Pair().Validate(); err != nil {
		merr = multierror.Append(merr, err)
	}

	if (cfg.Key == "") != (cfg.Secret == "") {
		merr = multierror.Append(merr, errors.New("key and secret must be set together"))
	}

	if cfg.RequestsPerSecond < 0 {
		merr = multierror.Append(merr, errors.New("requests_per_second must not be negative"))
	}

	if _, err := cfg.Balances(); err != nil {
		merr = multierror.Append(merr, err)
	}

	return merr.ErrorOrNil()
}

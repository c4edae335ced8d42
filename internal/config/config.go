package config

import (
	"fmt"
	"strings"

	"github.com/simaogato/wealthflow-engine/internal/domain"
	"github.com/spf13/viper"
)

type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Holdings  HoldingsConfig  `mapstructure:"holdings"`
	Valuation ValuationConfig `mapstructure:"valuation"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type HoldingsConfig struct {
	CostBasisMethod string `mapstructure:"cost_basis_method"`
}

// Method returns the parsed lot consumption method
func (c HoldingsConfig) Method() (domain.CostBasisMethod, error) {
	return domain.ParseCostBasisMethod(c.CostBasisMethod)
}

type ValuationConfig struct {
	BaseCurrency string `mapstructure:"base_currency"`
}

// Load reads the yaml file at path, when given, then applies WF_ environment overrides.
// Keys map to variables with dots replaced by underscores, e.g. WF_VALUATION_BASE_CURRENCY.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("WF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("log.development", false)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("holdings.cost_basis_method", domain.FIFO.String())
	v.SetDefault("valuation.base_currency", "USD")

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	if _, err := cfg.Holdings.Method(); err != nil {
		return Config{}, err
	}
	cfg.Valuation.BaseCurrency = domain.NormalizeCurrency(cfg.Valuation.BaseCurrency)
	if err := domain.ValidateCurrency(cfg.Valuation.BaseCurrency); err != nil {
		return Config{}, fmt.Errorf("valuation.base_currency: %w", err)
	}
	return cfg, nil
}

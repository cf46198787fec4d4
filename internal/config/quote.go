package config

import (
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// QuoteDefaults carries operator-tunable defaults applied to new quotes.
// The file is hot-reloaded so sales admins can adjust rates without a restart.
type QuoteDefaults struct {
	Currency           string  `mapstructure:"currency"`
	Locale             string  `mapstructure:"locale"`
	TaxPercent         float64 `mapstructure:"taxPercent"`
	MaxDiscountPercent float64 `mapstructure:"maxDiscountPercent"`
	NumberTemplate     string  `mapstructure:"numberTemplate"`
	ValidDays          int     `mapstructure:"validDays"`
}

func DefaultQuoteDefaults() QuoteDefaults {
	return QuoteDefaults{
		Currency:           "EUR",
		Locale:             "it-IT",
		TaxPercent:         22,
		MaxDiscountPercent: 50,
		NumberTemplate:     "Q-{YYYY}{MM}-{SEQ4}",
		ValidDays:          30,
	}
}

// QuoteConfigHolder exposes the latest QuoteDefaults behind an atomic swap.
type QuoteConfigHolder struct {
	current atomic.Value // holds QuoteDefaults
}

func NewQuoteConfigHolder() (*QuoteConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("quote")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/preventivo/config")
	v.AddConfigPath("/etc/preventivo")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PREVENTIVO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultQuoteDefaults()
	v.SetDefault("quote.currency", defaults.Currency)
	v.SetDefault("quote.locale", defaults.Locale)
	v.SetDefault("quote.taxPercent", defaults.TaxPercent)
	v.SetDefault("quote.maxDiscountPercent", defaults.MaxDiscountPercent)
	v.SetDefault("quote.numberTemplate", defaults.NumberTemplate)
	v.SetDefault("quote.validDays", defaults.ValidDays)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileFound = false
	}

	holder := &QuoteConfigHolder{}
	if err := holder.reload(v); err != nil {
		return nil, err
	}

	if fileFound {
		v.OnConfigChange(func(e fsnotify.Event) {
			if err := holder.reload(v); err != nil {
				log.Printf("quote config reload failed (%s): %v", e.Name, err)
			}
		})
		v.WatchConfig()
	}

	return holder, nil
}

func (h *QuoteConfigHolder) reload(v *viper.Viper) error {
	var cfg QuoteDefaults
	if err := v.UnmarshalKey("quote", &cfg); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.NumberTemplate) == "" {
		cfg.NumberTemplate = DefaultQuoteDefaults().NumberTemplate
	}
	h.current.Store(cfg)
	return nil
}

// Current returns the latest loaded defaults.
func (h *QuoteConfigHolder) Current() QuoteDefaults {
	if cfg, ok := h.current.Load().(QuoteDefaults); ok {
		return cfg
	}
	return DefaultQuoteDefaults()
}

// Package config loads the static pipeline configuration: the model
// registry with per-1K-token rates, the tier routing tables, and the
// provider settings. Every value has a default; a config file is optional.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/msolvik/fintrans/internal/models"
)

// API holds the model-provider connection settings.
type API struct {
	BaseURL string        `mapstructure:"base_url"`
	Key     string        `mapstructure:"key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Config is the full static configuration.
type Config struct {
	API         API               `mapstructure:"api"`
	Models      []models.Config   `mapstructure:"models"`
	TierModels  map[string]string `mapstructure:"tier_models"`
	LangTiers   map[string]string `mapstructure:"language_tiers"`
	BatchFanOut int               `mapstructure:"batch_fan_out"`
	LedgerPath  string            `mapstructure:"ledger_path"`
}

// Load reads configuration from path when non-empty, otherwise returns the
// built-in defaults. Environment variables prefixed FINTRANS_ override file
// values (FINTRANS_API_KEY, FINTRANS_API_BASE_URL, …).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("fintrans")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Registry builds the immutable model registry from the loaded tables.
func (c *Config) Registry() (*models.Registry, error) {
	langTiers := make(map[string]models.Tier, len(c.LangTiers))
	for lang, t := range c.LangTiers {
		tier, err := models.ParseTier(t)
		if err != nil {
			return nil, fmt.Errorf("language %s: %w", lang, err)
		}
		langTiers[lang] = tier
	}

	tierModels := make(map[models.Tier]string, len(c.TierModels))
	for t, id := range c.TierModels {
		tier, err := models.ParseTier(t)
		if err != nil {
			return nil, err
		}
		tierModels[tier] = id
	}

	return models.NewRegistry(c.Models, langTiers, tierModels)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "https://api.openai.com/v1")
	// An empty default keeps api.key known to viper so AutomaticEnv can
	// surface FINTRANS_API_KEY through Unmarshal.
	v.SetDefault("api.key", "")
	v.SetDefault("api.timeout", "120s")
	v.SetDefault("batch_fan_out", 4)
	v.SetDefault("ledger_path", "./data/fintrans.db")

	v.SetDefault("models", []map[string]interface{}{
		{
			"id":                 "gpt-4o",
			"display_name":       "GPT-4o",
			"input_cost_per_1k":  0.03,
			"output_cost_per_1k": 0.06,
			"tier":               "high",
			"description":        "High accuracy model for complex translation tasks",
		},
		{
			"id":                 "gpt-4o-mini",
			"display_name":       "GPT-4o Mini",
			"input_cost_per_1k":  0.01,
			"output_cost_per_1k": 0.03,
			"tier":               "medium",
			"description":        "Fast and cost-effective model for general translation tasks",
		},
		{
			"id":                 "gpt-o1-mini",
			"display_name":       "GPT-o1 Mini",
			"input_cost_per_1k":  0.001,
			"output_cost_per_1k": 0.002,
			"tier":               "low",
			"description":        "Lightweight model for basic translation tasks",
		},
	})

	v.SetDefault("tier_models", map[string]string{
		"high":   "gpt-4o",
		"medium": "gpt-4o-mini",
		"low":    "gpt-o1-mini",
	})

	// Empirically derived defaults, not a documented algorithm: complex
	// morphology or non-Latin script routes high, languages structurally
	// close to English route low, the rest route medium. Swappable via the
	// config file.
	v.SetDefault("language_tiers", map[string]string{
		"hu": "high",
		"fi": "high",
		"tr": "high",
		"ja": "high",
		"zh": "high",
		"ko": "high",
		"ar": "high",
		"de": "medium",
		"fr": "medium",
		"es": "medium",
		"it": "medium",
		"pt": "medium",
		"ru": "medium",
		"pl": "medium",
		"hi": "medium",
		"nl": "low",
		"sv": "low",
		"da": "low",
		"no": "low",
	})
}

// Package models holds the immutable model registry and the tier routing
// policy that maps target languages to cost/quality buckets.
package models

import (
	"fmt"
	"sort"
	"strings"
)

// Tier is a cost/quality bucket. Languages route to tiers by linguistic
// complexity; higher tiers cost proportionally more per token.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// ParseTier converts a string into a Tier.
func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(s)) {
	case TierLow:
		return TierLow, nil
	case TierMedium:
		return TierMedium, nil
	case TierHigh:
		return TierHigh, nil
	}
	return "", fmt.Errorf("invalid tier %q (must be low, medium or high)", s)
}

// Config describes a single language model and its per-1K-token pricing.
type Config struct {
	ID              string  `mapstructure:"id" json:"id"`
	DisplayName     string  `mapstructure:"display_name" json:"display_name"`
	InputCostPer1K  float64 `mapstructure:"input_cost_per_1k" json:"input_cost_per_1k"`
	OutputCostPer1K float64 `mapstructure:"output_cost_per_1k" json:"output_cost_per_1k"`
	Tier            Tier    `mapstructure:"tier" json:"tier"`
	Description     string  `mapstructure:"description" json:"description"`
}

// UnknownModelError reports a model id or tier that is not in the registry.
type UnknownModelError struct {
	ID string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("unknown model %q", e.ID)
}

// Registry is the process-wide immutable model table. Build it once at
// startup and pass it by pointer; there is no mutation path after New.
type Registry struct {
	byID      map[string]Config
	langTiers map[string]Tier
	tierModel map[Tier]string
}

// NewRegistry builds a registry from a model table, the static
// language→tier map and the tier→default-model map.
func NewRegistry(configs []Config, langTiers map[string]Tier, tierModel map[Tier]string) (*Registry, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("model registry is empty")
	}

	byID := make(map[string]Config, len(configs))
	for _, c := range configs {
		if c.ID == "" {
			return nil, fmt.Errorf("model config with empty id")
		}
		if _, dup := byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate model id %q", c.ID)
		}
		byID[c.ID] = c
	}

	for tier, id := range tierModel {
		if _, ok := byID[id]; !ok {
			return nil, fmt.Errorf("tier %s maps to unknown model %q", tier, id)
		}
	}

	lt := make(map[string]Tier, len(langTiers))
	for lang, tier := range langTiers {
		lt[strings.ToLower(lang)] = tier
	}

	tm := make(map[Tier]string, len(tierModel))
	for tier, id := range tierModel {
		tm[tier] = id
	}

	return &Registry{byID: byID, langTiers: lt, tierModel: tm}, nil
}

// Get looks up a model by its explicit id.
func (r *Registry) Get(id string) (Config, error) {
	c, ok := r.byID[id]
	if !ok {
		return Config{}, &UnknownModelError{ID: id}
	}
	return c, nil
}

// TierFor returns the tier a target language routes to. Languages absent
// from the static map route to the medium tier.
func (r *Registry) TierFor(lang string) Tier {
	if t, ok := r.langTiers[strings.ToLower(lang)]; ok {
		return t
	}
	return TierMedium
}

// ForTier returns the default model configured for a tier.
func (r *Registry) ForTier(tier Tier) (Config, error) {
	id, ok := r.tierModel[tier]
	if !ok {
		return Config{}, &UnknownModelError{ID: string(tier)}
	}
	return r.Get(id)
}

// ForLanguage resolves the model for a target language via the tier policy.
func (r *Registry) ForLanguage(lang string) (Config, error) {
	return r.ForTier(r.TierFor(lang))
}

// Resolve returns the model for an explicit id when given, otherwise the
// tier-routed model for the target language.
func (r *Registry) Resolve(id, lang string) (Config, error) {
	if id != "" {
		return r.Get(id)
	}
	return r.ForLanguage(lang)
}

// List returns every registered model sorted by id.
func (r *Registry) List() []Config {
	out := make([]Config, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

/*
Copyright © 2025 Mykhailo Solvik <mykhailo.solvik@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/msolvik/fintrans/internal/config"
	"github.com/msolvik/fintrans/internal/ledger"
	"github.com/msolvik/fintrans/internal/llm"
	"github.com/msolvik/fintrans/internal/models"
)

// pipeline bundles the shared wiring every command needs.
type pipeline struct {
	cfg      *config.Config
	registry *models.Registry
	client   llm.Client
}

// buildPipeline loads configuration and constructs the registry and the
// model client.
func buildPipeline(configPath string) (*pipeline, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	registry, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("invalid model registry: %w", err)
	}

	client := llm.NewChatClient(cfg.API.BaseURL, cfg.API.Key, cfg.API.Timeout)

	return &pipeline{cfg: cfg, registry: registry, client: client}, nil
}

// recordSpend writes a cost record to the ledger, warning instead of
// failing when the ledger is unavailable.
func recordSpend(ctx context.Context, dbPath, requestID, purpose, targetLang string, cost models.CostInfo) {
	if dbPath == "" {
		return
	}

	l, err := ledger.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ledger unavailable: %v\n", err)
		return
	}
	defer l.Close()

	if err := l.Record(ctx, requestID, purpose, targetLang, cost); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to record spend: %v\n", err)
	}
}

// printCost writes a one-line cost summary to stderr.
func printCost(cost models.CostInfo) {
	fmt.Fprintf(os.Stderr, "Cost: $%.6f (%d in / %d out tokens, model %s)\n",
		cost.TotalCost, cost.InputTokens, cost.OutputTokens, cost.Model)
}

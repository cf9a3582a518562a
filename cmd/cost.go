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
	"time"

	"github.com/spf13/cobra"

	"github.com/msolvik/fintrans/internal/ledger"
)

var (
	costConfigPath string
	costSince      string
)

var costCmd = &cobra.Command{
	Use:   "cost",
	Short: "Show recorded spend by model and purpose",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPipeline(costConfigPath)
		if err != nil {
			return err
		}

		since := beginningOfMonth()
		if costSince != "" {
			since, err = time.Parse("2006-01-02", costSince)
			if err != nil {
				return fmt.Errorf("invalid --since date (use YYYY-MM-DD): %w", err)
			}
		}

		l, err := ledger.Open(p.cfg.LedgerPath)
		if err != nil {
			return err
		}
		defer l.Close()

		totals, err := l.Totals(context.Background(), since)
		if err != nil {
			return err
		}

		if len(totals) == 0 {
			fmt.Println("No spend recorded.")
			return nil
		}

		fmt.Printf("%-14s %-12s %8s %12s %12s %12s\n",
			"MODEL", "PURPOSE", "CALLS", "IN TOKENS", "OUT TOKENS", "COST")
		var grand float64
		for _, t := range totals {
			fmt.Printf("%-14s %-12s %8d %12d %12d %12.6f\n",
				t.Model, t.Purpose, t.Calls, t.InputTokens, t.OutputTokens, t.TotalCost)
			grand += t.TotalCost
		}
		fmt.Printf("%-14s %-12s %8s %12s %12s %12.6f\n", "TOTAL", "", "", "", "", grand)
		return nil
	},
}

func beginningOfMonth() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func init() {
	rootCmd.AddCommand(costCmd)
	costCmd.Flags().StringVarP(&costConfigPath, "config", "c", "", "Path to config file")
	costCmd.Flags().StringVar(&costSince, "since", "", "Start date (YYYY-MM-DD, default: start of month)")
}

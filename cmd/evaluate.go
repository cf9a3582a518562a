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
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/msolvik/fintrans/internal/batch"
	"github.com/msolvik/fintrans/internal/evaluator"
	"github.com/msolvik/fintrans/internal/translator"
)

var (
	evInputFile  string
	evOutputFile string
	evTargetLang string
	evTransModel string
	evEvalModel  string
	evFanOut     int
	evConfigPath string
	evNoLedger   bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score a batch of reference translations against fresh ones",
	Long: `Evaluate translation quality over a CSV batch.

The input CSV must have columns "english" and "translated_value". For each
row the English source is re-translated with the translation model, then
both the reference and the new translation are scored 1-5 across nine
quality dimensions by the evaluation model. Rows that fail are reported and
excluded from the averages; the batch itself always completes.

Example:
  fintrans evaluate -i pairs.csv -t hu --translation-model gpt-4o-mini --evaluation-model gpt-4o -o report.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := readBatchCSV(evInputFile)
		if err != nil {
			return err
		}

		p, err := buildPipeline(evConfigPath)
		if err != nil {
			return err
		}

		fanOut := evFanOut
		if fanOut <= 0 {
			fanOut = p.cfg.BatchFanOut
		}

		agg := batch.New(
			translator.New(p.client, p.registry, nil),
			evaluator.New(p.client, p.registry),
			fanOut,
		)

		ctx := context.Background()
		report, err := agg.Run(ctx, rows, evTargetLang, evTransModel, evEvalModel)
		if err != nil {
			return err
		}

		if !evNoLedger {
			requestID := uuid.New().String()
			for _, rr := range report.Results {
				recordSpend(ctx, p.cfg.LedgerPath, requestID, "evaluate", evTargetLang, rr.Cost)
			}
		}

		printSummary(report)

		if evOutputFile != "" {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode report: %w", err)
			}
			if err := os.WriteFile(evOutputFile, data, 0644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			fmt.Printf("Report written to %s\n", evOutputFile)
		}

		return nil
	},
}

// readBatchCSV loads rows from a CSV with "english" and "translated_value"
// columns, located by header name.
func readBatchCSV(path string) ([]batch.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input CSV: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	srcIdx, refIdx := -1, -1
	for i, col := range records[0] {
		switch col {
		case "english":
			srcIdx = i
		case "translated_value":
			refIdx = i
		}
	}
	if srcIdx < 0 || refIdx < 0 {
		return nil, fmt.Errorf(`CSV must have columns "english" and "translated_value"`)
	}

	var rows []batch.Row
	for _, rec := range records[1:] {
		if len(rec) <= srcIdx || len(rec) <= refIdx {
			continue
		}
		rows = append(rows, batch.Row{Source: rec[srcIdx], Reference: rec[refIdx]})
	}
	return rows, nil
}

func printSummary(report *batch.Report) {
	s := report.Summary

	fmt.Printf("Rows: %d  Succeeded: %d  Failed: %d\n", s.Rows, s.Succeeded, s.Rows-s.Succeeded)
	fmt.Printf("Total cost: $%.6f\n\n", s.TotalCost)

	if s.Succeeded > 0 {
		fmt.Printf("%-28s %8s %12s\n", "METRIC", "NEW", "REFERENCE")
		for _, m := range evaluator.Metrics() {
			fmt.Printf("%-28s %8.2f %12.2f\n", m, s.Averages[m], s.ReferenceAverages[m])
		}
	}

	for i, rr := range report.Results {
		if rr.Err != nil {
			fmt.Fprintf(os.Stderr, "Row %d failed: %v\n", i+1, rr.Err)
		}
	}
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&evInputFile, "input", "i", "", "Input CSV file (required)")
	evaluateCmd.Flags().StringVarP(&evOutputFile, "output", "o", "", "Write full JSON report to this file")
	evaluateCmd.Flags().StringVarP(&evTargetLang, "target", "t", "", "Target language code (required)")
	evaluateCmd.Flags().StringVar(&evTransModel, "translation-model", "", "Model id for re-translation (default: tier routing)")
	evaluateCmd.Flags().StringVar(&evEvalModel, "evaluation-model", "", "Model id for scoring (default: tier routing)")
	evaluateCmd.Flags().IntVar(&evFanOut, "fan-out", 0, "Rows in flight at once (default from config)")
	evaluateCmd.Flags().StringVarP(&evConfigPath, "config", "c", "", "Path to config file")
	evaluateCmd.Flags().BoolVar(&evNoLedger, "no-ledger", false, "Do not record spend in the cost ledger")

	evaluateCmd.MarkFlagRequired("input")
	evaluateCmd.MarkFlagRequired("target")
}

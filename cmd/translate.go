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
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/msolvik/fintrans/internal/langcheck"
	"github.com/msolvik/fintrans/internal/translator"
)

var (
	trInputFile  string
	trOutputDir  string
	trLangs      []string
	trModel      string
	trHTML       bool
	trConfigPath string
	trNoVerify   bool
	trNoLedger   bool
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate a text or HTML file into one or more languages",
	Long: `Translate the contents of a file into every requested target language.

Each language routes to a model tier by linguistic complexity unless --model
pins an explicit model. Dynamic parameters like [brokerName] are masked
before the model call and restored afterwards; a translation that drops a
parameter fails rather than returning corrupted content.

HTML input (--html, or a .html/.htm input file) is translated text-node by
text-node with the markup untouched.

Example:
  fintrans translate -i page.html -t hu -t de -o out/`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(trInputFile)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}

		p, err := buildPipeline(trConfigPath)
		if err != nil {
			return err
		}

		var checker translator.LanguageChecker
		if !trNoVerify {
			checker = langcheck.New()
		}
		engine := translator.New(p.client, p.registry, checker)

		ctx := context.Background()
		isHTML := trHTML || strings.HasSuffix(trInputFile, ".html") || strings.HasSuffix(trInputFile, ".htm")

		if err := os.MkdirAll(trOutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		ext := ".txt"
		if isHTML {
			ext = ".html"
		}
		base := strings.TrimSuffix(filepath.Base(trInputFile), filepath.Ext(trInputFile))

		var outputs map[string]string
		var warnings map[string]string

		requestID := uuid.New().String()

		if isHTML {
			result, err := engine.TranslateHTML(ctx, string(raw), trLangs, trModel)
			if err != nil {
				return err
			}
			outputs, warnings = result.Pages, result.Warnings
			if !trNoLedger {
				recordSpend(ctx, p.cfg.LedgerPath, requestID, "translate", strings.Join(trLangs, ","), result.Cost)
			}
			printCost(result.Cost)
		} else {
			result, err := engine.Translate(ctx, string(raw), trLangs, trModel)
			if err != nil {
				return err
			}
			outputs, warnings = result.Translations, result.Warnings
			if !trNoLedger {
				recordSpend(ctx, p.cfg.LedgerPath, requestID, "translate", strings.Join(trLangs, ","), result.Cost)
			}
			printCost(result.Cost)
		}

		for lang, warning := range warnings {
			fmt.Fprintf(os.Stderr, "Warning [%s]: %s\n", lang, warning)
		}

		for lang, content := range outputs {
			outPath := filepath.Join(trOutputDir, fmt.Sprintf("%s.%s%s", base, lang, ext))
			if err := os.WriteFile(outPath, []byte(content), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}
			fmt.Printf("Wrote %s\n", outPath)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&trInputFile, "input", "i", "", "Input file to translate (required)")
	translateCmd.Flags().StringVarP(&trOutputDir, "output", "o", ".", "Output directory for per-language files")
	translateCmd.Flags().StringSliceVarP(&trLangs, "target", "t", nil, "Target language code (repeatable, required)")
	translateCmd.Flags().StringVarP(&trModel, "model", "m", "", "Explicit model id (default: tier routing per language)")
	translateCmd.Flags().BoolVar(&trHTML, "html", false, "Treat input as HTML regardless of extension")
	translateCmd.Flags().StringVarP(&trConfigPath, "config", "c", "", "Path to config file")
	translateCmd.Flags().BoolVar(&trNoVerify, "no-verify", false, "Skip target-language verification of results")
	translateCmd.Flags().BoolVar(&trNoLedger, "no-ledger", false, "Do not record spend in the cost ledger")

	translateCmd.MarkFlagRequired("input")
	translateCmd.MarkFlagRequired("target")
}

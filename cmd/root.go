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
	"os"

	"github.com/spf13/cobra"
)

var version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:   "fintrans",
	Short: "LLM translation pipeline for financial content",
	Long: `A pipeline that translates financial/investment content into multiple
target languages using tier-routed language models, protects dynamic
parameters like [brokerName] through the model call, and scores translation
quality against references across nine weighted dimensions.

Use "fintrans translate --help" for translation options and
"fintrans evaluate --help" for batch quality evaluation.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

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
	"fmt"

	"github.com/spf13/cobra"
)

var modelsConfigPath string

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the configured models and their rates",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPipeline(modelsConfigPath)
		if err != nil {
			return err
		}

		fmt.Printf("%-14s %-14s %-8s %10s %10s  %s\n",
			"ID", "NAME", "TIER", "IN/$1K", "OUT/$1K", "DESCRIPTION")
		for _, m := range p.registry.List() {
			fmt.Printf("%-14s %-14s %-8s %10.4f %10.4f  %s\n",
				m.ID, m.DisplayName, m.Tier, m.InputCostPer1K, m.OutputCostPer1K, m.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.Flags().StringVarP(&modelsConfigPath, "config", "c", "", "Path to config file")
}

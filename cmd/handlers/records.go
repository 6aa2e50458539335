/*
Copyright © 2025 Your Name

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
package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelbuzz/internal/config"
	"reelbuzz/internal/core"
	"reelbuzz/internal/records"
)

// NewRecordsCmd creates the records inspection command
func NewRecordsCmd() *cobra.Command {
	recordsCmd := &cobra.Command{
		Use:   "records",
		Short: "Inspect the draft record file",
	}

	recordsCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the last drafted title per category",
		Run: func(cmd *cobra.Command, args []string) {
			runRecordsShow()
		},
	})

	return recordsCmd
}

func runRecordsShow() {
	store := records.NewStore(config.Get().Records.Path)
	for _, category := range core.AllCategories() {
		record := store.Get(category)
		if record == nil {
			fmt.Printf("%-6s no record\n", category)
			continue
		}
		fmt.Printf("%-6s %q drafted %s (draft %s)\n",
			category, record.Title,
			record.CreatedAt.Format("2006-01-02 15:04 MST"),
			record.DraftID)
	}
}

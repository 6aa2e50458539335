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
	"os"
	"time"

	"github.com/spf13/cobra"

	"reelbuzz/internal/config"
	"reelbuzz/internal/logger"
	"reelbuzz/internal/store"
)

// NewCacheCmd creates the page cache management command
func NewCacheCmd() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the scraped page cache",
		Long:  `Prune stale entries from the SQLite cache of scraped source pages.`,
	}

	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove cached pages older than the given age",
		Run: func(cmd *cobra.Command, args []string) {
			maxAge, _ := cmd.Flags().GetDuration("max-age")
			if err := runCachePrune(maxAge); err != nil {
				logger.Error("Failed to prune cache", err)
				os.Exit(1)
			}
		},
	}
	pruneCmd.Flags().Duration("max-age", 24*time.Hour, "delete entries older than this")

	cacheCmd.AddCommand(pruneCmd)
	return cacheCmd
}

func runCachePrune(maxAge time.Duration) error {
	pageStore, err := store.NewStore(config.Get().App.DataDir)
	if err != nil {
		return fmt.Errorf("opening page cache: %w", err)
	}
	defer pageStore.Close()

	removed, err := pageStore.PrunePages(maxAge)
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d cached pages older than %s\n", removed, maxAge)
	return nil
}

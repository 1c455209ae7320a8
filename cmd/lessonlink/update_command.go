package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lessonlink/internal/logging"
	"lessonlink/internal/runledger"
	"lessonlink/internal/runlock"
	"lessonlink/internal/updater"
)

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Search for videos and update the manifest",
		Long: strings.TrimSpace(`
Walk every lesson in the manifest and link video lessons to their best
search match. Lessons resolved on a previous run are served from the cache
without touching the network, so rerunning after an interruption only
searches what is left.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			lock := runlock.New(cfg.LockPath())
			if err := lock.Acquire(); err != nil {
				return err
			}
			defer lock.Release() //nolint:errcheck

			logger := ctx.logger()
			store, err := ctx.manifestStore()
			if err != nil {
				return err
			}
			cache, err := ctx.openCache(logger)
			if err != nil {
				return err
			}
			provider, err := ctx.searchProvider(logger)
			if err != nil {
				return err
			}

			var recorder updater.RunRecorder
			if cfg.History.Enabled && strings.TrimSpace(cfg.Paths.HistoryDBPath) != "" {
				ledger, err := runledger.Open(cfg.Paths.HistoryDBPath)
				if err != nil {
					logger.Warn("run history disabled", logging.Error(err))
				} else {
					defer ledger.Close() //nolint:errcheck
					recorder = ledger
				}
			}

			orchestrator, err := updater.New(updater.Options{
				Manifest:      store,
				Cache:         cache,
				Provider:      provider,
				Policy:        ctx.matchingPolicy(),
				Publisher:     cfg.Search.Publisher,
				Pace:          ctx.pace(),
				SearchTimeout: ctx.searchTimeout(),
				Recorder:      recorder,
				Logger:        logger,
			})
			if err != nil {
				return err
			}

			stats, err := orchestrator.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Lessons:    %d (%d articles)\n", stats.Lessons, stats.Articles)
			fmt.Fprintf(out, "Found:      %d\n", stats.Found)
			fmt.Fprintf(out, "Not found:  %d\n", stats.NotFound)
			fmt.Fprintf(out, "Cache hits: %d\n", stats.CacheHits)
			fmt.Fprintf(out, "Searched:   %d\n", stats.Searched)
			return nil
		},
	}
}

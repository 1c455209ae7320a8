package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lessonlink/internal/runledger"
)

const historyStampLayout = "2006-01-02 15:04"

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [lesson-id]",
		Short: "Show past update runs, or one lesson's resolution history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled || strings.TrimSpace(cfg.Paths.HistoryDBPath) == "" {
				return fmt.Errorf("run history is disabled; enable [history] and set history_db_path in the config")
			}

			ledger, err := runledger.Open(cfg.Paths.HistoryDBPath)
			if err != nil {
				return err
			}
			defer ledger.Close() //nolint:errcheck

			if len(args) == 1 {
				return printLessonHistory(cmd, ledger, args[0])
			}
			return printRuns(cmd, ledger, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")
	return cmd
}

func printRuns(cmd *cobra.Command, ledger *runledger.Store, limit int) error {
	runs, err := ledger.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No recorded runs")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		finished := "interrupted"
		if run.FinishedAt != nil {
			finished = run.FinishedAt.Local().Format(historyStampLayout)
		}
		rows = append(rows, []string{
			shortRunID(run.RunID),
			run.StartedAt.Local().Format(historyStampLayout),
			finished,
			fmt.Sprintf("%d", run.Found),
			fmt.Sprintf("%d", run.Missed),
			fmt.Sprintf("%d", run.CacheHits),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]column{
			{title: "Run"},
			{title: "Started"},
			{title: "Finished"},
			{title: "Found", rightAlign: true},
			{title: "Missed", rightAlign: true},
			{title: "Cache hits", rightAlign: true},
		},
		rows,
	))
	return nil
}

func printLessonHistory(cmd *cobra.Command, ledger *runledger.Store, lessonID string) error {
	events, err := ledger.LessonHistory(cmd.Context(), lessonID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(events) == 0 {
		fmt.Fprintf(out, "No recorded resolutions for %s\n", lessonID)
		return nil
	}

	rows := make([][]string, 0, len(events))
	for _, event := range events {
		outcome := "not found"
		if event.Found {
			outcome = event.VideoID
		}
		rows = append(rows, []string{
			event.CreatedAt.Local().Format(historyStampLayout),
			shortRunID(event.RunID),
			outcome,
			formatScore(event.Score, event.FromCache),
			yesNo(event.FromCache),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]column{
			{title: "When"},
			{title: "Run"},
			{title: "Outcome"},
			{title: "Score", rightAlign: true},
			{title: "Cached"},
		},
		rows,
	))
	return nil
}

func shortRunID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}

func formatScore(score float64, fromCache bool) string {
	if fromCache {
		return "-"
	}
	return fmt.Sprintf("%.3f", score)
}

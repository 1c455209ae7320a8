package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage cached search outcomes",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheRemoveCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached lesson outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ctx.openCache(ctx.logger())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			entries := cache.List()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Cache is empty")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, listed := range entries {
				outcome := "not found"
				videoID := ""
				if listed.Entry.Found() {
					outcome = "found"
					videoID = *listed.Entry.VideoID
				}
				rows = append(rows, []string{
					listed.LessonID,
					outcome,
					videoID,
					truncate(listed.Entry.YouTubeTitle, 60),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]column{
					{title: "Lesson"},
					{title: "Outcome"},
					{title: "Video ID"},
					{title: "Title"},
				},
				rows,
			))
			fmt.Fprintf(out, "%d cached outcomes\n", len(entries))
			return nil
		},
	}
}

func newCacheRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <lesson-id>",
		Short: "Forget one lesson's cached outcome so it is searched again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ctx.openCache(ctx.logger())
			if err != nil {
				return err
			}

			lessonID := args[0]
			if _, ok := cache.Lookup(lessonID); !ok {
				return fmt.Errorf("no cache entry for lesson %q", lessonID)
			}
			if err := cache.Remove(lessonID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed cache entry for %s\n", lessonID)
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget every cached outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ctx.openCache(ctx.logger())
			if err != nil {
				return err
			}

			count := cache.Len()
			if count == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache is already empty")
				return nil
			}
			if !force {
				return fmt.Errorf("refusing to clear %d cached outcomes without --force; the next update will search every lesson again", count)
			}
			if err := cache.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached outcomes\n", count)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Confirm clearing the cache")
	return cmd
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max-3])) + "..."
}

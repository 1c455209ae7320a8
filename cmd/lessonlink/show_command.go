package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <lesson-id>",
		Short: "Display one lesson's manifest and cache state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lessonID := args[0]

			store, err := ctx.manifestStore()
			if err != nil {
				return err
			}
			m, err := store.Load()
			if err != nil {
				return err
			}

			ref, ok := m.FindLesson(lessonID)
			if !ok {
				return fmt.Errorf("lesson %q not found in manifest", lessonID)
			}

			out := cmd.OutOrStdout()
			lesson := ref.Lesson
			fmt.Fprintf(out, "Lesson:  [%s] %s\n", lesson.ID, lesson.Title)
			fmt.Fprintf(out, "Context: %s > %s\n", ref.Course.Title, ref.Unit.Title)
			if lesson.IsArticle() {
				fmt.Fprintln(out, "Type:    article")
				if lesson.ArticleURL != "" {
					fmt.Fprintf(out, "URL:     %s\n", lesson.ArticleURL)
				} else {
					fmt.Fprintln(out, "URL:     none")
				}
			} else {
				fmt.Fprintln(out, "Type:    video")
				if lesson.HasVideo() {
					fmt.Fprintf(out, "Video:   %s (%s)\n", lesson.YouTubeVideoID, lesson.YouTubeTitle)
				} else {
					fmt.Fprintln(out, "Video:   not linked")
				}
			}

			cache, err := ctx.openCache(ctx.logger())
			if err != nil {
				return err
			}
			entry, cached := cache.Lookup(lessonID)
			switch {
			case !cached:
				fmt.Fprintln(out, "Cache:   never searched")
			case entry.Found():
				fmt.Fprintf(out, "Cache:   matched %s (%s) on %s\n", *entry.VideoID, entry.YouTubeTitle, entry.Channel)
			default:
				fmt.Fprintln(out, "Cache:   searched, no acceptable match")
			}
			return nil
		},
	}
}

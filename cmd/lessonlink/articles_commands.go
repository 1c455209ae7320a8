package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lessonlink/internal/articles"
)

func newArticlesCommand(ctx *commandContext) *cobra.Command {
	articlesCmd := &cobra.Command{
		Use:   "articles",
		Short: "Manage article-type lessons",
	}

	articlesCmd.AddCommand(newArticlesListCommand(ctx))
	articlesCmd.AddCommand(newArticlesApplyCommand(ctx))
	articlesCmd.AddCommand(newArticlesVerifyCommand(ctx))

	return articlesCmd
}

func newArticlesListCommand(ctx *commandContext) *cobra.Command {
	var slugsPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List article lessons with URL guesses",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.manifestStore()
			if err != nil {
				return err
			}
			m, err := store.Load()
			if err != nil {
				return err
			}

			var slugs map[string]string
			if strings.TrimSpace(slugsPath) != "" {
				if err := readJSONTable(slugsPath, &slugs); err != nil {
					return fmt.Errorf("load course slugs: %w", err)
				}
			}

			listings := articles.List(m, slugs, "")
			out := cmd.OutOrStdout()
			if len(listings) == 0 {
				fmt.Fprintln(out, "No article lessons in the manifest")
				return nil
			}

			fmt.Fprintf(out, "Article lessons: %d\n", len(listings))
			for i, listing := range listings {
				fmt.Fprintf(out, "\n%d. [%s] %s\n", i+1, listing.LessonID, listing.Title)
				fmt.Fprintf(out, "   %s > %s\n", listing.Course, listing.Unit)
				switch {
				case listing.URL != "":
					fmt.Fprintf(out, "   URL: %s\n", listing.URL)
				case listing.ConstructedURL != "":
					fmt.Fprintf(out, "   Guess: %s\n", listing.ConstructedURL)
				default:
					fmt.Fprintln(out, "   URL: none")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&slugsPath, "slugs", "", "JSON file mapping course IDs to site path prefixes")
	return cmd
}

func newArticlesApplyCommand(ctx *commandContext) *cobra.Command {
	var urlsPath string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Normalize article lessons and attach curated URLs",
		Long: strings.TrimSpace(`
Mark every article lesson with type "article", strip video fields left
behind by earlier matching runs, and attach URLs from the given table.
Lessons that already have an articleUrl keep it.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			var urls map[string]string
			if strings.TrimSpace(urlsPath) != "" {
				if err := readJSONTable(urlsPath, &urls); err != nil {
					return fmt.Errorf("load URL table: %w", err)
				}
			}

			store, err := ctx.manifestStore()
			if err != nil {
				return err
			}
			m, err := store.Load()
			if err != nil {
				return err
			}

			applied := articles.Apply(m, urls)
			if err := store.Save(m); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, a := range applied {
				fmt.Fprintf(out, "Updated: [%s] %s\n", a.LessonID, a.Title)
				if a.URL != "" {
					fmt.Fprintf(out, "  URL: %s\n", a.URL)
				}
			}
			fmt.Fprintf(out, "Total updated: %d\n", len(applied))
			return nil
		},
	}

	cmd.Flags().StringVar(&urlsPath, "urls", "", "JSON file mapping lesson IDs to article URLs")
	return cmd
}

func newArticlesVerifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that article lessons carry no video fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.manifestStore()
			if err != nil {
				return err
			}
			m, err := store.Load()
			if err != nil {
				return err
			}

			statuses, ok := articles.Verify(m)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Articles: %d\n", len(statuses))
			for _, s := range statuses {
				fmt.Fprintf(out, "  %s: url=%s video=%s\n", s.LessonID, yesNo(s.HasURL), yesNo(s.HasVideo))
			}
			if !ok {
				return fmt.Errorf("article lessons with video fields found")
			}
			return nil
		},
	}
}

func readJSONTable(path string, target *map[string]string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

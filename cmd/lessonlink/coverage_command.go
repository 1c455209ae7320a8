package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lessonlink/internal/report"
)

const missingPreviewLimit = 20

func newCoverageCommand(ctx *commandContext) *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Report how many lessons have linked media",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.manifestStore()
			if err != nil {
				return err
			}
			m, err := store.Load()
			if err != nil {
				return err
			}

			cov := report.ComputeCoverage(m)
			out := cmd.OutOrStdout()
			color := colorEnabled(out)

			rows := make([][]string, 0, len(cov.Courses))
			for _, course := range cov.Courses {
				rows = append(rows, []string{
					course.Title,
					fmt.Sprintf("%d/%d", course.Linked, course.Total),
					coveragePercentCell(course.Percent(), color),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]column{
					{title: "Course"},
					{title: "Linked", rightAlign: true},
					{title: "Coverage", rightAlign: true},
				},
				rows,
			))

			fmt.Fprintf(out, "Total: %d/%d lessons linked (%.0f%%), %d missing\n",
				cov.Linked, cov.Total, cov.Percent(), len(cov.Missing))

			if len(cov.Missing) == 0 {
				return nil
			}
			fmt.Fprintln(out, "\nMissing lessons:")
			limit := len(cov.Missing)
			if !showAll && limit > missingPreviewLimit {
				limit = missingPreviewLimit
			}
			for _, missing := range cov.Missing[:limit] {
				fmt.Fprintf(out, "  [%s] %s > %s > %s\n",
					missing.LessonID, missing.Course, missing.Unit, missing.Title)
			}
			if rest := len(cov.Missing) - limit; rest > 0 {
				fmt.Fprintf(out, "  ... and %d more (use --all to list them)\n", rest)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showAll, "all", false, "List every missing lesson instead of the first 20")
	return cmd
}

func coveragePercentCell(percent float64, color bool) string {
	cell := fmt.Sprintf("%.0f%%", percent)
	switch {
	case percent >= 90:
		return paint(cell, ansiGreen, color)
	case percent >= 50:
		return paint(cell, ansiYellow, color)
	default:
		return paint(cell, ansiRed, color)
	}
}

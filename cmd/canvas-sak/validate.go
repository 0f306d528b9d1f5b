package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"canvassak/internal/canvas"
	"canvassak/internal/dates"
	"canvassak/internal/links"
	"canvassak/internal/ui"
	"canvassak/internal/validate"
)

var (
	validateActive        bool
	validateCheckLinks    bool
	validateCheckDates    bool
	validateCheckUntil    bool
	validateExternalLinks bool
	validateTimeout       int
)

var validateCmd = &cobra.Command{
	Use:   "validate-course-setup course",
	Short: "Validate course setup: due dates, until-date consistency, and links",
	Long: `Check all courses matching COURSE for common setup issues: assignments
with no due date, lock ("until") dates whose offset from the due date
deviates from the group's usual offset, and broken or unpublished
links in pages, assignments, discussions, quizzes, and modules.

Exits nonzero when any issue is found, so the command can gate CI or
pre-semester checklists.

Examples:
  canvas-sak validate-course-setup "CS 146"
  canvas-sak validate-course-setup "CS 146" --check-links=false
  canvas-sak validate-course-setup "CS 146" --external-links=false
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, cfg, err := newClient()
		if err != nil {
			return err
		}
		courses, err := findCourses(ctx, client, args[0], validateActive)
		if err != nil {
			return err
		}
		info("found %d course(s) matching %q", len(courses), args[0])

		opts := validate.Options{
			CheckDates:    validateCheckDates,
			CheckUntil:    validateCheckUntil,
			CheckLinks:    validateCheckLinks,
			ExternalLinks: validateExternalLinks,
			SiteOrigin:    cfg.URL,
		}
		if opts.CheckLinks && opts.ExternalLinks {
			opts.Checker = links.NewChecker(time.Duration(validateTimeout) * time.Second)
		}

		totalIssues := 0
		for _, course := range courses {
			output("")
			output("%s", ui.RenderSeparator())
			output("%s", ui.RenderHeader("Validating: "+course.Name))
			output("%s", ui.RenderSeparator())

			res, err := validate.Course(ctx, canvas.NewCourseSession(client, course), opts)
			if err != nil {
				return fmt.Errorf("validating %q: %w", course.Name, err)
			}
			printValidation(res)
			totalIssues += res.Report.Issues()
		}

		output("")
		if totalIssues > 0 {
			output("%s", ui.RenderWarn(fmt.Sprintf("%s %d total issue(s) found", ui.IconWarn, totalIssues)))
			return fmt.Errorf("validation found %d issue(s)", totalIssues)
		}
		output("%s all checks passed", ui.RenderPass(ui.IconPass))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateActive, "active", true, "Match only active courses")
	validateCmd.Flags().BoolVar(&validateCheckLinks, "check-links", true, "Check for broken/unpublished links")
	validateCmd.Flags().BoolVar(&validateCheckDates, "check-dates", true, "Check for missing due dates")
	validateCmd.Flags().BoolVar(&validateCheckUntil, "check-until", true, "Check until-date consistency")
	validateCmd.Flags().BoolVar(&validateExternalLinks, "external-links", true, "Check external links (HTTP requests)")
	validateCmd.Flags().IntVar(&validateTimeout, "timeout", 10, "Timeout in seconds for external link checks")
}

func printValidation(res *validate.Result) {
	for _, summary := range res.Offsets {
		a := summary.Analysis
		switch {
		case a.HasMode && len(a.Issues) == 0:
			info("%s %s: offset %s (%d assignment(s))",
				ui.RenderPass(ui.IconPass), summary.Group, dates.FormatDuration(a.Mode), a.Counted)
		case a.HasMode:
			info("%s: most common offset %s (%d assignment(s))",
				summary.Group, dates.FormatDuration(a.Mode), a.Counted)
		}
	}

	sections, grouped := res.Report.BySection()
	for _, section := range sections {
		output("")
		output("%s", ui.RenderAccent(fmt.Sprintf("--- %s ---", section)))
		for _, f := range grouped[section] {
			warn("%s - %s", f.Subject, f.Message)
		}
		output("  %d issue(s)", len(grouped[section]))
	}
}

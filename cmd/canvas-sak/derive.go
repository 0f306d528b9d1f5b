package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"canvassak/internal/canvas"
	"canvassak/internal/derive"
	"canvassak/internal/ui"
)

var (
	deriveFormula         string
	deriveDryrun          bool
	deriveUseLastAssigned bool
	deriveYes             bool
)

var deriveCmd = &cobra.Command{
	Use:   "derive-assignment-score course target",
	Short: "Compute assignment scores from a formula over other assignments",
	Long: `Compute scores for a target assignment from a formula using other
assignments' scores.

Assignment names in the formula use underscores for spaces and math
operators (+ - * /): an assignment named "Quiz - 1" becomes Quiz_1.
Consecutive spaces/operators collapse into one underscore. Scores are
converted to percentages (0-100) before applying the formula.

Available functions: min, max, sum, abs, round

Examples:
  canvas-sak derive-assignment-score "CS101" "Average" --formula "(Quiz_1 + Quiz_2) / 2"
  canvas-sak derive-assignment-score "CS101" "Best_Score" --formula "max(Midterm, Final)"
  canvas-sak derive-assignment-score "CS101" "Weighted" --formula "0.3 * Homework + 0.7 * Exam"
`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, _, err := newClient()
		if err != nil {
			return err
		}
		course, err := findCourse(ctx, client, args[0], true)
		if err != nil {
			return err
		}
		session := canvas.NewCourseSession(client, course)

		info("building score plan for %q...", course.Name)
		plan, err := derive.BuildPlan(ctx, session, derive.Options{
			Target:          args[1],
			Formula:         deriveFormula,
			UseLastAssigned: deriveUseLastAssigned,
		})
		if err != nil {
			return err
		}

		printPlan(plan)

		if deriveDryrun {
			output("")
			output("dry run: no scores were changed (rerun with --dryrun=false to commit)")
			return nil
		}
		if len(plan.Scores) == 0 {
			output("nothing to commit")
			return nil
		}

		if !deriveYes && ui.IsTTY() {
			if !confirmCommit(len(plan.Scores), plan.Target.Name) {
				output("cancelled")
				return nil
			}
		}

		result := plan.Commit(ctx, session, func(s derive.StudentScore, err error) {
			if err != nil {
				warn("%s failed to update %s: %v", ui.IconFail, studentLabel(s), err)
			} else {
				info("%s updated %s -> %s", ui.IconPass, studentLabel(s), formatScore(s.NewScore))
			}
		})

		output("")
		output("%d updated, %d skipped, %d failed",
			result.Updated, len(plan.Skipped), len(result.Failed))
		if len(result.Failed) > 0 {
			return fmt.Errorf("%d grade write(s) failed", len(result.Failed))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deriveCmd)
	deriveCmd.Flags().StringVar(&deriveFormula, "formula", "", "Formula using assignment names with _ for spaces and math operators")
	deriveCmd.Flags().BoolVar(&deriveDryrun, "dryrun", true, "Show what would happen without changing any scores")
	deriveCmd.Flags().BoolVar(&deriveUseLastAssigned, "use-last-assigned", false, "Use the last manually-assigned score as the previous score instead of the current score")
	deriveCmd.Flags().BoolVar(&deriveYes, "yes", false, "Skip the commit confirmation prompt")
	_ = deriveCmd.MarkFlagRequired("formula")
}

func printPlan(plan *derive.Plan) {
	output("%s", ui.RenderHeader(fmt.Sprintf("target: %s", plan.Target.Name)))
	for _, v := range plan.Variables {
		info("  %s -> %q", v, plan.Bindings[v].Name)
	}

	for _, s := range plan.Scores {
		inputs := make([]string, 0, len(s.Inputs))
		for _, v := range plan.Variables {
			inputs = append(inputs, fmt.Sprintf("%s=%s", v, formatScore(s.Inputs[v])))
		}
		prev := "none"
		if s.Previous != nil {
			prev = formatScore(*s.Previous)
		}
		output("  %s: %s (was %s; %s)",
			studentLabel(s), formatScore(s.NewScore), prev, strings.Join(inputs, ", "))
	}

	sort.Slice(plan.Skipped, func(i, j int) bool {
		return plan.Skipped[i].Name < plan.Skipped[j].Name
	})
	for _, sk := range plan.Skipped {
		warn("%s skipping %s: %s", ui.IconSkip, skippedLabel(sk), sk.Reason)
	}
}

func confirmCommit(count int, target string) bool {
	confirmed := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Write %d score(s) to %q?", count, target)).
			Affirmative("Commit").
			Negative("Cancel").
			Value(&confirmed),
	))
	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return false
		}
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	return confirmed
}

func studentLabel(s derive.StudentScore) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("user %d", s.UserID)
}

func skippedLabel(s derive.SkippedStudent) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("user %d", s.UserID)
}

// formatScore trims trailing zeros the way Canvas displays grades.
func formatScore(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

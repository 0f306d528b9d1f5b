package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"canvassak/internal/canvas"
	"canvassak/internal/dates"
)

var (
	listDatesActive bool
	setDatesActive  bool
	setDatesDryrun  bool
)

var listDueDatesCmd = &cobra.Command{
	Use:   "list-due-dates course",
	Short: "List due dates for all assignments in dates-file format",
	Long: `Print each assignment's dates in the tab-separated format that
set-due-dates reads, so a course's dates can be exported, edited, and
re-applied.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, _, err := newClient()
		if err != nil {
			return err
		}
		course, err := findCourse(ctx, client, args[0], listDatesActive)
		if err != nil {
			return err
		}

		assignments, err := client.ListAssignments(ctx, course.ID, false)
		if err != nil {
			return err
		}
		for _, a := range assignments {
			output("%s\t%s", a.Name, dates.FormatEntries(a.UnlockAt, a.DueAt, a.LockAt))
		}
		return nil
	},
}

var setDueDatesCmd = &cobra.Command{
	Use:   "set-due-dates course dates-file",
	Short: "Set assignment due dates from a dates file",
	Long: `Set due dates for assignments from a dates file.

Input format: assignment name TAB comma-separated dates. Each date is
type=value where type is available, due, or until. Values accept the
canonical YYYY-MM-DD-hh:mm layout, compact offsets like +1w, or
natural language like "next friday 5pm".

For section-specific dates, append the section name in brackets:

  Quiz 1	due=2024-01-20-23:59
  Quiz 1 [Evening Section]	due=2024-01-22-23:59
`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, _, err := newClient()
		if err != nil {
			return err
		}
		course, err := findCourse(ctx, client, args[0], setDatesActive)
		if err != nil {
			return err
		}
		session := canvas.NewCourseSession(client, course)

		assignments, err := session.AssignmentsWithOverrides(ctx)
		if err != nil {
			return err
		}
		byName := make(map[string]canvas.Assignment, len(assignments))
		for _, a := range assignments {
			byName[a.Name] = a
		}

		sections, err := session.Sections(ctx)
		if err != nil {
			return err
		}
		sectionsByName := make(map[string]canvas.Section, len(sections))
		names := make([]string, 0, len(sections))
		for _, s := range sections {
			sectionsByName[s.Name] = s
			names = append(names, s.Name)
		}
		sort.Strings(names)
		info("found %d section(s): %v", len(sections), names)

		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()

		now := time.Now()
		failures := 0
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			entry, err := dates.ParseLine(scanner.Text(), now)
			if err != nil {
				warn("skipping malformed line: %v", err)
				failures++
				continue
			}
			if entry == nil {
				continue
			}
			if err := applyEntry(cmd, session, byName, sectionsByName, entry); err != nil {
				errorf("%s: %v", entry.RawName, err)
				failures++
			}
		}
		if err := scanner.Err(); err != nil {
			return err
		}
		if failures > 0 {
			return fmt.Errorf("%d line(s) failed", failures)
		}
		return nil
	},
}

func applyEntry(cmd *cobra.Command, session *canvas.CourseSession, assignments map[string]canvas.Assignment, sections map[string]canvas.Section, entry *dates.Entry) error {
	assignment, ok := assignments[entry.AssignmentName]
	if !ok {
		return fmt.Errorf("assignment not found: %s", entry.AssignmentName)
	}
	if entry.Dates.Empty() {
		info("no dates to set for: %s", entry.RawName)
		return nil
	}

	ctx := cmd.Context()
	summary := dates.FormatEntries(entry.Dates.UnlockAt, entry.Dates.DueAt, entry.Dates.LockAt)

	if entry.SectionName == "" {
		if setDatesDryrun {
			info("would set %s to %s", entry.RawName, summary)
			return nil
		}
		info("setting %s to %s", entry.RawName, summary)
		return session.EditAssignmentDates(ctx, assignment.ID, entry.Dates)
	}

	section, ok := sections[entry.SectionName]
	if !ok {
		return fmt.Errorf("section not found: %s", entry.SectionName)
	}

	var existing *canvas.Override
	for i := range assignment.Overrides {
		if assignment.Overrides[i].CourseSectionID == section.ID {
			existing = &assignment.Overrides[i]
			break
		}
	}

	switch {
	case setDatesDryrun && existing != nil:
		info("would update override for %s with %s", entry.RawName, summary)
	case setDatesDryrun:
		info("would create override for %s with %s", entry.RawName, summary)
	case existing != nil:
		info("updating override for %s", entry.RawName)
		return session.UpdateOverride(ctx, assignment.ID, existing.ID, entry.Dates)
	default:
		info("creating override for %s", entry.RawName)
		return session.CreateOverride(ctx, assignment.ID, section.ID, entry.Dates)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listDueDatesCmd)
	rootCmd.AddCommand(setDueDatesCmd)
	listDueDatesCmd.Flags().BoolVar(&listDatesActive, "active", true, "Match only active courses")
	setDueDatesCmd.Flags().BoolVar(&setDatesActive, "active", true, "Match only active courses")
	setDueDatesCmd.Flags().BoolVar(&setDatesDryrun, "dryrun", true, "Show what would happen without changing any dates")
}

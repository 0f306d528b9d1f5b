package main

import (
	"context"
	"fmt"

	"canvassak/internal/canvas"
	"canvassak/internal/config"
)

// newClient builds a Canvas client from the loaded configuration.
func newClient() (*canvas.Client, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return canvas.NewClient(cfg.URL, cfg.Token), cfg, nil
}

// findCourses matches courses by name, code, or numeric id.
func findCourses(ctx context.Context, client *canvas.Client, query string, activeOnly bool) ([]canvas.Course, error) {
	courses, err := client.FindCourses(ctx, query, activeOnly)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, fmt.Errorf("no courses found matching %q", query)
	}
	return courses, nil
}

// findCourse requires the query to match exactly one course.
func findCourse(ctx context.Context, client *canvas.Client, query string, activeOnly bool) (canvas.Course, error) {
	courses, err := findCourses(ctx, client, query, activeOnly)
	if err != nil {
		return canvas.Course{}, err
	}
	if len(courses) > 1 {
		msg := fmt.Sprintf("%d courses match %q:", len(courses), query)
		for _, c := range courses {
			msg += fmt.Sprintf("\n    %s (%s)", c.Name, c.CourseCode)
		}
		return canvas.Course{}, fmt.Errorf("%s", msg)
	}
	return courses[0], nil
}

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/tasktracker/internal/ports/primary"
)

// PageAdapter renders informational pages as plain text.
type PageAdapter struct {
	pages primary.PageService
	nav   primary.Navigator
	tasks *TaskAdapter
	out   io.Writer
}

// NewPageAdapter creates a new PageAdapter. tasks may be nil, in which case
// the task list is never rendered.
func NewPageAdapter(pages primary.PageService, nav primary.Navigator, tasks *TaskAdapter, out io.Writer) *PageAdapter {
	return &PageAdapter{
		pages: pages,
		nav:   nav,
		tasks: tasks,
		out:   out,
	}
}

// Show navigates to fragment (e.g. "#/about") and renders the resulting page.
func (a *PageAdapter) Show(ctx context.Context, fragment string) error {
	current := a.nav.Navigate(fragment)

	page, err := a.pages.GetPage(ctx, current)
	if err != nil {
		return fmt.Errorf("failed to get page: %w", err)
	}

	title := color.New(color.Bold).Sprint(page.Title)
	fmt.Fprintf(a.out, "\n%s\n", title)
	fmt.Fprintln(a.out, strings.Repeat("═", len([]rune(page.Title))))
	if page.Subtitle != "" {
		fmt.Fprintln(a.out, page.Subtitle)
	}
	for _, s := range page.Sections {
		fmt.Fprintln(a.out)
		if s.Heading != "" {
			fmt.Fprintln(a.out, color.New(color.FgCyan).Sprint(s.Heading))
		}
		if s.Lead != "" {
			fmt.Fprintln(a.out, s.Lead)
		}
		if s.Body != "" {
			fmt.Fprintln(a.out, s.Body)
		}
	}
	if len(page.Tags) > 0 {
		fmt.Fprintf(a.out, "\nTags: %s\n", strings.Join(page.Tags, ", "))
	}

	if page.ShowTasks && a.tasks != nil {
		return a.tasks.List(ctx, "")
	}
	fmt.Fprintln(a.out)
	return nil
}

// Navigation prints the navigation links with the current route marked.
func (a *PageAdapter) Navigation(routes []string) {
	current := a.nav.CurrentRoute()
	for _, r := range routes {
		marker := "  "
		if r == current {
			marker = color.New(color.FgHiMagenta).Sprint("→ ")
		}
		fmt.Fprintf(a.out, "%s#/%s\n", marker, r)
	}
}

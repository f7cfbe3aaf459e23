package app

import (
	"context"

	"github.com/example/tasktracker/internal/core/route"
	"github.com/example/tasktracker/internal/ports/primary"
)

// PageServiceImpl implements the PageService interface over fixed content.
type PageServiceImpl struct {
	pages map[string]primary.Page
}

// NewPageService creates a PageService serving the built-in pages.
func NewPageService() *PageServiceImpl {
	return &PageServiceImpl{pages: builtinPages()}
}

// GetPage returns the page for a route key. Unknown keys get the task page
// heading, with the task list shown only for the task route itself.
func (s *PageServiceImpl) GetPage(ctx context.Context, key string) (*primary.Page, error) {
	page, ok := s.pages[key]
	if !ok {
		page = tasksPage()
	}
	page.Route = key
	page.ShowTasks = route.ShowsTasks(key)
	page.Sections = append([]primary.PageSection(nil), page.Sections...)
	page.Tags = append([]string(nil), page.Tags...)
	return &page, nil
}

func tasksPage() primary.Page {
	return primary.Page{
		Title:    "My Tasks",
		Subtitle: "Organize your work and keep progress visible.",
	}
}

func builtinPages() map[string]primary.Page {
	return map[string]primary.Page{
		route.Home: {
			Title:    "Track Tasks, Coordinate Teams, and Monitor Performance - All in One Place!",
			Subtitle: "Simplify. Organize. Automate.",
			Sections: []primary.PageSection{
				{
					Body: "Experience the future of business automation with Task Tracker! A mobile-first " +
						"solution powered by AI that digitizes and automates every business department, " +
						"making team collaboration effortless and organized.",
				},
				{
					Heading: "Versatile Solution for All Industries",
					Body: "Task Tracker is designed to meet diverse needs across industries and company sizes. " +
						"Whether you're a small startup or a large enterprise, it provides the flexibility " +
						"and efficiency you need to thrive.",
				},
			},
		},
		route.Features: {
			Title: "Features",
			Sections: []primary.PageSection{
				{
					Heading: "Attendance Management",
					Lead:    "Mark attendance",
					Body:    "Hassle-free attendance marking with a mobile phone with GPS-based geo-location capturing.",
				},
				{
					Heading: "Workflow Management",
					Lead:    "Leave management",
					Body:    "Manage the leave cycle from leave request to approval. Raise a request from the app and tag your HR.",
				},
				{
					Heading: "Collaboration",
					Lead:    "Calendar view",
					Body:    "Get a complete view of your tasks on a weekly and monthly basis in calendar format.",
				},
				{
					Heading: "Reporting",
					Lead:    "Multiple shift",
					Body:    "Set different shift timings for employees and record punch-in times to track attendance.",
				},
				{Heading: "AI/ML"},
			},
		},
		route.Events: {
			Title:    "Events",
			Subtitle: "Track upcoming milestones and important dates here.",
		},
		route.Blog: {
			Title:    "Blog",
			Subtitle: "Write reflections, tips, and weekly progress notes.",
		},
		route.About: {
			Title:    "About Me",
			Subtitle: "Frontend Developer · React Enthusiast",
			Sections: []primary.PageSection{
				{
					Body: "I build clean, responsive interfaces and enjoy turning ideas into polished user " +
						"experiences. Currently focused on React, component design, and performance-friendly UI.",
				},
			},
			Tags: []string{"React", "UI/UX", "TypeScript", "Accessibility"},
		},
	}
}

var _ primary.PageService = (*PageServiceImpl)(nil)

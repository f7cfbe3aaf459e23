package primary

import "context"

// PageService defines the primary port for static page content.
type PageService interface {
	// GetPage returns the content for a route key.
	GetPage(ctx context.Context, route string) (*Page, error)
}

// Page is fixed informational content for a route.
type Page struct {
	Route     string
	Title     string
	Subtitle  string
	Sections  []PageSection
	Tags      []string
	ShowTasks bool // true only for the task route
}

// PageSection is a titled block of text on a page.
type PageSection struct {
	Heading string
	Lead    string
	Body    string
}

// Package route contains the pure logic for turning a URL fragment into a route key.
package route

import "strings"

// Route keys for the known pages.
const (
	Home     = "home"
	Features = "features"
	Tasks    = "tasks"
	Events   = "events"
	Blog     = "blog"
	About    = "about"
)

// FromFragment derives the route key from a URL fragment such as "#/tasks".
// Only the first "#/" is removed, so "#tasks" stays "#tasks" and matches no page.
// An unset or empty fragment ("" or a bare "#") yields Home.
func FromFragment(fragment string) string {
	if fragment == "" || fragment == "#" {
		fragment = "#/" + Home
	}
	next := strings.TrimSpace(strings.Replace(fragment, "#/", "", 1))
	if next == "" {
		return Home
	}
	return next
}

// Fragment builds the URL fragment for a route key.
func Fragment(route string) string {
	return "#/" + route
}

// ShowsTasks reports whether the task list is displayed for the route.
func ShowsTasks(route string) bool {
	return route == Tasks
}

// Navigation returns the route keys in menu order.
func Navigation() []string {
	return []string{Home, Features, Tasks, Events, Blog, About}
}

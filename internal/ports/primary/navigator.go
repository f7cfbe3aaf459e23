package primary

// Navigator defines the primary port for fragment-based navigation.
type Navigator interface {
	// Navigate moves to the route derived from a URL fragment and returns it.
	Navigate(fragment string) string

	// CurrentRoute returns the current route key.
	CurrentRoute() string

	// Subscribe registers fn to receive the new route after every change.
	Subscribe(fn func(route string)) (cancel func())
}

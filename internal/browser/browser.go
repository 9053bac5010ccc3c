// Package browser abstracts the driven browser behind small interfaces so
// connectors can be tested against fakes, and bundles the per-run politeness
// machinery (admission slots, per-host rate limiting) into a Session.
package browser

import "context"

// Page is the surface connectors drive. Navigation goes through
// Session.Navigate so the host limiter sees every request; the remaining
// methods read the already-loaded document.
type Page interface {
	// Goto loads url and waits for the DOM to be ready.
	Goto(ctx context.Context, url string) error
	// Content returns the full serialized HTML of the current document.
	Content() (string, error)
	// Evaluate runs a script in the page and returns its result encoded as
	// JSON. A script returning a string is passed through unencoded.
	Evaluate(script string) (string, error)
	// Text returns the text content of the first node matching selector,
	// or "" when nothing matches.
	Text(selector string) (string, error)
	Close() error
}

// Browser opens pages. Implementations own the underlying driver process.
type Browser interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

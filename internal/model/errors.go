package model

import (
	"fmt"
)

// PageNotReadyError marks a detail page that loaded but did not yet expose
// the minimal required content (a usable title). The orchestrator treats it
// like any other transient failure and retries the item.
type PageNotReadyError struct {
	URL    string
	Reason string
}

func (e *PageNotReadyError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("page not ready: %s (%s)", e.URL, e.Reason)
	}
	return fmt.Sprintf("page not ready: %s", e.URL)
}

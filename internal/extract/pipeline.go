package extract

import (
	"context"
	"strings"

	"github.com/techiemmk/job-portal-scrapper/internal/model"
)

// placeholderTitles are titles career sites serve on detail pages that have
// not finished rendering. A record carrying one is not usable.
var placeholderTitles = map[string]bool{
	"careers": true,
}

// UsableTitle reports whether a title is present and not a site placeholder.
func UsableTitle(title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return false
	}
	return !placeholderTitles[strings.ToLower(title)]
}

// Strategy attempts one way of building a record from an already-loaded
// page. Returning (nil, nil) means this strategy found nothing; the pipeline
// moves on to the next one.
type Strategy func(ctx context.Context) (*model.JobRecord, error)

// Run applies strategies in order and returns the first record with a
// usable title. A strategy error aborts the pipeline; strategies that yield
// nothing or a placeholder record are skipped. Returns (nil, nil) when
// every strategy is exhausted.
func Run(ctx context.Context, strategies ...Strategy) (*model.JobRecord, error) {
	for _, strategy := range strategies {
		record, err := strategy(ctx)
		if err != nil {
			return nil, err
		}
		if record != nil && UsableTitle(record.JobName) {
			return record, nil
		}
	}
	return nil, nil
}

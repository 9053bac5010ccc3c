// Package orchestrator runs one scrape: link discovery followed by a
// bounded fan-out over detail pages.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/techiemmk/job-portal-scrapper/internal/browser"
	"github.com/techiemmk/job-portal-scrapper/internal/model"
	"github.com/techiemmk/job-portal-scrapper/internal/retry"
)

// Config bounds one run.
type Config struct {
	MaxPages      int           // listing pages to walk, <= 0 means all
	MaxItems      int           // cap on dispatched detail pages, <= 0 means all
	RetryAttempts int           // attempts per detail page
	RetryDelay    time.Duration // base delay, grows linearly per attempt
}

// Orchestrator drives a connector through a session.
type Orchestrator struct {
	session *browser.Session
	logger  *slog.Logger
	cfg     Config
}

func New(session *browser.Session, cfg Config, logger *slog.Logger) *Orchestrator {
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	return &Orchestrator{session: session, logger: logger, cfg: cfg}
}

// Run discovers detail links and fetches every posting. One goroutine per
// link writes into its own index of a positional slice, so the returned
// records keep dispatch order no matter which page finishes first. A link
// whose retries are exhausted, or whose page is permanently unusable, is
// dropped; dispatched work is never cancelled by a sibling's failure.
func (o *Orchestrator) Run(ctx context.Context, conn model.Connector) ([]model.JobRecord, error) {
	links, err := conn.DiscoverLinks(ctx, o.cfg.MaxPages)
	if err != nil {
		return nil, fmt.Errorf("discovering links for %s: %w", conn.Name(), err)
	}
	o.logger.Info("discovered job links", "portal", conn.Name(), "count", len(links))

	if o.cfg.MaxItems > 0 && len(links) > o.cfg.MaxItems {
		o.logger.Info("capping dispatched items", "cap", o.cfg.MaxItems, "discovered", len(links))
		links = links[:o.cfg.MaxItems]
	}

	results := make([]*model.JobRecord, len(links))
	var wg sync.WaitGroup
	for i, link := range links {
		wg.Add(1)
		go func(i int, link string) {
			defer wg.Done()
			err := o.session.WithSlot(ctx, func(ctx context.Context) error {
				return retry.Do(ctx, o.cfg.RetryAttempts, o.cfg.RetryDelay, o.logger, link, func(ctx context.Context) error {
					record, err := conn.ParseDetail(ctx, link)
					if err != nil {
						return err
					}
					// nil record with nil error marks a permanent skip.
					results[i] = record
					return nil
				})
			})
			if err != nil {
				o.logger.Warn("dropping job after retries", "portal", conn.Name(), "url", link, "error", err)
			}
		}(i, link)
	}
	wg.Wait()

	records := make([]model.JobRecord, 0, len(results))
	for _, record := range results {
		if record != nil {
			records = append(records, *record)
		}
	}
	o.logger.Info("scrape finished", "portal", conn.Name(),
		"dispatched", len(links), "scraped", len(records), "dropped", len(links)-len(records))
	return records, nil
}

package browser

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/semaphore"

	"github.com/techiemmk/job-portal-scrapper/internal/ratelimit"
)

// Session bundles everything one scrape run shares: the browser, the
// admission semaphore bounding concurrently open pages, and the per-host
// limiter. Discovery and detail work of the same run go through one Session
// so the page bound holds across both phases.
type Session struct {
	browser Browser
	sem     *semaphore.Weighted
	limiter *ratelimit.HostLimiter
	logger  *slog.Logger
}

func NewSession(b Browser, concurrency int64, limiter *ratelimit.HostLimiter, logger *slog.Logger) *Session {
	return &Session{
		browser: b,
		sem:     semaphore.NewWeighted(concurrency),
		limiter: limiter,
		logger:  logger,
	}
}

// WithSlot runs fn while holding one admission slot. At most the configured
// concurrency of callers are inside WithSlot at any moment.
func (s *Session) WithSlot(ctx context.Context, fn func(context.Context) error) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquiring page slot: %w", err)
	}
	defer s.sem.Release(1)
	return fn(ctx)
}

// WithPage opens a page, runs fn, and closes the page on every exit path.
// Callers hold an admission slot around WithPage; the two are separate so
// a connector can open several sequential pages under one slot.
func (s *Session) WithPage(ctx context.Context, fn func(Page) error) error {
	page, err := s.browser.NewPage(ctx)
	if err != nil {
		return fmt.Errorf("opening page: %w", err)
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			s.logger.Warn("closing page", "error", cerr)
		}
	}()
	return fn(page)
}

// Navigate waits out the host limiter for url, then drives the page there.
func (s *Session) Navigate(ctx context.Context, page Page, url string) error {
	if err := s.limiter.WaitURL(ctx, url); err != nil {
		return fmt.Errorf("rate limit wait for %s: %w", url, err)
	}
	s.logger.Debug("navigating", "url", url)
	return page.Goto(ctx, url)
}

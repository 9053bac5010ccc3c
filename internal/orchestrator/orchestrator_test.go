package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/techiemmk/job-portal-scrapper/internal/browser"
	"github.com/techiemmk/job-portal-scrapper/internal/model"
	"github.com/techiemmk/job-portal-scrapper/internal/ratelimit"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSession(concurrency int64) *browser.Session {
	// The orchestrator only uses admission slots, never the browser itself.
	return browser.NewSession(nil, concurrency, ratelimit.NewHostLimiter(1000, 1000), discardLogger())
}

// scriptedConnector returns canned links and per-URL ParseDetail behavior.
type scriptedConnector struct {
	links  []string
	parse  func(url string, attempt int) (*model.JobRecord, error)
	mu     sync.Mutex
	tries  map[string]int
	active int64
	peak   int64
}

func (c *scriptedConnector) Name() string           { return "scripted" }
func (c *scriptedConnector) Info() model.PortalInfo { return model.PortalInfo{Key: "scripted"} }

func (c *scriptedConnector) DiscoverLinks(_ context.Context, _ int) ([]string, error) {
	return c.links, nil
}

func (c *scriptedConnector) ParseDetail(_ context.Context, url string) (*model.JobRecord, error) {
	cur := atomic.AddInt64(&c.active, 1)
	for {
		old := atomic.LoadInt64(&c.peak)
		if cur <= old || atomic.CompareAndSwapInt64(&c.peak, old, cur) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	defer atomic.AddInt64(&c.active, -1)

	c.mu.Lock()
	if c.tries == nil {
		c.tries = make(map[string]int)
	}
	c.tries[url]++
	attempt := c.tries[url]
	c.mu.Unlock()

	return c.parse(url, attempt)
}

func links(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("https://careers.example/jobs/%d", i)
	}
	return out
}

func TestRunKeepsDispatchOrder(t *testing.T) {
	conn := &scriptedConnector{
		links: links(8),
		parse: func(url string, _ int) (*model.JobRecord, error) {
			return &model.JobRecord{JobLink: url, JobName: "Engineer"}, nil
		},
	}
	o := New(testSession(4), Config{RetryDelay: time.Millisecond}, discardLogger())

	records, err := o.Run(context.Background(), conn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 8 {
		t.Fatalf("expected 8 records, got %d", len(records))
	}
	for i, rec := range records {
		if want := fmt.Sprintf("https://careers.example/jobs/%d", i); rec.JobLink != want {
			t.Errorf("records[%d].JobLink = %q, want %q", i, rec.JobLink, want)
		}
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	conn := &scriptedConnector{
		links: links(12),
		parse: func(url string, _ int) (*model.JobRecord, error) {
			return &model.JobRecord{JobLink: url, JobName: "Engineer"}, nil
		},
	}
	o := New(testSession(3), Config{RetryDelay: time.Millisecond}, discardLogger())

	if _, err := o.Run(context.Background(), conn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if peak := atomic.LoadInt64(&conn.peak); peak > 3 {
		t.Errorf("peak in-flight detail fetches %d exceeds bound 3", peak)
	}
}

func TestRunRetriesTransientFailures(t *testing.T) {
	flaky := "https://careers.example/jobs/1"
	conn := &scriptedConnector{
		links: links(3),
		parse: func(url string, attempt int) (*model.JobRecord, error) {
			if url == flaky && attempt < 3 {
				return nil, &model.PageNotReadyError{URL: url}
			}
			return &model.JobRecord{JobLink: url, JobName: "Engineer"}, nil
		},
	}
	o := New(testSession(2), Config{RetryAttempts: 3, RetryDelay: time.Millisecond}, discardLogger())

	records, err := o.Run(context.Background(), conn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The flaky link succeeds on its third attempt and appears exactly once.
	count := 0
	for _, rec := range records {
		if rec.JobLink == flaky {
			count++
		}
	}
	if count != 1 {
		t.Errorf("flaky link appeared %d times, want 1", count)
	}
	if len(records) != 3 {
		t.Errorf("expected 3 records, got %d", len(records))
	}
}

func TestRunDropsExhaustedAndPermanentItems(t *testing.T) {
	conn := &scriptedConnector{
		links: links(4),
		parse: func(url string, _ int) (*model.JobRecord, error) {
			switch url {
			case "https://careers.example/jobs/1":
				return nil, errors.New("always failing")
			case "https://careers.example/jobs/2":
				return nil, nil // permanently unusable page
			default:
				return &model.JobRecord{JobLink: url, JobName: "Engineer"}, nil
			}
		},
	}
	o := New(testSession(2), Config{RetryAttempts: 2, RetryDelay: time.Millisecond}, discardLogger())

	records, err := o.Run(context.Background(), conn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 surviving records, got %d", len(records))
	}
	if records[0].JobLink != "https://careers.example/jobs/0" ||
		records[1].JobLink != "https://careers.example/jobs/3" {
		t.Errorf("surviving records out of order: %+v", records)
	}
	if got := conn.tries["https://careers.example/jobs/2"]; got != 1 {
		t.Errorf("permanent skip was attempted %d times, want 1", got)
	}
}

func TestRunCapsDispatchedItems(t *testing.T) {
	conn := &scriptedConnector{
		links: links(10),
		parse: func(url string, _ int) (*model.JobRecord, error) {
			return &model.JobRecord{JobLink: url, JobName: "Engineer"}, nil
		},
	}
	o := New(testSession(4), Config{MaxItems: 4, RetryDelay: time.Millisecond}, discardLogger())

	records, err := o.Run(context.Background(), conn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 records under the item cap, got %d", len(records))
	}
}

func TestRunPropagatesDiscoveryFailure(t *testing.T) {
	conn := &failingDiscovery{}
	o := New(testSession(2), Config{RetryDelay: time.Millisecond}, discardLogger())

	if _, err := o.Run(context.Background(), conn); err == nil {
		t.Fatal("expected discovery error")
	}
}

type failingDiscovery struct{}

func (f *failingDiscovery) Name() string           { return "broken" }
func (f *failingDiscovery) Info() model.PortalInfo { return model.PortalInfo{} }
func (f *failingDiscovery) DiscoverLinks(context.Context, int) ([]string, error) {
	return nil, errors.New("portal unreachable")
}
func (f *failingDiscovery) ParseDetail(context.Context, string) (*model.JobRecord, error) {
	return nil, nil
}

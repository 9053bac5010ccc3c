package browser

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/techiemmk/job-portal-scrapper/internal/ratelimit"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakePage records lifecycle calls.
type fakePage struct {
	mu      sync.Mutex
	gotos   []string
	closed  bool
	content string
}

func (p *fakePage) Goto(_ context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gotos = append(p.gotos, url)
	return nil
}

func (p *fakePage) Content() (string, error)        { return p.content, nil }
func (p *fakePage) Evaluate(string) (string, error) { return "", nil }
func (p *fakePage) Text(string) (string, error)     { return "", nil }

func (p *fakePage) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

type fakeBrowser struct {
	mu    sync.Mutex
	pages []*fakePage
	fail  bool
}

func (b *fakeBrowser) NewPage(_ context.Context) (Page, error) {
	if b.fail {
		return nil, errors.New("browser gone")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	page := &fakePage{}
	b.pages = append(b.pages, page)
	return page, nil
}

func (b *fakeBrowser) Close() error { return nil }

func TestWithSlotBoundsConcurrency(t *testing.T) {
	session := NewSession(&fakeBrowser{}, 3, ratelimit.NewHostLimiter(1000, 1000), discardLogger())

	var active, peak int64
	var wg sync.WaitGroup
	gate := make(chan struct{})

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session.WithSlot(context.Background(), func(ctx context.Context) error {
				cur := atomic.AddInt64(&active, 1)
				for {
					old := atomic.LoadInt64(&peak)
					if cur <= old || atomic.CompareAndSwapInt64(&peak, old, cur) {
						break
					}
				}
				<-gate
				atomic.AddInt64(&active, -1)
				return nil
			})
		}()
	}

	close(gate)
	wg.Wait()

	if got := atomic.LoadInt64(&peak); got > 3 {
		t.Errorf("peak concurrency %d exceeds slot bound 3", got)
	}
}

func TestWithPageClosesOnError(t *testing.T) {
	fb := &fakeBrowser{}
	session := NewSession(fb, 1, ratelimit.NewHostLimiter(1000, 1000), discardLogger())

	boom := errors.New("parse failed")
	err := session.WithPage(context.Background(), func(p Page) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if len(fb.pages) != 1 || !fb.pages[0].closed {
		t.Error("page was not closed after fn returned an error")
	}
}

func TestWithPagePropagatesOpenFailure(t *testing.T) {
	session := NewSession(&fakeBrowser{fail: true}, 1, ratelimit.NewHostLimiter(1000, 1000), discardLogger())

	err := session.WithPage(context.Background(), func(p Page) error { return nil })
	if err == nil {
		t.Fatal("expected error when the browser cannot open a page")
	}
}

func TestNavigateDrivesPage(t *testing.T) {
	fb := &fakeBrowser{}
	session := NewSession(fb, 1, ratelimit.NewHostLimiter(1000, 1000), discardLogger())

	err := session.WithPage(context.Background(), func(p Page) error {
		return session.Navigate(context.Background(), p, "https://careers.example/jobs")
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fb.pages) != 1 || len(fb.pages[0].gotos) != 1 {
		t.Fatalf("expected one navigation, got %+v", fb.pages)
	}
	if fb.pages[0].gotos[0] != "https://careers.example/jobs" {
		t.Errorf("navigated to %q", fb.pages[0].gotos[0])
	}
}

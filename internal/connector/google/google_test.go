package google

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/techiemmk/job-portal-scrapper/internal/browser"
	"github.com/techiemmk/job-portal-scrapper/internal/model"
	"github.com/techiemmk/job-portal-scrapper/internal/ratelimit"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakePage struct {
	mu       sync.Mutex
	url      string
	evaluate func(url, script string) string
	content  string
}

func (p *fakePage) Goto(_ context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = url
	return nil
}

func (p *fakePage) Evaluate(script string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.evaluate(p.url, script), nil
}

func (p *fakePage) Content() (string, error)    { return p.content, nil }
func (p *fakePage) Text(string) (string, error) { return "", nil }
func (p *fakePage) Close() error                { return nil }

type fakeBrowser struct {
	evaluate func(url, script string) string
	content  string
}

func (b *fakeBrowser) NewPage(_ context.Context) (browser.Page, error) {
	return &fakePage{evaluate: b.evaluate, content: b.content}, nil
}

func (b *fakeBrowser) Close() error { return nil }

func newTestConnector(evaluate func(url, script string) string, content string) *Connector {
	session := browser.NewSession(&fakeBrowser{evaluate: evaluate, content: content}, 2, ratelimit.NewHostLimiter(1000, 1000), discardLogger())
	return New(session, discardLogger())
}

func listingEvaluate(url, script string) string {
	onPageOne := strings.Contains(url, "page=1")
	switch script {
	case noResultsScript:
		if onPageOne {
			return "false"
		}
		return "true"
	case indexJobsScript:
		if onPageOne {
			return `["/about/careers/applications/jobs/results/123-swe", "/about/careers/applications/jobs/results/456-sre", "/about/careers/applications/jobs/results/123-swe"]`
		}
		return `[]`
	default:
		return `[]`
	}
}

func TestDiscoverLinksResolvesAndDeduplicates(t *testing.T) {
	conn := newTestConnector(listingEvaluate, "")

	links, err := conn.DiscoverLinks(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"https://www.google.com/about/careers/applications/jobs/results/123-swe",
		"https://www.google.com/about/careers/applications/jobs/results/456-sre",
	}
	if len(links) != len(want) {
		t.Fatalf("links = %v, want %v", links, want)
	}
	for i := range want {
		if links[i] != want[i] {
			t.Errorf("links[%d] = %q, want %q", i, links[i], want[i])
		}
	}
}

func TestDiscoverLinksFallsBackToAnchors(t *testing.T) {
	conn := newTestConnector(func(url, script string) string {
		switch script {
		case noResultsScript:
			if strings.Contains(url, "page=1") {
				return "false"
			}
			return "true"
		case indexJobsScript:
			return `[]`
		case indexAnchorsScript:
			if strings.Contains(url, "page=1") {
				return `["https://www.google.com/about/careers/applications/jobs/results/789-pm", "https://www.google.com/about/careers/teams"]`
			}
			return `[]`
		default:
			return `[]`
		}
	}, "")

	links, err := conn.DiscoverLinks(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(links) != 1 || links[0] != "https://www.google.com/about/careers/applications/jobs/results/789-pm" {
		t.Errorf("links = %v, want only the job result anchor", links)
	}
}

func detailRow(t *testing.T) string {
	t.Helper()
	row := make([]any, 15)
	row[1] = "Software Engineer III"
	row[2] = []any{"about", "<p>About the job.</p>"}
	row[3] = []any{"responsibilities", "<ul><li>Lead projects</li></ul>"}
	row[4] = []any{"qualifications", "<h3>Minimum qualifications:</h3><ul><li>BS degree</li></ul><h3>Preferred qualifications:</h3><ul><li>PhD</li></ul>"}
	row[5] = []any{"more", "<p>More info.</p>"}
	row[14] = []any{
		[]any{"loc", "Mountain View, CA, USA"},
		[]any{"loc", "Austin, TX, USA"},
	}
	payload, err := json.Marshal([]any{row})
	if err != nil {
		t.Fatal(err)
	}
	return string(payload)
}

func TestParseDetailDecodesScriptPayload(t *testing.T) {
	payload := detailRow(t)
	conn := newTestConnector(func(url, script string) string {
		if script == detailDataScript {
			return payload
		}
		return ""
	}, "")

	record, err := conn.ParseDetail(context.Background(), searchURL+"123-swe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.JobName != "Software Engineer III" {
		t.Errorf("JobName = %q", record.JobName)
	}
	if record.JobDescription != "About the job.\n\nMore info." {
		t.Errorf("JobDescription = %q", record.JobDescription)
	}
	if record.JobResponsibilities != "Lead projects\n•" {
		t.Errorf("JobResponsibilities = %q", record.JobResponsibilities)
	}
	if record.MinimumQualifications != "• BS degree" {
		t.Errorf("MinimumQualifications = %q", record.MinimumQualifications)
	}
	if record.PreferredQualifications != "• PhD" {
		t.Errorf("PreferredQualifications = %q", record.PreferredQualifications)
	}
	if record.JobLocation.Join() != "Mountain View, CA, USA, Austin, TX, USA" {
		t.Errorf("JobLocation = %q", record.JobLocation.Join())
	}
}

const schemaContent = `<html><head><script type="application/ld+json">
{"@context": "https://schema.org/", "@type": "JobPosting", "title": "Staff Engineer",
 "description": "<p>Design systems.</p>", "jobLocation": "Sunnyvale, CA"}
</script></head><body></body></html>`

func TestParseDetailFallsBackToSchemaOrg(t *testing.T) {
	conn := newTestConnector(func(url, script string) string {
		if script == detailDataScript {
			return "null"
		}
		return ""
	}, schemaContent)

	record, err := conn.ParseDetail(context.Background(), searchURL+"999-staff")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.JobName != "Staff Engineer" {
		t.Errorf("JobName = %q", record.JobName)
	}
	if record.JobDescription != "Design systems." {
		t.Errorf("JobDescription = %q", record.JobDescription)
	}
}

func TestParseDetailMissingEverythingIsRetryable(t *testing.T) {
	conn := newTestConnector(func(url, script string) string {
		if script == detailDataScript {
			return "null"
		}
		return ""
	}, "<html><body>loading</body></html>")

	_, err := conn.ParseDetail(context.Background(), searchURL+"777-slow")
	if err == nil {
		t.Fatal("expected an error for a page with no payload and no schema block")
	}
	var notReady *model.PageNotReadyError
	if !errors.As(err, &notReady) {
		t.Errorf("expected PageNotReadyError, got %T: %v", err, err)
	}
}

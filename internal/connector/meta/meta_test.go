package meta

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/techiemmk/job-portal-scrapper/internal/browser"
	"github.com/techiemmk/job-portal-scrapper/internal/ratelimit"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakePage answers Evaluate based on the last navigated URL.
type fakePage struct {
	mu   sync.Mutex
	url  string
	eval func(url, script string) string
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
	return p.eval(p.url, script), nil
}

func (p *fakePage) Content() (string, error)    { return "", nil }
func (p *fakePage) Text(string) (string, error) { return "", nil }
func (p *fakePage) Close() error                { return nil }

type fakeBrowser struct {
	eval func(url, script string) string
}

func (b *fakeBrowser) NewPage(_ context.Context) (browser.Page, error) {
	return &fakePage{eval: b.eval}, nil
}

func (b *fakeBrowser) Close() error { return nil }

func newTestConnector(eval func(url, script string) string) *Connector {
	session := browser.NewSession(&fakeBrowser{eval: eval}, 3, ratelimit.NewHostLimiter(1000, 1000), discardLogger())
	return New(session, discardLogger())
}

func TestDiscoverLinksDedupesAcrossPages(t *testing.T) {
	conn := newTestConnector(func(url, script string) string {
		if script == totalPagesScript {
			return "2"
		}
		switch url {
		case searchURL + "?page=1":
			return `["https://www.metacareers.com/profile/job_details/1","https://www.metacareers.com/profile/job_details/2"]`
		case searchURL + "?page=2":
			return `["https://www.metacareers.com/profile/job_details/2","https://www.metacareers.com/profile/job_details/3"]`
		}
		return "[]"
	})

	links, err := conn.DiscoverLinks(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"https://www.metacareers.com/profile/job_details/1",
		"https://www.metacareers.com/profile/job_details/2",
		"https://www.metacareers.com/profile/job_details/3",
	}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("links = %v, want %v", links, want)
	}
}

func TestDiscoverLinksHonorsPageCap(t *testing.T) {
	var visited []string
	var mu sync.Mutex
	conn := newTestConnector(func(url, script string) string {
		if script == totalPagesScript {
			return "5"
		}
		mu.Lock()
		visited = append(visited, url)
		mu.Unlock()
		return `[]`
	})

	if _, err := conn.DiscoverLinks(context.Background(), 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(visited) != 2 {
		t.Errorf("visited %d index pages, want 2: %v", len(visited), visited)
	}
}

func TestParseDetailBuildsRecord(t *testing.T) {
	payload := map[string]any{
		"title":                "Software Engineer, Infrastructure",
		"internal_departments": []string{"Core Systems"},
		"departments":          []string{"Engineering", "Core Systems"},
		"locations":            []string{"Menlo Park, CA", "Remote, US"},
		"minimum_qualifications": []map[string]string{
			{"item": "5+ years building services"},
			{"item": "Experience with distributed systems"},
		},
		"preferred_qualifications": []map[string]string{
			{"item": "Linux kernel experience"},
		},
		"responsibilities": []map[string]string{
			{"item": "Own large-scale systems"},
		},
		"description":        "<p>Build the infrastructure behind our apps.</p>",
		"boiler_plate_intro": `<p>Meta builds technologies. <a href="/about">About us</a></p>`,
		"public_compensation": []map[string]any{{
			"compensation_amount_minimum": 150000,
			"compensation_amount_maximum": 210000,
			"has_bonus":                   true,
			"has_equity":                  true,
			"error_apology_note":          "<p>Ranges vary by location.</p>",
		}},
		"equal_opportunity_message": "<p>Meta is an equal opportunity employer.</p>",
		"accommodations_message":    `<p>Accommodations: <a href="https://www.metacareers.com/accommodations">request here</a></p>`,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}

	conn := newTestConnector(func(url, script string) string {
		if script == detailPayloadScript {
			return string(encoded)
		}
		return "null"
	})

	record, err := conn.ParseDetail(context.Background(), "https://www.metacareers.com/profile/job_details/123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.JobName != "Software Engineer, Infrastructure" {
		t.Errorf("JobName = %q", record.JobName)
	}
	if record.JobDepartment != "Core Systems, Engineering" {
		t.Errorf("JobDepartment = %q (departments should be deduplicated)", record.JobDepartment)
	}
	if record.JobLocation.Join() != "Menlo Park, CA, Remote, US" {
		t.Errorf("JobLocation = %q", record.JobLocation.Join())
	}
	wantMin := "• 5+ years building services\n• Experience with distributed systems"
	if record.MinimumQualifications != wantMin {
		t.Errorf("MinimumQualifications = %q, want %q", record.MinimumQualifications, wantMin)
	}
	if record.Salary != "150000 to 210000 + bonus + equity + benefits" {
		t.Errorf("Salary = %q", record.Salary)
	}
	if record.CompensationDetails != "Ranges vary by location." {
		t.Errorf("CompensationDetails = %q", record.CompensationDetails)
	}
	if !strings.Contains(record.EEO, "equal opportunity employer") {
		t.Errorf("EEO = %q", record.EEO)
	}
	wantLinks := "https://www.metacareers.com/about, https://www.metacareers.com/accommodations"
	if record.AdditionalLinks.Join() != wantLinks {
		t.Errorf("AdditionalLinks = %q, want %q", record.AdditionalLinks.Join(), wantLinks)
	}
}

func TestParseDetailRetryableWhenPayloadMissing(t *testing.T) {
	conn := newTestConnector(func(url, script string) string { return "null" })

	_, err := conn.ParseDetail(context.Background(), "https://www.metacareers.com/profile/job_details/999")
	if err == nil {
		t.Fatal("expected a retryable error for a page without the payload")
	}
}

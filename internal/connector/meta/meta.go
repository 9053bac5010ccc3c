// Package meta scrapes the Meta careers site. Listing pages expose a
// "Page N of M" counter that is probed once, then index pages are walked
// concurrently; detail pages embed the full posting in an application/json
// script blob.
package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/techiemmk/job-portal-scrapper/internal/browser"
	"github.com/techiemmk/job-portal-scrapper/internal/extract"
	"github.com/techiemmk/job-portal-scrapper/internal/model"
)

const (
	baseURL   = "https://www.metacareers.com"
	searchURL = baseURL + "/jobsearch"
)

const totalPagesScript = `() => {
	const match = document.body.innerText.match(/Page \d+ of (\d+)/);
	return match ? parseInt(match[1]) : 1;
}`

const indexLinksScript = `() => {
	return Array.from(document.querySelectorAll('a[href*="/profile/job_details/"]'))
				.map(a => a.href);
}`

// detailPayloadScript digs the posting payload out of the embedded JSON
// blobs. The marker key only appears in the blob that carries the job data.
const detailPayloadScript = `() => {
	const scripts = Array.from(document.querySelectorAll('script[type="application/json"]'));
	for (const script of scripts) {
		const content = script.textContent;
		if (content.includes('xcp_requisition_job_description')) {
			try {
				const parsed = JSON.parse(content);
				const findKey = (obj, key) => {
					if (obj && typeof obj === 'object') {
						if (obj[key]) return obj[key];
						for (const k in obj) {
							const res = findKey(obj[k], key);
							if (res) return res;
						}
					}
					return null;
				};
				const jobData = findKey(parsed, 'xcp_requisition_job_description');
				if (jobData) return JSON.stringify(jobData);
			} catch (e) {}
		}
	}
	return null;
}`

type listItem struct {
	Item string `json:"item"`
}

type compensation struct {
	Minimum          any    `json:"compensation_amount_minimum"`
	Maximum          any    `json:"compensation_amount_maximum"`
	HasBonus         bool   `json:"has_bonus"`
	HasEquity        bool   `json:"has_equity"`
	ErrorApologyNote string `json:"error_apology_note"`
}

type detailPayload struct {
	Title                   string         `json:"title"`
	InternalDepartments     []string       `json:"internal_departments"`
	Departments             []string       `json:"departments"`
	Locations               []string       `json:"locations"`
	MinimumQualifications   []listItem     `json:"minimum_qualifications"`
	PreferredQualifications []listItem     `json:"preferred_qualifications"`
	Responsibilities        []listItem     `json:"responsibilities"`
	Description             string         `json:"description"`
	BoilerPlateIntro        string         `json:"boiler_plate_intro"`
	PublicCompensation      []compensation `json:"public_compensation"`
	EqualOpportunityMessage string         `json:"equal_opportunity_message"`
	AccommodationsMessage   string         `json:"accommodations_message"`
}

type Connector struct {
	session *browser.Session
	logger  *slog.Logger
}

func New(session *browser.Session, logger *slog.Logger) *Connector {
	return &Connector{session: session, logger: logger}
}

func Info() model.PortalInfo {
	return model.PortalInfo{
		Key:         "meta",
		CompanyName: "Meta Platforms, Inc.",
		WebsiteName: "metacareers.com",
		BaseURL:     baseURL,
	}
}

func (c *Connector) Name() string           { return "meta" }
func (c *Connector) Info() model.PortalInfo { return Info() }

// DiscoverLinks probes the total page count once, then walks every index
// page concurrently under the session's admission slots. Links come back in
// page order with duplicates dropped.
func (c *Connector) DiscoverLinks(ctx context.Context, maxPages int) ([]string, error) {
	total, err := c.probeTotalPages(ctx)
	if err != nil {
		return nil, err
	}
	limit := total
	if maxPages > 0 && maxPages < limit {
		limit = maxPages
	}
	c.logger.Info("walking index pages", "portal", "meta", "total_pages", total, "fetching", limit)

	pageLinks := make([][]string, limit)
	var wg sync.WaitGroup
	for i := 1; i <= limit; i++ {
		wg.Add(1)
		go func(pageNum int) {
			defer wg.Done()
			err := c.session.WithSlot(ctx, func(ctx context.Context) error {
				return c.session.WithPage(ctx, func(p browser.Page) error {
					url := fmt.Sprintf("%s?page=%d", searchURL, pageNum)
					if err := c.session.Navigate(ctx, p, url); err != nil {
						return err
					}
					raw, err := p.Evaluate(indexLinksScript)
					if err != nil {
						return err
					}
					var links []string
					if err := json.Unmarshal([]byte(raw), &links); err != nil {
						return fmt.Errorf("decoding index page %d links: %w", pageNum, err)
					}
					pageLinks[pageNum-1] = links
					return nil
				})
			})
			if err != nil {
				c.logger.Warn("index page failed", "portal", "meta", "page", pageNum, "error", err)
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	var ordered []string
	for _, links := range pageLinks {
		for _, link := range links {
			if !seen[link] {
				seen[link] = true
				ordered = append(ordered, link)
			}
		}
	}
	return ordered, nil
}

func (c *Connector) probeTotalPages(ctx context.Context) (int, error) {
	total := 1
	err := c.session.WithSlot(ctx, func(ctx context.Context) error {
		return c.session.WithPage(ctx, func(p browser.Page) error {
			if err := c.session.Navigate(ctx, p, searchURL); err != nil {
				return err
			}
			raw, err := p.Evaluate(totalPagesScript)
			if err != nil {
				return err
			}
			n, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return fmt.Errorf("parsing page count %q: %w", raw, err)
			}
			total = n
			return nil
		})
	})
	if err != nil {
		return 0, fmt.Errorf("probing total pages: %w", err)
	}
	return total, nil
}

// ParseDetail loads one posting and decodes the embedded JSON payload. A
// page without the payload has not finished rendering and is retryable.
func (c *Connector) ParseDetail(ctx context.Context, url string) (*model.JobRecord, error) {
	var record *model.JobRecord
	err := c.session.WithPage(ctx, func(p browser.Page) error {
		if err := c.session.Navigate(ctx, p, url); err != nil {
			return err
		}
		raw, err := p.Evaluate(detailPayloadScript)
		if err != nil {
			return err
		}
		if raw == "" || raw == "null" {
			return &model.PageNotReadyError{URL: url, Reason: "job payload not present"}
		}
		var payload detailPayload
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return fmt.Errorf("decoding job payload: %w", err)
		}
		record = buildRecord(url, payload)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func buildRecord(url string, payload detailPayload) *model.JobRecord {
	record := &model.JobRecord{
		JobLink:                 url,
		JobName:                 payload.Title,
		JobDepartment:           strings.Join(dedupe(append(payload.InternalDepartments, payload.Departments...)), ", "),
		JobLocation:             model.Str(strings.Join(payload.Locations, ", ")),
		JobDescription:          extract.CleanField(payload.Description),
		JobResponsibilities:     bulletJoin(payload.Responsibilities),
		MinimumQualifications:   bulletJoin(payload.MinimumQualifications),
		PreferredQualifications: bulletJoin(payload.PreferredQualifications),
		AboutCompany:            extract.CleanField(payload.BoilerPlateIntro),
		EEO: extract.CleanField(payload.EqualOpportunityMessage) + "\n\n" +
			extract.CleanField(payload.AccommodationsMessage),
	}

	htmlSections := []string{
		payload.BoilerPlateIntro,
		payload.EqualOpportunityMessage,
		payload.AccommodationsMessage,
		payload.Description,
	}
	if len(payload.PublicCompensation) > 0 {
		comp := payload.PublicCompensation[0]
		salary := fmt.Sprintf("%s to %s", compAmount(comp.Minimum), compAmount(comp.Maximum))
		if comp.HasBonus {
			salary += " + bonus"
		}
		if comp.HasEquity {
			salary += " + equity"
		}
		salary += " + benefits"
		record.Salary = salary
		record.CompensationDetails = extract.CleanField(comp.ErrorApologyNote)
		htmlSections = append(htmlSections, comp.ErrorApologyNote)
	}

	linkSet := make(map[string]bool)
	for _, section := range htmlSections {
		for _, link := range extract.Links(section, baseURL) {
			linkSet[link] = true
		}
	}
	links := make([]string, 0, len(linkSet))
	for link := range linkSet {
		links = append(links, link)
	}
	sort.Strings(links)
	record.AdditionalLinks = model.Str(strings.Join(links, ", "))

	return record
}

func bulletJoin(items []listItem) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, "• "+it.Item)
	}
	return strings.Join(lines, "\n")
}

func dedupe(values []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func compAmount(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case string:
		return n
	default:
		return fmt.Sprint(n)
	}
}

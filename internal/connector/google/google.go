// Package google scrapes the Google careers site. Both listing and detail
// pages ship their data inside AF_initDataCallback script payloads; detail
// pages additionally carry a schema.org JobPosting block used as a fallback.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/techiemmk/job-portal-scrapper/internal/browser"
	"github.com/techiemmk/job-portal-scrapper/internal/extract"
	"github.com/techiemmk/job-portal-scrapper/internal/model"
)

const (
	siteURL   = "https://www.google.com"
	baseURL   = siteURL + "/about/careers/applications"
	searchURL = baseURL + "/jobs/results/"

	aboutBlurb = "Google is proud to be an equal opportunity workplace and is an affirmative action employer."
	eeoBlurb   = "Google is an Equal Opportunity Employer. All qualified applicants will receive consideration " +
		"for employment without regard to race, color, religion, sex, sexual orientation, gender identity, " +
		"national origin, disability, or protected veteran status."
)

const indexJobsScript = `() => {
	const scripts = Array.from(document.querySelectorAll('script'));
	const target = scripts.find(s => s.textContent.includes("AF_initDataCallback") && s.textContent.includes("ds:1"));
	if (!target) return JSON.stringify([]);
	try {
		const match = target.textContent.match(/AF_initDataCallback\(([\s\S]*)\)/);
		if (!match) return JSON.stringify([]);
		const config = eval("(" + match[1] + ")");
		const jobs = config.data[0];
		return JSON.stringify(jobs.map(j => {
			const jobId = j[0];
			const slug = j[1] ? j[1].toLowerCase().replace(/[^a-z0-9]+/g, '-') : 'job';
			return '/about/careers/applications/jobs/results/' + jobId + '-' + slug;
		}));
	} catch (e) {
		return JSON.stringify([]);
	}
}`

const indexAnchorsScript = `() => {
	return JSON.stringify(Array.from(document.querySelectorAll('a[aria-label^="Learn more about"]'))
				.map(a => a.href));
}`

const detailDataScript = `() => {
	const scripts = Array.from(document.querySelectorAll('script'));
	for (const script of scripts) {
		const content = script.textContent;
		if (content.includes('AF_initDataCallback')) {
			try {
				const match = content.match(/AF_initDataCallback\(([\s\S]*)\)/);
				if (match) {
					const config = eval("(" + match[1] + ")");
					const rawData = config.data;
					if (rawData && rawData[0] && rawData[0][0] && rawData[0][0].length > 5) {
						return JSON.stringify(rawData);
					}
				}
			} catch (e) {}
		}
	}
	return null;
}`

const noResultsScript = `() => document.body.innerText.includes("No results found")`

type Connector struct {
	session *browser.Session
	logger  *slog.Logger
}

func New(session *browser.Session, logger *slog.Logger) *Connector {
	return &Connector{session: session, logger: logger}
}

func Info() model.PortalInfo {
	return model.PortalInfo{
		Key:         "google",
		CompanyName: "Google LLC",
		WebsiteName: "google.com/about/careers",
		BaseURL:     baseURL,
	}
}

func (c *Connector) Name() string           { return "google" }
func (c *Connector) Info() model.PortalInfo { return Info() }

// DiscoverLinks walks numbered listing pages on one browser page until the
// site reports no more results. The script payload is preferred; the DOM
// anchors are the fallback for pages rendered without it.
func (c *Connector) DiscoverLinks(ctx context.Context, maxPages int) ([]string, error) {
	limit := maxPages
	if limit <= 0 {
		limit = 999
	}

	var all []string
	seen := make(map[string]bool)
	err := c.session.WithSlot(ctx, func(ctx context.Context) error {
		return c.session.WithPage(ctx, func(p browser.Page) error {
			for i := 1; i <= limit; i++ {
				url := fmt.Sprintf("%s?page=%d", searchURL, i)
				if err := c.session.Navigate(ctx, p, url); err != nil {
					return err
				}
				done, err := p.Evaluate(noResultsScript)
				if err != nil {
					return err
				}
				if done == "true" {
					c.logger.Info("reached end of results", "portal", "google", "page", i)
					return nil
				}

				links, err := c.indexLinks(p, i)
				if err != nil {
					return err
				}
				if len(links) == 0 {
					return nil
				}
				for _, link := range links {
					if strings.HasPrefix(link, "/") {
						link = siteURL + link
					}
					if strings.Contains(link, "/jobs/results/") && !seen[link] {
						seen[link] = true
						all = append(all, link)
					}
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

func (c *Connector) indexLinks(p browser.Page, pageNum int) ([]string, error) {
	raw, err := p.Evaluate(indexJobsScript)
	if err != nil {
		return nil, err
	}
	var links []string
	if err := json.Unmarshal([]byte(raw), &links); err != nil {
		return nil, fmt.Errorf("decoding index page %d: %w", pageNum, err)
	}
	if len(links) > 0 {
		return links, nil
	}
	raw, err = p.Evaluate(indexAnchorsScript)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(raw), &links); err != nil {
		return nil, fmt.Errorf("decoding index page %d anchors: %w", pageNum, err)
	}
	return links, nil
}

// ParseDetail decodes the positional script payload of one posting. Pages
// without the payload fall back to their schema.org JobPosting block; a
// page with neither is retryable.
func (c *Connector) ParseDetail(ctx context.Context, url string) (*model.JobRecord, error) {
	var record *model.JobRecord
	err := c.session.WithPage(ctx, func(p browser.Page) error {
		if err := c.session.Navigate(ctx, p, url); err != nil {
			return err
		}
		rec, err := extract.Run(ctx,
			func(context.Context) (*model.JobRecord, error) {
				return payloadRecord(p, url)
			},
			func(context.Context) (*model.JobRecord, error) {
				html, err := p.Content()
				if err != nil {
					return nil, err
				}
				return extract.SchemaOrg(html, url), nil
			},
		)
		if err != nil {
			return err
		}
		if rec == nil {
			return &model.PageNotReadyError{URL: url, Reason: "no script payload or schema block"}
		}
		record = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// payloadRecord is the preferred strategy: the AF_initDataCallback data of
// an already-loaded detail page. Yields nothing when the payload is absent.
func payloadRecord(p browser.Page, url string) (*model.JobRecord, error) {
	raw, err := p.Evaluate(detailDataScript)
	if err != nil {
		return nil, err
	}
	if raw == "" || raw == "null" {
		return nil, nil
	}
	var data []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("decoding detail payload: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return buildRecord(url, data[0])
}

// buildRecord maps the positional payload row onto a record. Index layout
// observed on live pages: 1 title, 2/5 description parts, 3 responsibilities,
// 4 qualifications blob, 14 locations.
func buildRecord(url string, rawRow json.RawMessage) (*model.JobRecord, error) {
	var row []any
	if err := json.Unmarshal(rawRow, &row); err != nil {
		return nil, fmt.Errorf("decoding detail row: %w", err)
	}

	record := &model.JobRecord{
		JobLink:      url,
		JobName:      stringAt(row, 1),
		AboutCompany: aboutBlurb,
		EEO:          eeoBlurb,
	}

	record.JobResponsibilities = extract.CleanField(fieldHTML(row, 3))

	qualsHTML := fieldHTML(row, 4)
	quals := extract.SplitListSections(qualsHTML, []extract.Section{
		{Key: "min", Markers: []string{"minimum"}},
		{Key: "pref", Markers: []string{"preferred"}},
	})
	record.MinimumQualifications = quals["min"]
	record.PreferredQualifications = quals["pref"]

	var descParts []string
	for _, idx := range []int{2, 5} {
		if part := extract.CleanField(fieldHTML(row, idx)); part != "" {
			descParts = append(descParts, part)
		}
	}
	record.JobDescription = strings.Join(descParts, "\n\n")

	var locations []string
	if len(row) > 14 {
		if locs, ok := row[14].([]any); ok {
			for _, loc := range locs {
				if pair, ok := loc.([]any); ok && len(pair) > 1 {
					locations = append(locations, fmt.Sprint(pair[1]))
				}
			}
		}
	}
	record.JobLocation = model.Str(strings.Join(locations, ", "))
	record.AdditionalLinks = model.Str(strings.Join(extract.Links(qualsHTML, baseURL), ", "))

	return record, nil
}

// fieldHTML reads the [label, html] pair convention at idx.
func fieldHTML(row []any, idx int) string {
	if len(row) <= idx {
		return ""
	}
	pair, ok := row[idx].([]any)
	if !ok || len(pair) < 2 {
		return ""
	}
	s, _ := pair[1].(string)
	return s
}

func stringAt(row []any, idx int) string {
	if len(row) <= idx {
		return ""
	}
	s, _ := row[idx].(string)
	return s
}

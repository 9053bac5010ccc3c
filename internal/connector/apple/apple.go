// Package apple scrapes jobs.apple.com. The search UI reports its total
// page count in a pagination element that can take a while to render, so
// the probe retries and falls back to a high default for a global crawl.
// Detail pages are assembled from a list of element-id candidates.
package apple

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/techiemmk/job-portal-scrapper/internal/browser"
	"github.com/techiemmk/job-portal-scrapper/internal/extract"
	"github.com/techiemmk/job-portal-scrapper/internal/model"
)

const (
	baseURL   = "https://jobs.apple.com"
	searchURL = baseURL + "/en-us/search"

	// The site intermittently reports a single page before pagination
	// hydrates; a recent manual crawl showed around 310 real pages.
	fallbackTotalPages = 315
	paginationSel      = `span[data-autom="paginationTotalPages"]`
	paginationProbes   = 5
	paginationWait     = 2 * time.Second

	aboutBlurb = "Apple is a leader in consumer electronics, software and services."
	eeoBlurb   = "Apple is an equal opportunity employer that is committed to inclusion and diversity."
)

const indexLinksScript = `() => {
	return JSON.stringify(Array.from(document.querySelectorAll('a.link-inline'))
				.map(a => a.href)
				.filter(href => href.includes('/details/')));
}`

// detailScript reads every posting field in one round trip. Element ids
// vary across page generations, so each field tries a candidate list.
const detailScript = `() => {
	const getTxt = (id) => {
		const el = document.getElementById(id);
		return el ? el.innerText.trim() : "";
	};
	let name = getTxt("jd-job-summary");
	if (!name) {
		const h1 = document.querySelector('h1.jd-header-title') ||
				   document.querySelector('.job-detail-header h1') ||
				   document.querySelector('h1#jobdetails-jobtitle') ||
				   document.querySelector('h1');
		name = h1 ? h1.innerText.trim() : "";
	}
	const getSection = (baseId) => {
		return getTxt(baseId) || getTxt(baseId + "-content-row") || getTxt("jobdetails-" + baseId);
	};
	return JSON.stringify({
		"name": name,
		"location": getTxt("jobdetails-joblocation") || getTxt("job-location") || "",
		"roleNum": getTxt("jobdetails-rolenumber") || "",
		"team": getTxt("jobdetails-teamname") || "",
		"summary": getSection("jobsummary"),
		"description": getSection("jobdescription"),
		"responsibilities": getSection("responsibilities"),
		"min_quals": getSection("minimumqualifications"),
		"pref_quals": getSection("preferredqualifications"),
		"education": getSection("education-experience")
	});
}`

type detailData struct {
	Name             string `json:"name"`
	Location         string `json:"location"`
	RoleNum          string `json:"roleNum"`
	Team             string `json:"team"`
	Summary          string `json:"summary"`
	Description      string `json:"description"`
	Responsibilities string `json:"responsibilities"`
	MinQuals         string `json:"min_quals"`
	PrefQuals        string `json:"pref_quals"`
	Education        string `json:"education"`
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
		Key:         "apple",
		CompanyName: "Apple Inc.",
		WebsiteName: "jobs.apple.com",
		BaseURL:     baseURL,
	}
}

func (c *Connector) Name() string           { return "apple" }
func (c *Connector) Info() model.PortalInfo { return Info() }

// DiscoverLinks probes the pagination total, then walks numbered search
// pages on one browser page collecting detail links in first-seen order.
func (c *Connector) DiscoverLinks(ctx context.Context, maxPages int) ([]string, error) {
	var all []string
	seen := make(map[string]bool)
	err := c.session.WithSlot(ctx, func(ctx context.Context) error {
		return c.session.WithPage(ctx, func(p browser.Page) error {
			totalPages, err := c.probeTotalPages(ctx, p)
			if err != nil {
				return err
			}
			limit := totalPages
			if maxPages > 0 && maxPages < limit {
				limit = maxPages
			}
			c.logger.Info("walking index pages", "portal", "apple", "total_pages", totalPages, "fetching", limit)

			for i := 1; i <= limit; i++ {
				url := fmt.Sprintf("%s?page=%d", searchURL, i)
				if err := c.session.Navigate(ctx, p, url); err != nil {
					c.logger.Warn("index page failed", "portal", "apple", "page", i, "error", err)
					continue
				}
				raw, err := p.Evaluate(indexLinksScript)
				if err != nil {
					c.logger.Warn("index page failed", "portal", "apple", "page", i, "error", err)
					continue
				}
				var links []string
				if err := json.Unmarshal([]byte(raw), &links); err != nil {
					return fmt.Errorf("decoding index page %d: %w", i, err)
				}
				if len(links) == 0 {
					c.logger.Info("empty index page", "portal", "apple", "page", i)
					if i > 1 {
						return nil
					}
					continue
				}
				for _, link := range links {
					if !seen[link] {
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

func (c *Connector) probeTotalPages(ctx context.Context, p browser.Page) (int, error) {
	if err := c.session.Navigate(ctx, p, searchURL); err != nil {
		return 0, err
	}
	for i := 0; i < paginationProbes; i++ {
		text, err := p.Text(paginationSel)
		if err == nil {
			if n, err := strconv.Atoi(strings.TrimSpace(text)); err == nil && n > 1 {
				c.logger.Info("site reports total pages", "portal", "apple", "pages", n)
				return n, nil
			}
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(paginationWait):
		}
	}
	c.logger.Warn("pagination never hydrated, using default", "portal", "apple", "pages", fallbackTotalPages)
	return fallbackTotalPages, nil
}

// ParseDetail reads one posting through the element-id candidates. A page
// still showing the generic "Careers" title has not rendered and is
// retryable.
func (c *Connector) ParseDetail(ctx context.Context, url string) (*model.JobRecord, error) {
	var record *model.JobRecord
	err := c.session.WithPage(ctx, func(p browser.Page) error {
		if err := c.session.Navigate(ctx, p, url); err != nil {
			return err
		}
		raw, err := p.Evaluate(detailScript)
		if err != nil {
			return err
		}
		var data detailData
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return fmt.Errorf("decoding detail data: %w", err)
		}
		if !extract.UsableTitle(data.Name) {
			return &model.PageNotReadyError{URL: url, Reason: "job title not rendered"}
		}
		record = buildRecord(url, data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func buildRecord(url string, data detailData) *model.JobRecord {
	fullDesc := data.Summary
	if data.Description != "" {
		fullDesc += "\n\nDescription:\n" + data.Description
	}
	if data.Responsibilities != "" {
		fullDesc += "\n\nResponsibilities:\n" + data.Responsibilities
	}
	if data.Education != "" {
		fullDesc += "\n\nEducation & Experience:\n" + data.Education
	}

	location := data.Location
	if location == "" {
		location = "Global"
	}
	responsibilities := data.Responsibilities
	if responsibilities == "" {
		responsibilities = data.Description
	}
	var additionalLinks string
	if data.RoleNum != "" {
		additionalLinks = "Role Number: " + data.RoleNum
	}

	return &model.JobRecord{
		JobLink:                 url,
		JobName:                 data.Name,
		JobLocation:             model.Str(location),
		JobDepartment:           data.Team,
		JobDescription:          strings.TrimSpace(fullDesc),
		JobResponsibilities:     responsibilities,
		MinimumQualifications:   data.MinQuals,
		PreferredQualifications: data.PrefQuals,
		AboutCompany:            aboutBlurb,
		EEO:                     eeoBlurb,
		AdditionalLinks:         model.Str(additionalLinks),
	}
}

// Package amazon scrapes amazon.jobs through its public search API, driven
// through the browser so the site sees an ordinary session. One API page
// carries complete postings, so discovery caches every record and
// ParseDetail serves from that cache without another fetch.
package amazon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/techiemmk/job-portal-scrapper/internal/browser"
	"github.com/techiemmk/job-portal-scrapper/internal/extract"
	"github.com/techiemmk/job-portal-scrapper/internal/model"
)

const (
	baseURL = "https://www.amazon.jobs"
	apiURL  = baseURL + "/en/search.json"

	resultLimit      = 100
	defaultAPIPages  = 10
	bodyTextScript   = `() => document.body.innerText`
	aboutBoilerplate = "Amazon is an equal opportunity employer and does not discriminate on the basis of race, " +
		"national origin, gender, gender identity, sexual orientation, protected veteran status, disability, " +
		"age, or other legally protected status."
	eeoBoilerplate = "Amazon is an Equal Opportunity Employer – Minority / Women / Disability / Veteran / " +
		"Gender Identity / Sexual Orientation / Age."
)

type searchResponse struct {
	Jobs []searchJob `json:"jobs"`
	Hits int         `json:"hits"`
}

type searchJob struct {
	JobPath                 string `json:"job_path"`
	Title                   string `json:"title"`
	City                    string `json:"city"`
	State                   string `json:"state"`
	CountryCode             string `json:"country_code"`
	JobCategory             string `json:"job_category"`
	Description             string `json:"description"`
	BasicQualifications     string `json:"basic_qualifications"`
	PreferredQualifications string `json:"preferred_qualifications"`
}

type Connector struct {
	session *browser.Session
	logger  *slog.Logger

	mu    sync.Mutex
	cache map[string]model.JobRecord
}

func New(session *browser.Session, logger *slog.Logger) *Connector {
	return &Connector{
		session: session,
		logger:  logger,
		cache:   make(map[string]model.JobRecord),
	}
}

func Info() model.PortalInfo {
	return model.PortalInfo{
		Key:         "amazon",
		CompanyName: "Amazon.com, Inc.",
		WebsiteName: "amazon.jobs",
		BaseURL:     baseURL,
	}
}

func (c *Connector) Name() string           { return "amazon" }
func (c *Connector) Info() model.PortalInfo { return Info() }

// DiscoverLinks pages through the search API in offset steps, newest first,
// stopping on an empty page or when the offset passes the reported hit
// count. maxPages caps the API pages fetched, defaulting to ten.
func (c *Connector) DiscoverLinks(ctx context.Context, maxPages int) ([]string, error) {
	pages := maxPages
	if pages <= 0 {
		pages = defaultAPIPages
	}

	var links []string
	err := c.session.WithSlot(ctx, func(ctx context.Context) error {
		return c.session.WithPage(ctx, func(p browser.Page) error {
			offset := 0
			for i := 0; i < pages; i++ {
				url := fmt.Sprintf("%s?offset=%d&result_limit=%d&sort=recent", apiURL, offset, resultLimit)
				c.logger.Debug("fetching index", "portal", "amazon", "offset", offset)
				if err := c.session.Navigate(ctx, p, url); err != nil {
					return err
				}
				body, err := p.Evaluate(bodyTextScript)
				if err != nil {
					return err
				}
				var resp searchResponse
				if err := json.Unmarshal([]byte(body), &resp); err != nil {
					return fmt.Errorf("decoding search response at offset %d: %w", offset, err)
				}
				if len(resp.Jobs) == 0 {
					c.logger.Info("no more jobs", "portal", "amazon", "offset", offset)
					return nil
				}

				c.mu.Lock()
				for _, job := range resp.Jobs {
					record := buildRecord(job)
					links = append(links, record.JobLink)
					c.cache[record.JobLink] = record
				}
				c.mu.Unlock()

				offset += resultLimit
				if offset >= resp.Hits {
					return nil
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return links, nil
}

// ParseDetail serves the record cached during discovery. A link missing
// from the cache was never part of this run and is permanently skipped.
func (c *Connector) ParseDetail(_ context.Context, url string) (*model.JobRecord, error) {
	c.mu.Lock()
	record, ok := c.cache[url]
	c.mu.Unlock()
	if !ok {
		c.logger.Warn("link not in discovery cache", "portal", "amazon", "url", url)
		return nil, nil
	}
	return &record, nil
}

func buildRecord(job searchJob) model.JobRecord {
	location := strings.Trim(
		fmt.Sprintf("%s, %s, %s", job.City, job.State, job.CountryCode), ", ")
	return model.JobRecord{
		JobLink:                 baseURL + job.JobPath,
		JobName:                 job.Title,
		JobLocation:             model.Str(location),
		JobDepartment:           job.JobCategory,
		JobDescription:          extract.CleanField(job.Description),
		MinimumQualifications:   extract.CleanField(job.BasicQualifications),
		PreferredQualifications: extract.CleanField(job.PreferredQualifications),
		AboutCompany:            aboutBoilerplate,
		EEO:                     eeoBoilerplate,
	}
}

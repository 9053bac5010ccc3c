// Package nvidia scrapes NVIDIA's eightfold-hosted careers site. The job
// count is probed from the rendered page with an API fallback, position IDs
// come from an offset-paged search API, and each posting's single HTML
// description blob is cut into sections by its marker headings.
package nvidia

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/techiemmk/job-portal-scrapper/internal/browser"
	"github.com/techiemmk/job-portal-scrapper/internal/extract"
	"github.com/techiemmk/job-portal-scrapper/internal/model"
)

const (
	baseURL       = "https://nvidia.eightfold.ai"
	searchAPIURL  = baseURL + "/api/pcsx/search"
	detailsAPIURL = baseURL + "/api/pcsx/position_details"

	pageSize       = 10
	countProbes    = 5
	countProbeWait = 2 * time.Second

	bodyTextScript = `() => document.body.innerText`
	jobCountSel    = "[data-testid='job-count']"

	aboutBlurb = "NVIDIA is a leader in accelerated computing."
	eeoBlurb   = "NVIDIA is committed to fostering a diverse work environment and proud to be an equal opportunity employer."
)

var descriptionSections = []extract.Section{
	{Key: "responsibilities", Markers: []string{"what you will be doing", "what you'll be doing"}},
	{Key: "minimum", Markers: []string{"what we need to see", "minimum qualifications"}},
	{Key: "preferred", Markers: []string{"ways to stand out", "preferred qualifications"}},
}

type searchResponse struct {
	Data struct {
		Count     int `json:"count"`
		Positions []struct {
			ID json.Number `json:"id"`
		} `json:"positions"`
	} `json:"data"`
}

type detailsResponse struct {
	Data struct {
		Name           string   `json:"name"`
		Locations      []string `json:"locations"`
		Department     string   `json:"department"`
		JobDescription string   `json:"jobDescription"`
	} `json:"data"`
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
		Key:         "nvidia",
		CompanyName: "NVIDIA Corporation",
		WebsiteName: "nvidia.eightfold.ai",
		BaseURL:     baseURL,
	}
}

func (c *Connector) Name() string           { return "nvidia" }
func (c *Connector) Info() model.PortalInfo { return Info() }

// DiscoverLinks probes the total job count, then pages the search API for
// position IDs. maxPages caps the walked API pages of ten IDs each.
func (c *Connector) DiscoverLinks(ctx context.Context, maxPages int) ([]string, error) {
	var links []string
	err := c.session.WithSlot(ctx, func(ctx context.Context) error {
		return c.session.WithPage(ctx, func(p browser.Page) error {
			total, err := c.probeJobCount(ctx, p)
			if err != nil {
				return err
			}
			if total == 0 {
				c.logger.Warn("site reports no jobs", "portal", "nvidia")
				return nil
			}
			c.logger.Info("site job count", "portal", "nvidia", "count", total)

			toFetch := total
			if maxPages > 0 && maxPages*pageSize < toFetch {
				toFetch = maxPages * pageSize
			}

			seen := make(map[string]bool)
			offset := 0
			for offset < toFetch {
				url := fmt.Sprintf("%s?domain=nvidia.com&query=&location=&start=%d&num=%d",
					searchAPIURL, offset, pageSize)
				if err := c.session.Navigate(ctx, p, url); err != nil {
					return err
				}
				body, err := p.Evaluate(bodyTextScript)
				if err != nil {
					return err
				}
				var resp searchResponse
				if err := json.Unmarshal([]byte(body), &resp); err != nil {
					return fmt.Errorf("decoding search page at offset %d: %w", offset, err)
				}
				if len(resp.Data.Positions) == 0 {
					return nil
				}
				for _, pos := range resp.Data.Positions {
					id := pos.ID.String()
					if id != "" && !seen[id] {
						seen[id] = true
						links = append(links, fmt.Sprintf("%s/careers/job/%s", baseURL, id))
					}
				}
				offset += len(resp.Data.Positions)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return links, nil
}

// probeJobCount reads the rendered count element, retrying while the page
// hydrates, then falls back to a one-item API query.
func (c *Connector) probeJobCount(ctx context.Context, p browser.Page) (int, error) {
	if err := c.session.Navigate(ctx, p, baseURL+"/careers?start=0"); err != nil {
		return 0, err
	}
	for i := 0; i < countProbes; i++ {
		text, err := p.Text(jobCountSel)
		if err == nil {
			if n, ok := digits(text); ok {
				return n, nil
			}
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(countProbeWait):
		}
	}

	c.logger.Warn("count element never appeared, trying API", "portal", "nvidia")
	if err := c.session.Navigate(ctx, p, searchAPIURL+"?domain=nvidia.com&start=0&num=1"); err != nil {
		return 0, err
	}
	body, err := p.Evaluate(bodyTextScript)
	if err != nil {
		return 0, err
	}
	var resp searchResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return 0, fmt.Errorf("decoding count fallback: %w", err)
	}
	return resp.Data.Count, nil
}

// ParseDetail fetches one posting through the details API. The position id
// is the trailing segment of the job link.
func (c *Connector) ParseDetail(ctx context.Context, url string) (*model.JobRecord, error) {
	id := url[strings.LastIndex(url, "/")+1:]
	if id == "" {
		return nil, nil
	}

	var record *model.JobRecord
	err := c.session.WithPage(ctx, func(p browser.Page) error {
		apiURL := fmt.Sprintf("%s?position_id=%s&domain=nvidia.com&hl=en", detailsAPIURL, id)
		if err := c.session.Navigate(ctx, p, apiURL); err != nil {
			return err
		}
		body, err := p.Evaluate(bodyTextScript)
		if err != nil {
			return err
		}
		if strings.TrimSpace(body) == "" {
			return &model.PageNotReadyError{URL: url, Reason: "empty API response"}
		}
		var resp detailsResponse
		if err := json.Unmarshal([]byte(body), &resp); err != nil {
			return fmt.Errorf("decoding position %s: %w", id, err)
		}
		if resp.Data.Name == "" && resp.Data.JobDescription == "" {
			return &model.PageNotReadyError{URL: url, Reason: "no data in API response"}
		}

		sections := extract.SplitSections(resp.Data.JobDescription, "overview", descriptionSections)
		record = &model.JobRecord{
			JobLink:                 url,
			JobName:                 resp.Data.Name,
			JobLocation:             model.Str(strings.Join(resp.Data.Locations, ", ")),
			JobDepartment:           resp.Data.Department,
			JobDescription:          sections["overview"],
			JobResponsibilities:     sections["responsibilities"],
			MinimumQualifications:   sections["minimum"],
			PreferredQualifications: sections["preferred"],
			AboutCompany:            aboutBlurb,
			EEO:                     eeoBlurb,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func digits(s string) (int, bool) {
	n := 0
	found := false
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
			found = true
		}
	}
	return n, found
}

package model

import "context"

// PortalInfo identifies one employer career site.
type PortalInfo struct {
	Key         string // CLI/registry key, e.g. "meta"
	CompanyName string // legal name used in the run envelope
	WebsiteName string // human-readable site name
	BaseURL     string // scheme+host for resolving relative links
}

// Connector is implemented once per career site. DiscoverLinks walks the
// site's listing pages and returns detail-page URLs deduplicated in
// first-seen order; maxPages <= 0 means no page cap. ParseDetail fetches one
// posting and builds its canonical record. It returns (nil, nil) when the
// page is permanently unusable, and an error for transient failures the
// orchestrator should retry. ParseDetail must be called while holding an
// admission slot; the orchestrator owns slot acquisition for the detail phase.
type Connector interface {
	Name() string
	Info() PortalInfo
	DiscoverLinks(ctx context.Context, maxPages int) ([]string, error)
	ParseDetail(ctx context.Context, url string) (*JobRecord, error)
}

package connector

import (
	"io"
	"log/slog"
	"testing"
)

func TestNewKnownPortals(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, portal := range Portals() {
		conn, err := New(portal, nil, logger)
		if err != nil {
			t.Errorf("New(%q) failed: %v", portal, err)
			continue
		}
		if conn.Name() != portal {
			t.Errorf("connector name %q does not match portal key %q", conn.Name(), portal)
		}
		info := conn.Info()
		if info.Key != portal || info.CompanyName == "" || info.BaseURL == "" {
			t.Errorf("incomplete portal info for %q: %+v", portal, info)
		}
	}
}

func TestNewUnknownPortal(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := New("microsoft", nil, logger); err == nil {
		t.Fatal("expected error for unsupported portal")
	}
}

func TestInfoMetadata(t *testing.T) {
	tests := []struct {
		portal  string
		company string
		website string
	}{
		{"meta", "Meta Platforms, Inc.", "metacareers.com"},
		{"google", "Google LLC", "google.com/about/careers"},
		{"amazon", "Amazon.com, Inc.", "amazon.jobs"},
		{"nvidia", "NVIDIA Corporation", "nvidia.eightfold.ai"},
		{"apple", "Apple Inc.", "jobs.apple.com"},
	}
	for _, tt := range tests {
		info, err := Info(tt.portal)
		if err != nil {
			t.Errorf("Info(%q): %v", tt.portal, err)
			continue
		}
		if info.CompanyName != tt.company || info.WebsiteName != tt.website {
			t.Errorf("Info(%q) = %+v", tt.portal, info)
		}
	}
}

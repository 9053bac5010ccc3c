// Package connector wires each supported career site to the orchestrator.
package connector

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/techiemmk/job-portal-scrapper/internal/browser"
	"github.com/techiemmk/job-portal-scrapper/internal/connector/amazon"
	"github.com/techiemmk/job-portal-scrapper/internal/connector/apple"
	"github.com/techiemmk/job-portal-scrapper/internal/connector/google"
	"github.com/techiemmk/job-portal-scrapper/internal/connector/meta"
	"github.com/techiemmk/job-portal-scrapper/internal/connector/nvidia"
	"github.com/techiemmk/job-portal-scrapper/internal/model"
)

// New builds the connector for a portal key. The set of supported portals
// is closed; an unknown key is a user error surfaced before any browser
// work starts.
func New(portal string, session *browser.Session, logger *slog.Logger) (model.Connector, error) {
	switch portal {
	case "meta":
		return meta.New(session, logger), nil
	case "google":
		return google.New(session, logger), nil
	case "amazon":
		return amazon.New(session, logger), nil
	case "nvidia":
		return nvidia.New(session, logger), nil
	case "apple":
		return apple.New(session, logger), nil
	default:
		return nil, fmt.Errorf("unknown portal %q (supported: %v)", portal, Portals())
	}
}

// Portals lists the supported portal keys in stable order.
func Portals() []string {
	keys := []string{"amazon", "apple", "google", "meta", "nvidia"}
	sort.Strings(keys)
	return keys
}

// Info returns portal metadata without building a connector, for commands
// that only need the company and site names.
func Info(portal string) (model.PortalInfo, error) {
	switch portal {
	case "meta":
		return meta.Info(), nil
	case "google":
		return google.Info(), nil
	case "amazon":
		return amazon.Info(), nil
	case "nvidia":
		return nvidia.Info(), nil
	case "apple":
		return apple.Info(), nil
	default:
		return model.PortalInfo{}, fmt.Errorf("unknown portal %q (supported: %v)", portal, Portals())
	}
}

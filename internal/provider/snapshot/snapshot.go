// Package snapshot replays a previously exported inventory CSV as a
// source, enabling comparisons against historical exports without a
// live session.
package snapshot

import (
	"context"

	"sitediff/internal/domain"
	"sitediff/internal/inventory"
)

// Provider implements the inventory provider over an exported CSV file.
type Provider struct {
	name    string
	siteURL string
	path    string
}

// New creates a snapshot provider for the endpoint's CSV file.
func New(ep domain.Endpoint) (*Provider, error) {
	siteURL := ep.SiteURL
	if siteURL == "" {
		siteURL = "file://" + ep.Snapshot
	}
	return &Provider{name: ep.Name, siteURL: siteURL, path: ep.Snapshot}, nil
}

// Name returns the endpoint's display name.
func (p *Provider) Name() string { return p.name }

// SiteURL returns the URL recorded for the snapshot's origin.
func (p *Provider) SiteURL() string { return p.siteURL }

// Close is a no-op; the file is opened and closed per Inventory call.
func (p *Provider) Close() error { return nil }

// Inventory loads the CSV through the inventory loader, so the same
// validation applies as for live traversals. Source tags embedded in a
// combined export are cleared; the endpoint decides the identity here.
func (p *Provider) Inventory(ctx context.Context, progress func(discovered int)) ([]domain.FileRecord, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	records, err := inventory.ReadFile(p.path)
	if err != nil {
		return nil, err
	}

	for i := range records {
		records[i].SourceSite = ""
		records[i].SourceURL = ""
	}
	if progress != nil {
		progress(len(records))
	}
	return records, nil
}

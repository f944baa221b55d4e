// Package provider defines the inventory-provider contract and the
// factory that builds one from an endpoint definition.
package provider

import (
	"context"
	"fmt"

	"sitediff/internal/domain"
	"sitediff/internal/provider/gdrive"
	"sitediff/internal/provider/local"
	"sitediff/internal/provider/snapshot"
)

// Provider produces the complete file inventory for one source site.
// Providers are read-only; traversal is the only remote interaction.
type Provider interface {
	// Name returns the endpoint's display name
	Name() string

	// SiteURL returns the user-facing URL of the site
	SiteURL() string

	// Inventory traverses the source and returns one FileRecord per
	// file. progress, when non-nil, receives the running count of
	// files discovered. The returned sequence is owned by the caller.
	Inventory(ctx context.Context, progress func(discovered int)) ([]domain.FileRecord, error)

	// Close releases the provider's session and resources
	Close() error
}

// New builds a provider for the given endpoint.
func New(ctx context.Context, ep domain.Endpoint) (Provider, error) {
	if err := ep.Validate(); err != nil {
		return nil, fmt.Errorf("endpoint %s: %w", ep.Name, err)
	}

	switch ep.Type {
	case domain.EndpointGDrive:
		return gdrive.New(ctx, ep)
	case domain.EndpointLocal:
		return local.New(ep)
	case domain.EndpointSnapshot:
		return snapshot.New(ep)
	default:
		return nil, fmt.Errorf("%w: unknown endpoint type %s", domain.ErrConfigInvalid, ep.Type)
	}
}

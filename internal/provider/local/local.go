// Package local inventories a local directory tree. Useful for comparing
// an on-disk mirror against a remote site.
package local

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sitediff/internal/domain"
)

// Provider implements the inventory provider for the local filesystem.
type Provider struct {
	name    string
	siteURL string
	root    string
}

// New creates a local provider rooted at the endpoint's root directory.
func New(ep domain.Endpoint) (*Provider, error) {
	absRoot, err := filepath.Abs(ep.Root)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, domain.ErrNotFound
	}

	siteURL := ep.SiteURL
	if siteURL == "" {
		siteURL = "file://" + absRoot
	}

	return &Provider{name: ep.Name, siteURL: siteURL, root: absRoot}, nil
}

// Name returns the endpoint's display name.
func (p *Provider) Name() string { return p.name }

// SiteURL returns the file URL of the root directory.
func (p *Provider) SiteURL() string { return p.siteURL }

// Close is a no-op; the provider holds no resources.
func (p *Provider) Close() error { return nil }

// Inventory walks the root and returns one record per regular file.
// Paths are server-relative with forward slashes. The filesystem carries
// no portable creation time, so Created mirrors Modified.
func (p *Provider) Inventory(ctx context.Context, progress func(discovered int)) ([]domain.FileRecord, error) {
	var records []domain.FileRecord

	err := filepath.WalkDir(p.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(p.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		modified := info.ModTime().UTC().Format(time.RFC3339)
		records = append(records, domain.FileRecord{
			Name:      d.Name(),
			Path:      "/" + rel,
			Size:      info.Size(),
			Created:   modified,
			Modified:  modified,
			Library:   p.libraryOf(rel),
			Extension: domain.ExtensionOf(d.Name()),
		})
		if progress != nil {
			progress(len(records))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// libraryOf maps a relative path to its library name: the top-level
// directory, or the root's base name for files at the top level.
func (p *Provider) libraryOf(rel string) string {
	if i := strings.Index(rel, "/"); i > 0 {
		return rel[:i]
	}
	return filepath.Base(p.root)
}

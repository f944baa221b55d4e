// Package gdrive inventories a Google Drive folder tree.
//
// Traversal is read-only and paginated: folders are walked breadth-first
// and each folder listing follows the pageToken chain. Timestamps are
// passed through verbatim as the RFC3339 strings the Drive API returns;
// downstream comparison is exact string equality.
package gdrive

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"sitediff/internal/domain"
)

const (
	// MimeTypeFolder is the MIME type for Google Drive folders
	MimeTypeFolder = "application/vnd.google-apps.folder"
	// PageSize is the number of files to fetch per request
	PageSize = 100
)

// Provider implements the inventory provider for Google Drive.
type Provider struct {
	service *drive.Service
	name    string
	siteURL string
	root    string
}

// New creates a Drive provider for the endpoint. Credentials come from
// the endpoint's credentials map (client_id, client_secret, token_path);
// a token must already exist (see the auth command).
func New(ctx context.Context, ep domain.Endpoint) (*Provider, error) {
	auth := NewAuthenticator(
		ep.Credentials["client_id"],
		ep.Credentials["client_secret"],
		ep.Credentials["token_path"],
	)

	token, err := auth.Token(ctx)
	if err != nil {
		return nil, err
	}

	client := auth.Config().Client(ctx, token)
	service, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Provider{
		service: service,
		name:    ep.Name,
		siteURL: ep.SiteURL,
		root:    normalizeRoot(ep.Root),
	}, nil
}

// Name returns the endpoint's display name.
func (p *Provider) Name() string { return p.name }

// SiteURL returns the user-facing URL of the site.
func (p *Provider) SiteURL() string { return p.siteURL }

// Close releases the provider. The Drive service holds no persistent
// connection, so this only severs the reference.
func (p *Provider) Close() error {
	p.service = nil
	return nil
}

// folder is one pending traversal step.
type folder struct {
	id      string
	relPath string
	library string
}

// Inventory walks the folder tree under the configured root and returns
// one record per regular file. Library is the top-level folder name
// under the root; files directly under the root get the root's name.
func (p *Provider) Inventory(ctx context.Context, progress func(discovered int)) ([]domain.FileRecord, error) {
	rootID, rootName, err := p.resolveRoot(ctx)
	if err != nil {
		return nil, err
	}

	var records []domain.FileRecord
	queue := []folder{{id: rootID, relPath: "", library: rootName}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		files, err := p.listFolder(ctx, current.id)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", displayPath(current.relPath), err)
		}

		for _, f := range files {
			relPath := path.Join(current.relPath, f.Name)
			if f.MimeType == MimeTypeFolder {
				library := current.library
				if current.relPath == "" {
					library = f.Name
				}
				queue = append(queue, folder{id: f.Id, relPath: relPath, library: library})
				continue
			}

			records = append(records, domain.FileRecord{
				Name:      f.Name,
				Path:      "/" + relPath,
				Size:      f.Size,
				Created:   f.CreatedTime,
				Modified:  f.ModifiedTime,
				Library:   current.library,
				Extension: domain.ExtensionOf(f.Name),
			})
			if progress != nil {
				progress(len(records))
			}
		}
	}

	return records, nil
}

// listFolder fetches all children of a folder, following page tokens.
func (p *Provider) listFolder(ctx context.Context, folderID string) ([]*drive.File, error) {
	var result []*drive.File
	pageToken := ""

	for {
		query := fmt.Sprintf("'%s' in parents and trashed = false", folderID)
		call := p.service.Files.List().
			Q(query).
			PageSize(PageSize).
			Fields("nextPageToken, files(id, name, mimeType, size, createdTime, modifiedTime)")

		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		fileList, err := call.Context(ctx).Do()
		if err != nil {
			return nil, mapError(err)
		}

		result = append(result, fileList.Files...)

		pageToken = fileList.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return result, nil
}

// resolveRoot walks the configured root path from the Drive root folder
// and returns its folder ID and display name. The root is never created;
// a missing segment fails the traversal.
func (p *Provider) resolveRoot(ctx context.Context) (id, name string, err error) {
	id, name = "root", "Drive"
	if p.root == "" {
		return id, name, nil
	}

	for _, segment := range strings.Split(strings.TrimPrefix(p.root, "/"), "/") {
		query := fmt.Sprintf("'%s' in parents and name = '%s' and mimeType = '%s' and trashed = false",
			id, escapeQuery(segment), MimeTypeFolder)
		list, err := p.service.Files.List().
			Q(query).
			PageSize(1).
			Fields("files(id, name)").
			Context(ctx).Do()
		if err != nil {
			return "", "", mapError(err)
		}
		if len(list.Files) == 0 {
			return "", "", fmt.Errorf("%w: folder %s under %s", domain.ErrNotFound, segment, p.root)
		}
		id, name = list.Files[0].Id, list.Files[0].Name
	}

	return id, name, nil
}

// normalizeRoot trims the root to "segment/segment" form.
func normalizeRoot(root string) string {
	root = strings.TrimSpace(root)
	root = strings.Trim(root, "/")
	return root
}

// escapeQuery escapes single quotes and backslashes for a Drive query.
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

func displayPath(relPath string) string {
	if relPath == "" {
		return "/"
	}
	return "/" + relPath
}

// mapError converts Drive API failures to domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 404:
			return domain.ErrNotFound
		case 401, 403:
			return domain.ErrPermissionDenied
		case 429:
			return fmt.Errorf("%w: %v", domain.ErrQuotaExceeded, err)
		}
		if apiErr.Code >= 500 {
			return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
		}
	}

	if strings.Contains(err.Error(), "notFound") {
		return domain.ErrNotFound
	}

	return err
}

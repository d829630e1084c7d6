package pcloud

import (
	"context"
	"net/url"
	"strconv"

	"arbor/internal/logging"
	"arbor/internal/services"
)

// ListFolder retrieves a folder's children by folder ID and partitions them
// into subfolders and files keyed by name.
func (c *Client) ListFolder(ctx context.Context, folderID int64) (*Listing, error) {
	params := url.Values{}
	params.Set("folderid", strconv.FormatInt(folderID, 10))
	return c.listFolder(ctx, params)
}

// ListPath retrieves a folder's children by absolute path.
func (c *Client) ListPath(ctx context.Context, path string) (*Listing, error) {
	params := url.Values{}
	params.Set("path", path)
	return c.listFolder(ctx, params)
}

// ResolvePublicRoot looks up the well-known public folder by name under the
// account root and returns its folder ID.
func (c *Client) ResolvePublicRoot(ctx context.Context, name string) (int64, error) {
	listing, err := c.ListPath(ctx, "/")
	if err != nil {
		return 0, err
	}
	folder, ok := listing.Subfolders[name]
	if !ok {
		return 0, services.Wrap(services.ErrNotFound, "pcloud", "resolve public root", name, nil)
	}
	return folder.FolderID, nil
}

func (c *Client) listFolder(ctx context.Context, params url.Values) (*Listing, error) {
	var res listfolderResult
	if err := c.getJSON(ctx, "listfolder", params, &res); err != nil {
		return nil, err
	}

	listing := &Listing{
		FolderID:   res.Metadata.FolderID,
		Subfolders: make(map[string]Folder),
		Files:      make(map[string]File),
	}
	for _, child := range res.Metadata.Contents {
		if child.IsFolder {
			listing.Subfolders[child.Name] = child.toFolder()
			continue
		}
		file, err := child.toFile()
		if err != nil {
			// A malformed created timestamp should not hide the file;
			// the capture-time fallback will then resolve to zero time.
			c.logger.Warn("listing entry has malformed timestamp",
				logging.String(logging.FieldFilename, child.Name), logging.Error(err))
		}
		listing.Files[child.Name] = file
	}
	return listing, nil
}

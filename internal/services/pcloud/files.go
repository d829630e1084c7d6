package pcloud

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"arbor/internal/logging"
	"arbor/internal/services"
)

// ReadFile fetches a file's full content through the open-read-close
// sequence. The listing-reported size drives the exact read count; callers
// are expected to verify the returned length against it.
func (c *Client) ReadFile(ctx context.Context, file File) ([]byte, error) {
	fd, err := c.openFile(ctx, file.FileID)
	if err != nil {
		return nil, err
	}

	content, readErr := c.readDescriptor(ctx, fd, file.Size)

	// Close even when the read failed; the session stays usable only for
	// the error report before the batch aborts.
	if closeErr := c.closeFile(ctx, fd); closeErr != nil && readErr == nil {
		return nil, closeErr
	}
	if readErr != nil {
		return nil, readErr
	}

	c.logger.Debug("fetched remote file",
		logging.String(logging.FieldFilename, file.Name),
		logging.Int64("file_id", file.FileID),
		logging.Int("bytes", len(content)))
	return content, nil
}

// MoveFile moves a file into the destination folder under a new name using
// the renamefile endpoint.
func (c *Client) MoveFile(ctx context.Context, fileID, destFolderID int64, newName string) error {
	params := url.Values{}
	params.Set("fileid", strconv.FormatInt(fileID, 10))
	params.Set("tofolderid", strconv.FormatInt(destFolderID, 10))
	params.Set("toname", newName)

	var res renameResult
	return c.getJSON(ctx, "renamefile", params, &res)
}

// UploadFile uploads the local file at path into the destination folder
// under the provided name.
func (c *Client) UploadFile(ctx context.Context, name, path string, destFolderID int64) error {
	local, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open local file %s: %w", path, err)
	}
	defer local.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(name, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("create multipart field: %w", err)
	}
	if _, err := io.Copy(part, local); err != nil {
		return fmt.Errorf("read local file %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finish multipart body: %w", err)
	}

	params := url.Values{}
	params.Set("folderid", strconv.FormatInt(destFolderID, 10))
	if c.auth != "" {
		params.Set("auth", c.auth)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"uploadfile?"+params.Encode(), &body)
	if err != nil {
		return services.Wrap(services.ErrRemote, "pcloud", "uploadfile", "build request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrRemote, "pcloud", "uploadfile", "request failed", err)
	}
	defer resp.Body.Close()

	var res uploadResult
	if err := decodeEnvelope("uploadfile", resp, &res); err != nil {
		return err
	}
	if len(res.FileIDs) == 0 {
		return services.Wrap(services.ErrValidation, "pcloud", "uploadfile", "no file ids in response", nil)
	}
	return nil
}

func (c *Client) openFile(ctx context.Context, fileID int64) (int64, error) {
	params := url.Values{}
	params.Set("fileid", strconv.FormatInt(fileID, 10))
	params.Set("flags", "0")

	var res fileOpenResult
	if err := c.getJSON(ctx, "file_open", params, &res); err != nil {
		return 0, err
	}
	return res.FD, nil
}

// readDescriptor reads count bytes from an open descriptor. Unlike the JSON
// endpoints, file_read answers with the raw bytes on success.
func (c *Client) readDescriptor(ctx context.Context, fd, count int64) ([]byte, error) {
	params := url.Values{}
	params.Set("fd", strconv.FormatInt(fd, 10))
	params.Set("count", strconv.FormatInt(count, 10))
	if c.auth != "" {
		params.Set("auth", c.auth)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"file_read?"+params.Encode(), nil)
	if err != nil {
		return nil, services.Wrap(services.ErrRemote, "pcloud", "file_read", "build request", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrRemote, "pcloud", "file_read", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrRemote, "pcloud", "file_read",
			fmt.Sprintf("status %d (%s)", resp.StatusCode, http.StatusText(resp.StatusCode)), nil)
	}
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrRemote, "pcloud", "file_read", "read body", err)
	}
	return content, nil
}

func (c *Client) closeFile(ctx context.Context, fd int64) error {
	params := url.Values{}
	params.Set("fd", strconv.FormatInt(fd, 10))

	var res fileCloseResult
	return c.getJSON(ctx, "file_close", params, &res)
}

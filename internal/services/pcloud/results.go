package pcloud

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"arbor/internal/services"
)

// resultEnvelope is implemented by every typed endpoint result. The storage
// API reports failures inside a 200 response through a non-zero result code,
// so both the HTTP status and the envelope have to be checked.
type resultEnvelope interface {
	resultCode() int
	resultError() string
}

type envelope struct {
	Result int    `json:"result"`
	Error  string `json:"error"`
}

func (e envelope) resultCode() int     { return e.Result }
func (e envelope) resultError() string { return e.Error }

type userinfoResult struct {
	envelope
	Auth      string `json:"auth"`
	UsedQuota int64  `json:"usedquota"`
	Quota     int64  `json:"quota"`
}

// entry is the raw metadata record the listfolder endpoint returns per child.
type entry struct {
	Name     string `json:"name"`
	IsFolder bool   `json:"isfolder"`
	FolderID int64  `json:"folderid"`
	FileID   int64  `json:"fileid"`
	Size     int64  `json:"size"`
	Created  string `json:"created"`
}

type listfolderResult struct {
	envelope
	Metadata struct {
		FolderID int64   `json:"folderid"`
		Contents []entry `json:"contents"`
	} `json:"metadata"`
}

type fileOpenResult struct {
	envelope
	FD int64 `json:"fd"`
}

type fileCloseResult struct {
	envelope
}

type renameResult struct {
	envelope
	Metadata entry `json:"metadata"`
}

type uploadResult struct {
	envelope
	Metadata []entry `json:"metadata"`
	FileIDs  []int64 `json:"fileids"`
}

type logoutResult struct {
	envelope
	AuthDeleted bool `json:"auth_deleted"`
}

// Folder identifies a remote folder.
type Folder struct {
	FolderID int64
	Name     string
}

// File identifies a remote file together with the listing attributes the
// pipeline needs: the storage-reported size drives the exact read count and
// the creation time is the capture-time fallback.
type File struct {
	FileID  int64
	Name    string
	Size    int64
	Created time.Time
}

// Listing partitions a folder's children into subfolders and files, both
// keyed by name. Name uniqueness within a folder is a storage guarantee.
type Listing struct {
	FolderID   int64
	Subfolders map[string]Folder
	Files      map[string]File
}

// createdFormat is the timestamp layout the storage API reports, e.g.
// "Fri, 01 May 2020 10:00:00 +0000".
const createdFormat = time.RFC1123Z

func decodeEnvelope(method string, resp *http.Response, out resultEnvelope) error {
	if resp.StatusCode != http.StatusOK {
		return services.Wrap(services.ErrRemote, "pcloud", method,
			fmt.Sprintf("status %d (%s)", resp.StatusCode, http.StatusText(resp.StatusCode)), nil)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrValidation, "pcloud", method, "decode response", err)
	}
	if code := out.resultCode(); code != 0 {
		msg := out.resultError()
		if msg == "" {
			msg = "unknown remote error"
		}
		return services.Wrap(services.ErrRemote, "pcloud", method,
			fmt.Sprintf("result %d: %s", code, msg), nil)
	}
	return nil
}

func (e entry) toFolder() Folder {
	return Folder{FolderID: e.FolderID, Name: e.Name}
}

func (e entry) toFile() (File, error) {
	file := File{FileID: e.FileID, Name: e.Name, Size: e.Size}
	if e.Created != "" {
		created, err := time.Parse(createdFormat, e.Created)
		if err != nil {
			return file, fmt.Errorf("parse created %q: %w", e.Created, err)
		}
		file.Created = created
	}
	return file, nil
}

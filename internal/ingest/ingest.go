package ingest

import (
	"context"
	"sort"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"arbor/internal/config"
	"arbor/internal/content"
	"arbor/internal/logging"
	"arbor/internal/notifications"
	"arbor/internal/photo"
	"arbor/internal/services"
	"arbor/internal/services/pcloud"
)

// Storage is the remote storage surface the pipeline consumes. The pcloud
// client implements it; tests substitute a fake.
type Storage interface {
	ListFolder(ctx context.Context, folderID int64) (*pcloud.Listing, error)
	ListPath(ctx context.Context, path string) (*pcloud.Listing, error)
	ResolvePublicRoot(ctx context.Context, name string) (int64, error)
	ReadFile(ctx context.Context, file pcloud.File) ([]byte, error)
	MoveFile(ctx context.Context, fileID, destFolderID int64, newName string) error
	UploadFile(ctx context.Context, name, path string, destFolderID int64) error
}

// metadataFunc matches photo.ExtractMetadata, pulled out so tests can inject
// capture time and orientation without fabricating EXIF blocks.
type metadataFunc func(data []byte, loc *time.Location) (photo.Metadata, bool)

// Ingestor drives one import run: discover new pictures in the source
// folder, archive the originals under their canonical names, record them,
// and publish the derivatives.
type Ingestor struct {
	storage  Storage
	store    *content.Store
	cfg      *config.Config
	logger   *slog.Logger
	notifier notifications.Service
	metadata metadataFunc
}

// New builds an Ingestor. The logger may be nil.
func New(storage Storage, store *content.Store, cfg *config.Config, logger *slog.Logger) *Ingestor {
	return &Ingestor{
		storage:  storage,
		store:    store,
		cfg:      cfg,
		logger:   logging.WithComponent(logger, "ingest"),
		metadata: photo.ExtractMetadata,
	}
}

// SetNotifier attaches a notification service; without one, runs stay
// silent.
func (i *Ingestor) SetNotifier(notifier notifications.Service) {
	i.notifier = notifier
}

// folders holds the resolved remote folder ids for one run.
type folders struct {
	source   int64
	original int64
	medium   int64
	small    int64
}

// Run performs one import batch and returns the number of pictures
// processed. Any remote failure aborts the batch; pictures already archived
// before the failure keep their records, a later run picks up the rest.
func (i *Ingestor) Run(ctx context.Context) (int, error) {
	runID := uuid.NewString()[:8]
	logger := i.logger.With(logging.String(logging.FieldRunID, runID))
	started := time.Now()

	layout, sourceListing, err := i.resolveFolders(ctx)
	if err != nil {
		return 0, err
	}

	candidates := collectCandidates(sourceListing)
	logger.Info("scanned source folder",
		logging.String(logging.FieldFolder, i.cfg.Folders.Source),
		logging.Int("candidates", len(candidates)))
	if i.notifier != nil && len(candidates) > 0 {
		if err := i.notifier.NotifyIngestStarted(ctx, len(candidates)); err != nil {
			logger.Warn("start notification failed", logging.Error(err))
		}
	}

	processed := 0
	for _, file := range candidates {
		if err := ctx.Err(); err != nil {
			return processed, err
		}
		if err := i.process(ctx, logger, file, layout); err != nil {
			return processed, err
		}
		processed++
	}

	elapsed := time.Since(started).Round(time.Millisecond)
	logger.Info("import run finished",
		logging.Int("processed", processed),
		logging.Duration("elapsed", elapsed))
	if i.notifier != nil && processed > 0 {
		if err := i.notifier.NotifyIngestCompleted(ctx, processed, elapsed); err != nil {
			logger.Warn("completion notification failed", logging.Error(err))
		}
	}
	return processed, nil
}

// resolveFolders locates the working folders under the public root. The
// archival and derivative folders must exist; an empty source name means new
// pictures land in the public root itself.
func (i *Ingestor) resolveFolders(ctx context.Context) (folders, *pcloud.Listing, error) {
	rootID, err := i.storage.ResolvePublicRoot(ctx, i.cfg.Pcloud.PublicFolder)
	if err != nil {
		return folders{}, nil, err
	}

	rootListing, err := i.storage.ListFolder(ctx, rootID)
	if err != nil {
		return folders{}, nil, err
	}

	layout := folders{source: rootID}
	sourceListing := rootListing

	lookup := func(name string) (int64, error) {
		folder, ok := rootListing.Subfolders[name]
		if !ok {
			return 0, services.Wrap(services.ErrConfiguration, "ingest", "resolve folders", name, nil)
		}
		return folder.FolderID, nil
	}

	if layout.original, err = lookup(i.cfg.Folders.Original); err != nil {
		return folders{}, nil, err
	}
	if layout.medium, err = lookup(i.cfg.Folders.Medium); err != nil {
		return folders{}, nil, err
	}
	if layout.small, err = lookup(i.cfg.Folders.Small); err != nil {
		return folders{}, nil, err
	}

	if i.cfg.Folders.Source != "" {
		if layout.source, err = lookup(i.cfg.Folders.Source); err != nil {
			return folders{}, nil, err
		}
		if sourceListing, err = i.storage.ListFolder(ctx, layout.source); err != nil {
			return folders{}, nil, err
		}
	}

	return layout, sourceListing, nil
}

// collectCandidates filters a listing down to importable pictures, sorted by
// name so runs are deterministic.
func collectCandidates(listing *pcloud.Listing) []pcloud.File {
	var files []pcloud.File
	for name, file := range listing.Files {
		if !acceptedName(name) {
			continue
		}
		files = append(files, file)
	}
	sort.Slice(files, func(a, b int) bool { return files[a].Name < files[b].Name })
	return files
}

// acceptedName reports whether a remote filename is an importable picture.
// Only the two extensions cameras actually write are accepted; anything else
// in the source folder is left alone.
func acceptedName(name string) bool {
	const ext = 4
	if len(name) <= ext {
		return false
	}
	suffix := name[len(name)-ext:]
	return suffix == ".JPG" || suffix == ".jpg"
}

package ingest

import (
	"context"
	"image"
	"os"
	"path/filepath"

	"log/slog"

	"github.com/google/uuid"

	"arbor/internal/content"
	"arbor/internal/logging"
	"arbor/internal/naming"
	"arbor/internal/photo"
	"arbor/internal/services/pcloud"
)

// process imports a single picture: fetch, extract metadata, archive under
// the canonical name, record, and publish both derivatives. Missing metadata
// is recoverable and logged; any remote failure is returned and aborts the
// batch.
func (i *Ingestor) process(ctx context.Context, logger *slog.Logger, file pcloud.File, layout folders) error {
	logger = logger.With(logging.String(logging.FieldFilename, file.Name))

	data, err := i.storage.ReadFile(ctx, file)
	if err != nil {
		return err
	}
	if int64(len(data)) != file.Size {
		logger.Warn("fetched length differs from listing size",
			logging.Int("fetched", len(data)),
			logging.Int64("listed", file.Size))
	}

	img, err := photo.Decode(data)
	if err != nil {
		return err
	}

	loc := i.cfg.Location()
	meta, hasExif := i.metadata(data, loc)
	capture := meta.CaptureTime
	if !hasExif || !meta.HasCaptureTime {
		capture = file.Created.In(loc)
		logger.Info("no capture time in metadata, using storage creation time",
			logging.String("capture", capture.Format("2006-01-02 15:04:05")))
	}

	canonical := naming.CanonicalName(file.Name, capture)

	if err := i.storage.MoveFile(ctx, file.FileID, layout.original, canonical); err != nil {
		return err
	}

	nodeID, created, err := i.store.UpsertPhoto(ctx, content.UpsertParams{
		Filename:     canonical,
		OrigFilename: file.Name,
		Title:        naming.DisplayTitle(canonical),
		Created:      capture,
	})
	if err != nil {
		return err
	}
	logger = logger.With(logging.Int64(logging.FieldNodeID, nodeID))
	if !created {
		logger.Info("picture already recorded, refreshed existing record")
	}

	medium := photo.ToMedium(img)
	if hasExif && meta.HasOrientation {
		rotated, known := photo.Rotate(medium, meta.Orientation)
		if !known {
			logger.Warn("unexpected orientation value, derivative left unrotated",
				logging.Int("orientation", meta.Orientation))
		}
		medium = rotated
	} else {
		logger.Info("no orientation in metadata, derivative left unrotated")
	}

	if err := i.publish(ctx, canonical, medium, layout.medium); err != nil {
		return err
	}
	if err := i.publish(ctx, canonical, photo.ToSmall(medium), layout.small); err != nil {
		return err
	}

	logger.Info("imported picture", logging.String("canonical", canonical))
	return nil
}

// publish writes a derivative to scratch, uploads it under the canonical
// name, and removes the local copy.
func (i *Ingestor) publish(ctx context.Context, name string, img image.Image, destFolderID int64) error {
	scratch := filepath.Join(i.cfg.Paths.ScratchDir, uuid.NewString()+".jpg")
	if err := photo.Save(img, scratch); err != nil {
		return err
	}
	defer func() { _ = os.Remove(scratch) }()

	return i.storage.UploadFile(ctx, name, scratch, destFolderID)
}

package ingest

import (
	"context"

	"arbor/internal/logging"
	"arbor/internal/photo"
	"arbor/internal/services"
)

// Reprocess regenerates and republishes both derivatives for an already
// archived picture, reading the original back from the archival folder. Use
// it after a derivative was lost or the resize parameters changed.
func (i *Ingestor) Reprocess(ctx context.Context, nodeID int64) error {
	record, err := i.store.PhotoByNode(ctx, nodeID)
	if err != nil {
		return services.Wrap(services.ErrNotFound, "ingest", "reprocess", "no picture for node", err)
	}
	logger := i.logger.With(
		logging.Int64(logging.FieldNodeID, nodeID),
		logging.String(logging.FieldFilename, record.Filename))

	layout, _, err := i.resolveFolders(ctx)
	if err != nil {
		return err
	}

	listing, err := i.storage.ListFolder(ctx, layout.original)
	if err != nil {
		return err
	}
	file, ok := listing.Files[record.Filename]
	if !ok {
		return services.Wrap(services.ErrNotFound, "ingest", "reprocess", record.Filename, nil)
	}

	data, err := i.storage.ReadFile(ctx, file)
	if err != nil {
		return err
	}
	img, err := photo.Decode(data)
	if err != nil {
		return err
	}

	medium := photo.ToMedium(img)
	if meta, hasExif := i.metadata(data, i.cfg.Location()); hasExif && meta.HasOrientation {
		rotated, known := photo.Rotate(medium, meta.Orientation)
		if !known {
			logger.Warn("unexpected orientation value, derivative left unrotated",
				logging.Int("orientation", meta.Orientation))
		}
		medium = rotated
	} else {
		logger.Info("no orientation in metadata, derivative left unrotated")
	}

	if err := i.publish(ctx, record.Filename, medium, layout.medium); err != nil {
		return err
	}
	if err := i.publish(ctx, record.Filename, photo.ToSmall(medium), layout.small); err != nil {
		return err
	}

	logger.Info("regenerated derivatives")
	return nil
}

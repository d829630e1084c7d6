package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertParams describes one picture to record.
type UpsertParams struct {
	Filename     string
	OrigFilename string
	Title        string
	Created      time.Time
}

// UpsertPhoto records a picture, keyed on its canonical filename. The first
// call for a filename creates the node, content, and photo rows. Later calls
// with the same filename only refresh the capture time, the original name,
// and the fresh flag, so re-running an import never duplicates records.
// Returns the node id and whether a new record was created.
func (s *Store) UpsertPhoto(ctx context.Context, params UpsertParams) (int64, bool, error) {
	if params.Filename == "" {
		return 0, false, errors.New("filename is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("begin upsert tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	created := params.Created.Unix()

	var nodeID int64
	err = tx.QueryRowContext(ctx,
		"SELECT node_id FROM photo WHERE filename = ?", params.Filename,
	).Scan(&nodeID)
	switch {
	case err == nil:
		_, err = tx.ExecContext(ctx,
			"UPDATE photo SET created = ?, orig_filename = ?, fresh = 1 WHERE node_id = ?",
			created, nullableString(params.OrigFilename), nodeID)
		if err != nil {
			return 0, false, fmt.Errorf("refresh photo: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			"UPDATE node SET created = ? WHERE id = ?", created, nodeID)
		if err != nil {
			return 0, false, fmt.Errorf("align node created: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return 0, false, fmt.Errorf("commit upsert: %w", err)
		}
		return nodeID, false, nil

	case errors.Is(err, sql.ErrNoRows):
		now := time.Now().Unix()
		result, err := tx.ExecContext(ctx,
			"INSERT INTO node (parent_id, created, modified, revcnt, type) VALUES (-1, ?, ?, 1, ?)",
			created, now, NodeTypePhoto)
		if err != nil {
			return 0, false, fmt.Errorf("insert node: %w", err)
		}
		nodeID, err = result.LastInsertId()
		if err != nil {
			return 0, false, fmt.Errorf("node id: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO content (node_id, title, body) VALUES (?, ?, NULL)",
			nodeID, params.Title)
		if err != nil {
			return 0, false, fmt.Errorf("insert content: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO photo (node_id, filename, orig_filename, created, fresh) VALUES (?, ?, ?, ?, 1)",
			nodeID, params.Filename, nullableString(params.OrigFilename), created)
		if err != nil {
			return 0, false, fmt.Errorf("insert photo: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return 0, false, fmt.Errorf("commit upsert: %w", err)
		}
		return nodeID, true, nil

	default:
		return 0, false, fmt.Errorf("lookup photo: %w", err)
	}
}

// PhotoByFilename returns the record for a canonical filename, or
// sql.ErrNoRows wrapped when no such picture exists.
func (s *Store) PhotoByFilename(ctx context.Context, filename string) (*Photo, error) {
	return s.scanPhoto(s.db.QueryRowContext(ctx, photoSelect+" WHERE p.filename = ?", filename))
}

// PhotoByNode returns the record attached to a node.
func (s *Store) PhotoByNode(ctx context.Context, nodeID int64) (*Photo, error) {
	return s.scanPhoto(s.db.QueryRowContext(ctx, photoSelect+" WHERE p.node_id = ?", nodeID))
}

const photoSelect = `SELECT p.id, p.node_id, p.filename, COALESCE(p.orig_filename, ''), p.created, p.fresh, c.title
FROM photo p JOIN content c ON c.node_id = p.node_id`

func (s *Store) scanPhoto(row *sql.Row) (*Photo, error) {
	var photo Photo
	var created int64
	var fresh int
	err := row.Scan(&photo.ID, &photo.NodeID, &photo.Filename, &photo.OrigFilename, &created, &fresh, &photo.Title)
	if err != nil {
		return nil, err
	}
	photo.Created = time.Unix(created, 0)
	photo.Fresh = fresh == 1
	return &photo, nil
}

// ListPhotos returns the newest pictures first, at most limit rows. A limit
// of zero or less returns everything.
func (s *Store) ListPhotos(ctx context.Context, limit int) ([]*Photo, error) {
	query := photoSelect + " ORDER BY p.created DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var photos []*Photo
	for rows.Next() {
		var photo Photo
		var created int64
		var fresh int
		if err := rows.Scan(&photo.ID, &photo.NodeID, &photo.Filename, &photo.OrigFilename, &created, &fresh, &photo.Title); err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		photo.Created = time.Unix(created, 0)
		photo.Fresh = fresh == 1
		photos = append(photos, &photo)
	}
	return photos, rows.Err()
}

// FreshCount returns how many pictures still carry the fresh flag.
func (s *Store) FreshCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM photo WHERE fresh = 1").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count fresh photos: %w", err)
	}
	return count, nil
}

// OldestFresh returns the fresh picture with the oldest capture time, or nil
// when none remain fresh.
func (s *Store) OldestFresh(ctx context.Context) (*Photo, error) {
	photo, err := s.scanPhoto(s.db.QueryRowContext(ctx,
		photoSelect+" WHERE p.fresh = 1 ORDER BY p.created ASC LIMIT 1"))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("oldest fresh photo: %w", err)
	}
	return photo, nil
}

// ClearFresh drops the fresh flag for a node, typically after its page has
// been curated.
func (s *Store) ClearFresh(ctx context.Context, nodeID int64) error {
	_, err := s.db.ExecContext(ctx, "UPDATE photo SET fresh = 0 WHERE node_id = ?", nodeID)
	if err != nil {
		return fmt.Errorf("clear fresh flag: %w", err)
	}
	return nil
}

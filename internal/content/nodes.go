package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// AddNode creates a page node with content under the given parent. Pass -1
// as parentID for a top-level node.
func (s *Store) AddNode(ctx context.Context, parentID int64, title, body string) (int64, error) {
	if title == "" {
		return 0, errors.New("title is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin add tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().Unix()
	result, err := tx.ExecContext(ctx,
		"INSERT INTO node (parent_id, created, modified, revcnt, type) VALUES (?, ?, ?, 1, ?)",
		parentID, now, now, NodeTypePage)
	if err != nil {
		return 0, fmt.Errorf("insert node: %w", err)
	}
	nodeID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("node id: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO content (node_id, title, body) VALUES (?, ?, ?)",
		nodeID, title, nullableString(body))
	if err != nil {
		return 0, fmt.Errorf("insert content: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO history (node_id, timestamp) VALUES (?, ?)", nodeID, now)
	if err != nil {
		return 0, fmt.Errorf("record history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit add: %w", err)
	}
	return nodeID, nil
}

// EditNode replaces a node's title and body, bumps its revision counter, and
// drops any fresh flag its picture still carried.
func (s *Store) EditNode(ctx context.Context, nodeID int64, title, body string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin edit tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().Unix()
	result, err := tx.ExecContext(ctx,
		"UPDATE node SET modified = ?, revcnt = revcnt + 1 WHERE id = ?", now, nodeID)
	if err != nil {
		return fmt.Errorf("update node: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("node %d not found", nodeID)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE content SET title = ?, body = ? WHERE node_id = ?",
		title, nullableString(body), nodeID)
	if err != nil {
		return fmt.Errorf("update content: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		"UPDATE photo SET fresh = 0 WHERE node_id = ?", nodeID)
	if err != nil {
		return fmt.Errorf("clear fresh flag: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO history (node_id, timestamp) VALUES (?, ?)", nodeID, now)
	if err != nil {
		return fmt.Errorf("record history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit edit: %w", err)
	}
	return nil
}

// NodeByID loads a single node.
func (s *Store) NodeByID(ctx context.Context, nodeID int64) (*Node, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, parent_id, created, modified, revcnt, type FROM node WHERE id = ?", nodeID)
	return scanNode(row)
}

func scanNode(row *sql.Row) (*Node, error) {
	var node Node
	var created, modified int64
	err := row.Scan(&node.ID, &node.ParentID, &created, &modified, &node.RevCnt, &node.Type)
	if err != nil {
		return nil, err
	}
	node.Created = time.Unix(created, 0)
	node.Modified = time.Unix(modified, 0)
	return &node, nil
}

// Children lists a node's direct children, oldest first.
func (s *Store) Children(ctx context.Context, parentID int64) ([]NodeSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT n.id, n.parent_id, n.created, n.modified, n.revcnt, n.type, c.title
		 FROM node n JOIN content c ON c.node_id = n.id
		 WHERE n.parent_id = ? ORDER BY n.created ASC`, parentID)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return collectSummaries(rows)
}

func collectSummaries(rows *sql.Rows) ([]NodeSummary, error) {
	var summaries []NodeSummary
	for rows.Next() {
		var summary NodeSummary
		var created, modified int64
		err := rows.Scan(&summary.Node.ID, &summary.Node.ParentID, &created, &modified,
			&summary.Node.RevCnt, &summary.Node.Type, &summary.Title)
		if err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		summary.Node.Created = time.Unix(created, 0)
		summary.Node.Modified = time.Unix(modified, 0)
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// TreeNode is one node of the assembled site tree.
type TreeNode struct {
	NodeSummary
	Children []*TreeNode
}

// Tree assembles the whole site tree in one query. Top-level nodes come
// back as roots; within each level siblings are ordered oldest first.
func (s *Store) Tree(ctx context.Context) ([]*TreeNode, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT n.id, n.parent_id, n.created, n.modified, n.revcnt, n.type, c.title
		 FROM node n JOIN content c ON c.node_id = n.id
		 ORDER BY n.created ASC`)
	if err != nil {
		return nil, fmt.Errorf("load tree: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summaries, err := collectSummaries(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*TreeNode, len(summaries))
	for _, summary := range summaries {
		byID[summary.Node.ID] = &TreeNode{NodeSummary: summary}
	}
	var roots []*TreeNode
	for _, summary := range summaries {
		node := byID[summary.Node.ID]
		parent, ok := byID[summary.Node.ParentID]
		if !ok {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots, nil
}

// Breadcrumb walks parent links from a node up to the root and returns the
// trail root-first.
func (s *Store) Breadcrumb(ctx context.Context, nodeID int64) ([]Crumb, error) {
	var trail []Crumb
	current := nodeID
	for current != -1 {
		var parentID int64
		var title string
		err := s.db.QueryRowContext(ctx,
			`SELECT n.parent_id, c.title FROM node n
			 JOIN content c ON c.node_id = n.id WHERE n.id = ?`, current).Scan(&parentID, &title)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("node %d not found", current)
		}
		if err != nil {
			return nil, fmt.Errorf("load crumb: %w", err)
		}
		trail = append([]Crumb{{NodeID: current, Title: title}}, trail...)
		current = parentID
	}
	return trail, nil
}

// Archive counts nodes per calendar month, newest month first. The months
// are derived from node creation times in the given location.
func (s *Store) Archive(ctx context.Context, loc *time.Location) ([]ArchiveMonth, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT created FROM node ORDER BY created DESC")
	if err != nil {
		return nil, fmt.Errorf("load archive: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var months []ArchiveMonth
	for rows.Next() {
		var created int64
		if err := rows.Scan(&created); err != nil {
			return nil, fmt.Errorf("scan created: %w", err)
		}
		when := time.Unix(created, 0).In(loc)
		year, month := when.Year(), when.Month()
		if len(months) > 0 && months[len(months)-1].Year == year && months[len(months)-1].Month == month {
			months[len(months)-1].Count++
			continue
		}
		months = append(months, ArchiveMonth{Year: year, Month: month, Count: 1})
	}
	return months, rows.Err()
}

// NodesForMonth lists the nodes created in one calendar month, oldest first.
func (s *Store) NodesForMonth(ctx context.Context, year int, month time.Month, loc *time.Location) ([]NodeSummary, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)
	rows, err := s.db.QueryContext(ctx,
		`SELECT n.id, n.parent_id, n.created, n.modified, n.revcnt, n.type, c.title
		 FROM node n JOIN content c ON c.node_id = n.id
		 WHERE n.created >= ? AND n.created < ? ORDER BY n.created ASC`,
		start.Unix(), end.Unix())
	if err != nil {
		return nil, fmt.Errorf("list month: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return collectSummaries(rows)
}

// History returns the revision timestamps recorded for a node, oldest first.
func (s *Store) History(ctx context.Context, nodeID int64) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT timestamp FROM history WHERE node_id = ? ORDER BY timestamp ASC", nodeID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stamps []time.Time
	for rows.Next() {
		var stamp int64
		if err := rows.Scan(&stamp); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		stamps = append(stamps, time.Unix(stamp, 0))
	}
	return stamps, rows.Err()
}

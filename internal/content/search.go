package content

import (
	"context"
	"fmt"
	"strings"
)

// Search returns the nodes whose title or body contains every word of the
// query, newest first. A full-text index over titles and bodies is built on
// demand in the connection's temp schema, so it never has to be kept in sync
// with writes. An empty query matches nothing.
func (s *Store) Search(ctx context.Context, query string) ([]NodeSummary, error) {
	words := strings.Fields(query)
	if len(words) == 0 {
		return nil, nil
	}

	// The temp schema is per-connection, so the index and the query must
	// run on the same one.
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("search content: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if _, err := conn.ExecContext(ctx,
		`CREATE VIRTUAL TABLE temp.content_index USING fts5(node_id UNINDEXED, title, body)`); err != nil {
		return nil, fmt.Errorf("build search index: %w", err)
	}
	defer func() {
		_, _ = conn.ExecContext(context.WithoutCancel(ctx), `DROP TABLE temp.content_index`)
	}()

	if _, err := conn.ExecContext(ctx,
		`INSERT INTO temp.content_index (node_id, title, body)
		 SELECT node_id, title, COALESCE(body, '') FROM content`); err != nil {
		return nil, fmt.Errorf("build search index: %w", err)
	}

	rows, err := conn.QueryContext(ctx,
		`SELECT n.id, n.parent_id, n.created, n.modified, n.revcnt, n.type, c.title
		 FROM temp.content_index idx
		 JOIN node n ON n.id = idx.node_id
		 JOIN content c ON c.node_id = n.id
		 WHERE idx.content_index MATCH ?
		 ORDER BY n.created DESC`, matchExpression(words))
	if err != nil {
		return nil, fmt.Errorf("search content: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return collectSummaries(rows)
}

// matchExpression quotes each word so user input is treated as plain terms
// rather than full-text query syntax. Separate terms are implicitly AND-ed.
func matchExpression(words []string) string {
	quoted := make([]string, len(words))
	for i, word := range words {
		quoted[i] = `"` + strings.ReplaceAll(word, `"`, `""`) + `"`
	}
	return strings.Join(quoted, " ")
}

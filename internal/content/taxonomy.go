package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// AddVocabulary creates a vocabulary and returns its id. Names are unique.
func (s *Store) AddVocabulary(ctx context.Context, name, description string, weight int64) (int64, error) {
	if name == "" {
		return 0, errors.New("vocabulary name is required")
	}
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO vocabulary (name, description, weight) VALUES (?, ?, ?)",
		name, nullableString(description), weight)
	if err != nil {
		return 0, fmt.Errorf("insert vocabulary: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("vocabulary id: %w", err)
	}
	return id, nil
}

// AddTerm creates a term inside a vocabulary and returns its id.
func (s *Store) AddTerm(ctx context.Context, vocabularyID int64, name, description string) (int64, error) {
	if name == "" {
		return 0, errors.New("term name is required")
	}
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO term (vocabulary_id, name, description) VALUES (?, ?, ?)",
		vocabularyID, name, nullableString(description))
	if err != nil {
		return 0, fmt.Errorf("insert term: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("term id: %w", err)
	}
	return id, nil
}

// Vocabularies lists all vocabularies, heaviest weight first.
func (s *Store) Vocabularies(ctx context.Context) ([]Vocabulary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, COALESCE(description, ''), COALESCE(weight, 0)
		 FROM vocabulary ORDER BY weight DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list vocabularies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var vocabularies []Vocabulary
	for rows.Next() {
		var vocabulary Vocabulary
		err := rows.Scan(&vocabulary.ID, &vocabulary.Name, &vocabulary.Description, &vocabulary.Weight)
		if err != nil {
			return nil, fmt.Errorf("scan vocabulary: %w", err)
		}
		vocabularies = append(vocabularies, vocabulary)
	}
	return vocabularies, rows.Err()
}

// Terms lists the terms of a vocabulary by name.
func (s *Store) Terms(ctx context.Context, vocabularyID int64) ([]Term, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, vocabulary_id, name, COALESCE(description, '')
		 FROM term WHERE vocabulary_id = ? ORDER BY name ASC`, vocabularyID)
	if err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return collectTerms(rows)
}

// TermsForNode lists the terms currently attached to a node.
func (s *Store) TermsForNode(ctx context.Context, nodeID int64) ([]Term, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.vocabulary_id, t.name, COALESCE(t.description, '')
		 FROM term t JOIN taxonomy x ON x.term_id = t.id
		 WHERE x.node_id = ? ORDER BY t.name ASC`, nodeID)
	if err != nil {
		return nil, fmt.Errorf("list node terms: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return collectTerms(rows)
}

func collectTerms(rows *sql.Rows) ([]Term, error) {
	var terms []Term
	for rows.Next() {
		var term Term
		if err := rows.Scan(&term.ID, &term.VocabularyID, &term.Name, &term.Description); err != nil {
			return nil, fmt.Errorf("scan term: %w", err)
		}
		terms = append(terms, term)
	}
	return terms, rows.Err()
}

// UpdateTaxonomy reconciles a node's tags against the wanted term ids. Links
// not yet present are added, links no longer wanted are removed, and links
// already in place are left untouched so their timestamps survive.
func (s *Store) UpdateTaxonomy(ctx context.Context, nodeID int64, termIDs []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin taxonomy tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, "SELECT term_id FROM taxonomy WHERE node_id = ?", nodeID)
	if err != nil {
		return fmt.Errorf("load current terms: %w", err)
	}
	current := make(map[int64]bool)
	for rows.Next() {
		var termID int64
		if err := rows.Scan(&termID); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan term id: %w", err)
		}
		current[termID] = true
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return fmt.Errorf("iterate current terms: %w", err)
	}
	_ = rows.Close()

	wanted := make(map[int64]bool, len(termIDs))
	now := time.Now().Unix()
	for _, termID := range termIDs {
		wanted[termID] = true
		if current[termID] {
			continue
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO taxonomy (node_id, term_id, created) VALUES (?, ?, ?)",
			nodeID, termID, now)
		if err != nil {
			return fmt.Errorf("attach term %d: %w", termID, err)
		}
	}
	for termID := range current {
		if wanted[termID] {
			continue
		}
		_, err := tx.ExecContext(ctx,
			"DELETE FROM taxonomy WHERE node_id = ? AND term_id = ?", nodeID, termID)
		if err != nil {
			return fmt.Errorf("detach term %d: %w", termID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit taxonomy: %w", err)
	}
	return nil
}

// NodesForTerm lists the nodes tagged with a term, newest first.
func (s *Store) NodesForTerm(ctx context.Context, termID int64) ([]NodeSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT n.id, n.parent_id, n.created, n.modified, n.revcnt, n.type, c.title
		 FROM node n
		 JOIN content c ON c.node_id = n.id
		 JOIN taxonomy x ON x.node_id = n.id
		 WHERE x.term_id = ? ORDER BY n.created DESC`, termID)
	if err != nil {
		return nil, fmt.Errorf("list term nodes: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return collectSummaries(rows)
}

package content

import "time"

// NodeType distinguishes the kinds of content a node carries.
type NodeType string

const (
	NodeTypePage  NodeType = "page"
	NodeTypePhoto NodeType = "photo"
)

// Node is one entry in the site tree. ParentID is -1 for top-level nodes.
type Node struct {
	ID       int64
	ParentID int64
	Created  time.Time
	Modified time.Time
	RevCnt   int64
	Type     NodeType
}

// Content holds the title and optional body attached to a node.
type Content struct {
	ID     int64
	NodeID int64
	Title  string
	Body   string
}

// Photo is the record for one archived picture.
type Photo struct {
	ID           int64
	NodeID       int64
	Filename     string
	OrigFilename string
	Created      time.Time
	Fresh        bool
	Title        string
}

// Vocabulary groups terms, weight orders vocabularies in listings.
type Vocabulary struct {
	ID          int64
	Name        string
	Description string
	Weight      int64
}

// Term is a single tag inside a vocabulary.
type Term struct {
	ID           int64
	VocabularyID int64
	Name         string
	Description  string
}

// Crumb is one step of a breadcrumb trail from the root to a node.
type Crumb struct {
	NodeID int64
	Title  string
}

// ArchiveMonth counts the nodes created in one calendar month.
type ArchiveMonth struct {
	Year  int
	Month time.Month
	Count int
}

// NodeSummary pairs a node with its title for listings.
type NodeSummary struct {
	Node  Node
	Title string
}

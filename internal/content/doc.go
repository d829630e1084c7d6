// Package content persists the site tree, picture records, taxonomy, and
// revision history in SQLite.
//
// The Store manages database connections, schema initialization, and the
// node lifecycle. Nodes form an adjacency-list tree and always carry a
// content row with a title; picture nodes additionally carry a photo row
// keyed on the canonical filename. The unique filename makes UpsertPhoto
// safe to repeat: the second call refreshes timestamps and the fresh flag
// instead of creating a duplicate.
//
// Schema changes bump the version in schema.go; databases at another version
// refuse to open rather than guess at a migration.
package content

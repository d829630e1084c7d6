// Package preflight provides readiness checks for the remote storage account
// and local filesystem paths that the import pipeline depends on.
//
// These checks run in two contexts:
//   - The ingest command calls RunAll before touching the remote account.
//     If any check fails, the run is refused before any file moves.
//   - The CLI "arbor status" command uses the individual check functions to
//     display local and remote health.
package preflight

// Package ingest drives the picture import pipeline.
//
// One run discovers new JPEGs in the remote source folder, fetches each,
// extracts capture time and orientation, moves the original into the
// archival folder under a canonical timestamped name, records it in the
// content store, and publishes a medium and a small derivative. The move
// happens before the record and the derivatives, so a picture is never
// importable twice under a different name.
//
// Remote failures abort the batch immediately; pictures archived before the
// failure keep their records and the next run resumes with the rest.
// Missing metadata never aborts: the storage creation time stands in for
// the capture time and rotation is skipped when no orientation is present.
package ingest

// Package pcloud is a thin session-scoped client for the pCloud file API.
//
// The API is a set of GET/POST endpoints returning JSON envelopes with a
// numeric result code (0 means success) next to the HTTP status. Each
// endpoint gets a typed result struct so malformed responses fail during
// decoding instead of at a later field lookup. The client performs no
// retries: the ingest pipeline treats any remote failure as fatal for the
// whole batch.
package pcloud

// Package ingestion wires message intake end to end: validation,
// deduplication through the gate, keyword derivation, durable storage
// with retried writes, and asynchronous contextual embedding on a
// worker pool.
//
// Ingest is synchronous up to the store write, so a nil error means the
// message is durable. Embedding runs afterwards in the background; a
// message whose embedding has not landed yet is still found by keyword
// and recency.
package ingestion

// Package reembed regenerates stored message embeddings in bulk.
//
// Messages are rendered through the contextualizer before embedding, so
// a reembedding run produces the same contextual vectors ingestion
// would. The package supports batch processing, progress tracking, and
// retry with exponential backoff for embedding API calls.
package reembed

package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns ErrEmptyEmbeddingInput if text is empty or whitespace-only.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// EntityRecognizer extracts named entities from text.
// Implementations must be thread-safe for concurrent use.
type EntityRecognizer interface {
	// RecognizeEntities analyzes text and returns the named entities it
	// mentions: people, organizations, and places.
	// Returns an empty slice if no entities are found.
	// Returns an error if recognition fails.
	RecognizeEntities(ctx context.Context, text string) ([]RecognizedEntity, error)
}

// RecognizedEntity is a named entity identified in text.
type RecognizedEntity struct {
	// Name is the entity as it appeared, lowercased.
	// Example: "acme corp", "alice", "berlin"
	Name string

	// Type categorizes the entity. Must match one of EntityTypes.
	Type string
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder and EntityRecognizer
// instances, ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// EntityRecognizer returns the named-entity recognition service.
	// The returned EntityRecognizer is safe for concurrent use.
	EntityRecognizer() EntityRecognizer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}

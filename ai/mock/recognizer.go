package mock

import (
	"context"
	"strings"

	"github.com/poiesic/chatsift/ai"
)

// MockEntityRecognizer is a test double for ai.EntityRecognizer.
// It allows custom behavior injection via function fields.
type MockEntityRecognizer struct {
	// RecognizeEntitiesFunc is called by RecognizeEntities if set.
	// If nil, uses default heuristic extraction.
	RecognizeEntitiesFunc func(ctx context.Context, text string) ([]ai.RecognizedEntity, error)

	callCount int
}

// NewMockEntityRecognizer creates a mock recognizer with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockRecognizer().
func NewMockEntityRecognizer() *MockEntityRecognizer {
	return &MockEntityRecognizer{}
}

// RecognizeEntities extracts mock entities from text.
// Default behavior: capitalized words in the input become person entities.
// This is intentionally naive; tests needing specific entities should
// inject RecognizeEntitiesFunc.
func (m *MockEntityRecognizer) RecognizeEntities(ctx context.Context, text string) ([]ai.RecognizedEntity, error) {
	m.callCount++

	if m.RecognizeEntitiesFunc != nil {
		return m.RecognizeEntitiesFunc(ctx, text)
	}

	words := strings.Fields(text)
	entities := make([]ai.RecognizedEntity, 0, 4)
	seen := make(map[string]bool)
	for i, word := range words {
		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if word == "" {
			continue
		}
		// Skip sentence-initial words; capitalization there is not a signal.
		first := word[0]
		if i == 0 || first < 'A' || first > 'Z' {
			continue
		}
		name := strings.ToLower(word)
		if seen[name] {
			continue
		}
		seen[name] = true
		entities = append(entities, ai.RecognizedEntity{
			Name: name,
			Type: "person",
		})
		if len(entities) >= 4 {
			break
		}
	}

	return entities, nil
}

// CallCount returns the number of times RecognizeEntities was called.
func (m *MockEntityRecognizer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockEntityRecognizer) Reset() {
	m.callCount = 0
	m.RecognizeEntitiesFunc = nil
}

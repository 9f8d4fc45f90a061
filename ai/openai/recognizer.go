// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/poiesic/chatsift/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// EntityRecognizer implements ai.EntityRecognizer using OpenAI-compatible chat APIs.
type EntityRecognizer struct {
	client llms.Model
	logger *slog.Logger
}

// entity is an internal type used for JSON unmarshaling.
// It matches the structure expected by the LLM.
type entity struct {
	Entity string `json:"entity"`
	Type   string `json:"type"`
}

// recognition is the wrapper structure for the LLM's JSON response.
type recognition struct {
	Entities []entity `json:"entities"`
}

// newEntityRecognizer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEntityRecognizer(config *ai.Config) (*EntityRecognizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat/recognition
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.RecognizerHost),
		openai.WithToken("none"),
		openai.WithModel(config.RecognizerModel),
	)
	if err != nil {
		return nil, err
	}

	return &EntityRecognizer{
		client: client,
		logger: slog.Default().With("component", "openai-recognizer"),
	}, nil
}

// NewEntityRecognizer creates a new entity recognizer using the provided configuration.
//
// Returns ai.EntityRecognizer interface to enforce abstraction.
func NewEntityRecognizer(config *ai.Config) (ai.EntityRecognizer, error) {
	return newEntityRecognizer(config)
}

// RecognizeEntities extracts named entities from text using an LLM.
// Entities with types outside ai.EntityTypes are dropped.
func (r *EntityRecognizer) RecognizeEntities(ctx context.Context, text string) ([]ai.RecognizedEntity, error) {
	text = scrubString(text)
	if text == "" {
		return []ai.RecognizedEntity{}, nil
	}

	systemPrompt := buildRecognitionPrompt()
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result recognition
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := r.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			r.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			r.logger.Debug("no choices returned from model")
			return []ai.RecognizedEntity{}, nil
		}

		choice := response.Choices[0]

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(choice.Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			r.logger.Warn("error parsing recognizer response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		// Success
		lastErr = nil
		break
	}

	if lastErr != nil {
		r.logger.Error("failed to parse recognizer response after retries", "err", lastErr)
		return nil, lastErr
	}

	recognized := make([]ai.RecognizedEntity, 0, len(result.Entities))
	for _, e := range result.Entities {
		name := strings.ToLower(strings.TrimSpace(e.Entity))
		entityType := strings.ToLower(strings.TrimSpace(e.Type))
		if name == "" || !ai.IsValidEntityType(entityType) {
			continue
		}
		recognized = append(recognized, ai.RecognizedEntity{
			Name: name,
			Type: entityType,
		})
	}

	r.logger.Debug("recognized entities",
		"total", len(result.Entities),
		"kept", len(recognized))

	return recognized, nil
}

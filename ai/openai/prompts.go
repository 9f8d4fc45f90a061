package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/chatsift/ai"
)

const recognitionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "entities": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "entity": {
            "type": "string",
            "pattern": "^[a-z0-9]+( [a-z0-9]+)*$"
          },
          "type": {
            "type": "string"
          }
        },
        "required": ["entity", "type"],
        "additionalProperties": false
      }
    }
  },
  "required": ["entities"],
  "additionalProperties": false
}`

const recognitionPromptTemplate = `Extract the named entities from the given text and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Entity names must be lowercase, exactly as mentioned in the text.
- Type field must match exactly one of the listed values: %s.
- Include only entities that are explicitly mentioned in the text. Do not hallucinate.
- If no entities can be identified, return "entities": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.



Example (formal):
Input: "What did Alice from Acme Corp say about the Berlin office?"
Output:
{
  "entities": [
    {"entity":"alice","type":"person"},
    {"entity":"acme corp","type":"organization"},
    {"entity":"berlin","type":"place"}
  ]
}

---  // informal / chat-style examples

Example (missing capitalization, no punctuation):
Input: "did bob mention the tokyo launch"
Output:
{
  "entities": [
    {"entity":"bob","type":"person"},
    {"entity":"tokyo","type":"place"}
  ]
}

Example (no entities):
Input: "show me messages about deployment failures"
Output:
{
  "entities": []
}`

// buildRecognitionPrompt creates the system prompt with entity types embedded.
func buildRecognitionPrompt() string {
	return fmt.Sprintf(recognitionPromptTemplate,
		recognitionResponseSchema,
		strings.Join(ai.EntityTypes, ", "))
}

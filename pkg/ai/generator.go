// Package ai provides the text-generation clients used to produce resume
// feedback. Two backends are supported: an OpenAI-style completions endpoint
// and the Gemini API.
package ai

import (
	"context"
	"fmt"
)

// Generator produces a single free-text completion for a prompt. An empty
// result with a nil error means the model returned nothing usable; callers
// treat that as an absent result, not a failure.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// FeedbackPrompt builds the fixed instruction for reviewing the document at
// the given reference.
func FeedbackPrompt(documentRef string) string {
	return fmt.Sprintf("Analyze the resume at the following URL: %s. Provide detailed, constructive feedback to help the job seeker improve their resume.", documentRef)
}

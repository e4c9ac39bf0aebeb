package usecase

import (
	"context"
	"strings"
	"sync"

	"resume-analyzer/internal/domain"
	"resume-analyzer/pkg/ai"

	"go.uber.org/zap"
)

// FeedbackState is a snapshot of the feedback orchestrator's attempt record.
type FeedbackState struct {
	Feedback string
	InFlight bool
	Err      error
}

// FeedbackOrchestrator requests AI feedback for a stored document through
// the injected generator. Each call returns a single result; the attempt
// state mirrors it for observers.
type FeedbackOrchestrator struct {
	generator ai.Generator
	logger    *zap.Logger

	mu       sync.Mutex
	inFlight bool
	token    uint64
	feedback string
	err      error
}

func NewFeedbackOrchestrator(generator ai.Generator, logger *zap.Logger) *FeedbackOrchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackOrchestrator{generator: generator, logger: logger}
}

// Fetch requests feedback for the document reference. The reference must be
// non-empty. The first completion is trimmed; an empty completion is an
// absent result, not an error. Only one generation call may be in flight at
// a time.
func (o *FeedbackOrchestrator) Fetch(ctx context.Context, documentRef string) (string, error) {
	if strings.TrimSpace(documentRef) == "" {
		return "", &domain.StateError{Op: "feedback", Reason: "no document to review"}
	}

	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return "", &domain.StateError{Op: "feedback", Reason: "a generation call is already in flight"}
	}
	o.inFlight = true
	o.feedback = ""
	o.err = nil
	o.token++
	token := o.token
	o.mu.Unlock()

	text, err := o.generator.Generate(ctx, ai.FeedbackPrompt(documentRef))
	text = strings.TrimSpace(text)

	o.mu.Lock()
	defer o.mu.Unlock()
	if token != o.token {
		return "", &domain.StateError{Op: "feedback", Reason: "attempt superseded"}
	}
	o.inFlight = false
	if err != nil {
		o.err = err
		o.logger.Warn("feedback generation failed", zap.String("document_ref", documentRef), zap.Error(err))
		return "", err
	}
	o.feedback = text
	if text == "" {
		o.logger.Info("feedback generation returned no content", zap.String("document_ref", documentRef))
	}
	return text, nil
}

// State returns a snapshot of the current attempt record.
func (o *FeedbackOrchestrator) State() FeedbackState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return FeedbackState{Feedback: o.feedback, InFlight: o.inFlight, Err: o.err}
}

// Reset discards the attempt record, superseding any call still in flight.
func (o *FeedbackOrchestrator) Reset() {
	o.mu.Lock()
	o.token++
	o.inFlight = false
	o.feedback = ""
	o.err = nil
	o.mu.Unlock()
}

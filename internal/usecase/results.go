package usecase

import (
	"context"

	"resume-analyzer/internal/domain"

	"go.uber.org/zap"
)

// ReviewResult pairs the stored document reference with its feedback, ready
// to be rendered side by side.
type ReviewResult struct {
	DocumentRef string
	Feedback    string
}

// ResultsFlow is the results view: it re-reads the session's document
// reference and requests feedback for it once.
type ResultsFlow struct {
	session  *Session
	feedback *FeedbackOrchestrator
	logger   *zap.Logger
}

func NewResultsFlow(session *Session, feedback *FeedbackOrchestrator, logger *zap.Logger) *ResultsFlow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultsFlow{session: session, feedback: feedback, logger: logger}
}

// Run produces the review result for the current session. With no document
// reference present it fails immediately, before any generation call.
func (r *ResultsFlow) Run(ctx context.Context) (ReviewResult, error) {
	ref, ok := r.session.DocumentRef()
	if !ok {
		return ReviewResult{}, &domain.StateError{Op: "results", Reason: "no document to review"}
	}

	text, err := r.feedback.Fetch(ctx, ref)
	if err != nil {
		return ReviewResult{}, err
	}

	return ReviewResult{DocumentRef: ref, Feedback: text}, nil
}

// ReviewAgain discards the current session and returns the review flow to
// its initial state.
func (r *ResultsFlow) ReviewAgain(seq *Sequencer) {
	r.session.Clear()
	r.feedback.Reset()
	if seq != nil {
		seq.Reset()
	}
	r.logger.Info("review session cleared")
}

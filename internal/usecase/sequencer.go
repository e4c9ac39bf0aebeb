package usecase

import (
	"context"
	"sync"

	"resume-analyzer/internal/domain"

	"go.uber.org/zap"
)

// FlowState is a state of the review sequencer.
type FlowState int

const (
	Idle FlowState = iota
	Uploading
	Uploaded
	PayingForReview
	Paid
	GeneratingFeedback
	Done
	Errored
)

func (s FlowState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Uploading:
		return "uploading"
	case Uploaded:
		return "uploaded"
	case PayingForReview:
		return "paying_for_review"
	case Paid:
		return "paid"
	case GeneratingFeedback:
		return "generating_feedback"
	case Done:
		return "done"
	case Errored:
		return "errored"
	}
	return "unknown"
}

// Sequencer chains the upload, payment and feedback orchestrators into the
// linear review flow. Errored is never terminal: the user retries the failed
// step by re-triggering the action, re-entering the state that precedes it.
// There is no automatic retry or backoff anywhere in the flow.
type Sequencer struct {
	upload   *UploadOrchestrator
	payment  *PaymentOrchestrator
	feedback *FeedbackOrchestrator
	session  *Session
	logger   *zap.Logger

	userID string
	amount int64

	mu        sync.Mutex
	state     FlowState
	retryFrom FlowState
	intent    domain.PaymentIntent
	result    string
}

func NewSequencer(upload *UploadOrchestrator, payment *PaymentOrchestrator, feedback *FeedbackOrchestrator, session *Session, userID string, amount int64, logger *zap.Logger) *Sequencer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sequencer{
		upload:   upload,
		payment:  payment,
		feedback: feedback,
		session:  session,
		logger:   logger,
		userID:   userID,
		amount:   amount,
		state:    Idle,
	}
}

// State returns the current flow state.
func (s *Sequencer) State() FlowState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Feedback returns the generated feedback once the flow is Done.
func (s *Sequencer) Feedback() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// SelectFile starts (or retries) the upload step. On success the document
// reference is written into the session for the results flow to read.
func (s *Sequencer) SelectFile(ctx context.Context, file domain.FileSelection) error {
	if err := s.enter(Idle, Uploading); err != nil {
		return err
	}

	url, err := s.upload.Upload(ctx, file)
	if err != nil {
		s.fail(Uploading, err)
		return err
	}

	s.session.SetDocumentRef(url)
	s.succeed(Uploaded)
	return nil
}

// Pay creates a payment intent for the configured amount and confirms it
// with the given payment method. The intent id used for confirmation is the
// one just returned by the creation call.
func (s *Sequencer) Pay(ctx context.Context, paymentMethodID string) error {
	if err := s.enter(Uploaded, PayingForReview); err != nil {
		return err
	}

	intent, err := s.payment.CreateIntent(ctx, s.userID, s.amount)
	if err != nil {
		s.fail(PayingForReview, err)
		return err
	}

	if err := s.payment.Confirm(ctx, s.userID, intent.ID, paymentMethodID); err != nil {
		s.fail(PayingForReview, err)
		return err
	}

	s.mu.Lock()
	s.intent = intent
	s.mu.Unlock()
	s.succeed(Paid)
	return nil
}

// GenerateFeedback requests the review for the uploaded document and
// finishes the flow.
func (s *Sequencer) GenerateFeedback(ctx context.Context) (string, error) {
	if err := s.enter(Paid, GeneratingFeedback); err != nil {
		return "", err
	}

	ref, ok := s.session.DocumentRef()
	if !ok {
		err := &domain.StateError{Op: "generate feedback", Reason: "no document to review"}
		s.fail(GeneratingFeedback, err)
		return "", err
	}

	text, err := s.feedback.Fetch(ctx, ref)
	if err != nil {
		s.fail(GeneratingFeedback, err)
		return "", err
	}

	s.mu.Lock()
	s.result = text
	s.mu.Unlock()
	s.succeed(Done)
	return text, nil
}

// Reset returns the flow to Idle, discarding the session reference and any
// in-flight orchestrator attempts.
func (s *Sequencer) Reset() {
	s.mu.Lock()
	s.state = Idle
	s.retryFrom = Idle
	s.intent = domain.PaymentIntent{}
	s.result = ""
	s.mu.Unlock()

	s.session.Clear()
	s.upload.Reset()
	s.feedback.Reset()
}

// enter moves into the in-flight state when triggered from the expected
// predecessor, or from Errored when retrying that same step. An illegal
// trigger is a StateError and leaves the state unchanged.
func (s *Sequencer) enter(from, inFlight FlowState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	allowed := s.state == from || (s.state == Errored && s.retryFrom == inFlight)
	if !allowed {
		return &domain.StateError{
			Op:     inFlight.String(),
			Reason: "not allowed from state " + s.state.String(),
		}
	}
	s.state = inFlight
	return nil
}

func (s *Sequencer) succeed(next FlowState) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
	s.logger.Debug("review flow advanced", zap.Stringer("state", next))
}

func (s *Sequencer) fail(step FlowState, err error) {
	s.mu.Lock()
	s.state = Errored
	s.retryFrom = step
	s.mu.Unlock()
	s.logger.Warn("review flow errored", zap.Stringer("step", step), zap.Error(err))
}

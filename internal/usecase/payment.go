package usecase

import (
	"context"
	"sync"
	"time"

	"resume-analyzer/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentGateway is the payment provider handle. It may initialize
// asynchronously; Ready reports whether it can serve calls yet.
type PaymentGateway interface {
	Ready() bool
	CreateIntent(ctx context.Context, userID string, amount int64) (domain.PaymentIntent, error)
	Confirm(ctx context.Context, intentID, paymentMethodID string) error
}

// PaymentHistory stores and lists past payment records.
type PaymentHistory interface {
	Append(ctx context.Context, rec domain.PaymentRecord) error
	List(ctx context.Context, userID string) ([]domain.PaymentRecord, error)
}

// PaymentOrchestrator coordinates intent creation, confirmation and history
// recording. A confirmation counts as complete only once the history record
// is durably appended.
type PaymentOrchestrator struct {
	gateway PaymentGateway
	history PaymentHistory
	logger  *zap.Logger

	mu      sync.Mutex
	amounts map[string]int64
}

func NewPaymentOrchestrator(gateway PaymentGateway, history PaymentHistory, logger *zap.Logger) *PaymentOrchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentOrchestrator{
		gateway: gateway,
		history: history,
		logger:  logger,
		amounts: make(map[string]int64),
	}
}

// CreateIntent creates a payment intent for the given user and amount
// (smallest currency unit). Fails fast when the gateway has not finished
// initializing.
func (p *PaymentOrchestrator) CreateIntent(ctx context.Context, userID string, amount int64) (domain.PaymentIntent, error) {
	if amount <= 0 {
		return domain.PaymentIntent{}, &domain.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if !p.gateway.Ready() {
		return domain.PaymentIntent{}, &domain.StateError{Op: "create payment intent", Reason: "payment gateway not initialized"}
	}

	intent, err := p.gateway.CreateIntent(ctx, userID, amount)
	if err != nil {
		return domain.PaymentIntent{}, err
	}

	p.mu.Lock()
	p.amounts[intent.ID] = amount
	p.mu.Unlock()

	p.logger.Info("payment intent created",
		zap.String("payment_intent_id", intent.ID),
		zap.Int64("amount", amount),
	)
	return intent, nil
}

// Confirm confirms the intent with the provider and appends the outcome to
// the user's history. Only intents created through CreateIntent can be
// confirmed; an unknown id is rejected before the provider is called. When
// the provider confirms but the append fails, the charge may exist without
// a record; that case is returned as a distinct PaymentUnrecordedError and
// logged at error level, never swallowed.
func (p *PaymentOrchestrator) Confirm(ctx context.Context, userID, intentID, paymentMethodID string) error {
	if !p.gateway.Ready() {
		return &domain.StateError{Op: "confirm payment", Reason: "payment gateway not initialized"}
	}
	if intentID == "" {
		return &domain.StateError{Op: "confirm payment", Reason: "no payment intent to confirm"}
	}

	p.mu.Lock()
	amount, known := p.amounts[intentID]
	p.mu.Unlock()
	if !known {
		return &domain.StateError{Op: "confirm payment", Reason: "unknown payment intent"}
	}

	if err := p.gateway.Confirm(ctx, intentID, paymentMethodID); err != nil {
		return err
	}

	rec := domain.PaymentRecord{
		ID:        uuid.New(),
		UserID:    userID,
		IntentID:  intentID,
		Amount:    amount,
		Status:    domain.PaymentSucceeded,
		CreatedAt: time.Now().UTC(),
	}

	if err := p.history.Append(ctx, rec); err != nil {
		p.logger.Error("payment confirmed but history append failed; charge may be unrecorded",
			zap.String("payment_intent_id", intentID),
			zap.String("user_id", userID),
			zap.Int64("amount", amount),
			zap.Error(err),
		)
		return &domain.PaymentUnrecordedError{IntentID: intentID, Err: err}
	}

	p.logger.Info("payment confirmed",
		zap.String("payment_intent_id", intentID),
		zap.String("user_id", userID),
	)
	return nil
}

// History returns the user's past payment records.
func (p *PaymentOrchestrator) History(ctx context.Context, userID string) ([]domain.PaymentRecord, error) {
	return p.history.List(ctx, userID)
}

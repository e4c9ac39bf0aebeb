package payment

import (
	"context"
	"errors"
	"sync/atomic"

	"resume-analyzer/internal/domain"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"go.uber.org/zap"
)

// StripeGateway wraps the Stripe SDK. The SDK client is initialized in the
// background; Ready reports whether the key has been loaded and the client
// built. Calls before that fail fast in the orchestrator instead of
// panicking inside the SDK.
type StripeGateway struct {
	logger *zap.Logger

	ready atomic.Bool
	sc    *client.API
}

// NewStripeGateway builds the gateway and starts loading the API key. The
// loader runs once; a load failure leaves the gateway permanently not ready
// and is logged.
func NewStripeGateway(loadKey func() (string, error), logger *zap.Logger) *StripeGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &StripeGateway{logger: logger}

	go func() {
		key, err := loadKey()
		if err != nil {
			g.logger.Error("stripe key load failed; payments disabled", zap.Error(err))
			return
		}
		sc := &client.API{}
		sc.Init(key, nil)
		g.sc = sc
		g.ready.Store(true)
		g.logger.Info("stripe client initialized")
	}()

	return g
}

func (g *StripeGateway) Ready() bool {
	return g.ready.Load()
}

func (g *StripeGateway) CreateIntent(ctx context.Context, userID string, amount int64) (domain.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
	}
	params.AddMetadata("user_id", userID)

	pi, err := g.sc.PaymentIntents.New(params)
	if err != nil {
		return domain.PaymentIntent{}, wrapStripeErr(err)
	}

	return domain.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       amount,
	}, nil
}

func (g *StripeGateway) Confirm(ctx context.Context, intentID, paymentMethodID string) error {
	params := &stripe.PaymentIntentConfirmParams{
		Params:        stripe.Params{Context: ctx},
		PaymentMethod: stripe.String(paymentMethodID),
	}

	pi, err := g.sc.PaymentIntents.Confirm(intentID, params)
	if err != nil {
		return wrapStripeErr(err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return &domain.ExternalServiceError{
			Service: "stripe",
			Message: "payment not completed: " + string(pi.Status),
		}
	}
	return nil
}

func wrapStripeErr(err error) error {
	var serr *stripe.Error
	if errors.As(err, &serr) {
		return &domain.ExternalServiceError{
			Service: "stripe",
			Status:  serr.HTTPStatusCode,
			Message: serr.Msg,
		}
	}
	return &domain.NetworkError{Op: "stripe request", Err: err}
}

package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"      // Logging library
	"github.com/stripe/stripe-go/v76" // Stripe SDK types
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// MinimumAmount is the smallest chargeable amount in minor units. Stripe
// refuses anything below its per-currency floor; 50 mirrors the usd floor
// and is enforced here before any network call.
const MinimumAmount = 50

// CreateIntentInput carries the information required to open a payment
// intent with the processor.
type CreateIntentInput struct {
	Amount      int64             // Amount in minor units
	Currency    string            // Currency code, lowercased before submission
	Description string            // Passthrough description
	Metadata    map[string]string // Passthrough metadata
}

// IntentResult is the processor's answer to a successful intent creation.
type IntentResult struct {
	IntentID     string // Processor-issued payment intent id
	ClientSecret string // Client-side completion token
}

// WebhookEvent is a verified processor notification, normalized down to the
// two fields reconciliation needs.
type WebhookEvent struct {
	Type     string // Processor event type, e.g. payment_intent.succeeded
	IntentID string // Payment intent id the event refers to
}

// Gateway isolates all interaction with the external payment processor.
type Gateway interface {
	CreateIntent(ctx context.Context, in CreateIntentInput) (*IntentResult, error)
	VerifyWebhook(payload []byte, sigHeader string) (*WebhookEvent, error)
}

// StripeGateway adapts the Stripe SDK to the Gateway interface. A gateway
// built without a secret key is a valid value whose operations fail with
// ErrGatewayUnavailable, so missing credentials degrade endpoints instead
// of crashing the process.
type StripeGateway struct {
	api           *client.API // nil when no secret key was configured
	webhookSecret string
}

// NewStripeGateway builds a gateway from the processor credentials. Either
// credential may be empty; the corresponding operation then reports
// ErrGatewayUnavailable.
func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	g := &StripeGateway{webhookSecret: webhookSecret}
	if secretKey == "" {
		logrus.Warn("STRIPE_SECRET_KEY is not configured, payment features will not work")
		return g
	}
	g.api = client.New(secretKey, nil)
	return g
}

// CreateIntent opens a payment intent with Stripe. Amounts below
// MinimumAmount are rejected locally, mirroring the processor floor.
func (g *StripeGateway) CreateIntent(ctx context.Context, in CreateIntentInput) (*IntentResult, error) {
	if g.api == nil {
		return nil, fmt.Errorf("%w: STRIPE_SECRET_KEY is not set", ErrGatewayUnavailable)
	}
	if in.Amount < MinimumAmount {
		return nil, fmt.Errorf("%w: amount %d is below the minimum of %d minor units", ErrGatewayRejected, in.Amount, MinimumAmount)
	}
	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(in.Amount),
		Currency: stripe.String(strings.ToLower(in.Currency)),
	}
	if in.Description != "" {
		params.Description = stripe.String(in.Description)
	}
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}
	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) {
			// The processor answered and declined the request
			return nil, fmt.Errorf("%w: %s", ErrGatewayRejected, se.Msg)
		}
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	return &IntentResult{IntentID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// VerifyWebhook checks the processor signature over the exact raw payload
// bytes and extracts the event type and payment intent id. The payload must
// be the unparsed request body: any re-serialization invalidates the
// signature.
func (g *StripeGateway) VerifyWebhook(payload []byte, sigHeader string) (*WebhookEvent, error) {
	if g.webhookSecret == "" {
		return nil, fmt.Errorf("%w: STRIPE_WEBHOOK_SECRET is not set", ErrGatewayUnavailable)
	}
	event, err := webhook.ConstructEvent(payload, sigHeader, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("failed to decode webhook event object: %w", err)
	}
	return &WebhookEvent{Type: string(event.Type), IntentID: pi.ID}, nil
}

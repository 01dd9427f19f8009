package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus" // Logging library

	"github.com/bilalcs1781/cryptobackend/internal/domain"
)

// eventStatus is the complete mapping from processor event types to target
// transaction statuses. Event types absent from this table are acknowledged
// without touching the store.
var eventStatus = map[string]domain.TransactionStatus{
	"payment_intent.succeeded":      domain.TransactionSucceeded,
	"payment_intent.payment_failed": domain.TransactionFailed,
	"payment_intent.canceled":       domain.TransactionCanceled,
}

// Manager orchestrates the payment transaction lifecycle: intent creation
// against the processor and webhook-driven status reconciliation.
type Manager struct {
	gateway Gateway
	store   TransactionStore
}

// NewManager composes a Manager from its collaborators
func NewManager(gateway Gateway, store TransactionStore) *Manager {
	return &Manager{gateway: gateway, store: store}
}

// CreateIntentResult is returned to the caller of CreateIntent
type CreateIntentResult struct {
	ClientSecret    string `json:"clientSecret"`    // Client-side completion token
	PaymentIntentID string `json:"paymentIntentId"` // Processor-issued intent id
	TransactionID   uint   `json:"transactionId"`   // Local transaction record id
}

// CreateIntent opens a payment intent with the processor and records it as a
// pending transaction. The owning user id is folded into the processor
// metadata so reconciliation stays correlatable on the processor side. On
// gateway failure nothing is persisted: a transaction is never recorded
// without a processor counterpart.
func (m *Manager) CreateIntent(ctx context.Context, userID uint, in CreateIntentInput) (*CreateIntentResult, error) {
	in.Currency = strings.ToLower(in.Currency)
	// Fold caller metadata and the owning user id into the processor metadata.
	// The user id is written last so caller metadata cannot shadow it.
	meta := make(map[string]string, len(in.Metadata)+1)
	for k, v := range in.Metadata {
		meta[k] = v
	}
	meta["userId"] = strconv.FormatUint(uint64(userID), 10)

	res, err := m.gateway.CreateIntent(ctx, CreateIntentInput{
		Amount:      in.Amount,
		Currency:    in.Currency,
		Description: in.Description,
		Metadata:    meta,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIntentCreationFailed, err)
	}

	t := &domain.Transaction{
		UserID:                userID,
		StripePaymentIntentID: res.IntentID,
		Amount:                in.Amount,
		Currency:              in.Currency,
		Status:                domain.TransactionPending,
		Type:                  domain.TransactionTypePayment,
		Description:           in.Description,
		Metadata:              in.Metadata,
	}
	if err := m.store.Insert(ctx, t); err != nil {
		// The intent exists processor-side but was not recorded locally; no
		// compensating cancel is issued, so make the mismatch loud.
		logrus.WithFields(logrus.Fields{
			"user_id":           userID,
			"payment_intent_id": res.IntentID,
			"error":             err.Error(),
		}).Error("Payment intent created but transaction record failed")
		return nil, fmt.Errorf("%w: %w", ErrIntentCreationFailed, err)
	}
	return &CreateIntentResult{
		ClientSecret:    res.ClientSecret,
		PaymentIntentID: res.IntentID,
		TransactionID:   t.ID,
	}, nil
}

// Reconcile verifies a raw webhook payload against its signature header and
// applies the resulting status transition. It reports accepted=true whenever
// the webhook was processed, including when the event type is unrecognized
// or the conditional update matched no rows; the processor only needs to
// know that delivery succeeded. Delivery is at-least-once, so re-applying an
// identical event must converge on the same state without error.
func (m *Manager) Reconcile(ctx context.Context, payload []byte, sigHeader string) (bool, error) {
	event, err := m.gateway.VerifyWebhook(payload, sigHeader)
	if err != nil {
		if errors.Is(err, ErrInvalidSignature) {
			// Security event: a payload that fails verification either means
			// misconfiguration or someone forging processor traffic
			logrus.WithFields(logrus.Fields{
				"error": err.Error(),
			}).Warn("Webhook signature verification failed")
		}
		return false, err
	}
	status, ok := eventStatus[event.Type]
	if !ok {
		// Processors send many event types; unrecognized ones are
		// acknowledged and ignored
		return true, nil
	}
	updated, err := m.store.UpdateStatusByIntentID(ctx, event.IntentID, status)
	if err != nil {
		return false, err
	}
	if updated == 0 {
		// Unknown intent or already-terminal record. Still acknowledged, so
		// stuck records are only visible through monitoring of this log.
		logrus.WithFields(logrus.Fields{
			"payment_intent_id": event.IntentID,
			"event_type":        event.Type,
		}).Info("Webhook event matched no pending transaction")
	}
	return true, nil
}

// ListTransactions returns one page of the user's payment history, newest
// first, along with the total count.
func (m *Manager) ListTransactions(ctx context.Context, userID uint, page, limit int) ([]domain.Transaction, int64, error) {
	return m.store.FindByUser(ctx, userID, page, limit)
}

package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v76"
)

const testWebhookSecret = "whsec_test_secret"

// signPayload forges a processor signature header the same way the
// processor does: HMAC-SHA256 of "<timestamp>.<payload>" under the shared
// secret, carried as "t=<timestamp>,v1=<hex digest>".
func signPayload(t *testing.T, secret string, payload []byte) string {
	t.Helper()
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func succeededEventPayload() []byte {
	// api_version must match the SDK's pinned version or ConstructEvent
	// refuses the event
	return []byte(`{"id":"evt_1","object":"event","api_version":"` + stripe.APIVersion + `","type":"payment_intent.succeeded","data":{"object":{"id":"pi_123","object":"payment_intent"}}}`)
}

func TestCreateIntentUnconfiguredGateway(t *testing.T) {
	g := NewStripeGateway("", testWebhookSecret)
	_, err := g.CreateIntent(context.Background(), CreateIntentInput{Amount: 1000, Currency: "usd"})
	if !errors.Is(err, ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}
}

func TestCreateIntentBelowMinimumRejectedLocally(t *testing.T) {
	// The floor check runs before any network call, so a bogus key is fine
	g := NewStripeGateway("sk_test_bogus", testWebhookSecret)
	_, err := g.CreateIntent(context.Background(), CreateIntentInput{Amount: 10, Currency: "usd"})
	if !errors.Is(err, ErrGatewayRejected) {
		t.Fatalf("expected ErrGatewayRejected, got %v", err)
	}
}

func TestVerifyWebhookValidSignature(t *testing.T) {
	g := NewStripeGateway("sk_test_bogus", testWebhookSecret)
	payload := succeededEventPayload()

	event, err := g.VerifyWebhook(payload, signPayload(t, testWebhookSecret, payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Type != "payment_intent.succeeded" {
		t.Fatalf("expected event type payment_intent.succeeded, got %s", event.Type)
	}
	if event.IntentID != "pi_123" {
		t.Fatalf("expected intent id pi_123, got %s", event.IntentID)
	}
}

func TestVerifyWebhookTamperedPayload(t *testing.T) {
	g := NewStripeGateway("sk_test_bogus", testWebhookSecret)
	payload := succeededEventPayload()
	header := signPayload(t, testWebhookSecret, payload)

	// Flip one byte of the payload after signing
	tampered := append([]byte(nil), payload...)
	tampered[len(tampered)/2] ^= 0x01

	_, err := g.VerifyWebhook(tampered, header)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifyWebhookTamperedHeader(t *testing.T) {
	g := NewStripeGateway("sk_test_bogus", testWebhookSecret)
	payload := succeededEventPayload()
	header := []byte(signPayload(t, testWebhookSecret, payload))
	header[len(header)-1] ^= 0x01

	_, err := g.VerifyWebhook(payload, string(header))
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifyWebhookWrongSecret(t *testing.T) {
	g := NewStripeGateway("sk_test_bogus", testWebhookSecret)
	payload := succeededEventPayload()

	_, err := g.VerifyWebhook(payload, signPayload(t, "whsec_other_secret", payload))
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifyWebhookMalformedHeader(t *testing.T) {
	g := NewStripeGateway("sk_test_bogus", testWebhookSecret)
	for _, header := range []string{"", "garbage", "t=abc,v1=notahexdigest"} {
		if _, err := g.VerifyWebhook(succeededEventPayload(), header); !errors.Is(err, ErrInvalidSignature) {
			t.Fatalf("header %q: expected ErrInvalidSignature, got %v", header, err)
		}
	}
}

func TestVerifyWebhookMissingSecret(t *testing.T) {
	g := NewStripeGateway("sk_test_bogus", "")
	payload := succeededEventPayload()
	_, err := g.VerifyWebhook(payload, signPayload(t, testWebhookSecret, payload))
	if !errors.Is(err, ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}
}

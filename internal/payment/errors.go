package payment

import "errors"

// Error taxonomy for the payment lifecycle. Callers match with errors.Is
// and map to HTTP codes at the API layer.
var (
	// ErrGatewayUnavailable means the processor credential or webhook secret
	// is not configured, or the processor could not be reached. Recoverable
	// by the operator, surfaced as 503.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrGatewayRejected means the processor declined the request (invalid
	// currency, amount below the floor, account restriction).
	ErrGatewayRejected = errors.New("payment gateway rejected request")

	// ErrInvalidSignature means webhook signature verification failed.
	// Security-relevant: logged distinctly from ordinary validation errors.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrDuplicateIntent means a transaction already exists for the payment
	// intent id. Store invariant violation, treated as a bug.
	ErrDuplicateIntent = errors.New("duplicate payment intent")

	// ErrIntentCreationFailed wraps any failure of the create-intent flow.
	ErrIntentCreationFailed = errors.New("failed to create payment intent")
)

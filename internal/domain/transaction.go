package domain

import "time"

// TransactionStatus is the lifecycle state of a payment transaction
type TransactionStatus string

// Transaction statuses: pending transitions to exactly one of the
// three terminal states and never leaves it afterwards
const (
	TransactionPending   TransactionStatus = "pending"   // Intent created, awaiting processor outcome
	TransactionSucceeded TransactionStatus = "succeeded" // Payment captured
	TransactionFailed    TransactionStatus = "failed"    // Payment attempt failed
	TransactionCanceled  TransactionStatus = "canceled"  // Intent canceled before capture
)

// TransactionTypePayment is the only transaction type recorded by this service
const TransactionTypePayment = "payment"

// Transaction Model: the ledger entry for one payment attempt.
// Rows are never deleted (financial audit trail).
type Transaction struct {
	ID                    uint              `gorm:"primaryKey" json:"id"`                              // Primary key
	UserID                uint              `gorm:"index;not null" json:"userId"`                      // Owning user (weak reference by id)
	StripePaymentIntentID string            `gorm:"uniqueIndex;not null" json:"stripePaymentIntentId"` // Processor-issued intent id, reconciliation key
	Amount                int64             `gorm:"not null" json:"amount"`                            // Amount in minor units (cents), never floating-point
	Currency              string            `gorm:"size:8;not null" json:"currency"`                   // Lowercase ISO-4217 code
	Status                TransactionStatus `gorm:"size:16;not null;default:pending" json:"status"`    // Lifecycle status
	Type                  string            `gorm:"size:16;not null;default:payment" json:"type"`      // Transaction type
	Description           string            `json:"description,omitempty"`                             // Processor-passthrough description
	Metadata              map[string]string `gorm:"serializer:json" json:"metadata,omitempty"`         // Processor-passthrough metadata
	CreatedAt             time.Time         `json:"createdAt"`                                         // Timestamp of creation
	UpdatedAt             time.Time         `json:"updatedAt"`                                         // Timestamp of last update
}

package payment

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm" // GORM ORM library

	"github.com/bilalcs1781/cryptobackend/internal/domain"
)

// TransactionStore is the durable record of every payment intent and its
// current status, keyed by the processor-issued intent id.
type TransactionStore interface {
	// Insert persists a new transaction. Fails with ErrDuplicateIntent if a
	// transaction already exists for the same payment intent id.
	Insert(ctx context.Context, t *domain.Transaction) error
	// UpdateStatusByIntentID conditionally moves a pending transaction to a
	// terminal status and reports how many rows changed. Zero rows means
	// either an unknown intent or an already-terminal record; callers treat
	// both as "nothing to do".
	UpdateStatusByIntentID(ctx context.Context, intentID string, status domain.TransactionStatus) (int64, error)
	// FindByUser returns one page of the user's transactions, newest first,
	// along with the total count.
	FindByUser(ctx context.Context, userID uint, page, limit int) ([]domain.Transaction, int64, error)
}

// GormStore implements TransactionStore on top of the relational database.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a gorm handle. The handle must be opened with
// TranslateError so unique violations surface as gorm.ErrDuplicatedKey.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Insert persists a new transaction record
func (s *GormStore) Insert(ctx context.Context, t *domain.Transaction) error {
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", ErrDuplicateIntent, t.StripePaymentIntentID)
		}
		return err
	}
	return nil
}

// UpdateStatusByIntentID runs a single conditional UPDATE. Filtering on the
// pending status makes terminal states sticky: two concurrent deliveries for
// the same intent race safely because at most one observes a state change.
func (s *GormStore) UpdateStatusByIntentID(ctx context.Context, intentID string, status domain.TransactionStatus) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("stripe_payment_intent_id = ? AND status = ?", intentID, domain.TransactionPending).
		Update("status", status)
	return res.RowsAffected, res.Error
}

// FindByUser returns a page of the user's transactions ordered newest-first
func (s *GormStore) FindByUser(ctx context.Context, userID uint, page, limit int) ([]domain.Transaction, int64, error) {
	var total int64
	// Count total transactions for pagination
	if err := s.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var txs []domain.Transaction
	// Fetch the requested page
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&txs).Error; err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

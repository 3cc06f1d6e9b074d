package postgres

import (
	"context"
	stderrors "errors"
	"time"

	"gorm.io/gorm"

	errors "github.com/oba-canada/alumni-portal/internal"
	"github.com/oba-canada/alumni-portal/internal/core/datamodel/transaction"
	paymentpkg "github.com/oba-canada/alumni-portal/internal/payment"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{
		db: db,
	}
}

var _ paymentpkg.Repository = (*TransactionRepository)(nil)

func (r *TransactionRepository) Create(ctx context.Context, tx *transaction.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	var tx transaction.Transaction
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tx).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (r *TransactionRepository) GetBySessionID(ctx context.Context, sessionID string) (*transaction.Transaction, error) {
	var tx transaction.Transaction
	err := r.db.WithContext(ctx).Where("stripe_session_id = ?", sessionID).First(&tx).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (r *TransactionRepository) SetSessionID(ctx context.Context, id, sessionID string) error {
	return r.db.WithContext(ctx).Model(&transaction.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stripe_session_id": sessionID,
			"updated_at":        time.Now().UTC(),
		}).Error
}

// CompleteIfPending is the single write path to completed. The status guard
// in the WHERE clause makes the transition atomic: concurrent verifiers race
// on the same row and exactly one sees an affected row.
func (r *TransactionRepository) CompleteIfPending(ctx context.Context, id, paymentIntentID string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&transaction.Transaction{}).
		Where("id = ? AND status = ?", id, transaction.StatusPending).
		Updates(map[string]interface{}{
			"status":                   transaction.StatusCompleted,
			"stripe_payment_intent_id": paymentIntentID,
			"updated_at":               time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FailIfPending and RefundIfCompleted carry the same status guard as
// CompleteIfPending, so an expiry event racing a successful verification
// cannot knock a completed row back to failed.
func (r *TransactionRepository) FailIfPending(ctx context.Context, id string) (bool, error) {
	return r.casStatus(ctx, id, transaction.StatusPending, transaction.StatusFailed)
}

func (r *TransactionRepository) RefundIfCompleted(ctx context.Context, id string) (bool, error) {
	return r.casStatus(ctx, id, transaction.StatusCompleted, transaction.StatusRefunded)
}

func (r *TransactionRepository) casStatus(ctx context.Context, id, from, to string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&transaction.Transaction{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *TransactionRepository) UpdateFulfillment(ctx context.Context, id, status, trackingNumber, notes string) error {
	updates := map[string]interface{}{
		"fulfillment_status": status,
		"updated_at":         time.Now().UTC(),
	}
	if trackingNumber != "" {
		updates["tracking_number"] = trackingNumber
	}
	if notes != "" {
		updates["notes"] = notes
	}
	return r.db.WithContext(ctx).Model(&transaction.Transaction{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *TransactionRepository) List(ctx context.Context, filter paymentpkg.ListFilter) ([]transaction.Transaction, error) {
	query := r.db.WithContext(ctx).Model(&transaction.Transaction{})
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var txs []transaction.Transaction
	err := query.Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&txs).Error
	return txs, err
}

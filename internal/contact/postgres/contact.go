package postgres

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	errors "github.com/oba-canada/alumni-portal/internal"
	contactDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/contact"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) GetAll(ctx context.Context, status string, limit, offset int) ([]contactDatamodel.Submission, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var subs []contactDatamodel.Submission
	err := query.Limit(limit).Offset(offset).Find(&subs).Error
	return subs, err
}

func (r *ContactRepository) GetByID(ctx context.Context, id string) (*contactDatamodel.Submission, error) {
	var sub contactDatamodel.Submission
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&sub).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("Contact submission not found", errors.ErrCodeRecordNotFound)
		}
		return nil, err
	}
	return &sub, nil
}

func (r *ContactRepository) Create(ctx context.Context, sub *contactDatamodel.Submission) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *ContactRepository) Update(ctx context.Context, sub *contactDatamodel.Submission) error {
	return r.db.WithContext(ctx).Save(sub).Error
}

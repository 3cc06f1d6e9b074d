package postgres

import (
	"context"
	stderrors "errors"
	"time"

	"gorm.io/gorm"

	errors "github.com/oba-canada/alumni-portal/internal"
	membershipDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/membership"
)

type MembershipTypeRepository struct {
	db *gorm.DB
}

func NewMembershipTypeRepository(db *gorm.DB) *MembershipTypeRepository {
	return &MembershipTypeRepository{db: db}
}

func (r *MembershipTypeRepository) GetAll(ctx context.Context, activeOnly bool) ([]membershipDatamodel.MembershipType, error) {
	query := r.db.WithContext(ctx).Order("price ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var types []membershipDatamodel.MembershipType
	err := query.Find(&types).Error
	return types, err
}

func (r *MembershipTypeRepository) GetByID(ctx context.Context, id string) (*membershipDatamodel.MembershipType, error) {
	var t membershipDatamodel.MembershipType
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrMembershipTypeNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *MembershipTypeRepository) Create(ctx context.Context, t *membershipDatamodel.MembershipType) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *MembershipTypeRepository) Update(ctx context.Context, t *membershipDatamodel.MembershipType) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *MembershipTypeRepository) Deactivate(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&membershipDatamodel.MembershipType{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now().UTC(),
		}).Error
}

package postgres

import (
	"context"
	stderrors "errors"
	"time"

	"gorm.io/gorm"

	errors "github.com/oba-canada/alumni-portal/internal"
	memberDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/member"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) GetByID(ctx context.Context, id string) (*memberDatamodel.Member, error) {
	var m memberDatamodel.Member
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepository) GetByEmail(ctx context.Context, email string) (*memberDatamodel.Member, error) {
	var m memberDatamodel.Member
	err := r.db.WithContext(ctx).Where("email_address = ?", email).First(&m).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepository) Create(ctx context.Context, m *memberDatamodel.Member) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MemberRepository) Update(ctx context.Context, m *memberDatamodel.Member) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *MemberRepository) UpdateLastLogin(ctx context.Context, id string) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&memberDatamodel.Member{}).
		Where("id = ?", id).
		Update("last_login", now).Error
}

// MarkPaid flips the paid flag once a membership payment settles and keeps
// the provider's customer reference for future checkouts.
func (r *MemberRepository) MarkPaid(ctx context.Context, id, stripeCustomerID string) error {
	updates := map[string]interface{}{
		"is_paid":    true,
		"updated_at": time.Now().UTC(),
	}
	if stripeCustomerID != "" {
		updates["stripe_customer_id"] = stripeCustomerID
	}
	return r.db.WithContext(ctx).Model(&memberDatamodel.Member{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *MemberRepository) List(ctx context.Context, limit, offset int) ([]memberDatamodel.Member, error) {
	var members []memberDatamodel.Member
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&members).Error
	return members, err
}

func (r *MemberRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&memberDatamodel.Member{}).Count(&count).Error
	return count, err
}

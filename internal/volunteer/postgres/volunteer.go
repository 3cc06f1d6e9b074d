package postgres

import (
	"context"
	stderrors "errors"
	"time"

	"gorm.io/gorm"

	errors "github.com/oba-canada/alumni-portal/internal"
	volunteerDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/volunteer"
)

type VolunteerRepository struct {
	db *gorm.DB
}

func NewVolunteerRepository(db *gorm.DB) *VolunteerRepository {
	return &VolunteerRepository{db: db}
}

func (r *VolunteerRepository) GetAll(ctx context.Context, status string, limit, offset int) ([]volunteerDatamodel.Volunteer, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var volunteers []volunteerDatamodel.Volunteer
	err := query.Limit(limit).Offset(offset).Find(&volunteers).Error
	return volunteers, err
}

func (r *VolunteerRepository) GetByID(ctx context.Context, id string) (*volunteerDatamodel.Volunteer, error) {
	var v volunteerDatamodel.Volunteer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("Volunteer application not found", errors.ErrCodeRecordNotFound)
		}
		return nil, err
	}
	return &v, nil
}

func (r *VolunteerRepository) Create(ctx context.Context, v *volunteerDatamodel.Volunteer) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *VolunteerRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).Model(&volunteerDatamodel.Volunteer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}

package postgres

import (
	"context"
	stderrors "errors"
	"time"

	"gorm.io/gorm"

	errors "github.com/oba-canada/alumni-portal/internal"
	eventDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/event"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) GetAll(ctx context.Context, publicOnly bool, upcomingOnly bool) ([]eventDatamodel.Event, error) {
	query := r.db.WithContext(ctx).Order("event_date ASC")
	if publicOnly {
		query = query.Where("is_public = ?", true)
	}
	if upcomingOnly {
		query = query.Where("event_date >= ?", time.Now().UTC())
	}

	var events []eventDatamodel.Event
	err := query.Find(&events).Error
	return events, err
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*eventDatamodel.Event, error) {
	var e eventDatamodel.Event
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("Event not found", errors.ErrCodeRecordNotFound)
		}
		return nil, err
	}
	return &e, nil
}

func (r *EventRepository) Create(ctx context.Context, e *eventDatamodel.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EventRepository) Update(ctx context.Context, e *eventDatamodel.Event) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&eventDatamodel.Event{}).Error
}

func (r *EventRepository) CreateRegistration(ctx context.Context, reg *eventDatamodel.Registration) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *EventRepository) GetRegistrationByEmail(ctx context.Context, eventID, email string) (*eventDatamodel.Registration, error) {
	var reg eventDatamodel.Registration
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND member_email = ?", eventID, email).
		First(&reg).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reg, nil
}

func (r *EventRepository) ListRegistrations(ctx context.Context, eventID string) ([]eventDatamodel.Registration, error) {
	var regs []eventDatamodel.Registration
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&regs).Error
	return regs, err
}

func (r *EventRepository) UpdateRegistrationStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).Model(&eventDatamodel.Registration{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *EventRepository) CountRegistrationsByStatus(ctx context.Context, eventID string) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&eventDatamodel.Registration{}).
		Select("status, count(*) as count").
		Where("event_id = ?", eventID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make(map[string]int64, len(rows))
	for _, r := range rows {
		stats[r.Status] = r.Count
	}
	return stats, nil
}

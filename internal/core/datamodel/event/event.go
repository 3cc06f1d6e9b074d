package event

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey"`
	Title       string    `gorm:"column:title;not null"`
	Description string    `gorm:"column:description"`
	EventDate   time.Time `gorm:"column:event_date;not null"`
	Location    string    `gorm:"column:location"`
	IsPublic    bool      `gorm:"column:is_public;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time `gorm:"column:updated_at;default:now()"`
}

func (Event) TableName() string {
	return "events"
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

const (
	RegistrationInterested = "interested"
	RegistrationConfirmed  = "confirmed"
	RegistrationCancelled  = "cancelled"
)

type Registration struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey"`
	EventID     string    `gorm:"column:event_id;not null;index"`
	EventTitle  string    `gorm:"column:event_title;not null"`
	MemberEmail string    `gorm:"column:member_email;not null"`
	MemberName  string    `gorm:"column:member_name;not null"`
	MemberID    *string   `gorm:"column:member_id;type:uuid"`
	Status      string    `gorm:"column:status;default:interested"`
	Notes       string    `gorm:"column:notes"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
}

func (Registration) TableName() string {
	return "event_registrations"
}

func (r *Registration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

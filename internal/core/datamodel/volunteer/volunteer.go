package volunteer

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Volunteer struct {
	ID              string    `gorm:"column:id;type:uuid;primaryKey"`
	FullName        string    `gorm:"column:full_name;not null"`
	EmailAddress    string    `gorm:"column:email_address;not null"`
	TelephoneNumber string    `gorm:"column:telephone_number"`
	Interests       string    `gorm:"column:interests;not null"`
	Experience      string    `gorm:"column:experience"`
	Availability    string    `gorm:"column:availability"`
	Status          string    `gorm:"column:status;default:pending"`
	CreatedAt       time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time `gorm:"column:updated_at;default:now()"`
}

func (Volunteer) TableName() string {
	return "volunteers"
}

func (v *Volunteer) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

package contact

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusNew       = "new"
	StatusRead      = "read"
	StatusResponded = "responded"
	StatusClosed    = "closed"
)

type Submission struct {
	ID           string     `gorm:"column:id;type:uuid;primaryKey"`
	FullName     string     `gorm:"column:full_name;not null"`
	EmailAddress string     `gorm:"column:email_address;not null"`
	Subject      string     `gorm:"column:subject;not null"`
	PhoneNumber  string     `gorm:"column:phone_number"`
	Message      string     `gorm:"column:message;not null"`
	ConsentGiven bool       `gorm:"column:consent_given;default:false"`
	Status       string     `gorm:"column:status;default:new"`
	AdminNotes   string     `gorm:"column:admin_notes"`
	RespondedAt  *time.Time `gorm:"column:responded_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;default:now()"`
}

func (Submission) TableName() string {
	return "contact_submissions"
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

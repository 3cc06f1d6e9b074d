package membership

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MembershipType is the priced plan a member checks out against. Its stored
// price is authoritative; client-submitted prices are never trusted.
type MembershipType struct {
	ID          string          `gorm:"column:id;type:uuid;primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Description string          `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null"`
	Duration    int             `gorm:"column:duration;not null"`
	Benefits    string          `gorm:"column:benefits"`
	IsActive    bool            `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time       `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;default:now()"`
}

func (MembershipType) TableName() string {
	return "membership_types"
}

func (t *MembershipType) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

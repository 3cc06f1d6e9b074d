package member

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	RoleMember     = "member"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

type Member struct {
	ID                 string          `gorm:"column:id;type:uuid;primaryKey"`
	FullName           string          `gorm:"column:full_name;not null"`
	YearOfEntry        int             `gorm:"column:year_of_entry;not null"`
	ResidentialAddress string          `gorm:"column:residential_address"`
	TelephoneNumber    string          `gorm:"column:telephone_number"`
	EmailAddress       string          `gorm:"column:email_address;not null;uniqueIndex"`
	PasswordHash       string          `gorm:"column:password_hash"`
	PotentialMembers   string          `gorm:"column:potential_members"`
	RegistrationFee    decimal.Decimal `gorm:"column:registration_fee;type:decimal(10,2);default:100.00"`
	IsPaid             bool            `gorm:"column:is_paid;default:false"`
	IsActive           bool            `gorm:"column:is_active;default:true"`
	Role               string          `gorm:"column:role;default:member"`
	ProfileImage       string          `gorm:"column:profile_image"`
	StripeCustomerID   string          `gorm:"column:stripe_customer_id"`
	LastLogin          *time.Time      `gorm:"column:last_login"`
	CreatedAt          time.Time       `gorm:"column:created_at;default:now()"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;default:now()"`
}

func (Member) TableName() string {
	return "members"
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// IsAdminRole reports whether the member can use the admin back-office.
func (m *Member) IsAdminRole() bool {
	return m.Role == RoleAdmin || m.Role == RoleSuperAdmin
}

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	apperrors "github.com/oba-canada/alumni-portal/internal"
	membershipDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/membership"
)

func TestMembershipTypeRepository(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "MembershipType Repository Suite")
}

// MembershipTypeSQLite is a test-specific version without the uuid column
// type for SQLite compatibility
type MembershipTypeSQLite struct {
	ID          string          `gorm:"column:id;primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Description string          `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(10,2)"`
	Duration    int             `gorm:"column:duration"`
	Benefits    string          `gorm:"column:benefits"`
	IsActive    bool            `gorm:"column:is_active"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (MembershipTypeSQLite) TableName() string {
	return "membership_types"
}

func (t *MembershipTypeSQLite) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

var _ = ginkgo.Describe("MembershipTypeRepository", func() {
	var (
		repo *MembershipTypeRepository
		ctx  context.Context
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()

		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(db.AutoMigrate(&MembershipTypeSQLite{})).To(gomega.Succeed())

		repo = NewMembershipTypeRepository(db)
	})

	create := func(name string, price string, active bool) *membershipDatamodel.MembershipType {
		t := &membershipDatamodel.MembershipType{
			Name:     name,
			Price:    decimal.RequireFromString(price),
			Duration: 12,
			IsActive: active,
		}
		gomega.Expect(repo.Create(ctx, t)).To(gomega.Succeed())
		return t
	}

	ginkgo.Describe("GetAll", func() {
		ginkgo.BeforeEach(func() {
			create("Recent Graduate", "20.00", true)
			create("Annual", "50.00", true)
			create("Legacy Plan", "10.00", false)
		})

		ginkgo.It("should return only active plans ordered by price", func() {
			// When
			types, err := repo.GetAll(ctx, true)

			// Then
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(types).To(gomega.HaveLen(2))
			gomega.Expect(types[0].Name).To(gomega.Equal("Recent Graduate"))
			gomega.Expect(types[1].Name).To(gomega.Equal("Annual"))
		})

		ginkgo.It("should include inactive plans for the back-office", func() {
			// When
			types, err := repo.GetAll(ctx, false)

			// Then
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(types).To(gomega.HaveLen(3))
		})
	})

	ginkgo.Describe("GetByID", func() {
		ginkgo.It("should return a typed not-found error", func() {
			// When
			_, err := repo.GetByID(ctx, uuid.NewString())

			// Then
			gomega.Expect(err).To(gomega.MatchError(apperrors.ErrMembershipTypeNotFound))
		})
	})

	ginkgo.Describe("Deactivate", func() {
		ginkgo.It("should keep the row but drop it from the active listing", func() {
			// Given
			t := create("Annual", "50.00", true)

			// When
			err := repo.Deactivate(ctx, t.ID)

			// Then
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			loaded, err := repo.GetByID(ctx, t.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(loaded.IsActive).To(gomega.BeFalse())

			active, _ := repo.GetAll(ctx, true)
			gomega.Expect(active).To(gomega.BeEmpty())
		})
	})
})

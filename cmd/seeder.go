package cmd

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/oba-canada/alumni-portal/internal/core/datamodel/member"
	"github.com/oba-canada/alumni-portal/internal/core/datamodel/membership"
	"github.com/oba-canada/alumni-portal/internal/core/datamodel/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{"payment_transactions", "store_items", "membership_types", "members"} {
				if err := gormDB.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		admins := []member.Member{
			{
				FullName:     "Portal Super Admin",
				EmailAddress: "superadmin@oba-canada.org",
				YearOfEntry:  1990,
				Role:         member.RoleSuperAdmin,
			},
			{
				FullName:     "Portal Admin",
				EmailAddress: "admin@oba-canada.org",
				YearOfEntry:  1995,
				Role:         member.RoleAdmin,
			},
		}

		for _, m := range admins {
			var existing member.Member
			err := gormDB.Where("email_address = ?", m.EmailAddress).First(&existing).Error
			if err == nil {
				fmt.Println("member already exists:", m.EmailAddress)
				continue
			}
			m.PasswordHash = string(hash)
			m.IsActive = true
			m.RegistrationFee = decimal.NewFromInt(100)
			if err := gormDB.Create(&m).Error; err != nil {
				log.Fatalf("failed to seed member %s: %v", m.EmailAddress, err)
			}
			fmt.Println("Seeded member:", m.EmailAddress)
		}

		plans := []membership.MembershipType{
			{
				Name:        "Annual Membership",
				Description: "Standard annual membership with voting rights",
				Price:       decimal.RequireFromString("50.00"),
				Duration:    12,
				Benefits:    "Voting rights, newsletter, event discounts",
			},
			{
				Name:        "Lifetime Membership",
				Description: "One-time payment, member for life",
				Price:       decimal.RequireFromString("500.00"),
				Duration:    0,
				Benefits:    "All annual benefits, permanent listing in the alumni directory",
			},
			{
				Name:        "Recent Graduate",
				Description: "Discounted membership for alumni within five years of graduation",
				Price:       decimal.RequireFromString("20.00"),
				Duration:    12,
				Benefits:    "Newsletter, event discounts",
			},
		}

		for _, p := range plans {
			var existing membership.MembershipType
			err := gormDB.Where("name = ?", p.Name).First(&existing).Error
			if err == nil {
				fmt.Println("membership type already exists:", p.Name)
				continue
			}
			p.IsActive = true
			if err := gormDB.Create(&p).Error; err != nil {
				log.Fatalf("failed to seed membership type %s: %v", p.Name, err)
			}
			fmt.Println("Seeded membership type:", p.Name)
		}

		items := []store.Item{
			{
				Name:          "Alumni Polo Shirt",
				Description:   "Embroidered polo in association colours",
				Price:         decimal.RequireFromString("35.00"),
				Category:      "apparel",
				StockQuantity: 50,
			},
			{
				Name:          "Commemorative Mug",
				Description:   "Ceramic mug with the association crest",
				Price:         decimal.RequireFromString("15.00"),
				Category:      "merchandise",
				StockQuantity: 100,
			},
			{
				Name:          "Centenary Yearbook",
				Description:   "Hardcover centenary edition yearbook",
				Price:         decimal.RequireFromString("60.00"),
				Category:      "books",
				StockQuantity: 25,
			},
		}

		for _, it := range items {
			var existing store.Item
			err := gormDB.Where("name = ?", it.Name).First(&existing).Error
			if err == nil {
				fmt.Println("store item already exists:", it.Name)
				continue
			}
			it.InStock = true
			if err := gormDB.Create(&it).Error; err != nil {
				log.Fatalf("failed to seed store item %s: %v", it.Name, err)
			}
			fmt.Println("Seeded store item:", it.Name)
		}

		fmt.Println("Seeding complete")
	},
}

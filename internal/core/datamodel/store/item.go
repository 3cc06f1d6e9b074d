package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Item struct {
	ID            string          `gorm:"column:id;type:uuid;primaryKey"`
	Name          string          `gorm:"column:name;not null"`
	Description   string          `gorm:"column:description"`
	Price         decimal.Decimal `gorm:"column:price;type:decimal(10,2)"`
	ImageURL      string          `gorm:"column:image_url"`
	Category      string          `gorm:"column:category"`
	InStock       bool            `gorm:"column:in_stock;default:true"`
	StockQuantity int             `gorm:"column:stock_quantity;default:0"`
	CreatedAt     time.Time       `gorm:"column:created_at;default:now()"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;default:now()"`
}

func (Item) TableName() string {
	return "store_items"
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

package news

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Article struct {
	ID            string     `gorm:"column:id;type:uuid;primaryKey"`
	Title         string     `gorm:"column:title;not null"`
	Content       string     `gorm:"column:content;not null"`
	Excerpt       string     `gorm:"column:excerpt"`
	Author        string     `gorm:"column:author"`
	Category      string     `gorm:"column:category"`
	Tags          string     `gorm:"column:tags"`
	FeaturedImage string     `gorm:"column:featured_image"`
	IsPublished   bool       `gorm:"column:is_published;default:false"`
	PublishedAt   *time.Time `gorm:"column:published_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;default:now()"`
}

func (Article) TableName() string {
	return "news"
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

package postgres

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	errors "github.com/oba-canada/alumni-portal/internal"
	newsDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/news"
)

type NewsRepository struct {
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

func (r *NewsRepository) GetAll(ctx context.Context, publishedOnly bool, category string, limit, offset int) ([]newsDatamodel.Article, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if publishedOnly {
		query = query.Where("is_published = ?", true).Order("published_at DESC")
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var articles []newsDatamodel.Article
	err := query.Limit(limit).Offset(offset).Find(&articles).Error
	return articles, err
}

func (r *NewsRepository) GetByID(ctx context.Context, id string) (*newsDatamodel.Article, error) {
	var a newsDatamodel.Article
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("Article not found", errors.ErrCodeRecordNotFound)
		}
		return nil, err
	}
	return &a, nil
}

func (r *NewsRepository) Create(ctx context.Context, a *newsDatamodel.Article) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *NewsRepository) Update(ctx context.Context, a *newsDatamodel.Article) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *NewsRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&newsDatamodel.Article{}).Error
}

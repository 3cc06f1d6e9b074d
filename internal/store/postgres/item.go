package postgres

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	errors "github.com/oba-canada/alumni-portal/internal"
	storeDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/store"
)

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) GetAll(ctx context.Context, category string, inStockOnly bool) ([]storeDatamodel.Item, error) {
	query := r.db.WithContext(ctx).Order("name ASC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if inStockOnly {
		query = query.Where("in_stock = ?", true)
	}

	var items []storeDatamodel.Item
	err := query.Find(&items).Error
	return items, err
}

func (r *ItemRepository) GetByID(ctx context.Context, id string) (*storeDatamodel.Item, error) {
	var item storeDatamodel.Item
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("Store item not found", errors.ErrCodeRecordNotFound)
		}
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepository) Create(ctx context.Context, item *storeDatamodel.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *ItemRepository) Update(ctx context.Context, item *storeDatamodel.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&storeDatamodel.Item{}).Error
}

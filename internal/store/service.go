package store

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	errors "github.com/oba-canada/alumni-portal/internal"
	"github.com/oba-canada/alumni-portal/internal/core/common/validation"
	storeDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/store"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context, category string, inStockOnly bool) ([]storeDatamodel.Item, error)
	GetByID(ctx context.Context, id string) (*storeDatamodel.Item, error)
	Create(ctx context.Context, item *storeDatamodel.Item) error
	Update(ctx context.Context, item *storeDatamodel.Item) error
	Delete(ctx context.Context, id string) error
}

type ItemRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"image_url,omitempty"`
	Category      string          `json:"category,omitempty"`
	InStock       *bool           `json:"in_stock,omitempty"`
	StockQuantity int64           `json:"stock_quantity,omitempty"`
}

func (r *ItemRequest) Validate() error {
	validator := validation.NewValidator()
	validator.Field("name", r.Name).Required().MaxLength(200)
	validator.Field("price", r.Price).Required().NonNegativeAmount(errors.ErrCodeInvalidAmount)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) ListItems(ctx context.Context, category string, inStockOnly bool) ([]storeDatamodel.Item, error) {
	return s.repo.GetAll(ctx, category, inStockOnly)
}

func (s *Service) GetItem(ctx context.Context, id string) (*storeDatamodel.Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) CreateItem(ctx context.Context, req *ItemRequest) (*storeDatamodel.Item, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item := &storeDatamodel.Item{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		ImageURL:      req.ImageURL,
		Category:      req.Category,
		InStock:       true,
		StockQuantity: int(req.StockQuantity),
	}
	if req.InStock != nil {
		item.InStock = *req.InStock
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("store item created", "item_id", item.ID, "name", item.Name)
	return item, nil
}

func (s *Service) UpdateItem(ctx context.Context, id string, req *ItemRequest) (*storeDatamodel.Item, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Name = req.Name
	item.Description = req.Description
	item.Price = req.Price
	item.ImageURL = req.ImageURL
	item.Category = req.Category
	item.StockQuantity = int(req.StockQuantity)
	if req.InStock != nil {
		item.InStock = *req.InStock
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) DeleteItem(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

package news

import (
	"context"
	"log/slog"
	"time"

	"github.com/oba-canada/alumni-portal/internal/core/common/validation"
	newsDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/news"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context, publishedOnly bool, category string, limit, offset int) ([]newsDatamodel.Article, error)
	GetByID(ctx context.Context, id string) (*newsDatamodel.Article, error)
	Create(ctx context.Context, a *newsDatamodel.Article) error
	Update(ctx context.Context, a *newsDatamodel.Article) error
	Delete(ctx context.Context, id string) error
}

type ArticleRequest struct {
	Title         string `json:"title"`
	Content       string `json:"content"`
	Excerpt       string `json:"excerpt,omitempty"`
	Author        string `json:"author,omitempty"`
	Category      string `json:"category,omitempty"`
	Tags          string `json:"tags,omitempty"`
	FeaturedImage string `json:"featured_image,omitempty"`
	IsPublished   *bool  `json:"is_published,omitempty"`
}

func (r *ArticleRequest) Validate() error {
	validator := validation.NewValidator()
	validator.Field("title", r.Title).Required().MaxLength(300)
	validator.Field("content", r.Content).Required()

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

func (s *Service) ListPublished(ctx context.Context, category string, limit, offset int) ([]newsDatamodel.Article, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.GetAll(ctx, true, category, limit, offset)
}

func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]newsDatamodel.Article, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.GetAll(ctx, false, "", limit, offset)
}

func (s *Service) GetArticle(ctx context.Context, id string) (*newsDatamodel.Article, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) CreateArticle(ctx context.Context, req *ArticleRequest) (*newsDatamodel.Article, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a := &newsDatamodel.Article{
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		Author:        req.Author,
		Category:      req.Category,
		Tags:          req.Tags,
		FeaturedImage: req.FeaturedImage,
	}
	if req.IsPublished != nil && *req.IsPublished {
		a.IsPublished = true
		now := time.Now().UTC()
		a.PublishedAt = &now
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("article created", "article_id", a.ID, "published", a.IsPublished)
	return a, nil
}

func (s *Service) UpdateArticle(ctx context.Context, id string, req *ArticleRequest) (*newsDatamodel.Article, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.Title = req.Title
	a.Content = req.Content
	a.Excerpt = req.Excerpt
	a.Author = req.Author
	a.Category = req.Category
	a.Tags = req.Tags
	a.FeaturedImage = req.FeaturedImage

	if req.IsPublished != nil {
		// PublishedAt records the first time the article went live.
		if *req.IsPublished && !a.IsPublished {
			now := time.Now().UTC()
			a.PublishedAt = &now
		}
		a.IsPublished = *req.IsPublished
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) DeleteArticle(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

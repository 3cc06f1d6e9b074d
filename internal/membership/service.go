package membership

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	errors "github.com/oba-canada/alumni-portal/internal"
	"github.com/oba-canada/alumni-portal/internal/core/common/validation"
	membershipDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/membership"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context, activeOnly bool) ([]membershipDatamodel.MembershipType, error)
	GetByID(ctx context.Context, id string) (*membershipDatamodel.MembershipType, error)
	Create(ctx context.Context, t *membershipDatamodel.MembershipType) error
	Update(ctx context.Context, t *membershipDatamodel.MembershipType) error
	Deactivate(ctx context.Context, id string) error
}

type MembershipTypeRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Duration    int64           `json:"duration"`
	Benefits    string          `json:"benefits,omitempty"`
	IsActive    *bool           `json:"is_active,omitempty"`
}

func (r *MembershipTypeRequest) Validate() error {
	validator := validation.NewValidator()
	validator.Field("name", r.Name).Required().MaxLength(100)
	validator.Field("price", r.Price).Required().NonNegativeAmount(errors.ErrCodeInvalidAmount)
	validator.Field("duration", r.Duration).Required().MinInt(1, errors.ErrCodeValidationFailed)

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

// ListTypes returns active plans for the public page, or everything for the
// back-office.
func (s *Service) ListTypes(ctx context.Context, includeInactive bool) ([]membershipDatamodel.MembershipType, error) {
	return s.repo.GetAll(ctx, !includeInactive)
}

func (s *Service) GetType(ctx context.Context, id string) (*membershipDatamodel.MembershipType, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) CreateType(ctx context.Context, req *MembershipTypeRequest) (*membershipDatamodel.MembershipType, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t := &membershipDatamodel.MembershipType{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Duration:    int(req.Duration),
		Benefits:    req.Benefits,
		IsActive:    true,
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("membership type created", "id", t.ID, "name", t.Name, "price", t.Price.StringFixed(2))
	return t, nil
}

func (s *Service) UpdateType(ctx context.Context, id string, req *MembershipTypeRequest) (*membershipDatamodel.MembershipType, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	t.Name = req.Name
	t.Description = req.Description
	t.Price = req.Price
	t.Duration = int(req.Duration)
	t.Benefits = req.Benefits
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteType soft-deletes by deactivation so historical transactions keep
// their plan reference.
func (s *Service) DeleteType(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Deactivate(ctx, id)
}

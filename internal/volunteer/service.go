package volunteer

import (
	"context"
	"log/slog"

	errors "github.com/oba-canada/alumni-portal/internal"
	"github.com/oba-canada/alumni-portal/internal/core/common/validation"
	volunteerDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/volunteer"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context, status string, limit, offset int) ([]volunteerDatamodel.Volunteer, error)
	GetByID(ctx context.Context, id string) (*volunteerDatamodel.Volunteer, error)
	Create(ctx context.Context, v *volunteerDatamodel.Volunteer) error
	UpdateStatus(ctx context.Context, id, status string) error
}

type ApplicationRequest struct {
	FullName        string `json:"full_name"`
	EmailAddress    string `json:"email_address"`
	TelephoneNumber string `json:"telephone_number,omitempty"`
	Interests       string `json:"interests"`
	Experience      string `json:"experience,omitempty"`
	Availability    string `json:"availability,omitempty"`
}

func (r *ApplicationRequest) Validate() error {
	validator := validation.NewValidator()
	validator.Field("full_name", r.FullName).Required().MaxLength(200)
	validator.Field("email_address", r.EmailAddress).Required().Email()
	validator.Field("interests", r.Interests).Required()

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

// Apply records a public volunteer application in pending state.
func (s *Service) Apply(ctx context.Context, req *ApplicationRequest) (*volunteerDatamodel.Volunteer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	v := &volunteerDatamodel.Volunteer{
		FullName:        req.FullName,
		EmailAddress:    req.EmailAddress,
		TelephoneNumber: req.TelephoneNumber,
		Interests:       req.Interests,
		Experience:      req.Experience,
		Availability:    req.Availability,
		Status:          volunteerDatamodel.StatusPending,
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}

	s.logger.Info("volunteer application received", "volunteer_id", v.ID)
	return v, nil
}

func (s *Service) ListApplications(ctx context.Context, status string, limit, offset int) ([]volunteerDatamodel.Volunteer, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.GetAll(ctx, status, limit, offset)
}

func (s *Service) GetApplication(ctx context.Context, id string) (*volunteerDatamodel.Volunteer, error) {
	return s.repo.GetByID(ctx, id)
}

// SetStatus approves or rejects an application.
func (s *Service) SetStatus(ctx context.Context, id, status string) (*volunteerDatamodel.Volunteer, error) {
	switch status {
	case volunteerDatamodel.StatusPending, volunteerDatamodel.StatusApproved, volunteerDatamodel.StatusRejected:
	default:
		return nil, errors.NewValidationError("invalid application status", errors.ErrCodeValidationFailed)
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	s.logger.Info("volunteer application status changed", "volunteer_id", id, "status", status)
	return s.repo.GetByID(ctx, id)
}

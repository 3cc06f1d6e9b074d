package member

import (
	"context"
	"log/slog"

	errors "github.com/oba-canada/alumni-portal/internal"
	"github.com/oba-canada/alumni-portal/internal/core/common/validation"
	memberDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/member"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, id string) (*memberDatamodel.Member, error)
	GetByEmail(ctx context.Context, email string) (*memberDatamodel.Member, error)
	Create(ctx context.Context, m *memberDatamodel.Member) error
	Update(ctx context.Context, m *memberDatamodel.Member) error
	UpdateLastLogin(ctx context.Context, id string) error
	MarkPaid(ctx context.Context, id, stripeCustomerID string) error
	List(ctx context.Context, limit, offset int) ([]memberDatamodel.Member, error)
	Count(ctx context.Context) (int64, error)
}

type UpdateProfileRequest struct {
	FullName           *string `json:"full_name,omitempty"`
	TelephoneNumber    *string `json:"telephone_number,omitempty"`
	ResidentialAddress *string `json:"residential_address,omitempty"`
	PotentialMembers   *string `json:"potential_members,omitempty"`
	ProfileImage       *string `json:"profile_image,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	validator := validation.NewValidator()
	if r.FullName != nil {
		validator.Field("full_name", r.FullName).Required()
		validator.Field("full_name", *r.FullName).MaxLength(200)
	}

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

func (s *Service) GetMember(ctx context.Context, id string) (*memberDatamodel.Member, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile applies the member's own edits. Role, paid flag and email
// are not editable through this path.
func (s *Service) UpdateProfile(ctx context.Context, memberID string, req *UpdateProfileRequest) (*memberDatamodel.Member, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m, err := s.repo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		m.FullName = *req.FullName
	}
	if req.TelephoneNumber != nil {
		m.TelephoneNumber = *req.TelephoneNumber
	}
	if req.ResidentialAddress != nil {
		m.ResidentialAddress = *req.ResidentialAddress
	}
	if req.PotentialMembers != nil {
		m.PotentialMembers = *req.PotentialMembers
	}
	if req.ProfileImage != nil {
		m.ProfileImage = *req.ProfileImage
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("member profile updated", "member_id", m.ID)
	return m, nil
}

func (s *Service) ListMembers(ctx context.Context, limit, offset int) ([]memberDatamodel.Member, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	members, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

// SetRole lets a super admin change another member's role.
func (s *Service) SetRole(ctx context.Context, memberID, role string) (*memberDatamodel.Member, error) {
	switch role {
	case memberDatamodel.RoleMember, memberDatamodel.RoleAdmin, memberDatamodel.RoleSuperAdmin:
	default:
		return nil, errors.NewValidationError("invalid role", errors.ErrCodeValidationFailed)
	}

	m, err := s.repo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	m.Role = role
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("member role changed", "member_id", m.ID, "role", role)
	return m, nil
}

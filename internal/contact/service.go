package contact

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/oba-canada/alumni-portal/internal"
	"github.com/oba-canada/alumni-portal/internal/core/common/validation"
	contactDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/contact"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context, status string, limit, offset int) ([]contactDatamodel.Submission, error)
	GetByID(ctx context.Context, id string) (*contactDatamodel.Submission, error)
	Create(ctx context.Context, sub *contactDatamodel.Submission) error
	Update(ctx context.Context, sub *contactDatamodel.Submission) error
}

type SubmissionRequest struct {
	FullName     string `json:"full_name"`
	EmailAddress string `json:"email_address"`
	Subject      string `json:"subject"`
	PhoneNumber  string `json:"phone_number,omitempty"`
	Message      string `json:"message"`
	ConsentGiven bool   `json:"consent_given"`
}

func (r *SubmissionRequest) Validate() error {
	validator := validation.NewValidator()
	validator.Field("full_name", r.FullName).Required().MaxLength(200)
	validator.Field("email_address", r.EmailAddress).Required().Email()
	validator.Field("subject", r.Subject).Required().MaxLength(300)
	validator.Field("message", r.Message).Required()

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	if !r.ConsentGiven {
		return errors.NewValidationError("consent is required to process the submission", errors.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateSubmissionRequest struct {
	Status     string `json:"status,omitempty"`
	AdminNotes string `json:"admin_notes,omitempty"`
}

func (r *UpdateSubmissionRequest) Validate() error {
	if r.Status == "" {
		return nil
	}
	switch r.Status {
	case contactDatamodel.StatusNew, contactDatamodel.StatusRead,
		contactDatamodel.StatusResponded, contactDatamodel.StatusClosed:
		return nil
	}
	return errors.NewValidationError("invalid submission status", errors.ErrCodeValidationFailed)
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

// Submit records a public contact form submission. Consent is mandatory
// before anything is stored.
func (s *Service) Submit(ctx context.Context, req *SubmissionRequest) (*contactDatamodel.Submission, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sub := &contactDatamodel.Submission{
		FullName:     req.FullName,
		EmailAddress: req.EmailAddress,
		Subject:      req.Subject,
		PhoneNumber:  req.PhoneNumber,
		Message:      req.Message,
		ConsentGiven: req.ConsentGiven,
		Status:       contactDatamodel.StatusNew,
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("contact submission received", "submission_id", sub.ID)
	return sub, nil
}

func (s *Service) ListSubmissions(ctx context.Context, status string, limit, offset int) ([]contactDatamodel.Submission, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.GetAll(ctx, status, limit, offset)
}

func (s *Service) GetSubmission(ctx context.Context, id string) (*contactDatamodel.Submission, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateSubmission applies admin triage: status moves and internal notes.
// Entering responded stamps the response time once.
func (s *Service) UpdateSubmission(ctx context.Context, id string, req *UpdateSubmissionRequest) (*contactDatamodel.Submission, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != "" {
		if req.Status == contactDatamodel.StatusResponded && sub.RespondedAt == nil {
			now := time.Now().UTC()
			sub.RespondedAt = &now
		}
		sub.Status = req.Status
	}
	if req.AdminNotes != "" {
		sub.AdminNotes = req.AdminNotes
	}

	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

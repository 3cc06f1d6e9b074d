package event

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/oba-canada/alumni-portal/internal"
	"github.com/oba-canada/alumni-portal/internal/core/common/validation"
	eventDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/event"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context, publicOnly bool, upcomingOnly bool) ([]eventDatamodel.Event, error)
	GetByID(ctx context.Context, id string) (*eventDatamodel.Event, error)
	Create(ctx context.Context, e *eventDatamodel.Event) error
	Update(ctx context.Context, e *eventDatamodel.Event) error
	Delete(ctx context.Context, id string) error

	CreateRegistration(ctx context.Context, r *eventDatamodel.Registration) error
	GetRegistrationByEmail(ctx context.Context, eventID, email string) (*eventDatamodel.Registration, error)
	ListRegistrations(ctx context.Context, eventID string) ([]eventDatamodel.Registration, error)
	UpdateRegistrationStatus(ctx context.Context, id, status string) error
	CountRegistrationsByStatus(ctx context.Context, eventID string) (map[string]int64, error)
}

type EventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	EventDate   time.Time `json:"event_date"`
	Location    string    `json:"location,omitempty"`
	IsPublic    *bool     `json:"is_public,omitempty"`
}

func (r *EventRequest) Validate() error {
	validator := validation.NewValidator()
	validator.Field("title", r.Title).Required().MaxLength(300)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	if r.EventDate.IsZero() {
		return errors.NewValidationError("event_date is required", errors.ErrCodeValidationFailed)
	}
	return nil
}

// RegisterInterestRequest is the public form for the register-interest
// button. No account is required.
type RegisterInterestRequest struct {
	EventID     string `json:"event_id"`
	MemberName  string `json:"member_name"`
	MemberEmail string `json:"member_email"`
	Notes       string `json:"notes,omitempty"`
}

func (r *RegisterInterestRequest) Validate() error {
	validator := validation.NewValidator()
	validator.Field("event_id", r.EventID).Required()
	validator.Field("member_name", r.MemberName).Required()
	validator.Field("member_email", r.MemberEmail).Required().Email()

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

func (s *Service) ListEvents(ctx context.Context, includePrivate, upcomingOnly bool) ([]eventDatamodel.Event, error) {
	return s.repo.GetAll(ctx, !includePrivate, upcomingOnly)
}

func (s *Service) GetEvent(ctx context.Context, id string) (*eventDatamodel.Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) CreateEvent(ctx context.Context, req *EventRequest) (*eventDatamodel.Event, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	e := &eventDatamodel.Event{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate,
		Location:    req.Location,
		IsPublic:    true,
	}
	if req.IsPublic != nil {
		e.IsPublic = *req.IsPublic
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	s.logger.Info("event created", "event_id", e.ID, "title", e.Title)
	return e, nil
}

func (s *Service) UpdateEvent(ctx context.Context, id string, req *EventRequest) (*eventDatamodel.Event, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	e.Title = req.Title
	e.Description = req.Description
	e.EventDate = req.EventDate
	e.Location = req.Location
	if req.IsPublic != nil {
		e.IsPublic = *req.IsPublic
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// RegisterInterest records a visitor's interest in an event. Registering
// twice with the same email is a conflict, not a duplicate row.
func (s *Service) RegisterInterest(ctx context.Context, req *RegisterInterestRequest) (*eventDatamodel.Registration, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	e, err := s.repo.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetRegistrationByEmail(ctx, e.ID, req.MemberEmail); err == nil && existing != nil {
		return nil, errors.NewConflictError("Already registered for this event", errors.ErrCodeValidationFailed)
	}

	reg := &eventDatamodel.Registration{
		EventID:     e.ID,
		EventTitle:  e.Title,
		MemberName:  req.MemberName,
		MemberEmail: req.MemberEmail,
		Notes:       req.Notes,
		Status:      eventDatamodel.RegistrationInterested,
	}
	if memberID := errors.MemberIDFromContext(ctx); memberID != "" {
		reg.MemberID = &memberID
	}

	if err := s.repo.CreateRegistration(ctx, reg); err != nil {
		return nil, err
	}

	s.logger.Info("event interest registered", "event_id", e.ID, "registration_id", reg.ID)
	return reg, nil
}

func (s *Service) ListRegistrations(ctx context.Context, eventID string) ([]eventDatamodel.Registration, error) {
	if _, err := s.repo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListRegistrations(ctx, eventID)
}

func (s *Service) UpdateRegistrationStatus(ctx context.Context, id, status string) error {
	switch status {
	case eventDatamodel.RegistrationInterested, eventDatamodel.RegistrationConfirmed, eventDatamodel.RegistrationCancelled:
	default:
		return errors.NewValidationError("invalid registration status", errors.ErrCodeValidationFailed)
	}
	return s.repo.UpdateRegistrationStatus(ctx, id, status)
}

func (s *Service) RegistrationStats(ctx context.Context, eventID string) (map[string]int64, error) {
	if _, err := s.repo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.CountRegistrationsByStatus(ctx, eventID)
}

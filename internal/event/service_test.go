package event_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/oba-canada/alumni-portal/internal"
	eventDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/event"
	eventPkg "github.com/oba-canada/alumni-portal/internal/event"
)

func TestEventService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Event Service Suite")
}

// Mock repository for testing
type mockEventRepo struct {
	events        map[string]*eventDatamodel.Event
	registrations map[string]*eventDatamodel.Registration
	nextID        int
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{
		events:        make(map[string]*eventDatamodel.Event),
		registrations: make(map[string]*eventDatamodel.Registration),
	}
}

func (m *mockEventRepo) GetAll(ctx context.Context, publicOnly, upcomingOnly bool) ([]eventDatamodel.Event, error) {
	var out []eventDatamodel.Event
	for _, e := range m.events {
		if publicOnly && !e.IsPublic {
			continue
		}
		if upcomingOnly && e.EventDate.Before(time.Now()) {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (m *mockEventRepo) GetByID(ctx context.Context, id string) (*eventDatamodel.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("event not found", apperrors.ErrCodeRecordNotFound)
	}
	return e, nil
}

func (m *mockEventRepo) Create(ctx context.Context, e *eventDatamodel.Event) error {
	m.nextID++
	if e.ID == "" {
		e.ID = fmt.Sprintf("event-%d", m.nextID)
	}
	m.events[e.ID] = e
	return nil
}

func (m *mockEventRepo) Update(ctx context.Context, e *eventDatamodel.Event) error {
	m.events[e.ID] = e
	return nil
}

func (m *mockEventRepo) Delete(ctx context.Context, id string) error {
	delete(m.events, id)
	return nil
}

func (m *mockEventRepo) CreateRegistration(ctx context.Context, r *eventDatamodel.Registration) error {
	m.nextID++
	if r.ID == "" {
		r.ID = fmt.Sprintf("reg-%d", m.nextID)
	}
	m.registrations[r.ID] = r
	return nil
}

func (m *mockEventRepo) GetRegistrationByEmail(ctx context.Context, eventID, email string) (*eventDatamodel.Registration, error) {
	for _, r := range m.registrations {
		if r.EventID == eventID && r.MemberEmail == email {
			return r, nil
		}
	}
	return nil, nil
}

func (m *mockEventRepo) ListRegistrations(ctx context.Context, eventID string) ([]eventDatamodel.Registration, error) {
	var out []eventDatamodel.Registration
	for _, r := range m.registrations {
		if r.EventID == eventID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockEventRepo) UpdateRegistrationStatus(ctx context.Context, id, status string) error {
	r, ok := m.registrations[id]
	if !ok {
		return apperrors.NewNotFoundError("registration not found", apperrors.ErrCodeRecordNotFound)
	}
	r.Status = status
	return nil
}

func (m *mockEventRepo) CountRegistrationsByStatus(ctx context.Context, eventID string) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, r := range m.registrations {
		if r.EventID == eventID {
			out[r.Status]++
		}
	}
	return out, nil
}

var _ = Describe("EventService", func() {
	var (
		service *eventPkg.Service
		repo    *mockEventRepo
		ctx     context.Context
	)

	BeforeEach(func() {
		repo = newMockEventRepo()
		ctx = context.Background()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = eventPkg.NewService(repo, logger)
	})

	addEvent := func(title string, public bool) *eventDatamodel.Event {
		e := &eventDatamodel.Event{
			Title:     title,
			EventDate: time.Now().Add(30 * 24 * time.Hour),
			IsPublic:  public,
		}
		Expect(repo.Create(ctx, e)).To(Succeed())
		return e
	}

	Describe("ListEvents", func() {
		It("should hide private events from the public listing", func() {
			// Given
			addEvent("Reunion Dinner", true)
			addEvent("Board Meeting", false)

			// When
			public, err := service.ListEvents(ctx, false, false)
			all, err2 := service.ListEvents(ctx, true, false)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(err2).ToNot(HaveOccurred())
			Expect(public).To(HaveLen(1))
			Expect(all).To(HaveLen(2))
		})
	})

	Describe("CreateEvent", func() {
		It("should require a title and a date", func() {
			// When
			_, err := service.CreateEvent(ctx, &eventPkg.EventRequest{Title: ""})

			// Then
			Expect(err).To(HaveOccurred())
		})

		It("should default to public", func() {
			// When
			e, err := service.CreateEvent(ctx, &eventPkg.EventRequest{
				Title:     "Homecoming",
				EventDate: time.Now().Add(24 * time.Hour),
			})

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(e.IsPublic).To(BeTrue())
		})
	})

	Describe("RegisterInterest", func() {
		var e *eventDatamodel.Event

		BeforeEach(func() {
			e = addEvent("Reunion Dinner", true)
		})

		It("should record a registration with the interested status", func() {
			// When
			reg, err := service.RegisterInterest(ctx, &eventPkg.RegisterInterestRequest{
				EventID:     e.ID,
				MemberName:  "Ade Balogun",
				MemberEmail: "ade@example.com",
			})

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(reg.Status).To(Equal(eventDatamodel.RegistrationInterested))
			Expect(reg.EventTitle).To(Equal("Reunion Dinner"))
		})

		It("should attach the member id when the caller is authenticated", func() {
			// Given
			authedCtx := apperrors.ContextWithMemberID(ctx, "member-7")

			// When
			reg, err := service.RegisterInterest(authedCtx, &eventPkg.RegisterInterestRequest{
				EventID:     e.ID,
				MemberName:  "Ade Balogun",
				MemberEmail: "ade@example.com",
			})

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(reg.MemberID).ToNot(BeNil())
			Expect(*reg.MemberID).To(Equal("member-7"))
		})

		It("should reject a duplicate registration for the same email", func() {
			// Given
			req := &eventPkg.RegisterInterestRequest{
				EventID:     e.ID,
				MemberName:  "Ade Balogun",
				MemberEmail: "ade@example.com",
			}
			_, err := service.RegisterInterest(ctx, req)
			Expect(err).ToNot(HaveOccurred())

			// When
			_, err = service.RegisterInterest(ctx, req)

			// Then
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(409))
		})

		It("should fail for an unknown event", func() {
			// When
			_, err := service.RegisterInterest(ctx, &eventPkg.RegisterInterestRequest{
				EventID:     "nope",
				MemberName:  "Ade Balogun",
				MemberEmail: "ade@example.com",
			})

			// Then
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("UpdateRegistrationStatus", func() {
		It("should reject statuses outside the known set", func() {
			// When
			err := service.UpdateRegistrationStatus(ctx, "reg-1", "maybe")

			// Then
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("RegistrationStats", func() {
		It("should count registrations by status", func() {
			// Given
			e := addEvent("Reunion Dinner", true)
			for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
				reg, err := service.RegisterInterest(ctx, &eventPkg.RegisterInterestRequest{
					EventID:     e.ID,
					MemberName:  "Guest",
					MemberEmail: email,
				})
				Expect(err).ToNot(HaveOccurred())
				if i == 0 {
					Expect(service.UpdateRegistrationStatus(ctx, reg.ID, eventDatamodel.RegistrationConfirmed)).To(Succeed())
				}
			}

			// When
			stats, err := service.RegistrationStats(ctx, e.ID)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(stats[eventDatamodel.RegistrationConfirmed]).To(Equal(int64(1)))
			Expect(stats[eventDatamodel.RegistrationInterested]).To(Equal(int64(2)))
		})
	})
})

package contact_test

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
	contactPkg "github.com/oba-canada/alumni-portal/internal/contact"
	contactDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/contact"
)

func TestContactService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Contact Service Suite")
}

// Mock repository for testing
type mockContactRepo struct {
	submissions map[string]*contactDatamodel.Submission
	nextID      int
}

func newMockContactRepo() *mockContactRepo {
	return &mockContactRepo{submissions: make(map[string]*contactDatamodel.Submission)}
}

func (m *mockContactRepo) GetAll(ctx context.Context, status string, limit, offset int) ([]contactDatamodel.Submission, error) {
	var out []contactDatamodel.Submission
	for _, s := range m.submissions {
		if status != "" && s.Status != status {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockContactRepo) GetByID(ctx context.Context, id string) (*contactDatamodel.Submission, error) {
	s, ok := m.submissions[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("submission not found", apperrors.ErrCodeRecordNotFound)
	}
	return s, nil
}

func (m *mockContactRepo) Create(ctx context.Context, sub *contactDatamodel.Submission) error {
	m.nextID++
	if sub.ID == "" {
		sub.ID = fmt.Sprintf("sub-%d", m.nextID)
	}
	m.submissions[sub.ID] = sub
	return nil
}

func (m *mockContactRepo) Update(ctx context.Context, sub *contactDatamodel.Submission) error {
	m.submissions[sub.ID] = sub
	return nil
}

var _ = Describe("ContactService", func() {
	var (
		service *contactPkg.Service
		repo    *mockContactRepo
		ctx     context.Context
	)

	BeforeEach(func() {
		repo = newMockContactRepo()
		ctx = context.Background()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = contactPkg.NewService(repo, logger)
	})

	validRequest := func() *contactPkg.SubmissionRequest {
		return &contactPkg.SubmissionRequest{
			FullName:     "Funke Adeyemi",
			EmailAddress: "funke@example.com",
			Subject:      "Reunion enquiry",
			Message:      "When is the next reunion?",
			ConsentGiven: true,
		}
	}

	Describe("Submit", func() {
		It("should store the submission with the new status", func() {
			// When
			sub, err := service.Submit(ctx, validRequest())

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(sub.Status).To(Equal(contactDatamodel.StatusNew))
			Expect(sub.ID).ToNot(BeEmpty())
		})

		It("should refuse submissions without consent", func() {
			// Given
			req := validRequest()
			req.ConsentGiven = false

			// When
			_, err := service.Submit(ctx, req)

			// Then
			Expect(err).To(HaveOccurred())
			Expect(repo.submissions).To(BeEmpty())
		})
	})

	Describe("UpdateSubmission", func() {
		var sub *contactDatamodel.Submission

		BeforeEach(func() {
			var err error
			sub, err = service.Submit(ctx, validRequest())
			Expect(err).ToNot(HaveOccurred())
		})

		It("should stamp the response time once on the first responded move", func() {
			// When
			updated, err := service.UpdateSubmission(ctx, sub.ID, &contactPkg.UpdateSubmissionRequest{
				Status: contactDatamodel.StatusResponded,
			})

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.RespondedAt).ToNot(BeNil())
			stamped := *updated.RespondedAt

			// And a later status churn keeps the original stamp
			time.Sleep(5 * time.Millisecond)
			_, err = service.UpdateSubmission(ctx, sub.ID, &contactPkg.UpdateSubmissionRequest{
				Status: contactDatamodel.StatusClosed,
			})
			Expect(err).ToNot(HaveOccurred())
			again, err := service.UpdateSubmission(ctx, sub.ID, &contactPkg.UpdateSubmissionRequest{
				Status: contactDatamodel.StatusResponded,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(again.RespondedAt.Equal(stamped)).To(BeTrue())
		})

		It("should reject unknown statuses", func() {
			// When
			_, err := service.UpdateSubmission(ctx, sub.ID, &contactPkg.UpdateSubmissionRequest{
				Status: "spam",
			})

			// Then
			Expect(err).To(HaveOccurred())
		})
	})
})

package auth_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/oba-canada/alumni-portal/internal"
	"github.com/oba-canada/alumni-portal/internal/auth"
	"github.com/oba-canada/alumni-portal/internal/core/datamodel/member"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Suite")
}

// Mock member repository for testing
type mockMemberRepo struct {
	byEmail    map[string]*member.Member
	byID       map[string]*member.Member
	createErr  error
	lastLogins []string
}

func newMockMemberRepo() *mockMemberRepo {
	return &mockMemberRepo{
		byEmail: make(map[string]*member.Member),
		byID:    make(map[string]*member.Member),
	}
}

func (m *mockMemberRepo) add(mm *member.Member) {
	m.byEmail[mm.EmailAddress] = mm
	m.byID[mm.ID] = mm
}

func (m *mockMemberRepo) GetByEmail(ctx context.Context, email string) (*member.Member, error) {
	mm, ok := m.byEmail[email]
	if !ok {
		return nil, apperrors.ErrMemberNotFound
	}
	return mm, nil
}

func (m *mockMemberRepo) GetByID(ctx context.Context, id string) (*member.Member, error) {
	mm, ok := m.byID[id]
	if !ok {
		return nil, apperrors.ErrMemberNotFound
	}
	return mm, nil
}

func (m *mockMemberRepo) Create(ctx context.Context, mm *member.Member) error {
	if m.createErr != nil {
		return m.createErr
	}
	if mm.ID == "" {
		mm.ID = "member-" + mm.EmailAddress
	}
	m.add(mm)
	return nil
}

func (m *mockMemberRepo) UpdateLastLogin(ctx context.Context, id string) error {
	m.lastLogins = append(m.lastLogins, id)
	return nil
}

var _ = Describe("AuthService", func() {
	var (
		service *auth.Service
		repo    *mockMemberRepo
		ctx     context.Context
	)

	BeforeEach(func() {
		repo = newMockMemberRepo()
		ctx = context.Background()
		tokenGen := auth.NewJWTTokenGenerator(
			"test-access-secret-0123456789abcdef",
			"test-refresh-secret-0123456789abcdef",
			15*time.Minute,
			7*24*time.Hour,
		)
		service = auth.NewService(repo, tokenGen, bcrypt.MinCost)
	})

	addMember := func(email, password string, active bool) *member.Member {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		Expect(err).ToNot(HaveOccurred())
		m := &member.Member{
			ID:           "member-" + email,
			FullName:     "Test Member",
			EmailAddress: email,
			PasswordHash: string(hash),
			Role:         member.RoleMember,
			IsActive:     active,
		}
		repo.add(m)
		return m
	}

	Describe("Signup", func() {
		var dto auth.SignupDTO

		BeforeEach(func() {
			dto = auth.SignupDTO{
				FullName:     "Ngozi Eze",
				EmailAddress: "ngozi@example.com",
				Password:     "correct-horse",
				YearOfEntry:  1998,
			}
		})

		Context("when the form is valid", func() {
			It("should create an active member with the member role", func() {
				// When
				m, err := service.Signup(ctx, dto)

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(m.Role).To(Equal(member.RoleMember))
				Expect(m.IsActive).To(BeTrue())
				Expect(m.PasswordHash).ToNot(Equal(dto.Password))
			})
		})

		Context("when the email is already registered", func() {
			It("should return an email-taken error", func() {
				// Given
				addMember("ngozi@example.com", "whatever", true)

				// When
				_, err := service.Signup(ctx, dto)

				// Then
				Expect(err).To(MatchError(apperrors.ErrEmailTaken))
			})
		})

		Context("when the password is too short", func() {
			It("should fail validation", func() {
				// Given
				dto.Password = "short"

				// When
				_, err := service.Signup(ctx, dto)

				// Then
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("Authenticate", func() {
		BeforeEach(func() {
			addMember("ade@example.com", "correct-horse", true)
		})

		Context("when credentials are valid", func() {
			It("should return tokens and record the login", func() {
				// When
				tokens, m, err := service.Authenticate(ctx, auth.LoginDTO{
					Email:    "ade@example.com",
					Password: "correct-horse",
				})

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(tokens.AccessToken).ToNot(BeEmpty())
				Expect(tokens.RefreshToken).ToNot(BeEmpty())
				Expect(m.EmailAddress).To(Equal("ade@example.com"))
				Expect(repo.lastLogins).To(ContainElement(m.ID))
			})
		})

		Context("when the password is wrong", func() {
			It("should return invalid credentials", func() {
				// When
				_, _, err := service.Authenticate(ctx, auth.LoginDTO{
					Email:    "ade@example.com",
					Password: "wrong",
				})

				// Then
				Expect(err).To(MatchError(apperrors.ErrInvalidCredentials))
			})
		})

		Context("when the email is unknown", func() {
			It("should return invalid credentials, not a not-found leak", func() {
				// When
				_, _, err := service.Authenticate(ctx, auth.LoginDTO{
					Email:    "nobody@example.com",
					Password: "correct-horse",
				})

				// Then
				Expect(err).To(MatchError(apperrors.ErrInvalidCredentials))
			})
		})

		Context("when the account is inactive", func() {
			It("should refuse login", func() {
				// Given
				addMember("gone@example.com", "correct-horse", false)

				// When
				_, _, err := service.Authenticate(ctx, auth.LoginDTO{
					Email:    "gone@example.com",
					Password: "correct-horse",
				})

				// Then
				Expect(err).To(MatchError(apperrors.ErrAccountInactive))
			})
		})
	})

	Describe("RefreshTokens", func() {
		It("should issue a fresh pair for a valid refresh token", func() {
			// Given
			addMember("ade@example.com", "correct-horse", true)
			tokens, _, err := service.Authenticate(ctx, auth.LoginDTO{
				Email:    "ade@example.com",
				Password: "correct-horse",
			})
			Expect(err).ToNot(HaveOccurred())

			// When
			fresh, err := service.RefreshTokens(ctx, tokens.RefreshToken)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(fresh.AccessToken).ToNot(BeEmpty())
		})

		It("should reject garbage tokens", func() {
			// When
			_, err := service.RefreshTokens(ctx, "not-a-jwt")

			// Then
			Expect(err).To(MatchError(apperrors.ErrInvalidToken))
		})

		It("should refuse tokens for deactivated members", func() {
			// Given
			m := addMember("ade@example.com", "correct-horse", true)
			tokens, _, err := service.Authenticate(ctx, auth.LoginDTO{
				Email:    "ade@example.com",
				Password: "correct-horse",
			})
			Expect(err).ToNot(HaveOccurred())
			m.IsActive = false

			// When
			_, err = service.RefreshTokens(ctx, tokens.RefreshToken)

			// Then
			Expect(err).To(MatchError(apperrors.ErrAccountInactive))
		})
	})

	Describe("ValidateAccessToken", func() {
		It("should round-trip the member claims", func() {
			// Given
			addMember("ade@example.com", "correct-horse", true)
			tokens, m, err := service.Authenticate(ctx, auth.LoginDTO{
				Email:    "ade@example.com",
				Password: "correct-horse",
			})
			Expect(err).ToNot(HaveOccurred())

			// When
			claims, err := service.ValidateAccessToken(tokens.AccessToken)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(claims.MemberID).To(Equal(m.ID))
			Expect(claims.Role).To(Equal(member.RoleMember))
		})
	})
})

package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/oba-canada/alumni-portal/internal"
	"github.com/oba-canada/alumni-portal/internal/auth"
	"github.com/oba-canada/alumni-portal/internal/core/datamodel/member"
)

// Mock auth service for handler tests
type mockAuthService struct {
	members map[string]*member.Member
	claims  map[string]*auth.Claims
}

func newMockAuthService() *mockAuthService {
	return &mockAuthService{
		members: make(map[string]*member.Member),
		claims:  make(map[string]*auth.Claims),
	}
}

func (m *mockAuthService) Signup(ctx context.Context, dto auth.SignupDTO) (*member.Member, error) {
	return nil, apperrors.NewInternalError("not implemented", nil)
}

func (m *mockAuthService) Authenticate(ctx context.Context, dto auth.LoginDTO) (auth.AuthTokens, *member.Member, error) {
	return auth.AuthTokens{}, nil, apperrors.ErrInvalidCredentials
}

func (m *mockAuthService) RefreshTokens(ctx context.Context, refreshToken string) (auth.AuthTokens, error) {
	return auth.AuthTokens{}, apperrors.ErrInvalidToken
}

func (m *mockAuthService) ValidateAccessToken(tokenString string) (*auth.Claims, error) {
	claims, ok := m.claims[tokenString]
	if !ok {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

func (m *mockAuthService) GetMember(ctx context.Context, memberID string) (*member.Member, error) {
	mm, ok := m.members[memberID]
	if !ok {
		return nil, apperrors.ErrMemberNotFound
	}
	return mm, nil
}

var _ = Describe("AuthHandler middleware", func() {
	var (
		handler *auth.Handler
		service *mockAuthService
		reached bool
		next    http.Handler
	)

	issueToken := func(token, role string, active bool) {
		id := "member-" + token
		service.claims[token] = &auth.Claims{MemberID: id, Role: role}
		service.members[id] = &member.Member{
			ID:       id,
			Role:     role,
			IsActive: active,
		}
	}

	BeforeEach(func() {
		service = newMockAuthService()
		handler = auth.NewHandler(service)
		reached = false
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			w.WriteHeader(http.StatusOK)
		})
	})

	Describe("AuthMiddleware", func() {
		It("should reject requests without a bearer token", func() {
			// When
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/members/me", nil)
			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			// Then
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(reached).To(BeFalse())
		})

		It("should reject unknown tokens", func() {
			// When
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/members/me", nil)
			req.Header.Set("Authorization", "Bearer bogus")
			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			// Then
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(reached).To(BeFalse())
		})

		It("should reject tokens for deactivated members", func() {
			// Given
			issueToken("tok-inactive", member.RoleMember, false)

			// When
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/members/me", nil)
			req.Header.Set("Authorization", "Bearer tok-inactive")
			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			// Then
			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(reached).To(BeFalse())
		})

		It("should load the member into the context and continue", func() {
			// Given
			issueToken("tok-ok", member.RoleMember, true)
			var seen *member.Member
			inspect := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = auth.MemberFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			// When
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/members/me", nil)
			req.Header.Set("Authorization", "Bearer tok-ok")
			handler.AuthMiddleware(inspect).ServeHTTP(rec, req)

			// Then
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(seen).ToNot(BeNil())
			Expect(seen.ID).To(Equal("member-tok-ok"))
		})
	})

	Describe("RequireRole", func() {
		adminOnly := func() http.Handler {
			guard := handler.RequireRole(member.RoleAdmin, member.RoleSuperAdmin)
			return handler.AuthMiddleware(guard(next))
		}

		It("should reject plain members", func() {
			// Given
			issueToken("tok-member", member.RoleMember, true)

			// When
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
			req.Header.Set("Authorization", "Bearer tok-member")
			adminOnly().ServeHTTP(rec, req)

			// Then
			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(reached).To(BeFalse())
		})

		It("should admit admins", func() {
			// Given
			issueToken("tok-admin", member.RoleAdmin, true)

			// When
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
			req.Header.Set("Authorization", "Bearer tok-admin")
			adminOnly().ServeHTTP(rec, req)

			// Then
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(reached).To(BeTrue())
		})

		It("should admit super admins", func() {
			// Given
			issueToken("tok-super", member.RoleSuperAdmin, true)

			// When
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
			req.Header.Set("Authorization", "Bearer tok-super")
			adminOnly().ServeHTTP(rec, req)

			// Then
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(reached).To(BeTrue())
		})

		It("should reject requests that skipped authentication", func() {
			// When the guard runs without the auth middleware
			guard := handler.RequireRole(member.RoleAdmin)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
			guard(next).ServeHTTP(rec, req)

			// Then
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(reached).To(BeFalse())
		})
	})
})

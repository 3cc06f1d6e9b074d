package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	errors "github.com/oba-canada/alumni-portal/internal"
	"github.com/oba-canada/alumni-portal/internal/core/datamodel/member"
	"github.com/oba-canada/alumni-portal/internal/transport"
	"github.com/oba-canada/alumni-portal/pkg/logger"
)

type ServiceAPI interface {
	Signup(ctx context.Context, dto SignupDTO) (*member.Member, error)
	Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, *member.Member, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetMember(ctx context.Context, memberID string) (*member.Member, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// MemberResponse is the public view of a member, password hash excluded.
type MemberResponse struct {
	ID           string `json:"id"`
	FullName     string `json:"full_name"`
	EmailAddress string `json:"email_address"`
	YearOfEntry  int    `json:"year_of_entry"`
	Role         string `json:"role"`
	IsPaid       bool   `json:"is_paid"`
}

func toMemberResponse(m *member.Member) MemberResponse {
	return MemberResponse{
		ID:           m.ID,
		FullName:     m.FullName,
		EmailAddress: m.EmailAddress,
		YearOfEntry:  m.YearOfEntry,
		Role:         m.Role,
		IsPaid:       m.IsPaid,
	}
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var dto SignupDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	m, err := h.Service.Signup(r.Context(), dto)
	if err != nil {
		h.Logger.Error("signup failed", "email", dto.EmailAddress, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("member registered", "member_id", m.ID)
	h.WriteJSON(w, http.StatusCreated, toMemberResponse(m))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	tokens, m, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.Logger.Error("authentication failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"member":        toMemberResponse(m),
	})
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), dto.RefreshToken)
	if err != nil {
		h.Logger.Error("token refresh failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.HandleError(w, errors.NewUnauthorizedError("missing authorization token", errors.ErrCodeInvalidToken))
		return
	}

	if _, err := h.Service.ValidateAccessToken(token); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AuthMiddleware validates the bearer token and loads the member into the
// request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.HandleError(w, errors.NewUnauthorizedError("missing authorization token", errors.ErrCodeInvalidToken))
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Warn("token validation failed", "error", err)
			h.HandleServiceError(w, err)
			return
		}

		m, err := h.Service.GetMember(r.Context(), claims.MemberID)
		if err != nil {
			h.Logger.Warn("auth middleware: member behind token not found", "member_id", claims.MemberID)
			h.HandleError(w, errors.ErrInvalidToken)
			return
		}
		if !m.IsActive {
			h.HandleError(w, errors.ErrAccountInactive)
			return
		}

		ctx := context.WithValue(r.Context(), ContextUserKey, m)
		ctx = errors.ContextWithMemberID(ctx, m.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a route group to the given roles. The back-office
// passes admin and super_admin; there is deliberately a single guard so
// every admin surface shares the same rule.
func (h *Handler) RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m, ok := MemberFromContext(r.Context())
			if !ok {
				h.HandleError(w, errors.NewUnauthorizedError("authentication required", errors.ErrCodeInvalidToken))
				return
			}
			if !allowed[m.Role] {
				h.Logger.Warn("role guard rejected request",
					"member_id", m.ID, "role", m.Role, "path", r.URL.Path)
				h.HandleError(w, errors.ErrInsufficientRole)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetCurrentMember handles GET /members/me.
func (h *Handler) GetCurrentMember(w http.ResponseWriter, r *http.Request) {
	m, ok := MemberFromContext(r.Context())
	if !ok {
		h.HandleError(w, errors.NewUnauthorizedError("authentication required", errors.ErrCodeInvalidToken))
		return
	}
	h.WriteJSON(w, http.StatusOK, toMemberResponse(m))
}

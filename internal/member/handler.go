package member

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	errors "github.com/oba-canada/alumni-portal/internal"
	"github.com/oba-canada/alumni-portal/internal/auth"
	memberDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/member"
	"github.com/oba-canada/alumni-portal/internal/transport"
)

type ServiceAPI interface {
	GetMember(ctx context.Context, id string) (*memberDatamodel.Member, error)
	UpdateProfile(ctx context.Context, memberID string, req *UpdateProfileRequest) (*memberDatamodel.Member, error)
	ListMembers(ctx context.Context, limit, offset int) ([]memberDatamodel.Member, int64, error)
	SetRole(ctx context.Context, memberID, role string) (*memberDatamodel.Member, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: base,
		Service:     service,
	}
}

// ProfileResponse is the member-facing profile view.
type ProfileResponse struct {
	ID                 string `json:"id"`
	FullName           string `json:"full_name"`
	EmailAddress       string `json:"email_address"`
	YearOfEntry        int    `json:"year_of_entry"`
	TelephoneNumber    string `json:"telephone_number,omitempty"`
	ResidentialAddress string `json:"residential_address,omitempty"`
	PotentialMembers   string `json:"potential_members,omitempty"`
	ProfileImage       string `json:"profile_image,omitempty"`
	Role               string `json:"role"`
	IsPaid             bool   `json:"is_paid"`
	IsActive           bool   `json:"is_active"`
}

func toProfileResponse(m *memberDatamodel.Member) ProfileResponse {
	return ProfileResponse{
		ID:                 m.ID,
		FullName:           m.FullName,
		EmailAddress:       m.EmailAddress,
		YearOfEntry:        m.YearOfEntry,
		TelephoneNumber:    m.TelephoneNumber,
		ResidentialAddress: m.ResidentialAddress,
		PotentialMembers:   m.PotentialMembers,
		ProfileImage:       m.ProfileImage,
		Role:               m.Role,
		IsPaid:             m.IsPaid,
		IsActive:           m.IsActive,
	}
}

// UpdateProfile handles PATCH /api/v1/members/me
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	m, ok := auth.MemberFromContext(r.Context())
	if !ok {
		h.HandleError(w, errors.NewUnauthorizedError("authentication required", errors.ErrCodeInvalidToken))
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	updated, err := h.Service.UpdateProfile(r.Context(), m.ID, &req)
	if err != nil {
		h.Logger.Error("profile update failed", "member_id", m.ID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, toProfileResponse(updated))
}

// ListMembers handles GET /api/v1/admin/members
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	limit := transport.QueryInt(r, "limit", 50)
	offset := transport.QueryInt(r, "offset", 0)

	members, total, err := h.Service.ListMembers(r.Context(), limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	responses := make([]ProfileResponse, 0, len(members))
	for i := range members {
		responses = append(responses, toProfileResponse(&members[i]))
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"members": responses,
		"total":   total,
	})
}

// GetMember handles GET /api/v1/admin/members/{id}
func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	m, err := h.Service.GetMember(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, toProfileResponse(m))
}

// SetRole handles PATCH /api/v1/admin/members/{id}/role
func (h *Handler) SetRole(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	m, err := h.Service.SetRole(r.Context(), id, req.Role)
	if err != nil {
		h.Logger.Error("role change failed", "member_id", id, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, toProfileResponse(m))
}

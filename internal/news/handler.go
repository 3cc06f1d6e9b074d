package news

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	errors "github.com/oba-canada/alumni-portal/internal"
	newsDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/news"
	"github.com/oba-canada/alumni-portal/internal/transport"
)

type ServiceAPI interface {
	ListPublished(ctx context.Context, category string, limit, offset int) ([]newsDatamodel.Article, error)
	ListAll(ctx context.Context, limit, offset int) ([]newsDatamodel.Article, error)
	GetArticle(ctx context.Context, id string) (*newsDatamodel.Article, error)
	CreateArticle(ctx context.Context, req *ArticleRequest) (*newsDatamodel.Article, error)
	UpdateArticle(ctx context.Context, id string, req *ArticleRequest) (*newsDatamodel.Article, error)
	DeleteArticle(ctx context.Context, id string) error
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

// ListPublished handles GET /api/v1/news
func (h *Handler) ListPublished(w http.ResponseWriter, r *http.Request) {
	articles, err := h.Service.ListPublished(r.Context(),
		r.URL.Query().Get("category"),
		transport.QueryInt(r, "limit", 20),
		transport.QueryInt(r, "offset", 0))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"articles": articles,
	})
}

// GetArticle handles GET /api/v1/news/{id}. Unpublished articles are only
// visible through the admin listing.
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	a, err := h.Service.GetArticle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if !a.IsPublished {
		h.HandleError(w, errors.NewNotFoundError("Article not found", errors.ErrCodeRecordNotFound))
		return
	}
	h.WriteJSON(w, http.StatusOK, a)
}

// ListAll handles GET /api/v1/admin/news
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	articles, err := h.Service.ListAll(r.Context(),
		transport.QueryInt(r, "limit", 50),
		transport.QueryInt(r, "offset", 0))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"articles": articles,
	})
}

// CreateArticle handles POST /api/v1/admin/news
func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var req ArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	a, err := h.Service.CreateArticle(r.Context(), &req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, a)
}

// UpdateArticle handles PUT /api/v1/admin/news/{id}
func (h *Handler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	var req ArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	a, err := h.Service.UpdateArticle(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, a)
}

// DeleteArticle handles DELETE /api/v1/admin/news/{id}
func (h *Handler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteArticle(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

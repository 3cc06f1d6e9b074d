package admin

import (
	"context"
	"net/http"

	"github.com/oba-canada/alumni-portal/internal/transport"
)

type ServiceAPI interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	DonationStats(ctx context.Context) ([]CategoryTotal, error)
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

// Dashboard handles GET /api/v1/admin/dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Dashboard(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}

// DonationStats handles GET /api/v1/admin/donations/stats
func (h *Handler) DonationStats(w http.ResponseWriter, r *http.Request) {
	totals, err := h.Service.DonationStats(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": totals,
	})
}

package admin

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
)

// DashboardStats is the aggregate view the back-office landing page renders.
type DashboardStats struct {
	TotalMembers       int64           `json:"total_members"`
	PaidMembers        int64           `json:"paid_members"`
	PendingPayments    int64           `json:"pending_payments"`
	CompletedPayments  int64           `json:"completed_payments"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	DonationTotal      decimal.Decimal `json:"donation_total"`
	StoreOrderCount    int64           `json:"store_order_count"`
	UpcomingEvents     int64           `json:"upcoming_events"`
	PendingVolunteers  int64           `json:"pending_volunteers"`
	NewContactMessages int64           `json:"new_contact_messages"`
	PublishedArticles  int64           `json:"published_articles"`
}

// CategoryTotal is one row of the donation breakdown.
type CategoryTotal struct {
	Category string          `json:"category"`
	Count    int64           `json:"count"`
	Total    decimal.Decimal `json:"total"`
}

type RepositoryAPI interface {
	DashboardStats(ctx context.Context) (*DashboardStats, error)
	DonationTotalsByCategory(ctx context.Context) ([]CategoryTotal, error)
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

func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats, err := s.repo.DashboardStats(ctx)
	if err != nil {
		s.logger.Error("failed to build dashboard stats", "error", err)
		return nil, err
	}
	return stats, nil
}

func (s *Service) DonationStats(ctx context.Context) ([]CategoryTotal, error) {
	return s.repo.DonationTotalsByCategory(ctx)
}

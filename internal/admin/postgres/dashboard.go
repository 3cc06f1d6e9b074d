package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oba-canada/alumni-portal/internal/admin"
	contactDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/contact"
	eventDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/event"
	memberDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/member"
	newsDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/news"
	"github.com/oba-canada/alumni-portal/internal/core/datamodel/transaction"
	volunteerDatamodel "github.com/oba-canada/alumni-portal/internal/core/datamodel/volunteer"
)

type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) DashboardStats(ctx context.Context) (*admin.DashboardStats, error) {
	db := r.db.WithContext(ctx)
	stats := &admin.DashboardStats{}

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalMembers, db.Model(&memberDatamodel.Member{})},
		{&stats.PaidMembers, db.Model(&memberDatamodel.Member{}).Where("is_paid = ?", true)},
		{&stats.PendingPayments, db.Model(&transaction.Transaction{}).Where("status = ?", transaction.StatusPending)},
		{&stats.CompletedPayments, db.Model(&transaction.Transaction{}).Where("status = ?", transaction.StatusCompleted)},
		{&stats.StoreOrderCount, db.Model(&transaction.Transaction{}).
			Where("kind = ? AND status = ?", transaction.KindStorePurchase, transaction.StatusCompleted)},
		{&stats.UpcomingEvents, db.Model(&eventDatamodel.Event{}).Where("event_date >= ?", time.Now().UTC())},
		{&stats.PendingVolunteers, db.Model(&volunteerDatamodel.Volunteer{}).Where("status = ?", volunteerDatamodel.StatusPending)},
		{&stats.NewContactMessages, db.Model(&contactDatamodel.Submission{}).Where("status = ?", contactDatamodel.StatusNew)},
		{&stats.PublishedArticles, db.Model(&newsDatamodel.Article{}).Where("is_published = ?", true)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	type sumRow struct {
		Total string
	}

	var revenue sumRow
	err := db.Model(&transaction.Transaction{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("status = ?", transaction.StatusCompleted).
		Scan(&revenue).Error
	if err != nil {
		return nil, err
	}
	if stats.TotalRevenue, err = parseTotal(revenue.Total); err != nil {
		return nil, err
	}

	var donations sumRow
	err = db.Model(&transaction.Transaction{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("kind = ? AND status = ?", transaction.KindDonation, transaction.StatusCompleted).
		Scan(&donations).Error
	if err != nil {
		return nil, err
	}
	if stats.DonationTotal, err = parseTotal(donations.Total); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *DashboardRepository) DonationTotalsByCategory(ctx context.Context) ([]admin.CategoryTotal, error) {
	type row struct {
		Category string
		Count    int64
		Total    string
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&transaction.Transaction{}).
		Select("category, count(*) as count, COALESCE(SUM(amount), 0) as total").
		Where("kind = ? AND status = ?", transaction.KindDonation, transaction.StatusCompleted).
		Group("category").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make([]admin.CategoryTotal, 0, len(rows))
	for _, r := range rows {
		total, err := parseTotal(r.Total)
		if err != nil {
			return nil, err
		}
		totals = append(totals, admin.CategoryTotal{
			Category: r.Category,
			Count:    r.Count,
			Total:    total,
		})
	}
	return totals, nil
}

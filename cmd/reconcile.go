package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	memberpg "github.com/oba-canada/alumni-portal/internal/member/postgres"
	membershippg "github.com/oba-canada/alumni-portal/internal/membership/postgres"
	"github.com/oba-canada/alumni-portal/internal/payment"
	paymentpg "github.com/oba-canada/alumni-portal/internal/payment/postgres"
	"github.com/oba-canada/alumni-portal/internal/paymentgateway"
	storepg "github.com/oba-canada/alumni-portal/internal/store/postgres"
	"github.com/oba-canada/alumni-portal/pkg/logger"
)

var (
	reconcileCmd = &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile pending payments against the gateway",
		Long:  `Re-check pending payment transactions against the hosted checkout provider, settling paid sessions and failing expired ones. Useful after webhook downtime.`,
		Run: func(cmd *cobra.Command, args []string) {
			runReconcile()
		},
	}
	reconcileLimit int
)

func init() {
	reconcileCmd.Flags().IntVar(&reconcileLimit, "limit", 100, "Maximum number of pending transactions to check")
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(config.Observability.Logging.Format, config.Observability.Logging.Level)
	appLogger := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize orm: %v\n", err)
		os.Exit(1)
	}

	donationMinimum, err := config.Donations.Minimum()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid donation minimum: %v\n", err)
		os.Exit(1)
	}

	service := payment.NewService(
		paymentpg.NewTransactionRepository(gormDB),
		paymentgateway.NewStripeGateway(config.Stripe, appLogger),
		memberpg.NewMemberRepository(gormDB),
		membershippg.NewMembershipTypeRepository(gormDB),
		storepg.NewItemRepository(gormDB),
		payment.ServiceConfig{
			Currency:        config.Stripe.Currency,
			PublicBaseURL:   config.Stripe.PublicBaseURL,
			ShippingRegion:  config.Stripe.ShippingRegion,
			DonationMinimum: donationMinimum,
		},
		appLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	summary, err := service.ReconcilePending(ctx, reconcileLimit)
	if err != nil {
		appLogger.Error("reconcile failed", "error", err)
		os.Exit(1)
	}

	appLogger.Info("reconcile complete",
		"checked", summary.Checked,
		"settled", summary.Settled,
		"expired", summary.Expired,
		"skipped", summary.Skipped)
}

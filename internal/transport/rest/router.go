package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/oba-canada/alumni-portal/internal/admin"
	"github.com/oba-canada/alumni-portal/internal/auth"
	"github.com/oba-canada/alumni-portal/internal/contact"
	"github.com/oba-canada/alumni-portal/internal/core/datamodel/member"
	"github.com/oba-canada/alumni-portal/internal/event"
	memberpkg "github.com/oba-canada/alumni-portal/internal/member"
	"github.com/oba-canada/alumni-portal/internal/membership"
	"github.com/oba-canada/alumni-portal/internal/news"
	"github.com/oba-canada/alumni-portal/internal/payment"
	"github.com/oba-canada/alumni-portal/internal/store"
	"github.com/oba-canada/alumni-portal/internal/transport/middleware"
	"github.com/oba-canada/alumni-portal/internal/transport/swagger"
	"github.com/oba-canada/alumni-portal/internal/volunteer"
)

// Handlers bundles every mounted handler so route registration stays in one
// place.
type Handlers struct {
	Auth       *auth.Handler
	Member     *memberpkg.Handler
	Membership *membership.Handler
	Store      *store.Handler
	Event      *event.Handler
	News       *news.Handler
	Volunteer  *volunteer.Handler
	Contact    *contact.Handler
	Payment    *payment.Handler
	Webhook    *payment.WebhookHandler
	Admin      *admin.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORSWithOrigins(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	requireAdmin := h.Auth.RequireRole(member.RoleAdmin, member.RoleSuperAdmin)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Stripe events, verified by signature rather than bearer token.
		if h.Webhook != nil {
			r.Post("/payments/webhook", h.Webhook.HandleStripeWebhook)
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/signup", h.Auth.Signup)
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Public surfaces
		r.Get("/membership/types", h.Membership.ListTypes)
		r.Get("/membership/types/{id}", h.Membership.GetType)

		r.Route("/store", func(sr chi.Router) {
			sr.Get("/items", h.Store.ListItems)
			sr.Get("/items/{id}", h.Store.GetItem)
			sr.Post("/checkout", h.Payment.CreateStoreCheckout)
			sr.Post("/verify-payment", h.Payment.VerifyPayment)
		})

		r.Route("/donations", func(sr chi.Router) {
			sr.Post("/checkout", h.Payment.CreateDonationCheckout)
			sr.Post("/verify-payment", h.Payment.VerifyPayment)
		})

		r.Post("/membership/verify-payment", h.Payment.VerifyPayment)

		r.Route("/events", func(sr chi.Router) {
			sr.Get("/", h.Event.ListEvents)
			sr.Get("/{id}", h.Event.GetEvent)
			sr.Post("/register-interest", h.Event.RegisterInterest)
		})

		r.Route("/news", func(sr chi.Router) {
			sr.Get("/", h.News.ListPublished)
			sr.Get("/{id}", h.News.GetArticle)
		})

		r.Post("/volunteers/apply", h.Volunteer.Apply)
		r.Post("/contact", h.Contact.Submit)

		// Authenticated member routes
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/members/me", h.Auth.GetCurrentMember)
			pr.Patch("/members/me", h.Member.UpdateProfile)
			pr.Post("/membership/checkout", h.Payment.CreateMembershipCheckout)

			// Admin back-office, one shared role guard for every route.
			pr.Group(func(ar chi.Router) {
				ar.Use(requireAdmin)

				ar.Get("/admin/dashboard", h.Admin.Dashboard)

				ar.Get("/admin/members", h.Member.ListMembers)
				ar.Get("/admin/members/{id}", h.Member.GetMember)
				ar.Patch("/admin/members/{id}/role", h.Member.SetRole)

				ar.Post("/admin/membership-types", h.Membership.CreateType)
				ar.Put("/admin/membership-types/{id}", h.Membership.UpdateType)
				ar.Delete("/admin/membership-types/{id}", h.Membership.DeleteType)

				ar.Post("/admin/store/items", h.Store.CreateItem)
				ar.Put("/admin/store/items/{id}", h.Store.UpdateItem)
				ar.Delete("/admin/store/items/{id}", h.Store.DeleteItem)

				ar.Get("/admin/transactions", h.Payment.ListTransactions)
				ar.Get("/admin/transactions/{id}", h.Payment.GetTransaction)
				ar.Post("/admin/transactions/{id}/refund", h.Payment.RefundTransaction)
				ar.Patch("/admin/orders/{id}/fulfillment", h.Payment.UpdateFulfillment)
				ar.Get("/admin/donations/stats", h.Admin.DonationStats)

				ar.Post("/admin/events", h.Event.CreateEvent)
				ar.Put("/admin/events/{id}", h.Event.UpdateEvent)
				ar.Delete("/admin/events/{id}", h.Event.DeleteEvent)
				ar.Get("/admin/events/{id}/registrations", h.Event.ListRegistrations)
				ar.Patch("/admin/registrations/{id}", h.Event.UpdateRegistrationStatus)

				ar.Get("/admin/news", h.News.ListAll)
				ar.Post("/admin/news", h.News.CreateArticle)
				ar.Put("/admin/news/{id}", h.News.UpdateArticle)
				ar.Delete("/admin/news/{id}", h.News.DeleteArticle)

				ar.Get("/admin/volunteers", h.Volunteer.ListApplications)
				ar.Get("/admin/volunteers/{id}", h.Volunteer.GetApplication)
				ar.Patch("/admin/volunteers/{id}", h.Volunteer.SetStatus)

				ar.Get("/admin/contact", h.Contact.ListSubmissions)
				ar.Get("/admin/contact/{id}", h.Contact.GetSubmission)
				ar.Patch("/admin/contact/{id}", h.Contact.UpdateSubmission)
			})
		})
	})
}

package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dernek-backend/internal/handlers"
	"dernek-backend/internal/middleware"
	"dernek-backend/internal/models"
	"dernek-backend/internal/realtime"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	memberHandler *handlers.MemberHandler,
	duesHandler *handlers.DuesHandler,
	paymentHandler *handlers.PaymentHandler,
	debtHandler *handlers.DebtHandler,
	importHandler *handlers.ImportHandler,
	exportHandler *handlers.ExportHandler,
	eventHandler *handlers.EventHandler,
	announcementHandler *handlers.AnnouncementHandler,
	galleryHandler *handlers.GalleryHandler,
	transactionHandler *handlers.TransactionHandler,
	notificationHandler *handlers.NotificationHandler,
	totpHandler *handlers.TOTPHandler,
	healthHandler *handlers.HealthHandler,
	hub *realtime.Hub,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return authMiddleware.RequireRole(models.RoleAdmin, models.RoleRoot)(h).ServeHTTP
	}
	root := func(h http.HandlerFunc) http.HandlerFunc {
		return authMiddleware.RequireRole(models.RoleRoot)(h).ServeHTTP
	}

	// Public routes
	r.HandleFunc("/health", healthHandler.Check).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/api/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/2fa/verify", authHandler.Verify2FA).Methods("POST")

	// Realtime change feed for dashboards
	r.HandleFunc("/ws", hub.ServeWS)

	// Members
	membersAPI := r.PathPrefix("/api/members").Subrouter()
	membersAPI.Use(authMiddleware.Authenticate)
	membersAPI.HandleFunc("/me", memberHandler.Me).Methods("GET")
	membersAPI.HandleFunc("", admin(memberHandler.ListMembers)).Methods("GET")
	membersAPI.HandleFunc("", admin(memberHandler.CreateMember)).Methods("POST")
	membersAPI.HandleFunc("/{id}", admin(memberHandler.GetMember)).Methods("GET")
	membersAPI.HandleFunc("/{id}", admin(memberHandler.UpdateMember)).Methods("PUT")
	membersAPI.HandleFunc("/{id}", root(memberHandler.DeleteMember)).Methods("DELETE")

	// Dues catalog and obligations
	duesAPI := r.PathPrefix("/api/dues").Subrouter()
	duesAPI.Use(authMiddleware.Authenticate)
	duesAPI.HandleFunc("", duesHandler.ListDues).Methods("GET")
	duesAPI.HandleFunc("", admin(duesHandler.CreateDues)).Methods("POST")
	duesAPI.HandleFunc("/{id}", duesHandler.GetDues).Methods("GET")
	duesAPI.HandleFunc("/{id}", admin(duesHandler.UpdateDues)).Methods("PUT")
	duesAPI.HandleFunc("/{id}", root(duesHandler.DeleteDues)).Methods("DELETE")

	obligationsAPI := r.PathPrefix("/api/obligations").Subrouter()
	obligationsAPI.Use(authMiddleware.Authenticate)
	obligationsAPI.HandleFunc("", admin(duesHandler.ListObligations)).Methods("GET")

	// Payments
	paymentsAPI := r.PathPrefix("/api/payments").Subrouter()
	paymentsAPI.Use(authMiddleware.Authenticate)
	paymentsAPI.HandleFunc("", admin(paymentHandler.PostPayment)).Methods("POST")
	paymentsAPI.HandleFunc("/{id}", admin(paymentHandler.EditPayment)).Methods("PUT")
	paymentsAPI.HandleFunc("/{id}", root(paymentHandler.DeletePayment)).Methods("DELETE")

	// Debt aggregates
	debtsAPI := r.PathPrefix("/api/debts").Subrouter()
	debtsAPI.Use(authMiddleware.Authenticate)
	debtsAPI.HandleFunc("/summary", debtHandler.Summary).Methods("GET")
	debtsAPI.HandleFunc("/debtors", admin(debtHandler.Debtors)).Methods("GET")

	// Bulk imports
	importsAPI := r.PathPrefix("/api/imports").Subrouter()
	importsAPI.Use(authMiddleware.Authenticate)
	importsAPI.HandleFunc("/{kind}", admin(importHandler.Run)).Methods("POST")

	// Exports
	exportsAPI := r.PathPrefix("/api/exports").Subrouter()
	exportsAPI.Use(authMiddleware.Authenticate)
	exportsAPI.HandleFunc("/members.csv", admin(exportHandler.MembersCSV)).Methods("GET")
	exportsAPI.HandleFunc("/debtors.csv", admin(exportHandler.DebtorsCSV)).Methods("GET")
	exportsAPI.HandleFunc("/debtors.pdf", admin(exportHandler.DebtorsPDF)).Methods("GET")
	exportsAPI.HandleFunc("/dues/{id}.csv", admin(exportHandler.DuesReportCSV)).Methods("GET")
	exportsAPI.HandleFunc("/events/{id}.csv", admin(exportHandler.EventParticipantsCSV)).Methods("GET")
	exportsAPI.HandleFunc("/receipts/{id}.pdf", exportHandler.ReceiptPDF).Methods("GET")

	// Events
	eventsAPI := r.PathPrefix("/api/events").Subrouter()
	eventsAPI.Use(authMiddleware.Authenticate)
	eventsAPI.HandleFunc("", eventHandler.ListEvents).Methods("GET")
	eventsAPI.HandleFunc("", admin(eventHandler.CreateEvent)).Methods("POST")
	eventsAPI.HandleFunc("/{id}", eventHandler.GetEvent).Methods("GET")
	eventsAPI.HandleFunc("/{id}", admin(eventHandler.UpdateEvent)).Methods("PUT")
	eventsAPI.HandleFunc("/{id}", root(eventHandler.DeleteEvent)).Methods("DELETE")
	eventsAPI.HandleFunc("/{id}/rsvp", eventHandler.RSVP).Methods("POST")
	eventsAPI.HandleFunc("/{id}/rsvps", admin(eventHandler.ListRSVPs)).Methods("GET")

	// Announcements
	announcementsAPI := r.PathPrefix("/api/announcements").Subrouter()
	announcementsAPI.Use(authMiddleware.Authenticate)
	announcementsAPI.HandleFunc("", announcementHandler.List).Methods("GET")
	announcementsAPI.HandleFunc("", admin(announcementHandler.Create)).Methods("POST")
	announcementsAPI.HandleFunc("/{id}", admin(announcementHandler.Update)).Methods("PUT")
	announcementsAPI.HandleFunc("/{id}", root(announcementHandler.Delete)).Methods("DELETE")

	// Gallery
	galleryAPI := r.PathPrefix("/api/gallery").Subrouter()
	galleryAPI.Use(authMiddleware.Authenticate)
	galleryAPI.HandleFunc("", galleryHandler.List).Methods("GET")
	galleryAPI.HandleFunc("", admin(galleryHandler.Upload)).Methods("POST")
	galleryAPI.HandleFunc("/{id}", admin(galleryHandler.Delete)).Methods("DELETE")

	// Treasury
	transactionsAPI := r.PathPrefix("/api/transactions").Subrouter()
	transactionsAPI.Use(authMiddleware.Authenticate)
	transactionsAPI.HandleFunc("", admin(transactionHandler.List)).Methods("GET")
	transactionsAPI.HandleFunc("", admin(transactionHandler.Create)).Methods("POST")
	transactionsAPI.HandleFunc("/summary", admin(transactionHandler.Summary)).Methods("GET")
	transactionsAPI.HandleFunc("/{id}", root(transactionHandler.Delete)).Methods("DELETE")

	// Notifications
	notificationsAPI := r.PathPrefix("/api/notifications").Subrouter()
	notificationsAPI.Use(authMiddleware.Authenticate)
	notificationsAPI.HandleFunc("/email", admin(notificationHandler.SendBulkEmail)).Methods("POST")
	notificationsAPI.HandleFunc("/sms", admin(notificationHandler.SendBulkSMS)).Methods("POST")
	notificationsAPI.HandleFunc("/logs", admin(notificationHandler.ListLogs)).Methods("GET")

	// 2FA enrollment
	totpAPI := r.PathPrefix("/api/2fa").Subrouter()
	totpAPI.Use(authMiddleware.Authenticate)
	totpAPI.HandleFunc("/setup", admin(totpHandler.Setup)).Methods("POST")
	totpAPI.HandleFunc("/enable", admin(totpHandler.Enable)).Methods("POST")
	totpAPI.HandleFunc("/disable", admin(totpHandler.Disable)).Methods("POST")

	// System panel
	systemAPI := r.PathPrefix("/api/system").Subrouter()
	systemAPI.Use(authMiddleware.Authenticate)
	systemAPI.HandleFunc("/stats", root(healthHandler.SystemStats)).Methods("GET")

	return r
}

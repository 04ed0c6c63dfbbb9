package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"dernek-backend/internal/auth"
	"dernek-backend/internal/cache"
	"dernek-backend/internal/config"
	"dernek-backend/internal/database"
	"dernek-backend/internal/db"
	"dernek-backend/internal/email"
	"dernek-backend/internal/handlers"
	"dernek-backend/internal/health"
	dernekhttp "dernek-backend/internal/http"
	"dernek-backend/internal/middleware"
	"dernek-backend/internal/realtime"
	"dernek-backend/internal/repositories"
	"dernek-backend/internal/services"
	"dernek-backend/internal/sms"
	"dernek-backend/internal/storage"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	pool := db.Connect(cfg)
	defer pool.Close()

	migrator := database.NewMigrator(pool)
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}

	// Redis is optional; summaries fall back to direct queries without it
	cacheReady := true
	if err := cache.Init(); err != nil {
		log.Printf("[Cache] Redis unavailable, debt summaries uncached: %v", err)
		cacheReady = false
	}

	// Repositories
	memberRepo := repositories.NewMemberRepository(pool)
	duesRepo := repositories.NewDuesRepository(pool)
	obligationRepo := repositories.NewObligationRepository(pool)
	eventRepo := repositories.NewEventRepository(pool)
	announcementRepo := repositories.NewAnnouncementRepository(pool)
	galleryRepo := repositories.NewGalleryRepository(pool)
	transactionRepo := repositories.NewTransactionRepository(pool)
	notificationLogRepo := repositories.NewNotificationLogRepository(pool)
	totpRepo := repositories.NewTOTPRepository(pool)

	jwtManager := auth.NewJWTManager(cfg)

	// Outbound providers; both degrade to mocks when unconfigured so a dev
	// instance runs without credentials
	var emailProvider email.Provider
	if cfg.Mail.APIKey != "" {
		emailProvider = email.NewMailerSendProvider(cfg.Mail.APIKey, cfg.Mail.FromEmail, cfg.Mail.FromName)
	} else {
		log.Println("[Mail] MAILERSEND_API_KEY not set, using mock provider")
		emailProvider = email.NewMockProvider()
	}

	var smsProvider sms.Provider
	if cfg.SMS.APIKey != "" {
		smsProvider = sms.NewVatanSMSService(cfg.SMS.APIKey, cfg.SMS.Sender)
	} else {
		log.Println("[SMS] SMS_API_KEY not set, using mock provider")
		smsProvider = sms.NewMockSMSService()
	}
	smsProvider.SetLogRepository(notificationLogRepo)

	var mediaStore *storage.MediaStore
	if cfg.Storage.AccessKey != "" {
		var err error
		mediaStore, err = storage.NewMediaStore(cfg)
		if err != nil {
			log.Fatalf("Media storage init failed: %v", err)
		}
	} else {
		log.Println("[Storage] S3 credentials not configured, gallery uploads disabled")
	}

	hub := realtime.NewHub()

	// Services
	memberService := services.NewMemberService(memberRepo, jwtManager)
	duesService := services.NewDuesService(duesRepo, obligationRepo)
	paymentService := services.NewPaymentService(obligationRepo, duesRepo, memberRepo, transactionRepo, emailProvider, hub)
	debtService := services.NewDebtService(obligationRepo, cacheReady)
	importService := services.NewImportService(memberRepo, duesRepo, obligationRepo, paymentService)
	exportService := services.NewExportService(memberRepo, obligationRepo, obligationRepo, eventRepo)
	eventService := services.NewEventService(eventRepo, hub)
	announcementService := services.NewAnnouncementService(announcementRepo, hub)
	galleryService := services.NewGalleryService(galleryRepo, mediaStore)
	transactionService := services.NewTransactionService(transactionRepo)
	notificationService := services.NewNotificationService(memberRepo, obligationRepo, emailProvider, smsProvider, notificationLogRepo)
	totpService := services.NewTOTPService(totpRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(memberService, totpService, jwtManager)
	memberHandler := handlers.NewMemberHandler(memberService)
	duesHandler := handlers.NewDuesHandler(duesService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	debtHandler := handlers.NewDebtHandler(debtService)
	importHandler := handlers.NewImportHandler(importService)
	exportHandler := handlers.NewExportHandler(exportService)
	eventHandler := handlers.NewEventHandler(eventService)
	announcementHandler := handlers.NewAnnouncementHandler(announcementService)
	galleryHandler := handlers.NewGalleryHandler(galleryService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	notificationHandler := handlers.NewNotificationHandler(notificationService, notificationLogRepo)
	totpHandler := handlers.NewTOTPHandler(totpService, memberService)
	healthHandler := handlers.NewHealthHandler(health.NewHealthChecker(pool))

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, memberRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	router := dernekhttp.NewRouter(
		authHandler, memberHandler, duesHandler, paymentHandler, debtHandler,
		importHandler, exportHandler, eventHandler, announcementHandler,
		galleryHandler, transactionHandler, notificationHandler, totpHandler,
		healthHandler, hub, authMiddleware,
	)

	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

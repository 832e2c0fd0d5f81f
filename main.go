package main

import (
	"log"
	"os"

	api "itam-backend/cmd/api"
	authUsecase "itam-backend/internal/auth/usecase"
	"itam-backend/internal/campaign/scheduler"
	campaignUsecase "itam-backend/internal/campaign/usecase"
	"itam-backend/internal/employee/domain"
	employeeRepo "itam-backend/internal/employee/repository"
	employeeUsecase "itam-backend/internal/employee/usecase"
	"itam-backend/internal/importer"
	"itam-backend/pkg/config"
	"itam-backend/pkg/database"
	"itam-backend/pkg/mailer"
	"itam-backend/pkg/token"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&domain.Employee{}, &domain.Asset{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	repo := employeeRepo.NewGormEmployeeRepository(db)

	// Form link tokens
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.FormTokenExpiry)

	// Initialize mail transport. Without SES credentials the campaign
	// runs in dry-run mode and messages only reach the log.
	var notifier mailer.Notifier
	if cfg.AWSAccessKeyID != "" || cfg.AWSRegion != "" {
		sesNotifier, err := mailer.NewSESNotifier(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, cfg.AWSRegion, cfg.MailFrom, cfg.MailFromName)
		if err != nil {
			log.Fatal("Failed to initialize SES client:", err)
		}
		notifier = sesNotifier
	} else {
		log.Println("[WARN] No AWS credentials configured, emails will be logged instead of sent")
		notifier = mailer.LogNotifier{}
	}

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(cfg)
	employeeUsecaseInstance := employeeUsecase.NewEmployeeUsecase(repo, issuer)
	campaignUsecaseInstance := campaignUsecase.NewCampaignUsecase(repo, notifier, issuer, cfg.FormBaseURL)
	importerService := importer.NewService(repo)

	// Optional background campaign runner
	if cfg.SchedulerEnabled {
		campaignScheduler := scheduler.NewCampaignScheduler(campaignUsecaseInstance, cfg.SchedulerInterval, cfg.EmailBatchSize)
		campaignScheduler.Start()
		log.Println("Campaign scheduler started")
	}

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, employeeUsecaseInstance, campaignUsecaseInstance, importerService, issuer, cfg)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Printf("Server starting on port %s", port)
	if err := handler.Start(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

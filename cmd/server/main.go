package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vamo/fellowship-app/internal/api"
	"vamo/fellowship-app/internal/config"
	"vamo/fellowship-app/internal/mail"
	"vamo/fellowship-app/internal/repository/mongo"
	"vamo/fellowship-app/internal/service"
	"vamo/fellowship-app/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Fellowship App Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureProofIndexes(ctx, appDB.Collection("customer_proofs"))
		mongo.EnsureNoteIndexes(ctx, appDB.Collection("notes"))
		mongo.EnsurePhotoIndexes(ctx, appDB.Collection("photos"))
		mongo.EnsureWorkspaceIndexes(ctx, appDB.Collection("workspaces"), appDB.Collection("workspace_members"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing object storage service...")
	objectStore, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Mailer ---
	var mailer mail.Mailer
	if cfg.Mail.SendgridAPIKey != "" {
		mailer = mail.NewSendgridMailer(cfg.Mail.SendgridAPIKey, cfg.Mail.FromName, cfg.Mail.FromAddress)
		log.Println("SendGrid mailer initialized.")
	} else {
		mailer = mail.NewConsoleMailer()
		log.Println("WARN: No SendGrid API key configured, using console mailer.")
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	proofRepo := mongo.NewMongoProofRepository(appDB)
	noteRepo := mongo.NewMongoNoteRepository(appDB)
	photoRepo := mongo.NewMongoPhotoRepository(appDB)
	workspaceRepo := mongo.NewMongoWorkspaceRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	fellowshipService := service.NewFellowshipService(userRepo, proofRepo)
	attachmentService := service.NewAttachmentService(objectStore)
	proofService := service.NewProofService(proofRepo, objectStore)
	noteService := service.NewNoteService(noteRepo, mailer)
	photoService := service.NewPhotoService(photoRepo, userRepo, objectStore)
	workspaceService := service.NewWorkspaceService(workspaceRepo, userRepo)
	emailService := service.NewEmailService(mailer, cfg.Mail.InboxAddress)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(
		router,
		cfg.JWT.Secret,
		authService,
		fellowshipService,
		attachmentService,
		proofService,
		noteService,
		photoService,
		workspaceService,
		emailService,
		userRepo,
	)

	// --- Background Fellowship Sweep ---
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go runFellowshipSweep(sweepCtx, fellowshipService, cfg.Sweep.Interval)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	stopSweep()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}

// runFellowshipSweep periodically force-submits fellowships whose window has
// elapsed. One sweep runs at startup so a long-stopped server catches up
// immediately instead of waiting a full interval.
func runFellowshipSweep(ctx context.Context, fellowshipService service.FellowshipService, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	log.Printf("Fellowship sweep running every %s", interval)

	sweep := func() {
		sweepCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()
		results, err := fellowshipService.SweepExpired(sweepCtx)
		if err != nil {
			log.Printf("ERROR: Fellowship sweep failed: %v", err)
			return
		}
		if len(results) > 0 {
			log.Printf("Fellowship sweep submitted %d expired fellowship(s)", len(results))
		}
	}

	sweep()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("Fellowship sweep stopped.")
			return
		case <-ticker.C:
			sweep()
		}
	}
}

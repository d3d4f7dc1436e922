package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taxdesk/internal/authority/httpgw"
	authoritynoop "taxdesk/internal/authority/noop"
	"taxdesk/internal/config"
	emailnoop "taxdesk/internal/email/noop"
	"taxdesk/internal/email/ses"
	"taxdesk/internal/handler"
	"taxdesk/internal/port"
	"taxdesk/internal/repository/postgres"
	"taxdesk/internal/router"
	"taxdesk/internal/service"
	s3storage "taxdesk/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	tenantRepo := postgres.NewTenantRepo(db)
	userRepo := postgres.NewUserRepo(db)
	clientRepo := postgres.NewClientRepo(db)
	filingRepo := postgres.NewFilingRepo(db)
	scheduleRepo := postgres.NewScheduleRepo(db)
	permRepo := postgres.NewPermissionRepo(db)
	actionRepo := postgres.NewOnBehalfRepo(db)
	attachmentRepo := postgres.NewAttachmentRepo(db)
	txManager := postgres.NewTxManager(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	emailSender, err := buildEmailSender(&cfg.Email)
	if err != nil {
		return fmt.Errorf("failed to initialize email sender: %w", err)
	}
	authorityGW := buildAuthorityGateway(&cfg.Authority)

	// Initialize services
	authSvc := service.NewAuthService(userRepo, tenantRepo, cfg.JWT)
	authzSvc := service.NewAuthzService(permRepo)
	onBehalfSvc := service.NewOnBehalfService(actionRepo)
	filingSvc := service.NewFilingService(filingRepo, scheduleRepo, clientRepo, permRepo, authzSvc, onBehalfSvc, txManager, authorityGW)
	permissionSvc := service.NewPermissionService(permRepo, userRepo, clientRepo, emailSender)
	attachmentSvc := service.NewAttachmentService(attachmentRepo, filingRepo, authzSvc, onBehalfSvc, txManager, s3Client, &cfg.S3)
	clientSvc := service.NewClientService(clientRepo, authzSvc)
	userSvc := service.NewUserService(userRepo, clientRepo)
	tenantSvc := service.NewTenantService(tenantRepo)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	filingH := handler.NewFilingHandler(filingSvc, attachmentSvc)
	permissionH := handler.NewPermissionHandler(permissionSvc)
	onBehalfH := handler.NewOnBehalfHandler(onBehalfSvc)
	clientH := handler.NewClientHandler(clientSvc)
	userH := handler.NewUserHandler(userSvc)
	tenantH := handler.NewTenantHandler(tenantSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins, authH, filingH, permissionH, onBehalfH, clientH, userH, tenantH, healthH)

	// Background worker: notify clients of on-behalf actions
	workerCtx, stopWorker := context.WithCancel(context.Background())
	worker := service.NewNotifyWorker(actionRepo, clientRepo, userRepo, emailSender, service.NotifyWorkerConfig{
		PollInterval: time.Duration(cfg.Notify.PollIntervalSecs) * time.Second,
		BatchSize:    cfg.Notify.BatchSize,
		Concurrency:  cfg.Notify.Concurrency,
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(workerCtx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		stopWorker()
		<-workerDone
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.Printf("received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}

	stopWorker()
	<-workerDone
	return nil
}

func buildEmailSender(cfg *config.EmailConfig) (port.EmailSender, error) {
	switch cfg.Provider {
	case "ses":
		return ses.NewSESSender(cfg.Region, cfg.FromAddress, cfg.FromName)
	default:
		return emailnoop.NewNoopSender(), nil
	}
}

func buildAuthorityGateway(cfg *config.AuthorityConfig) port.AuthorityGateway {
	if cfg.Provider == "http" && cfg.BaseURL != "" {
		return httpgw.NewGateway(cfg)
	}
	return authoritynoop.NewGateway()
}

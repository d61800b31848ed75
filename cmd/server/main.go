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

	"maintenance-tracker/internal/api"
	"maintenance-tracker/internal/auth"
	"maintenance-tracker/internal/config"
	"maintenance-tracker/internal/notify"
	"maintenance-tracker/internal/repository"
	"maintenance-tracker/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	bootstrapPassword := os.Getenv("DIRECTOR_PASSWORD")
	if bootstrapPassword == "" {
		bootstrapPassword = "change-me"
	}
	hash, err := auth.HashPassword(bootstrapPassword)
	if err != nil {
		log.Fatalf("hash bootstrap password: %v", err)
	}
	if err := repository.Seed(ctx, db, hash); err != nil {
		log.Fatalf("seed: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	completedRepo := repository.NewCompletedTaskRepository(db)
	lookupRepo := repository.NewLookupRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	guard := auth.NewGuard(userRepo, auth.DefaultRolePermissions())
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	var sender notify.Sender = notify.NopSender{}
	if cfg.TelegramToken != "" {
		telegramSender, err := notify.NewTelegramSender(cfg.TelegramToken)
		if err != nil {
			log.Printf("[warn] telegram disabled: %v", err)
		} else {
			sender = telegramSender
		}
	}

	notificationSvc := service.NewNotificationService(notificationRepo, userRepo, sender)
	archiveSvc := service.NewArchiveService(db, taskRepo, completedRepo)
	taskSvc := service.NewTaskService(taskRepo, lookupRepo, archiveSvc, notificationSvc)
	amendmentSvc := service.NewAmendmentService(db, taskRepo, userRepo, notificationSvc,
		cfg.CriticalPriorityID, cfg.AOGCategoryID)
	userSvc := service.NewUserService(userRepo, guard, tokens)
	lookupSvc := service.NewLookupService(lookupRepo, guard)
	performanceSvc := service.NewPerformanceService(taskRepo, completedRepo, userRepo, guard)
	sweepSvc := service.NewSweepService(taskRepo, notificationSvc)

	scheduler := service.NewScheduler(time.Local)
	if _, err := scheduler.ScheduleInterval(cfg.SweepInterval, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := sweepSvc.SweepOverdue(jobCtx); err != nil {
			log.Printf("overdue sweep: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule overdue sweep: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := api.NewServer(tokens, guard, userSvc, taskSvc, archiveSvc, amendmentSvc,
		lookupSvc, notificationSvc, performanceSvc, sweepSvc)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[info] listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("Shutdown complete.")
}

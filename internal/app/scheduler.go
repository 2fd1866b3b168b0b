package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-leave/internal/employee"
	"go-leave/internal/ledger"
	"go-leave/internal/leavetype"
	"go-leave/internal/notification"
	"go-leave/internal/scheduler"
	"go-leave/internal/shared/connection"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func RunScheduler() error {
	logger := zap.L().Named("app.scheduler")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	leaveTypeRepo := leavetype.NewRepository(gormDB)
	ledgerRepo := ledger.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	ledgerService := ledger.NewService(ledgerRepo, leaveTypeRepo, employeeRepo, notification.NewNoopNotifier())
	sched := scheduler.NewResetExpiryScheduler(ledgerService, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catch up immediately, then follow the cron cadence.
	if _, err := sched.RunOnce(ctx); err != nil {
		logger.Error("initial reset/expiry pass failed", zap.Error(err))
	}

	spec := os.Getenv("SCHEDULER_CRON")
	if spec == "" {
		spec = "0 1 * * *"
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if _, err := sched.RunOnce(ctx); err != nil {
			logger.Error("scheduled reset/expiry pass failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}
	c.Start()
	logger.Info("scheduler started", zap.String("cron", spec))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("scheduler shutting down")
	cancel()
	<-c.Stop().Done()

	return nil
}

package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/course_scheduler/internal/app"
	"github.com/Freeeeeet/course_scheduler/internal/config"
	httpcontroller "github.com/Freeeeeet/course_scheduler/internal/controller/http"
	"github.com/Freeeeeet/course_scheduler/internal/notify"
	"github.com/Freeeeeet/course_scheduler/internal/repository"
	"github.com/Freeeeeet/course_scheduler/internal/selection"
	"github.com/Freeeeeet/course_scheduler/internal/service"
	"github.com/Freeeeeet/course_scheduler/internal/timegrid"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Scheduler stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting course scheduler",
		zap.String("environment", cfg.Environment),
		zap.String("http_addr", cfg.HTTPAddr),
		zap.String("grid", cfg.Grid.OpenTime()+"-"+timegrid.Format(cfg.Grid.Close)),
		zap.String("week_grid", cfg.WeekGrid.OpenTime()+"-"+timegrid.Format(cfg.WeekGrid.Close)),
		zap.Bool("notifications", cfg.NotificationsEnabled()),
	)

	pool, err := app.NewPool(ctx, cfg.GetDBDSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		migrator.Close()
		return err
	}
	migrator.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	teacherRepo := repository.NewTeacherRepository(pool)
	roomRepo := repository.NewRoomRepository(pool)

	var notifier service.Notifier
	if cfg.NotificationsEnabled() {
		tg, err := notify.NewTelegramBot(cfg.TelegramToken)
		if err != nil {
			return err
		}
		notifier = notify.NewTelegramNotifier(tg, cfg.TelegramChatID, teacherRepo, logger)
	}

	schedule := service.NewScheduleService(bookingRepo, teacherRepo, roomRepo, notifier, nil, logger)
	if err := schedule.Load(ctx); err != nil {
		return err
	}
	analytics := service.NewAnalyticsService(schedule, teacherRepo, roomRepo, logger)
	selections := selection.NewRegistry(cfg.Grid)

	scheduler := app.NewScheduler(schedule, selections, cfg.SnapshotInterval, logger)
	scheduler.Start(ctx)

	server := httpcontroller.NewServer(schedule, analytics, selections, cfg.Grid, cfg.WeekGrid, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		logger.Warn("HTTP shutdown", zap.Error(err))
	}
	// финальный снимок после остановки приёма запросов
	scheduler.Stop(shutdownCtx)

	logger.Info("Course scheduler stopped")
	return nil
}

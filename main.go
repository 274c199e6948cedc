package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ovab-go/internal/config"
	"ovab-go/internal/engines"
	logger "ovab-go/internal/logging"
	"ovab-go/internal/models"
	"ovab-go/internal/router"
	"ovab-go/internal/services"
	"ovab-go/internal/session"
)

func main() {
	projectRoot, err := os.Getwd()
	if err != nil {
		panic("failed to resolve working directory: " + err.Error())
	}

	// Bootstrap console logging until the configuration says where the
	// log files go.
	boot := logger.Console()
	if err := config.Init(projectRoot, boot); err != nil {
		boot.Fatal("Failed to load config", zap.Error(err))
	}

	log, err := logger.Init(projectRoot, logger.Options{
		Directory:  config.Conf.Logging.Directory,
		MaxSize:    config.Conf.Logging.MaxSize,
		MaxBackups: config.Conf.Logging.MaxBackups,
		MaxAge:     config.Conf.Logging.MaxAge,
		Compress:   config.Conf.Logging.Compress,
	})
	if err != nil {
		boot.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer log.Sync()

	// Load the battery definition and make sure every engine it names is
	// registered before a session can trip over it.
	batteryPath := config.Conf.Battery.Path
	if !filepath.IsAbs(batteryPath) {
		batteryPath = filepath.Join(projectRoot, batteryPath)
	}
	battery, err := models.LoadBattery(batteryPath)
	if err != nil {
		log.Fatal("Failed to load battery", zap.Error(err))
	}
	for _, t := range battery.Tests {
		if _, ok := engines.New(t.Engine); !ok {
			log.Fatal("Battery references unknown engine",
				zap.String("test", t.ID),
				zap.String("engine", t.Engine),
				zap.Strings("known", engines.IDs()))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ttl := time.Duration(config.Conf.Engine.SessionTTLMinutes) * time.Minute
	manager := session.NewManager(log, ttl)

	janitor := services.NewJanitor(log, manager, time.Duration(config.Conf.Engine.SweepSeconds)*time.Second)
	janitor.Start(ctx)

	r, err := router.Setup(log, battery, manager)
	if err != nil {
		log.Fatal("Failed to set up router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    ":" + config.Conf.Server.Port,
		Handler: r,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server listening",
			zap.String("addr", "http://localhost"+srv.Addr),
			zap.Strings("tests", battery.Names()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP shutdown failed", zap.Error(err))
		}
		manager.CloseAll()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/assetvista/internal/app"
	"github.com/mamadbah2/assetvista/internal/config"
	"github.com/mamadbah2/assetvista/internal/repository/sqlite"
	"github.com/mamadbah2/assetvista/internal/scheduler"
	"github.com/mamadbah2/assetvista/internal/server/handlers"
	"github.com/mamadbah2/assetvista/internal/server/router"
	"github.com/mamadbah2/assetvista/internal/service/session"
	"github.com/mamadbah2/assetvista/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	kv, err := sqlite.Open(cfg.Session.DBPath)
	if err != nil {
		baseLogger.Fatal("failed to open session store", zap.Error(err))
	}
	defer func() {
		if err := kv.Close(); err != nil {
			baseLogger.Error("failed to close session store", zap.Error(err))
		}
	}()
	sessionSvc := session.NewService(kv, baseLogger.Named("svc.session"))

	application, err := app.New(ctx, cfg, baseLogger, app.WithAuditLog(kv, sessionSvc))
	if err != nil {
		baseLogger.Fatal("failed to init application", zap.String("backend", cfg.Backend), zap.Error(err))
	}
	defer func() {
		if err := application.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close backends", zap.Error(err))
		}
	}()

	engine := router.New(router.Handlers{
		Session: handlers.NewSessionHandler(sessionSvc, baseLogger.Named("handlers.session")),
		Assets:  handlers.NewAssetHandler(application.Store, application.Reports, baseLogger.Named("handlers.assets")),
		Reports: handlers.NewReportHandler(application.Reports, application.Recorder, baseLogger.Named("handlers.reports")),
		Audit:   handlers.NewAuditHandler(application.Audit, baseLogger.Named("handlers.audit")),
	}, sessionSvc, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, application.Reports, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("backend", cfg.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

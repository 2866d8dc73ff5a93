package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/docelar/docelar/internal/config"
	"github.com/docelar/docelar/internal/repository/mongodb"
	"github.com/docelar/docelar/internal/repository/sheets"
	"github.com/docelar/docelar/internal/scheduler"
	"github.com/docelar/docelar/internal/server/handlers"
	"github.com/docelar/docelar/internal/server/router"
	"github.com/docelar/docelar/internal/service/agenda"
	"github.com/docelar/docelar/internal/service/catalog"
	"github.com/docelar/docelar/internal/service/finance"
	"github.com/docelar/docelar/internal/service/pos"
	"github.com/docelar/docelar/internal/service/team"
	"github.com/docelar/docelar/internal/store"
	syncsvc "github.com/docelar/docelar/internal/sync"
	"github.com/docelar/docelar/pkg/clients/sheetdb"
	"github.com/docelar/docelar/pkg/ids"
	"github.com/docelar/docelar/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	remoteClient := sheetdb.NewClient(cfg.Sync)

	appStore := store.New()
	reconciler := syncsvc.NewService(appStore, remoteClient, mongoRepo, cfg.Sync.DebounceDelay, baseLogger.Named("sync"))
	appStore.OnMutate(reconciler.ScheduleSync)
	defer reconciler.Close()

	idGen := ids.UUIDGenerator{}

	posSvc := pos.NewService(appStore, idGen, baseLogger.Named("svc.pos"))
	catalogSvc := catalog.NewService(appStore, idGen, baseLogger.Named("svc.catalog"))
	agendaSvc := agenda.NewService(appStore, idGen, baseLogger.Named("svc.agenda"))
	financeSvc := finance.NewService(appStore, idGen, baseLogger.Named("svc.finance"))
	teamSvc := team.NewService(appStore, remoteClient, idGen, baseLogger.Named("svc.team"))

	// The ledger export is optional bookkeeping; leave it off when not configured.
	var ledger sheets.Ledger
	if cfg.Sheets.SpreadsheetID != "" {
		googleLedger, err := sheets.NewGoogleSheetLedger(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets ledger", zap.Error(err))
		}
		ledger = googleLedger
	}

	engine := router.New(router.Handlers{
		Session: handlers.NewSessionHandler(reconciler, baseLogger.Named("handlers.session")),
		Catalog: handlers.NewCatalogHandler(catalogSvc, appStore, baseLogger.Named("handlers.catalog")),
		POS:     handlers.NewPOSHandler(posSvc, appStore, baseLogger.Named("handlers.pos")),
		Agenda:  handlers.NewAgendaHandler(agendaSvc, appStore, baseLogger.Named("handlers.agenda")),
		Finance: handlers.NewFinanceHandler(financeSvc, appStore, baseLogger.Named("handlers.finance")),
		Team:    handlers.NewTeamHandler(teamSvc, appStore, baseLogger.Named("handlers.team")),
	}, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Scheduler, reconciler, appStore, ledger, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
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

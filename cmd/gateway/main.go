package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	api "github.com/studyhall/studyhall-lms/internal/api/http"
	"github.com/studyhall/studyhall-lms/internal/attempt"
	"github.com/studyhall/studyhall-lms/internal/auth"
	"github.com/studyhall/studyhall-lms/internal/catalog"
	"github.com/studyhall/studyhall-lms/internal/config"
	"github.com/studyhall/studyhall-lms/internal/db"
	"github.com/studyhall/studyhall-lms/internal/journal"
	"github.com/studyhall/studyhall-lms/internal/logging"
	"github.com/studyhall/studyhall-lms/internal/observability"
	"github.com/studyhall/studyhall-lms/internal/render"
	"github.com/studyhall/studyhall-lms/internal/storage"
)

const release = "studyhall-lms@dev"

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	logg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer logg.Closer()
	log := logg.Sugar

	flushSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, release)
	if err != nil {
		log.Warnw("sentry init failed", "err", err)
	} else {
		defer flushSentry()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalw("db open failed", "driver", cfg.DBDriver, "err", err)
	}
	defer dbh.Close()

	blobs, err := storage.NewFSStore(cfg.BlobBasePath, cfg.FilesPrefix)
	if err != nil {
		log.Fatalw("blob store init failed", "path", cfg.BlobBasePath, "err", err)
	}

	store := catalog.NewSQLStore(dbh)
	created, err := auth.EnsureAdmin(ctx, store, cfg.AdminUser, cfg.AdminPass)
	if err != nil {
		log.Fatalw("admin bootstrap failed", "err", err)
	}
	if created {
		log.Infow("created first admin account", "username", cfg.AdminUser)
	}
	engine := attempt.NewEngine(attempt.NewSQLStore(dbh))
	agg := journal.NewAggregator(journal.NewSQLStore(dbh))
	renderer := render.NewRenderer(blobs, render.GoDocxConverter{})
	authSvc := auth.NewService(cfg.AuthSecret)

	handler := api.NewRouter(api.Deps{
		DB:          dbh,
		Store:       store,
		Blobs:       blobs,
		Engine:      engine,
		Journal:     agg,
		Renderer:    renderer,
		Auth:        authSvc,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("listening", "addr", cfg.HTTPAddr, "env", cfg.Env, "driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("shutdown", "err", err)
	}
	logg.Base.Info("stopped", zap.String("addr", cfg.HTTPAddr))
}

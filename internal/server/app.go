// Package server wires the proofolio server together: database, object
// storage, services and the HTTP API. It also handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/proofolio/proofolio/internal/logging"
	"github.com/proofolio/proofolio/internal/server/auth"
	"github.com/proofolio/proofolio/internal/server/config"
	"github.com/proofolio/proofolio/internal/server/httpapi"
	"github.com/proofolio/proofolio/internal/server/objectstore"
	"github.com/proofolio/proofolio/internal/server/repositories/repomanager"
	"github.com/proofolio/proofolio/internal/server/services"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	http    *httpapi.HTTPServer
	sweeper *services.Sweeper
}

// NewApp opens the connection pool once, runs migrations and builds every
// component on top of it.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	var (
		db *sql.DB
		rm repomanager.RepositoryManager
	)
	if c.DatabaseDSN == repomanager.MemoryDSN {
		logger.Warn(ctx, "using in-memory storage, data is lost on exit")
		rm = repomanager.NewInMemoryRepositoryManager()
	} else {
		var err error
		db, err = repomanager.Open(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		rm = repomanager.NewPostgresRepositoryManager()
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		closeDB(db)
		return nil, err
	}

	store, err := objectstore.New(ctx, objectstore.Options{
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
		Region:       c.S3Region,
		Bucket:       c.S3Bucket,
		BaseEndpoint: c.S3BaseEndpoint,
		UsePathStyle: c.S3UsePathStyle,
	})
	if err != nil {
		closeDB(db)
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	credentials := auth.NewCredentials(c.SecretKey, c.SessionTTL)

	as := services.NewAccountService(db, rm, credentials)
	es := services.NewEntryService(db, rm)
	ps := services.NewProofService(db, rm, store, c.UploadGrantTTL, c.DownloadGrantTTL)

	hs := httpapi.NewHTTPServer(c.HTTPAddr, logger, as, es, ps, httpapi.Options{
		SecureCookies: c.SecureCookies(),
		SessionTTL:    credentials.SessionTTL(),
	})

	return &App{
		config:  c,
		logger:  logger,
		db:      db,
		http:    hs,
		sweeper: services.NewSweeper(db, rm, store, c.SweepInterval, c.SweepGrace, logger),
	}, nil
}

func closeDB(db *sql.DB) {
	if db != nil {
		_ = db.Close()
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a termination signal arrives or the HTTP server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.sweeper.Run(ctx)
	}()

	wg.Wait()

	closeDB(app.db)
	app.logger.Info(context.Background(), "Stopped")
}

// Package server wires the identity core into a running process: it opens
// the database, applies migrations, builds the services and serves gRPC
// until the process is told to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/learnhub/internal/cryptox"
	"github.com/dmitrijs2005/learnhub/internal/logging"
	"github.com/dmitrijs2005/learnhub/internal/server/auth"
	"github.com/dmitrijs2005/learnhub/internal/server/config"
	"github.com/dmitrijs2005/learnhub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/learnhub/internal/server/services"
	"github.com/dmitrijs2005/learnhub/internal/server/store"

	gs "github.com/dmitrijs2005/learnhub/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	issuer     *auth.TokenIssuer
	identity   *services.IdentityService
	avatars    *services.AvatarService
	grpcOpts   []gs.Option
	shutdownMu sync.Mutex
}

// NewApp validates c, connects to PostgreSQL and brings the schema up to
// date before building the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	issuer, err := auth.NewTokenIssuer([]byte(c.SecretKey), c.TokenIssuer, c.TokenExpireDays)
	if err != nil {
		return nil, err
	}

	db, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	app := newApp(c, logger, store.NewSQLStore(db, rm), issuer)
	app.db = db
	return app, nil
}

func newApp(c *config.Config, logger logging.Logger, s store.Store, issuer *auth.TokenIssuer) *App {
	hasher := cryptox.NewArgon2Hasher(cryptox.DefaultArgon2Params)

	return &App{
		config:   c,
		logger:   logger,
		issuer:   issuer,
		identity: services.NewIdentityService(s, hasher, issuer, logger, c.DefaultProfilePictureURL, c.StoreTimeout),
		avatars:  services.NewAvatarService(s, c, logger),
	}
}

func (app *App) Identity() *services.IdentityService { return app.identity }

func (app *App) Avatars() *services.AvatarService { return app.avatars }

// Register adds gRPC options, typically API services and their public
// methods, before Run is called.
func (app *App) Register(opts ...gs.Option) {
	app.grpcOpts = append(app.grpcOpts, opts...)
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Received signal", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves gRPC until ctx is canceled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.issuer, app.grpcOpts...)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "gRPC server failed", "error", err)
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}

// Close releases the database connection. It is safe to call more than once.
func (app *App) Close() error {
	app.shutdownMu.Lock()
	defer app.shutdownMu.Unlock()

	if app.db == nil {
		return nil
	}
	err := app.db.Close()
	app.db = nil
	return err
}

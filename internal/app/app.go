package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/untangle-server/internal/config"
	"github.com/vancomm/untangle-server/internal/database"
	"github.com/vancomm/untangle-server/internal/middleware"
	"github.com/vancomm/untangle-server/internal/repository"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	logger    *slog.Logger
	router    *http.ServeMux
	db        *pgxpool.Pool
	repo      *repository.Queries
	cookies   *config.Cookies
	jwt       *config.JWT
	ws        *config.WebSocket
	maxPoints int
}

func New(logger *slog.Logger) *App {
	app := &App{
		logger: logger,
		router: http.NewServeMux(),
	}
	return app
}

func (a *App) configure() error {
	var err error
	if a.cookies, err = config.NewCookies(); err != nil {
		return err
	}
	if a.jwt, err = config.NewJWT(); err != nil {
		return err
	}
	if a.ws, err = config.NewWebSocket(); err != nil {
		return err
	}
	if a.maxPoints, err = config.MaxPoints(); err != nil {
		return err
	}
	return nil
}

func (a *App) Start(ctx context.Context) error {
	if err := a.configure(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	db, migrator, err := database.ConnectAndMigrate(ctx)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	defer db.Close()
	if version, dirty, err := migrator.Version(); err == nil {
		a.logger.Info("database migrated",
			slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	}

	a.db = db
	a.repo = repository.New(db)

	a.loadRoutes()

	addr := config.Port()
	server := &http.Server{
		Addr: addr,
		Handler: middleware.Wrap(
			a.router,
			middleware.Auth(a.logger, a.cookies, a.jwt),
			middleware.Logging(a.logger),
			middleware.Cors(),
			middleware.BasePath(config.BasePath()),
		),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server listening", slog.String("addr", addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

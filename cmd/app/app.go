package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vietanh2810/campus-events-api/internal/api"
	"github.com/vietanh2810/campus-events-api/internal/config"
	"github.com/vietanh2810/campus-events-api/internal/db"
	"github.com/vietanh2810/campus-events-api/internal/logger"
	"github.com/vietanh2810/campus-events-api/internal/pkg/media"
	"github.com/vietanh2810/campus-events-api/internal/service"
)

const shutdownTimeout = 10 * time.Second

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	if err = logger.SetLevel(conf.Log.Level); err != nil {
		zap.L().Warn("ignoring log level", zap.String("level", conf.Log.Level), zap.Error(err))
	}
	conf.Watch(func(level string) {
		if err := logger.SetLevel(level); err != nil {
			zap.L().Warn("ignoring log level", zap.String("level", level), zap.Error(err))
			return
		}
		zap.L().Info("log level changed", zap.String("level", level))
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, conf)
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}
	defer closeStore()

	s, err := api.NewServer(conf, store, openImageHost(conf.Storage))
	if err != nil {
		return fmt.Errorf("failed to initialize server -> %w", err)
	}

	if err = s.BootstrapAdmin(ctx); err != nil {
		return fmt.Errorf("failed to bootstrap admin -> %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + s.Config.API.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", srv.Addr), zap.String("driver", conf.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err = <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down the server -> %w", err)
	}

	return nil
}

// openStore connects the configured database and returns its DAOs with a
// function releasing the connection.
func openStore(ctx context.Context, conf *config.AppConfig) (api.Store, func(), error) {
	switch conf.Database.Driver {
	case config.DriverMongo:
		mongoDB, err := db.OpenMongo(ctx, conf.Mongo)
		if err != nil {
			return api.Store{}, nil, err
		}

		return api.NewMongoStore(mongoDB), func() {
			if err := mongoDB.Client().Disconnect(context.Background()); err != nil {
				zap.L().Warn("failed to disconnect mongo", zap.Error(err))
			}
		}, nil

	default:
		var (
			postgresDB *gorm.DB
			err        error
		)
		if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
			postgresDB, err = db.OpenPostgresWithURL(dbURL)
		} else {
			postgresDB, err = db.OpenPostgres(conf.Postgres)
		}
		if err != nil {
			return api.Store{}, nil, err
		}

		return api.NewPostgresStore(postgresDB), func() {
			sqlDB, err := postgresDB.DB()
			if err != nil {
				return
			}
			if err = sqlDB.Close(); err != nil {
				zap.L().Warn("failed to close postgres", zap.Error(err))
			}
		}, nil
	}
}

func openImageHost(conf *config.StorageConfig) service.ImageHost {
	host, err := media.NewOSSHost(conf)
	if err != nil {
		if !errors.Is(err, media.ErrStorageNotConfigured) {
			zap.L().Error("image storage unavailable", zap.Error(err))
		}
		zap.L().Warn("image uploads are disabled")
		return media.DisabledHost{}
	}

	return host
}

// Package app wires the client together from a config.Config: logger,
// key/value backend, credential store and the session manager that both
// front ends drive.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/profilekeeper/internal/client/client"
	"github.com/dmitrijs2005/profilekeeper/internal/client/config"
	"github.com/dmitrijs2005/profilekeeper/internal/client/credentials"
	"github.com/dmitrijs2005/profilekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/profilekeeper/internal/client/services"
	"github.com/dmitrijs2005/profilekeeper/internal/filex"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Config   *config.Config
	Logger   logging.Logger
	Session  *services.SessionManager
	Uploader credentials.AvatarUploader

	closers []func() error
}

// newRedis is a test seam.
var newRedis = func(cfg *config.Config) redis.UniversalClient {
	return redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
}

// New builds the client from cfg. On error everything opened so far is closed.
func New(ctx context.Context, cfg *config.Config) (app *App, err error) {
	app = &App{Config: cfg}
	defer func() {
		if err != nil {
			_ = app.Close()
			app = nil
		}
	}()

	app.Logger, err = app.initLogger()
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	openDB := func() (*sql.DB, error) {
		if db != nil {
			return db, nil
		}
		if err := filex.EnsureFileDir(cfg.DatabasePath); err != nil {
			return nil, err
		}
		d, err := client.InitDatabase(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("error initializing database: %w", err)
		}
		db = d
		app.closers = append(app.closers, d.Close)
		return d, nil
	}

	kv, err := app.initKV(ctx, openDB)
	if err != nil {
		return nil, err
	}

	creds, err := app.initCredentials(openDB)
	if err != nil {
		return nil, err
	}

	app.Session = services.NewSessionManager(kv, creds,
		services.WithOperationTimeout(cfg.OperationTimeout),
		services.WithLogger(app.Logger),
	)
	app.Session.Initialize(ctx)

	app.Logger.Info(ctx, "client started",
		"kv_backend", cfg.KVBackend, "credential_backend", cfg.CredentialBackend, "ui", cfg.UI)
	return app, nil
}

func (a *App) initLogger() (logging.Logger, error) {
	path := a.Config.LogFile
	if path == "" && a.Config.UI != config.UITUI {
		return logging.New(os.Stderr, "text", a.Config.LogLevel), nil
	}

	// The full-screen UI owns the terminal, so its logs default to a file.
	if path == "" {
		dir, err := filex.EnsureSubdDir("logs")
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "client.log")
	} else if err := filex.EnsureFileDir(path); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	a.closers = append(a.closers, f.Close)
	return logging.New(f, "text", a.Config.LogLevel), nil
}

func (a *App) initKV(ctx context.Context, openDB func() (*sql.DB, error)) (metadata.Repository, error) {
	switch a.Config.KVBackend {
	case config.BackendSQLite:
		db, err := openDB()
		if err != nil {
			return nil, err
		}
		return metadata.NewSQLiteRepository(db), nil

	case config.BackendRedis:
		rc := newRedis(a.Config)
		a.closers = append(a.closers, rc.Close)
		if err := rc.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return metadata.NewRedisRepository(rc, a.Config.RedisPrefix), nil

	default:
		return nil, fmt.Errorf("unknown kv backend %q", a.Config.KVBackend)
	}
}

func (a *App) initCredentials(openDB func() (*sql.DB, error)) (credentials.Store, error) {
	switch a.Config.CredentialBackend {
	case config.CredentialsLocal:
		db, err := openDB()
		if err != nil {
			return nil, err
		}
		return credentials.NewLocal(db), nil

	case config.CredentialsRemote:
		c, err := client.NewGRPCClient(a.Config.ServerEndpointAddr)
		if err != nil {
			return nil, fmt.Errorf("grpc client: %w", err)
		}
		r := credentials.NewRemote(c)
		a.closers = append(a.closers, r.Close)
		a.Uploader = r
		return r, nil

	default:
		return nil, fmt.Errorf("unknown credential backend %q", a.Config.CredentialBackend)
	}
}

// Close releases everything New opened, newest first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/handlers"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/extra/bundebug"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zapio"

	"github.com/studybud/backend/internal/auth"
	"github.com/studybud/backend/internal/controllers"
	"github.com/studybud/backend/internal/database/migrations"
	"github.com/studybud/backend/internal/forum"
	"github.com/studybud/backend/internal/router"
	"github.com/studybud/backend/internal/views"
)

func main() {
	ctx := context.Background()
	ctx, _ = signal.NotifyContext(ctx, os.Interrupt)

	app := &cli.App{
		Name:  "studybud",
		Usage: "discussion forum server",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Value: false,
				EnvVars: []string{
					"STUDYBUD_DEBUG",
				},
			},
		},
		Before: func(cctx *cli.Context) (err error) {
			err = setupLogging(cctx.Bool("debug"))
			return
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "serve http requests",
				Flags:  append([]cli.Flag{postgresURIFlag()}, serveFlags...),
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply pending database migrations and exit",
				Flags:  []cli.Flag{postgresURIFlag()},
				Action: migrate,
			},
			{
				Name:  "gen-secret",
				Usage: "print a fresh session secret",
				Action: func(cctx *cli.Context) error {
					_, err := fmt.Fprintln(cctx.App.Writer, auth.GenerateSecret())
					return err
				},
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		zap.L().Fatal("unhandled error", zap.Error(err))
	}
}

func postgresURIFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "postgres-uri",
		Required: true,
		EnvVars: []string{
			"STUDYBUD_POSTGRES_URI",
		},
	}
}

var serveFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "http-listen-address",
		Value: "127.0.0.1:8000",
		EnvVars: []string{
			"STUDYBUD_HTTP_LISTEN_ADDRESS",
		},
	},
	&cli.StringFlag{
		Name:  "session-secret",
		Usage: "base64 encoded ed25519 secret key, see gen-secret",
		EnvVars: []string{
			"STUDYBUD_SESSION_SECRET",
		},
	},
	&cli.StringFlag{
		Name:  "csrf-key",
		Usage: "base64 encoded 32 byte key for csrf tokens",
		EnvVars: []string{
			"STUDYBUD_CSRF_KEY",
		},
	},
	&cli.DurationFlag{
		Name:  "session-ttl",
		Value: auth.DefaultSessionTTL,
		EnvVars: []string{
			"STUDYBUD_SESSION_TTL",
		},
	},
	&cli.BoolFlag{
		Name:  "secure-cookies",
		Value: false,
		EnvVars: []string{
			"STUDYBUD_SECURE_COOKIES",
		},
	},
	&cli.IntFlag{
		Name:  "bcrypt-cost",
		Value: auth.DefaultBcryptCost,
		EnvVars: []string{
			"STUDYBUD_BCRYPT_COST",
		},
	},
	&cli.BoolFlag{
		Name:  "auto-migrate",
		Value: true,
		EnvVars: []string{
			"STUDYBUD_AUTO_MIGRATE",
		},
	},
}

func setupLogging(debugMode bool) error {
	var cfg zap.Config

	if debugMode {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level.SetLevel(zapcore.DebugLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.Development = false
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level.SetLevel(zapcore.InfoLevel)
	}

	cfg.OutputPaths = []string{
		"stdout",
	}

	logger, err := cfg.Build()
	if err != nil {
		return err
	}

	zap.ReplaceGlobals(logger)

	return nil
}

func openDB(cctx *cli.Context) (db *bun.DB, err error) {
	var dbConfig *pgx.ConnConfig
	if dbConfig, err = pgx.ParseConfig(cctx.String("postgres-uri")); err != nil {
		err = fmt.Errorf("unable to parse postgres uri: %w", err)
		return
	}

	sqldb := stdlib.OpenDB(*dbConfig)
	db = bun.NewDB(sqldb, pgdialect.New())

	if cctx.Bool("debug") {
		var dbLogger io.Writer = &zapio.Writer{Log: zap.L().With(zap.String("section", "bun")), Level: zapcore.DebugLevel}

		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(true),
			bundebug.WithWriter(dbLogger),
		))
	}

	if _, err = db.ExecContext(cctx.Context, "SELECT 1"); err != nil {
		_ = db.Close()
		err = fmt.Errorf("failed to test database connection: %w", err)
		return
	}
	return
}

func migrate(cctx *cli.Context) (err error) {
	defer func() { _ = zap.L().Sync() }()

	var db *bun.DB
	if db, err = openDB(cctx); err != nil {
		return
	}
	defer func() { _ = db.Close() }()

	if err = migrations.Up(db.DB); err != nil {
		return
	}

	version, err := migrations.Version(db.DB)
	if err != nil {
		return
	}
	zap.L().Info("database is up to date", zap.Int64("version", version))
	return
}

func serve(cctx *cli.Context) (err error) {
	ctx := cctx.Context
	defer func() { _ = zap.L().Sync() }()

	var db *bun.DB
	if db, err = openDB(cctx); err != nil {
		return
	}
	defer func() { _ = db.Close() }()

	if cctx.Bool("auto-migrate") {
		if err = migrations.Up(db.DB); err != nil {
			return
		}
	}

	sessions, err := auth.NewManager(auth.Config{
		Secret:       cctx.String("session-secret"),
		TTL:          cctx.Duration("session-ttl"),
		SecureCookie: cctx.Bool("secure-cookies"),
	})
	if err != nil {
		err = fmt.Errorf("failed to load session secret: %w", err)
		return
	}

	csrfKey, err := router.LoadCSRFKey(cctx.String("csrf-key"))
	if err != nil {
		err = fmt.Errorf("failed to load csrf key: %w", err)
		return
	}

	renderer, err := views.NewTemplateRenderer()
	if err != nil {
		return
	}

	routes := []router.Controller{
		&controllers.HealthController{DB: db},
		&controllers.AuthController{
			Accounts:  forum.NewAccountService(db),
			Passwords: auth.NewPasswordHasher(cctx.Int("bcrypt-cost")),
			Sessions:  sessions,
			Views:     renderer,
		},
		&controllers.RoomController{
			Rooms:    forum.NewRoomService(db),
			Sessions: sessions,
			Views:    renderer,
		},
		&controllers.MessageController{
			Messages: forum.NewMessageService(db),
			Sessions: sessions,
			Views:    renderer,
		},
	}
	if cctx.Bool("debug") {
		routes = append(routes, &controllers.GoDebugController{})
	}

	accessLog := &zapio.Writer{Log: zap.L().With(zap.String("section", "http")), Level: zapcore.InfoLevel}
	defer func() { _ = accessLog.Close() }()

	appRouter := router.New(routes...)
	appRouter.Use(router.CSRF(csrfKey, cctx.Bool("secure-cookies")))

	var handler http.Handler = appRouter
	handler = handlers.CombinedLoggingHandler(accessLog, handler)
	handler = handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(zap.L())),
		handlers.PrintRecoveryStack(cctx.Bool("debug")),
	)(handler)
	handler = handlers.ProxyHeaders(handler)

	srv := &http.Server{
		Addr:         cctx.String("http-listen-address"),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	serverDone := make(chan interface{})
	go func() {
		zap.L().Info("serving requests", zap.String("addr", "http://"+srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Error("failed to listen for http requests", zap.Error(err))
		}
		close(serverDone)
	}()

	select {
	case <-serverDone:
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		zap.L().Info("shutting down")
		if err = srv.Shutdown(shutdownCtx); err != nil {
			err = fmt.Errorf("failed to shut down http server: %w", err)
		}
		<-serverDone
	}

	return
}

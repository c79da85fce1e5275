package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	coreconfig "github.com/wanderquest/questbot/core/config"
	"github.com/wanderquest/questbot/core/database"
	"github.com/wanderquest/questbot/core/logger"
	"github.com/wanderquest/questbot/internal/bot"
	"github.com/wanderquest/questbot/internal/gateway"
	"github.com/wanderquest/questbot/internal/session"
	"log/slog"
)

const (
	postgresWaitTimeout = 30 * time.Second
	pruneEvery          = time.Minute
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := coreconfig.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := logger.InitLogger(cfg); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Shutdown() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		logger.L.LogAttrs(ctx, slog.LevelError, "session store init failed",
			slog.String("component", "app"),
			slog.String("event", "startup.failed"),
			slog.String("err", err.Error()),
		)
		os.Exit(1)
	}
	defer cleanup()

	content := gateway.NewClient(gateway.ClientOptions{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout(),
	})

	app := bot.New(cfg, store, content)
	if err := app.Run(ctx); err != nil {
		logger.L.LogAttrs(ctx, slog.LevelError, "bot stopped",
			slog.String("component", "app"),
			slog.String("event", "run.failed"),
			slog.String("err", err.Error()),
		)
		os.Exit(1)
	}
}

func buildStore(ctx context.Context, cfg *coreconfig.Config) (session.Store, func(), error) {
	if cfg.Sessions.Backend == coreconfig.SessionsPostgres {
		dsn := database.DSN(cfg.Database)
		if err := database.WaitForPostgres(dsn, postgresWaitTimeout); err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(cfg.Database); err != nil {
			return nil, nil, err
		}
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return session.NewPostgres(db), func() { _ = db.Close() }, nil
	}

	mem := session.NewMemory()
	if ttl := cfg.Sessions.IdleTTL(); ttl > 0 {
		go mem.RunPruner(ctx, ttl, pruneEvery)
	}
	return mem, func() {}, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httptransport "github.com/oasis-hotel/portal/internal/api/http"
	"github.com/oasis-hotel/portal/internal/api/http/handlers"
	"github.com/oasis-hotel/portal/internal/auth"
	"github.com/oasis-hotel/portal/internal/backend"
	"github.com/oasis-hotel/portal/internal/concierge"
	"github.com/oasis-hotel/portal/internal/config"
	"github.com/oasis-hotel/portal/internal/events"
	"github.com/oasis-hotel/portal/internal/observability"
	"github.com/oasis-hotel/portal/internal/service"
	"github.com/oasis-hotel/portal/internal/session"
	"github.com/oasis-hotel/portal/internal/worker"
)

const shutdownTimeout = 10 * time.Second

type flags struct {
	envFiles []string
	addr     string
	storage  string
}

func parseFlags(args []string) (flags, error) {
	var f flags
	fs := pflag.NewFlagSet("portal", pflag.ContinueOnError)
	fs.StringSliceVar(&f.envFiles, "env-file", nil, "dotenv files to load (default .env)")
	fs.StringVar(&f.addr, "addr", "", "listen address host:port, overrides APP_HOST/APP_PORT")
	fs.StringVar(&f.storage, "storage", "", "session storage driver: memory, file, redis or postgres")
	if err := fs.Parse(args); err != nil {
		return flags{}, err
	}
	return f, nil
}

// applyFlags lets command line flags win over the environment.
func applyFlags(cfg *config.Config, f flags) error {
	if f.addr != "" {
		host, port, err := net.SplitHostPort(f.addr)
		if err != nil {
			return fmt.Errorf("invalid --addr: %w", err)
		}
		cfg.App.Host, cfg.App.Port = host, port
	}
	if f.storage != "" {
		cfg.Storage.Driver = f.storage
	}
	return cfg.Validate()
}

func main() {
	f, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatalf("invalid flags: %v", err)
	}

	cfg, err := config.Load(f.envFiles...)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := applyFlags(cfg, f); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("portal stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	audit := service.NewAuditService(dispatcher, logger, 0)
	worker.StartAuditWorker(audit)

	sessions := session.NewManager(store.Storage, auth.NewDecoder(), session.Options{
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	backendClient, err := backend.New(backend.Options{
		BaseURL:     cfg.Backend.BaseURL,
		Timeout:     cfg.Backend.Timeout(),
		Credentials: sessions,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	conciergeHTTP, err := backend.New(backend.Options{
		BaseURL: cfg.Concierge.BaseURL,
		Timeout: cfg.Concierge.Timeout(),
		Service: concierge.ServiceName,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	conciergeClient := concierge.NewClient(conciergeHTTP)

	authService := service.NewAuthService(backendClient, sessions, logger)

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: int(cfg.Concierge.MaxUploadBytes()) + 1<<20,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, handlers.HealthDependencies{
			Deps:     store.Pingers,
			Sessions: sessions,
			Metrics:  metrics,
			Audit:    audit,
		}),
		Auth:      handlers.NewAuthHandler(authService, sessions),
		Pages:     handlers.NewPagesHandler(sessions, backendClient, logger),
		Concierge: handlers.NewConciergeHandler(concierge.NewWidget(conciergeClient, logger), conciergeClient, cfg.Concierge.MaxUploadBytes()),
		Sessions:  sessions,
		Metrics:   metrics,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		restoreCtx := gctx
		if timeout := cfg.Session.RestoreTimeout(); timeout > 0 {
			var cancel context.CancelFunc
			restoreCtx, cancel = context.WithTimeout(gctx, timeout)
			defer cancel()
		}
		// a failed restore still leaves the session ready and anonymous
		if err := sessions.Restore(restoreCtx); err != nil {
			logger.Warn("session restoration incomplete", zap.Error(err))
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("portal listening", zap.String("addr", cfg.App.Addr()), zap.String("storage", cfg.Storage.Driver))
		return app.Listen(cfg.App.Addr())
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

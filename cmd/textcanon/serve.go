package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/totegamma/textcanon/internal/infra/cache"
	"github.com/totegamma/textcanon/internal/infra/database"
	"github.com/totegamma/textcanon/internal/infra/repository"
	"github.com/totegamma/textcanon/internal/interface/rest"
	"github.com/totegamma/textcanon/internal/service"
	"github.com/totegamma/textcanon/internal/usecase"
	"github.com/totegamma/textcanon/normalize"
)

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	logger := slog.Default()

	if cfg.Server.EnableTrace {
		cleanup, err := setupTraceProvider(ctx, cfg.Server.TraceEndpoint, "textcanon")
		if err != nil {
			return errors.Wrap(err, "setup tracing")
		}
		defer cleanup()
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return errors.Wrap(err, "connect database")
	}
	if err := database.Migrate(db, cfg.Ledger.Scope()); err != nil {
		return err
	}

	var events usecase.EventPublisher
	rdb, err := database.NewRedis(ctx, cfg.Server.RedisAddr, cfg.Server.RedisPassword, cfg.Server.RedisDB)
	if err != nil {
		return errors.Wrap(err, "connect redis")
	}
	if rdb != nil {
		defer rdb.Close()
		events = service.NewSignalService(rdb)
	}

	var translationCache usecase.TranslationCache
	if mc := database.NewMemcached(cfg.Server.MemcachedAddr); mc != nil {
		translationCache = cache.NewTranslationCache(mc, logger)
	}

	refRepo := repository.NewReferenceRepository(db)
	contentRepo := repository.NewTextContentRepository(db)
	canonRepo := repository.NewCanonRepository(db)
	translationRepo := repository.NewTranslationRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	normalizer := normalize.New(cfg.Normalization)

	resolver := usecase.NewIdentityResolver(refRepo, contentRepo)
	handler := rest.NewHandler(
		usecase.NewTextContentUsecase(contentRepo, refRepo, resolver, normalizer, events, logger),
		usecase.NewCanonUsecase(contentRepo, canonRepo, events, logger),
		usecase.NewTranslationUsecase(translationRepo, contentRepo, refRepo, translationCache, events, cfg.Ledger, logger),
		usecase.NewUnitUsecase(unitRepo, refRepo, normalizer, logger),
		usecase.NewReferenceUsecase(refRepo, logger),
		logger,
	)

	e := echo.New()
	e.HideBanner = true
	if cfg.Server.EnableTrace {
		e.Use(otelecho.Middleware("textcanon"))
	}
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	handler.RegisterRoutes(e)

	go func() {
		if err := e.Start(cfg.Server.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", slog.String("error", err.Error()))
			stop()
		}
	}()
	logger.Info("listening",
		slog.String("addr", cfg.Server.Listen),
		slog.String("driver", cfg.Server.Driver),
		slog.String("revisionScope", string(cfg.Ledger.Scope())),
		slog.Any("scripts", normalizer.Scripts()),
	)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

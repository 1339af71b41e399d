package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/storefront-gateway/internal/api/http"
	"github.com/spec-kit/storefront-gateway/internal/api/http/handlers"
	"github.com/spec-kit/storefront-gateway/internal/cart"
	"github.com/spec-kit/storefront-gateway/internal/config"
	"github.com/spec-kit/storefront-gateway/internal/domain"
	"github.com/spec-kit/storefront-gateway/internal/events"
	"github.com/spec-kit/storefront-gateway/internal/observability"
	"github.com/spec-kit/storefront-gateway/internal/persistence"
	"github.com/spec-kit/storefront-gateway/internal/repository"
	"github.com/spec-kit/storefront-gateway/internal/service"
	"github.com/spec-kit/storefront-gateway/internal/session"
	"github.com/spec-kit/storefront-gateway/internal/upstream"
	"github.com/spec-kit/storefront-gateway/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	authClient := upstream.NewAuthClient(cfg.Upstream, logger, metrics)
	shopClient := upstream.NewShopClient(cfg.Upstream, logger, metrics)

	tokenStore := session.NewRedisTokenStore(redis.Client, cfg.Session.AccessTTL(), cfg.Session.RefreshTTL())
	guestIssuer := session.NewGuestIssuer(cfg.Session.GuestSecret, cfg.Session.GuestTTL())
	sessionManager := session.NewManager(tokenStore, authClient, logger)
	sessionMiddleware := session.NewMiddleware(guestIssuer, cfg.Session.CookieName, cfg.Session.GuestTTL(), cfg.Session.CookieSecure, logger)

	localStore := cart.NewRedisLocalStore(redis.Client, cfg.Session.GuestTTL())
	policy := domain.CartPolicy{ShippingFee: cfg.Cart.ShippingFee, TaxRate: cfg.Cart.TaxRate}
	cartAggregator := cart.NewAggregator(sessionManager, shopClient, localStore, policy, logger, metrics)

	dispatcher := events.NewInMemoryDispatcher(logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService, logger)

	orderRepo := repository.NewOrderRepository(pg.PoolHandle())
	checkoutService := service.NewCheckoutService(cartAggregator, orderRepo, shopClient, dispatcher, logger)
	catalogService := service.NewCatalogService(shopClient, dispatcher, logger, cfg.Cart.RelatedProductLimit)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:     handlers.NewAuthHandler(sessionManager, cartAggregator, authClient, dispatcher, logger),
		Cart:     handlers.NewCartHandler(sessionManager, cartAggregator, catalogService),
		Checkout: handlers.NewCheckoutHandler(sessionManager, checkoutService),
		Catalog:  handlers.NewCatalogHandler(catalogService),
		Session:  sessionMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

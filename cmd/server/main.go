package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/atlanticave/storefront/internal/application/storefront"
	"github.com/atlanticave/storefront/internal/domain/commerce"
	"github.com/atlanticave/storefront/internal/domain/shared"
	"github.com/atlanticave/storefront/internal/infrastructure/config"
	"github.com/atlanticave/storefront/internal/infrastructure/event"
	"github.com/atlanticave/storefront/internal/infrastructure/logger"
	"github.com/atlanticave/storefront/internal/infrastructure/session"
	"github.com/atlanticave/storefront/internal/infrastructure/shopify"
	"github.com/atlanticave/storefront/internal/infrastructure/telemetry"
	"github.com/atlanticave/storefront/internal/interfaces/http/handler"
	"github.com/atlanticave/storefront/internal/interfaces/http/middleware"
	"github.com/atlanticave/storefront/internal/interfaces/http/router"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
	}
	baseCore, err := logger.NewCore(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.Build(baseCore, logCfg)

	log.Info("Starting storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Telemetry
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	if loggerProvider.IsEnabled() {
		level := logger.ParseLevel(cfg.Log.Level)
		log = logger.Build(zapcore.NewTee(baseCore, loggerProvider.ZapCore(level)), logCfg)
		log.Info("OTLP log export enabled")
	}
	defer func() {
		_ = log.Sync()
	}()

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilingServer,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	storefrontMetrics, err := telemetry.NewStorefrontMetrics(meterProvider.Meter("storefront"))
	if err != nil {
		log.Fatal("Failed to create storefront metrics", zap.Error(err))
	}

	// Commerce backend
	platform := newPlatform(cfg.Shopify, storefrontMetrics, log)

	// Session carts
	storeFactory := session.NewCartStoreFactory(cfg.Session, cfg.Redis, session.WithLogger(log))
	cartStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create cart store", zap.Error(err))
	}

	// Checkout events
	publisher, closePublisher := newPublisher(cfg.Events, log)

	// Application services
	mapOpts := commerce.MapOptions{
		PlaceholderImage: cfg.Shopify.PlaceholderImage,
		Category:         cfg.Shopify.Category,
	}
	catalogService := storefront.NewCatalogService(platform, storefront.CatalogOptions{
		PageSize: cfg.Shopify.PageSize,
		Map:      mapOpts,
	}, log)
	cartService := storefront.NewCartService(cartStore, platform, storefront.CartOptions{
		ShippingFee: cfg.Cart.ShippingFee,
		Currency:    cfg.Cart.Currency,
		Map:         mapOpts,
	}, storefrontMetrics, log)
	checkoutService := storefront.NewCheckoutService(cartStore, platform, publisher, cfg.Cart.Currency, storefrontMetrics, log)

	// HTTP
	middleware.SetupValidator()
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	var rateLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
	}

	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
	}))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		ServiceName:   cfg.Telemetry.ServiceName,
		Enabled:       meterProvider.IsEnabled(),
	}))
	profilingConfig := middleware.DefaultProfilingConfig()
	profilingConfig.Enabled = profiler.IsEnabled()
	engine.Use(middleware.ProfilingWithConfig(profilingConfig))
	engine.Use(middleware.Locale())

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version)
	engine.GET("/health", systemHandler.Health)

	handlers := router.Handlers{
		Forwarding: handler.NewForwardingHandler(platform, cfg.Shopify.PageSize),
		Catalog:    handler.NewCatalogHandler(catalogService),
		Cart:       handler.NewSessionCartHandler(cartService),
		Checkout:   handler.NewCheckoutHandler(checkoutService),
		System:     systemHandler,
	}
	cache := router.CacheSettings{
		ProductsMaxAge: cfg.Cache.ProductsMaxAge,
		ProductsSWR:    cfg.Cache.ProductsStaleWhileRevalidate,
		ProductMaxAge:  cfg.Cache.ProductMaxAge,
		ProductSWR:     cfg.Cache.ProductStaleWhileRevalidate,
	}
	sessionMiddleware := middleware.Session(middleware.SessionConfig{
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Session.Secure,
	})

	r := router.NewRouter(engine)
	r.Register(router.StorefrontRoutes(handlers, cache, sessionMiddleware)...).
		RegisterVersioned(router.SystemRoutes(systemHandler))
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if rateLimiter != nil {
		rateLimiter.Stop()
	}
	closePublisher()
	if err := cartStore.Close(); err != nil {
		log.Error("Error closing cart store", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newPlatform returns the Shopify client, or a platform that fails every call
// when the store is not configured outside production.
func newPlatform(cfg config.ShopifyConfig, metrics *telemetry.StorefrontMetrics, log *zap.Logger) commerce.StorefrontPlatform {
	shopifyConfig := shopify.NewConfig(cfg.StoreDomain, cfg.AccessToken)
	shopifyConfig.APIVersion = cfg.APIVersion
	shopifyConfig.Endpoint = cfg.Endpoint
	shopifyConfig.TimeoutSeconds = int(cfg.Timeout / time.Second)

	client, err := shopify.NewClient(shopifyConfig, shopify.WithMetrics(metrics))
	if err != nil {
		if errors.Is(err, commerce.ErrPlatformNotConfigured) {
			log.Warn("Shopify is not configured; catalog and checkout requests will fail", zap.Error(err))
			return shopify.Unconfigured{}
		}
		log.Fatal("Failed to create Shopify client", zap.Error(err))
	}
	log.Info("Shopify client ready", zap.String("endpoint", shopifyConfig.GraphQLURL()))
	return client
}

// newPublisher returns the checkout event publisher and its close function
func newPublisher(cfg config.EventsConfig, log *zap.Logger) (shared.EventPublisher, func()) {
	if !cfg.Enabled {
		return event.NewLogPublisher(log), func() {}
	}

	pool, err := event.NewChannelPool(cfg.AMQPURL, cfg.Queue, cfg.PoolSize, log)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	log.Info("Publishing checkout events", zap.String("queue", cfg.Queue))
	return event.NewAMQPPublisher(pool, log), pool.Close
}

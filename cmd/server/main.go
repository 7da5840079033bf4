// Command server runs the storefront: server-rendered pages plus the JSON API
// in front of the Shopify Storefront API.
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
	"github.com/spf13/pflag"
	"github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/application/content"
	"github.com/storefront/backend/internal/application/customer"
	"github.com/storefront/backend/internal/application/seo"
	"github.com/storefront/backend/internal/application/vitals"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/ecommerce"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/ogimage"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/scheduler"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"github.com/storefront/backend/internal/interfaces/http/view"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "Path to the config file (default: ./config.toml)")
	pflag.Parse()

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.DefaultTimeFormat,
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	rootCtx := context.Background()
	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}

	// OTLP log export tees into the primary logger
	logProvider, err := telemetry.NewLoggerProvider(rootCtx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       serviceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	if logProvider.IsEnabled() {
		log, err = logger.New(logCfg, logProvider.ZapCore(logger.ParseLevel(cfg.Log.Level)))
		if err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Telemetry
	tracerProvider, err := telemetry.NewTracerProvider(rootCtx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       serviceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(rootCtx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       serviceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics export", zap.Error(err))
	}
	storeMetrics, err := telemetry.NewStoreMetrics(meterProvider.Meter(serviceName))
	if err != nil {
		log.Fatal("Failed to create store metrics", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Profiling.Enabled,
		ServerAddress:   cfg.Profiling.ServerAddress,
		ApplicationName: serviceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if cfg.Profiling.Enabled && cfg.Profiling.SpanProfiles && tracerProvider.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	// Database (web vitals)
	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if db.Driver == persistence.DriverSQLite {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled: cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:  cfg.Database.DBName,
	}, log); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully", zap.String("driver", db.Driver))

	// Cache and session revocation share Redis when it is available
	cacheStore, err := cache.NewStoreFactory(cache.FactoryConfig{
		Backend: cfg.Cache.Backend,
		Redis: cache.RedisConfig{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		KeyPrefix:  cfg.Cache.KeyPrefix,
		MaxEntries: cfg.Cache.MaxEntries,
		TTL:        cfg.Cache.TTL,
	}, cache.WithLogger(log)).CreateStore(rootCtx)
	if err != nil {
		log.Fatal("Failed to create cache", zap.Error(err))
	}
	defer func() {
		_ = cacheStore.Close()
	}()

	var revocations auth.RevocationList = auth.NewInMemoryRevocationList()
	var checks []handler.HealthCheck
	checks = append(checks, handler.HealthCheck{
		Name:  "database",
		Check: func(context.Context) error { return db.Ping() },
	})
	if redisStore, ok := cacheStore.(*cache.RedisStore); ok {
		revocations = auth.NewRedisRevocationList(redisStore.Client(), cfg.Cache.KeyPrefix)
		checks = append(checks, handler.HealthCheck{Name: "redis", Check: redisStore.Ping})
	}

	// Commerce platform
	shopify, err := ecommerce.NewShopifyAdapter(&ecommerce.ShopifyConfig{
		StoreDomain:         cfg.Shopify.StoreDomain,
		StorefrontToken:     cfg.Shopify.StorefrontToken,
		APIVersion:          cfg.Shopify.APIVersion,
		Timeout:             cfg.Shopify.Timeout,
		HiddenProductTag:    cfg.Shopify.HiddenProductTag,
		DefaultCurrencyCode: cfg.Shopify.DefaultCurrencyCode,
	})
	if err != nil {
		log.Fatal("Failed to configure Shopify client", zap.Error(err))
	}

	var multipass customer.MultipassSigner
	if cfg.Shopify.MultipassSecret != "" {
		m, err := ecommerce.NewMultipass(cfg.Shopify.MultipassSecret)
		if err != nil {
			log.Fatal("Invalid Multipass secret", zap.Error(err))
		}
		multipass = m
	}

	sessions, err := auth.NewSessionService(cfg.Session)
	if err != nil {
		log.Fatal("Failed to configure sessions", zap.Error(err))
	}

	// Analytics events
	var events event.Publisher = event.NoopPublisher{}
	if cfg.Events.Enabled {
		kafka, err := event.NewKafkaPublisher(rootCtx, event.KafkaConfig{
			Brokers:  cfg.Events.Brokers,
			Topic:    cfg.Events.Topic,
			ClientID: cfg.Events.ClientID,
		}, log)
		if err != nil {
			log.Warn("Kafka unavailable, logging events in process", zap.Error(err))
			bus := event.NewInMemoryBus(log)
			bus.Subscribe(event.LogHandler(log))
			events = bus
		} else {
			events = kafka
			log.Info("Publishing events to Kafka",
				zap.Strings("brokers", cfg.Events.Brokers),
				zap.String("topic", cfg.Events.Topic),
			)
		}
	}
	defer func() {
		if err := events.Close(context.Background()); err != nil {
			log.Error("Error closing event publisher", zap.Error(err))
		}
	}()

	// Published SEO artifacts
	objects, err := storage.New(&cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to configure object storage", zap.Error(err))
	}

	// Application services
	catalogService := catalog.NewService(shopify, cacheStore, events, storeMetrics, catalog.ServiceConfig{
		CacheTTL:             cfg.Cache.TTL,
		RecommendationsLimit: cfg.Shopify.RecommendationsLimit,
	}, log)
	contentService := content.NewService(shopify, cacheStore, storeMetrics, cfg.Cache.TTL, log)
	cartService := cart.NewService(shopify, events, storeMetrics, log)
	customerService := customer.NewService(shopify, sessions, revocations, multipass, events, storeMetrics, log)
	seoService := seo.NewService(seo.Config{
		BaseURL:           cfg.App.BaseURL,
		SiteName:          cfg.App.SiteName,
		HiddenProductTag:  cfg.Shopify.HiddenProductTag,
		DefaultBlogHandle: cfg.Shopify.DefaultBlogHandle,
	}, catalogService, contentService, log)
	vitalsService := vitals.NewService(persistence.NewVitalRepository(db.DB), events, storeMetrics, log)

	var images handler.ImageRenderer
	if cfg.OGImage.Enabled {
		og := ogimage.NewService(ogimage.NewChromedpRenderer(cfg.OGImage, log), cacheStore, 24*time.Hour, cfg.App.SiteName, log)
		defer func() {
			_ = og.Close()
		}()
		images = og
	}

	// Background jobs
	var jobs handler.JobRunner
	var jobScheduler *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		jobScheduler = scheduler.New(cfg.Scheduler.JobTimeout, log)
		for _, job := range []scheduler.Job{
			scheduler.SitemapJob(cfg.Scheduler.SitemapSchedule, seoService, objects, log),
			scheduler.WarmupJob(cfg.Scheduler.WarmupSchedule, catalogService),
		} {
			if err := jobScheduler.Register(job); err != nil {
				log.Fatal("Failed to register job", zap.String("job", job.Name), zap.Error(err))
			}
		}
		jobScheduler.Start()
		jobs = jobScheduler
		log.Info("Scheduler started",
			zap.String("sitemap_schedule", cfg.Scheduler.SitemapSchedule),
			zap.String("warmup_schedule", cfg.Scheduler.WarmupSchedule),
		)
	}

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	views, err := view.NewEngine()
	if err != nil {
		log.Fatal("Failed to parse templates", zap.Error(err))
	}
	engine.HTMLRender = views

	limiterCtx, stopLimiters := context.WithCancel(rootCtx)
	defer stopLimiters()

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	// 8. Tracing and metrics
	// 9. Session - Resolve the customer session cookie
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
		limiter.StartCleanup(limiterCtx, time.Minute)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Float64("rps", cfg.HTTP.RateLimitRPS),
			zap.Int("burst", cfg.HTTP.RateLimitBurst),
		)
	}

	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: serviceName,
		Enabled:     tracerProvider.IsEnabled(),
		SkipPaths:   []string{"/health", cfg.Metrics.Path},
	}))

	var observer handler.VitalObserver
	opts := router.Options{MetricsPath: cfg.Metrics.Path}
	if cfg.Metrics.Enabled {
		httpMetrics := middleware.NewHTTPMetrics(middleware.DefaultMetricsNamespace)
		engine.Use(httpMetrics.Middleware("/static/", "/health", cfg.Metrics.Path))
		observer = httpMetrics
		opts.Metrics = httpMetrics.Handler()
	}

	engine.Use(middleware.Session(customerService, cfg.Session.CookieName))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.ProfilingWithConfig(middleware.ProfilingConfig{
		Enabled:          profiler.IsEnabled(),
		SkipPaths:        []string{"/health", cfg.Metrics.Path, "/robots.txt"},
		SkipPathPrefixes: []string{"/static/"},
	}))

	var authLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		authLimiter = middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRPS, cfg.HTTP.AuthRateLimitBurst)
		authLimiter.StartCleanup(limiterCtx, time.Minute)
		opts.AuthLimit = middleware.RateLimit(authLimiter)
	}

	// HTTP handlers
	cookies := handler.NewCookies(cfg.Cookie, cfg.Session.CookieName)
	handlers := router.Handlers{
		System:     handler.NewSystemHandler(cfg.App.Name, version, jobs, cfg.Shopify.RevalidationSecret, checks...),
		Catalog:    handler.NewCatalogHandler(catalogService),
		Content:    handler.NewContentHandler(contentService),
		Cart:       handler.NewCartHandler(cartService, cookies),
		Auth:       handler.NewAuthHandler(customerService, cookies),
		Vitals:     handler.NewVitalsHandler(vitalsService, observer),
		Revalidate: handler.NewRevalidateHandler(catalogService, cfg.Shopify.RevalidationSecret),
		SEO:        handler.NewSEOHandler(seoService, objects, images),
		Pages: handler.NewPagesHandler(handler.PagesConfig{
			SiteName:           cfg.App.SiteName,
			Company:            cfg.App.Company,
			MenuHandle:         cfg.Shopify.MenuHandle,
			FooterMenuHandle:   cfg.Shopify.FooterMenuHandle,
			FeaturedCollection: cfg.Shopify.FeaturedCollection,
			CarouselCollection: cfg.Shopify.CarouselCollection,
			DefaultBlogHandle:  cfg.Shopify.DefaultBlogHandle,
			OAuthEnabled:       cfg.OAuth.Enabled,
			OAuthProvider:      cfg.OAuth.Provider,
		}, catalogService, contentService, cartService, customerService, seoService, cookies),
	}
	if cfg.OAuth.Enabled {
		provider, err := auth.NewOAuthProvider(cfg.OAuth)
		if err != nil {
			log.Fatal("Failed to configure OAuth provider", zap.Error(err))
		}
		handlers.OAuth = handler.NewOAuthHandler(provider, customerService, cookies, cfg.App.BaseURL+"/account")
		log.Info("External sign-in enabled", zap.String("provider", provider.Name()))
	}

	if authLimiter != nil {
		opts.PageAuthLimit = middleware.RateLimitWithResponse(authLimiter,
			func(c *gin.Context) string { return c.ClientIP() },
			handlers.Pages.TooManyAttempts)
	}
	router.Storefront(engine, handlers, opts)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

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

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if jobScheduler != nil {
		if err := jobScheduler.Stop(ctx); err != nil {
			log.Error("Error stopping scheduler", zap.Error(err))
		}
	}
	shutdownTelemetry(ctx, log, tracerProvider, meterProvider, profiler)
	// flush log export last so the shutdown records above are delivered
	if err := logProvider.Shutdown(ctx); err != nil {
		log.Error("Error shutting down log export", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func shutdownTelemetry(ctx context.Context, log *zap.Logger, tp *telemetry.TracerProvider, mp *telemetry.MeterProvider, p *telemetry.Profiler) {
	if err := tp.Shutdown(ctx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := mp.Shutdown(ctx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := p.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
}

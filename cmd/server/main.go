package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	assistantapp "github.com/partnerpro/product-manager/internal/application/assistant"
	catalogapp "github.com/partnerpro/product-manager/internal/application/catalog"
	chartapp "github.com/partnerpro/product-manager/internal/application/chart"
	exportapp "github.com/partnerpro/product-manager/internal/application/export"
	identityapp "github.com/partnerpro/product-manager/internal/application/identity"
	reportapp "github.com/partnerpro/product-manager/internal/application/report"
	"github.com/partnerpro/product-manager/internal/infrastructure/auth"
	"github.com/partnerpro/product-manager/internal/infrastructure/cache"
	"github.com/partnerpro/product-manager/internal/infrastructure/config"
	"github.com/partnerpro/product-manager/internal/infrastructure/llm"
	"github.com/partnerpro/product-manager/internal/infrastructure/logger"
	"github.com/partnerpro/product-manager/internal/infrastructure/migration"
	"github.com/partnerpro/product-manager/internal/infrastructure/persistence"
	"github.com/partnerpro/product-manager/internal/infrastructure/printing"
	"github.com/partnerpro/product-manager/internal/infrastructure/storage"
	"github.com/partnerpro/product-manager/internal/infrastructure/telemetry"
	"github.com/partnerpro/product-manager/internal/interfaces/http/handler"
	"github.com/partnerpro/product-manager/internal/interfaces/http/middleware"
	"github.com/partnerpro/product-manager/internal/interfaces/http/router"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	_ "github.com/partnerpro/product-manager/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Product Manager API
//	@version		1.0
//	@description	Catálogo de produtos com dashboard, exportação CSV/PDF e assistente de IA.

//	@contact.name	API Support
//	@contact.url	https://github.com/partnerpro/product-manager

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Prices travel as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	rootCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	// Telemetry
	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
	}

	logsCfg := telemetryCfg
	logsCfg.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled
	logProvider, err := telemetry.NewLoggerProvider(rootCtx, logsCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log = logProvider.Tee(log, logger.ParseLevel(cfg.Telemetry.LogsLevel))
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Product Manager",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(rootCtx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(rootCtx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.ProfilingEnabled,
		ServerAddress:     cfg.Telemetry.ProfilingServerAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		BasicAuthUser:     cfg.Telemetry.ProfilingAuthUser,
		BasicAuthPassword: cfg.Telemetry.ProfilingAuthPassword,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if cfg.Telemetry.ProfilingEnabled {
		tracerProvider.EnableSpanProfiles()
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
		if err := meterProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
		if err := logProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down log provider", zap.Error(err))
		}
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()

	appMetrics, err := telemetry.NewAppMetricsFromProvider(meterProvider)
	if err != nil {
		log.Fatal("Failed to register application metrics", zap.Error(err))
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	sqlDB, err := db.SQL()
	if err != nil {
		log.Fatal("Failed to access database pool", zap.Error(err))
	}
	migrator, err := migration.New(sqlDB, log)
	if err != nil {
		log.Fatal("Failed to initialize migrations", zap.Error(err))
	}
	if err := migrator.Up(); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	// Cache
	store, err := cache.NewFactory(cfg.Cache, cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	).CreateStore()
	if err != nil {
		log.Fatal("Failed to initialize cache", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing cache", zap.Error(err))
		}
	}()

	// Repositories and services
	productRepo := persistence.NewGormProductRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	productService := catalogapp.NewProductService(productRepo, store, cfg.Cache.TTL, log)
	dashboardService := catalogapp.NewDashboardService(productRepo, store, cfg.Cache.TTL, log)
	chartService := chartapp.NewService(productRepo)

	var model interface {
		assistantapp.LLMClient
		Close() error
	}
	gemini, err := llm.NewGemini(rootCtx, cfg.LLM, log)
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		log.Warn("LLM API key not configured, AI endpoints will answer LLM_UNAVAILABLE")
		model = llm.Disabled{}
	case err != nil:
		log.Fatal("Failed to initialize LLM client", zap.Error(err))
	default:
		model = gemini
	}
	defer func() {
		_ = model.Close()
	}()

	sessions := assistantapp.NewSessionManager(log,
		assistantapp.WithSessionTTL(cfg.Assistant.SessionTTL),
		assistantapp.WithSweepInterval(cfg.Assistant.SweepInterval),
	)
	go sessions.Run(rootCtx)

	assistantService := assistantapp.NewService(model, productService, chartService, sessions, log,
		assistantapp.WithMetrics(appMetrics),
	)
	reportService := reportapp.NewService(model, productService, log)

	locale, err := language.Parse(cfg.Export.Locale)
	if err != nil {
		log.Warn("Invalid export locale, using pt-BR", zap.String("locale", cfg.Export.Locale), zap.Error(err))
		locale = language.BrazilianPortuguese
	}
	templates := printing.NewTemplateEngine(
		printing.WithLocale(locale),
		printing.WithTemplateDir(cfg.Export.TemplatesDir),
	)
	renderer := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		DefaultTimeout: cfg.Export.RenderTimeout,
		RemoteURL:      cfg.Export.ChromeURL,
		NoSandbox:      cfg.Export.NoSandbox,
		Logger:         log,
	})
	defer func() {
		if err := renderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()

	exportOpts := []exportapp.Option{exportapp.WithMetrics(appMetrics)}
	if cfg.Export.ArchiveEnabled {
		archive, err := storage.NewS3Archive(rootCtx, cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize export archive", zap.Error(err))
		}
		if err := archive.EnsureBucket(rootCtx); err != nil {
			log.Fatal("Failed to prepare export archive bucket", zap.Error(err))
		}
		exportOpts = append(exportOpts, exportapp.WithArchiver(archive))
	}
	exportService := exportapp.NewService(productService, templates, renderer, log, exportOpts...)

	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = randomSecret()
		log.Warn("JWT secret not configured, using a random secret; tokens will not survive a restart")
	}
	jwtService := auth.NewJWTService(cfg.JWT)
	userService := identityapp.NewUserService(userRepo, jwtService, log)

	// Handlers
	systemHandler := handler.NewSystemHandler(cfg.App.Name, "1.0.0", db)
	handlers := router.Handlers{
		Product:   handler.NewProductHandler(productService, exportService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Export:    handler.NewExportHandler(exportService),
		AI:        handler.NewAIHandler(assistantService, reportService, chartService),
		Auth:      handler.NewAuthHandler(userService),
		System:    systemHandler,
	}

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName))
		engine.Use(middleware.SpanAttributes())
	}
	engine.Use(middleware.HTTPMetrics(meterProvider.Meter("http")))
	if cfg.Telemetry.ProfilingEnabled {
		engine.Use(middleware.Profiling())
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.GET("/health", systemHandler.Health)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	r := router.NewRouter(engine)
	if cfg.Auth.RequireAPIAuth {
		jwtConfig := middleware.DefaultJWTConfig(jwtService)
		jwtConfig.SkipPathPrefixes = append(jwtConfig.SkipPathPrefixes, "/api/system/")
		jwtConfig.Logger = log
		r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))
		log.Info("JWT authentication enabled for API routes")
	}

	var aiMiddleware []gin.HandlerFunc
	if cfg.HTTP.AIRateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.HTTP.AIRateLimit, cfg.HTTP.AIRateWindow)
		go limiter.Run(rootCtx)
		aiMiddleware = append(aiMiddleware, middleware.RateLimit(limiter))
	}
	router.RegisterAPI(r, handlers, aiMiddleware...)
	r.Setup()

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	stopBackground()

	log.Info("Server exited gracefully")
}

// randomSecret returns a 256-bit hex secret for development runs
func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate JWT secret: " + err.Error())
	}
	return hex.EncodeToString(b)
}

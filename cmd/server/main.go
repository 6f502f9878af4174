package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	appbilling "github.com/fieldline/backend/internal/application/billing"
	appidentity "github.com/fieldline/backend/internal/application/identity"
	appintegration "github.com/fieldline/backend/internal/application/integration"
	appmessaging "github.com/fieldline/backend/internal/application/messaging"
	"github.com/fieldline/backend/internal/application/operations"
	appschedule "github.com/fieldline/backend/internal/application/schedule"
	appworkforce "github.com/fieldline/backend/internal/application/workforce"
	"github.com/fieldline/backend/internal/domain/integration"
	"github.com/fieldline/backend/internal/infrastructure/auth"
	"github.com/fieldline/backend/internal/infrastructure/cache"
	"github.com/fieldline/backend/internal/infrastructure/calendar"
	"github.com/fieldline/backend/internal/infrastructure/config"
	"github.com/fieldline/backend/internal/infrastructure/email"
	"github.com/fieldline/backend/internal/infrastructure/logger"
	"github.com/fieldline/backend/internal/infrastructure/migration"
	"github.com/fieldline/backend/internal/infrastructure/oauth"
	"github.com/fieldline/backend/internal/infrastructure/persistence"
	"github.com/fieldline/backend/internal/infrastructure/printing"
	"github.com/fieldline/backend/internal/infrastructure/sms"
	"github.com/fieldline/backend/internal/infrastructure/storage"
	"github.com/fieldline/backend/internal/infrastructure/telemetry"
	"github.com/fieldline/backend/internal/interfaces/http/handler"
	"github.com/fieldline/backend/internal/interfaces/http/middleware"
	"github.com/fieldline/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	_ "github.com/fieldline/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Fieldline API
//	@version		1.0
//	@description	Backend for trade and field-service businesses: clients, jobs, scheduling, quotes, invoices and SMS.

//	@host		localhost:8080
//	@BasePath	/api

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token for the mobile app. Format: "Bearer {token}"

//	@securityDefinitions.apikey	SessionCookie
//	@in							cookie
//	@name						fieldline_session
//	@description				Web session cookie set by /auth/login

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, cfg.App.Env)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Fieldline backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	tracer, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level)
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
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: !cfg.App.IsProduction(),
	}, log); err != nil {
		log.Warn("Database tracing disabled", zap.Error(err))
	}

	metrics := telemetry.NewMetrics()
	if sqlDB, err := db.DB.DB(); err == nil {
		if err := metrics.RegisterDB(sqlDB, cfg.Database.DBName); err != nil {
			log.Warn("Failed to register database pool metrics", zap.Error(err))
		}
	}

	stores, err := cache.NewStores(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing shared stores", zap.Error(err))
		}
	}()

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	orgRepo := persistence.NewGormOrganizationRepository(db.DB)
	memberRepo := persistence.NewGormMemberRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	jobRepo := persistence.NewGormJobRepository(db.DB)
	propertyRepo := persistence.NewGormPropertyRepository(db.DB)
	assetJobRepo := persistence.NewGormAssetJobRepository(db.DB)
	appointmentRepo := persistence.NewGormAppointmentRepository(db.DB)
	feedRepo := persistence.NewGormFeedRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB, cfg.Billing.InvoicePrefix)
	quoteRepo := persistence.NewGormQuoteRepository(db.DB, cfg.Billing.QuotePrefix)
	smsRepo := persistence.NewGormSMSRepository(db.DB)
	integrationRepo := persistence.NewGormIntegrationRepository(db.DB)
	paymentRepo := persistence.NewGormSubcontractorPaymentRepository(db.DB)
	rateRepo := persistence.NewGormTradeRateRepository(db.DB)

	// Outbound adapters
	mailer, err := email.NewSender(cfg.Email, log)
	if err != nil {
		log.Fatal("Failed to initialize email", zap.Error(err))
	}
	smsGateway := sms.NewClient(cfg.SMS, log)

	var objects storage.ObjectStore
	var memoryObjects *storage.MemoryStore
	if cfg.Storage.Enabled {
		s3Store, err := storage.NewS3Store(ctx, cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objects = s3Store
	} else {
		log.Warn("Object storage disabled, keeping generated reports in memory")
		memoryObjects = storage.NewMemoryStore(cfg.App.BaseURL)
		objects = memoryObjects
	}

	renderer := printing.NewChromedpRenderer(cfg.Printing, log)
	defer func() {
		if err := renderer.Close(); err != nil {
			log.Warn("Error closing browser", zap.Error(err))
		}
	}()

	calendarProvider := oauth.NewProvider(integration.ProviderTradeCalendar, cfg.Calendar)
	accountingProvider := oauth.NewProvider(integration.ProviderAccounting, cfg.Accounting)
	calendarClient := calendar.NewClient(cfg.Calendar, calendarProvider, integrationRepo, log)

	jwtService := auth.NewJWTService(cfg.JWT)
	resolver := auth.NewResolver(stores.Sessions, jwtService, stores.Revoker, userRepo, cfg.Session.CookieName)

	// Application services
	access := appidentity.NewAccess(memberRepo)
	authService := appidentity.NewAuthService(userRepo, memberRepo, orgRepo, stores.Sessions, jwtService, stores.Revoker, log)
	orgService := appidentity.NewOrganizationService(orgRepo, access, appidentity.OrganizationDefaults{
		GSTRate:      decimal.NewFromFloat(cfg.Billing.DefaultGSTRate),
		PaymentTerms: cfg.Billing.DefaultPaymentTerms,
	}, log)
	memberService := appidentity.NewMemberService(userRepo, memberRepo, access, log)

	clientService := operations.NewClientService(clientRepo, access, log)
	jobService := operations.NewJobService(jobRepo, clientRepo, propertyRepo, memberRepo, access, log)
	propertyService := operations.NewPropertyService(propertyRepo, clientRepo, access, log)
	assetJobService := operations.NewAssetJobService(assetJobRepo, propertyRepo, access, log)
	reportService := operations.NewReportService(operations.ReportDeps{
		Jobs:       jobRepo,
		Clients:    clientRepo,
		Properties: propertyRepo,
		Orgs:       orgRepo,
		Users:      userRepo,
		Access:     access,
		Builder:    printing.NewReportBuilder(renderer, cfg.Printing.ReportFooter),
		Store:      objects,
		Mailer:     mailer,
		Metrics:    metrics,
		Logger:     log,
	})

	invoiceService := appbilling.NewInvoiceService(appbilling.InvoiceDeps{
		Invoices:      invoiceRepo,
		Clients:       clientRepo,
		Jobs:          jobRepo,
		Orgs:          orgRepo,
		Access:        access,
		Mailer:        mailer,
		Metrics:       metrics,
		Logger:        log,
		PublicBaseURL: cfg.App.BaseURL,
	})
	quoteService := appbilling.NewQuoteService(quoteRepo, invoiceRepo, clientRepo, jobRepo, orgRepo, access, log)
	publicService := appbilling.NewPublicService(invoiceRepo, quoteRepo, clientRepo, orgRepo, cfg.App.BaseURL, log)

	feedService := appschedule.NewFeedService(feedRepo, calendarClient, cfg.Calendar.MaxConcurrency, metrics, log)
	appointmentService := appschedule.NewAppointmentService(appointmentRepo, clientRepo, jobRepo, memberRepo, access, log)

	smsService := appmessaging.NewSMSService(appmessaging.SMSDeps{
		Messages:      smsRepo,
		Sender:        smsGateway,
		Orgs:          orgRepo,
		Clients:       clientRepo,
		Jobs:          jobRepo,
		Access:        access,
		Webhooks:      stores.Webhooks,
		WebhookSecret: cfg.SMS.WebhookSecret,
		Metrics:       metrics,
		Logger:        log,
	})

	integrationService := appintegration.NewService(
		integrationRepo,
		[]appintegration.OAuthProvider{calendarProvider, accountingProvider},
		calendarClient,
		access,
		[]byte(cfg.JWT.Secret),
		log,
	)

	paymentService := appworkforce.NewPaymentService(paymentRepo, memberRepo, jobRepo, access, log)
	rateService := appworkforce.NewTradeRateService(rateRepo, access, log)

	handlers := router.Handlers{
		Auth:          handler.NewAuthHandler(authService, cfg.Session),
		Organizations: handler.NewOrganizationHandler(orgService, memberService),
		Clients:       handler.NewClientHandler(clientService),
		Jobs:          handler.NewJobHandler(jobService, reportService),
		Invoices:      handler.NewInvoiceHandler(invoiceService, publicService),
		Quotes:        handler.NewQuoteHandler(quoteService, publicService),
		Public:        handler.NewPublicHandler(publicService),
		Appointments:  handler.NewAppointmentHandler(feedService, appointmentService),
		Properties:    handler.NewPropertyHandler(propertyService, assetJobService),
		SMS:           handler.NewSMSHandler(smsService),
		Integrations:  handler.NewIntegrationHandler(integrationService),
		Workforce:     handler.NewWorkforceHandler(paymentService, rateService),
		System: handler.NewSystemHandler(db, calendarClient.State,
			migration.NewRunner(cfg.Database.DSN(), log), cfg.Migrate.APIKey),
	}

	middleware.SetupValidator()

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, tracer.IsEnabled()))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.SpanAnnotator())
	engine.Use(middleware.HTTPMetrics(metrics))
	engine.Use(middleware.Secure(cfg.App.IsProduction()))
	engine.Use(middleware.CORS(corsConfig(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	routeCfg := router.Config{
		Resolver:      resolver,
		AuthLimiter:   middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow),
		PublicLimiter: middleware.NewRateLimiter(cfg.HTTP.PublicRateLimitRequests, cfg.HTTP.PublicRateLimitWindow),
		Swagger:       ginSwagger.WrapHandler(swaggerFiles.Handler),
		SwaggerAccess: middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		},
	}
	if cfg.Telemetry.MetricsEnabled {
		routeCfg.Metrics = metrics.Handler()
	}
	router.Mount(engine, handlers, routeCfg)

	if memoryObjects != nil {
		engine.GET("/objects/*key", objectHandler(memoryObjects))
	}

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tracer.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to flush traces", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// corsConfig overlays the configured CORS lists on the defaults
func corsConfig(h config.HTTPConfig) middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	c.AllowOrigins = h.CORSAllowOrigins
	if len(h.CORSAllowMethods) > 0 {
		c.AllowMethods = h.CORSAllowMethods
	}
	if len(h.CORSAllowHeaders) > 0 {
		c.AllowHeaders = h.CORSAllowHeaders
	}
	return c
}

// objectHandler serves reports kept by the in-memory store in development
func objectHandler(store *storage.MemoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, contentType, ok := store.Get(strings.TrimPrefix(c.Param("key"), "/"))
		if !ok {
			c.Status(http.StatusNotFound)
			return
		}
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, contentType, data)
	}
}

package router

import (
	"net/http"

	"github.com/fieldline/backend/internal/interfaces/http/handler"
	"github.com/fieldline/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers are the HTTP handlers behind the route table
type Handlers struct {
	Auth          *handler.AuthHandler
	Organizations *handler.OrganizationHandler
	Clients       *handler.ClientHandler
	Jobs          *handler.JobHandler
	Invoices      *handler.InvoiceHandler
	Quotes        *handler.QuoteHandler
	Public        *handler.PublicHandler
	Appointments  *handler.AppointmentHandler
	Properties    *handler.PropertyHandler
	SMS           *handler.SMSHandler
	Integrations  *handler.IntegrationHandler
	Workforce     *handler.WorkforceHandler
	System        *handler.SystemHandler
}

// Config carries what the route table needs besides handlers
type Config struct {
	Resolver      middleware.IdentityResolver
	AuthLimiter   *middleware.RateLimiter
	PublicLimiter *middleware.RateLimiter
	// Metrics serves /metrics when set
	Metrics http.Handler
	// Swagger serves /swagger/*any when set
	Swagger       gin.HandlerFunc
	SwaggerAccess middleware.SwaggerConfig
}

// Mount registers every route on engine
func Mount(engine *gin.Engine, h Handlers, cfg Config) {
	authed := middleware.Authenticate(cfg.Resolver)
	optional := middleware.OptionalAuth(cfg.Resolver)
	authLimit := middleware.RateLimitByIP(cfg.AuthLimiter)
	publicLimit := middleware.RateLimitByIP(cfg.PublicLimiter)

	engine.GET("/health", h.System.Health)
	engine.GET("/public/invoice/:id", publicLimit, h.Public.InvoicePage)
	if cfg.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(cfg.Metrics))
	}
	if cfg.Swagger != nil {
		engine.GET("/swagger/*any", middleware.SwaggerProtection(cfg.SwaggerAccess), cfg.Swagger)
	}

	authRoutes := NewDomainGroup("/auth")
	authRoutes.POST("/login", authLimit, h.Auth.Login)
	authRoutes.POST("/logout", authed, h.Auth.Logout)
	authRoutes.POST("/mobile/login", authLimit, h.Auth.MobileLogin)
	authRoutes.POST("/mobile/refresh", authLimit, h.Auth.Refresh)
	authRoutes.GET("/me", authed, h.Auth.Me)

	orgRoutes := NewDomainGroup("/organizations").Use(authed)
	orgRoutes.GET("", h.Organizations.List)
	orgRoutes.POST("", h.Organizations.Create)
	orgRoutes.GET("/:id", h.Organizations.Get)
	orgRoutes.PUT("/:id", h.Organizations.Update)
	memberRoutes := orgRoutes.Group("/:id/members")
	memberRoutes.GET("", h.Organizations.ListMembers)
	memberRoutes.POST("", h.Organizations.InviteMember)
	memberRoutes.PUT("/:member_id", h.Organizations.UpdateMember)
	memberRoutes.DELETE("/:member_id", h.Organizations.RemoveMember)

	clientRoutes := NewDomainGroup("/clients").Use(authed)
	clientRoutes.GET("", h.Clients.List)
	clientRoutes.POST("", h.Clients.Create)
	clientRoutes.GET("/:id", h.Clients.Get)
	clientRoutes.PUT("/:id", h.Clients.Update)
	clientRoutes.DELETE("/:id", h.Clients.Delete)

	jobRoutes := NewDomainGroup("/jobs").Use(authed)
	jobRoutes.GET("", h.Jobs.List)
	jobRoutes.POST("", h.Jobs.Create)
	jobRoutes.GET("/:id", h.Jobs.Get)
	jobRoutes.PUT("/:id", h.Jobs.Update)
	jobRoutes.DELETE("/:id", h.Jobs.Delete)
	jobRoutes.POST("/:id/complete", h.Jobs.Complete)
	jobRoutes.GET("/:id/report", h.Jobs.Report)
	jobRoutes.POST("/:id/report/send", h.Jobs.SendReport)

	// A document GET carrying public_token is answered without a session,
	// so it sits outside the authenticated groups.
	documentRoutes := NewDomainGroup("").Use(optional, whenPublicToken(publicLimit))
	documentRoutes.GET("/invoices/:id", h.Invoices.Get)
	documentRoutes.GET("/quotes/:id", h.Quotes.Get)

	invoiceRoutes := NewDomainGroup("/invoices").Use(authed)
	invoiceRoutes.GET("", h.Invoices.List)
	invoiceRoutes.GET("/export", h.Invoices.Export)
	invoiceRoutes.POST("", h.Invoices.Create)
	invoiceRoutes.PUT("/:id", h.Invoices.Update)
	invoiceRoutes.DELETE("/:id", h.Invoices.Delete)
	invoiceRoutes.POST("/:id/line-items", h.Invoices.AddLine)
	invoiceRoutes.PUT("/:id/line-items/:item_id", h.Invoices.UpdateLine)
	invoiceRoutes.DELETE("/:id/line-items/:item_id", h.Invoices.RemoveLine)
	invoiceRoutes.GET("/:id/payments", h.Invoices.Payments)
	invoiceRoutes.POST("/:id/payments", h.Invoices.RecordPayment)
	invoiceRoutes.DELETE("/:id/payments/:payment_id", h.Invoices.RemovePayment)
	invoiceRoutes.GET("/:id/pdf", h.Invoices.PDF)
	invoiceRoutes.POST("/:id/send", h.Invoices.Send)

	quoteRoutes := NewDomainGroup("/quotes").Use(authed)
	quoteRoutes.GET("", h.Quotes.List)
	quoteRoutes.POST("", h.Quotes.Create)
	quoteRoutes.PUT("/:id", h.Quotes.Update)
	quoteRoutes.DELETE("/:id", h.Quotes.Delete)
	quoteRoutes.POST("/:id/line-items", h.Quotes.AddLine)
	quoteRoutes.PUT("/:id/line-items/:item_id", h.Quotes.UpdateLine)
	quoteRoutes.DELETE("/:id/line-items/:item_id", h.Quotes.RemoveLine)
	quoteRoutes.POST("/:id/convert", h.Quotes.Convert)

	publicRoutes := NewDomainGroup("/public").Use(publicLimit)
	publicRoutes.GET("/invoices/:token", h.Public.Invoice)
	publicRoutes.GET("/quotes/:token", h.Public.Quote)

	appointmentRoutes := NewDomainGroup("/appointments").Use(authed)
	appointmentRoutes.GET("", h.Appointments.Feed)
	appointmentRoutes.POST("", h.Appointments.Create)
	appointmentRoutes.GET("/:id", h.Appointments.Get)
	appointmentRoutes.PUT("/:id", h.Appointments.Update)
	appointmentRoutes.DELETE("/:id", h.Appointments.Delete)

	propertyRoutes := NewDomainGroup("").Use(authed)
	propertyRoutes.GET("/properties", h.Properties.List)
	propertyRoutes.POST("/properties", h.Properties.Create)
	propertyRoutes.GET("/properties/:id", h.Properties.Get)
	propertyRoutes.PUT("/properties/:id", h.Properties.Update)
	propertyRoutes.DELETE("/properties/:id", h.Properties.Delete)
	propertyRoutes.GET("/properties/:id/assets", h.Properties.ListAssets)
	propertyRoutes.POST("/properties/:id/assets", h.Properties.CreateAsset)
	propertyRoutes.PUT("/assets/:id", h.Properties.UpdateAsset)
	propertyRoutes.DELETE("/assets/:id", h.Properties.DeleteAsset)
	propertyRoutes.GET("/asset-jobs", h.Properties.ListAssetJobs)
	propertyRoutes.POST("/asset-jobs", h.Properties.CreateAssetJob)
	propertyRoutes.PUT("/asset-jobs/:id", h.Properties.UpdateAssetJob)
	propertyRoutes.DELETE("/asset-jobs/:id", h.Properties.DeleteAssetJob)
	propertyRoutes.POST("/asset-jobs/:id/complete", h.Properties.CompleteAssetJob)

	smsRoutes := NewDomainGroup("/sms").Use(authed)
	smsRoutes.GET("", h.SMS.List)
	smsRoutes.POST("/send", h.SMS.Send)
	smsRoutes.GET("/credits", h.SMS.Credits)
	smsRoutes.POST("/credits", h.SMS.TopUp)

	webhookRoutes := NewDomainGroup("/webhooks")
	webhookRoutes.POST("/sms", h.SMS.DeliveryReport)

	integrationRoutes := NewDomainGroup("/integrations").Use(authed)
	integrationRoutes.GET("", h.Integrations.List)
	integrationRoutes.GET("/:provider/authorize", h.Integrations.Authorize)
	integrationRoutes.POST("/:provider/connect", h.Integrations.Connect)
	integrationRoutes.PUT("/:id", h.Integrations.Update)
	integrationRoutes.DELETE("/:id", h.Integrations.Delete)

	workforceRoutes := NewDomainGroup("").Use(authed)
	workforceRoutes.GET("/subcontractor-payments", h.Workforce.ListPayments)
	workforceRoutes.POST("/subcontractor-payments", h.Workforce.CreatePayment)
	workforceRoutes.PUT("/subcontractor-payments/:id", h.Workforce.UpdatePayment)
	workforceRoutes.DELETE("/subcontractor-payments/:id", h.Workforce.DeletePayment)
	workforceRoutes.POST("/subcontractor-payments/:id/pay", h.Workforce.Pay)
	workforceRoutes.GET("/trade-rates", h.Workforce.ListRates)
	workforceRoutes.POST("/trade-rates", h.Workforce.CreateRate)
	workforceRoutes.PUT("/trade-rates/:id", h.Workforce.UpdateRate)
	workforceRoutes.DELETE("/trade-rates/:id", h.Workforce.DeleteRate)

	systemRoutes := NewDomainGroup("")
	systemRoutes.POST("/migrate", authLimit, h.System.Migrate)

	NewRouter(engine).
		Register(authRoutes).
		Register(orgRoutes).
		Register(clientRoutes).
		Register(jobRoutes).
		Register(documentRoutes).
		Register(invoiceRoutes).
		Register(quoteRoutes).
		Register(publicRoutes).
		Register(appointmentRoutes).
		Register(propertyRoutes).
		Register(smsRoutes).
		Register(webhookRoutes).
		Register(integrationRoutes).
		Register(workforceRoutes).
		Register(systemRoutes).
		Setup()
}

// whenPublicToken runs mw only for requests taking the public token branch
func whenPublicToken(mw gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Query("public_token") == "" {
			c.Next()
			return
		}
		mw(c)
	}
}

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Session    SessionConfig
	Log        LogConfig
	HTTP       HTTPConfig
	Swagger    SwaggerConfig
	Telemetry  TelemetryConfig
	Printing   PrintingConfig
	Storage    StorageConfig
	Email      EmailConfig
	SMS        SMSConfig
	Calendar   OAuthProviderConfig
	Accounting OAuthProviderConfig
	Migrate    MigrateConfig
	Billing    BillingConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name    string
	Env     string
	Port    string
	BaseURL string // Public origin used in emailed links
}

// IsProduction reports whether the app runs in production
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig holds settings for mobile bearer tokens
type JWTConfig struct {
	Secret                 string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
	RefreshSecret          string
	MaxRefreshCount        int
}

// SessionConfig holds web session cookie settings
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Domain     string // Domain for cookies (empty = current domain)
	Path       string
	Secure     bool
	SameSite   string // "strict", "lax", or "none"
	KeyPrefix  string // Redis key prefix
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	IdleTimeout             time.Duration
	MaxHeaderBytes          int
	MaxBodySize             int64
	PublicRateLimitRequests int           // Requests per window per IP on public token endpoints
	PublicRateLimitWindow   time.Duration //
	AuthRateLimitRequests   int           // Login attempts per window per IP
	AuthRateLimitWindow     time.Duration
	CORSAllowOrigins        []string
	CORSAllowMethods        []string
	CORSAllowHeaders        []string
	TrustedProxies          []string
}

// SwaggerConfig holds Swagger documentation endpoint configuration
type SwaggerConfig struct {
	Enabled    bool
	AllowedIPs []string // IP whitelist (empty = allow all)
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // 0.0-1.0
	ServiceName       string
	Insecure          bool // Non-TLS collector connection (development only)
	DBTraceEnabled    bool
	MetricsEnabled    bool // Expose /metrics
}

// PrintingConfig holds headless browser settings for report rendering
type PrintingConfig struct {
	RemoteURL     string // DevTools websocket of a shared Chrome; empty launches a local one
	Timeout       time.Duration
	NoSandbox     bool
	ExecPath      string
	ReportFooter  string
	MaxConcurrent int
}

// StorageConfig holds S3-compatible object storage settings
type StorageConfig struct {
	Enabled         bool
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	PresignExpiry   time.Duration
	KeyPrefix       string
}

// EmailConfig holds transactional email settings
type EmailConfig struct {
	Enabled  bool
	APIKey   string
	From     string
	ReplyTo  string
	BaseURL  string // Override of the email API origin (tests, proxies)
	Timeout  time.Duration
	Fallback bool // Log instead of send when disabled
}

// SMSConfig holds SMS provider settings
type SMSConfig struct {
	Enabled       bool
	BaseURL       string
	APIKey        string
	APISecret     string
	SenderID      string
	WebhookSecret string
	RatePerSecond float64
	Timeout       time.Duration
}

// OAuthProviderConfig holds OAuth2 client and API settings of an external provider
type OAuthProviderConfig struct {
	Enabled         bool
	ClientID        string
	ClientSecret    string
	AuthURL         string
	TokenURL        string
	RedirectURL     string
	APIBaseURL      string
	Scopes          []string
	Timeout         time.Duration
	MaxConcurrency  int
	BreakerTimeout  time.Duration // How long the circuit stays open
	BreakerFailures int           // Consecutive failures before opening
}

// MigrateConfig holds settings for the migration endpoint
type MigrateConfig struct {
	APIKey string // Required X-Migration-Key; endpoint disabled when empty
}

// BillingConfig holds defaults for new organizations and documents
type BillingConfig struct {
	DefaultGSTRate      float64
	DefaultPaymentTerms int // days
	QuoteValidityDays   int
	InvoicePrefix       string
	QuotePrefix         string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with FIELDLINE_ prefix (e.g., FIELDLINE_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("FIELDLINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:    v.GetString("app.name"),
			Env:     v.GetString("app.env"),
			Port:    v.GetString("app.port"),
			BaseURL: v.GetString("app.base_url"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                 v.GetString("jwt.secret"),
			AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
			RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
			Issuer:                 v.GetString("jwt.issuer"),
			RefreshSecret:          v.GetString("jwt.refresh_secret"),
			MaxRefreshCount:        v.GetInt("jwt.max_refresh_count"),
		},
		Session: SessionConfig{
			CookieName: v.GetString("session.cookie_name"),
			TTL:        v.GetDuration("session.ttl"),
			Domain:     v.GetString("session.domain"),
			Path:       v.GetString("session.path"),
			Secure:     v.GetBool("session.secure"),
			SameSite:   v.GetString("session.same_site"),
			KeyPrefix:  v.GetString("session.key_prefix"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:             v.GetDuration("http.read_timeout"),
			WriteTimeout:            v.GetDuration("http.write_timeout"),
			IdleTimeout:             v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:          v.GetInt("http.max_header_bytes"),
			MaxBodySize:             v.GetInt64("http.max_body_size"),
			PublicRateLimitRequests: v.GetInt("http.public_rate_limit_requests"),
			PublicRateLimitWindow:   v.GetDuration("http.public_rate_limit_window"),
			AuthRateLimitRequests:   v.GetInt("http.auth_rate_limit_requests"),
			AuthRateLimitWindow:     v.GetDuration("http.auth_rate_limit_window"),
			CORSAllowOrigins:        v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:        v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:        v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:          v.GetStringSlice("http.trusted_proxies"),
		},
		Swagger: SwaggerConfig{
			Enabled:    v.GetBool("swagger.enabled"),
			AllowedIPs: v.GetStringSlice("swagger.allowed_ips"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
		},
		Printing: PrintingConfig{
			RemoteURL:     v.GetString("printing.remote_url"),
			Timeout:       v.GetDuration("printing.timeout"),
			NoSandbox:     v.GetBool("printing.no_sandbox"),
			ExecPath:      v.GetString("printing.exec_path"),
			ReportFooter:  v.GetString("printing.report_footer"),
			MaxConcurrent: v.GetInt("printing.max_concurrent"),
		},
		Storage: StorageConfig{
			Enabled:         v.GetBool("storage.enabled"),
			Endpoint:        v.GetString("storage.endpoint"),
			Region:          v.GetString("storage.region"),
			Bucket:          v.GetString("storage.bucket"),
			AccessKeyID:     v.GetString("storage.access_key_id"),
			SecretAccessKey: v.GetString("storage.secret_access_key"),
			UsePathStyle:    v.GetBool("storage.use_path_style"),
			PresignExpiry:   v.GetDuration("storage.presign_expiry"),
			KeyPrefix:       v.GetString("storage.key_prefix"),
		},
		Email: EmailConfig{
			Enabled:  v.GetBool("email.enabled"),
			APIKey:   v.GetString("email.api_key"),
			From:     v.GetString("email.from"),
			ReplyTo:  v.GetString("email.reply_to"),
			BaseURL:  v.GetString("email.base_url"),
			Timeout:  v.GetDuration("email.timeout"),
			Fallback: v.GetBool("email.fallback"),
		},
		SMS: SMSConfig{
			Enabled:       v.GetBool("sms.enabled"),
			BaseURL:       v.GetString("sms.base_url"),
			APIKey:        v.GetString("sms.api_key"),
			APISecret:     v.GetString("sms.api_secret"),
			SenderID:      v.GetString("sms.sender_id"),
			WebhookSecret: v.GetString("sms.webhook_secret"),
			RatePerSecond: v.GetFloat64("sms.rate_per_second"),
			Timeout:       v.GetDuration("sms.timeout"),
		},
		Calendar:   loadOAuthProvider(v, "calendar"),
		Accounting: loadOAuthProvider(v, "accounting"),
		Migrate: MigrateConfig{
			APIKey: v.GetString("migrate.api_key"),
		},
		Billing: BillingConfig{
			DefaultGSTRate:      v.GetFloat64("billing.default_gst_rate"),
			DefaultPaymentTerms: v.GetInt("billing.default_payment_terms"),
			QuoteValidityDays:   v.GetInt("billing.quote_validity_days"),
			InvoicePrefix:       v.GetString("billing.invoice_prefix"),
			QuotePrefix:         v.GetString("billing.quote_prefix"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadOAuthProvider(v *viper.Viper, section string) OAuthProviderConfig {
	key := func(k string) string { return section + "." + k }
	return OAuthProviderConfig{
		Enabled:         v.GetBool(key("enabled")),
		ClientID:        v.GetString(key("client_id")),
		ClientSecret:    v.GetString(key("client_secret")),
		AuthURL:         v.GetString(key("auth_url")),
		TokenURL:        v.GetString(key("token_url")),
		RedirectURL:     v.GetString(key("redirect_url")),
		APIBaseURL:      v.GetString(key("api_base_url")),
		Scopes:          v.GetStringSlice(key("scopes")),
		Timeout:         v.GetDuration(key("timeout")),
		MaxConcurrency:  v.GetInt(key("max_concurrency")),
		BreakerTimeout:  v.GetDuration(key("breaker_timeout")),
		BreakerFailures: v.GetInt(key("breaker_failures")),
	}
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "fieldline"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.App.BaseURL == "" {
		cfg.App.BaseURL = "http://localhost:" + cfg.App.Port
	}
	cfg.App.BaseURL = strings.TrimRight(cfg.App.BaseURL, "/")
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "fieldline"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = 15 * time.Minute
	}
	if cfg.JWT.RefreshTokenExpiration == 0 {
		cfg.JWT.RefreshTokenExpiration = 30 * 24 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "fieldline"
	}
	if cfg.JWT.MaxRefreshCount == 0 {
		cfg.JWT.MaxRefreshCount = 100
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "fieldline_session"
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = 14 * 24 * time.Hour
	}
	if cfg.Session.Path == "" {
		cfg.Session.Path = "/"
	}
	if cfg.Session.SameSite == "" {
		cfg.Session.SameSite = "lax"
	}
	if cfg.Session.KeyPrefix == "" {
		cfg.Session.KeyPrefix = "session:"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 60 * time.Second // PDF rendering runs inside the request
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20 // 10MB
	}
	if cfg.HTTP.PublicRateLimitRequests == 0 {
		cfg.HTTP.PublicRateLimitRequests = 60
	}
	if cfg.HTTP.PublicRateLimitWindow == 0 {
		cfg.HTTP.PublicRateLimitWindow = time.Minute
	}
	if cfg.HTTP.AuthRateLimitRequests == 0 {
		cfg.HTTP.AuthRateLimitRequests = 10
	}
	if cfg.HTTP.AuthRateLimitWindow == 0 {
		cfg.HTTP.AuthRateLimitWindow = time.Minute
	}
	// CORS origins have no fallback; cross-origin requests are refused until configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Printing.Timeout == 0 {
		cfg.Printing.Timeout = 30 * time.Second
	}
	if cfg.Printing.MaxConcurrent == 0 {
		cfg.Printing.MaxConcurrent = 2
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "ap-southeast-2"
	}
	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = "fieldline-documents"
	}
	if cfg.Storage.PresignExpiry == 0 {
		cfg.Storage.PresignExpiry = 7 * 24 * time.Hour
	}
	if cfg.Email.Timeout == 0 {
		cfg.Email.Timeout = 15 * time.Second
	}
	if cfg.SMS.RatePerSecond == 0 {
		cfg.SMS.RatePerSecond = 5
	}
	if cfg.SMS.Timeout == 0 {
		cfg.SMS.Timeout = 10 * time.Second
	}
	applyOAuthDefaults(&cfg.Calendar)
	applyOAuthDefaults(&cfg.Accounting)
	if cfg.Billing.DefaultGSTRate == 0 {
		cfg.Billing.DefaultGSTRate = 0.10
	}
	if cfg.Billing.DefaultPaymentTerms == 0 {
		cfg.Billing.DefaultPaymentTerms = 14
	}
	if cfg.Billing.QuoteValidityDays == 0 {
		cfg.Billing.QuoteValidityDays = 30
	}
	if cfg.Billing.InvoicePrefix == "" {
		cfg.Billing.InvoicePrefix = "INV-"
	}
	if cfg.Billing.QuotePrefix == "" {
		cfg.Billing.QuotePrefix = "Q-"
	}
}

func applyOAuthDefaults(p *OAuthProviderConfig) {
	if p.Timeout == 0 {
		p.Timeout = 10 * time.Second
	}
	if p.MaxConcurrency == 0 {
		p.MaxConcurrency = 4
	}
	if p.BreakerTimeout == 0 {
		p.BreakerTimeout = 30 * time.Second
	}
	if p.BreakerFailures == 0 {
		p.BreakerFailures = 5
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.App.IsProduction() {
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if !c.Session.Secure {
			return fmt.Errorf("session.secure must be true in production (HTTPS required for secure cookies)")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Swagger.Enabled && len(c.Swagger.AllowedIPs) == 0 {
			return fmt.Errorf("swagger endpoint must be disabled or IP restricted in production")
		}
		if c.Migrate.APIKey != "" && len(c.Migrate.APIKey) < 24 {
			return fmt.Errorf("migrate.api_key must be at least 24 characters in production")
		}
		if c.SMS.Enabled && c.SMS.WebhookSecret == "" {
			return fmt.Errorf("sms.webhook_secret is required when sms is enabled in production")
		}
	}

	if c.Session.SameSite == "none" && !c.Session.Secure {
		return fmt.Errorf("session.same_site=none requires session.secure=true")
	}
	if c.Billing.DefaultGSTRate < 0 || c.Billing.DefaultGSTRate >= 1 {
		return fmt.Errorf("billing.default_gst_rate must be a fraction between 0 and 1, got %f", c.Billing.DefaultGSTRate)
	}
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	if c.Email.Enabled && (c.Email.APIKey == "" || c.Email.From == "") {
		return fmt.Errorf("email.api_key and email.from are required when email is enabled")
	}
	if c.Storage.Enabled && c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required when storage is enabled")
	}
	for name, p := range map[string]OAuthProviderConfig{"calendar": c.Calendar, "accounting": c.Accounting} {
		if p.Enabled && (p.ClientID == "" || p.TokenURL == "" || p.AuthURL == "") {
			return fmt.Errorf("%s.client_id, %s.auth_url and %s.token_url are required when enabled", name, name, name)
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

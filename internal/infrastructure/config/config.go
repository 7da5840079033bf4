package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. STORE_SHOPIFY_STORE_DOMAIN.
const EnvPrefix = "STORE"

// Config holds all configuration for the storefront server
type Config struct {
	App       AppConfig
	Shopify   ShopifyConfig
	Session   SessionConfig
	Cookie    CookieConfig
	OAuth     OAuthConfig
	Cache     CacheConfig
	Redis     RedisConfig
	Database  DatabaseConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Events    EventsConfig
	Storage   StorageConfig
	OGImage   OGImageConfig
	Scheduler SchedulerConfig
	Telemetry TelemetryConfig
	Profiling ProfilingConfig
	Metrics   MetricsConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Name     string
	Env      string
	Port     string
	BaseURL  string // public origin used for canonical URLs and the sitemap
	SiteName string
	Company  string
}

// IsProduction reports whether the server runs in production mode
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// ShopifyConfig holds the commerce API connection settings
type ShopifyConfig struct {
	StoreDomain          string
	StorefrontToken      string
	APIVersion           string
	Timeout              time.Duration
	RevalidationSecret   string
	MultipassSecret      string
	HiddenProductTag     string
	FeaturedCollection   string
	CarouselCollection   string
	DefaultCurrencyCode  string
	MenuHandle           string
	FooterMenuHandle     string
	DefaultBlogHandle    string
	RecommendationsLimit int
}

// SessionConfig holds customer session settings
type SessionConfig struct {
	Secret     string
	TTL        time.Duration
	Issuer     string
	CookieName string
}

// CookieConfig holds cookie attributes shared by session and cart cookies
type CookieConfig struct {
	Domain      string
	Path        string
	Secure      bool
	SameSite    string // "strict", "lax", or "none"
	CartName    string
	CartMaxAge  time.Duration
	StateMaxAge time.Duration
	StateCookie string
}

// OAuthConfig holds the external identity provider settings
type OAuthConfig struct {
	Enabled      bool
	Provider     string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// CacheConfig holds read-through cache settings
type CacheConfig struct {
	Backend    string // "redis" or "memory"
	TTL        time.Duration
	MaxEntries int
	KeyPrefix  string
}

// RedisConfig holds Redis configuration
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

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver          string // "postgres" or "sqlite"
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	ShutdownTimeout    time.Duration
	MaxHeaderBytes     int
	MaxBodySize        int64
	RateLimitEnabled   bool
	RateLimitRPS       float64
	RateLimitBurst     int
	AuthRateLimitRPS   float64
	AuthRateLimitBurst int
	CORSAllowOrigins   []string
	CORSAllowMethods   []string
	CORSAllowHeaders   []string
	TrustedProxies     []string
}

// EventsConfig holds analytics event publishing settings
type EventsConfig struct {
	Enabled  bool
	Brokers  []string
	Topic    string
	ClientID string
}

// StorageConfig holds object storage settings for published SEO artifacts
type StorageConfig struct {
	Type            string // "s3" or "memory"
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	Prefix          string
}

// OGImageConfig holds headless browser settings for Open Graph images
type OGImageConfig struct {
	Enabled    bool
	RemoteURL  string
	ChromePath string
	Timeout    time.Duration
}

// SchedulerConfig holds background job settings
type SchedulerConfig struct {
	Enabled         bool
	SitemapSchedule string
	WarmupSchedule  string
	JobTimeout      time.Duration
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	LogsEnabled       bool
	DBTraceEnabled    bool
	MetricsInterval   time.Duration
}

// ProfilingConfig holds continuous profiling configuration
type ProfilingConfig struct {
	Enabled       bool
	ServerAddress string
	SpanProfiles  bool
}

// MetricsConfig holds Prometheus exposition settings
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Load reads configuration from ./config.toml, .env and the environment.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration. Priority (highest to lowest):
// 1. Environment variables with STORE_ prefix (a .env file is loaded first)
// 2. The TOML file at path, or config.toml in the working directory
// 3. Built-in defaults
func LoadFrom(path string) (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType(strings.TrimPrefix(filepath.Ext(path), "."))
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("/app")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:     v.GetString("app.name"),
			Env:      v.GetString("app.env"),
			Port:     v.GetString("app.port"),
			BaseURL:  v.GetString("app.base_url"),
			SiteName: v.GetString("app.site_name"),
			Company:  v.GetString("app.company"),
		},
		Shopify: ShopifyConfig{
			StoreDomain:          v.GetString("shopify.store_domain"),
			StorefrontToken:      v.GetString("shopify.storefront_token"),
			APIVersion:           v.GetString("shopify.api_version"),
			Timeout:              v.GetDuration("shopify.timeout"),
			RevalidationSecret:   v.GetString("shopify.revalidation_secret"),
			MultipassSecret:      v.GetString("shopify.multipass_secret"),
			HiddenProductTag:     v.GetString("shopify.hidden_product_tag"),
			FeaturedCollection:   v.GetString("shopify.featured_collection"),
			CarouselCollection:   v.GetString("shopify.carousel_collection"),
			DefaultCurrencyCode:  v.GetString("shopify.default_currency_code"),
			MenuHandle:           v.GetString("shopify.menu_handle"),
			FooterMenuHandle:     v.GetString("shopify.footer_menu_handle"),
			DefaultBlogHandle:    v.GetString("shopify.default_blog_handle"),
			RecommendationsLimit: v.GetInt("shopify.recommendations_limit"),
		},
		Session: SessionConfig{
			Secret:     v.GetString("session.secret"),
			TTL:        v.GetDuration("session.ttl"),
			Issuer:     v.GetString("session.issuer"),
			CookieName: v.GetString("session.cookie_name"),
		},
		Cookie: CookieConfig{
			Domain:      v.GetString("cookie.domain"),
			Path:        v.GetString("cookie.path"),
			Secure:      v.GetBool("cookie.secure"),
			SameSite:    v.GetString("cookie.same_site"),
			CartName:    v.GetString("cookie.cart_name"),
			CartMaxAge:  v.GetDuration("cookie.cart_max_age"),
			StateMaxAge: v.GetDuration("cookie.state_max_age"),
			StateCookie: v.GetString("cookie.state_cookie"),
		},
		OAuth: OAuthConfig{
			Enabled:      v.GetBool("oauth.enabled"),
			Provider:     v.GetString("oauth.provider"),
			ClientID:     v.GetString("oauth.client_id"),
			ClientSecret: v.GetString("oauth.client_secret"),
			RedirectURL:  v.GetString("oauth.redirect_url"),
			Scopes:       v.GetStringSlice("oauth.scopes"),
		},
		Cache: CacheConfig{
			Backend:    v.GetString("cache.backend"),
			TTL:        v.GetDuration("cache.ttl"),
			MaxEntries: v.GetInt("cache.max_entries"),
			KeyPrefix:  v.GetString("cache.key_prefix"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			SQLitePath:      v.GetString("database.sqlite_path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
			LogLevel:        v.GetString("database.log_level"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:        v.GetDuration("http.read_timeout"),
			WriteTimeout:       v.GetDuration("http.write_timeout"),
			IdleTimeout:        v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:    v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:     v.GetInt("http.max_header_bytes"),
			MaxBodySize:        v.GetInt64("http.max_body_size"),
			RateLimitEnabled:   v.GetBool("http.rate_limit_enabled"),
			RateLimitRPS:       v.GetFloat64("http.rate_limit_rps"),
			RateLimitBurst:     v.GetInt("http.rate_limit_burst"),
			AuthRateLimitRPS:   v.GetFloat64("http.auth_rate_limit_rps"),
			AuthRateLimitBurst: v.GetInt("http.auth_rate_limit_burst"),
			CORSAllowOrigins:   v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:   v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:   v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:     v.GetStringSlice("http.trusted_proxies"),
		},
		Events: EventsConfig{
			Enabled:  v.GetBool("events.enabled"),
			Brokers:  v.GetStringSlice("events.brokers"),
			Topic:    v.GetString("events.topic"),
			ClientID: v.GetString("events.client_id"),
		},
		Storage: StorageConfig{
			Type:            v.GetString("storage.type"),
			Endpoint:        v.GetString("storage.endpoint"),
			Region:          v.GetString("storage.region"),
			Bucket:          v.GetString("storage.bucket"),
			AccessKeyID:     v.GetString("storage.access_key_id"),
			SecretAccessKey: v.GetString("storage.secret_access_key"),
			UsePathStyle:    v.GetBool("storage.use_path_style"),
			Prefix:          v.GetString("storage.prefix"),
		},
		OGImage: OGImageConfig{
			Enabled:    v.GetBool("og_image.enabled"),
			RemoteURL:  v.GetString("og_image.remote_url"),
			ChromePath: v.GetString("og_image.chrome_path"),
			Timeout:    v.GetDuration("og_image.timeout"),
		},
		Scheduler: SchedulerConfig{
			Enabled:         v.GetBool("scheduler.enabled"),
			SitemapSchedule: v.GetString("scheduler.sitemap_schedule"),
			WarmupSchedule:  v.GetString("scheduler.warmup_schedule"),
			JobTimeout:      v.GetDuration("scheduler.job_timeout"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
		},
		Profiling: ProfilingConfig{
			Enabled:       v.GetBool("profiling.enabled"),
			ServerAddress: v.GetString("profiling.server_address"),
			SpanProfiles:  v.GetBool("profiling.span_profiles"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics.enabled"),
			Path:    v.GetString("metrics.path"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "storefront"
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
	if cfg.App.SiteName == "" {
		cfg.App.SiteName = "Storefront"
	}
	if cfg.App.Company == "" {
		cfg.App.Company = cfg.App.SiteName
	}

	if cfg.Shopify.APIVersion == "" {
		cfg.Shopify.APIVersion = "2024-04"
	}
	if cfg.Shopify.Timeout == 0 {
		cfg.Shopify.Timeout = 10 * time.Second
	}
	if cfg.Shopify.HiddenProductTag == "" {
		cfg.Shopify.HiddenProductTag = "nextjs-frontend-hidden"
	}
	if cfg.Shopify.FeaturedCollection == "" {
		cfg.Shopify.FeaturedCollection = "hidden-homepage-featured-items"
	}
	if cfg.Shopify.CarouselCollection == "" {
		cfg.Shopify.CarouselCollection = "hidden-homepage-carousel"
	}
	if cfg.Shopify.DefaultCurrencyCode == "" {
		cfg.Shopify.DefaultCurrencyCode = "USD"
	}
	if cfg.Shopify.MenuHandle == "" {
		cfg.Shopify.MenuHandle = "next-js-frontend-header-menu"
	}
	if cfg.Shopify.FooterMenuHandle == "" {
		cfg.Shopify.FooterMenuHandle = "next-js-frontend-footer-menu"
	}
	if cfg.Shopify.DefaultBlogHandle == "" {
		cfg.Shopify.DefaultBlogHandle = "news"
	}
	if cfg.Shopify.RecommendationsLimit == 0 {
		cfg.Shopify.RecommendationsLimit = 4
	}

	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = 7 * 24 * time.Hour
	}
	if cfg.Session.Issuer == "" {
		cfg.Session.Issuer = cfg.App.Name
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "customer_session"
	}

	if cfg.Cookie.Path == "" {
		cfg.Cookie.Path = "/"
	}
	if cfg.Cookie.SameSite == "" {
		cfg.Cookie.SameSite = "lax"
	}
	if cfg.Cookie.CartName == "" {
		cfg.Cookie.CartName = "cartId"
	}
	if cfg.Cookie.CartMaxAge == 0 {
		cfg.Cookie.CartMaxAge = 30 * 24 * time.Hour
	}
	if cfg.Cookie.StateCookie == "" {
		cfg.Cookie.StateCookie = "oauth_state"
	}
	if cfg.Cookie.StateMaxAge == 0 {
		cfg.Cookie.StateMaxAge = 10 * time.Minute
	}

	if cfg.OAuth.Provider == "" {
		cfg.OAuth.Provider = "google"
	}
	if len(cfg.OAuth.Scopes) == 0 {
		cfg.OAuth.Scopes = []string{"openid", "email", "profile"}
	}
	if cfg.OAuth.RedirectURL == "" {
		cfg.OAuth.RedirectURL = cfg.App.BaseURL + "/auth/" + cfg.OAuth.Provider + "/callback"
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 15 * time.Minute
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = 2048
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = "storefront:"
	}

	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
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
		cfg.Database.DBName = "storefront"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "storefront.db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 2
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = time.Hour
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "warn"
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
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20
	}
	if cfg.HTTP.RateLimitRPS == 0 {
		cfg.HTTP.RateLimitRPS = 20
	}
	if cfg.HTTP.RateLimitBurst == 0 {
		cfg.HTTP.RateLimitBurst = 40
	}
	if cfg.HTTP.AuthRateLimitRPS == 0 {
		cfg.HTTP.AuthRateLimitRPS = 0.2
	}
	if cfg.HTTP.AuthRateLimitBurst == 0 {
		cfg.HTTP.AuthRateLimitBurst = 5
	}
	// No CORS origin default: cross-origin access stays closed until configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID"}
	}

	if cfg.Events.Topic == "" {
		cfg.Events.Topic = "storefront.events"
	}
	if cfg.Events.ClientID == "" {
		cfg.Events.ClientID = cfg.App.Name
	}

	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "memory"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}

	if cfg.OGImage.Timeout == 0 {
		cfg.OGImage.Timeout = 20 * time.Second
	}

	if cfg.Scheduler.SitemapSchedule == "" {
		cfg.Scheduler.SitemapSchedule = "@every 6h"
	}
	if cfg.Scheduler.WarmupSchedule == "" {
		cfg.Scheduler.WarmupSchedule = "@every 10m"
	}
	if cfg.Scheduler.JobTimeout == 0 {
		cfg.Scheduler.JobTimeout = 2 * time.Minute
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
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 30 * time.Second
	}

	if cfg.Profiling.ServerAddress == "" {
		cfg.Profiling.ServerAddress = "http://localhost:4040"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	switch c.Cache.Backend {
	case "redis", "memory":
	default:
		return fmt.Errorf("cache.backend must be redis or memory, got %q", c.Cache.Backend)
	}
	switch c.Cookie.SameSite {
	case "strict", "lax", "none":
	default:
		return fmt.Errorf("cookie.same_site must be strict, lax or none, got %q", c.Cookie.SameSite)
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	if c.Events.Enabled && len(c.Events.Brokers) == 0 {
		return fmt.Errorf("events.brokers is required when events.enabled is true")
	}
	if c.Storage.Type == "s3" && c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required for s3 storage")
	}
	if c.OAuth.Enabled && (c.OAuth.ClientID == "" || c.OAuth.ClientSecret == "") {
		return fmt.Errorf("oauth.client_id and oauth.client_secret are required when oauth.enabled is true")
	}
	if _, err := url.Parse(c.App.BaseURL); err != nil {
		return fmt.Errorf("app.base_url is invalid: %w", err)
	}

	if c.App.IsProduction() {
		if c.Shopify.StoreDomain == "" || c.Shopify.StorefrontToken == "" {
			return fmt.Errorf("shopify.store_domain and shopify.storefront_token are required in production")
		}
		if len(c.Session.Secret) < 32 {
			return fmt.Errorf("session.secret must be at least 32 characters in production")
		}
		if c.Shopify.RevalidationSecret == "" {
			return fmt.Errorf("shopify.revalidation_secret is required in production")
		}
		if !c.Cookie.Secure {
			return fmt.Errorf("cookie.secure must be true in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production")
			}
		}
		if c.Database.Driver == "postgres" && c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
	}
	if c.Cookie.SameSite == "none" && !c.Cookie.Secure {
		return fmt.Errorf("cookie.same_site=none requires cookie.secure=true")
	}
	return nil
}

// DSN returns the postgres connection string with properly escaped values
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

// GraphQLEndpoint returns the storefront API URL for the configured shop
func (s ShopifyConfig) GraphQLEndpoint() string {
	domain := strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(s.StoreDomain, "https://"), "http://"), "/")
	return "https://" + domain + "/api/" + s.APIVersion + "/graphql.json"
}

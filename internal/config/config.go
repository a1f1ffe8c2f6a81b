package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	DefaultGenAIModel      = "gpt-4o-mini"
	DefaultDeepgramBaseURL = "https://api.deepgram.com"
	DefaultWhatsAppFrom    = "whatsapp:+14155238886"
	DefaultSupportNumber   = "1200"
)

// Config holds all configuration required by the API process.
// Values come from env, optionally seeded from a .env file.
// No business logic should depend on raw environment variables.
type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Twilio   TwilioConfig
	GenAI    GenAIConfig
	Deepgram DeepgramConfig
	Offers   OffersConfig
}

type AppConfig struct {
	Env  string
	Port int
	// Store is postgres (default) or memory; memory skips DB and Redis.
	Store string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string

	// SSLMode is kept explicit for AWS-ready posture.
	// Accepts: disable, require, verify-ca, verify-full
	SSLMode string

	// Pool sizing. Care turns hold a connection only for a profile read and
	// at most one write, so the defaults stay small.
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

const (
	defaultDBMaxOpenConns    = 20
	defaultDBMaxIdleConns    = 5
	defaultDBConnMaxLifetime = 30 * time.Minute
	defaultDBConnMaxIdleTime = 5 * time.Minute
	defaultDBPingTimeout     = 3 * time.Second
)

type RedisConfig struct {
	Host string
	Port int
}

type AuthConfig struct {
	JWTSecret       string
	JWTIssuer       string
	JWTAudience     string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type TwilioConfig struct {
	AccountSID   string
	AuthToken    string
	WhatsAppFrom string
	SandboxCode  string
	// ValidateSignature turns on X-Twilio-Signature checks for webhooks.
	ValidateSignature bool
	// PublicBaseURL is the externally visible origin Twilio signs against.
	PublicBaseURL string
	SupportNumber string
}

type GenAIConfig struct {
	APIKey         string
	Model          string
	BreakerTimeout time.Duration
}

type DeepgramConfig struct {
	APIKey  string
	BaseURL string
}

type OffersConfig struct {
	CacheTTL time.Duration
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	{
		n, err := mustInt("APP_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}
	c.App.Store = strings.ToLower(strings.TrimSpace(os.Getenv("APP_STORE")))

	c.DB.Host = strings.TrimSpace(os.Getenv("DB_HOST"))
	if c.App.Store != StoreMemory {
		n, err := mustInt("DB_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.DB.Port = n
	}
	c.DB.User = strings.TrimSpace(os.Getenv("DB_USER"))
	c.DB.Password = os.Getenv("DB_PASSWORD")
	c.DB.Name = strings.TrimSpace(os.Getenv("DB_NAME"))
	c.DB.SSLMode = strings.TrimSpace(os.Getenv("DB_SSLMODE"))
	{
		n, err := optionalInt("DB_MAX_OPEN_CONNS")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.DB.MaxOpenConns = n
		n, err = optionalInt("DB_MAX_IDLE_CONNS")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.DB.MaxIdleConns = n
	}
	c.DB.ConnMaxLifetime = mustDuration("DB_CONN_MAX_LIFETIME")
	c.DB.ConnMaxIdleTime = mustDuration("DB_CONN_MAX_IDLE_TIME")
	c.DB.PingTimeout = mustDuration("DB_PING_TIMEOUT")

	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	if c.App.Store != StoreMemory {
		n, err := mustInt("REDIS_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Redis.Port = n
	}

	c.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	c.Auth.JWTIssuer = strings.TrimSpace(os.Getenv("JWT_ISSUER"))
	c.Auth.JWTAudience = strings.TrimSpace(os.Getenv("JWT_AUDIENCE"))
	// Duration env vars are optional; defaults applied in Validate() based on env.
	c.Auth.AccessTokenTTL = mustDuration("JWT_ACCESS_TTL")
	c.Auth.RefreshTokenTTL = mustDuration("JWT_REFRESH_TTL")

	c.Twilio.AccountSID = strings.TrimSpace(os.Getenv("TWILIO_ACCOUNT_SID"))
	c.Twilio.AuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	c.Twilio.WhatsAppFrom = strings.TrimSpace(os.Getenv("TWILIO_WHATSAPP_FROM"))
	c.Twilio.SandboxCode = strings.TrimSpace(os.Getenv("TWILIO_SANDBOX_CODE"))
	c.Twilio.ValidateSignature = mustBool("TWILIO_VALIDATE_SIGNATURE")
	c.Twilio.PublicBaseURL = strings.TrimRight(strings.TrimSpace(os.Getenv("PUBLIC_BASE_URL")), "/")
	c.Twilio.SupportNumber = strings.TrimSpace(os.Getenv("TWILIO_SUPPORT_NUMBER"))

	c.GenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	c.GenAI.Model = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	c.GenAI.BreakerTimeout = mustDuration("BREAKER_TIMEOUT")

	c.Deepgram.APIKey = os.Getenv("DEEPGRAM_API_KEY")
	c.Deepgram.BaseURL = strings.TrimSpace(os.Getenv("DEEPGRAM_BASE_URL"))

	c.Offers.CacheTTL = mustDuration("OFFERS_CACHE_TTL")

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports every problem at once and fills defaults in place.
func (c *Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	switch c.App.Store {
	case "":
		c.App.Store = StorePostgres
	case StorePostgres, StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("APP_STORE must be one of postgres, memory, got %q", c.App.Store))
	}
	if c.App.Store == StoreMemory && c.IsProduction() {
		errs = append(errs, errors.New("APP_STORE=memory is not allowed in production"))
	}

	if c.App.Store != StoreMemory {
		errs = append(errs, c.validateStores()...)
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.IsProduction() {
		if c.Auth.JWTIssuer == "" {
			errs = append(errs, errors.New("JWT_ISSUER is required in production"))
		}
		if c.Auth.JWTAudience == "" {
			errs = append(errs, errors.New("JWT_AUDIENCE is required in production"))
		}
	}

	if c.Auth.AccessTokenTTL <= 0 {
		// Default: short-lived access tokens.
		c.Auth.AccessTokenTTL = 15 * time.Minute
	}
	if c.Auth.RefreshTokenTTL <= 0 {
		// Default: longer-lived refresh tokens.
		c.Auth.RefreshTokenTTL = 30 * 24 * time.Hour
	}
	if c.Auth.RefreshTokenTTL <= c.Auth.AccessTokenTTL {
		errs = append(errs, errors.New("JWT_REFRESH_TTL must be greater than JWT_ACCESS_TTL"))
	}

	errs = append(errs, c.validateIntegrations()...)

	return joinErrors(errs)
}

func (c *Config) validateStores() []error {
	var errs []error
	if c.DB.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.DB.Port <= 0 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Errorf("DB_PORT must be a valid port, got %d", c.DB.Port))
	}
	if c.DB.User == "" {
		errs = append(errs, errors.New("DB_USER is required"))
	}
	if c.DB.Name == "" {
		errs = append(errs, errors.New("DB_NAME is required"))
	}
	if strings.TrimSpace(c.DB.SSLMode) == "" {
		if c.IsProduction() {
			errs = append(errs, errors.New("DB_SSLMODE is required in production"))
		} else {
			// Local-friendly default; production must be explicit.
			c.DB.SSLMode = "disable"
		}
	}
	if c.DB.SSLMode != "" && !isValidSSLMode(c.DB.SSLMode) {
		errs = append(errs, fmt.Errorf("DB_SSLMODE must be one of disable, require, verify-ca, verify-full, got %q", c.DB.SSLMode))
	}
	errs = append(errs, c.applyPoolDefaults()...)

	if c.Redis.Host == "" {
		errs = append(errs, errors.New("REDIS_HOST is required"))
	}
	if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
	}
	return errs
}

func (c *Config) applyPoolDefaults() []error {
	var errs []error
	if c.DB.MaxOpenConns < 0 || c.DB.MaxIdleConns < 0 {
		errs = append(errs, errors.New("DB_MAX_OPEN_CONNS and DB_MAX_IDLE_CONNS must not be negative"))
	}
	if c.DB.MaxOpenConns == 0 {
		c.DB.MaxOpenConns = defaultDBMaxOpenConns
	}
	if c.DB.MaxIdleConns == 0 {
		c.DB.MaxIdleConns = min(defaultDBMaxIdleConns, c.DB.MaxOpenConns)
	}
	if c.DB.MaxIdleConns > c.DB.MaxOpenConns {
		errs = append(errs, fmt.Errorf("DB_MAX_IDLE_CONNS (%d) must not exceed DB_MAX_OPEN_CONNS (%d)", c.DB.MaxIdleConns, c.DB.MaxOpenConns))
	}
	if c.DB.ConnMaxLifetime <= 0 {
		c.DB.ConnMaxLifetime = defaultDBConnMaxLifetime
	}
	if c.DB.ConnMaxIdleTime <= 0 {
		c.DB.ConnMaxIdleTime = defaultDBConnMaxIdleTime
	}
	if c.DB.PingTimeout <= 0 {
		c.DB.PingTimeout = defaultDBPingTimeout
	}
	return errs
}

// validateIntegrations applies defaults for the external services. Outside
// production an empty key leaves that adapter disabled.
func (c *Config) validateIntegrations() []error {
	var errs []error

	if c.GenAI.Model == "" {
		c.GenAI.Model = DefaultGenAIModel
	}
	if c.GenAI.BreakerTimeout <= 0 {
		c.GenAI.BreakerTimeout = 30 * time.Second
	}
	if c.Deepgram.BaseURL == "" {
		c.Deepgram.BaseURL = DefaultDeepgramBaseURL
	}
	if c.Twilio.WhatsAppFrom == "" {
		c.Twilio.WhatsAppFrom = DefaultWhatsAppFrom
	}
	if !strings.HasPrefix(c.Twilio.WhatsAppFrom, "whatsapp:") {
		c.Twilio.WhatsAppFrom = "whatsapp:" + c.Twilio.WhatsAppFrom
	}
	if c.Twilio.SupportNumber == "" {
		c.Twilio.SupportNumber = DefaultSupportNumber
	}
	if c.Offers.CacheTTL <= 0 {
		c.Offers.CacheTTL = 60 * time.Second
	}

	if (c.Twilio.AccountSID == "") != (c.Twilio.AuthToken == "") {
		errs = append(errs, errors.New("TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN must be set together"))
	}
	if c.Twilio.ValidateSignature {
		if c.Twilio.AuthToken == "" {
			errs = append(errs, errors.New("TWILIO_AUTH_TOKEN is required when TWILIO_VALIDATE_SIGNATURE is on"))
		}
		if c.Twilio.PublicBaseURL == "" {
			errs = append(errs, errors.New("PUBLIC_BASE_URL is required when TWILIO_VALIDATE_SIGNATURE is on"))
		}
	}

	if c.IsProduction() {
		if c.GenAI.APIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required in production"))
		}
		if c.Twilio.AccountSID == "" {
			errs = append(errs, errors.New("TWILIO_ACCOUNT_SID is required in production"))
		}
		if !c.Twilio.ValidateSignature {
			errs = append(errs, errors.New("TWILIO_VALIDATE_SIGNATURE must be on in production"))
		}
	}
	return errs
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (c Config) PostgresDSN() string {
	// Avoid logging this string; it contains secrets.
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func mustInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func optionalInt(key string) (int, error) {
	if strings.TrimSpace(os.Getenv(key)) == "" {
		return 0, nil
	}
	return mustInt(key)
}

func mustBool(key string) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}
	return b
}

func mustDuration(key string) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func isValidSSLMode(v string) bool {
	switch v {
	case "disable", "require", "verify-ca", "verify-full":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}

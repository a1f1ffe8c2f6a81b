package config

import (
	"strings"
	"testing"
	"time"
)

func localConfig() Config {
	return Config{
		App:   AppConfig{Env: "local", Port: 8080},
		DB:    DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "telecom"},
		Redis: RedisConfig{Host: "localhost", Port: 6379},
		Auth:  AuthConfig{JWTSecret: "secret"},
	}
}

func TestLoad_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_ProductionRequiresSSLMode(t *testing.T) {
	c := localConfig()
	c.App.Env = "production"
	err := c.Validate()
	if err == nil || !strings.Contains(err.Error(), "DB_SSLMODE is required in production") {
		t.Fatalf("expected error for production without DB_SSLMODE, got %v", err)
	}
}

func TestValidate_LocalDefaults(t *testing.T) {
	c := localConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.DB.SSLMode)
	}
	if c.App.Store != StorePostgres {
		t.Fatalf("expected postgres store default, got %q", c.App.Store)
	}
	if c.GenAI.Model != DefaultGenAIModel || c.GenAI.BreakerTimeout != 30*time.Second {
		t.Fatalf("unexpected genai defaults %+v", c.GenAI)
	}
	if c.Deepgram.BaseURL != DefaultDeepgramBaseURL {
		t.Fatalf("unexpected deepgram base url %q", c.Deepgram.BaseURL)
	}
	if c.Twilio.WhatsAppFrom != DefaultWhatsAppFrom || c.Twilio.SupportNumber != DefaultSupportNumber {
		t.Fatalf("unexpected twilio defaults %+v", c.Twilio)
	}
	if c.Offers.CacheTTL != time.Minute {
		t.Fatalf("unexpected offer cache ttl %v", c.Offers.CacheTTL)
	}
	if c.Auth.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("unexpected access ttl %v", c.Auth.AccessTokenTTL)
	}
}

func TestValidate_MemoryStoreSkipsDatabase(t *testing.T) {
	c := Config{
		App:  AppConfig{Env: "local", Port: 8080, Store: StoreMemory},
		Auth: AuthConfig{JWTSecret: "secret"},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	c.App.Env = "production"
	if err := c.Validate(); err == nil || !strings.Contains(err.Error(), "APP_STORE=memory") {
		t.Fatalf("expected memory store to be rejected in production, got %v", err)
	}
}

func TestValidate_ProductionRequiresIntegrations(t *testing.T) {
	c := localConfig()
	c.App.Env = "production"
	c.DB.SSLMode = "require"
	c.Auth.JWTIssuer = "care"
	c.Auth.JWTAudience = "care-web"
	err := c.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{"OPENAI_API_KEY", "TWILIO_ACCOUNT_SID", "TWILIO_VALIDATE_SIGNATURE"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %s in %v", want, err)
		}
	}

	c.GenAI.APIKey = "sk-test"
	c.Twilio = TwilioConfig{AccountSID: "AC1", AuthToken: "tok", ValidateSignature: true, PublicBaseURL: "https://care.example.com"}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_TwilioCredentialsTogether(t *testing.T) {
	c := localConfig()
	c.Twilio.AccountSID = "AC1"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for SID without token")
	}
}

func TestValidate_WhatsAppFromGetsChannelPrefix(t *testing.T) {
	c := localConfig()
	c.Twilio.WhatsAppFrom = "+15550001111"
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Twilio.WhatsAppFrom != "whatsapp:+15550001111" {
		t.Fatalf("unexpected from %q", c.Twilio.WhatsAppFrom)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_STORE", "memory")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("OFFERS_CACHE_TTL", "5m")
	t.Setenv("TWILIO_SUPPORT_NUMBER", "+3120000000")

	c, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.HTTPAddr() != ":9090" || c.App.Store != StoreMemory {
		t.Fatalf("unexpected app config %+v", c.App)
	}
	if c.Offers.CacheTTL != 5*time.Minute || c.Twilio.SupportNumber != "+3120000000" {
		t.Fatalf("unexpected config %+v %+v", c.Offers, c.Twilio)
	}
}

func TestValidate_PoolDefaultsAndBounds(t *testing.T) {
	c := localConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.MaxOpenConns != 20 || c.DB.MaxIdleConns != 5 || c.DB.PingTimeout != 3*time.Second {
		t.Fatalf("unexpected pool defaults %+v", c.DB)
	}

	c = localConfig()
	c.DB.MaxOpenConns = 2
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.MaxIdleConns != 2 {
		t.Fatalf("idle default must not exceed max open, got %d", c.DB.MaxIdleConns)
	}

	c = localConfig()
	c.DB.MaxOpenConns, c.DB.MaxIdleConns = 4, 8
	if err := c.Validate(); err == nil || !strings.Contains(err.Error(), "DB_MAX_IDLE_CONNS (8) must not exceed") {
		t.Fatalf("expected idle/open bound error, got %v", err)
	}
}

func TestLoad_PoolFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "care")
	t.Setenv("DB_NAME", "care")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("DB_MAX_OPEN_CONNS", "12")
	t.Setenv("DB_MAX_IDLE_CONNS", "3")
	t.Setenv("DB_CONN_MAX_LIFETIME", "10m")

	c, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.MaxOpenConns != 12 || c.DB.MaxIdleConns != 3 || c.DB.ConnMaxLifetime != 10*time.Minute {
		t.Fatalf("unexpected pool config %+v", c.DB)
	}

	t.Setenv("DB_MAX_OPEN_CONNS", "lots")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "DB_MAX_OPEN_CONNS must be an integer") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

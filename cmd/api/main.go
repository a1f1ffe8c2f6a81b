package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telecom-care/internal/accounts"
	"telecom-care/internal/audit"
	"telecom-care/internal/auth"
	"telecom-care/internal/care"
	"telecom-care/internal/config"
	"telecom-care/internal/customers"
	"telecom-care/internal/genai"
	"telecom-care/internal/httpapi"
	"telecom-care/internal/metrics"
	"telecom-care/internal/offers"
	"telecom-care/internal/rbac"
	"telecom-care/internal/reporting"
	"telecom-care/internal/telephony"
	"telecom-care/internal/transcribe"
	"telecom-care/internal/whatsapp"
	"telecom-care/pkg/logger"
	"telecom-care/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth, auth.IdentityRules{
		ValidRole:  rbac.Valid,
		ValidEmail: accounts.ValidEmail,
	})
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	m := metrics.New()

	st, closeStores, err := openStores(rootCtx, cfg)
	if err != nil {
		log.Error("store init failed", "store", cfg.App.Store, "err", err)
		os.Exit(1)
	}
	defer closeStores()

	gen := newGenerator(cfg, m, log)
	speech := newTranscriber(cfg, m, log)
	sender := newSender(cfg, m, log)

	custSvc := customers.NewService(st.customers)
	offerSvc := offers.NewService(st.offers, custSvc, st.offerCache)
	auditSvc := audit.NewService(st.audit)
	careSvc := care.NewService(custSvc, offerSvc, gen).
		WithAudit(auditSvc).
		WithMetrics(m)

	var dedupe whatsapp.Deduper
	if st.redis != nil {
		dedupe = whatsapp.NewRedisDeduper(st.redis)
	}

	d := deps{
		cfg:     cfg,
		metrics: m,
		authMW:  auth.RequireAccessToken(authManager),
		api: httpapi.Handlers{
			Auth:      authManager,
			Accounts:  accounts.NewService(st.accounts),
			Care:      careSvc,
			Customers: custSvc,
			Offers:    offerSvc,
			Speech:    speech,
			Reporting: reporting.NewService(gen),
			Audit:     auditSvc,
		},
		whatsapp: whatsapp.Handler{Care: careSvc, Sender: sender, Dedupe: dedupe},
		voice:    telephony.VoiceHandler{Escalator: telephony.NewEscalator(custSvc, cfg.Twilio.SupportNumber)},
		health:   st.health,
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	r.Use(m.Middleware())

	registerRoutes(r, d)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env, "store", cfg.App.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}

	_ = logger.ShutdownFlush(shutdownCtx, 2*time.Second)
}

// stores bundles the repositories for the configured backend.
type stores struct {
	customers  customers.Repository
	offers     offers.Repository
	offerCache offers.Cache
	accounts   accounts.Repository
	audit      audit.Repository
	redis      *redis.Client
	health     func(ctx context.Context) error
}

func openStores(ctx context.Context, cfg config.Config) (stores, func(), error) {
	if cfg.App.Store == config.StoreMemory {
		return memoryStores(), func() {}, nil
	}

	db, err := utils.OpenPostgres(ctx, "pgx", cfg.PostgresDSN(), utils.PostgresPool{
		MaxOpen:     cfg.DB.MaxOpenConns,
		MaxIdle:     cfg.DB.MaxIdleConns,
		MaxLifetime: cfg.DB.ConnMaxLifetime,
		MaxIdleTime: cfg.DB.ConnMaxIdleTime,
		PingTimeout: cfg.DB.PingTimeout,
	})
	if err != nil {
		return stores{}, nil, err
	}
	rdb, err := utils.OpenRedis(ctx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		db.Close()
		return stores{}, nil, err
	}
	st := stores{
		customers:  customers.NewPostgresRepo(db),
		offers:     offers.NewPostgresRepo(db),
		offerCache: offers.NewRedisCache(rdb, cfg.Offers.CacheTTL),
		accounts:   accounts.NewPostgresRepo(db),
		audit:      audit.NewPostgresRepo(db),
		redis:      rdb,
		health:     dbHealth(db, cfg.DB.PingTimeout),
	}
	return st, func() {
		rdb.Close()
		db.Close()
	}, nil
}

func dbHealth(db *sql.DB, timeout time.Duration) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return utils.HealthCheck(ctx, db, timeout)
	}
}

// Optional integrations fall back to disabled adapters outside production.

func newGenerator(cfg config.Config, m *metrics.Metrics, log *slog.Logger) genai.Generator {
	g, err := genai.NewOpenAI(genai.Config{
		APIKey:         cfg.GenAI.APIKey,
		Model:          cfg.GenAI.Model,
		BreakerTimeout: cfg.GenAI.BreakerTimeout,
	}, m)
	if err != nil {
		log.Warn("generative backend disabled", "err", err)
		return genai.Disabled{}
	}
	return g
}

func newTranscriber(cfg config.Config, m *metrics.Metrics, log *slog.Logger) transcribe.Transcriber {
	t, err := transcribe.NewDeepgram(transcribe.Config{
		APIKey:         cfg.Deepgram.APIKey,
		BaseURL:        cfg.Deepgram.BaseURL,
		BreakerTimeout: cfg.GenAI.BreakerTimeout,
	}, nil, m)
	if err != nil {
		log.Warn("transcription disabled", "err", err)
		return transcribe.Disabled{}
	}
	return t
}

func newSender(cfg config.Config, m *metrics.Metrics, log *slog.Logger) whatsapp.Sender {
	s, err := whatsapp.NewTwilioSender(whatsapp.Config{
		AccountSID:     cfg.Twilio.AccountSID,
		AuthToken:      cfg.Twilio.AuthToken,
		From:           cfg.Twilio.WhatsAppFrom,
		SandboxCode:    cfg.Twilio.SandboxCode,
		BreakerTimeout: cfg.GenAI.BreakerTimeout,
	}, m)
	if err != nil {
		log.Warn("whatsapp sender disabled", "err", err)
		return whatsapp.Disabled{}
	}
	return s
}

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

	"github.com/plushify/plushify-api/internal/audit"
	"github.com/plushify/plushify-api/internal/config"
	dbpkg "github.com/plushify/plushify-api/internal/db"
	"github.com/plushify/plushify-api/internal/infra/mercadopago"
	"github.com/plushify/plushify-api/internal/infra/notify"
	infraRepo "github.com/plushify/plushify-api/internal/infra/repository"
	"github.com/plushify/plushify-api/internal/infra/storage"
	"github.com/plushify/plushify-api/internal/jobs"
	"github.com/plushify/plushify-api/internal/logger"
	"github.com/plushify/plushify-api/internal/metrics"
	"github.com/plushify/plushify-api/internal/routes"
	"github.com/plushify/plushify-api/internal/session"
	"github.com/plushify/plushify-api/internal/timezone"
	ucBilling "github.com/plushify/plushify-api/internal/usecase/billing"
	"github.com/plushify/plushify-api/internal/usecase/reminder"
)

func main() {

	cfg := config.Load()

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer func() { _ = log.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		log.Fatal("falha ao abrir banco", zap.Error(err))
	}

	m := metrics.New()

	// ------------------------------
	// SESSÕES
	// ------------------------------
	var sessions session.Tracker
	if cfg.RedisURL != "" {
		rs, err := session.NewRedis(context.Background(), cfg.RedisURL, cfg.SessionIdle)
		if err != nil {
			log.Fatal("falha ao conectar no redis", zap.Error(err))
		}
		defer rs.Close()
		sessions = rs
	} else {
		log.Warn("REDIS_URL vazio, sessões em memória")
		sessions = session.NewMemory(cfg.SessionIdle)
	}

	// ------------------------------
	// INTEGRAÇÕES OPCIONAIS
	// ------------------------------
	infra := routes.Infra{Log: log, Metrics: m, Sessions: sessions}

	if cfg.Storage.Enabled() {
		store, err := storage.NewS3Store(cfg.Storage, log)
		if err != nil {
			log.Fatal("falha ao configurar storage", zap.Error(err))
		}
		infra.Store = store
	} else {
		log.Warn("storage desabilitado: imagens e arquivamento de exportações indisponíveis")
	}

	if cfg.MercadoPagoToken != "" {
		gw, err := mercadopago.New(cfg.MercadoPagoToken, m, log)
		if err != nil {
			log.Fatal("falha ao configurar mercado pago", zap.Error(err))
		}
		infra.Gateway = gw
	} else {
		log.Warn("MERCADOPAGO_ACCESS_TOKEN vazio, checkout desabilitado")
	}

	var notifier notify.Notifier = notify.NewLog(log)
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		notifier = notify.NewTwilio(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom, log)
	}

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)
	infra.Audit = auditDispatcher

	// ------------------------------
	// HTTP
	// ------------------------------
	r := gin.New()
	routes.RegisterRoutes(r, db, cfg, infra)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ------------------------------
	// JOBS
	// ------------------------------
	subs := infraRepo.NewSubscriptionGormRepository(db)
	billing := ucBilling.NewBilling(subs, infra.Gateway, auditDispatcher, log, cfg.TrialDays, cfg.MercadoPagoBackURL)
	reminders := reminder.NewSendReminders(subs, infraRepo.NewAppointmentGormRepository(db), notifier, m, log)

	scheduler := jobs.NewScheduler(timezone.Location(timezone.DefaultTimezone), log)
	if err := scheduler.Add("reminders", cfg.ReminderCron, 10*time.Minute, func(ctx context.Context) error {
		rep, err := reminders.Execute(ctx)
		if err != nil {
			return err
		}
		log.Info("lembretes enviados",
			zap.Int("businesses", rep.Businesses),
			zap.Int("sent", rep.Sent),
			zap.Int("skipped", rep.Skipped),
			zap.Int("failed", rep.Failed),
		)
		return nil
	}); err != nil {
		log.Fatal("cron de lembretes inválido", zap.String("spec", cfg.ReminderCron), zap.Error(err))
	}
	if err := scheduler.Add("expire-trials", "0 * * * *", time.Minute, func(ctx context.Context) error {
		n, err := billing.ExpireTrials(ctx)
		if n > 0 {
			log.Info("trials expirados", zap.Int64("count", n))
		}
		return err
	}); err != nil {
		log.Fatal("cron de trials inválido", zap.Error(err))
	}
	scheduler.Start()

	go func() {
		log.Info("servidor rodando", zap.String("addr", cfg.Addr()), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("falha ao iniciar servidor", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("encerrando")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown do servidor", zap.Error(err))
	}
	scheduler.Stop()
	auditDispatcher.Close()
}

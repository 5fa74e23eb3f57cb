package main

import (
	"go.uber.org/zap"

	"max.ks1230/spendwise/internal/api"
	"max.ks1230/spendwise/internal/clients/cache"
	"max.ks1230/spendwise/internal/clients/mail"
	"max.ks1230/spendwise/internal/clients/textgen"
	"max.ks1230/spendwise/internal/config"
	"max.ks1230/spendwise/internal/logger"
	"max.ks1230/spendwise/internal/model/auth"
	"max.ks1230/spendwise/internal/model/feedback"
	"max.ks1230/spendwise/internal/model/ledger"
	"max.ks1230/spendwise/internal/model/storage"
	"max.ks1230/spendwise/internal/model/summary"
	"max.ks1230/spendwise/internal/model/tips"
	"max.ks1230/spendwise/internal/tracing"

	"github.com/gin-gonic/gin"
)

func main() {
	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config", zap.Error(err))
	}

	closer, err := tracing.Init(conf.Tracing())
	if err != nil {
		logger.Fatal("failed to init tracing", zap.Error(err))
	}
	defer closer.Close()

	store := newStorage(conf)

	mailClient := mail.New(conf.Mail())
	authSvc := auth.NewService(store, mailClient)
	sessions := auth.NewSessions(conf.App().SessionTTL())

	ledgerSvc := ledger.NewService(store, conf.App())
	summarySvc := summary.NewService(ledgerSvc, store)
	feedbackSvc := feedback.NewService(store)

	tipProvider := newTipProvider(conf, ledgerSvc)
	refresher := tips.NewRefresher(tipProvider)
	if err = refresher.Start(); err != nil {
		logger.Fatal("failed to start tip refresher", zap.Error(err))
	}
	defer refresher.Stop()

	r := gin.Default()
	api.RegisterRoutes(r, sessions, authSvc, api.Controllers{
		Auth:     api.NewAuthController(authSvc, sessions),
		Expense:  api.NewExpenseController(ledgerSvc, summarySvc, authSvc),
		Feedback: api.NewFeedbackController(feedbackSvc),
		Tip:      api.NewTipController(tipProvider),
	})

	logger.Info("spendwise server listening", zap.String("port", conf.Server().Port()))
	if err = r.Run(conf.Server().Port()); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newStorage(conf *config.Service) storage.Storage {
	switch conf.Storage().Backend() {
	case config.BackendPostgres:
		store, err := storage.NewPostgresStorage(conf.Postgres())
		if err != nil {
			logger.Fatal("failed to init postgres storage", zap.Error(err))
		}
		return store
	case config.BackendFile:
		store, err := storage.NewFileStorage(conf.Storage())
		if err != nil {
			logger.Fatal("failed to init file storage", zap.Error(err))
		}
		return store
	default:
		logger.Fatal("unknown storage backend", zap.String("backend", conf.Storage().Backend()))
		return nil
	}
}

func newTipProvider(conf *config.Service, ledgerSvc *ledger.Service) *tips.Provider {
	client := textgen.New(conf.TextGen())

	if conf.Memcache().Enabled() {
		mc, err := cache.NewMemcache(conf.Memcache())
		if err != nil {
			logger.Fatal("failed to connect to memcached", zap.Error(err))
		}
		return tips.NewProvider(client, mc, ledgerSvc, conf.TextGen())
	}
	return tips.NewProvider(client, tips.NewTTLCache(nil), ledgerSvc, conf.TextGen())
}

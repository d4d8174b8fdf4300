package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xela07ax/secret-approval-bot/internal/bot"
	"github.com/xela07ax/secret-approval-bot/internal/chat"
	"github.com/xela07ax/secret-approval-bot/internal/infra"
	"github.com/xela07ax/secret-approval-bot/internal/registry"
	"github.com/xela07ax/secret-approval-bot/internal/server"
	"github.com/xela07ax/secret-approval-bot/internal/vault"
)

func main() {
	// 1. Конфигурация и логгер
	cfg, err := infra.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Реестр ожидающих заявок
	var store registry.Store
	switch cfg.Registry.Backend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		// Проверяем соединение с таймаутом
		pingCtx, pingCancel := context.WithTimeout(appCtx, 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Fatal("redis unreachable", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		pingCancel()
		store = registry.NewRedis(rdb, cfg.Registry.TTL)
	case "memory":
		store = registry.NewMemory(cfg.Registry.TTL)
	default:
		logger.Fatal("unknown registry backend", zap.String("backend", cfg.Registry.Backend))
	}

	// 3. Внешние коллабораторы: хранилище секретов и чат-платформа
	secrets, err := vault.NewGCP(appCtx, cfg.GCP.CredentialsFile, logger)
	if err != nil {
		logger.Fatal("failed to init secret manager client", zap.Error(err))
	}
	defer secrets.Close()

	messenger, err := chat.NewGoogleMessenger(appCtx, cfg.GCP.CredentialsFile, logger)
	if err != nil {
		logger.Fatal("failed to init chat client", zap.Error(err))
	}

	// 4. Сборка бота
	render, err := bot.NewRenderer(cfg.Bot.Locale)
	if err != nil {
		logger.Fatal("failed to build message renderer", zap.Error(err))
	}

	promReg := prometheus.NewRegistry()
	metrics := bot.NewMetrics(promReg)

	workflow := bot.NewWorkflow(store, secrets, messenger, cfg.Bot.ApproverList(), render, metrics, logger)
	dispatcher := bot.NewDispatcher(store, workflow, render, metrics, logger)

	var verifier server.TokenVerifier
	if cfg.Chat.Audience != "" {
		verifier = server.NewIDTokenVerifier(cfg.Chat.Audience)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      server.New(logger, dispatcher, store, verifier, promReg),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 5. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("secret approval bot started",
			zap.String("addr", srv.Addr),
			zap.String("registry", cfg.Registry.Backend),
			zap.Strings("approvers", cfg.Bot.ApproverList()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	<-stop // Ждем сигнал
	logger.Info("secret approval bot stopping...")

	// Даем 5 секунд на завершение запросов
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server shutdown failed", zap.Error(err))
	}
	logger.Info("secret approval bot exited properly")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/joho/godotenv/autoload"
	"github.com/valkey-io/valkey-go"

	"github.com/passprove/verification-node/internal/api"
	"github.com/passprove/verification-node/internal/cache"
	"github.com/passprove/verification-node/internal/config"
	"github.com/passprove/verification-node/internal/core/services"
	"github.com/passprove/verification-node/internal/db"
	"github.com/passprove/verification-node/internal/log"
	"github.com/passprove/verification-node/internal/notifications"
	"github.com/passprove/verification-node/internal/pricing"
	"github.com/passprove/verification-node/internal/providers"
	"github.com/passprove/verification-node/internal/redis"
	"github.com/passprove/verification-node/internal/repositories"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Error(context.Background(), "cannot load config", err)
		return
	}
	ctx, cancel := context.WithCancel(log.NewContext(context.Background(), cfg.Log.Level, cfg.Log.Mode, os.Stdout))
	defer cancel()

	if err := cfg.Sanitize(); err != nil {
		log.Error(ctx, "there are errors in the configuration", err)
		return
	}

	storage, err := db.NewStorage(cfg.Database.URL)
	if err != nil {
		log.Error(ctx, "cannot connect to database", err)
		return
	}
	defer func() {
		if err := storage.Close(); err != nil {
			log.Error(ctx, "error closing database connection", err)
		}
	}()

	cachex, err := newCache(ctx, cfg)
	if err != nil {
		log.Error(ctx, "cannot initialize cache", err)
		return
	}

	prices, err := pricing.SettingsFromConfig(ctx, &cfg.Pricing)
	if err != nil {
		log.Error(ctx, "cannot load pricing settings", err)
		return
	}

	verificationRepo := repositories.NewVerification(*storage)
	sessionRepo := repositories.NewSession(*storage)
	walletRepo := repositories.NewWallet(*storage)
	shopRepo := repositories.NewShop(*storage)
	proofRepo := repositories.NewProof(*storage)
	auditRepo := repositories.NewAuditLog(*storage)

	providerRegistry := providers.NewRegistry(cfg.Providers, nil)
	codeSender := notifications.NewGatewaySender(cfg.Notifications, nil)

	billingService := services.NewBilling(walletRepo)
	sessionService := services.NewSession(sessionRepo, verificationRepo, shopRepo, auditRepo, walletRepo, billingService, providerRegistry, prices)
	proofService := services.NewProof(sessionRepo, verificationRepo, proofRepo, shopRepo, auditRepo, billingService, codeSender)
	qrService := services.NewQR(sessionRepo, auditRepo, cachex, cfg.VerifyBaseUrl)

	mux := chi.NewRouter()
	mux.Use(log.ChiMiddleware(ctx))
	api.NewServer(sessionService, proofService, qrService, storage, cachex).Routes(mux)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info(ctx, "server started", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "starting http server", err)
		}
	}()

	<-quit
	log.Info(ctx, "shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "shutting down http server", err)
	}
}

func newCache(ctx context.Context, cfg *config.Configuration) (cache.Cache, error) {
	switch cfg.Cache.Provider {
	case "redis":
		rdb, err := redis.Open(ctx, cfg.Cache.Url)
		if err != nil {
			return nil, err
		}
		return cache.NewRedisCache(rdb), nil
	case "valkey":
		client, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{cfg.Cache.Url}})
		if err != nil {
			return nil, err
		}
		return cache.NewValKeyCache(client), nil
	default:
		return cache.NewMemoryCache(), nil
	}
}

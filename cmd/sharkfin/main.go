package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sharkfin/internal/api"
	"sharkfin/internal/backend"
	"sharkfin/internal/cli"
	apphttp "sharkfin/internal/http"
	"sharkfin/internal/listwindow"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	sessions := cli.InitSessionStore(logger, cfg.SessionDBPath)
	defer sessions.Close()

	client := api.NewClient(cfg.APIBaseURL, api.WithTimeout(cfg.APITimeout))

	srv := apphttp.NewServer(apphttp.Options{
		Addr:      ":" + cfg.Port,
		Connector: backend.ClientConnector{Client: client},
		Sessions:  sessions,
		Logger:    logger,

		SessionTTL: cfg.SessionTTL,

		CacheTTL:     cfg.CacheTTL,
		CacheSize:    cfg.CacheSize,
		RefCacheTTL:  cfg.RefCacheTTL,
		RefCacheSize: cfg.RefCacheSize,

		PageSize: cfg.PageSize,
		WindowConfig: listwindow.Config{
			BaseRowHeight: cfg.BaseRowHeight,
			SubLineHeight: cfg.SubLineHeight,
			Overscan:      listwindow.DefaultConfig().Overscan,
			LoadThreshold: cfg.LoadThreshold,
		},

		TrustedProxies: cfg.TrustedProxies,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("starting sharkfin server", "port", cfg.Port, "api_base_url", cfg.APIBaseURL)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("server stopped gracefully")
}

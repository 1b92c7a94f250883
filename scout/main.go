package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scout/scout/agents/configs"
	"scout/scout/agents/core"
	"scout/scout/config"
	"scout/scout/controllers"
	"scout/scout/routes"
	"scout/scout/services/llm"
	"scout/scout/services/scraper"
	"scout/scout/sources/storage"
	"scout/scout/utils/jsonutils"
	"scout/scout/utils/logging"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logging.InitLogger(cfg.LogDir)
	defer logging.Sync()

	if err := cfg.Validate(); err != nil {
		logging.AppLogger.Fatal("invalid configuration", zap.Error(err))
	}

	model, err := llm.New(cfg.LLM)
	if err != nil {
		logging.AppLogger.Fatal("language model setup error", zap.Error(err))
	}
	agentCfg := configs.MustLoadConfig()

	renderer, err := scraper.NewFromConfig(cfg.Render)
	if err != nil {
		logging.AppLogger.Fatal("renderer setup error", zap.Error(err))
	}
	defer renderer.Close()

	agent := core.NewAgent(model, renderer, agentCfg, jsonutils.ParseScanMode(cfg.JSONScanMode))

	var (
		shooter scraper.Screenshotter
		store   controllers.ScreenshotStore
	)
	if renderer.CanScreenshot() {
		shooter = renderer
	}
	if cfg.MinIO.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		minioClient, err := storage.NewMinIOClient(ctx, cfg.MinIO)
		cancel()
		if err != nil {
			logging.ErrorLogger.Error("minio connection error", zap.Error(err))
		} else {
			store = minioClient
		}
	}

	handler := routes.NewRouter(routes.Controllers{
		Scrape: controllers.NewScrapeController(agent),
		Health: controllers.NewHealthController(renderer, agent),
		Page:   controllers.NewPageController(renderer, shooter, store),
	}, cfg.CORSOrigins, 60*time.Second)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: handler,
	}
	go func() {
		logging.AppLogger.Info("server listening",
			zap.String("addr", cfg.ServerAddr),
			zap.String("provider", cfg.LLM.Provider),
			zap.String("model", model.Name()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}

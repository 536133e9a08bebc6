package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"go.uber.org/zap"

	"reportgen/internal/assets"
	"reportgen/internal/config"
	"reportgen/internal/events"
	"reportgen/internal/llm/client"
	"reportgen/internal/logging"
	"reportgen/internal/pages"
	"reportgen/internal/repositories"
	"reportgen/internal/services"
)

//go:embed all:frontend/dist
var frontend embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}
	if err := logging.Init(cfg.LogLevel, cfg.Env); err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing logger:", err)
		os.Exit(1)
	}
	defer logging.Sync()
	log := logging.Get()

	repo, closeStore, err := repositories.OpenSettings(cfg)
	if err != nil {
		log.Fatalw("failed to open settings store", "backend", cfg.SettingsBackend, "error", err)
	}

	chat := client.New(client.Options{
		BaseURL: cfg.APIBaseURL,
		Referer: cfg.AppOrigin,
		Title:   cfg.AppTitle,
		Timeout: cfg.RequestTimeout,
	})
	svc, err := services.NewServices(repo, chat, assets.ModelsData)
	if err != nil {
		log.Fatalw("failed to start services", "error", err)
	}

	ginMode := gin.ReleaseMode
	if cfg.LogLevel == "debug" && !cfg.IsProduction() {
		ginMode = gin.DebugMode
	}
	assetServer, err := newAssetServer(svc, cfg.AppTitle, ginMode, log.Named("pages"))
	if err != nil {
		log.Fatalw("failed to build pages", "error", err)
	}

	app := NewApp(svc, cfg.AppTitle, closeStore)

	logLevel := logger.INFO
	if cfg.LogLevel == "debug" {
		logLevel = logger.DEBUG
	}

	err = wails.Run(&options.App{
		Title:  cfg.AppTitle,
		Width:  1100,
		Height: 820,
		AssetServer: assetServer,
		Linux: &linux.Options{
			WindowIsTranslucent: false,
			WebviewGpuPolicy:    linux.WebviewGpuPolicyAlways,
			ProgramName:         cfg.AppTitle,
		},
		BackgroundColour:   &options.RGBA{R: 11, G: 16, B: 32, A: 1},
		Logger:             logging.NewWailsLogger(log),
		LogLevel:           logLevel,
		LogLevelProduction: logger.WARNING,
		OnStartup: func(ctx context.Context) {
			events.EnableRuntimeEmitter()
			app.startup(ctx)
		},
		OnShutdown: app.shutdown,
		Bind: []interface{}{
			app,
		},
	})

	if err != nil {
		log.Errorw("wails run failed", "error", err)
	}
}

// newAssetServer hands every request to the page router, which also serves
// app.js and style.css. Wails answers /wails/* itself.
func newAssetServer(svc *services.Services, title, ginMode string, log *zap.SugaredLogger) (*assetserver.Options, error) {
	static, err := fs.Sub(frontend, "frontend/dist")
	if err != nil {
		return nil, fmt.Errorf("frontend assets: %w", err)
	}
	router, err := pages.NewRouter(pages.Deps{
		Settings: svc.Settings,
		Models:   svc.Models,
		Output:   svc.Generation,
		Logger:   log,
	}, pages.Options{Title: title, Mode: ginMode, Static: static})
	if err != nil {
		return nil, err
	}
	return &assetserver.Options{Handler: router}, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"reportgen/internal/export"
	"reportgen/internal/logging"
	"reportgen/internal/models"
	"reportgen/internal/services"
)

var errNoOutput = errors.New("没有可导出的内容")

// App struct
type App struct {
	ctx        context.Context
	settings   services.SettingsService
	models     services.ModelCatalogService
	generation services.GenerationService
	title      string
	closeStore func() error

	// runtime hooks, swapped in tests
	setClipboard func(ctx context.Context, text string) error
	saveDialog   func(ctx context.Context, opts runtime.SaveDialogOptions) (string, error)
	openURL      func(ctx context.Context, url string)
	now          func() time.Time
}

// NewApp creates a new App application struct
func NewApp(svc *services.Services, title string, closeStore func() error) *App {
	return &App{
		ctx:        context.Background(),
		settings:   svc.Settings,
		models:     svc.Models,
		generation: svc.Generation,
		title:      title,
		closeStore: closeStore,
		setClipboard: func(ctx context.Context, text string) error {
			return runtime.ClipboardSetText(ctx, text)
		},
		saveDialog: runtime.SaveFileDialog,
		openURL:    runtime.BrowserOpenURL,
		now:        time.Now,
	}
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// shutdown is called when the app is closing. Clean up resources here.
func (a *App) shutdown(ctx context.Context) {
	a.generation.Cancel()

	if a.closeStore != nil {
		if err := a.closeStore(); err != nil {
			logging.Get().Errorw("failed to close settings store", "error", err)
		} else {
			logging.Get().Info("settings store closed")
		}
		a.closeStore = nil
	}
}

// GetSettings returns the stored configuration, or an empty one with the
// default model when nothing usable is stored.
func (a *App) GetSettings() models.Config {
	cfg, ok := a.settings.Load(a.ctx)
	if !ok {
		return models.Config{ModelID: models.DefaultModelID}
	}
	return models.Config{Credential: cfg.Credential, ModelID: cfg.Model()}
}

// SaveSettings stores cfg as entered.
func (a *App) SaveSettings(cfg models.Config) error {
	if cfg.ModelID != "" {
		if _, err := a.models.GetModel(cfg.ModelID); err != nil {
			logging.Get().Warnw("saving model outside the catalog", "model", cfg.ModelID)
		}
	}
	return a.settings.Save(a.ctx, cfg)
}

func (a *App) ListModels() []models.LLMModel {
	return a.models.ListModels()
}

// GenerateReport blocks until the generation ends. Progress is delivered as
// report:* events. A superseded or canceled generation is not an error to the
// caller; the newer generation or the navigation already took over the page.
func (a *App) GenerateReport(req models.GenerationRequest) (*models.GenerationResult, error) {
	result, err := a.generation.Generate(a.ctx, req)
	if errors.Is(err, services.ErrSuperseded) || errors.Is(err, services.ErrCanceled) {
		return result, nil
	}
	if err != nil {
		return result, errors.New(userMessage(err))
	}
	return result, nil
}

func (a *App) CancelGeneration() {
	a.generation.Cancel()
}

func (a *App) CurrentOutput() string {
	return a.generation.Output()
}

func (a *App) CopyOutput() error {
	output := a.generation.Output()
	if output == "" {
		return errNoOutput
	}
	return a.setClipboard(a.ctx, output)
}

// DownloadOutput asks for a destination and writes the output there. An empty
// path means the dialog was dismissed.
func (a *App) DownloadOutput(format string) (string, error) {
	output := a.generation.Output()
	if output == "" {
		return "", errNoOutput
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return "", err
	}

	path, err := a.saveDialog(a.ctx, runtime.SaveDialogOptions{
		Title:           "下载报告",
		DefaultFilename: export.FileName(f, a.now()),
		Filters: []runtime.FileFilter{
			{DisplayName: f.MIMEType(), Pattern: "*" + f.Extension()},
		},
	})
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", nil
	}

	data, err := export.Render(f, output, a.title)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	logging.Get().Infow("report exported", "path", path, "format", f, "bytes", len(data))
	return path, nil
}

// OpenExternal opens http(s) and mailto links in the system browser.
func (a *App) OpenExternal(link string) error {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return fmt.Errorf("invalid link: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "mailto":
	default:
		return fmt.Errorf("refusing to open %q link", u.Scheme)
	}
	a.openURL(a.ctx, u.String())
	return nil
}

// userMessage keeps errors the page shows short and free of wrapping noise.
func userMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrMissingCredential):
		return services.ErrMissingCredential.Error()
	case errors.Is(err, services.ErrEmptyBrief):
		return services.ErrEmptyBrief.Error()
	case errors.Is(err, services.ErrSettingsSave):
		return services.ErrSettingsSave.Error()
	}
	return err.Error()
}

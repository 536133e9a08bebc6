// Package pages renders the application's HTML views. The router is served to
// the webview through the Wails asset server handler.
package pages

import (
	"context"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reportgen/internal/models"
	"reportgen/internal/report"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

type SettingsReader interface {
	Load(ctx context.Context) (*models.Config, bool)
}

type ModelLister interface {
	ListModels() []models.LLMModel
}

type OutputSource interface {
	Output() string
	Running() bool
}

type Deps struct {
	Settings SettingsReader
	Models   ModelLister
	Output   OutputSource
	Logger   *zap.SugaredLogger
}

type Options struct {
	Title string
	// Mode is the gin mode; empty keeps the current one.
	Mode string
	// Static holds app.js and style.css, served at the root.
	Static fs.FS
}

var staticFiles = []string{"app.js", "style.css"}

type navItem struct {
	Path  string
	Label string
	Icon  string
}

var navItems = []navItem{
	{Path: "/", Label: "报告生成", Icon: "📄"},
	{Path: "/pricing", Label: "定价", Icon: "💲"},
	{Path: "/settings", Label: "设置", Icon: "⚙️"},
}

type layoutData struct {
	Brand string
	Title string
	Path  string
	Nav   []navItem
}

type homeData struct {
	layoutData
	Categories      []report.Category
	Depths          []report.Depth
	DefaultCategory string
	DefaultDepth    string
	HasCredential   bool
	Output          string
	Running         bool
}

type settingsData struct {
	layoutData
	Credential string
	ModelID    string
	Models     []models.LLMModel
}

type pricingData struct {
	layoutData
	Yearly bool
	Plans  []planView
}

type handler struct {
	deps  Deps
	brand string
}

// NewRouter builds the page router.
func NewRouter(deps Deps, opts Options) (*gin.Engine, error) {
	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	brand := opts.Title
	if brand == "" {
		brand = "AI Report Generator"
	}

	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	r := gin.New()
	r.Use(Recovery(log), RequestLogger(log))
	r.SetHTMLTemplate(tmpl)

	if opts.Static != nil {
		static := http.FS(opts.Static)
		for _, name := range staticFiles {
			r.StaticFileFS("/"+name, name, static)
		}
	}

	h := &handler{deps: deps, brand: brand}
	r.GET("/", h.home)
	r.GET("/pricing", h.pricing)
	r.GET("/settings", h.settings)
	r.GET("/privacy", h.static("privacy", "隐私政策"))
	r.GET("/terms", h.static("terms", "服务条款"))
	r.NoRoute(h.notFound)

	return r, nil
}

func (h *handler) layout(c *gin.Context, title string) layoutData {
	return layoutData{Brand: h.brand, Title: title, Path: c.Request.URL.Path, Nav: navItems}
}

func (h *handler) config(c *gin.Context) *models.Config {
	if h.deps.Settings == nil {
		return nil
	}
	cfg, ok := h.deps.Settings.Load(c.Request.Context())
	if !ok {
		return nil
	}
	return cfg
}

func (h *handler) home(c *gin.Context) {
	data := homeData{
		layoutData:      h.layout(c, "AI 报告生成"),
		Categories:      report.Categories(),
		Depths:          report.Depths(),
		DefaultCategory: report.DefaultCategory,
		DefaultDepth:    report.DefaultDepth,
		HasCredential:   h.config(c).HasCredential(),
	}
	if h.deps.Output != nil {
		data.Output = h.deps.Output.Output()
		data.Running = h.deps.Output.Running()
	}
	c.HTML(http.StatusOK, "home", data)
}

func (h *handler) pricing(c *gin.Context) {
	yearly := c.Query("billing") == "yearly"
	c.HTML(http.StatusOK, "pricing", pricingData{
		layoutData: h.layout(c, "定价"),
		Yearly:     yearly,
		Plans:      viewPlans(yearly),
	})
}

func (h *handler) settings(c *gin.Context) {
	data := settingsData{
		layoutData: h.layout(c, "API 设置"),
		ModelID:    models.DefaultModelID,
	}
	if cfg := h.config(c); cfg != nil {
		data.Credential = cfg.Credential
		data.ModelID = cfg.Model()
	}
	if h.deps.Models != nil {
		data.Models = h.deps.Models.ListModels()
	}
	c.HTML(http.StatusOK, "settings", data)
}

func (h *handler) static(name, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, name, h.layout(c, title))
	}
}

func (h *handler) notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "notfound", h.layout(c, "页面不存在"))
}

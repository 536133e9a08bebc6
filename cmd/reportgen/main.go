// Command reportgen generates a report from the terminal using the same
// settings store as the desktop app.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"

	"reportgen/internal/assets"
	"reportgen/internal/config"
	"reportgen/internal/events"
	"reportgen/internal/export"
	"reportgen/internal/llm/client"
	"reportgen/internal/logging"
	"reportgen/internal/models"
	"reportgen/internal/report"
	"reportgen/internal/repositories"
	"reportgen/internal/services"
)

const (
	exitOK          = 0
	exitError       = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	category     string
	depth        string
	brief        string
	out          string
	render       bool
	setKey       string
	setModel     string
	showSettings bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("reportgen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var o options
	fs.StringVar(&o.category, "type", report.DefaultCategory, "report category: "+categoryIDs())
	fs.StringVar(&o.depth, "depth", report.DefaultDepth, "depth level: basic, standard or deep")
	fs.StringVar(&o.brief, "brief", "", "report brief (read from stdin when empty)")
	fs.StringVar(&o.out, "out", "", "also write the report to this file (.md or .html)")
	fs.BoolVar(&o.render, "render", false, "render the finished report as terminal markdown instead of streaming")
	fs.StringVar(&o.setKey, "set-key", "", "store the OpenRouter API key and exit")
	fs.StringVar(&o.setModel, "set-model", "", "store the model id and exit")
	fs.BoolVar(&o.showSettings, "show-settings", false, "print the stored settings and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 && o.brief == "" {
		o.brief = strings.Join(fs.Args(), " ")
	}
	return &o, nil
}

func categoryIDs() string {
	ids := make([]string, 0, 5)
	for _, c := range report.Categories() {
		ids = append(ids, c.ID)
	}
	return strings.Join(ids, ", ")
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, "配置错误:", err)
		return exitError
	}
	if err := logging.Init(cfg.LogLevel, cfg.Env); err != nil {
		fmt.Fprintln(stderr, "日志初始化失败:", err)
		return exitError
	}
	defer logging.Sync()

	repo, closeStore, err := repositories.OpenSettings(cfg)
	if err != nil {
		fmt.Fprintln(stderr, "无法打开设置存储:", err)
		return exitError
	}
	defer closeStore()

	chat := client.New(client.Options{
		BaseURL: cfg.APIBaseURL,
		Referer: cfg.AppOrigin,
		Title:   cfg.AppTitle,
		Timeout: cfg.RequestTimeout,
	})
	svc, err := services.NewServices(repo, chat, assets.ModelsData)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}

	if opts.setKey != "" || opts.setModel != "" {
		return updateSettings(ctx, svc, opts, stdout, stderr)
	}
	if opts.showSettings {
		showSettings(ctx, svc, stdout)
		return exitOK
	}

	brief := opts.brief
	if brief == "" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintln(stderr, "读取输入失败:", err)
			return exitError
		}
		brief = string(data)
	}

	return generate(ctx, svc, cfg, opts, brief, stdout, stderr)
}

func updateSettings(ctx context.Context, svc *services.Services, opts *options, stdout, stderr io.Writer) int {
	current := models.Config{}
	if stored, ok := svc.Settings.Load(ctx); ok {
		current = *stored
	}
	if opts.setKey != "" {
		current.Credential = opts.setKey
	}
	if opts.setModel != "" {
		if _, err := svc.Models.GetModel(opts.setModel); err != nil {
			fmt.Fprintf(stderr, "提示: %s 不在内置模型列表中\n", opts.setModel)
		}
		current.ModelID = strings.TrimSpace(opts.setModel)
	}
	if err := svc.Settings.Save(ctx, current); err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}
	fmt.Fprintln(stdout, "已保存")
	return exitOK
}

func showSettings(ctx context.Context, svc *services.Services, stdout io.Writer) {
	cfg, ok := svc.Settings.Load(ctx)
	if !ok {
		fmt.Fprintln(stdout, "API Key: (未配置)")
		fmt.Fprintf(stdout, "模型: %s\n", models.DefaultModelID)
		return
	}
	key := "(未配置)"
	if cfg.HasCredential() {
		key = client.MaskKey(cfg.Credential)
	}
	fmt.Fprintf(stdout, "API Key: %s\n", key)
	fmt.Fprintf(stdout, "模型: %s\n", cfg.Model())
}

func generate(ctx context.Context, svc *services.Services, cfg *config.Config, opts *options, brief string, stdout, stderr io.Writer) int {
	if !opts.render {
		prev := events.Emit
		events.SetCustomEmitter(func(_ context.Context, name string, evt events.ReportEvent) {
			if name == events.ReportDelta {
				fmt.Fprint(stdout, evt.Delta)
			}
		})
		defer func() { events.Emit = prev }()
	}

	started := time.Now()
	result, err := svc.Generation.Generate(ctx, models.GenerationRequest{
		Category: opts.category,
		Depth:    opts.depth,
		Brief:    brief,
	})

	if result != nil && result.Output != "" {
		if opts.render {
			if isTerminal(stdout) {
				fmt.Fprint(stdout, renderMarkdown(result.Output))
			} else {
				fmt.Fprintln(stdout, result.Output)
			}
		} else {
			fmt.Fprintln(stdout)
		}
		if opts.out != "" {
			if werr := writeOutput(opts.out, result.Output, cfg.AppTitle); werr != nil {
				fmt.Fprintln(stderr, errorStyle.Render("写入文件失败: "+werr.Error()))
				if err == nil {
					return exitError
				}
			}
		}
	}

	switch {
	case errors.Is(err, services.ErrCanceled), ctx.Err() != nil:
		fmt.Fprintln(stderr, noticeStyle.Render(services.ErrCanceled.Error()))
		return exitInterrupted
	case err != nil:
		fmt.Fprintln(stderr, errorStyle.Render("错误: "+err.Error()))
		if result != nil && result.Incomplete && result.Output != "" {
			fmt.Fprintln(stderr, noticeStyle.Render("(报告不完整，已保留部分内容)"))
		}
		return exitError
	}

	fmt.Fprintln(stderr, summaryStyle.Render(fmt.Sprintf("✓ %s · %s · %s 字 · 用时 %s",
		result.Model,
		humanize.Bytes(uint64(result.Bytes)),
		humanize.Comma(int64(result.Runes)),
		time.Since(started).Round(100*time.Millisecond),
	)))
	return exitOK
}

func renderMarkdown(content string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return out
}

func writeOutput(path, output, title string) error {
	format := export.FormatMarkdown
	if strings.EqualFold(filepath.Ext(path), ".html") {
		format = export.FormatHTML
	}
	data, err := export.Render(format, output, title)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Package export turns the generated report into downloadable files.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat accepts "markdown"/"md" and "html"; blank means markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

func (f Format) Extension() string {
	if f == FormatHTML {
		return ".html"
	}
	return ".md"
}

func (f Format) MIMEType() string {
	if f == FormatHTML {
		return "text/html"
	}
	return "text/markdown"
}

// FileName is report-<unix millis> with the format's extension.
func FileName(f Format, now time.Time) string {
	return fmt.Sprintf("report-%d%s", now.UnixMilli(), f.Extension())
}

// Markdown returns the output unchanged.
func Markdown(output string) []byte {
	return []byte(output)
}

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

var documentTmpl = template.Must(template.New("document").Parse(`<!doctype html>
<html lang="zh-CN">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { max-width: 860px; margin: 40px auto; padding: 0 16px; font-family: system-ui, "PingFang SC", "Microsoft YaHei", sans-serif; line-height: 1.7; color: #1f2937; }
table { border-collapse: collapse; }
th, td { border: 1px solid #d1d5db; padding: 6px 10px; }
pre { background: #f3f4f6; padding: 12px; overflow-x: auto; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// HTML renders the markdown output into a standalone document. Raw HTML in the
// output is not passed through.
func HTML(output, title string) ([]byte, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(output), &body); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	var doc bytes.Buffer
	err := documentTmpl.Execute(&doc, struct {
		Title string
		Body  template.HTML
	}{Title: title, Body: template.HTML(body.String())})
	if err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}
	return doc.Bytes(), nil
}

// Render returns the file content for f.
func Render(f Format, output, title string) ([]byte, error) {
	if f == FormatHTML {
		return HTML(output, title)
	}
	return Markdown(output), nil
}

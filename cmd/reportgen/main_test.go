package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportgen/internal/llm/client"
)

type provider struct {
	srv   *httptest.Server
	calls atomic.Int32
	last  atomic.Pointer[client.ChatRequest]
}

func newProvider(t *testing.T) *provider {
	t.Helper()
	p := &provider{}
	p.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.calls.Add(1)
		var req client.ChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		p.last.Store(&req)
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"# 报告\\n\"}}]}\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"正文\"}}]}\n\ndata: [DONE]\n")
	}))
	t.Cleanup(p.srv.Close)
	return p
}

func setupEnv(t *testing.T, baseURL string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("REPORTGEN_DB_PATH", filepath.Join(dir, "settings.db"))
	t.Setenv("REPORTGEN_SETTINGS_BACKEND", "sqlite")
	t.Setenv("REPORTGEN_API_BASE_URL", baseURL)
	t.Setenv("REPORTGEN_LOG_LEVEL", "error")
	return dir
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_MissingCredentialMakesNoRequest(t *testing.T) {
	p := newProvider(t)
	setupEnv(t, p.srv.URL)

	code, _, stderr := runCLI(t, "", "-brief", "写一份报告")

	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "请先配置 API Key")
	assert.Zero(t, p.calls.Load())
}

func TestRun_SetKeyShowAndGenerate(t *testing.T) {
	p := newProvider(t)
	dir := setupEnv(t, p.srv.URL)

	code, stdout, _ := runCLI(t, "", "-set-key", "sk-or-v1-0123456789abcdef", "-set-model", "gpt-4o-mini")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "已保存")

	code, stdout, _ = runCLI(t, "", "-show-settings")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "sk-or-…cdef")
	assert.NotContains(t, stdout, "0123456789")
	assert.Contains(t, stdout, "gpt-4o-mini")

	out := filepath.Join(dir, "report.md")
	code, stdout, stderr := runCLI(t, "", "-type", "market", "-depth", "basic", "-brief", "新能源汽车", "-out", out)
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "# 报告\n正文\n", stdout)
	assert.Contains(t, stderr, "gpt-4o-mini")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "# 报告\n正文", string(data))

	req := p.last.Load()
	require.NotNil(t, req)
	assert.Equal(t, "gpt-4o-mini", req.Model)
	assert.Contains(t, req.Messages[0].Content, "市场调研")
	assert.Contains(t, req.Messages[0].Content, "500-1000字")
	assert.Equal(t, "新能源汽车", req.Messages[1].Content)
}

func TestRun_BriefFromStdin(t *testing.T) {
	p := newProvider(t)
	setupEnv(t, p.srv.URL)
	require.Equal(t, exitOK, func() int { c, _, _ := runCLI(t, "", "-set-key", "sk"); return c }())

	code, stdout, _ := runCLI(t, "来自标准输入的需求\n")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "正文")
	assert.Equal(t, "来自标准输入的需求\n", p.last.Load().Messages[1].Content)
}

func TestRun_EmptyBrief(t *testing.T) {
	p := newProvider(t)
	setupEnv(t, p.srv.URL)
	code, _, _ := runCLI(t, "", "-set-key", "sk")
	require.Equal(t, exitOK, code)

	code, _, stderr := runCLI(t, "   ")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "请输入报告需求")
	assert.Zero(t, p.calls.Load())
}

func TestRun_UnknownFlag(t *testing.T) {
	code, _, _ := runCLI(t, "", "-nope")
	assert.Equal(t, exitUsage, code)
}

func TestRun_InterruptedBeforeStart(t *testing.T) {
	p := newProvider(t)
	setupEnv(t, p.srv.URL)
	code, _, _ := runCLI(t, "", "-set-key", "sk")
	require.Equal(t, exitOK, code)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var stdout, stderr bytes.Buffer
	code = run(ctx, []string{"-brief", "x"}, strings.NewReader(""), &stdout, &stderr)
	assert.Equal(t, exitInterrupted, code)
}

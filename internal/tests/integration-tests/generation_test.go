package integration_tests

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportgen/internal/assets"
	"reportgen/internal/config"
	"reportgen/internal/llm/client"
	"reportgen/internal/models"
	"reportgen/internal/repositories"
	"reportgen/internal/services"
)

func openServices(t *testing.T, baseURL string) *services.Services {
	t.Helper()
	repo, closeStore, err := repositories.OpenSettings(&config.Config{
		SettingsBackend: config.BackendSQLite,
		DBPath:          filepath.Join(t.TempDir(), "settings.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeStore() })

	svc, err := services.NewServices(repo, client.New(client.Options{BaseURL: baseURL, Title: "AI Report Generator"}), assets.ModelsData)
	require.NoError(t, err)
	return svc
}

// Provider streams one byte per write so every line and code point arrives split.
func TestGeneration_EndToEndOverSplitStream(t *testing.T) {
	body := "data: {\"choices\":[{\"delta\":{\"content\":\"# 可行性研究\\n\"}}]}\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"结论：可行 ✅\"}}]}\n" +
		"data: [DONE]\n"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for i := 0; i < len(body); i++ {
			_, _ = w.Write([]byte{body[i]})
			flusher.Flush()
		}
	}))
	defer srv.Close()

	svc := openServices(t, srv.URL)
	ctx := context.Background()
	require.NoError(t, svc.Settings.Save(ctx, models.Config{Credential: "sk-or-v1-test"}))

	result, err := svc.Generation.Generate(ctx, models.GenerationRequest{Brief: "开一家咖啡店"})
	require.NoError(t, err)
	assert.Equal(t, "# 可行性研究\n结论：可行 ✅", result.Output)
	assert.Equal(t, result.Output, svc.Generation.Output())
	assert.Equal(t, 2, result.Deltas)
}

func TestGeneration_ProviderRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		fmt.Fprint(w, `{"error":{"message":"insufficient credits"}}`)
	}))
	defer srv.Close()

	svc := openServices(t, srv.URL)
	ctx := context.Background()
	require.NoError(t, svc.Settings.Save(ctx, models.Config{Credential: "sk-or-v1-test"}))

	result, err := svc.Generation.Generate(ctx, models.GenerationRequest{Brief: "x"})
	require.Error(t, err)
	assert.Equal(t, "API 请求失败: 402", err.Error())
	assert.Empty(t, result.Output)
}

// Talks to the real provider; runs only when REPORTGEN_OPENROUTER_API_KEY is set.
func TestGeneration_OpenRouter(t *testing.T) {
	apiKey := os.Getenv("REPORTGEN_OPENROUTER_API_KEY")
	if apiKey == "" {
		t.Skip("REPORTGEN_OPENROUTER_API_KEY not set")
	}

	svc := openServices(t, client.DefaultBaseURL)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	require.NoError(t, svc.Settings.Save(ctx, models.Config{Credential: apiKey}))

	result, err := svc.Generation.Generate(ctx, models.GenerationRequest{
		Category: "technical",
		Depth:    "basic",
		Brief:    "用三句话评估在小型团队中采用 Go 语言的可行性。",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(result.Output))
}

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/pkg/circuitbreaker"
)

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL string) config.AIConfig {
	return config.AIConfig{
		APIKey:      "sk-test",
		BaseURL:     baseURL,
		Model:       "deepseek-chat",
		Temperature: 0.7,
		MaxTokens:   2000,
		Timeout:     2 * time.Second,
	}
}

// TestComplete 请求体带模型参数，返回第一个choice
func TestComplete(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "deepseek-chat", body["model"])
		assert.EqualValues(t, 2000, body["max_tokens"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"推荐《三体》"},"finish_reason":"stop"}]}`))
	})

	client := NewClient(testConfig(srv.URL))
	reply, err := client.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "你是图书助手"},
		{Role: RoleUser, Content: "推荐一本科幻"},
	})
	require.NoError(t, err)
	assert.Equal(t, "推荐《三体》", reply)
}

// TestCompleteNotConfigured 没有API Key时不发请求
func TestCompleteNotConfigured(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.APIKey = ""
	_, err := NewClient(cfg).Complete(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

// TestCompleteBreakerOpens 连续失败后熔断器打开，不再请求上游
func TestCompleteBreakerOpens(t *testing.T) {
	calls := 0
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	})

	client := NewClient(testConfig(srv.URL))
	for i := 0; i < 5; i++ {
		_, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
		require.Error(t, err)
	}
	assert.Equal(t, circuitbreaker.StateOpen, client.BreakerState())

	before := calls
	_, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	assert.ErrorIs(t, err, circuitbreaker.ErrOpenState)
	assert.Equal(t, before, calls)
}

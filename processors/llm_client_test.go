package processors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"videoMindmap/config"
	"videoMindmap/core"
)

func TestOpenAIGeneratorRequest(t *testing.T) {
	var got struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	var auth, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"ok\":true}"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	g := NewOpenAIGenerator(config.ProviderDeepSeek, "sk-test", srv.URL+"/v1", "deepseek-chat", 0.7, 5*time.Second)
	out, err := g.Generate(context.Background(), "生成思维导图")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != `{"ok":true}` {
		t.Errorf("unexpected output %q", out)
	}
	if path != "/v1/chat/completions" {
		t.Errorf("unexpected path %q", path)
	}
	if auth != "Bearer sk-test" {
		t.Errorf("unexpected auth header %q", auth)
	}
	if got.Model != "deepseek-chat" {
		t.Errorf("unexpected model %q", got.Model)
	}
	if got.Temperature < 0.69 || got.Temperature > 0.71 {
		t.Errorf("expected temperature 0.7, got %v", got.Temperature)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" || got.Messages[0].Content != "生成思维导图" {
		t.Errorf("unexpected messages %+v", got.Messages)
	}
}

func TestOpenAIGeneratorUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	g := NewOpenAIGenerator(config.ProviderDeepSeek, "sk", srv.URL, "deepseek-chat", 0.7, time.Second)
	if _, err := g.Generate(context.Background(), "p"); !core.IsKind(err, core.KindUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestAnthropicGeneratorRequest(t *testing.T) {
	var got struct {
		Model       string  `json:"model"`
		MaxTokens   int     `json:"max_tokens"`
		Temperature float64 `json:"temperature"`
	}
	var key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key = r.Header.Get("X-Api-Key")
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-6","content":[{"type":"text","text":"结果"}],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":1}}`))
	}))
	defer srv.Close()

	g := NewAnthropicGenerator("ak-test", srv.URL, "claude-sonnet-4-6", 0.7, 1024, 5*time.Second)
	out, err := g.Generate(context.Background(), "p")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "结果" {
		t.Errorf("unexpected output %q", out)
	}
	if key != "ak-test" {
		t.Errorf("unexpected api key header %q", key)
	}
	if got.Model != "claude-sonnet-4-6" || got.MaxTokens != 1024 {
		t.Errorf("unexpected request %+v", got)
	}
	if got.Temperature < 0.69 || got.Temperature > 0.71 {
		t.Errorf("expected temperature 0.7, got %v", got.Temperature)
	}
}

func TestNewTextGenerator(t *testing.T) {
	cfg := config.Default()
	cfg.Generation.Provider = config.ProviderDeepSeek
	gen, err := NewTextGenerator(cfg)
	if gen != nil || !errors.Is(err, ErrGenerationKeyMissing) || !core.IsKind(err, core.KindConfig) {
		t.Fatalf("expected missing key config error, got %v %v", gen, err)
	}
	if err.Error() != "未设置DEEPSEEK_API_KEY环境变量: 未设置生成服务API密钥" {
		t.Errorf("unexpected message %q", err.Error())
	}

	cfg.Generation.DeepSeekAPIKey = "sk"
	gen, err = NewTextGenerator(cfg)
	if err != nil || gen.Provider() != config.ProviderDeepSeek {
		t.Fatalf("expected deepseek generator, got %v %v", gen, err)
	}

	cfg.Generation.Provider = config.ProviderAnthropic
	cfg.Generation.AnthropicAPIKey = "ak"
	gen, err = NewTextGenerator(cfg)
	if err != nil || gen.Provider() != config.ProviderAnthropic {
		t.Fatalf("expected anthropic generator, got %v %v", gen, err)
	}

	cfg.Generation.Provider = "mystery"
	if _, err := NewTextGenerator(cfg); !core.IsKind(err, core.KindConfig) {
		t.Errorf("expected config error for unknown provider, got %v", err)
	}
}

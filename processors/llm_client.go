package processors

import (
	"context"
	"errors"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/sashabaranov/go-openai"

	"videoMindmap/config"
	"videoMindmap/core"
)

// TextGenerator 文本生成服务
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Provider() string
}

// ErrGenerationKeyMissing 未配置生成服务密钥
var ErrGenerationKeyMissing = errors.New("未设置生成服务API密钥")

var errEmptyCompletion = errors.New("生成服务返回空结果")

// NewTextGenerator 按配置选择生成服务。密钥缺失时返回 nil 和配置错误。
func NewTextGenerator(cfg *config.Config) (TextGenerator, error) {
	g := cfg.Generation
	key := cfg.GenerationAPIKey()
	if key == "" {
		return nil, core.NewError(core.KindConfig, "未设置"+cfg.GenerationAPIKeyEnv()+"环境变量", ErrGenerationKeyMissing)
	}

	switch g.Provider {
	case config.ProviderAnthropic:
		return NewAnthropicGenerator(key, g.BaseURL, g.Model, g.Temperature, g.MaxTokens, g.Timeout), nil
	case config.ProviderDeepSeek, config.ProviderOpenAI, "":
		provider := g.Provider
		if provider == "" {
			provider = config.ProviderDeepSeek
		}
		return NewOpenAIGenerator(provider, key, g.BaseURL, g.Model, g.Temperature, g.Timeout), nil
	default:
		return nil, core.Errorf(core.KindConfig, "未知的生成服务提供商: %s", g.Provider)
	}
}

// ========== OpenAI 兼容接口（DeepSeek 默认） ==========

// OpenAIGenerator 调用 OpenAI 兼容的 chat completions 接口
type OpenAIGenerator struct {
	cli         *openai.Client
	provider    string
	model       string
	temperature float32
	timeout     time.Duration
}

// NewOpenAIGenerator baseURL 为空时使用 OpenAI 官方地址
func NewOpenAIGenerator(provider, apiKey, baseURL, model string, temperature float32, timeout time.Duration) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAIGenerator{
		cli:         openai.NewClientWithConfig(cfg),
		provider:    provider,
		model:       model,
		temperature: temperature,
		timeout:     timeout,
	}
}

func (g *OpenAIGenerator) Provider() string { return g.provider }

// Generate 以单条用户消息请求补全
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.cli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: g.temperature,
	})
	if err != nil {
		return "", core.NewError(core.KindUpstream, g.provider+" API调用失败", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", core.NewError(core.KindUpstream, g.provider+" API调用失败", errEmptyCompletion)
	}
	return resp.Choices[0].Message.Content, nil
}

// ========== Anthropic ==========

// AnthropicGenerator 调用 Anthropic Messages 接口
type AnthropicGenerator struct {
	client      anthropic.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
}

// NewAnthropicGenerator 创建 Anthropic 生成器，不做自动重试
func NewAnthropicGenerator(apiKey, baseURL, model string, temperature float32, maxTokens int, timeout time.Duration) *AnthropicGenerator {
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &AnthropicGenerator{
		client:      anthropic.NewClient(opts...),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		timeout:     timeout,
	}
}

func (g *AnthropicGenerator) Provider() string { return config.ProviderAnthropic }

func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: int64(g.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(float64(g.temperature)),
	})
	if err != nil {
		return "", core.NewError(core.KindUpstream, "anthropic API调用失败", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", core.NewError(core.KindUpstream, "anthropic API调用失败", errEmptyCompletion)
	}
	return sb.String(), nil
}

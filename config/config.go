package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// 生成服务提供商
const (
	ProviderDeepSeek  = "deepseek"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// DefaultConfigFile 默认配置文件；JSON 也是合法的 YAML，因此 config.json 同样可用
const DefaultConfigFile = "config.yaml"

// Config 进程级配置，启动时构建一次并注入到各组件
type Config struct {
	Summarization SummarizationConfig `yaml:"summarization" json:"summarization"`
	Generation    GenerationConfig    `yaml:"generation" json:"generation"`
	Render        RenderConfig        `yaml:"render" json:"render"`
	OutputDir     string              `yaml:"output_dir" json:"output_dir"`
	LogMode       string              `yaml:"log_mode" json:"log_mode"`
}

// SummarizationConfig 视频摘要服务（BibiGPT）配置
type SummarizationConfig struct {
	APIKey  string        `yaml:"api_key" json:"api_key"`
	BaseURL string        `yaml:"base_url" json:"base_url"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// GenerationConfig 文本生成服务配置
type GenerationConfig struct {
	Provider        string        `yaml:"provider" json:"provider"`
	DeepSeekAPIKey  string        `yaml:"deepseek_api_key" json:"deepseek_api_key"`
	OpenAIAPIKey    string        `yaml:"openai_api_key" json:"openai_api_key"`
	AnthropicAPIKey string        `yaml:"anthropic_api_key" json:"anthropic_api_key"`
	BaseURL         string        `yaml:"base_url" json:"base_url"`
	Model           string        `yaml:"model" json:"model"`
	Temperature     float32       `yaml:"temperature" json:"temperature"`
	MaxTokens       int           `yaml:"max_tokens" json:"max_tokens"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout"`
}

// RenderConfig 图片渲染配置
type RenderConfig struct {
	ChromePath     string        `yaml:"chrome_path" json:"chrome_path"`
	Timeout        time.Duration `yaml:"timeout" json:"timeout"`
	WaitTimeout    time.Duration `yaml:"wait_timeout" json:"wait_timeout"`
	ViewportWidth  int           `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight int           `yaml:"viewport_height" json:"viewport_height"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Summarization: SummarizationConfig{
			BaseURL: "https://api.bibigpt.co/api/open",
			Timeout: 120 * time.Second,
		},
		Generation: GenerationConfig{
			Provider:    ProviderDeepSeek,
			Temperature: 0.7,
			MaxTokens:   4096,
			Timeout:     120 * time.Second,
		},
		Render: RenderConfig{
			Timeout:        90 * time.Second,
			WaitTimeout:    30 * time.Second,
			ViewportWidth:  1600,
			ViewportHeight: 1000,
		},
		OutputDir: ".",
		LogMode:   "dev",
	}
}

// Load 按 默认值 -> 配置文件 -> 环境变量 的顺序构建配置。
// path 为空时尝试 DefaultConfigFile，文件不存在不算错误。
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
		}
	} else if explicit || !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyProviderDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Summarization.APIKey = getEnvOrDefault("BILIGPT_API_KEY", c.Summarization.APIKey)
	c.Summarization.BaseURL = getEnvOrDefault("BILIGPT_BASE_URL", c.Summarization.BaseURL)

	c.Generation.Provider = strings.ToLower(getEnvOrDefault("GENERATION_PROVIDER", c.Generation.Provider))
	c.Generation.DeepSeekAPIKey = getEnvOrDefault("DEEPSEEK_API_KEY", c.Generation.DeepSeekAPIKey)
	c.Generation.OpenAIAPIKey = getEnvOrDefault("OPENAI_API_KEY", c.Generation.OpenAIAPIKey)
	c.Generation.AnthropicAPIKey = getEnvOrDefault("ANTHROPIC_API_KEY", c.Generation.AnthropicAPIKey)
	c.Generation.BaseURL = getEnvOrDefault("GENERATION_BASE_URL", c.Generation.BaseURL)
	c.Generation.Model = getEnvOrDefault("GENERATION_MODEL", c.Generation.Model)
	if v := os.Getenv("GENERATION_TEMPERATURE"); v != "" {
		if t, err := strconv.ParseFloat(v, 32); err == nil {
			c.Generation.Temperature = float32(t)
		}
	}

	c.Render.ChromePath = getEnvOrDefault("CHROME_PATH", c.Render.ChromePath)
	c.OutputDir = getEnvOrDefault("OUTPUT_DIR", c.OutputDir)
	c.LogMode = getEnvOrDefault("LOG_MODE", c.LogMode)
}

// applyProviderDefaults 为未显式配置的提供商补全接口地址和模型
func (c *Config) applyProviderDefaults() {
	g := &c.Generation
	switch g.Provider {
	case ProviderDeepSeek:
		if g.BaseURL == "" {
			g.BaseURL = "https://api.deepseek.com/v1"
		}
		if g.Model == "" {
			g.Model = "deepseek-chat"
		}
	case ProviderOpenAI:
		if g.Model == "" {
			g.Model = "gpt-4o-mini"
		}
	case ProviderAnthropic:
		if g.Model == "" {
			g.Model = "claude-sonnet-4-6"
		}
	}
}

// GenerationAPIKey 返回当前提供商对应的密钥
func (c *Config) GenerationAPIKey() string {
	switch c.Generation.Provider {
	case ProviderOpenAI:
		return c.Generation.OpenAIAPIKey
	case ProviderAnthropic:
		return c.Generation.AnthropicAPIKey
	default:
		return c.Generation.DeepSeekAPIKey
	}
}

// GenerationAPIKeyEnv 返回当前提供商密钥对应的环境变量名
func (c *Config) GenerationAPIKeyEnv() string {
	switch c.Generation.Provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return "DEEPSEEK_API_KEY"
	}
}

// Validate 校验配置。API 密钥不在此处强制要求：缺失密钥只会让对应工具调用失败。
func (c *Config) Validate() error {
	var problems []string

	switch c.Generation.Provider {
	case ProviderDeepSeek, ProviderOpenAI, ProviderAnthropic:
	default:
		problems = append(problems, fmt.Sprintf("未知的生成服务提供商: %q", c.Generation.Provider))
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		problems = append(problems, "generation.temperature 必须在 0 到 2 之间")
	}
	if c.Generation.MaxTokens <= 0 {
		problems = append(problems, "generation.max_tokens 必须大于 0")
	}
	if c.Generation.Timeout <= 0 {
		problems = append(problems, "generation.timeout 必须大于 0")
	}
	if strings.TrimSpace(c.Summarization.BaseURL) == "" {
		problems = append(problems, "summarization.base_url 不能为空")
	}
	if c.Summarization.Timeout <= 0 {
		problems = append(problems, "summarization.timeout 必须大于 0")
	}
	if c.Render.Timeout <= 0 || c.Render.WaitTimeout <= 0 {
		problems = append(problems, "render.timeout 和 render.wait_timeout 必须大于 0")
	}
	if c.Render.WaitTimeout > c.Render.Timeout {
		problems = append(problems, "render.wait_timeout 不能超过 render.timeout")
	}
	if c.Render.ViewportWidth <= 0 || c.Render.ViewportHeight <= 0 {
		problems = append(problems, "render 视口尺寸必须大于 0")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
